package library

import (
	"errors"
	"path/filepath"
	"testing"
)

func newAuthManager(t *testing.T) *Manager {
	t.Helper()
	dir := t.TempDir()
	users := NewJSONUserStore(filepath.Join(dir, "users.json"))
	books := NewJSONBookStore(filepath.Join(dir, "books.json"))

	hash, err := HashPassword("s3cret")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if err := users.Save(map[string]User{
		"alice": {PasswordHash: hash, Role: RoleStudent},
	}); err != nil {
		t.Fatalf("save users: %v", err)
	}
	return NewManager(books, users, 14)
}

func TestLoginSuccess(t *testing.T) {
	m := newAuthManager(t)
	role, err := m.Login("alice", "s3cret")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if role != RoleStudent {
		t.Fatalf("want student role, got %s", role)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	m := newAuthManager(t)
	if _, err := m.Login("alice", "wrong"); !errors.Is(err, ErrBadCredentials) {
		t.Fatalf("want ErrBadCredentials, got %v", err)
	}
}

func TestLoginUnknownUser(t *testing.T) {
	m := newAuthManager(t)
	if _, err := m.Login("mallory", "s3cret"); !errors.Is(err, ErrBadCredentials) {
		t.Fatalf("want ErrBadCredentials, got %v", err)
	}
}

func TestLoginEmptyStore(t *testing.T) {
	dir := t.TempDir()
	m := NewManager(
		NewJSONBookStore(filepath.Join(dir, "books.json")),
		NewJSONUserStore(filepath.Join(dir, "users.json")),
		14,
	)

	ok, err := m.HasUsers()
	if err != nil {
		t.Fatalf("has users: %v", err)
	}
	if ok {
		t.Fatalf("empty store should report no users")
	}
	if _, err := m.Login("anyone", "anything"); !errors.Is(err, ErrNoUsers) {
		t.Fatalf("want ErrNoUsers, got %v", err)
	}
}
