package library

import (
	"path/filepath"
	"testing"
	"time"
)

func TestSeedBooks(t *testing.T) {
	store := NewJSONBookStore(filepath.Join(t.TempDir(), "books.json"))

	seeded, err := SeedBooks(store)
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	if !seeded {
		t.Fatalf("first seed should write the store")
	}

	books, err := store.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(books) != 4 {
		t.Fatalf("want 4 seed books, got %d", len(books))
	}
	for i, b := range books {
		if b.ID != i+1 {
			t.Fatalf("seed ids should be 1..4, got %d at %d", b.ID, i)
		}
	}

	// Sapiens demonstrates the overdue state out of the box.
	sapiens := books[2]
	if sapiens.Status != StatusCheckedOut || sapiens.Borrower == nil || *sapiens.Borrower != "student1" {
		t.Fatalf("sapiens should be seeded checked out to student1: %+v", sapiens)
	}
	wantDue := time.Now().AddDate(0, 0, -5).Format("2006-01-02")
	if sapiens.DueDate == nil || *sapiens.DueDate != wantDue {
		t.Fatalf("sapiens due date: want %s, got %v", wantDue, sapiens.DueDate)
	}
	if !Overdue(&sapiens, time.Now()) {
		t.Fatalf("sapiens should be overdue at first run")
	}
}

func TestSeedBooksIdempotent(t *testing.T) {
	store := NewJSONBookStore(filepath.Join(t.TempDir(), "books.json"))

	if _, err := SeedBooks(store); err != nil {
		t.Fatalf("seed: %v", err)
	}

	// Mutate the store, reseed, and make sure nothing was overwritten.
	books, _ := store.Load()
	books = append(books, Book{ID: 5, Title: "Added", Author: "Later", Status: StatusAvailable})
	if err := store.Save(books); err != nil {
		t.Fatalf("save: %v", err)
	}

	seeded, err := SeedBooks(store)
	if err != nil {
		t.Fatalf("reseed: %v", err)
	}
	if seeded {
		t.Fatalf("second seed must be a no-op")
	}
	books, _ = store.Load()
	if len(books) != 5 {
		t.Fatalf("reseed overwrote the store, got %d books", len(books))
	}
}

func TestSeedUsersAndLogin(t *testing.T) {
	dir := t.TempDir()
	users := NewJSONUserStore(filepath.Join(dir, "users.json"))
	books := NewJSONBookStore(filepath.Join(dir, "books.json"))

	seeded, err := SeedUsers(users)
	if err != nil {
		t.Fatalf("seed users: %v", err)
	}
	if !seeded {
		t.Fatalf("first seed should write the store")
	}

	m := NewManager(books, users, 14)

	role, err := m.Login("admin", "admin123")
	if err != nil {
		t.Fatalf("admin login: %v", err)
	}
	if role != RoleLibrarian {
		t.Fatalf("admin should be librarian, got %s", role)
	}

	role, err = m.Login("mridul", "jamesbond007")
	if err != nil {
		t.Fatalf("student login: %v", err)
	}
	if role != RoleStudent {
		t.Fatalf("mridul should be student, got %s", role)
	}

	// Passwords are stored hashed, never plaintext.
	accounts, _ := users.Load()
	if accounts["admin"].PasswordHash == "admin123" {
		t.Fatalf("password stored in plaintext")
	}

	if seeded, _ := SeedUsers(users); seeded {
		t.Fatalf("second user seed must be a no-op")
	}
}
