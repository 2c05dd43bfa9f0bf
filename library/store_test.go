package library

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestJSONBookStoreMissingFile(t *testing.T) {
	store := NewJSONBookStore(filepath.Join(t.TempDir(), "books.json"))
	books, err := store.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(books) != 0 {
		t.Fatalf("want empty catalog, got %d books", len(books))
	}
	if store.Exists() {
		t.Fatalf("store should not exist before first save")
	}
}

func TestJSONUserStoreMissingFile(t *testing.T) {
	store := NewJSONUserStore(filepath.Join(t.TempDir(), "users.json"))
	users, err := store.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(users) != 0 {
		t.Fatalf("want empty user map, got %d users", len(users))
	}
}

func TestJSONStoreCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "books.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatalf("write corrupt file: %v", err)
	}

	store := NewJSONBookStore(path)
	books, err := store.Load()
	if err != nil {
		t.Fatalf("load corrupt: %v", err)
	}
	if len(books) != 0 {
		t.Fatalf("corrupt store should load as empty, got %d books", len(books))
	}
	// A corrupt file still counts as existing so seeding won't clobber it.
	if !store.Exists() {
		t.Fatalf("corrupt store file should still exist")
	}
}

func TestJSONBookStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "books.json")
	store := NewJSONBookStore(path)

	borrower := "alice"
	due := "2026-09-06"
	in := []Book{
		{ID: 1, Title: "Dune", Author: "Frank Herbert", Status: StatusAvailable, Summary: "Sand."},
		{ID: 2, Title: "1984", Author: "George Orwell", Status: StatusCheckedOut, Borrower: &borrower, DueDate: &due},
	}
	if err := store.Save(in); err != nil {
		t.Fatalf("save: %v", err)
	}

	out, err := store.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("want 2 books, got %d", len(out))
	}
	if out[0].Title != "Dune" || out[1].Borrower == nil || *out[1].Borrower != "alice" {
		t.Fatalf("round trip mismatch: %+v", out)
	}
	if out[0].Borrower != nil || out[0].DueDate != nil {
		t.Fatalf("available book should have nil borrower and due date")
	}

	// The file must stay human-readable: pretty-printed, null for absent fields.
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read file: %v", err)
	}
	if !strings.Contains(string(data), "\n    ") {
		t.Fatalf("store file should be indented:\n%s", data)
	}
	if !strings.Contains(string(data), `"borrower": null`) {
		t.Fatalf("available book should serialize borrower as null:\n%s", data)
	}
}

func TestJSONUserStoreRoundTrip(t *testing.T) {
	store := NewJSONUserStore(filepath.Join(t.TempDir(), "users.json"))
	in := map[string]User{
		"admin": {PasswordHash: "x", Role: RoleLibrarian},
		"bob":   {PasswordHash: "y", Role: RoleStudent},
	}
	if err := store.Save(in); err != nil {
		t.Fatalf("save: %v", err)
	}
	out, err := store.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(out) != 2 || out["admin"].Role != RoleLibrarian || out["bob"].Role != RoleStudent {
		t.Fatalf("round trip mismatch: %+v", out)
	}
}

func TestSQLiteStoreRoundTrip(t *testing.T) {
	db, err := NewSQLiteStore(filepath.Join(t.TempDir(), "library.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	books := db.Books()
	users := db.Users()

	if books.Exists() || users.Exists() {
		t.Fatalf("fresh database should report empty stores")
	}

	borrower := "mridul"
	due := "2026-08-18"
	in := []Book{
		{ID: 3, Title: "Sapiens", Author: "Harari", Status: StatusCheckedOut, Borrower: &borrower, DueDate: &due, Summary: "History."},
		{ID: 1, Title: "Dune", Author: "Herbert", Status: StatusAvailable},
	}
	if err := books.Save(in); err != nil {
		t.Fatalf("save books: %v", err)
	}

	out, err := books.Load()
	if err != nil {
		t.Fatalf("load books: %v", err)
	}
	// Stored order, not id order.
	if len(out) != 2 || out[0].ID != 3 || out[1].ID != 1 {
		t.Fatalf("order not preserved: %+v", out)
	}
	if out[0].Borrower == nil || *out[0].Borrower != "mridul" || out[0].DueDate == nil || *out[0].DueDate != "2026-08-18" {
		t.Fatalf("checked out fields lost: %+v", out[0])
	}
	if out[1].Borrower != nil || out[1].DueDate != nil {
		t.Fatalf("available book should have nil borrower and due date")
	}

	if err := users.Save(map[string]User{"admin": {PasswordHash: "h", Role: RoleLibrarian}}); err != nil {
		t.Fatalf("save users: %v", err)
	}
	accounts, err := users.Load()
	if err != nil {
		t.Fatalf("load users: %v", err)
	}
	if accounts["admin"].Role != RoleLibrarian {
		t.Fatalf("user round trip mismatch: %+v", accounts)
	}

	if !books.Exists() || !users.Exists() {
		t.Fatalf("stores should exist after save")
	}
}

func TestSQLiteStoreSaveReplaces(t *testing.T) {
	db, err := NewSQLiteStore(filepath.Join(t.TempDir(), "library.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	books := db.Books()
	if err := books.Save([]Book{{ID: 1, Title: "A", Author: "X", Status: StatusAvailable}}); err != nil {
		t.Fatalf("first save: %v", err)
	}
	if err := books.Save([]Book{{ID: 2, Title: "B", Author: "Y", Status: StatusAvailable}}); err != nil {
		t.Fatalf("second save: %v", err)
	}
	out, err := books.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(out) != 1 || out[0].ID != 2 {
		t.Fatalf("save should replace the catalog, got %+v", out)
	}
}
