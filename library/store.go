package library

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// BookStore persists the ordered book collection. Load returns an empty
// slice when the store does not exist yet.
type BookStore interface {
	Load() ([]Book, error)
	Save(books []Book) error
}

// UserStore persists the username -> account mapping. Load returns an empty
// map when the store does not exist yet.
type UserStore interface {
	Load() (map[string]User, error)
	Save(users map[string]User) error
}

// ---------------------------------------------------------------------------
// JSON file stores
// ---------------------------------------------------------------------------

// JSONBookStore keeps the catalog in a pretty-printed JSON array, one file.
type JSONBookStore struct {
	path string
}

// JSONUserStore keeps accounts in a pretty-printed JSON object keyed by
// username, one file.
type JSONUserStore struct {
	path string
}

func NewJSONBookStore(path string) *JSONBookStore { return &JSONBookStore{path: path} }
func NewJSONUserStore(path string) *JSONUserStore { return &JSONUserStore{path: path} }

// Load reads the catalog. A missing file is an empty catalog; a malformed
// file is tolerated with a warning so a damaged store never takes the
// program down.
func (s *JSONBookStore) Load() ([]Book, error) {
	var books []Book
	if err := loadJSON(s.path, &books); err != nil {
		return []Book{}, err
	}
	if books == nil {
		books = []Book{}
	}
	return books, nil
}

func (s *JSONBookStore) Save(books []Book) error {
	return saveJSON(s.path, books)
}

func (s *JSONUserStore) Load() (map[string]User, error) {
	var users map[string]User
	if err := loadJSON(s.path, &users); err != nil {
		return map[string]User{}, err
	}
	if users == nil {
		users = map[string]User{}
	}
	return users, nil
}

func (s *JSONUserStore) Save(users map[string]User) error {
	return saveJSON(s.path, users)
}

// loadJSON fills v from path. Missing file leaves v untouched and returns
// nil. Unreadable or malformed content is reported on stderr and v is left
// at its zero value, again returning nil: callers always get a usable
// (possibly empty) collection.
func loadJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: cannot read %s: %v\n", path, err)
		return nil
	}
	if err := json.Unmarshal(data, v); err != nil {
		fmt.Fprintf(os.Stderr, "warning: %s is corrupt, starting with empty data: %v\n", path, err)
		return nil
	}
	return nil
}

// saveJSON writes v pretty-printed. The indent keeps the store files
// human-readable and diffable.
func saveJSON(path string, v any) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create store dir: %w", err)
		}
	}
	data, err := json.MarshalIndent(v, "", "    ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// Exists reports whether the store file is already present, used by the
// seeding step to stay idempotent.
func (s *JSONBookStore) Exists() bool { return fileExists(s.path) }
func (s *JSONUserStore) Exists() bool { return fileExists(s.path) }

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
