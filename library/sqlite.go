package library

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
)

// SQLiteStore backs both collections with a single SQLite database. It
// keeps the same whole-collection Load/Save contract as the JSON stores, so
// the rest of the program is oblivious to the storage engine.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (or creates) the SQLite database at dbPath and
// applies schema migrations.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	// Ensure directory exists so first-run succeeds.
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
	}

	dsn := fmt.Sprintf("file:%s?_busy_timeout=5000&_foreign_keys=1", dbPath)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if err := applyMigrations(db); err != nil {
		db.Close()
		return nil, err
	}
	return &SQLiteStore{db: db}, nil
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error { return s.db.Close() }

// Books returns a BookStore view of the database.
func (s *SQLiteStore) Books() *SQLiteBookStore { return &SQLiteBookStore{db: s.db} }

// Users returns a UserStore view of the database.
func (s *SQLiteStore) Users() *SQLiteUserStore { return &SQLiteUserStore{db: s.db} }

// ---------------------------------------------------------------------------
// Schema migration
// ---------------------------------------------------------------------------

const schemaVersion = 1

func applyMigrations(db *sql.DB) error {
	if _, err := db.Exec("PRAGMA journal_mode=WAL;"); err != nil {
		return fmt.Errorf("enable WAL: %w", err)
	}

	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS meta (key TEXT PRIMARY KEY, value TEXT);`); err != nil {
		return err
	}

	var current int
	_ = db.QueryRow(`SELECT value FROM meta WHERE key='schema_version';`).Scan(&current)
	if current >= schemaVersion {
		return nil
	}

	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmts := []string{
		`CREATE TABLE IF NOT EXISTS users (
            username TEXT PRIMARY KEY,
            password_hash TEXT NOT NULL,
            role TEXT NOT NULL
        );`,
		`CREATE TABLE IF NOT EXISTS books (
            id INTEGER PRIMARY KEY,
            title TEXT NOT NULL,
            author TEXT NOT NULL,
            status TEXT NOT NULL,
            borrower TEXT,
            due_date TEXT,
            summary TEXT NOT NULL DEFAULT '',
            position INTEGER NOT NULL
        );`,
		`INSERT INTO meta(key,value) VALUES('schema_version',?)
            ON CONFLICT(key) DO UPDATE SET value=excluded.value;`,
	}

	for _, stmt := range stmts {
		if _, err := tx.Exec(stmt, schemaVersion); err != nil {
			return fmt.Errorf("apply migration: %w", err)
		}
	}

	return tx.Commit()
}

// ---------------------------------------------------------------------------
// Book store view
// ---------------------------------------------------------------------------

type SQLiteBookStore struct {
	db *sql.DB
}

// Load returns all books in stored order.
func (s *SQLiteBookStore) Load() ([]Book, error) {
	rows, err := s.db.Query(`SELECT id,title,author,status,borrower,due_date,summary FROM books ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("load books: %w", err)
	}
	defer rows.Close()

	books := []Book{}
	for rows.Next() {
		var b Book
		var borrower, due sql.NullString
		if err := rows.Scan(&b.ID, &b.Title, &b.Author, &b.Status, &borrower, &due, &b.Summary); err != nil {
			return nil, fmt.Errorf("scan book: %w", err)
		}
		if borrower.Valid {
			b.Borrower = &borrower.String
		}
		if due.Valid {
			b.DueDate = &due.String
		}
		books = append(books, b)
	}
	return books, rows.Err()
}

// Save replaces the whole catalog in one transaction, preserving slice
// order via the position column.
func (s *SQLiteBookStore) Save(books []Book) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM books`); err != nil {
		return fmt.Errorf("clear books: %w", err)
	}
	stmt, err := tx.Prepare(`INSERT INTO books(id,title,author,status,borrower,due_date,summary,position) VALUES(?,?,?,?,?,?,?,?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, b := range books {
		var borrower, due any
		if b.Borrower != nil {
			borrower = *b.Borrower
		}
		if b.DueDate != nil {
			due = *b.DueDate
		}
		if _, err := stmt.Exec(b.ID, b.Title, b.Author, b.Status, borrower, due, b.Summary, i); err != nil {
			return fmt.Errorf("save book %d: %w", b.ID, err)
		}
	}
	return tx.Commit()
}

// Exists reports whether any books have ever been saved.
func (s *SQLiteBookStore) Exists() bool {
	var n int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM books`).Scan(&n); err != nil {
		return false
	}
	return n > 0
}

// ---------------------------------------------------------------------------
// User store view
// ---------------------------------------------------------------------------

type SQLiteUserStore struct {
	db *sql.DB
}

func (s *SQLiteUserStore) Load() (map[string]User, error) {
	rows, err := s.db.Query(`SELECT username,password_hash,role FROM users`)
	if err != nil {
		return nil, fmt.Errorf("load users: %w", err)
	}
	defer rows.Close()

	users := map[string]User{}
	for rows.Next() {
		var name string
		var u User
		if err := rows.Scan(&name, &u.PasswordHash, &u.Role); err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users[name] = u
	}
	return users, rows.Err()
}

func (s *SQLiteUserStore) Save(users map[string]User) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM users`); err != nil {
		return fmt.Errorf("clear users: %w", err)
	}
	stmt, err := tx.Prepare(`INSERT INTO users(username,password_hash,role) VALUES(?,?,?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for name, u := range users {
		if _, err := stmt.Exec(name, u.PasswordHash, u.Role); err != nil {
			return fmt.Errorf("save user %s: %w", name, err)
		}
	}
	return tx.Commit()
}

func (s *SQLiteUserStore) Exists() bool {
	var n int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM users`).Scan(&n); err != nil {
		return false
	}
	return n > 0
}
