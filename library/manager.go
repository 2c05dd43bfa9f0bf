package library

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Sentinel errors for expected failure modes. The CLI layer matches on
// these with errors.Is to pick the user-facing message; none of them should
// ever reach the top level.
var (
	ErrEmptyQuery        = errors.New("search term cannot be empty")
	ErrEmptyField        = errors.New("title and author cannot be empty")
	ErrBookNotFound      = errors.New("book not found")
	ErrAlreadyCheckedOut = errors.New("book is already checked out")
	ErrAlreadyAvailable  = errors.New("book is already available")
	ErrNotBorrower       = errors.New("book was borrowed by another user")
	ErrDuplicateBook     = errors.New("book with this title and author already exists")
)

// Manager implements the catalog, circulation, and administration
// operations over the two stores. Every operation reloads the collection it
// touches, mutates the loaded copy, and saves; on save failure the copy is
// discarded and the error returned, so memory and disk never diverge.
type Manager struct {
	books      BookStore
	users      UserStore
	borrowDays int

	now func() time.Time // test hook
}

// NewManager wires the stores and the borrow policy together.
func NewManager(books BookStore, users UserStore, borrowDays int) *Manager {
	return &Manager{
		books:      books,
		users:      users,
		borrowDays: borrowDays,
		now:        time.Now,
	}
}

// ------------------ Catalog ------------------

// ListBooks returns the full catalog in stored order.
func (m *Manager) ListBooks() ([]Book, error) {
	return m.books.Load()
}

// SearchBooks returns books whose title, author, or summary contains the
// query, case-insensitively, in stored order. An empty query is a user
// error, not an empty result.
func (m *Manager) SearchBooks(query string) ([]Book, error) {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return nil, ErrEmptyQuery
	}

	books, err := m.books.Load()
	if err != nil {
		return nil, err
	}

	var results []Book
	for _, b := range books {
		if strings.Contains(strings.ToLower(b.Title), query) ||
			strings.Contains(strings.ToLower(b.Author), query) ||
			strings.Contains(strings.ToLower(b.Summary), query) {
			results = append(results, b)
		}
	}
	return results, nil
}

// ------------------ Circulation ------------------

// Checkout loans the book to username for the configured borrow duration.
// On success the returned book carries the new due date. If the book is
// already out, it is returned alongside ErrAlreadyCheckedOut so the caller
// can report the current due date.
func (m *Manager) Checkout(username string, id int) (*Book, error) {
	books, err := m.books.Load()
	if err != nil {
		return nil, err
	}

	i := findBook(books, id)
	if i < 0 {
		return nil, fmt.Errorf("id %d: %w", id, ErrBookNotFound)
	}
	if !books[i].Available() {
		out := books[i]
		return &out, fmt.Errorf("%q: %w", out.Title, ErrAlreadyCheckedOut)
	}

	due := m.now().AddDate(0, 0, m.borrowDays).Format("2006-01-02")
	books[i].Status = StatusCheckedOut
	books[i].Borrower = &username
	books[i].DueDate = &due

	if err := m.books.Save(books); err != nil {
		return nil, fmt.Errorf("save checkout: %w", err)
	}
	out := books[i]
	return &out, nil
}

// CheckedOut returns the loans visible to the caller: librarians see every
// checked-out book, students only their own.
func (m *Manager) CheckedOut(username string, role Role) ([]Book, error) {
	books, err := m.books.Load()
	if err != nil {
		return nil, err
	}

	var out []Book
	for _, b := range books {
		if b.Status != StatusCheckedOut {
			continue
		}
		if role == RoleLibrarian || (b.Borrower != nil && *b.Borrower == username) {
			out = append(out, b)
		}
	}
	return out, nil
}

// Return ends the loan on the book. Students may only return their own
// loans; librarians may return any. The prior borrower's name is returned
// for the confirmation message. ErrNotBorrower carries the book so the
// caller can name the actual borrower.
func (m *Manager) Return(username string, role Role, id int) (*Book, string, error) {
	books, err := m.books.Load()
	if err != nil {
		return nil, "", err
	}

	i := findBook(books, id)
	if i < 0 {
		return nil, "", fmt.Errorf("id %d: %w", id, ErrBookNotFound)
	}
	if books[i].Available() {
		out := books[i]
		return &out, "", fmt.Errorf("%q: %w", out.Title, ErrAlreadyAvailable)
	}
	if role != RoleLibrarian && (books[i].Borrower == nil || *books[i].Borrower != username) {
		out := books[i]
		return &out, "", fmt.Errorf("%q: %w", out.Title, ErrNotBorrower)
	}

	borrower := ""
	if books[i].Borrower != nil {
		borrower = *books[i].Borrower
	}
	books[i].Status = StatusAvailable
	books[i].Borrower = nil
	books[i].DueDate = nil

	if err := m.books.Save(books); err != nil {
		return nil, "", fmt.Errorf("save return: %w", err)
	}
	out := books[i]
	return &out, borrower, nil
}

// ------------------ Administration ------------------

// AddBook appends a new available book with the next free id. Title and
// author must be non-empty after trimming; an existing book with the same
// title and author (case-insensitive) is a duplicate and is returned
// alongside ErrDuplicateBook.
func (m *Manager) AddBook(title, author, summary string) (*Book, error) {
	title = strings.TrimSpace(title)
	author = strings.TrimSpace(author)
	summary = strings.TrimSpace(summary)
	if title == "" || author == "" {
		return nil, ErrEmptyField
	}

	books, err := m.books.Load()
	if err != nil {
		return nil, err
	}

	for _, b := range books {
		if strings.EqualFold(b.Title, title) && strings.EqualFold(b.Author, author) {
			out := b
			return &out, fmt.Errorf("id %d: %w", b.ID, ErrDuplicateBook)
		}
	}

	book := Book{
		ID:      nextBookID(books),
		Title:   title,
		Author:  author,
		Status:  StatusAvailable,
		Summary: summary,
	}
	books = append(books, book)

	if err := m.books.Save(books); err != nil {
		return nil, fmt.Errorf("save new book: %w", err)
	}
	return &book, nil
}

// Users returns the account map for the user listing.
func (m *Manager) Users() (map[string]User, error) {
	return m.users.Load()
}

// ------------------ Helpers ------------------

// findBook linear-scans for the first record with the given id.
func findBook(books []Book, id int) int {
	for i := range books {
		if books[i].ID == id {
			return i
		}
	}
	return -1
}

// nextBookID is max(existing ids)+1, or 1 for an empty catalog.
func nextBookID(books []Book) int {
	max := 0
	for _, b := range books {
		if b.ID > max {
			max = b.ID
		}
	}
	return max + 1
}
