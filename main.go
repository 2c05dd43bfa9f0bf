package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"
	"syscall"
	"time"

	"library-catalog/library"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

const loginAttempts = 3

type config struct {
	usersFile  string
	booksFile  string
	storeKind  string
	dbFile     string
	borrowDays int
}

func main() {
	var cfg config

	root := &cobra.Command{
		Use:           "library-catalog",
		Short:         "Interactive university library catalog",
		Long:          "A single-session terminal application for browsing, borrowing, and managing a small library catalog.",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cfg)
		},
	}

	root.Flags().StringVar(&cfg.usersFile, "users-file", "library_users.json", "path of the JSON user store")
	root.Flags().StringVar(&cfg.booksFile, "books-file", "library_books.json", "path of the JSON book store")
	root.Flags().StringVar(&cfg.storeKind, "store", "json", "storage backend: json or sqlite")
	root.Flags().StringVar(&cfg.dbFile, "db-file", "library.db", "path of the SQLite database (with --store sqlite)")
	root.Flags().IntVar(&cfg.borrowDays, "borrow-days", 14, "loan duration in days")

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(cfg config) error {
	books, users, closeStores, err := openStores(cfg)
	if err != nil {
		return err
	}
	defer closeStores()

	if seeded, err := library.SeedUsers(users); err != nil {
		return err
	} else if seeded {
		fmt.Printf("Initializing %s...\n", cfg.usersFile)
	}
	if seeded, err := library.SeedBooks(books); err != nil {
		return err
	} else if seeded {
		fmt.Printf("Initializing %s...\n", cfg.booksFile)
	}

	mgr := library.NewManager(books, users, cfg.borrowDays)
	sc := bufio.NewScanner(os.Stdin)

	username, role := login(sc, mgr)
	mainMenu(sc, mgr, username, role)
	return nil
}

// openStores builds the configured storage backend behind the two store
// interfaces.
func openStores(cfg config) (library.BookStore, library.UserStore, func(), error) {
	switch cfg.storeKind {
	case "json":
		return library.NewJSONBookStore(cfg.booksFile), library.NewJSONUserStore(cfg.usersFile), func() {}, nil
	case "sqlite":
		db, err := library.NewSQLiteStore(cfg.dbFile)
		if err != nil {
			return nil, nil, nil, err
		}
		return db.Books(), db.Users(), func() { db.Close() }, nil
	default:
		return nil, nil, nil, fmt.Errorf("unknown store backend %q (want json or sqlite)", cfg.storeKind)
	}
}

// readPassword reads a password with masking when stdin is a terminal,
// falling back to a plain line otherwise (pipes, tests).
func readPassword(sc *bufio.Scanner, prompt string) (string, error) {
	library.Bold.Print(prompt)
	bytePassword, err := term.ReadPassword(int(syscall.Stdin))
	if err == nil {
		fmt.Println()
		return strings.TrimSpace(string(bytePassword)), nil
	}
	if !sc.Scan() {
		return "", io.EOF
	}
	return strings.TrimSpace(sc.Text()), nil
}

// login prompts for credentials up to loginAttempts times. It terminates
// the process on an empty user store or on exhausting the attempts; the
// menu only ever runs with a verified session.
func login(sc *bufio.Scanner, mgr *library.Manager) (string, library.Role) {
	library.PrintHeader("University Library Login")

	ok, err := mgr.HasUsers()
	if err != nil {
		library.Fail.Printf("Cannot read user data: %v\n", err)
		os.Exit(1)
	}
	if !ok {
		library.Fail.Println("User data file not found or empty. Please run initialization.")
		os.Exit(1)
	}

	for attempts := loginAttempts; attempts > 0; {
		library.Bold.Print(" Username: ")
		if !sc.Scan() {
			os.Exit(1)
		}
		username := strings.TrimSpace(sc.Text())

		password, err := readPassword(sc, " Password: ")
		if err != nil {
			os.Exit(1)
		}

		role, err := mgr.Login(username, password)
		if err == nil {
			library.Success.Printf("\n✓ Login successful! Welcome, %s.\n", username)
			time.Sleep(1500 * time.Millisecond)
			return username, role
		}

		attempts--
		library.Fail.Printf("\n✗ Invalid username or password. %d attempts remaining.\n", attempts)
		if attempts == 0 {
			library.Fail.Println("\n⚠ Too many failed attempts. Exiting.")
			os.Exit(1)
		}
		time.Sleep(time.Second)
		fmt.Println(strings.Repeat("-", 30))
	}
	// Unreachable; the loop always returns or exits.
	return "", ""
}

// ---------------------------------------------------------------------------
// Menu
// ---------------------------------------------------------------------------

// menuAction maps a menu choice onto its handler and required privilege,
// replacing ad-hoc string checks with one permission table.
type menuAction struct {
	label         string
	librarianOnly bool
	run           func(sc *bufio.Scanner, mgr *library.Manager, username string, role library.Role)
}

var menuActions = map[string]menuAction{
	"1": {"Search Books", false, func(sc *bufio.Scanner, mgr *library.Manager, _ string, _ library.Role) {
		handleSearchBooks(sc, mgr)
	}},
	"2": {"View All Books", false, func(_ *bufio.Scanner, mgr *library.Manager, _ string, _ library.Role) {
		handleViewAllBooks(mgr)
	}},
	"3": {"Checkout Book", false, func(sc *bufio.Scanner, mgr *library.Manager, username string, _ library.Role) {
		handleCheckout(sc, mgr, username)
	}},
	"4": {"Return Book", false, func(sc *bufio.Scanner, mgr *library.Manager, username string, role library.Role) {
		handleReturn(sc, mgr, username, role)
	}},
	"5": {"Add New Book", true, func(sc *bufio.Scanner, mgr *library.Manager, _ string, _ library.Role) {
		handleAddBook(sc, mgr)
	}},
	"6": {"View Users", true, func(_ *bufio.Scanner, mgr *library.Manager, _ string, _ library.Role) {
		handleViewUsers(mgr)
	}},
}

func mainMenu(sc *bufio.Scanner, mgr *library.Manager, username string, role library.Role) {
	for {
		library.ClearScreen()
		fmt.Println()
		library.Header.Println("🏫 University Library - Main Menu")
		library.Info.Printf("Logged in as: %s (%s)\n", username, capitalize(string(role)))
		library.Warn.Println(strings.Repeat("=", 40))
		fmt.Printf(" %s Search Books\n", library.Bold.Sprint("1."))
		fmt.Printf(" %s View All Books\n", library.Bold.Sprint("2."))
		fmt.Printf(" %s Checkout Book\n", library.Bold.Sprint("3."))
		fmt.Printf(" %s Return Book\n", library.Bold.Sprint("4."))
		if role == library.RoleLibrarian {
			library.Bold.Println(" Librarian Options:")
			fmt.Printf("   %s Add New Book\n", library.Bold.Sprint("5."))
			fmt.Printf("   %s View Users\n", library.Bold.Sprint("6."))
		}
		fmt.Printf("\n %s Logout & Exit\n", library.Bold.Sprint("0."))
		library.Warn.Println(strings.Repeat("=", 40))

		library.Bold.Print("Enter your choice: ")
		if !sc.Scan() {
			return
		}
		choice := strings.TrimSpace(sc.Text())

		if choice == "0" {
			library.Success.Printf("\nLogging out. Goodbye, %s!\n", username)
			time.Sleep(time.Second)
			library.ClearScreen()
			return
		}

		action, ok := menuActions[choice]
		switch {
		case !ok:
			library.Fail.Println("\n✗ Invalid choice. Please try again.")
			time.Sleep(1500 * time.Millisecond)
		case action.librarianOnly && role != library.RoleLibrarian:
			library.Fail.Println("\n✗ Access Denied. Librarian role required.")
			time.Sleep(1500 * time.Millisecond)
		default:
			action.run(sc, mgr, username, role)
			library.Pause(sc)
		}
	}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// ---------------------------------------------------------------------------
// Handlers
// ---------------------------------------------------------------------------

func handleViewAllBooks(mgr *library.Manager) {
	library.PrintHeader("Library Catalog")
	books, err := mgr.ListBooks()
	if err != nil {
		library.Fail.Printf("Error: %v\n", err)
		return
	}
	if len(books) == 0 {
		library.Warn.Println("The library currently has no books.")
		return
	}

	for i := range books {
		library.PrintBook(&books[i], false)
	}
	fmt.Printf("\nTotal books: %d\n", len(books))
}

func handleSearchBooks(sc *bufio.Scanner, mgr *library.Manager) {
	library.PrintHeader("Search Books")
	books, err := mgr.ListBooks()
	if err != nil {
		library.Fail.Printf("Error: %v\n", err)
		return
	}
	if len(books) == 0 {
		library.Warn.Println("The library currently has no books to search.")
		return
	}

	library.Bold.Print(" Enter search term (title, author, keyword): ")
	if !sc.Scan() {
		return
	}
	query := strings.TrimSpace(sc.Text())

	results, err := mgr.SearchBooks(query)
	if errors.Is(err, library.ErrEmptyQuery) {
		library.Fail.Println("Search term cannot be empty.")
		return
	}
	if err != nil {
		library.Fail.Printf("Error: %v\n", err)
		return
	}

	if len(results) == 0 {
		library.Fail.Printf("\nNo books found matching '%s'.\n", query)
		return
	}
	library.Success.Printf("\nFound %d matching books:\n", len(results))
	for i := range results {
		library.PrintBook(&results[i], true)
	}
}

func handleCheckout(sc *bufio.Scanner, mgr *library.Manager, username string) {
	handleViewAllBooks(mgr)

	library.Bold.Print("\nEnter the ID of the book you want to check out: ")
	if !sc.Scan() {
		return
	}
	idStr := strings.TrimSpace(sc.Text())
	id, err := strconv.Atoi(idStr)
	if err != nil {
		library.Fail.Println("Invalid ID format. Please enter a number.")
		return
	}

	book, err := mgr.Checkout(username, id)
	switch {
	case err == nil:
		library.Success.Printf("\n✓ Book '%s' checked out successfully!\n", book.Title)
		library.Warn.Printf("  Due Date: %s\n", *book.DueDate)
	case errors.Is(err, library.ErrAlreadyCheckedOut):
		library.Fail.Printf("\n✗ Sorry, '%s' is currently checked out.\n", book.Title)
		due := "N/A"
		if book.DueDate != nil {
			due = *book.DueDate
		}
		fmt.Printf("  It is due on %s.\n", due)
	case errors.Is(err, library.ErrBookNotFound):
		library.Fail.Printf("\n✗ No book found with ID %d.\n", id)
	default:
		library.Fail.Println("Failed to save checkout information.")
	}
}

func handleReturn(sc *bufio.Scanner, mgr *library.Manager, username string, role library.Role) {
	library.PrintHeader("Return Book")

	visible, err := mgr.CheckedOut(username, role)
	if err != nil {
		library.Fail.Printf("Error: %v\n", err)
		return
	}

	library.Bold.Println("Books Currently Checked Out:")
	if len(visible) == 0 {
		if role == library.RoleLibrarian {
			library.Warn.Println("\nNo books are currently checked out from the library.")
		} else {
			library.Warn.Printf("\nYou (%s) do not have any books currently checked out.\n", username)
		}
		return
	}
	for i := range visible {
		library.PrintBook(&visible[i], false)
	}

	library.Bold.Print("\nEnter the ID of the book you want to return: ")
	if !sc.Scan() {
		return
	}
	idStr := strings.TrimSpace(sc.Text())
	id, err := strconv.Atoi(idStr)
	if err != nil {
		library.Fail.Println("Invalid ID format. Please enter a number.")
		return
	}

	book, borrower, err := mgr.Return(username, role, id)
	switch {
	case err == nil:
		library.Success.Printf("\n✓ Book '%s' returned successfully (was borrowed by %s).\n", book.Title, borrower)
	case errors.Is(err, library.ErrNotBorrower):
		who := "another user"
		if book.Borrower != nil {
			who = *book.Borrower
		}
		library.Fail.Printf("\n✗ You cannot return this book as it was borrowed by %s.\n", who)
	case errors.Is(err, library.ErrAlreadyAvailable):
		library.Fail.Printf("\n✗ Book '%s' is already marked as Available.\n", book.Title)
	case errors.Is(err, library.ErrBookNotFound):
		library.Fail.Printf("\n✗ No book found with ID %d that is currently checked out.\n", id)
	default:
		library.Fail.Println("Failed to save return information.")
	}
}

func handleAddBook(sc *bufio.Scanner, mgr *library.Manager) {
	library.PrintHeader("Add New Book")

	library.Bold.Print(" Title: ")
	if !sc.Scan() {
		return
	}
	title := strings.TrimSpace(sc.Text())

	library.Bold.Print(" Author: ")
	if !sc.Scan() {
		return
	}
	author := strings.TrimSpace(sc.Text())

	library.Bold.Print(" Summary: ")
	if !sc.Scan() {
		return
	}
	summary := strings.TrimSpace(sc.Text())

	book, err := mgr.AddBook(title, author, summary)
	switch {
	case err == nil:
		library.Success.Printf("\n✓ Book '%s' by %s (ID: %d) added successfully!\n", book.Title, book.Author, book.ID)
	case errors.Is(err, library.ErrEmptyField):
		library.Fail.Println("\n✗ Title and Author cannot be empty.")
	case errors.Is(err, library.ErrDuplicateBook):
		library.Fail.Printf("\n✗ Error: A book with this title and author already exists (ID: %d).\n", book.ID)
	default:
		library.Fail.Println("✗ Failed to save the new book.")
	}
}

func handleViewUsers(mgr *library.Manager) {
	library.PrintHeader("Manage Users - View All")

	users, err := mgr.Users()
	if err != nil {
		library.Fail.Printf("Error: %v\n", err)
		return
	}
	if len(users) == 0 {
		library.Warn.Println("No users found in the system.")
		return
	}

	names := make([]string, 0, len(users))
	for name := range users {
		names = append(names, name)
	}
	sort.Strings(names)

	library.Bold.Printf("%-20s %-15s\n", "Username", "Role")
	fmt.Println(strings.Repeat("-", 35))
	for _, name := range names {
		fmt.Printf("%-20s %-15s\n", name, users[name].Role)
	}
	fmt.Println(strings.Repeat("-", 35))
}
