// Command seed_catalog wipes the JSON stores and recreates the demo
// catalog, handy for resetting a demo installation.
package main

import (
	"fmt"
	"os"
	"strings"

	"library-catalog/library"
)

const (
	usersFile = "library_users.json"
	booksFile = "library_books.json"
)

func main() {
	fmt.Println("Cleaning up existing store files...")
	for _, file := range []string{usersFile, booksFile} {
		if err := os.Remove(file); err != nil && !os.IsNotExist(err) {
			fmt.Printf("Warning: Could not remove %s: %v\n", file, err)
		}
	}
	fmt.Println("Store cleanup complete.")

	users := library.NewJSONUserStore(usersFile)
	books := library.NewJSONBookStore(booksFile)

	if _, err := library.SeedUsers(users); err != nil {
		fmt.Fprintf(os.Stderr, "Error seeding users: %v\n", err)
		os.Exit(1)
	}
	if _, err := library.SeedBooks(books); err != nil {
		fmt.Fprintf(os.Stderr, "Error seeding books: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("\nSeed complete!")

	catalog, err := books.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading back catalog: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("%-3s %-45s %-25s %s\n", "ID", "Title", "Author", "Status")
	fmt.Println(strings.Repeat("-", 90))
	for _, b := range catalog {
		fmt.Printf("%-3d %-45s %-25s %s\n", b.ID, truncateString(b.Title, 45), truncateString(b.Author, 25), b.Status)
	}

	accounts, err := users.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading back users: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("\nSeeded %d accounts and %d books.\n", len(accounts), len(catalog))
}

func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}
