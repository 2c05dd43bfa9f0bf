package library

import (
	"fmt"
	"time"
)

// seedUser pairs a seed account with its well-known demo password, hashed
// at seed time.
type seedUser struct {
	username string
	password string
	role     Role
}

var seedUsers = []seedUser{
	{"admin", "admin123", RoleLibrarian},
	{"mridul", "jamesbond007", RoleStudent},
	{"test", "test", RoleStudent},
}

// existser is implemented by stores that can tell whether they have been
// written before. Seeding must not overwrite a store that exists but loads
// empty (e.g. a corrupt file).
type existser interface {
	Exists() bool
}

func storeExists(s any) bool {
	if e, ok := s.(existser); ok {
		return e.Exists()
	}
	return false
}

// SeedUsers writes the three default accounts if the user store has never
// been written. Returns true when seeding happened.
func SeedUsers(store UserStore) (bool, error) {
	if storeExists(store) {
		return false, nil
	}

	users := make(map[string]User, len(seedUsers))
	for _, su := range seedUsers {
		hash, err := HashPassword(su.password)
		if err != nil {
			return false, err
		}
		users[su.username] = User{PasswordHash: hash, Role: su.role}
	}

	if err := store.Save(users); err != nil {
		return false, fmt.Errorf("seed users: %w", err)
	}
	return true, nil
}

// SeedBooks writes the four demo books if the book store has never been
// written. Sapiens starts out checked out and already overdue so a fresh
// install demonstrates the overdue state. Returns true when seeding
// happened.
func SeedBooks(store BookStore) (bool, error) {
	if storeExists(store) {
		return false, nil
	}

	borrower := "student1"
	overdue := time.Now().AddDate(0, 0, -5).Format("2006-01-02")

	books := []Book{
		{
			ID:      1,
			Title:   "1984",
			Author:  "George Orwell",
			Status:  StatusAvailable,
			Summary: "A chilling portrait of a society under total surveillance and thought control.",
		},
		{
			ID:      2,
			Title:   "Leonardo Da Vinci",
			Author:  "Walter Isacsson",
			Status:  StatusAvailable,
			Summary: "An acclaimed biography exploring the life and mind of the ultimate Renaissance man, connecting his art and science.",
		},
		{
			ID:       3,
			Title:    "Sapiens: A Brief History of Humankind",
			Author:   "Yuval Noah Harari",
			Status:   StatusCheckedOut,
			Borrower: &borrower,
			DueDate:  &overdue,
			Summary:  "An exploration of human history from the Stone Age to the present.",
		},
		{
			ID:      4,
			Title:   "Dune",
			Author:  "Frank Herbert",
			Status:  StatusAvailable,
			Summary: "Epic science fiction novel set on the desert planet Arrakis.",
		},
	}

	if err := store.Save(books); err != nil {
		return false, fmt.Errorf("seed books: %w", err)
	}
	return true, nil
}
