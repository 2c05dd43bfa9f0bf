package library

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// Auth errors.
var (
	ErrBadCredentials = errors.New("invalid username or password")
	ErrNoUsers        = errors.New("user store is empty")
)

// HasUsers reports whether any accounts exist. Login treats an empty user
// store as an unrecoverable misconfiguration.
func (m *Manager) HasUsers() (bool, error) {
	users, err := m.users.Load()
	if err != nil {
		return false, err
	}
	return len(users) > 0, nil
}

// Login verifies the credentials and returns the account's role. Unknown
// usernames and wrong passwords are indistinguishable to the caller.
func (m *Manager) Login(username, password string) (Role, error) {
	users, err := m.users.Load()
	if err != nil {
		return "", err
	}
	if len(users) == 0 {
		return "", ErrNoUsers
	}

	user, ok := users[username]
	if !ok {
		return "", ErrBadCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", ErrBadCredentials
	}
	return user.Role, nil
}

// HashPassword produces the bcrypt hash stored in the user store.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}
