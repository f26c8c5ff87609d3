// Package domain provides definitions of all entities.
package domain

import (
	"errors"
	"time"
)

// MinPasswordLength is the shortest password accepted on sign up.
const MinPasswordLength = 6

var (
	// ErrEmailInUse indicates that a user with the given email already exists.
	ErrEmailInUse = errors.New("email address is already in use")
	// ErrWeakPassword indicates that the password is too short.
	ErrWeakPassword = errors.New("password should be at least 6 characters")
	// ErrInvalidCredentials indicates an unknown email or a wrong password.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrUserNotFound indicates that the user is not found.
	ErrUserNotFound = errors.New("user not found")
)

// Identity is the authenticated principal as seen by the rest of the app.
type Identity struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// User holds user data.
type User struct {
	ID             string    `json:"id"`
	Email          string    `json:"email"`
	HashedPassword string    `json:"-"`
	CreatedAt      time.Time `json:"created_at"`
}

// Identity returns the identity of the user without credentials.
func (u User) Identity() Identity {
	return Identity{ID: u.ID, Email: u.Email}
}

// CreateUserParams is the input data to create a user.
type CreateUserParams struct {
	ID             string
	Email          string
	HashedPassword string
}
