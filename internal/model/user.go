package model

import (
	"errors"
	"net/mail"
	"strings"
)

// User validation errors.
var (
	// ErrEmptyUsername is returned when a user has no username.
	ErrEmptyUsername = errors.New("username must not be empty")

	// ErrInvalidEmail is returned when a user's e-mail address cannot be parsed.
	ErrInvalidEmail = errors.New("email must be a valid address")
)

// User is an entry in the user directory.
type User struct {
	// ID is the database identifier. Zero until the user is stored.
	ID int64 `json:"id"`

	// Username is the display name of the user.
	Username string `json:"username"`

	// Email is the contact address of the user.
	Email string `json:"email"`
}

// Normalize trims surrounding whitespace from all text fields.
func (u *User) Normalize() {
	u.Username = strings.TrimSpace(u.Username)
	u.Email = strings.TrimSpace(u.Email)
}

// Validate checks that the user can be stored.
func (u *User) Validate() error {
	if strings.TrimSpace(u.Username) == "" {
		return ErrEmptyUsername
	}
	addr, err := mail.ParseAddress(u.Email)
	if err != nil || addr.Address != strings.TrimSpace(u.Email) {
		return ErrInvalidEmail
	}
	return nil
}
