package domain

import (
	"errors"
	"net/mail"
	"time"

	"github.com/google/uuid"
)

// User-specific validation errors
var (
	// ErrUserIDEmpty is returned when a user ID is empty or nil.
	ErrUserIDEmpty = errors.New("user ID cannot be empty")

	// ErrUserEmailEmpty is returned when a user's email is empty.
	ErrUserEmailEmpty = errors.New("user email cannot be empty")

	// ErrUserEmailInvalid is returned when a user's email is not a valid address.
	ErrUserEmailInvalid = errors.New("user email is not a valid address")

	// ErrUserPasswordHashEmpty is returned when a user has no password hash.
	ErrUserPasswordHashEmpty = errors.New("user password hash cannot be empty")
)

// User represents a registered account. The password is stored only as a
// bcrypt hash; hashing is the responsibility of the auth service.
type User struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// NewUser creates a new User with the given email and password hash.
// It generates a new UUID for the user ID and sets the timestamps.
// Returns an error if validation fails.
func NewUser(email, passwordHash string) (*User, error) {
	now := time.Now().UTC()
	user := &User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: passwordHash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := user.Validate(); err != nil {
		return nil, err
	}

	return user, nil
}

// Validate checks if the User has valid data.
// Returns an error if any field fails validation.
func (u *User) Validate() error {
	if u.ID == uuid.Nil {
		return ErrUserIDEmpty
	}

	if u.Email == "" {
		return ErrUserEmailEmpty
	}

	if _, err := mail.ParseAddress(u.Email); err != nil {
		return ErrUserEmailInvalid
	}

	if u.PasswordHash == "" {
		return ErrUserPasswordHashEmpty
	}

	return nil
}
