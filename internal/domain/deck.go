package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Deck-specific validation errors
var (
	// ErrDeckIDEmpty is returned when a deck ID is empty or nil.
	ErrDeckIDEmpty = errors.New("deck ID cannot be empty")

	// ErrDeckUserIDEmpty is returned when a deck's user ID is empty or nil.
	ErrDeckUserIDEmpty = errors.New("deck user ID cannot be empty")

	// ErrDeckNameEmpty is returned when a deck's name is empty.
	ErrDeckNameEmpty = errors.New("deck name cannot be empty")

	// ErrDeckNameTooLong is returned when a deck's name exceeds the limit.
	ErrDeckNameTooLong = errors.New("deck name cannot exceed 200 characters")
)

// maxDeckNameLength bounds deck names at the domain level so the limit is
// enforced regardless of which transport created the deck.
const maxDeckNameLength = 200

// Deck represents a named collection of flashcards owned by a single user.
// Cards within a deck carry an explicit position that defines their
// presentation order.
type Deck struct {
	ID          uuid.UUID `json:"id"`
	UserID      uuid.UUID `json:"user_id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// NewDeck creates a new Deck with the given owner, name and description.
// It generates a new UUID for the deck ID and sets the timestamps.
// Returns an error if validation fails.
func NewDeck(userID uuid.UUID, name, description string) (*Deck, error) {
	now := time.Now().UTC()
	deck := &Deck{
		ID:          uuid.New(),
		UserID:      userID,
		Name:        name,
		Description: description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := deck.Validate(); err != nil {
		return nil, err
	}

	return deck, nil
}

// Validate checks if the Deck has valid data.
// Returns an error if any field fails validation.
func (d *Deck) Validate() error {
	if d.ID == uuid.Nil {
		return ErrDeckIDEmpty
	}

	if d.UserID == uuid.Nil {
		return ErrDeckUserIDEmpty
	}

	if d.Name == "" {
		return ErrDeckNameEmpty
	}

	if len(d.Name) > maxDeckNameLength {
		return ErrDeckNameTooLong
	}

	return nil
}

// Rename updates the deck's name and description and bumps the UpdatedAt
// timestamp. Returns an error if the new values are invalid.
func (d *Deck) Rename(name, description string) error {
	origName, origDescription := d.Name, d.Description
	d.Name = name
	d.Description = description

	if err := d.Validate(); err != nil {
		d.Name, d.Description = origName, origDescription
		return err
	}

	d.UpdatedAt = time.Now().UTC()
	return nil
}
