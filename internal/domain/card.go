package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Card-specific validation errors
var (
	// ErrCardIDEmpty is returned when a card ID is empty or nil.
	ErrCardIDEmpty = errors.New("card ID cannot be empty")

	// ErrCardUserIDEmpty is returned when a card's user ID is empty or nil.
	ErrCardUserIDEmpty = errors.New("card user ID cannot be empty")

	// ErrCardDeckIDEmpty is returned when a card's deck ID is empty or nil.
	ErrCardDeckIDEmpty = errors.New("card deck ID cannot be empty")

	// ErrCardFrontEmpty is returned when a card's front side is empty.
	ErrCardFrontEmpty = errors.New("card front cannot be empty")

	// ErrCardBackEmpty is returned when a card's back side is empty.
	ErrCardBackEmpty = errors.New("card back cannot be empty")

	// ErrCardPositionNegative is returned when a card's position is negative.
	ErrCardPositionNegative = errors.New("card position cannot be negative")
)

// Card represents a single flashcard within a deck. The user ID is
// denormalized onto the card so ownership checks do not require a deck
// lookup. Position defines the card's order within its deck.
type Card struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	DeckID    uuid.UUID `json:"deck_id"`
	Front     string    `json:"front"`
	Back      string    `json:"back"`
	Position  int       `json:"position"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewCard creates a new Card in the given deck with the given sides and
// position. It generates a new UUID for the card ID and sets the
// timestamps. Returns an error if validation fails.
func NewCard(userID, deckID uuid.UUID, front, back string, position int) (*Card, error) {
	now := time.Now().UTC()
	card := &Card{
		ID:        uuid.New(),
		UserID:    userID,
		DeckID:    deckID,
		Front:     front,
		Back:      back,
		Position:  position,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := card.Validate(); err != nil {
		return nil, err
	}

	return card, nil
}

// Validate checks if the Card has valid data.
// Returns an error if any field fails validation.
func (c *Card) Validate() error {
	if c.ID == uuid.Nil {
		return ErrCardIDEmpty
	}

	if c.UserID == uuid.Nil {
		return ErrCardUserIDEmpty
	}

	if c.DeckID == uuid.Nil {
		return ErrCardDeckIDEmpty
	}

	if c.Front == "" {
		return ErrCardFrontEmpty
	}

	if c.Back == "" {
		return ErrCardBackEmpty
	}

	if c.Position < 0 {
		return ErrCardPositionNegative
	}

	return nil
}

// UpdateSides replaces the card's front and back text and bumps the
// UpdatedAt timestamp. Returns an error if the new content is invalid.
func (c *Card) UpdateSides(front, back string) error {
	origFront, origBack := c.Front, c.Back
	c.Front = front
	c.Back = back

	if err := c.Validate(); err != nil {
		c.Front, c.Back = origFront, origBack
		return err
	}

	c.UpdatedAt = time.Now().UTC()
	return nil
}
