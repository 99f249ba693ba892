package service

import (
	"context"
	"database/sql"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/cramhq/cram-api/internal/domain"
	"github.com/cramhq/cram-api/internal/events"
	"github.com/cramhq/cram-api/internal/platform/logger"
	"github.com/cramhq/cram-api/internal/store"
	"github.com/cramhq/cram-api/internal/task"
)

// maxImportRows bounds one CSV import so a runaway upload cannot flood
// the task queue with a single giant payload.
const maxImportRows = 5000

// DeckService provides deck and card management, including CSV import
// and export of deck contents.
type DeckService interface {
	// CreateDeck creates a new deck for the user.
	CreateDeck(ctx context.Context, userID uuid.UUID, name, description string) (*domain.Deck, error)

	// GetDeck retrieves a deck the user owns.
	GetDeck(ctx context.Context, userID, deckID uuid.UUID) (*domain.Deck, error)

	// ListDecks retrieves all decks the user owns.
	ListDecks(ctx context.Context, userID uuid.UUID) ([]*domain.Deck, error)

	// RenameDeck updates a deck's name and description.
	RenameDeck(ctx context.Context, userID, deckID uuid.UUID, name, description string) (*domain.Deck, error)

	// DeleteDeck removes a deck with its cards and their memory state.
	DeleteDeck(ctx context.Context, userID, deckID uuid.UUID) error

	// CreateCard appends a card to a deck the user owns.
	CreateCard(ctx context.Context, userID, deckID uuid.UUID, front, back string) (*domain.Card, error)

	// ListCards retrieves a deck's cards in deck order.
	ListCards(ctx context.Context, userID, deckID uuid.UUID) ([]*domain.Card, error)

	// UpdateCard replaces a card's front and back text.
	UpdateCard(ctx context.Context, userID, cardID uuid.UUID, front, back string) (*domain.Card, error)

	// DeleteCard removes a card and its memory state.
	DeleteCard(ctx context.Context, userID, cardID uuid.UUID) error

	// ExportCSV writes a deck's cards to w as CSV with a front,back header.
	ExportCSV(ctx context.Context, userID, deckID uuid.UUID, w io.Writer) error

	// ImportCSV parses front,back rows from r and queues a background
	// import into the deck. Returns the number of rows queued.
	ImportCSV(ctx context.Context, userID, deckID uuid.UUID, r io.Reader) (int, error)
}

// deckServiceImpl implements the DeckService interface.
type deckServiceImpl struct {
	db      *sql.DB
	decks   store.DeckStore
	cards   store.CardStore
	states  store.MemoryStateStore
	emitter events.Emitter
	runInTx func(ctx context.Context, db *sql.DB, fn func(tx *sql.Tx) error) error
	logger  *slog.Logger
}

// NewDeckService creates a new DeckService.
// Panics if any required dependency is nil.
func NewDeckService(
	db *sql.DB,
	decks store.DeckStore,
	cards store.CardStore,
	states store.MemoryStateStore,
	emitter events.Emitter,
	log *slog.Logger,
) DeckService {
	if decks == nil || cards == nil || states == nil {
		panic("stores cannot be nil")
	}
	if emitter == nil {
		panic("emitter cannot be nil")
	}
	if log == nil {
		log = slog.Default()
	}

	return &deckServiceImpl{
		db:      db,
		decks:   decks,
		cards:   cards,
		states:  states,
		emitter: emitter,
		runInTx: store.RunInTx,
		logger:  log.With(slog.String("component", "deck_service")),
	}
}

// Ensure the service satisfies the import task's appender contract.
var _ task.CardAppender = (*deckServiceImpl)(nil)

// ownedDeck loads a deck and verifies ownership.
func (s *deckServiceImpl) ownedDeck(
	ctx context.Context,
	userID, deckID uuid.UUID,
) (*domain.Deck, error) {
	deck, err := s.decks.GetByID(ctx, deckID)
	if err != nil {
		return nil, err
	}
	if deck.UserID != userID {
		return nil, ErrNotOwned
	}
	return deck, nil
}

// ownedCard loads a card and verifies ownership.
func (s *deckServiceImpl) ownedCard(
	ctx context.Context,
	userID, cardID uuid.UUID,
) (*domain.Card, error) {
	card, err := s.cards.GetByID(ctx, cardID)
	if err != nil {
		return nil, err
	}
	if card.UserID != userID {
		return nil, ErrNotOwned
	}
	return card, nil
}

// CreateDeck implements DeckService.CreateDeck.
func (s *deckServiceImpl) CreateDeck(
	ctx context.Context,
	userID uuid.UUID,
	name, description string,
) (*domain.Deck, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	deck, err := domain.NewDeck(userID, name, description)
	if err != nil {
		return nil, err
	}

	if err := s.decks.Create(ctx, deck); err != nil {
		return nil, fmt.Errorf("failed to create deck: %w", err)
	}

	log.Info("deck created",
		slog.String("deck_id", deck.ID.String()),
		slog.String("user_id", userID.String()))
	return deck, nil
}

// GetDeck implements DeckService.GetDeck.
func (s *deckServiceImpl) GetDeck(
	ctx context.Context,
	userID, deckID uuid.UUID,
) (*domain.Deck, error) {
	return s.ownedDeck(ctx, userID, deckID)
}

// ListDecks implements DeckService.ListDecks.
func (s *deckServiceImpl) ListDecks(
	ctx context.Context,
	userID uuid.UUID,
) ([]*domain.Deck, error) {
	return s.decks.ListByUser(ctx, userID)
}

// RenameDeck implements DeckService.RenameDeck.
func (s *deckServiceImpl) RenameDeck(
	ctx context.Context,
	userID, deckID uuid.UUID,
	name, description string,
) (*domain.Deck, error) {
	deck, err := s.ownedDeck(ctx, userID, deckID)
	if err != nil {
		return nil, err
	}

	if err := deck.Rename(name, description); err != nil {
		return nil, err
	}

	if err := s.decks.Update(ctx, deck); err != nil {
		return nil, fmt.Errorf("failed to update deck: %w", err)
	}

	return deck, nil
}

// DeleteDeck implements DeckService.DeleteDeck.
func (s *deckServiceImpl) DeleteDeck(ctx context.Context, userID, deckID uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if _, err := s.ownedDeck(ctx, userID, deckID); err != nil {
		return err
	}

	if err := s.decks.Delete(ctx, deckID); err != nil {
		return fmt.Errorf("failed to delete deck: %w", err)
	}

	log.Info("deck deleted", slog.String("deck_id", deckID.String()))
	return nil
}

// CreateCard implements DeckService.CreateCard.
func (s *deckServiceImpl) CreateCard(
	ctx context.Context,
	userID, deckID uuid.UUID,
	front, back string,
) (*domain.Card, error) {
	if _, err := s.ownedDeck(ctx, userID, deckID); err != nil {
		return nil, err
	}

	var card *domain.Card
	err := s.runInTx(ctx, s.db, func(tx *sql.Tx) error {
		txCards := s.cards.WithTx(tx)

		position, err := txCards.NextPosition(ctx, deckID)
		if err != nil {
			return fmt.Errorf("failed to compute card position: %w", err)
		}

		card, err = domain.NewCard(userID, deckID, front, back, position)
		if err != nil {
			return err
		}

		return txCards.Create(ctx, card)
	})
	if err != nil {
		return nil, err
	}

	return card, nil
}

// ListCards implements DeckService.ListCards.
func (s *deckServiceImpl) ListCards(
	ctx context.Context,
	userID, deckID uuid.UUID,
) ([]*domain.Card, error) {
	if _, err := s.ownedDeck(ctx, userID, deckID); err != nil {
		return nil, err
	}
	return s.cards.ListByDeck(ctx, deckID)
}

// UpdateCard implements DeckService.UpdateCard.
func (s *deckServiceImpl) UpdateCard(
	ctx context.Context,
	userID, cardID uuid.UUID,
	front, back string,
) (*domain.Card, error) {
	card, err := s.ownedCard(ctx, userID, cardID)
	if err != nil {
		return nil, err
	}

	if err := card.UpdateSides(front, back); err != nil {
		return nil, err
	}

	if err := s.cards.Update(ctx, card); err != nil {
		return nil, fmt.Errorf("failed to update card: %w", err)
	}

	return card, nil
}

// DeleteCard implements DeckService.DeleteCard.
func (s *deckServiceImpl) DeleteCard(ctx context.Context, userID, cardID uuid.UUID) error {
	if _, err := s.ownedCard(ctx, userID, cardID); err != nil {
		return err
	}

	if err := s.cards.Delete(ctx, cardID); err != nil {
		return fmt.Errorf("failed to delete card: %w", err)
	}

	return nil
}

// csvHeader is the first row of every exported deck and is skipped, when
// present, on import.
var csvHeader = []string{"front", "back"}

// ExportCSV implements DeckService.ExportCSV.
func (s *deckServiceImpl) ExportCSV(
	ctx context.Context,
	userID, deckID uuid.UUID,
	w io.Writer,
) error {
	cards, err := s.ListCards(ctx, userID, deckID)
	if err != nil {
		return err
	}

	writer := csv.NewWriter(w)
	if err := writer.Write(csvHeader); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, card := range cards {
		if err := writer.Write([]string{card.Front, card.Back}); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("failed to flush CSV: %w", err)
	}

	return nil
}

// ImportCSV implements DeckService.ImportCSV. Parsing happens inline so
// malformed input fails the request; the card writes happen in a
// background task queued through the event emitter.
func (s *deckServiceImpl) ImportCSV(
	ctx context.Context,
	userID, deckID uuid.UUID,
	r io.Reader,
) (int, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if _, err := s.ownedDeck(ctx, userID, deckID); err != nil {
		return 0, err
	}

	rows, err := parseImportRows(r)
	if err != nil {
		return 0, err
	}
	if len(rows) == 0 {
		return 0, ErrEmptyImport
	}

	event, err := events.NewTaskRequestEvent(task.TypeDeckImport, task.ImportPayload{
		UserID: userID,
		DeckID: deckID,
		Rows:   rows,
	})
	if err != nil {
		return 0, fmt.Errorf("failed to create import event: %w", err)
	}

	if err := s.emitter.EmitEvent(ctx, event); err != nil {
		return 0, fmt.Errorf("failed to queue import: %w", err)
	}

	log.Info("deck import queued",
		slog.String("deck_id", deckID.String()),
		slog.Int("rows", len(rows)))

	return len(rows), nil
}

// parseImportRows reads front,back rows from CSV input. A leading header
// row matching the export format is skipped. Rows with an empty side are
// skipped rather than failing the whole file.
func parseImportRows(r io.Reader) ([]task.CardRow, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = 2
	reader.TrimLeadingSpace = true

	var rows []task.CardRow
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to parse CSV: %w", err)
		}

		front := strings.TrimSpace(record[0])
		back := strings.TrimSpace(record[1])

		if len(rows) == 0 && strings.EqualFold(front, csvHeader[0]) &&
			strings.EqualFold(back, csvHeader[1]) {
			continue
		}
		if front == "" || back == "" {
			continue
		}

		rows = append(rows, task.CardRow{Front: front, Back: back})
		if len(rows) > maxImportRows {
			return nil, fmt.Errorf("import exceeds %d rows", maxImportRows)
		}
	}

	return rows, nil
}

// AppendCards implements task.CardAppender. It runs in the background
// import task and appends all rows in one transaction so a failed import
// leaves no partial deck.
func (s *deckServiceImpl) AppendCards(
	ctx context.Context,
	userID, deckID uuid.UUID,
	rows []task.CardRow,
) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	// The deck may have been deleted between queueing and execution.
	deck, err := s.decks.GetByID(ctx, deckID)
	if err != nil {
		return err
	}
	if deck.UserID != userID {
		return ErrNotOwned
	}

	err = s.runInTx(ctx, s.db, func(tx *sql.Tx) error {
		txCards := s.cards.WithTx(tx)

		position, err := txCards.NextPosition(ctx, deckID)
		if err != nil {
			return fmt.Errorf("failed to compute card position: %w", err)
		}

		cards := make([]*domain.Card, 0, len(rows))
		for i, row := range rows {
			card, err := domain.NewCard(userID, deckID, row.Front, row.Back, position+i)
			if err != nil {
				return fmt.Errorf("row %d: %w", i+1, err)
			}
			cards = append(cards, card)
		}

		return txCards.CreateMultiple(ctx, cards)
	})
	if err != nil {
		return err
	}

	log.Info("deck import applied",
		slog.String("deck_id", deckID.String()),
		slog.Int("cards", len(rows)))
	return nil
}
