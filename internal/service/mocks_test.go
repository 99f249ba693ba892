package service

import (
	"context"
	"database/sql"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/cramhq/cram-api/internal/domain"
	"github.com/cramhq/cram-api/internal/events"
	"github.com/cramhq/cram-api/internal/store"
)

// In-memory store fakes shared by the service tests. WithTx returns the
// receiver; tests override the service's runInTx hook to call the
// function directly, so no real transaction is involved.

// fakeTx runs the transactional function with a nil transaction.
func fakeTx(_ context.Context, _ *sql.DB, fn func(tx *sql.Tx) error) error {
	return fn(nil)
}

type fakeUserStore struct {
	users map[uuid.UUID]*domain.User
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: make(map[uuid.UUID]*domain.User)}
}

func (f *fakeUserStore) Create(_ context.Context, user *domain.User) error {
	for _, existing := range f.users {
		if existing.Email == user.Email {
			return store.ErrEmailExists
		}
	}
	clone := *user
	f.users[user.ID] = &clone
	return nil
}

func (f *fakeUserStore) GetByID(_ context.Context, id uuid.UUID) (*domain.User, error) {
	user, ok := f.users[id]
	if !ok {
		return nil, store.ErrUserNotFound
	}
	clone := *user
	return &clone, nil
}

func (f *fakeUserStore) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, user := range f.users {
		if user.Email == email {
			clone := *user
			return &clone, nil
		}
	}
	return nil, store.ErrUserNotFound
}

type fakeDeckStore struct {
	decks map[uuid.UUID]*domain.Deck
}

func newFakeDeckStore() *fakeDeckStore {
	return &fakeDeckStore{decks: make(map[uuid.UUID]*domain.Deck)}
}

func (f *fakeDeckStore) Create(_ context.Context, deck *domain.Deck) error {
	clone := *deck
	f.decks[deck.ID] = &clone
	return nil
}

func (f *fakeDeckStore) GetByID(_ context.Context, id uuid.UUID) (*domain.Deck, error) {
	deck, ok := f.decks[id]
	if !ok {
		return nil, store.ErrDeckNotFound
	}
	clone := *deck
	return &clone, nil
}

func (f *fakeDeckStore) ListByUser(_ context.Context, userID uuid.UUID) ([]*domain.Deck, error) {
	var out []*domain.Deck
	for _, deck := range f.decks {
		if deck.UserID == userID {
			clone := *deck
			out = append(out, &clone)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (f *fakeDeckStore) Update(_ context.Context, deck *domain.Deck) error {
	if _, ok := f.decks[deck.ID]; !ok {
		return store.ErrDeckNotFound
	}
	clone := *deck
	f.decks[deck.ID] = &clone
	return nil
}

func (f *fakeDeckStore) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := f.decks[id]; !ok {
		return store.ErrDeckNotFound
	}
	delete(f.decks, id)
	return nil
}

func (f *fakeDeckStore) WithTx(*sql.Tx) store.DeckStore { return f }

type fakeCardStore struct {
	cards map[uuid.UUID]*domain.Card
}

func newFakeCardStore() *fakeCardStore {
	return &fakeCardStore{cards: make(map[uuid.UUID]*domain.Card)}
}

func (f *fakeCardStore) Create(_ context.Context, card *domain.Card) error {
	clone := *card
	f.cards[card.ID] = &clone
	return nil
}

func (f *fakeCardStore) CreateMultiple(ctx context.Context, cards []*domain.Card) error {
	for _, card := range cards {
		if err := f.Create(ctx, card); err != nil {
			return err
		}
	}
	return nil
}

func (f *fakeCardStore) GetByID(_ context.Context, id uuid.UUID) (*domain.Card, error) {
	card, ok := f.cards[id]
	if !ok {
		return nil, store.ErrCardNotFound
	}
	clone := *card
	return &clone, nil
}

func (f *fakeCardStore) ListByDeck(_ context.Context, deckID uuid.UUID) ([]*domain.Card, error) {
	var out []*domain.Card
	for _, card := range f.cards {
		if card.DeckID == deckID {
			clone := *card
			out = append(out, &clone)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Position < out[j].Position })
	return out, nil
}

func (f *fakeCardStore) Update(_ context.Context, card *domain.Card) error {
	if _, ok := f.cards[card.ID]; !ok {
		return store.ErrCardNotFound
	}
	clone := *card
	f.cards[card.ID] = &clone
	return nil
}

func (f *fakeCardStore) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := f.cards[id]; !ok {
		return store.ErrCardNotFound
	}
	delete(f.cards, id)
	return nil
}

func (f *fakeCardStore) NextPosition(_ context.Context, deckID uuid.UUID) (int, error) {
	next := 0
	for _, card := range f.cards {
		if card.DeckID == deckID && card.Position >= next {
			next = card.Position + 1
		}
	}
	return next, nil
}

func (f *fakeCardStore) WithTx(*sql.Tx) store.CardStore { return f }

type stateKey struct {
	userID uuid.UUID
	cardID uuid.UUID
}

type fakeMemoryStore struct {
	states map[stateKey]*domain.MemoryState
}

func newFakeMemoryStore() *fakeMemoryStore {
	return &fakeMemoryStore{states: make(map[stateKey]*domain.MemoryState)}
}

func (f *fakeMemoryStore) Get(
	_ context.Context,
	userID, cardID uuid.UUID,
) (*domain.MemoryState, error) {
	state, ok := f.states[stateKey{userID, cardID}]
	if !ok {
		return nil, store.ErrMemoryStateNotFound
	}
	clone := *state
	return &clone, nil
}

func (f *fakeMemoryStore) GetByDeck(
	ctx context.Context,
	userID, deckID uuid.UUID,
) (map[uuid.UUID]domain.MemoryState, error) {
	// The fake has no card table to join against; return every state the
	// user has, which is equivalent for single-deck tests.
	out := make(map[uuid.UUID]domain.MemoryState)
	for key, state := range f.states {
		if key.userID == userID {
			out[key.cardID] = *state
		}
	}
	return out, nil
}

func (f *fakeMemoryStore) Upsert(_ context.Context, state *domain.MemoryState) error {
	clone := *state
	f.states[stateKey{state.UserID, state.CardID}] = &clone
	return nil
}

func (f *fakeMemoryStore) Delete(_ context.Context, userID, cardID uuid.UUID) error {
	key := stateKey{userID, cardID}
	if _, ok := f.states[key]; !ok {
		return store.ErrMemoryStateNotFound
	}
	delete(f.states, key)
	return nil
}

func (f *fakeMemoryStore) WithTx(*sql.Tx) store.MemoryStateStore { return f }

type fakeSessionStore struct {
	sessions []*domain.StudySession
}

func newFakeSessionStore() *fakeSessionStore { return &fakeSessionStore{} }

func (f *fakeSessionStore) Create(_ context.Context, session *domain.StudySession) error {
	clone := *session
	f.sessions = append(f.sessions, &clone)
	return nil
}

func (f *fakeSessionStore) ListByUser(
	_ context.Context,
	userID uuid.UUID,
	limit int,
) ([]*domain.StudySession, error) {
	var out []*domain.StudySession
	for _, session := range f.sessions {
		if session.UserID == userID {
			clone := *session
			out = append(out, &clone)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].FinishedAt.After(out[j].FinishedAt)
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

type fakeEmitter struct {
	events []*events.TaskRequestEvent
	err    error
}

func (f *fakeEmitter) EmitEvent(_ context.Context, event *events.TaskRequestEvent) error {
	if f.err != nil {
		return f.err
	}
	f.events = append(f.events, event)
	return nil
}

// seedDeck creates a deck with n cards and returns it with the cards in
// position order.
func seedDeck(
	decks *fakeDeckStore,
	cards *fakeCardStore,
	userID uuid.UUID,
	n int,
) (*domain.Deck, []*domain.Card) {
	deck, err := domain.NewDeck(userID, "seed deck", "")
	if err != nil {
		panic(err)
	}
	_ = decks.Create(context.Background(), deck)

	out := make([]*domain.Card, 0, n)
	for i := 0; i < n; i++ {
		card, err := domain.NewCard(userID, deck.ID,
			"front "+string(rune('a'+i)), "back "+string(rune('a'+i)), i)
		if err != nil {
			panic(err)
		}
		_ = cards.Create(context.Background(), card)
		out = append(out, card)
	}
	return deck, out
}

// fixedTime is a stable instant used across the service tests.
var fixedTime = time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
