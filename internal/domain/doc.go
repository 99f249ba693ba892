// Package domain contains the core entities of the application: users,
// decks, cards, per-card memory state for spaced repetition, and study
// session summaries. Entities validate themselves and are persisted
// through the store interfaces in internal/store.
package domain
