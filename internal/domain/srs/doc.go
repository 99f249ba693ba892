// Package srs implements the spaced-repetition core: a pure scheduler
// that advances a card's memory state from a review rating, and a due-set
// selector that filters a deck's cards to those whose next review time has
// passed.
//
// Both operations are synchronous pure computations. They never touch
// storage or the ambient clock; the caller injects "now" and persists the
// returned state through the store layer.
package srs
