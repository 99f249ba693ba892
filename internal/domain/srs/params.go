package srs

import "github.com/cramhq/cram-api/internal/domain"

// Params defines the tunable constants of the scheduling algorithm. The
// defaults implement the classic SM-2 style update; custom values are
// accepted so tests and future tuning can exercise the branches without
// touching the algorithm itself.
type Params struct {
	// MinEaseFactor and MaxEaseFactor bound the ease factor. Updates are
	// clamped to this range, never rejected.
	MinEaseFactor float64
	MaxEaseFactor float64

	// AgainEasePenalty is subtracted from the ease factor on an "again"
	// rating, HardEasePenalty on "hard". EasyEaseBonus is added on "easy".
	// "good" leaves the ease factor unchanged.
	AgainEasePenalty float64
	HardEasePenalty  float64
	EasyEaseBonus    float64

	// HardIntervalMultiplier scales the interval on a "hard" rating.
	// EasyIntervalBonus is the extra factor applied on top of the ease
	// factor for an "easy" rating.
	HardIntervalMultiplier float64
	EasyIntervalBonus      float64
}

// DefaultParams returns the standard algorithm constants.
func DefaultParams() Params {
	return Params{
		MinEaseFactor: domain.MinEaseFactor,
		MaxEaseFactor: domain.MaxEaseFactor,

		AgainEasePenalty: 0.20,
		HardEasePenalty:  0.15,
		EasyEaseBonus:    0.15,

		HardIntervalMultiplier: 1.2,
		EasyIntervalBonus:      1.3,
	}
}

// Validate checks that the parameters describe a usable algorithm.
func (p Params) Validate() error {
	if p.MinEaseFactor <= 1.0 || p.MaxEaseFactor < p.MinEaseFactor {
		return ErrInvalidParams
	}
	if p.AgainEasePenalty < 0 || p.HardEasePenalty < 0 || p.EasyEaseBonus < 0 {
		return ErrInvalidParams
	}
	if p.HardIntervalMultiplier <= 0 || p.EasyIntervalBonus <= 0 {
		return ErrInvalidParams
	}
	return nil
}
