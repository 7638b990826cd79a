package ai

import (
	"math/rand"

	"github.com/jaminalder/tictactoe-ai/internal/domain"
)

// Opponent routes move selection to the selector for a difficulty tier.
type Opponent struct {
	easy   Selector
	medium Selector
	hard   Selector
}

// NewOpponent builds the three tiers around one random source.
func NewOpponent(rng *rand.Rand) *Opponent {
	r := NewRandom(rng)
	return &Opponent{
		easy:   r,
		medium: NewHeuristic(r),
		hard:   NewMinimax(),
	}
}

// For returns the selector used at tier t.
func (o *Opponent) For(t domain.Tier) (Selector, error) {
	switch t {
	case domain.Easy:
		return o.easy, nil
	case domain.Medium:
		return o.medium, nil
	case domain.Hard:
		return o.hard, nil
	}
	return nil, domain.ErrUnknownTier
}

// Select picks a cell for m using the tier's selector.
func (o *Opponent) Select(b *domain.Board, m domain.Cell, t domain.Tier) (int, error) {
	s, err := o.For(t)
	if err != nil {
		return 0, err
	}
	return s.Select(b, m)
}
