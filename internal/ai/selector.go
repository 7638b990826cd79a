// Package ai picks moves for the computer opponent.
//
// Every Selector works on the caller's board in place while it looks ahead,
// but restores each speculative placement before returning: a Select call
// never leaves the board changed. Callers must not touch the board from
// another goroutine during a call.
package ai

import (
	"errors"

	"github.com/jaminalder/tictactoe-ai/internal/domain"
)

// Errors returned by selectors.
var (
	ErrNoLegalMove   = errors.New("no legal move")
	ErrInvalidMarker = errors.New("invalid marker")
)

// Selector returns the index the marker m should occupy next.
type Selector interface {
	Select(b *domain.Board, m domain.Cell) (int, error)
}

// Move asks s for a cell and places m there.
func Move(s Selector, b *domain.Board, m domain.Cell) (int, error) {
	i, err := s.Select(b, m)
	if err != nil {
		return 0, err
	}
	if err := b.Set(i, m); err != nil {
		return 0, err
	}
	return i, nil
}

func checkMove(b *domain.Board, m domain.Cell) error {
	if !m.Valid() {
		return ErrInvalidMarker
	}
	if domain.Evaluate(*b).Over() {
		return ErrNoLegalMove
	}
	return nil
}

// trial places m at i, runs fn and clears i again on every exit path.
func trial[T any](b *domain.Board, i int, m domain.Cell, fn func(*domain.Board) T) T {
	b[i] = m
	defer func() { b[i] = domain.Empty }()
	return fn(b)
}

func winsWith(b *domain.Board, m domain.Cell) bool {
	o := domain.Evaluate(*b)
	return o.Status == domain.Won && o.Winner == m
}
