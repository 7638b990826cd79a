// Package stats keeps win/loss/draw counters per difficulty tier.
package stats

import (
	"context"
	"errors"
	"sync"

	"github.com/jaminalder/tictactoe-ai/internal/domain"
)

// Kind is the result of a finished game from the human's side.
type Kind uint8

const (
	Win Kind = iota
	Loss
	Draw
)

var ErrUnknownKind = errors.New("unknown result kind")

func (k Kind) String() string {
	switch k {
	case Win:
		return "win"
	case Loss:
		return "loss"
	case Draw:
		return "draw"
	default:
		return "unknown"
	}
}

// Valid reports whether k is Win, Loss or Draw.
func (k Kind) Valid() bool { return k <= Draw }

func checkAdd(tier domain.Tier, kind Kind) error {
	if !tier.Valid() {
		return domain.ErrUnknownTier
	}
	if !kind.Valid() {
		return ErrUnknownKind
	}
	return nil
}

// KindFor maps a terminal outcome to a Kind for the human marker.
// ok is false while the game is still in progress.
func KindFor(o domain.Outcome, human domain.Cell) (k Kind, ok bool) {
	switch o.Status {
	case domain.Won:
		if o.Winner == human {
			return Win, true
		}
		return Loss, true
	case domain.Draw:
		return Draw, true
	}
	return 0, false
}

// Record holds the counters for one tier.
type Record struct {
	Wins   int `json:"Wins"`
	Losses int `json:"Losses"`
	Draws  int `json:"Draws"`
}

// Games returns the number of finished games.
func (r Record) Games() int { return r.Wins + r.Losses + r.Draws }

func (r *Record) add(k Kind) {
	switch k {
	case Win:
		r.Wins++
	case Loss:
		r.Losses++
	case Draw:
		r.Draws++
	}
}

// Statistics maps every tier to its record.
type Statistics map[domain.Tier]Record

// New returns zeroed statistics for every tier.
func New() Statistics {
	s := make(Statistics, len(domain.Tiers))
	for _, t := range domain.Tiers {
		s[t] = Record{}
	}
	return s
}

func (s Statistics) clone() Statistics {
	out := New()
	for t, r := range s {
		out[t] = r
	}
	return out
}

// Store persists statistics. Implementations are safe for concurrent use.
type Store interface {
	Add(ctx context.Context, tier domain.Tier, kind Kind) error
	Snapshot(ctx context.Context) (Statistics, error)
	Reset(ctx context.Context) error
}

// Memory is a Store that forgets everything on exit.
type Memory struct {
	mu   sync.Mutex
	data Statistics
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory { return &Memory{data: New()} }

func (m *Memory) Add(ctx context.Context, tier domain.Tier, kind Kind) error {
	if err := checkAdd(tier, kind); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	r := m.data[tier]
	r.add(kind)
	m.data[tier] = r
	return nil
}

func (m *Memory) Snapshot(ctx context.Context) (Statistics, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.data.clone(), nil
}

func (m *Memory) Reset(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data = New()
	return nil
}
