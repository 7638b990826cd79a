package ai

import "github.com/jaminalder/tictactoe-ai/internal/domain"

// Heuristic takes an immediate win, otherwise blocks an immediate loss,
// otherwise plays randomly. It looks exactly one move ahead for each side
// and can be beaten by a fork.
type Heuristic struct {
	fallback *Random
}

// NewHeuristic returns a Heuristic that falls back to r.
func NewHeuristic(r *Random) *Heuristic {
	if r == nil {
		r = NewRandom(nil)
	}
	return &Heuristic{fallback: r}
}

func (h *Heuristic) Select(b *domain.Board, m domain.Cell) (int, error) {
	if err := checkMove(b, m); err != nil {
		return 0, err
	}
	empties := b.Indices(domain.Empty)

	// Win now
	for _, i := range empties {
		if trial(b, i, m, func(b *domain.Board) bool { return winsWith(b, m) }) {
			return i, nil
		}
	}

	// Block the other side's win
	other := m.Opponent()
	for _, i := range empties {
		if trial(b, i, other, func(b *domain.Board) bool { return winsWith(b, other) }) {
			return i, nil
		}
	}

	return h.fallback.pick(empties), nil
}
