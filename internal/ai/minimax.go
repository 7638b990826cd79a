package ai

import (
	"math"

	"github.com/jaminalder/tictactoe-ai/internal/domain"
)

// Terminal scores from the selecting side's point of view.
const (
	winScore  = 1
	lossScore = -1
	drawScore = 0
)

// Minimax searches the full game tree and never loses.
//
// Scores ignore depth, so a quick win and a slow win are worth the same and
// the root keeps the first best index in ascending order.
type Minimax struct{}

// NewMinimax returns the full-depth Hard selector.
func NewMinimax() *Minimax { return &Minimax{} }

func (*Minimax) Select(b *domain.Board, m domain.Cell) (int, error) {
	if err := checkMove(b, m); err != nil {
		return 0, err
	}
	best, bestScore := -1, math.MinInt
	for _, i := range b.Indices(domain.Empty) {
		score := trial(b, i, m, func(b *domain.Board) int {
			return minimax(b, m, 1, false)
		})
		if score > bestScore {
			best, bestScore = i, score
		}
	}
	return best, nil
}

// minimax scores b for self, where maximizing says whose turn it is.
// depth is the number of plies below the root; it does not affect the score.
func minimax(b *domain.Board, self domain.Cell, depth int, maximizing bool) int {
	switch o := domain.Evaluate(*b); o.Status {
	case domain.Won:
		if o.Winner == self {
			return winScore
		}
		return lossScore
	case domain.Draw:
		return drawScore
	}

	if maximizing {
		best := math.MinInt
		for _, i := range b.Indices(domain.Empty) {
			score := trial(b, i, self, func(b *domain.Board) int {
				return minimax(b, self, depth+1, false)
			})
			if score > best {
				best = score
			}
		}
		return best
	}

	best := math.MaxInt
	other := self.Opponent()
	for _, i := range b.Indices(domain.Empty) {
		score := trial(b, i, other, func(b *domain.Board) int {
			return minimax(b, self, depth+1, true)
		})
		if score < best {
			best = score
		}
	}
	return best
}
