package ai

import (
	"math/rand"
	"sync"
	"time"

	"github.com/jaminalder/tictactoe-ai/internal/domain"
)

// Random picks uniformly among the empty cells.
type Random struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewRandom returns a Random drawing from rng, or from a time-seeded source when rng is nil.
func NewRandom(rng *rand.Rand) *Random {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Random{rng: rng}
}

func (r *Random) Select(b *domain.Board, m domain.Cell) (int, error) {
	if err := checkMove(b, m); err != nil {
		return 0, err
	}
	return r.pick(b.Indices(domain.Empty)), nil
}

func (r *Random) pick(cells []int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return cells[r.rng.Intn(len(cells))]
}
