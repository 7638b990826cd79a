package domain

import "errors"

// Game holds the current state of a match.
type Game struct {
	Board   Board
	Turn    Cell
	Outcome Outcome
	Moves   int
}

var ErrGameOver = errors.New("game over")

// New returns a new game with X to move.
func New() Game {
	return Game{Turn: X}
}

// Over reports whether the game has finished.
func (g Game) Over() bool { return g.Outcome.Over() }

// Play places the current turn's marker at index i.
func (g *Game) Play(i int) error {
	if g.Over() {
		return ErrGameOver
	}
	if err := g.Board.Set(i, g.Turn); err != nil {
		return err
	}
	g.Moves++

	g.Outcome = Evaluate(g.Board)
	if g.Over() {
		return nil
	}

	// Flip turn
	g.Turn = g.Turn.Opponent()
	return nil
}
