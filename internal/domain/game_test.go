package domain

import (
	"errors"
	"testing"
)

// helper to apply a sequence of (row, col) moves
func playMoves(t *testing.T, g *Game, moves [][2]int) {
	t.Helper()
	for i, m := range moves {
		idx, err := Index(m[0], m[1])
		if err != nil {
			t.Fatalf("move %d (%v) bad coordinates: %v", i, m, err)
		}
		if err := g.Play(idx); err != nil {
			t.Fatalf("move %d (%v) failed: %v", i, m, err)
		}
	}
}

var winningLines = [][][2]int{
	// rows
	{{0, 0}, {0, 1}, {0, 2}},
	{{1, 0}, {1, 1}, {1, 2}},
	{{2, 0}, {2, 1}, {2, 2}},
	// cols
	{{0, 0}, {1, 0}, {2, 0}},
	{{0, 1}, {1, 1}, {2, 1}},
	{{0, 2}, {1, 2}, {2, 2}},
	// diags
	{{0, 0}, {1, 1}, {2, 2}},
	{{0, 2}, {1, 1}, {2, 0}},
}

func onLine(line [][2]int, f [2]int) bool {
	return f == line[0] || f == line[1] || f == line[2]
}

func TestNewGameInitialState(t *testing.T) {
	g := New()
	if g.Turn != X {
		t.Fatalf("expected initial turn X, got %v", g.Turn)
	}
	if g.Moves != 0 {
		t.Fatalf("expected 0 moves, got %d", g.Moves)
	}
	if g.Over() {
		t.Fatalf("expected game not over")
	}
	if g.Outcome.Winner != Empty {
		t.Fatalf("expected no winner, got %v", g.Outcome.Winner)
	}
	for i, c := range g.Board {
		if c != Empty {
			t.Fatalf("expected empty board, cell %d = %v", i, c)
		}
	}
}

func TestPlayOutOfBounds(t *testing.T) {
	g := New()
	for _, i := range []int{-1, 9, 42} {
		if err := g.Play(i); !errors.Is(err, ErrInvalidIndex) {
			t.Fatalf("expected ErrInvalidIndex for %d, got %v", i, err)
		}
	}
	if g.Moves != 0 || g.Turn != X {
		t.Fatalf("rejected moves must not change state: moves=%d turn=%v", g.Moves, g.Turn)
	}
}

func TestIndexOutOfBounds(t *testing.T) {
	cases := [][2]int{{-1, 0}, {0, -1}, {3, 0}, {0, 3}, {5, 5}}
	for _, m := range cases {
		if _, err := Index(m[0], m[1]); !errors.Is(err, ErrInvalidIndex) {
			t.Fatalf("expected ErrInvalidIndex for %v, got %v", m, err)
		}
	}
	if i, err := Index(2, 1); err != nil || i != 7 {
		t.Fatalf("Index(2,1) = %d, %v; want 7", i, err)
	}
}

func TestPlayOccupied(t *testing.T) {
	g := New()
	if err := g.Play(0); err != nil {
		t.Fatalf("first move failed: %v", err)
	}
	if err := g.Play(0); !errors.Is(err, ErrOccupied) {
		t.Fatalf("expected ErrOccupied on same cell, got %v", err)
	}
	if g.Turn != O {
		t.Fatalf("occupied move must not flip turn")
	}
}

func TestTurnFlipsAfterValidMove(t *testing.T) {
	g := New()
	if err := g.Play(4); err != nil {
		t.Fatalf("move failed: %v", err)
	}
	if g.Turn != O {
		t.Fatalf("expected turn to flip to O, got %v", g.Turn)
	}
}

func TestWinConditionsForX(t *testing.T) {
	filler := [][2]int{{1, 2}, {2, 1}, {1, 0}, {2, 0}, {0, 2}, {0, 1}}
	for _, line := range winningLines {
		g := New()
		seq := make([][2]int, 0, 5)
		seq = append(seq, line[0])
		for _, f := range filler {
			if !onLine(line, f) {
				seq = append(seq, f)
				break
			}
		}
		seq = append(seq, line[1])
		for _, f := range filler {
			if !onLine(line, f) && f != seq[1] {
				seq = append(seq, f)
				break
			}
		}
		seq = append(seq, line[2])

		playMoves(t, &g, seq)
		if !g.Over() || g.Outcome.Status != Won || g.Outcome.Winner != X {
			t.Fatalf("expected X to win on line %v; outcome=%+v", line, g.Outcome)
		}
		if g.Moves != 5 {
			t.Fatalf("expected 5 moves to win, got %d", g.Moves)
		}
	}
}

func TestWinConditionsForO(t *testing.T) {
	// X plays fillers, O plays the line cells.
	fillers := [][2]int{{1, 2}, {2, 1}, {1, 0}, {2, 0}, {0, 2}, {0, 1}, {2, 2}, {1, 1}}
	for _, line := range winningLines {
		var picked [][2]int
		for _, f := range fillers {
			if !onLine(line, f) {
				picked = append(picked, f)
			}
			if len(picked) == 3 {
				break
			}
		}
		g := New()
		seq := [][2]int{picked[0], line[0], picked[1], line[1], picked[2], line[2]}
		playMoves(t, &g, seq)
		if !g.Over() || g.Outcome.Winner != O {
			t.Fatalf("expected O to win on line %v; outcome=%+v", line, g.Outcome)
		}
		if g.Moves != 6 {
			t.Fatalf("expected 6 moves to win for O, got %d", g.Moves)
		}
	}
}

func TestDrawNoWinner(t *testing.T) {
	g := New()
	seq := [][2]int{
		{0, 0}, {0, 1}, {0, 2},
		{1, 1}, {1, 0}, {1, 2},
		{2, 1}, {2, 0}, {2, 2},
	}
	playMoves(t, &g, seq)
	if !g.Over() || g.Outcome.Status != Draw {
		t.Fatalf("expected draw, got %+v", g.Outcome)
	}
	if g.Outcome.Winner != Empty {
		t.Fatalf("expected no winner on draw, got %v", g.Outcome.Winner)
	}
	if g.Moves != 9 {
		t.Fatalf("expected 9 moves on draw, got %d", g.Moves)
	}
}

func TestGameOverBlocksFurtherMoves(t *testing.T) {
	g := New()
	seq := [][2]int{{0, 0}, {1, 0}, {0, 1}, {1, 1}, {0, 2}}
	playMoves(t, &g, seq)
	if !g.Over() || g.Outcome.Winner != X {
		t.Fatalf("expected X win before extra move")
	}
	if err := g.Play(8); !errors.Is(err, ErrGameOver) {
		t.Fatalf("expected ErrGameOver, got %v", err)
	}
}
