package ai

import (
	"errors"
	"testing"

	"github.com/jaminalder/tictactoe-ai/internal/domain"
)

const (
	x = domain.X
	o = domain.O
)

// playAll walks every game from b where the human (the computer's opponent)
// tries every legal move and the computer answers with s. visit is called
// once per finished game.
func playAll(t *testing.T, b *domain.Board, s Selector, computer domain.Cell, humanTurn bool, visit func(end domain.Board, out domain.Outcome)) {
	t.Helper()
	if out := domain.Evaluate(*b); out.Over() {
		visit(*b, out)
		return
	}
	if humanTurn {
		human := computer.Opponent()
		for _, i := range b.Indices(domain.Empty) {
			b[i] = human
			playAll(t, b, s, computer, false, visit)
			b[i] = domain.Empty
		}
		return
	}
	before := *b
	i, err := s.Select(b, computer)
	if err != nil {
		t.Fatalf("%v: select failed: %v", before, err)
	}
	if *b != before {
		t.Fatalf("select changed the board: %v -> %v", before, *b)
	}
	b[i] = computer
	playAll(t, b, s, computer, true, visit)
	b[i] = domain.Empty
}

func TestMinimaxNeverLoses(t *testing.T) {
	for _, tc := range []struct {
		name      string
		humanTurn bool
	}{
		{"human opens", true},
		{"computer opens", false},
	} {
		t.Run(tc.name, func(t *testing.T) {
			var b domain.Board
			games, draws := 0, 0
			playAll(t, &b, NewMinimax(), o, tc.humanTurn, func(end domain.Board, out domain.Outcome) {
				games++
				if out.Status == domain.Won && out.Winner == x {
					t.Fatalf("computer lost: %v", end)
				}
				if out.Status == domain.Draw {
					draws++
				}
			})
			if games == 0 || draws == 0 {
				t.Fatalf("expected both draws and wins to be explored, games=%d draws=%d", games, draws)
			}
			if b != (domain.Board{}) {
				t.Fatalf("board not restored after walk: %v", b)
			}
		})
	}
}

func TestMinimaxPunishesEveryMistake(t *testing.T) {
	s := NewMinimax()
	mistakes := 0
	var walk func(b *domain.Board)
	walk = func(b *domain.Board) {
		if domain.Evaluate(*b).Over() {
			return
		}
		// human (X) to move
		for _, i := range b.Indices(domain.Empty) {
			b[i] = x
			if !domain.Evaluate(*b).Over() && minimax(b, o, 0, true) == winScore {
				mistakes++
				playAll(t, b, s, o, false, func(end domain.Board, out domain.Outcome) {
					if out.Status != domain.Won || out.Winner != o {
						t.Fatalf("computer failed to convert a won position: %v", end)
					}
				})
			} else if !domain.Evaluate(*b).Over() {
				j, err := s.Select(b, o)
				if err != nil {
					t.Fatalf("select: %v", err)
				}
				b[j] = o
				walk(b)
				b[j] = domain.Empty
			}
			b[i] = domain.Empty
		}
	}
	var b domain.Board
	walk(&b)
	if mistakes == 0 {
		t.Fatalf("expected some losing human moves to be explored")
	}
}

func TestMinimaxTrapAfterMissedBlock(t *testing.T) {
	// X opened in a corner, O took the center, X took the opposite corner,
	// O played an edge threatening the middle column. X should have blocked
	// at 7 but played 2.
	b := domain.Board{
		x, o, x,
		0, o, 0,
		0, 0, x,
	}
	before := b
	i, err := NewMinimax().Select(&b, o)
	if err != nil {
		t.Fatalf("select: %v", err)
	}
	if b != before {
		t.Fatalf("select changed the board")
	}
	// 5 blocks X and forks (3 and 7); it scores the same as the immediate
	// win at 7 and comes first in scan order.
	if i != 5 {
		t.Fatalf("expected 5, got %d", i)
	}
	b[i] = o
	playAll(t, &b, NewMinimax(), o, true, func(end domain.Board, out domain.Outcome) {
		if out.Winner != o {
			t.Fatalf("expected O to win after the trap, ended %v with %+v", end, out)
		}
	})
}

func TestMinimaxTieBreakIsFirstIndex(t *testing.T) {
	cases := []struct {
		name  string
		board domain.Board
		want  int
	}{
		{"empty board", domain.Board{}, 0},
		{"center opening", domain.Board{4: x}, 0},
		{"corner opening", domain.Board{0: x}, 4},
	}
	for _, tc := range cases {
		b := tc.board
		got, err := NewMinimax().Select(&b, o)
		if err != nil {
			t.Fatalf("%s: %v", tc.name, err)
		}
		if got != tc.want {
			t.Fatalf("%s: expected %d, got %d", tc.name, tc.want, got)
		}
		if b != tc.board {
			t.Fatalf("%s: board changed: %v", tc.name, b)
		}
	}
}

func TestMinimaxTerminalScores(t *testing.T) {
	won := domain.Board{o, o, o, x, x, 0, x, 0, 0}
	lost := domain.Board{x, x, x, o, o, 0, 0, 0, 0}
	draw := domain.Board{x, o, x, x, o, o, o, x, x}
	if s := minimax(&won, o, 0, false); s != winScore {
		t.Fatalf("won board scored %d", s)
	}
	if s := minimax(&lost, o, 0, true); s != lossScore {
		t.Fatalf("lost board scored %d", s)
	}
	if s := minimax(&draw, o, 0, true); s != drawScore {
		t.Fatalf("draw board scored %d", s)
	}
}

func TestSelectRejectsFinishedBoards(t *testing.T) {
	full := domain.Board{x, o, x, x, o, o, o, x, x}
	won := domain.Board{x, x, x, o, o, 0, 0, 0, 0}
	for name, s := range map[string]Selector{
		"random":    NewRandom(nil),
		"heuristic": NewHeuristic(nil),
		"minimax":   NewMinimax(),
	} {
		for _, b := range []domain.Board{full, won} {
			before := b
			if _, err := s.Select(&b, o); !errors.Is(err, ErrNoLegalMove) {
				t.Fatalf("%s on %v: expected ErrNoLegalMove, got %v", name, before, err)
			}
			if b != before {
				t.Fatalf("%s changed a finished board", name)
			}
		}
		var empty domain.Board
		if _, err := s.Select(&empty, domain.Empty); !errors.Is(err, ErrInvalidMarker) {
			t.Fatalf("%s: expected ErrInvalidMarker, got %v", name, err)
		}
	}
}
