package domain

import "errors"

// Cell represents a board cell state.
type Cell uint8

const (
	Empty Cell = iota
	X
	O
)

// Opponent returns the other marker. Empty has no opponent.
func (c Cell) Opponent() Cell {
	switch c {
	case X:
		return O
	case O:
		return X
	default:
		return Empty
	}
}

// Valid reports whether c is a player marker.
func (c Cell) Valid() bool { return c == X || c == O }

func (c Cell) String() string {
	switch c {
	case X:
		return "X"
	case O:
		return "O"
	default:
		return " "
	}
}

// Size is the number of cells on the board.
const Size = 9

// Board is a fixed 3x3 board stored row-major.
type Board [Size]Cell

// Errors returned by board operations.
var (
	ErrInvalidIndex = errors.New("invalid index")
	ErrOccupied     = errors.New("cell occupied")
	ErrInvalidCell  = errors.New("invalid marker")
)

// Index maps row r and column c (0..2) to a board index.
func Index(r, c int) (int, error) {
	if r < 0 || r > 2 || c < 0 || c > 2 {
		return 0, ErrInvalidIndex
	}
	return r*3 + c, nil
}

func validIndex(i int) bool { return i >= 0 && i < Size }

// At returns the cell at index i.
func (b *Board) At(i int) (Cell, error) {
	if !validIndex(i) {
		return Empty, ErrInvalidIndex
	}
	return b[i], nil
}

// IsEmpty reports whether the cell at index i is unoccupied.
func (b *Board) IsEmpty(i int) (bool, error) {
	c, err := b.At(i)
	if err != nil {
		return false, err
	}
	return c == Empty, nil
}

// Set occupies an empty cell with marker c.
func (b *Board) Set(i int, c Cell) error {
	if !validIndex(i) {
		return ErrInvalidIndex
	}
	if !c.Valid() {
		return ErrInvalidCell
	}
	if b[i] != Empty {
		return ErrOccupied
	}
	b[i] = c
	return nil
}

// Clear restores the cell at index i to Empty. Only search backtracking
// should need this; a game is reset by replacing the whole board.
func (b *Board) Clear(i int) error {
	if !validIndex(i) {
		return ErrInvalidIndex
	}
	b[i] = Empty
	return nil
}

// Indices returns the indices holding c in ascending order.
func (b *Board) Indices(c Cell) []int {
	out := make([]int, 0, Size)
	for i, v := range b {
		if v == c {
			out = append(out, i)
		}
	}
	return out
}

// Full reports whether no empty cell remains.
func (b *Board) Full() bool {
	for _, v := range b {
		if v == Empty {
			return false
		}
	}
	return true
}

func (b Board) String() string {
	buf := make([]byte, 0, 11)
	for i, v := range b {
		if i > 0 && i%3 == 0 {
			buf = append(buf, '/')
		}
		if v == Empty {
			buf = append(buf, '.')
			continue
		}
		buf = append(buf, v.String()...)
	}
	return string(buf)
}
