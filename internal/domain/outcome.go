package domain

// Status is the coarse state of a board.
type Status uint8

const (
	InProgress Status = iota
	Won
	Draw
)

func (s Status) String() string {
	switch s {
	case Won:
		return "won"
	case Draw:
		return "draw"
	default:
		return "in progress"
	}
}

// Outcome describes whether a board is won, drawn or still open.
// Winner is only set when Status is Won.
type Outcome struct {
	Status Status
	Winner Cell
}

// Over reports whether the outcome is terminal.
func (o Outcome) Over() bool { return o.Status != InProgress }

// Lines lists the winning index triples: rows, columns, diagonals.
// Evaluate scans them in this order.
var Lines = [8][3]int{
	// rows
	{0, 1, 2}, {3, 4, 5}, {6, 7, 8},
	// cols
	{0, 3, 6}, {1, 4, 7}, {2, 5, 8},
	// diags
	{0, 4, 8}, {2, 4, 6},
}

// Evaluate reports the outcome of b. The first complete line in Lines
// decides the winner.
func Evaluate(b Board) Outcome {
	for _, ln := range Lines {
		c := b[ln[0]]
		if c != Empty && b[ln[1]] == c && b[ln[2]] == c {
			return Outcome{Status: Won, Winner: c}
		}
	}
	if b.Full() {
		return Outcome{Status: Draw}
	}
	return Outcome{Status: InProgress}
}
