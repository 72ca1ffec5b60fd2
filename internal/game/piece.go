package game

import "math/rand"

// Piece is a falling block: a 0/1 occupancy matrix plus its color token.
// Shape matrices are never mutated after construction, so catalog pieces
// share them freely.
type Piece struct {
	Shape [][]int `json:"shape"`
	Color string  `json:"color"`
}

// GarbageColor is the token used for penalty rows pushed onto a board by
// an opponent's multi-line clear.
const GarbageColor = "gray"

// catalog holds the seven standard pieces with tight shape matrices.
var catalog = []Piece{
	{Shape: [][]int{{1, 1, 1, 1}}, Color: "cyan"},           // I
	{Shape: [][]int{{1, 1}, {1, 1}}, Color: "yellow"},       // O
	{Shape: [][]int{{0, 1, 0}, {1, 1, 1}}, Color: "purple"}, // T
	{Shape: [][]int{{0, 1, 1}, {1, 1, 0}}, Color: "green"},  // S
	{Shape: [][]int{{1, 1, 0}, {0, 1, 1}}, Color: "red"},    // Z
	{Shape: [][]int{{1, 0, 0}, {1, 1, 1}}, Color: "blue"},   // J
	{Shape: [][]int{{0, 0, 1}, {1, 1, 1}}, Color: "orange"}, // L
}

// Pieces returns the piece catalog. Callers must treat the shapes as
// read-only.
func Pieces() []Piece {
	out := make([]Piece, len(catalog))
	copy(out, catalog)
	return out
}

// Draw picks the next piece uniformly at random.
func Draw(rng *rand.Rand) Piece {
	return catalog[rng.Intn(len(catalog))]
}

// Width is the number of columns in the shape matrix.
func (p Piece) Width() int {
	if len(p.Shape) == 0 {
		return 0
	}
	return len(p.Shape[0])
}

// Height is the number of rows in the shape matrix.
func (p Piece) Height() int {
	return len(p.Shape)
}

// RotateClockwise returns a copy of p turned 90 degrees clockwise: an
// RxC shape becomes CxR with rotated[c][R-1-r] = shape[r][c].
func RotateClockwise(p Piece) Piece {
	rows := len(p.Shape)
	if rows == 0 {
		return p
	}
	cols := len(p.Shape[0])
	rotated := make([][]int, cols)
	for c := range rotated {
		rotated[c] = make([]int, rows)
	}
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			rotated[c][rows-1-r] = p.Shape[r][c]
		}
	}
	return Piece{Shape: rotated, Color: p.Color}
}
