package game

import "math/rand"

// Board dimensions. Row 0 is the top; pieces spawn there and fall toward
// row Rows-1.
const (
	Rows = 20
	Cols = 10
)

type CellKind int

const (
	CellEmpty CellKind = iota
	CellFilled
	CellGarbage
)

// Cell is one board square. Kind distinguishes empty, player-filled and
// garbage cells; Color is the render token ("" while empty).
type Cell struct {
	Kind  CellKind `json:"kind"`
	Color string   `json:"color,omitempty"`
}

// Occupied reports whether the cell blocks a falling piece.
func (c Cell) Occupied() bool {
	return c.Kind != CellEmpty
}

// Board is the fixed playfield grid. The zero value is an empty board.
type Board [Rows][Cols]Cell

// State is the authoritative simulation state of one player. Engine
// operations take it by value and return the successor, so callers keep
// the old state until they commit.
type State struct {
	ID           int   `json:"id"`
	Board        Board `json:"board"`
	Active       Piece `json:"activePiece"`
	X            int   `json:"x"`
	Y            int   `json:"y"`
	Score        int   `json:"score"`
	LinesCleared int   `json:"linesCleared"`
	GameOver     bool  `json:"gameOver"`
}

// NewState builds the connect-time state: an empty board with a freshly
// drawn piece at the spawn position.
func NewState(id int, rng *rand.Rand) State {
	p := Draw(rng)
	return State{
		ID:     id,
		Active: p,
		X:      spawnX(p),
		Y:      0,
	}
}
