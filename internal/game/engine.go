package game

import "math/rand"

// Direction of a one-cell move request.
type Direction int

const (
	DirLeft Direction = iota
	DirRight
	DirDown
)

// IsValidPlacement reports whether piece p fits on the board with the
// top-left corner of its shape at (x, y). Columns are checked against
// both walls and rows against the floor; cells above the visible board
// (boardY < 0) skip the occupancy check so pieces may sit partially
// hidden right after spawning.
func IsValidPlacement(b Board, p Piece, x, y int) bool {
	for r, row := range p.Shape {
		for c, v := range row {
			if v == 0 {
				continue
			}
			boardX, boardY := x+c, y+r
			if boardX < 0 || boardX >= Cols || boardY >= Rows {
				return false
			}
			if boardY >= 0 && b[boardY][boardX].Occupied() {
				return false
			}
		}
	}
	return true
}

// Move tries a one-cell shift in direction d. It returns the moved state
// and true, or the state unchanged and false when the target placement
// is invalid. A rejected down move means the piece has landed; locking
// is the caller's decision.
func Move(s State, d Direction) (State, bool) {
	dx, dy := 0, 0
	switch d {
	case DirLeft:
		dx = -1
	case DirRight:
		dx = 1
	case DirDown:
		dy = 1
	}
	if !IsValidPlacement(s.Board, s.Active, s.X+dx, s.Y+dy) {
		return s, false
	}
	s.X += dx
	s.Y += dy
	return s, true
}

// Rotate tries a clockwise rotation in place, rejecting it when the
// rotated shape would collide or leave the board.
func Rotate(s State) (State, bool) {
	rotated := RotateClockwise(s.Active)
	if !IsValidPlacement(s.Board, rotated, s.X, s.Y) {
		return s, false
	}
	s.Active = rotated
	return s, true
}

// Lock commits the active piece into the board, clears and scores any
// completed rows, and spawns the next piece. A spawn that immediately
// collides flags game over. Returns the new state and the number of
// rows cleared.
func Lock(s State, rng *rand.Rand) (State, int) {
	for r, row := range s.Active.Shape {
		for c, v := range row {
			if v == 0 {
				continue
			}
			boardY := s.Y + r
			if boardY < 0 {
				continue // cells above the top edge are discarded
			}
			s.Board[boardY][s.X+c] = Cell{Kind: CellFilled, Color: s.Active.Color}
		}
	}
	var cleared int
	s.Board, cleared = ClearCompletedLines(s.Board)
	if cleared > 0 {
		s.Score += ScoreFor(cleared)
		s.LinesCleared += cleared
	}
	return spawn(s, rng), cleared
}

// spawn draws the next piece at the top-center position and flags game
// over when it cannot be placed there.
func spawn(s State, rng *rand.Rand) State {
	p := Draw(rng)
	s.Active = p
	s.X = spawnX(p)
	s.Y = 0
	if !IsValidPlacement(s.Board, p, s.X, s.Y) {
		s.GameOver = true
	}
	return s
}

func spawnX(p Piece) int {
	return Cols/2 - p.Width()/2
}

// ClearCompletedLines removes every full row and shifts the rows above
// it down one step. After a shift the same index is examined again,
// because a new row has just slid into it.
func ClearCompletedLines(b Board) (Board, int) {
	count := 0
	for y := Rows - 1; y >= 0; {
		if !rowFull(b, y) {
			y--
			continue
		}
		for yy := y; yy > 0; yy-- {
			b[yy] = b[yy-1]
		}
		b[0] = [Cols]Cell{}
		count++
	}
	return b, count
}

func rowFull(b Board, y int) bool {
	for x := 0; x < Cols; x++ {
		if !b[y][x].Occupied() {
			return false
		}
	}
	return true
}

// ScoreFor maps a simultaneous clear count to points.
func ScoreFor(lines int) int {
	if lines <= 0 {
		return 0
	}
	switch lines {
	case 1:
		return 100
	case 2:
		return 300
	case 3:
		return 500
	case 4:
		return 800
	}
	return lines * 100
}
