package game

import "math/rand"

// MinUsableRows is the headroom floor garbage insertion never crosses:
// whatever the request, the victim keeps at least this many playable
// rows at the top.
const MinUsableRows = 4

// ApplyGarbage shifts the board contents up by up to lines rows and
// fills the vacated bottom with garbage rows, each fully occupied except
// one random gap column. If the shift invalidates the active piece it is
// re-seated at the nearest valid y above; when no row fits, the player
// tops out. Returns the new state and the number of rows actually
// inserted.
func ApplyGarbage(s State, lines int, rng *rand.Rand) (State, int) {
	if lines <= 0 {
		return s, 0
	}
	add := lines
	if max := Rows - MinUsableRows; add > max {
		add = max
	}

	for y := 0; y < Rows-add; y++ {
		s.Board[y] = s.Board[y+add]
	}
	for y := Rows - add; y < Rows; y++ {
		gap := rng.Intn(Cols)
		for x := 0; x < Cols; x++ {
			if x == gap {
				s.Board[y][x] = Cell{}
			} else {
				s.Board[y][x] = Cell{Kind: CellGarbage, Color: GarbageColor}
			}
		}
	}

	if !IsValidPlacement(s.Board, s.Active, s.X, s.Y) {
		seated := false
		for y := s.Y - 1; y >= 0; y-- {
			if IsValidPlacement(s.Board, s.Active, s.X, y) {
				s.Y = y
				seated = true
				break
			}
		}
		if !seated {
			s.GameOver = true
		}
	}
	return s, add
}
