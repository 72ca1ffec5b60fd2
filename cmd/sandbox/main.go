package main

import (
	"bufio"
	"fmt"
	"math/rand"
	"os"
	"strings"
	"time"

	"block-battle/internal/game"
)

// Terminal harness for the board engine. It drives a single board with
// the same operations the server dispatches, which makes rule changes
// easy to poke at without a websocket client.
func main() {
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	st := game.NewState(1, rng)

	reader := bufio.NewReader(os.Stdin)
	fmt.Println("commands: a=left d=right s=down w=rotate x=drop l=lock q=quit")

	for !st.GameOver {
		printBoard(st)
		fmt.Printf("score=%d lines=%d\n> ", st.Score, st.LinesCleared)

		line, err := reader.ReadString('\n')
		if err != nil {
			break
		}

		var cleared int
		switch strings.TrimSpace(line) {
		case "a":
			st, _ = game.Move(st, game.DirLeft)
		case "d":
			st, _ = game.Move(st, game.DirRight)
		case "s":
			next, moved := game.Move(st, game.DirDown)
			if moved {
				st = next
			} else {
				st, cleared = game.Lock(st, rng)
			}
		case "w":
			st, _ = game.Rotate(st)
		case "x":
			for {
				next, moved := game.Move(st, game.DirDown)
				if !moved {
					break
				}
				st = next
			}
			st, cleared = game.Lock(st, rng)
		case "l":
			st, cleared = game.Lock(st, rng)
		case "q":
			return
		default:
			fmt.Println("unknown command")
			continue
		}
		if cleared > 0 {
			fmt.Printf("cleared %d line(s), +%d points\n", cleared, game.ScoreFor(cleared))
		}
	}

	printBoard(st)
	fmt.Println("game over")
}

// printBoard overlays the active piece on a copy of the board so the
// fall is visible.
func printBoard(st game.State) {
	b := st.Board
	for r, row := range st.Active.Shape {
		for c, v := range row {
			y, x := st.Y+r, st.X+c
			if v == 1 && y >= 0 && y < game.Rows && x >= 0 && x < game.Cols {
				b[y][x] = game.Cell{Kind: game.CellFilled, Color: st.Active.Color}
			}
		}
	}
	for y := 0; y < game.Rows; y++ {
		var sb strings.Builder
		sb.WriteByte('|')
		for x := 0; x < game.Cols; x++ {
			switch b[y][x].Kind {
			case game.CellEmpty:
				sb.WriteString(" .")
			case game.CellGarbage:
				sb.WriteString(" #")
			default:
				sb.WriteString(" o")
			}
		}
		sb.WriteString(" |")
		fmt.Println(sb.String())
	}
}
