// Package console plays a session on a terminal: boards are drawn as text
// grids, shots are read as "row col" lines and outcomes are announced the
// way the game always has.
package console

import (
	"bytes"
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"battleship/internal/game"
)

// Renderer draws the enemy board as a scan (ships hidden) above the
// player's own board.
type Renderer struct {
	w io.Writer
}

func NewRenderer(w io.Writer) *Renderer { return &Renderer{w: w} }

func (r *Renderer) Render(friendly, enemy *game.Board) {
	fmt.Fprint(r.w, "Scanning Board\n"+Grid(enemy, true)+"\n")
	fmt.Fprint(r.w, "My Board\n"+Grid(friendly, false)+"\n")
}

// Grid formats b with column numbers across the top and row numbers down the
// left. With masked set, ship cells that have not been hit show as Empty.
func Grid(b *game.Board, masked bool) string {
	var buf bytes.Buffer
	tw := tabwriter.NewWriter(&buf, 2, 0, 1, ' ', 0)

	fmt.Fprint(tw, "\t")
	for col := 0; col < b.Width; col++ {
		fmt.Fprint(tw, strconv.Itoa(col)+"\t")
	}
	fmt.Fprint(tw, "\n")

	for row := 0; row < b.Height; row++ {
		fmt.Fprint(tw, strconv.Itoa(row)+"\t")
		for col := 0; col < b.Width; col++ {
			cell := b.At(game.Coord{Row: row, Col: col})
			if masked && cell.IsShip() {
				cell = game.Empty
			}
			fmt.Fprint(tw, cell.String()+"\t")
		}
		fmt.Fprint(tw, "\n")
	}
	tw.Flush()
	return buf.String()
}
