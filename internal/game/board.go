package game

import "sort"

// Fleet maps each ship symbol to the coordinates it occupies.
type Fleet map[Cell][]Coord

// Symbols returns the fleet's symbols in ascending order.
func (f Fleet) Symbols() []Cell {
	out := make([]Cell, 0, len(f))
	for s := range f {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Lengths derives the symbol -> length map used to place a matching fleet.
func Lengths(f Fleet) map[Cell]int {
	out := make(map[Cell]int, len(f))
	for s, cs := range f {
		out[s] = len(cs)
	}
	return out
}

// Specs turns the fleet back into placement descriptors, ascending by
// symbol. Coordinates are assumed to be a straight line in traversal order.
func (f Fleet) Specs() []ShipSpec {
	out := make([]ShipSpec, 0, len(f))
	for _, s := range f.Symbols() {
		cs := f[s]
		if len(cs) == 0 {
			continue
		}
		first, last := cs[0], cs[len(cs)-1]
		out = append(out, ShipSpec{Symbol: s, R1: first.Row, C1: first.Col, R2: last.Row, C2: last.Col})
	}
	return out
}

// Board is a height x width grid owned by one side. Cells are mutated in
// place by Fire; counters track intact ship cells and unfired cells so that
// sunk and win checks never rescan the grid.
type Board struct {
	Width  int
	Height int

	cells   [][]Cell
	layout  []uint8
	intact  map[Cell]int
	afloat  int
	unfired int
}

// BuildBoard fills a width x height grid with Empty and overlays each ship's
// coordinates with its symbol. The fleet is trusted to be legal.
func BuildBoard(fleet Fleet, width, height int) *Board {
	b := &Board{
		Width:   width,
		Height:  height,
		cells:   make([][]Cell, height),
		layout:  make([]uint8, width*height),
		intact:  make(map[Cell]int, len(fleet)),
		unfired: width * height,
	}
	for r := range b.cells {
		row := make([]Cell, width)
		for c := range row {
			row[c] = Empty
		}
		b.cells[r] = row
	}
	for sym, coords := range fleet {
		for _, p := range coords {
			b.cells[p.Row][p.Col] = sym
			b.layout[p.Row*width+p.Col] = 1
			b.intact[sym]++
			b.afloat++
		}
	}
	return b
}

func (b *Board) InBounds(c Coord) bool {
	return c.Row >= 0 && c.Row < b.Height && c.Col >= 0 && c.Col < b.Width
}

// At returns the cell at c. c must be in bounds.
func (b *Board) At(c Coord) Cell { return b.cells[c.Row][c.Col] }

// Intact returns how many cells of the ship named sym are still undamaged.
func (b *Board) Intact(sym Cell) int { return b.intact[sym] }

// Sunk reports whether the ship named sym has no intact cell left.
func (b *Board) Sunk(sym Cell) bool {
	_, ok := b.intact[sym]
	return ok && b.intact[sym] == 0
}

// Symbols lists the ship symbols placed on the board, ascending.
func (b *Board) Symbols() []Cell {
	out := make([]Cell, 0, len(b.intact))
	for s := range b.intact {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// ShipCells returns the coordinates that still hold an intact ship symbol,
// in row-major order.
func (b *Board) ShipCells() []Coord {
	var out []Coord
	for r, row := range b.cells {
		for c, cell := range row {
			if cell.IsShip() {
				out = append(out, Coord{r, c})
			}
		}
	}
	return out
}

// AllShipsSunk reports whether no intact ship cell remains.
func (b *Board) AllShipsSunk() bool { return b.afloat == 0 }

// Unfired is the number of cells never shot at.
func (b *Board) Unfired() int { return b.unfired }

// Layout returns the initial occupancy bitmap, row-major: 1 for a ship cell.
// It does not change as the board is fired upon.
func (b *Board) Layout() []uint8 {
	out := make([]uint8, len(b.layout))
	copy(out, b.layout)
	return out
}

// Cells returns a copy of the grid for renderers.
func (b *Board) Cells() [][]Cell {
	out := make([][]Cell, len(b.cells))
	for r, row := range b.cells {
		out[r] = append([]Cell(nil), row...)
	}
	return out
}
