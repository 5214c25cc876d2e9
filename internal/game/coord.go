package game

import "fmt"

// Coord is a (row, column) pair, 0-indexed.
type Coord struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

func (c Coord) String() string { return fmt.Sprintf("(%d, %d)", c.Row, c.Col) }

// Neighbors returns the orthogonal neighbours in up, down, left, right order.
// Bounds are not checked.
func (c Coord) Neighbors() [4]Coord {
	return [4]Coord{
		{c.Row - 1, c.Col},
		{c.Row + 1, c.Col},
		{c.Row, c.Col - 1},
		{c.Row, c.Col + 1},
	}
}

// AllCoords lists every coordinate of a width x height grid in row-major order.
func AllCoords(width, height int) []Coord {
	out := make([]Coord, 0, width*height)
	for r := 0; r < height; r++ {
		for c := 0; c < width; c++ {
			out = append(out, Coord{r, c})
		}
	}
	return out
}
