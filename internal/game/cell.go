package game

import (
	"errors"
	"fmt"
)

// Cell holds one grid position: a marker or the symbol of the ship occupying it.
type Cell rune

const (
	Empty   Cell = '*'
	Hit     Cell = 'X'
	AltHit  Cell = 'x'
	Miss    Cell = 'O'
	AltMiss Cell = 'o'
)

// IsReserved reports whether s is one of the marker characters and so
// cannot name a ship.
func IsReserved(s Cell) bool {
	switch s {
	case Empty, Hit, AltHit, Miss, AltMiss:
		return true
	}
	return false
}

// IsShip reports whether the cell still holds an intact ship symbol.
func (c Cell) IsShip() bool { return !IsReserved(c) }

// Fired reports whether the cell has been shot at.
func (c Cell) Fired() bool {
	switch c {
	case Hit, AltHit, Miss, AltMiss:
		return true
	}
	return false
}

func (c Cell) String() string { return string(rune(c)) }

var ErrSymbolLength = errors.New("ship symbol must be a single character")

func (c Cell) MarshalText() ([]byte, error) { return []byte(string(rune(c))), nil }

func (c *Cell) UnmarshalText(b []byte) error {
	r := []rune(string(b))
	if len(r) != 1 {
		return fmt.Errorf("%w: %q", ErrSymbolLength, b)
	}
	*c = Cell(r[0])
	return nil
}
