package game

import (
	"errors"
	"fmt"
	"unicode"
)

var (
	ErrBadDimensions   = errors.New("board width and height must be positive")
	ErrReservedSymbol  = errors.New("invalid ship symbol")
	ErrDuplicateSymbol = errors.New("ship symbol already in use")
	ErrOutOfBounds     = errors.New("placed outside of the board")
	ErrDiagonal        = errors.New("ships cannot be placed diagonally")
	ErrOverlap         = errors.New("there is already a ship at this location")
	ErrNoShips         = errors.New("no ships to place")
)

// ShipSpec is one raw placement: a symbol and the two end points of the ship.
type ShipSpec struct {
	Symbol Cell `json:"symbol"`
	R1     int  `json:"r1"`
	C1     int  `json:"c1"`
	R2     int  `json:"r2"`
	C2     int  `json:"c2"`
}

// PlacementError reports which ship broke which rule.
type PlacementError struct {
	Symbol Cell
	Coord  *Coord
	Err    error
}

func (e *PlacementError) Error() string {
	if e.Coord != nil {
		return fmt.Sprintf("ship %s: %v %s", e.Symbol, e.Err, e.Coord)
	}
	return fmt.Sprintf("ship %s: %v", e.Symbol, e.Err)
}

func (e *PlacementError) Unwrap() error { return e.Err }

// ValidatePlacement checks the specs in order and returns the coordinates of
// every ship. Each ship's coordinates are listed row-major from its minimum
// row and column. The first broken rule aborts validation.
func ValidatePlacement(specs []ShipSpec, width, height int) (Fleet, error) {
	if width <= 0 || height <= 0 {
		return nil, ErrBadDimensions
	}
	if len(specs) == 0 {
		return nil, ErrNoShips
	}

	fleet := make(Fleet, len(specs))
	claimed := make(map[Coord]Cell)
	for _, s := range specs {
		if IsReserved(s.Symbol) || !unicode.IsGraphic(rune(s.Symbol)) || unicode.IsSpace(rune(s.Symbol)) {
			return nil, &PlacementError{Symbol: s.Symbol, Err: ErrReservedSymbol}
		}
		if _, dup := fleet[s.Symbol]; dup {
			return nil, &PlacementError{Symbol: s.Symbol, Err: ErrDuplicateSymbol}
		}
		if !between(s.R1, height) || !between(s.R2, height) || !between(s.C1, width) || !between(s.C2, width) {
			return nil, &PlacementError{Symbol: s.Symbol, Err: ErrOutOfBounds}
		}
		if s.R1 != s.R2 && s.C1 != s.C2 {
			return nil, &PlacementError{Symbol: s.Symbol, Err: ErrDiagonal}
		}

		coords := make([]Coord, 0, max(s.R1, s.R2)-min(s.R1, s.R2)+max(s.C1, s.C2)-min(s.C1, s.C2)+1)
		for r := min(s.R1, s.R2); r <= max(s.R1, s.R2); r++ {
			for c := min(s.C1, s.C2); c <= max(s.C1, s.C2); c++ {
				p := Coord{r, c}
				if _, taken := claimed[p]; taken {
					return nil, &PlacementError{Symbol: s.Symbol, Coord: &p, Err: ErrOverlap}
				}
				claimed[p] = s.Symbol
				coords = append(coords, p)
			}
		}
		fleet[s.Symbol] = coords
	}
	return fleet, nil
}

func between(v, limit int) bool { return v >= 0 && v < limit }
