package game

import (
	"errors"
	"fmt"
	"math/rand/v2"
)

// MaxPlacementAttempts bounds the rejection sampling for a single ship.
const MaxPlacementAttempts = 10000

var (
	ErrBadLength           = errors.New("ship length must be positive")
	ErrPlacementInfeasible = errors.New("failed to place ships")
)

// PlaceShips places one ship per symbol, in ascending symbol order, at a
// random orientation and start. Attempts that collide with an already placed
// ship are discarded whole.
func PlaceShips(rng *rand.Rand, lengths map[Cell]int, width, height int) (Fleet, error) {
	if width <= 0 || height <= 0 {
		return nil, ErrBadDimensions
	}
	total := 0
	for sym, n := range lengths {
		if n <= 0 {
			return nil, fmt.Errorf("ship %s: %w", sym, ErrBadLength)
		}
		if n > width && n > height {
			return nil, fmt.Errorf("ship %s of length %d does not fit a %dx%d board: %w", sym, n, width, height, ErrPlacementInfeasible)
		}
		total += n
	}
	if total > width*height {
		return nil, fmt.Errorf("%d ship cells on %d board cells: %w", total, width*height, ErrPlacementInfeasible)
	}

	placed := make(map[Coord]bool, total)
	fleet := make(Fleet, len(lengths))
	for _, sym := range symbolSet(lengths).Symbols() {
		n := lengths[sym]
		coords, err := placeOne(rng, placed, n, width, height)
		if err != nil {
			return nil, fmt.Errorf("ship %s: %w", sym, err)
		}
		for _, p := range coords {
			placed[p] = true
		}
		fleet[sym] = coords
	}
	return fleet, nil
}

func placeOne(rng *rand.Rand, placed map[Coord]bool, n, width, height int) ([]Coord, error) {
	coords := make([]Coord, 0, n)
	for tries := 0; tries < MaxPlacementAttempts; tries++ {
		horizontal := rng.IntN(2) == 0
		lastRow, lastCol := height-1, width-n
		if !horizontal {
			lastRow, lastCol = height-n, width-1
		}
		if lastRow < 0 || lastCol < 0 {
			continue
		}
		r, c := rng.IntN(lastRow+1), rng.IntN(lastCol+1)

		coords = coords[:0]
		ok := true
		for i := 0; i < n; i++ {
			p := Coord{r, c}
			if placed[p] {
				ok = false
				break
			}
			coords = append(coords, p)
			if horizontal {
				c++
			} else {
				r++
			}
		}
		if ok {
			return coords, nil
		}
	}
	return nil, ErrPlacementInfeasible
}

func symbolSet(lengths map[Cell]int) Fleet {
	f := make(Fleet, len(lengths))
	for s := range lengths {
		f[s] = nil
	}
	return f
}
