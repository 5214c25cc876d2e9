package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testFleet(t *testing.T) Fleet {
	t.Helper()
	fleet, err := ValidatePlacement([]ShipSpec{
		{Symbol: 'A', R1: 0, C1: 0, R2: 0, C2: 2},
		{Symbol: 'B', R1: 2, C1: 3, R2: 3, C2: 3},
	}, 4, 4)
	require.NoError(t, err)
	return fleet
}

func TestBuildBoard(t *testing.T) {
	fleet := testFleet(t)
	b := BuildBoard(fleet, 4, 4)

	counts := map[Cell]int{}
	for _, row := range b.Cells() {
		require.Len(t, row, 4)
		for _, c := range row {
			counts[c]++
		}
	}
	for sym, coords := range fleet {
		assert.Equal(t, len(coords), counts[sym], "ship %s", sym)
		assert.Equal(t, len(coords), b.Intact(sym))
	}
	assert.Equal(t, 16-5, counts[Empty])
	assert.Equal(t, 16, b.Unfired())
	assert.Equal(t, []Cell{'A', 'B'}, b.Symbols())
	assert.Equal(t, []Coord{{0, 0}, {0, 1}, {0, 2}, {2, 3}, {3, 3}}, b.ShipCells())

	layout := b.Layout()
	assert.Equal(t, uint8(1), layout[0*4+1])
	assert.Equal(t, uint8(1), layout[3*4+3])
	assert.Equal(t, uint8(0), layout[1*4+1])
}

func TestBoardInBounds(t *testing.T) {
	b := BuildBoard(nil, 3, 2)
	assert.True(t, b.InBounds(Coord{1, 2}))
	assert.False(t, b.InBounds(Coord{2, 0}))
	assert.False(t, b.InBounds(Coord{0, 3}))
	assert.False(t, b.InBounds(Coord{-1, 0}))
}

func TestFireMissIsIdempotent(t *testing.T) {
	b := BuildBoard(testFleet(t), 4, 4)

	assert.Equal(t, Outcome{Kind: OutcomeMiss}, b.Fire(Coord{1, 1}))
	assert.Equal(t, Miss, b.At(Coord{1, 1}))
	before := b.Cells()
	unfired := b.Unfired()

	assert.Equal(t, Outcome{Kind: OutcomeMiss}, b.Fire(Coord{1, 1}))
	assert.Equal(t, before, b.Cells())
	assert.Equal(t, unfired, b.Unfired())

	// an already hit cell also settles to a miss without changing
	require.Equal(t, OutcomeHit, b.Fire(Coord{0, 0}).Kind)
	before = b.Cells()
	assert.Equal(t, Outcome{Kind: OutcomeMiss}, b.Fire(Coord{0, 0}))
	assert.Equal(t, before, b.Cells())
	assert.Equal(t, 2, b.Intact('A'))
}

func TestFireSinksOnLastCell(t *testing.T) {
	orders := [][]Coord{
		{{0, 0}, {0, 1}, {0, 2}},
		{{0, 2}, {0, 0}, {0, 1}},
		{{0, 1}, {0, 2}, {0, 0}},
	}
	for _, order := range orders {
		b := BuildBoard(testFleet(t), 4, 4)
		for i, p := range order {
			out := b.Fire(p)
			if i < len(order)-1 {
				assert.Equal(t, Outcome{Kind: OutcomeHit, Symbol: 'A'}, out)
				assert.False(t, b.Sunk('A'))
			} else {
				assert.Equal(t, Outcome{Kind: OutcomeSunk, Symbol: 'A'}, out)
			}
		}
		assert.True(t, b.Sunk('A'))
		assert.Zero(t, b.Intact('A'))
		for _, p := range order {
			assert.Equal(t, Hit, b.At(p))
		}
		assert.False(t, b.AllShipsSunk())
	}
}

func TestAllShipsSunk(t *testing.T) {
	fleet := testFleet(t)
	b := BuildBoard(fleet, 4, 4)
	for _, sym := range fleet.Symbols() {
		for _, p := range fleet[sym] {
			b.Fire(p)
		}
	}
	assert.True(t, b.AllShipsSunk())
	assert.Empty(t, b.ShipCells())
	assert.Equal(t, 11, b.Unfired())
}

func TestOutcomeString(t *testing.T) {
	assert.Equal(t, "miss", Outcome{}.String())
	assert.Equal(t, "hit", Outcome{Kind: OutcomeHit, Symbol: 'A'}.String())
	assert.Equal(t, "sunk A", Outcome{Kind: OutcomeSunk, Symbol: 'A'}.String())
	assert.True(t, Outcome{Kind: OutcomeSunk}.Struck())
	assert.False(t, Outcome{}.Struck())
}
