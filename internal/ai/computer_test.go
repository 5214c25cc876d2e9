package ai

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"battleship/internal/game"
)

func opponentBoard(t *testing.T) *game.Board {
	t.Helper()
	fleet, err := game.ValidatePlacement([]game.ShipSpec{
		{Symbol: 'A', R1: 0, C1: 0, R2: 0, C2: 4},
		{Symbol: 'B', R1: 2, C1: 3, R2: 5, C2: 3},
		{Symbol: 'C', R1: 5, C1: 5, R2: 5, C2: 6},
	}, 7, 6)
	require.NoError(t, err)
	return game.BuildBoard(fleet, 7, 6)
}

func TestOpenMoves(t *testing.T) {
	open := NewOpenMoves(3, 2)
	assert.Equal(t, 6, open.Len())
	assert.True(t, open.Has(game.Coord{Row: 1, Col: 2}))
	assert.False(t, open.Has(game.Coord{Row: 2, Col: 0}))

	assert.True(t, open.Remove(game.Coord{Row: 0, Col: 0}))
	assert.False(t, open.Remove(game.Coord{Row: 0, Col: 0}))
	assert.True(t, open.Remove(game.Coord{Row: 1, Col: 2}))
	assert.Equal(t, 4, open.Len())
	assert.False(t, open.Has(game.Coord{Row: 0, Col: 0}))

	rng := rand.New(rand.NewPCG(9, 9))
	for i := 0; i < 100; i++ {
		c := open.Random(rng)
		assert.True(t, open.Has(c))
	}
}

func TestParseMode(t *testing.T) {
	for in, want := range map[string]Mode{
		"1": ModeRandom, "random": ModeRandom,
		"2": ModeSmart, " Smart ": ModeSmart,
		"3": ModeCheater, "cheater": ModeCheater,
	} {
		got, err := ParseMode(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got)
	}
	_, err := ParseMode("4")
	assert.ErrorIs(t, err, ErrUnknownMode)

	var m Mode
	require.NoError(t, m.UnmarshalText([]byte("cheater")))
	assert.Equal(t, ModeCheater, m)
	b, _ := ModeSmart.MarshalText()
	assert.Equal(t, "smart", string(b))
}

func TestComputerSinksEverythingWithoutRepeats(t *testing.T) {
	for _, mode := range []Mode{ModeRandom, ModeSmart, ModeCheater} {
		t.Run(mode.String(), func(t *testing.T) {
			board := opponentBoard(t)
			c, err := NewComputer(mode, rand.New(rand.NewPCG(11, 12)), board)
			require.NoError(t, err)

			fired := map[game.Coord]bool{}
			for !board.AllShipsSunk() {
				shot, err := c.Move()
				require.NoError(t, err)
				require.False(t, fired[shot], "%v fired twice", shot)
				require.True(t, board.InBounds(shot))
				fired[shot] = true
				c.Record(shot, board.Fire(shot))
			}
			assert.Equal(t, len(fired), len(c.History()))
			assert.Equal(t, 42-len(fired), c.Open().Len())
		})
	}
}

func TestCheaterFiresShipCellsInOrder(t *testing.T) {
	board := opponentBoard(t)
	want := board.ShipCells()
	c, err := NewComputer(ModeCheater, rand.New(rand.NewPCG(1, 1)), board)
	require.NoError(t, err)

	for i, p := range want {
		shot, err := c.Move()
		require.NoError(t, err)
		assert.Equal(t, p, shot, "shot %d", i)
		out := board.Fire(shot)
		assert.True(t, out.Struck(), "cheater missed at %v", shot)
		c.Record(shot, out)
	}
	assert.True(t, board.AllShipsSunk())
	assert.Zero(t, c.Strategy().(*Cheater).Remaining())

	// exhausted cheater keeps going at random without repeats
	shot, err := c.Move()
	require.NoError(t, err)
	assert.NotContains(t, want, shot)
}

type stuckStrategy struct{ at game.Coord }

func (s stuckStrategy) Next() game.Coord                 { return s.at }
func (s stuckStrategy) Observe(game.Coord, game.Outcome) {}

func TestComputerRejectsIllegalMove(t *testing.T) {
	c := &Computer{Mode: ModeRandom, open: NewOpenMoves(2, 2), strategy: stuckStrategy{game.Coord{Row: 1, Col: 1}}}
	_, err := c.Move()
	require.NoError(t, err)
	_, err = c.Move()
	assert.ErrorIs(t, err, ErrIllegalMove)

	c.strategy = stuckStrategy{game.Coord{Row: 5, Col: 5}}
	_, err = c.Move()
	assert.ErrorIs(t, err, ErrIllegalMove)
}

func TestComputerNoMoves(t *testing.T) {
	board := game.BuildBoard(nil, 1, 1)
	c, err := NewComputer(ModeRandom, rand.New(rand.NewPCG(1, 1)), board)
	require.NoError(t, err)
	_, err = c.Move()
	require.NoError(t, err)
	_, err = c.Move()
	assert.ErrorIs(t, err, ErrNoMoves)
}

func TestNewComputerUnknownMode(t *testing.T) {
	_, err := NewComputer(Mode(7), rand.New(rand.NewPCG(1, 1)), opponentBoard(t))
	assert.ErrorIs(t, err, ErrUnknownMode)
}
