package ai

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"battleship/internal/game"
)

func fire(t *testing.T, open *OpenMoves, h *Hunter, shot game.Coord, outcome game.Outcome) {
	t.Helper()
	require.True(t, open.Remove(shot), "%v already fired", shot)
	h.Observe(shot, outcome)
}

var (
	miss = game.Outcome{Kind: game.OutcomeMiss}
	hit  = game.Outcome{Kind: game.OutcomeHit, Symbol: 'A'}
	sunk = game.Outcome{Kind: game.OutcomeSunk, Symbol: 'A'}
)

func TestHunterStartsHunting(t *testing.T) {
	open := NewOpenMoves(5, 5)
	h := NewHunter(rand.New(rand.NewPCG(1, 1)), open)
	assert.True(t, h.Hunting())
	assert.Empty(t, h.Queue())
	assert.True(t, open.Has(h.Next()))
}

func TestHunterQueuesNeighboursAfterHit(t *testing.T) {
	open := NewOpenMoves(5, 5)
	h := NewHunter(rand.New(rand.NewPCG(1, 1)), open)

	fire(t, open, h, game.Coord{Row: 2, Col: 2}, sunk)
	assert.False(t, h.Hunting())
	assert.Equal(t, []game.Coord{{1, 2}, {3, 2}, {2, 1}, {2, 3}}, h.Queue())

	// FIFO, misses keep target mode while the queue has entries
	for _, want := range []game.Coord{{1, 2}, {3, 2}, {2, 1}, {2, 3}} {
		require.False(t, h.Hunting())
		got := h.Next()
		assert.Equal(t, want, got)
		fire(t, open, h, got, miss)
	}
	assert.True(t, h.Hunting(), "miss with an empty queue returns to hunting")
	assert.Empty(t, h.Queue())
}

func TestHunterCornerAndEdge(t *testing.T) {
	open := NewOpenMoves(4, 3)
	h := NewHunter(rand.New(rand.NewPCG(2, 2)), open)

	fire(t, open, h, game.Coord{Row: 0, Col: 0}, hit)
	assert.Equal(t, []game.Coord{{1, 0}, {0, 1}}, h.Queue())

	open = NewOpenMoves(4, 3)
	h = NewHunter(rand.New(rand.NewPCG(2, 2)), open)
	fire(t, open, h, game.Coord{Row: 2, Col: 1}, hit)
	assert.Equal(t, []game.Coord{{1, 1}, {2, 0}, {2, 2}}, h.Queue())
}

func TestHunterSkipsFiredAndQueued(t *testing.T) {
	open := NewOpenMoves(5, 5)
	h := NewHunter(rand.New(rand.NewPCG(3, 3)), open)

	fire(t, open, h, game.Coord{Row: 0, Col: 1}, miss)
	fire(t, open, h, game.Coord{Row: 1, Col: 1}, hit)
	assert.Equal(t, []game.Coord{{2, 1}, {1, 0}, {1, 2}}, h.Queue())

	fire(t, open, h, game.Coord{Row: 2, Col: 2}, hit)
	assert.Equal(t, []game.Coord{{2, 1}, {1, 0}, {1, 2}, {3, 2}, {2, 3}}, h.Queue())
}

func TestHunterAppendsOnChainedHits(t *testing.T) {
	open := NewOpenMoves(5, 5)
	h := NewHunter(rand.New(rand.NewPCG(4, 4)), open)

	fire(t, open, h, game.Coord{Row: 2, Col: 2}, hit)
	next := h.Next()
	require.Equal(t, game.Coord{Row: 1, Col: 2}, next)
	fire(t, open, h, next, hit)

	assert.Equal(t, []game.Coord{{3, 2}, {2, 1}, {2, 3}, {0, 2}, {1, 1}, {1, 3}}, h.Queue())
	assert.Equal(t, hit, h.LastOutcome())
}

func TestHunterFallsBackToRandomWhenQueueDrains(t *testing.T) {
	// a lone hit in a corner whose neighbours were already fired
	open := NewOpenMoves(2, 2)
	h := NewHunter(rand.New(rand.NewPCG(5, 5)), open)
	fire(t, open, h, game.Coord{Row: 0, Col: 1}, miss)
	fire(t, open, h, game.Coord{Row: 1, Col: 0}, miss)
	fire(t, open, h, game.Coord{Row: 0, Col: 0}, hit)

	assert.Empty(t, h.Queue())
	assert.False(t, h.Hunting(), "a hit keeps target mode for one more turn")
	assert.Equal(t, game.Coord{Row: 1, Col: 1}, h.Next())
}
