package ai

import (
	"math/rand/v2"
	"slices"

	"battleship/internal/game"
)

// Hunter is the hunt/target strategy.
//
// In hunt mode it fires at random. A shot that strikes a ship queues the
// shot's open orthogonal neighbours and switches to target mode, where shots
// are taken from the head of the queue (oldest first). The machine goes back
// to hunting only after a miss with an empty queue.
type Hunter struct {
	rng     *rand.Rand
	open    *OpenMoves
	queue   []game.Coord
	hunting bool
	last    game.Outcome
}

func NewHunter(rng *rand.Rand, open *OpenMoves) *Hunter {
	return &Hunter{rng: rng, open: open, hunting: true}
}

func (h *Hunter) Next() game.Coord {
	if h.hunting || len(h.queue) == 0 {
		return h.open.Random(h.rng)
	}
	var next game.Coord
	next, h.queue = h.queue[0], h.queue[1:]
	return next
}

func (h *Hunter) Observe(shot game.Coord, outcome game.Outcome) {
	h.last = outcome
	if outcome.Struck() {
		for _, n := range shot.Neighbors() {
			if h.open.Has(n) && !slices.Contains(h.queue, n) {
				h.queue = append(h.queue, n)
			}
		}
	}
	h.hunting = !outcome.Struck() && len(h.queue) == 0
}

// Hunting reports whether the next shot is a random hunt shot.
func (h *Hunter) Hunting() bool { return h.hunting }

// Queue returns a copy of the pending destroy candidates, head first.
func (h *Hunter) Queue() []game.Coord { return slices.Clone(h.queue) }

// LastOutcome is the outcome of the most recent observed shot.
func (h *Hunter) LastOutcome() game.Outcome { return h.last }
