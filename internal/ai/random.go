package ai

import (
	"math/rand/v2"

	"battleship/internal/game"
)

// Random fires at a uniformly random open coordinate every turn.
type Random struct {
	rng  *rand.Rand
	open *OpenMoves
}

func NewRandom(rng *rand.Rand, open *OpenMoves) *Random {
	return &Random{rng: rng, open: open}
}

func (s *Random) Next() game.Coord { return s.open.Random(s.rng) }

func (s *Random) Observe(game.Coord, game.Outcome) {}
