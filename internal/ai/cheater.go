package ai

import "battleship/internal/game"

// Cheater knows where the opponent's ships are and fires at them in
// row-major order. With no target left it defers to fallback.
type Cheater struct {
	targets  []game.Coord
	fallback Strategy
}

func NewCheater(targets []game.Coord, fallback Strategy) *Cheater {
	return &Cheater{targets: append([]game.Coord(nil), targets...), fallback: fallback}
}

func (c *Cheater) Next() game.Coord {
	if len(c.targets) == 0 {
		return c.fallback.Next()
	}
	next := c.targets[0]
	c.targets = c.targets[1:]
	return next
}

func (c *Cheater) Observe(shot game.Coord, outcome game.Outcome) {
	c.fallback.Observe(shot, outcome)
}

// Remaining is the number of known ship cells not fired at yet.
func (c *Cheater) Remaining() int { return len(c.targets) }
