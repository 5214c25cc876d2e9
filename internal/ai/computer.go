package ai

import (
	"errors"
	"fmt"
	"math/rand/v2"

	"battleship/internal/game"
)

var (
	// ErrIllegalMove means a strategy offered a coordinate that was already
	// fired at or lies off the board. It is a defect, not an input error.
	ErrIllegalMove = errors.New("strategy offered a coordinate outside the open moves")
	ErrNoMoves     = errors.New("no open moves left")
)

// Computer is the computer side: a strategy plus the moves it has left.
type Computer struct {
	Mode     Mode
	open     *OpenMoves
	strategy Strategy
	history  []game.Coord
}

// NewComputer prepares a computer player firing at opponent.
func NewComputer(mode Mode, rng *rand.Rand, opponent *game.Board) (*Computer, error) {
	open := NewOpenMoves(opponent.Width, opponent.Height)
	s, err := NewStrategy(mode, rng, open, opponent)
	if err != nil {
		return nil, err
	}
	return &Computer{Mode: mode, open: open, strategy: s}, nil
}

// Move asks the strategy for a shot and claims it from the open moves.
func (c *Computer) Move() (game.Coord, error) {
	if c.open.Len() == 0 {
		return game.Coord{}, ErrNoMoves
	}
	shot := c.strategy.Next()
	if !c.open.Remove(shot) {
		return game.Coord{}, fmt.Errorf("%w: %s offered %s", ErrIllegalMove, c.Mode, shot)
	}
	c.history = append(c.history, shot)
	return shot, nil
}

// Record feeds the resolved outcome of the last Move back to the strategy.
func (c *Computer) Record(shot game.Coord, outcome game.Outcome) {
	c.strategy.Observe(shot, outcome)
}

func (c *Computer) Strategy() Strategy { return c.strategy }

func (c *Computer) Open() *OpenMoves { return c.open }

// History lists the computer's shots in order.
func (c *Computer) History() []game.Coord { return append([]game.Coord(nil), c.history...) }
