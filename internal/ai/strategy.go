package ai

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"

	"battleship/internal/game"
)

// Strategy chooses the computer's shots.
type Strategy interface {
	// Next returns the coordinate to fire at. It must be an open move.
	Next() game.Coord
	// Observe is called after the shot returned by Next is resolved and
	// removed from the open moves.
	Observe(shot game.Coord, outcome game.Outcome)
}

// Mode selects a strategy. The numeric values match the menu choices.
type Mode int

const (
	ModeRandom  Mode = 1
	ModeSmart   Mode = 2
	ModeCheater Mode = 3
)

var ErrUnknownMode = errors.New("unknown AI mode")

func (m Mode) String() string {
	switch m {
	case ModeRandom:
		return "random"
	case ModeSmart:
		return "smart"
	case ModeCheater:
		return "cheater"
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

func (m Mode) Valid() bool { return m >= ModeRandom && m <= ModeCheater }

// ParseMode accepts a menu number or a mode name.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "random":
		return ModeRandom, nil
	case "2", "smart", "hunt":
		return ModeSmart, nil
	case "3", "cheater", "cheat":
		return ModeCheater, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownMode, s)
}

func (m Mode) MarshalText() ([]byte, error) { return []byte(m.String()), nil }

func (m *Mode) UnmarshalText(b []byte) error {
	v, err := ParseMode(string(b))
	if err != nil {
		return err
	}
	*m = v
	return nil
}

// NewStrategy builds the strategy for mode. The cheater reads the opponent's
// ship cells once, here.
func NewStrategy(mode Mode, rng *rand.Rand, open *OpenMoves, opponent *game.Board) (Strategy, error) {
	switch mode {
	case ModeRandom:
		return NewRandom(rng, open), nil
	case ModeSmart:
		return NewHunter(rng, open), nil
	case ModeCheater:
		return NewCheater(opponent.ShipCells(), NewRandom(rng, open)), nil
	}
	return nil, fmt.Errorf("%w: %d", ErrUnknownMode, int(mode))
}
