package app

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"

	"github.com/rs/zerolog"

	"battleship/internal/ai"
	"battleship/internal/game"
	"battleship/internal/zk"
)

// Side identifies a player.
type Side int

const (
	SideNone Side = iota
	SideHuman
	SideComputer
)

func (s Side) String() string {
	switch s {
	case SideHuman:
		return "human"
	case SideComputer:
		return "computer"
	}
	return "none"
}

var ErrUnknownSide = errors.New("unknown side")

// ParseSide reads "human" or "computer"; an empty string is SideNone.
func ParseSide(s string) (Side, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none":
		return SideNone, nil
	case "human":
		return SideHuman, nil
	case "computer", "ai":
		return SideComputer, nil
	}
	return SideNone, fmt.Errorf("%w: %q", ErrUnknownSide, s)
}

func (s Side) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

func (s *Side) UnmarshalText(b []byte) error {
	v, err := ParseSide(string(b))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// Opponent returns the other side.
func (s Side) Opponent() Side {
	switch s {
	case SideHuman:
		return SideComputer
	case SideComputer:
		return SideHuman
	}
	return SideNone
}

// WinRule decides when a board counts as fully resolved.
type WinRule int

const (
	// WinAllShipsSunk: a board is lost once no intact ship cell remains.
	// Unfired empty cells count as resolved.
	WinAllShipsSunk WinRule = iota
	// WinAllCellsFired additionally requires every cell to have been fired at.
	WinAllCellsFired
)

var ErrUnknownWinRule = errors.New("unknown win rule")

func (r WinRule) String() string {
	if r == WinAllCellsFired {
		return "all"
	}
	return "sunk"
}

func ParseWinRule(s string) (WinRule, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "sunk", "ships":
		return WinAllShipsSunk, nil
	case "all", "cells", "strict":
		return WinAllCellsFired, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownWinRule, s)
}

func (r WinRule) MarshalText() ([]byte, error) { return []byte(r.String()), nil }

func (r *WinRule) UnmarshalText(b []byte) error {
	v, err := ParseWinRule(string(b))
	if err != nil {
		return err
	}
	*r = v
	return nil
}

// Config is everything needed to set up a session.
type Config struct {
	Width  int
	Height int
	Ships  []game.ShipSpec
	Mode   ai.Mode
	Rule   WinRule

	// Rand drives computer placement, the first turn and the strategies.
	// A nil Rand is seeded randomly.
	Rand *rand.Rand
	// First forces the starting side; SideNone picks one at random.
	First Side
	// ComputerFleet replaces random placement of the computer's ships.
	ComputerFleet game.Fleet

	// Commit commits the computer's fleet layout at setup so answers can be
	// proven and the layout audited afterwards. Keys enables shot proofs.
	Commit bool
	Keys   *zk.Keys

	Logger *zerolog.Logger
}

// Board size limits for a session.
const (
	MaxDimension = 1000
	MaxCells     = 1 << 16
)

// Validate checks the settings that do not depend on ship placement.
func (c Config) Validate() error {
	if c.Width <= 0 || c.Height <= 0 {
		return game.ErrBadDimensions
	}
	if c.Width > MaxDimension || c.Height > MaxDimension || c.Width*c.Height > MaxCells {
		return fmt.Errorf("%w: %dx%d board, at most %d per side and %d cells",
			game.ErrBadDimensions, c.Width, c.Height, MaxDimension, MaxCells)
	}
	if !c.Mode.Valid() {
		return fmt.Errorf("%w: %d", ai.ErrUnknownMode, int(c.Mode))
	}
	if c.Rule != WinAllShipsSunk && c.Rule != WinAllCellsFired {
		return fmt.Errorf("%w: %d", ErrUnknownWinRule, int(c.Rule))
	}
	if c.First != SideNone && c.First != SideHuman && c.First != SideComputer {
		return fmt.Errorf("%w: %d", ErrUnknownSide, int(c.First))
	}
	if c.Commit && c.Width*c.Height > zk.MaxCells {
		return fmt.Errorf("%w: %dx%d board, at most %d cells can be committed", ErrBoardTooLarge, c.Width, c.Height, zk.MaxCells)
	}
	return nil
}
