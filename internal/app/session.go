package app

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"

	"github.com/rs/zerolog"

	"battleship/internal/ai"
	"battleship/internal/game"
)

var (
	ErrNotYourTurn  = errors.New("not your turn")
	ErrGameOver     = errors.New("game is over")
	ErrOffBoard     = errors.New("target is outside the board")
	ErrAlreadyFired = errors.New("cell already targeted")
)

// Shot is one resolved move.
type Shot struct {
	By      Side         `json:"by"`
	At      game.Coord   `json:"at"`
	Outcome game.Outcome `json:"-"`
}

// Session owns both boards, both move histories and the computer's
// strategy state for one game. It is not safe for concurrent use.
type Session struct {
	width, height int
	rule          WinRule
	log           zerolog.Logger

	human         *game.Board // the human's own fleet, fired at by the computer
	computer      *game.Board
	humanFleet    game.Fleet
	computerFleet game.Fleet

	ai         *ai.Computer
	humanMoves []game.Coord
	humanFired map[game.Coord]bool
	shots      []Shot

	turn   Side
	winner Side

	commitment *Commitment
	cfg        Config
}

// New validates the human placement, places the computer's fleet and picks
// the starting side. Any error is fatal: no session is created.
func New(cfg Config) (*Session, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	log := zerolog.Nop()
	if cfg.Logger != nil {
		log = *cfg.Logger
	}
	rng := cfg.Rand
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}

	humanFleet, err := game.ValidatePlacement(cfg.Ships, cfg.Width, cfg.Height)
	if err != nil {
		return nil, err
	}
	computerFleet := cfg.ComputerFleet
	if computerFleet == nil {
		computerFleet, err = game.PlaceShips(rng, game.Lengths(humanFleet), cfg.Width, cfg.Height)
		if err != nil {
			return nil, err
		}
	}

	s := &Session{
		width:         cfg.Width,
		height:        cfg.Height,
		rule:          cfg.Rule,
		log:           log,
		human:         game.BuildBoard(humanFleet, cfg.Width, cfg.Height),
		computer:      game.BuildBoard(computerFleet, cfg.Width, cfg.Height),
		humanFleet:    humanFleet,
		computerFleet: computerFleet,
		humanFired:    make(map[game.Coord]bool),
		turn:          cfg.First,
		cfg:           cfg,
	}
	s.ai, err = ai.NewComputer(cfg.Mode, rng, s.human)
	if err != nil {
		return nil, err
	}
	if s.turn == SideNone {
		s.turn = SideHuman
		if rng.IntN(2) == 1 {
			s.turn = SideComputer
		}
	}
	if cfg.Commit {
		if s.commitment, err = Commit(s.computer); err != nil {
			return nil, err
		}
	}

	s.log.Info().
		Int("width", s.width).Int("height", s.height).
		Int("ships", len(humanFleet)).
		Stringer("ai", cfg.Mode).Stringer("rule", s.rule).
		Stringer("first", s.turn).
		Msg("game started")
	return s, nil
}

func (s *Session) Dimensions() (int, int) { return s.width, s.height }

// CheckTarget reports whether the human may fire at c now.
func (s *Session) CheckTarget(c game.Coord) error {
	if !s.human.InBounds(c) {
		return fmt.Errorf("%w: %s", ErrOffBoard, c)
	}
	if s.humanFired[c] {
		return fmt.Errorf("%w: %s", ErrAlreadyFired, c)
	}
	return nil
}

// FireHuman resolves the human's shot at c on the computer's board.
func (s *Session) FireHuman(c game.Coord) (game.Outcome, error) {
	if s.Over() {
		return game.Outcome{}, ErrGameOver
	}
	if s.turn != SideHuman {
		return game.Outcome{}, ErrNotYourTurn
	}
	if err := s.CheckTarget(c); err != nil {
		return game.Outcome{}, err
	}

	out := s.computer.Fire(c)
	s.humanFired[c] = true
	s.humanMoves = append(s.humanMoves, c)
	s.finishTurn(Shot{By: SideHuman, At: c, Outcome: out})
	return out, nil
}

// FireComputer lets the computer's strategy take its turn.
func (s *Session) FireComputer() (game.Coord, game.Outcome, error) {
	if s.Over() {
		return game.Coord{}, game.Outcome{}, ErrGameOver
	}
	if s.turn != SideComputer {
		return game.Coord{}, game.Outcome{}, ErrNotYourTurn
	}
	c, err := s.ai.Move()
	if err != nil {
		return game.Coord{}, game.Outcome{}, err
	}

	out := s.human.Fire(c)
	s.ai.Record(c, out)
	s.finishTurn(Shot{By: SideComputer, At: c, Outcome: out})
	return c, out, nil
}

func (s *Session) finishTurn(shot Shot) {
	s.shots = append(s.shots, shot)
	s.log.Debug().
		Stringer("by", shot.By).Stringer("at", shot.At).Stringer("outcome", shot.Outcome).
		Msg("shot")

	s.turn = s.turn.Opponent()
	switch {
	case s.resolved(s.human):
		s.winner = SideComputer
	case s.resolved(s.computer):
		s.winner = SideHuman
	}
	if s.winner != SideNone {
		s.log.Info().Stringer("winner", s.winner).
			Int("human_shots", len(s.humanMoves)).
			Int("computer_shots", len(s.ai.History())).
			Msg("game over")
	}
}

// resolved reports whether b's owner has lost under the session's rule.
func (s *Session) resolved(b *game.Board) bool {
	if !b.AllShipsSunk() {
		return false
	}
	return s.rule == WinAllShipsSunk || b.Unfired() == 0
}

func (s *Session) Turn() Side    { return s.turn }
func (s *Session) Winner() Side  { return s.winner }
func (s *Session) Over() bool    { return s.winner != SideNone }
func (s *Session) Rule() WinRule { return s.rule }
func (s *Session) Mode() ai.Mode { return s.cfg.Mode }
func (s *Session) Shots() []Shot { return append([]Shot(nil), s.shots...) }

func (s *Session) Computer() *ai.Computer { return s.ai }

// HumanBoard is the human's own fleet as the computer has shot it.
func (s *Session) HumanBoard() *game.Board { return s.human }

// ComputerBoard is the computer's fleet as the human has shot it.
func (s *Session) ComputerBoard() *game.Board { return s.computer }

func (s *Session) HumanMoves() []game.Coord { return append([]game.Coord(nil), s.humanMoves...) }

func (s *Session) ComputerMoves() []game.Coord { return s.ai.History() }

// ComputerFleet reveals the computer's ship placement.
func (s *Session) ComputerFleet() game.Fleet { return s.computerFleet }

func (s *Session) HumanFleet() game.Fleet { return s.humanFleet }

// Commitment is nil unless the session was created with Commit.
func (s *Session) Commitment() *Commitment { return s.commitment }

// Step plays one turn: a human shot read from in, or a computer shot.
// Rejected human targets are returned as errors for the caller to retry.
func (s *Session) Step(ctx context.Context, in Input) (Shot, error) {
	if s.Over() {
		return Shot{}, ErrGameOver
	}
	if s.turn == SideComputer {
		c, out, err := s.FireComputer()
		return Shot{By: SideComputer, At: c, Outcome: out}, err
	}
	c, err := in.Target(ctx, s)
	if err != nil {
		return Shot{}, err
	}
	out, err := s.FireHuman(c)
	return Shot{By: SideHuman, At: c, Outcome: out}, err
}

// Play runs turns until a winner is found or ctx is cancelled.
func (s *Session) Play(ctx context.Context, in Input, r Renderer, fb Feedback) (Side, error) {
	for !s.Over() {
		if err := ctx.Err(); err != nil {
			return SideNone, err
		}
		if s.turn == SideHuman {
			r.Render(s.human, s.computer)
		}
		shot, err := s.Step(ctx, in)
		if errors.Is(err, ErrOffBoard) || errors.Is(err, ErrAlreadyFired) {
			continue
		}
		if err != nil {
			return SideNone, err
		}
		fb.Shot(shot.By, shot.At, shot.Outcome)
	}
	r.Render(s.human, s.computer)
	fb.GameOver(s.winner)
	return s.winner, nil
}
