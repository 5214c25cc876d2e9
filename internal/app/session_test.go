package app

import (
	"context"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"battleship/internal/ai"
	"battleship/internal/game"
)

// scripted feeds fixed targets, skipping any the session rejects.
type scripted struct {
	targets []game.Coord
	asked   int
}

func (s *scripted) Target(_ context.Context, t Targets) (game.Coord, error) {
	for {
		s.asked++
		next := s.targets[0]
		s.targets = s.targets[1:]
		if t.CheckTarget(next) == nil {
			return next, nil
		}
	}
}

type recorder struct {
	shots   []Shot
	winner  Side
	renders int
}

func (r *recorder) Render(_, _ *game.Board) { r.renders++ }

func (r *recorder) Shot(by Side, at game.Coord, o game.Outcome) {
	r.shots = append(r.shots, Shot{By: by, At: at, Outcome: o})
}

func (r *recorder) GameOver(w Side) { r.winner = w }

func cheaterScenario(t *testing.T, rule WinRule) *Session {
	t.Helper()
	s, err := New(Config{
		Width:         3,
		Height:        3,
		Ships:         []game.ShipSpec{{Symbol: 'B', R1: 1, C1: 0, R2: 1, C2: 1}},
		ComputerFleet: game.Fleet{'A': {{Row: 0, Col: 0}, {Row: 0, Col: 1}}},
		Mode:          ai.ModeCheater,
		Rule:          rule,
		First:         SideComputer,
		Rand:          rand.New(rand.NewPCG(1, 2)),
	})
	require.NoError(t, err)
	return s
}

func TestCheaterScenarioAllShipsSunk(t *testing.T) {
	s := cheaterScenario(t, WinAllShipsSunk)

	c, out, err := s.FireComputer()
	require.NoError(t, err)
	assert.Equal(t, game.Coord{Row: 1, Col: 0}, c)
	assert.Equal(t, game.OutcomeHit, out.Kind)
	assert.Equal(t, SideHuman, s.Turn())

	_, err = s.FireHuman(game.Coord{Row: 2, Col: 2})
	require.NoError(t, err)

	c, out, err = s.FireComputer()
	require.NoError(t, err)
	assert.Equal(t, game.Coord{Row: 1, Col: 1}, c)
	assert.Equal(t, game.Outcome{Kind: game.OutcomeSunk, Symbol: 'B'}, out)

	assert.True(t, s.Over())
	assert.Equal(t, SideComputer, s.Winner())

	_, err = s.FireHuman(game.Coord{Row: 0, Col: 0})
	assert.ErrorIs(t, err, ErrGameOver)
}

func TestCheaterScenarioAllCellsFired(t *testing.T) {
	s := cheaterScenario(t, WinAllCellsFired)

	// the human fires at every empty cell and one ship cell, never sinking A
	human := []game.Coord{{2, 2}, {2, 1}, {2, 0}, {1, 2}, {1, 1}, {1, 0}, {0, 2}, {0, 0}}

	var computer []game.Coord
	for i := 0; !s.Over(); i++ {
		c, _, err := s.FireComputer()
		require.NoError(t, err)
		computer = append(computer, c)
		if i == 1 {
			assert.True(t, s.HumanBoard().AllShipsSunk())
			assert.False(t, s.Over(), "unfired cells keep the game going")
		}
		if s.Over() {
			break
		}
		_, err = s.FireHuman(human[i])
		require.NoError(t, err)
		require.False(t, s.Over())
	}

	assert.Equal(t, SideComputer, s.Winner())
	assert.Equal(t, []game.Coord{{1, 0}, {1, 1}}, computer[:2])
	assert.Len(t, computer, 9)
	assert.Zero(t, s.HumanBoard().Unfired())
	assert.Equal(t, 1, s.ComputerBoard().Unfired())
}

func TestTurnsAlternate(t *testing.T) {
	s, err := New(Config{
		Width:  4,
		Height: 4,
		Ships:  []game.ShipSpec{{Symbol: 'A', R1: 0, C1: 0, R2: 0, C2: 2}},
		Mode:   ai.ModeRandom,
		First:  SideHuman,
		Rand:   rand.New(rand.NewPCG(5, 6)),
	})
	require.NoError(t, err)

	_, _, err = s.FireComputer()
	assert.ErrorIs(t, err, ErrNotYourTurn)

	_, err = s.FireHuman(game.Coord{Row: 4, Col: 0})
	assert.ErrorIs(t, err, ErrOffBoard)
	assert.Equal(t, SideHuman, s.Turn(), "a rejected target does not pass the turn")

	_, err = s.FireHuman(game.Coord{Row: 3, Col: 3})
	require.NoError(t, err)
	assert.Equal(t, SideComputer, s.Turn())

	_, err = s.FireHuman(game.Coord{Row: 3, Col: 2})
	assert.ErrorIs(t, err, ErrNotYourTurn)

	_, _, err = s.FireComputer()
	require.NoError(t, err)
	assert.Equal(t, SideHuman, s.Turn())

	_, err = s.FireHuman(game.Coord{Row: 3, Col: 3})
	assert.ErrorIs(t, err, ErrAlreadyFired)

	assert.Equal(t, []game.Coord{{3, 3}}, s.HumanMoves())
	assert.Len(t, s.ComputerMoves(), 1)
	assert.Len(t, s.Shots(), 2)
}

func TestFirstSideIsRandom(t *testing.T) {
	seen := map[Side]bool{}
	for seed := uint64(0); seed < 32; seed++ {
		s, err := New(Config{
			Width:  3,
			Height: 3,
			Ships:  []game.ShipSpec{{Symbol: 'A', R1: 0, C1: 0, R2: 0, C2: 0}},
			Mode:   ai.ModeRandom,
			Rand:   rand.New(rand.NewPCG(seed, 0)),
		})
		require.NoError(t, err)
		seen[s.Turn()] = true
	}
	assert.True(t, seen[SideHuman])
	assert.True(t, seen[SideComputer])
}

func TestNewRejectsBadSetup(t *testing.T) {
	base := Config{
		Width:  3,
		Height: 3,
		Ships:  []game.ShipSpec{{Symbol: 'A', R1: 0, C1: 0, R2: 0, C2: 1}},
		Mode:   ai.ModeSmart,
	}

	cfg := base
	cfg.Ships = append(cfg.Ships, game.ShipSpec{Symbol: 'B', R1: 0, C1: 1, R2: 1, C2: 1})
	_, err := New(cfg)
	assert.ErrorIs(t, err, game.ErrOverlap)

	cfg = base
	cfg.Mode = 0
	_, err = New(cfg)
	assert.ErrorIs(t, err, ai.ErrUnknownMode)

	cfg = base
	cfg.Width = 0
	_, err = New(cfg)
	assert.ErrorIs(t, err, game.ErrBadDimensions)

	cfg = base
	cfg.Width, cfg.Height = MaxDimension+1, 1
	_, err = New(cfg)
	assert.ErrorIs(t, err, game.ErrBadDimensions)

	cfg = base
	cfg.Width, cfg.Height = MaxDimension, MaxDimension
	_, err = New(cfg)
	assert.ErrorIs(t, err, game.ErrBadDimensions, "too many cells")

	cfg = base
	cfg.Width, cfg.Height, cfg.Commit = 20, 20, true
	_, err = New(cfg)
	assert.ErrorIs(t, err, ErrBoardTooLarge)

	cfg = base
	cfg.Ships = []game.ShipSpec{{Symbol: 'x', R1: 0, C1: 0, R2: 0, C2: 1}}
	_, err = New(cfg)
	assert.ErrorIs(t, err, game.ErrReservedSymbol)
}

func TestComputerFleetMatchesHumanLengths(t *testing.T) {
	s, err := New(Config{
		Width:  8,
		Height: 8,
		Ships: []game.ShipSpec{
			{Symbol: 'A', R1: 0, C1: 0, R2: 0, C2: 4},
			{Symbol: 'B', R1: 2, C1: 2, R2: 5, C2: 2},
			{Symbol: 'C', R1: 7, C1: 7, R2: 7, C2: 7},
		},
		Mode: ai.ModeSmart,
		Rand: rand.New(rand.NewPCG(8, 8)),
	})
	require.NoError(t, err)
	assert.Equal(t, game.Lengths(s.HumanFleet()), game.Lengths(s.ComputerFleet()))
}

func TestPlayToTheEnd(t *testing.T) {
	for _, mode := range []ai.Mode{ai.ModeRandom, ai.ModeSmart, ai.ModeCheater} {
		t.Run(mode.String(), func(t *testing.T) {
			s, err := New(Config{
				Width:  5,
				Height: 5,
				Ships: []game.ShipSpec{
					{Symbol: 'A', R1: 0, C1: 0, R2: 0, C2: 2},
					{Symbol: 'B', R1: 2, C1: 4, R2: 4, C2: 4},
				},
				Mode: mode,
				Rand: rand.New(rand.NewPCG(21, 22)),
			})
			require.NoError(t, err)

			// row-major sweep, with a repeat and an off-board target mixed in
			targets := []game.Coord{{0, 0}, {0, 0}, {9, 9}}
			targets = append(targets, game.AllCoords(5, 5)...)
			in := &scripted{targets: targets}
			rec := &recorder{}

			winner, err := s.Play(context.Background(), in, rec, rec)
			require.NoError(t, err)
			assert.NotEqual(t, SideNone, winner)
			assert.Equal(t, winner, rec.winner)
			assert.Equal(t, s.Shots(), rec.shots)
			assert.Positive(t, rec.renders)

			for i := 1; i < len(rec.shots); i++ {
				assert.NotEqual(t, rec.shots[i-1].By, rec.shots[i].By, "turns must alternate")
			}
			if mode == ai.ModeCheater {
				assert.Equal(t, SideComputer, winner, "cheater sinks 6 cells before the sweep finds both ships")
			}
		})
	}
}

func TestPlayStopsOnCancel(t *testing.T) {
	s := cheaterScenario(t, WinAllShipsSunk)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := s.Play(ctx, &scripted{}, &recorder{}, &recorder{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestParseWinRule(t *testing.T) {
	r, err := ParseWinRule("all")
	require.NoError(t, err)
	assert.Equal(t, WinAllCellsFired, r)
	r, err = ParseWinRule("")
	require.NoError(t, err)
	assert.Equal(t, WinAllShipsSunk, r)
	_, err = ParseWinRule("maybe")
	assert.ErrorIs(t, err, ErrUnknownWinRule)
}

func TestParseSide(t *testing.T) {
	var s Side
	require.NoError(t, s.UnmarshalText([]byte("computer")))
	assert.Equal(t, SideComputer, s)
	require.NoError(t, s.UnmarshalText([]byte("")))
	assert.Equal(t, SideNone, s)
	assert.ErrorIs(t, s.UnmarshalText([]byte("nobody")), ErrUnknownSide)
	assert.Equal(t, SideHuman, SideComputer.Opponent())
}
