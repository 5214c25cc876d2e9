package app

import (
	"context"

	"battleship/internal/game"
)

// Targets lets an input collaborator check a coordinate before handing it in.
type Targets interface {
	Dimensions() (width, height int)
	CheckTarget(c game.Coord) error
}

// Input supplies the human's shots. Implementations re-prompt until
// CheckTarget accepts the coordinate.
type Input interface {
	Target(ctx context.Context, t Targets) (game.Coord, error)
}

// Renderer draws the human's own board and what is known of the enemy's.
type Renderer interface {
	Render(friendly, enemy *game.Board)
}

// Feedback observes shot outcomes and the end of the game.
type Feedback interface {
	Shot(by Side, at game.Coord, outcome game.Outcome)
	GameOver(winner Side)
}
