package console

import (
	"fmt"
	"io"

	"battleship/internal/app"
	"battleship/internal/game"
)

// Announcer prints shot results and the winner.
type Announcer struct {
	w io.Writer
}

func NewAnnouncer(w io.Writer) *Announcer { return &Announcer{w: w} }

func (a *Announcer) Shot(by app.Side, at game.Coord, outcome game.Outcome) {
	if by == app.SideComputer {
		fmt.Fprintf(a.w, "The AI fires at location (%d, %d)\n", at.Row, at.Col)
	}
	switch outcome.Kind {
	case game.OutcomeMiss:
		fmt.Fprintln(a.w, "Miss!")
	case game.OutcomeHit:
		fmt.Fprintln(a.w, "Hit!")
	case game.OutcomeSunk:
		if by == app.SideHuman {
			fmt.Fprintf(a.w, "You sunk my %s ship.\n", outcome.Symbol)
		} else {
			fmt.Fprintf(a.w, "I sunk your %s ship.\n", outcome.Symbol)
		}
	}
}

func (a *Announcer) GameOver(winner app.Side) {
	if winner == app.SideHuman {
		fmt.Fprintln(a.w, "You win!")
		return
	}
	fmt.Fprintln(a.w, "The AI wins.")
}
