package game

import "fmt"

// OutcomeKind classifies a resolved shot.
type OutcomeKind int

const (
	OutcomeMiss OutcomeKind = iota
	OutcomeHit
	OutcomeSunk
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeHit:
		return "hit"
	case OutcomeSunk:
		return "sunk"
	default:
		return "miss"
	}
}

// Outcome is the result of Fire. Symbol is set for hits and sinkings.
type Outcome struct {
	Kind   OutcomeKind
	Symbol Cell
}

// Struck reports whether the shot damaged a ship.
func (o Outcome) Struck() bool { return o.Kind != OutcomeMiss }

func (o Outcome) String() string {
	if o.Kind == OutcomeSunk {
		return fmt.Sprintf("sunk %s", o.Symbol)
	}
	return o.Kind.String()
}

// Fire resolves a shot at c, which must be in bounds. Shooting an already
// resolved cell is a Miss and leaves the board unchanged.
func (b *Board) Fire(c Coord) Outcome {
	cell := b.cells[c.Row][c.Col]
	switch {
	case cell.Fired():
		return Outcome{Kind: OutcomeMiss}
	case cell == Empty:
		b.cells[c.Row][c.Col] = Miss
		b.unfired--
		return Outcome{Kind: OutcomeMiss}
	}

	b.cells[c.Row][c.Col] = Hit
	b.unfired--
	b.afloat--
	b.intact[cell]--
	if b.intact[cell] > 0 {
		return Outcome{Kind: OutcomeHit, Symbol: cell}
	}
	return Outcome{Kind: OutcomeSunk, Symbol: cell}
}
