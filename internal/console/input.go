package console

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"battleship/internal/app"
	"battleship/internal/game"
)

const targetPrompt = "Enter row and column to fire on separated by a space: "

// Prompter reads answers line by line, asking again until one is usable.
type Prompter struct {
	sc  *bufio.Scanner
	out io.Writer
}

func NewPrompter(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{sc: bufio.NewScanner(in), out: out}
}

func (p *Prompter) line(ctx context.Context, prompt string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	fmt.Fprint(p.out, prompt)
	if !p.sc.Scan() {
		if err := p.sc.Err(); err != nil {
			return "", err
		}
		return "", io.ErrUnexpectedEOF
	}
	return strings.TrimSpace(p.sc.Text()), nil
}

// Target implements app.Input. Lines that are not two non-negative integers,
// or that name a cell t rejects, are ignored.
func (p *Prompter) Target(ctx context.Context, t app.Targets) (game.Coord, error) {
	for {
		s, err := p.line(ctx, targetPrompt)
		if err != nil {
			return game.Coord{}, err
		}
		c, ok := parseTarget(s)
		if !ok || t.CheckTarget(c) != nil {
			continue
		}
		return c, nil
	}
}

// Line asks once and returns the trimmed answer.
func (p *Prompter) Line(ctx context.Context, prompt string) (string, error) {
	return p.line(ctx, prompt)
}

// Int asks until the answer is an integer in [lo, hi].
func (p *Prompter) Int(ctx context.Context, prompt string, lo, hi int) (int, error) {
	for {
		s, err := p.line(ctx, prompt)
		if err != nil {
			return 0, err
		}
		n, err := strconv.Atoi(s)
		if err != nil || n < lo || n > hi {
			continue
		}
		return n, nil
	}
}

func parseTarget(s string) (game.Coord, bool) {
	f := strings.Fields(s)
	if len(f) != 2 {
		return game.Coord{}, false
	}
	row, ok := digits(f[0])
	if !ok {
		return game.Coord{}, false
	}
	col, ok := digits(f[1])
	if !ok {
		return game.Coord{}, false
	}
	return game.Coord{Row: row, Col: col}, true
}

// digits accepts only unsigned decimal numbers.
func digits(s string) (int, bool) {
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, false
		}
	}
	n, err := strconv.Atoi(s)
	return n, err == nil
}
