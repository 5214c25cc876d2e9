package codec

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"battleship/internal/game"
)

var ErrPlacementLine = errors.New("malformed placement line")

// ReadPlacements parses ship descriptors. JSON input is an array of
// {"symbol","r1","c1","r2","c2"} objects; anything else is read as lines of
// "symbol r1 c1 r2 c2". Blank lines and lines starting with # are skipped.
func ReadPlacements(r io.Reader) ([]game.ShipSpec, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	if trimmed := bytes.TrimSpace(data); len(trimmed) > 0 && trimmed[0] == '[' {
		var specs []game.ShipSpec
		if err := json.Unmarshal(trimmed, &specs); err != nil {
			return nil, err
		}
		return specs, nil
	}

	var specs []game.ShipSpec
	sc := bufio.NewScanner(bytes.NewReader(data))
	for n := 1; sc.Scan(); n++ {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		spec, err := parseLine(line)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", n, err)
		}
		specs = append(specs, spec)
	}
	return specs, sc.Err()
}

func parseLine(line string) (game.ShipSpec, error) {
	fields := strings.Fields(line)
	if len(fields) != 5 {
		return game.ShipSpec{}, fmt.Errorf("%w: want 5 fields, got %d", ErrPlacementLine, len(fields))
	}
	var spec game.ShipSpec
	if err := spec.Symbol.UnmarshalText([]byte(fields[0])); err != nil {
		return game.ShipSpec{}, err
	}
	nums := make([]int, 4)
	for i, f := range fields[1:] {
		v, err := strconv.Atoi(f)
		if err != nil {
			return game.ShipSpec{}, fmt.Errorf("%w: %q is not an integer", ErrPlacementLine, f)
		}
		nums[i] = v
	}
	spec.R1, spec.C1, spec.R2, spec.C2 = nums[0], nums[1], nums[2], nums[3]
	return spec, nil
}

// ParseLengths reads a fleet description such as "A=5,B=4,C=3".
func ParseLengths(s string) (map[game.Cell]int, error) {
	out := make(map[game.Cell]int)
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		sym, n, ok := strings.Cut(part, "=")
		if !ok {
			return nil, fmt.Errorf("%w: %q, want SYMBOL=LENGTH", ErrPlacementLine, part)
		}
		var c game.Cell
		if err := c.UnmarshalText([]byte(strings.TrimSpace(sym))); err != nil {
			return nil, err
		}
		v, err := strconv.Atoi(strings.TrimSpace(n))
		if err != nil {
			return nil, fmt.Errorf("%w: %q is not an integer", ErrPlacementLine, n)
		}
		if _, dup := out[c]; dup {
			return nil, fmt.Errorf("%w: %s", game.ErrDuplicateSymbol, c)
		}
		out[c] = v
	}
	if len(out) == 0 {
		return nil, game.ErrNoShips
	}
	return out, nil
}

// WritePlacements writes specs in the line format read by ReadPlacements.
func WritePlacements(w io.Writer, specs []game.ShipSpec) error {
	for _, s := range specs {
		if _, err := fmt.Fprintf(w, "%s %d %d %d %d\n", s.Symbol, s.R1, s.C1, s.R2, s.C2); err != nil {
			return err
		}
	}
	return nil
}

func LoadPlacements(path string) ([]game.ShipSpec, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadPlacements(f)
}

func SavePlacements(path string, specs []game.ShipSpec) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WritePlacements(f, specs); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// SaveJSON writes v indented to path.
func SaveJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func LoadJSON(path string, v any) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return json.NewDecoder(f).Decode(v)
}
