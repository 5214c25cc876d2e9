package codec

import (
	"errors"
	"fmt"
	"math/big"
	"strings"

	"battleship/internal/merkle"
	"battleship/internal/zk"
)

var ErrHex = errors.New("invalid hex value")

// Secret is everything the computer needs to prove shot answers about its
// committed fleet, and what it reveals once the game is over.
type Secret struct {
	Width   int          `json:"width"`
	Height  int          `json:"height"`
	Layout  []uint8      `json:"layout"`
	Tree    *merkle.Tree `json:"tree"`
	SaltHex string       `json:"salt_hex"`
}

type ShotProofPayload struct {
	Proof  []byte        `json:"proof"`
	Public zk.ShotPublic `json:"public"` // root, cell and the hit bit
}

// Hex formats a field element the way roots are shown to players.
func Hex(x *big.Int) string { return fmt.Sprintf("0x%x", x) }

// ParseHex accepts a 0x-prefixed or bare hex field element.
func ParseHex(s string) (*big.Int, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	if s == "" {
		return nil, ErrHex
	}
	n, ok := new(big.Int).SetString(s, 16)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrHex, s)
	}
	return n, nil
}
