package merkle

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	bnmimc "github.com/consensys/gnark-crypto/ecc/bn254/fr/mimc"
)

var (
	ErrTooManyLeaves = errors.New("too many leaves for tree depth")
	ErrIndex         = errors.New("leaf index out of range")
)

// feBytes encodes a BN254 field element as 32 bytes big-endian.
func feBytes(x *big.Int) []byte {
	out := make([]byte, fr.Bytes)
	x.FillBytes(out)
	return out
}

// HashLeafMiMC hashes one occupancy bit, matching the in-circuit leaf hash.
func HashLeafMiMC(bit uint8) *big.Int {
	h := bnmimc.NewMiMC()
	h.Write(feBytes(new(big.Int).SetUint64(uint64(bit))))
	return new(big.Int).SetBytes(h.Sum(nil))
}

func HashNodeMiMC(left, right *big.Int) *big.Int {
	h := bnmimc.NewMiMC()
	h.Write(feBytes(left))
	h.Write(feBytes(right))
	return new(big.Int).SetBytes(h.Sum(nil))
}

// RandomSalt draws a uniformly random field element.
func RandomSalt() (*big.Int, error) {
	var e fr.Element
	if _, err := e.SetRandom(); err != nil {
		return nil, err
	}
	return e.BigInt(new(big.Int)), nil
}

// SaltedRoot hides the layout root behind salt so that equal fleets do not
// commit to equal roots.
func SaltedRoot(salt, root *big.Int) *big.Int { return HashNodeMiMC(salt, root) }

// Tree is a complete binary MiMC tree over a board's occupancy bits, stored
// level by level. Leaves past the board are padded with the hash of 0.
type Tree struct {
	Depth  int          `json:"depth"`
	Levels [][]*big.Int `json:"levels"` // Levels[0]=leaves, Levels[Depth]=root
}

// BuildLayoutTree commits to layout (row-major, 1 = ship) in a tree of the
// given depth.
func BuildLayoutTree(layout []uint8, depth int) (*Tree, error) {
	size := 1 << depth
	if len(layout) > size {
		return nil, fmt.Errorf("%w: %d cells, depth %d holds %d", ErrTooManyLeaves, len(layout), depth, size)
	}

	pad := HashLeafMiMC(0)
	leaves := make([]*big.Int, size)
	for i := range leaves {
		if i < len(layout) {
			leaves[i] = HashLeafMiMC(layout[i])
		} else {
			leaves[i] = new(big.Int).Set(pad)
		}
	}

	levels := [][]*big.Int{leaves}
	for n := size; n > 1; n /= 2 {
		prev := levels[len(levels)-1]
		up := make([]*big.Int, n/2)
		for i := range up {
			up[i] = HashNodeMiMC(prev[2*i], prev[2*i+1])
		}
		levels = append(levels, up)
	}
	return &Tree{Depth: depth, Levels: levels}, nil
}

func (t *Tree) Root() *big.Int { return new(big.Int).Set(t.Levels[len(t.Levels)-1][0]) }

// Path returns the sibling hashes from leaf idx up to the root, plus the
// direction bits: dir[i]=1 when the running node is a right child.
func (t *Tree) Path(idx int) (path []*big.Int, dir []uint8, err error) {
	if idx < 0 || idx >= len(t.Levels[0]) {
		return nil, nil, fmt.Errorf("%w: %d", ErrIndex, idx)
	}
	path = make([]*big.Int, 0, t.Depth)
	dir = make([]uint8, 0, t.Depth)
	cur := idx
	for level := 0; level < t.Depth; level++ {
		sib := cur ^ 1
		path = append(path, new(big.Int).Set(t.Levels[level][sib]))
		dir = append(dir, uint8(cur&1))
		cur /= 2
	}
	return path, dir, nil
}

// VerifyPath recomputes the root from a leaf bit and its path.
func VerifyPath(bit uint8, path []*big.Int, dir []uint8, root *big.Int) bool {
	if len(path) != len(dir) {
		return false
	}
	cur := HashLeafMiMC(bit)
	for i := range path {
		if dir[i] == 1 {
			cur = HashNodeMiMC(path[i], cur)
		} else {
			cur = HashNodeMiMC(cur, path[i])
		}
	}
	return cur.Cmp(root) == 0
}
