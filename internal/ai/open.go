package ai

import (
	"math/rand/v2"

	"github.com/dolthub/swiss"

	"battleship/internal/game"
)

// OpenMoves is the set of coordinates the computer has not fired at yet.
// Membership and removal are O(1); the backing slice starts row-major and is
// compacted by swapping the last element into a removed slot.
type OpenMoves struct {
	list  []game.Coord
	index *swiss.Map[game.Coord, int]
}

func NewOpenMoves(width, height int) *OpenMoves {
	all := game.AllCoords(width, height)
	o := &OpenMoves{
		list:  all,
		index: swiss.NewMap[game.Coord, int](uint32(len(all))),
	}
	for i, c := range all {
		o.index.Put(c, i)
	}
	return o
}

func (o *OpenMoves) Len() int { return len(o.list) }

func (o *OpenMoves) Has(c game.Coord) bool { return o.index.Has(c) }

// Remove deletes c and reports whether it was present.
func (o *OpenMoves) Remove(c game.Coord) bool {
	i, ok := o.index.Get(c)
	if !ok {
		return false
	}
	last := len(o.list) - 1
	if i != last {
		moved := o.list[last]
		o.list[i] = moved
		o.index.Put(moved, i)
	}
	o.list = o.list[:last]
	o.index.Delete(c)
	return true
}

// Random picks a uniformly random open coordinate. The set must not be empty.
func (o *OpenMoves) Random(rng *rand.Rand) game.Coord {
	return o.list[rng.IntN(len(o.list))]
}
