package app

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/consensys/gnark/backend/groth16"

	"battleship/internal/codec"
	"battleship/internal/game"
	"battleship/internal/merkle"
	"battleship/internal/zk"
)

var (
	ErrBoardTooLarge = errors.New("board too large to commit")
	ErrNoCommitment  = errors.New("fleet was not committed")
	ErrNoKeys        = errors.New("no proving keys loaded")
	ErrAuditFailed   = errors.New("revealed fleet does not match the commitment")
	ErrNotFired      = errors.New("cell has not been shot at")
)

// Commitment binds the computer to its fleet layout before the first shot.
type Commitment struct {
	RootHex string
	Secret  codec.Secret

	salt *big.Int
	root *big.Int
}

// Commit builds the salted MiMC root of b's initial layout.
func Commit(b *game.Board) (*Commitment, error) {
	if b.Width*b.Height > zk.MaxCells {
		return nil, fmt.Errorf("%w: %d cells", ErrBoardTooLarge, b.Width*b.Height)
	}
	layout := b.Layout()
	t, err := merkle.BuildLayoutTree(layout, zk.MerkleDepth)
	if err != nil {
		return nil, err
	}
	// this is to make root unique for same boards
	salt, err := merkle.RandomSalt()
	if err != nil {
		return nil, err
	}
	root := merkle.SaltedRoot(salt, t.Root())

	return &Commitment{
		RootHex: codec.Hex(root),
		Secret: codec.Secret{
			Width:   b.Width,
			Height:  b.Height,
			Layout:  layout,
			Tree:    t,
			SaltHex: codec.Hex(salt),
		},
		salt: salt,
		root: root,
	}, nil
}

func (c *Commitment) Root() *big.Int { return new(big.Int).Set(c.root) }

// Prove answers a shot at cell with a proof that the hit bit matches the
// committed layout.
func (c *Commitment) Prove(keys *zk.Keys, cell game.Coord) (*codec.ShotProofPayload, error) {
	if keys == nil {
		return nil, ErrNoKeys
	}
	w := c.Secret.Width
	if cell.Row < 0 || cell.Row >= c.Secret.Height || cell.Col < 0 || cell.Col >= w {
		return nil, fmt.Errorf("%w: %s", ErrOffBoard, cell)
	}
	idx := cell.Row*w + cell.Col
	path, _, err := c.Secret.Tree.Path(idx)
	if err != nil {
		return nil, err
	}
	proof, pub, err := keys.Prove(zk.ShotWitness{
		Bit:   c.Secret.Layout[idx],
		Path:  path,
		Salt:  c.salt,
		Root:  c.root,
		Row:   cell.Row,
		Col:   cell.Col,
		Width: w,
	})
	if err != nil {
		return nil, err
	}
	return &codec.ShotProofPayload{Proof: proof, Public: pub}, nil
}

type VerifyResult struct {
	Valid bool  `json:"valid"`
	Hit   uint8 `json:"hit"`
}

// VerifyWithRoot checks a shot proof for cell against a root announced at
// the start of the game. The root inside the payload is ignored.
func VerifyWithRoot(vk groth16.VerifyingKey, root *big.Int, cell game.Coord, width int, payload codec.ShotProofPayload) (*VerifyResult, error) {
	payload.Public.Root = new(big.Int).Set(root)
	if err := zk.VerifyShot(vk, payload.Proof, payload.Public, root, cell.Row, cell.Col, width); err != nil {
		return nil, err
	}
	return &VerifyResult{Valid: true, Hit: payload.Public.Hit}, nil
}

// Audit rebuilds the root from a revealed secret and compares it with the
// root announced before play. It also checks the revealed layout against the
// fleet the computer actually used.
func Audit(sec codec.Secret, rootHex string, fleet game.Fleet) error {
	want, err := codec.ParseHex(rootHex)
	if err != nil {
		return err
	}
	salt, err := codec.ParseHex(sec.SaltHex)
	if err != nil {
		return err
	}
	t, err := merkle.BuildLayoutTree(sec.Layout, zk.MerkleDepth)
	if err != nil {
		return err
	}
	if merkle.SaltedRoot(salt, t.Root()).Cmp(want) != 0 {
		return ErrAuditFailed
	}
	if fleet != nil {
		played := game.BuildBoard(fleet, sec.Width, sec.Height).Layout()
		if len(played) != len(sec.Layout) {
			return ErrAuditFailed
		}
		for i := range played {
			if played[i] != sec.Layout[i] {
				return fmt.Errorf("%w: cell %d", ErrAuditFailed, i)
			}
		}
	}
	return nil
}

// ProveShot proves the computer's answer to one of the human's shots.
func (s *Session) ProveShot(cell game.Coord) (*codec.ShotProofPayload, error) {
	if s.commitment == nil {
		return nil, ErrNoCommitment
	}
	if !s.humanFired[cell] {
		return nil, fmt.Errorf("%w: %s", ErrNotFired, cell)
	}
	return s.commitment.Prove(s.cfg.Keys, cell)
}
