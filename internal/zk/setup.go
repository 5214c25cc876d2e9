package zk

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math/big"
	"os"
	"path/filepath"

	"github.com/consensys/gnark-crypto/ecc"
	"github.com/consensys/gnark/backend/groth16"
	"github.com/consensys/gnark/constraint"
	"github.com/consensys/gnark/frontend"
	"github.com/consensys/gnark/frontend/cs/r1cs"
)

var (
	ErrBadPath      = errors.New("bad path length")
	ErrRootMismatch = errors.New("root mismatch")
	ErrCellMismatch = errors.New("proof is for another cell")
	ErrInvalidHit   = errors.New("invalid hit public output")
)

// ShotPublic is what a verifier learns from a shot proof.
type ShotPublic struct {
	Root  *big.Int `json:"root"`
	Row   int      `json:"row"`
	Col   int      `json:"col"`
	Width int      `json:"width"`
	Hit   uint8    `json:"hit"`
}

func (p ShotPublic) Index() int { return p.Row*p.Width + p.Col }

// ShotWitness is the prover's private view of one shot.
type ShotWitness struct {
	Bit   uint8
	Path  []*big.Int
	Salt  *big.Int
	Root  *big.Int // salted root
	Row   int
	Col   int
	Width int
}

// Keys holds the compiled circuit with its proving and verifying keys.
type Keys struct {
	cs constraint.ConstraintSystem
	PK groth16.ProvingKey
	VK groth16.VerifyingKey
}

func compile() (constraint.ConstraintSystem, error) {
	var circuit ShotCircuit
	return frontend.Compile(ecc.BN254.ScalarField(), r1cs.NewBuilder, &circuit)
}

// Setup compiles the circuit and runs a fresh groth16 setup.
func Setup() (*Keys, error) {
	cs, err := compile()
	if err != nil {
		return nil, err
	}
	pk, vk, err := groth16.Setup(cs)
	if err != nil {
		return nil, err
	}
	return &Keys{cs: cs, PK: pk, VK: vk}, nil
}

// EnsureShotKeys loads shot.pk/shot.vk from dir, or runs Setup and writes
// them when they are missing or unreadable.
func EnsureShotKeys(dir string) (*Keys, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	vkPath := filepath.Join(dir, "shot.vk")
	pkPath := filepath.Join(dir, "shot.pk")

	if vk, err := readVK(vkPath); err == nil {
		if pk, err := readPK(pkPath); err == nil {
			cs, err := compile()
			if err != nil {
				return nil, err
			}
			return &Keys{cs: cs, PK: pk, VK: vk}, nil
		}
	}

	k, err := Setup()
	if err != nil {
		return nil, err
	}
	if err := writeTo(vkPath, k.VK); err != nil {
		return nil, err
	}
	if err := writeTo(pkPath, k.PK); err != nil {
		return nil, err
	}
	return k, nil
}

// Prove produces a serialized groth16 proof for one shot.
func (k *Keys) Prove(w ShotWitness) ([]byte, ShotPublic, error) {
	if len(w.Path) != MerkleDepth {
		return nil, ShotPublic{}, ErrBadPath
	}
	pub := ShotPublic{Root: new(big.Int).Set(w.Root), Row: w.Row, Col: w.Col, Width: w.Width, Hit: w.Bit}

	var assign ShotCircuit
	assign.Bit = w.Bit
	for i := 0; i < MerkleDepth; i++ {
		assign.Path[i] = w.Path[i]
	}
	assign.Salt = w.Salt
	assign.Root = w.Root
	assign.Index = pub.Index()
	assign.Hit = w.Bit

	full, err := frontend.NewWitness(&assign, ecc.BN254.ScalarField())
	if err != nil {
		return nil, ShotPublic{}, err
	}
	proof, err := groth16.Prove(k.cs, k.PK, full)
	if err != nil {
		return nil, ShotPublic{}, err
	}

	var buf bytes.Buffer
	if _, err := proof.WriteTo(&buf); err != nil {
		return nil, ShotPublic{}, err
	}
	return buf.Bytes(), pub, nil
}

// VerifyShot checks a proof against the salted root the verifier was given
// before the game and the cell it asked about on a board of the given width.
// nil means valid.
func VerifyShot(vk groth16.VerifyingKey, proofBin []byte, pub ShotPublic, root *big.Int, row, col, width int) error {
	if pub.Root == nil || pub.Root.Cmp(root) != 0 {
		return ErrRootMismatch
	}
	if pub.Row != row || pub.Col != col || pub.Width != width {
		return fmt.Errorf("%w: (%d, %d) but expected (%d, %d)", ErrCellMismatch, pub.Row, pub.Col, row, col)
	}
	if pub.Hit != 0 && pub.Hit != 1 {
		return ErrInvalidHit
	}

	var pubAssign ShotCircuit
	pubAssign.Root = root
	pubAssign.Index = pub.Index()
	pubAssign.Hit = pub.Hit

	pubWit, err := frontend.NewWitness(&pubAssign, ecc.BN254.ScalarField(), frontend.PublicOnly())
	if err != nil {
		return err
	}
	pr := groth16.NewProof(ecc.BN254)
	if _, err := pr.ReadFrom(bytes.NewReader(proofBin)); err != nil {
		return err
	}
	return groth16.Verify(pr, vk, pubWit)
}

// MarshalVK serializes a verifying key for transport.
func MarshalVK(vk groth16.VerifyingKey) ([]byte, error) {
	var buf bytes.Buffer
	if _, err := vk.WriteTo(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func UnmarshalVK(b []byte) (groth16.VerifyingKey, error) {
	vk := groth16.NewVerifyingKey(ecc.BN254)
	if _, err := vk.ReadFrom(bytes.NewReader(b)); err != nil {
		return nil, err
	}
	return vk, nil
}

// ReadVK loads a verifying key file written by EnsureShotKeys.
func ReadVK(path string) (groth16.VerifyingKey, error) { return readVK(path) }

func writeTo(path string, w io.WriterTo) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = w.WriteTo(f)
	return err
}

func readVK(path string) (groth16.VerifyingKey, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	vk := groth16.NewVerifyingKey(ecc.BN254)
	_, err = vk.ReadFrom(f)
	return vk, err
}

func readPK(path string) (groth16.ProvingKey, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	pk := groth16.NewProvingKey(ecc.BN254)
	_, err = pk.ReadFrom(f)
	return pk, err
}
