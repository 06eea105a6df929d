package ledger

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/consensys/gnark-crypto/accumulator/merkletree"
	"github.com/kysee/zkwallet/utils"
)

var ErrUnknownLeaf = errors.New("leaf not found")

// commitmentTree is an append only merkle tree over 32 byte leaves that
// remembers every root it has had.
type commitmentTree struct {
	tree   *merkletree.Tree
	leaves [][]byte
	roots  map[string]struct{}
}

func newCommitmentTree() *commitmentTree {
	return &commitmentTree{
		tree:  merkletree.New(utils.MiMCHasher()),
		roots: make(map[string]struct{}),
	}
}

func (t *commitmentTree) push(leaf []byte) uint64 {
	l := append([]byte(nil), leaf...)
	t.leaves = append(t.leaves, l)
	t.tree.Push(l)
	t.roots[string(t.tree.Root())] = struct{}{}
	return uint64(len(t.leaves) - 1)
}

func (t *commitmentTree) root() []byte {
	if len(t.leaves) == 0 {
		return nil
	}
	return t.tree.Root()
}

func (t *commitmentTree) indexOf(leaf []byte) (uint64, bool) {
	for i, l := range t.leaves {
		if bytes.Equal(l, leaf) {
			return uint64(i), true
		}
	}
	return 0, false
}

func (t *commitmentTree) prove(leaf []byte) (*Proof, error) {
	idx, ok := t.indexOf(leaf)
	if !ok {
		return nil, ErrUnknownLeaf
	}

	// Build the proof from scratch over the current leaves
	var buf bytes.Buffer
	for _, l := range t.leaves {
		buf.Write(l)
	}
	hasher := utils.MiMCHasher()
	root, path, numLeaves, err := merkletree.BuildReaderProof(&buf, hasher, hasher.Size(), idx)
	if err != nil {
		return nil, err
	}
	return &Proof{Root: root, Index: idx, NumLeaves: numLeaves, Path: path}, nil
}

// verify checks p against a root this tree has had, so proofs stay valid
// after later appends.
func (t *commitmentTree) verify(p *Proof) error {
	if _, ok := t.roots[string(p.Root)]; !ok {
		return fmt.Errorf("unknown root %x", p.Root)
	}
	if !merkletree.VerifyProof(utils.MiMCHasher(), p.Root, p.Path, p.Index, p.NumLeaves) {
		return errors.New("merkle proof does not verify")
	}
	return nil
}
