package ledger

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/rlp"
)

// Proof is a merkle membership proof. Path[0] is the leaf itself.
type Proof struct {
	Root      []byte
	Index     uint64
	NumLeaves uint64
	Path      [][]byte
}

// Leaf returns the proven leaf.
func (p *Proof) Leaf() []byte {
	if len(p.Path) == 0 {
		return nil
	}
	return p.Path[0]
}

// Encode returns the opaque proof string handed to the transaction assembler.
func (p *Proof) Encode() string {
	bz, err := rlp.EncodeToBytes(p)
	if err != nil {
		panic(fmt.Sprintf("failed to RLP encode Proof: %v", err))
	}
	return hexutil.Encode(bz)
}

func DecodeProof(s string) (*Proof, error) {
	bz, err := hexutil.Decode(s)
	if err != nil {
		return nil, fmt.Errorf("invalid proof hex: %w", err)
	}
	p := &Proof{}
	if err := rlp.DecodeBytes(bz, p); err != nil {
		return nil, fmt.Errorf("invalid proof: %w", err)
	}
	return p, nil
}
