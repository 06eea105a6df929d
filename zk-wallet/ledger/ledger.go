package ledger

import (
	"errors"
	"fmt"
	"sync"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/kysee/zkwallet/utils"
	"github.com/kysee/zkwallet/zk-wallet/network"
	"github.com/kysee/zkwallet/zk-wallet/transaction"
	"github.com/rs/zerolog"
)

const programDomain = "zkwallet.ledger.program"

var (
	ErrDoubleSpend     = errors.New("serial number already spent")
	ErrWrongNetwork    = errors.New("transaction is for another network")
	ErrInvalidTx       = errors.New("invalid transaction")
	ErrUnknownProgram  = errors.New("unknown program")
	ErrProofMismatched = errors.New("ledger proof does not verify")
)

// Ledger is an in-memory record ledger. It keeps the commitment tree, the
// published ciphertexts, the spent serial numbers and a tree of registered
// program ids, and hands out the membership proofs that transfers forward.
type Ledger struct {
	mtx sync.RWMutex

	params      *network.Params
	commitments *commitmentTree
	ciphertexts []string
	programs    *commitmentTree
	spent       map[string]struct{}

	logger zerolog.Logger
}

// New returns an empty ledger with the noop program registered.
func New(params *network.Params, logger zerolog.Logger) *Ledger {
	l := &Ledger{
		params:      params,
		commitments: newCommitmentTree(),
		programs:    newCommitmentTree(),
		spent:       make(map[string]struct{}),
		logger:      logger.With().Str("module", "ledger").Logger(),
	}
	l.programs.push(ProgramLeaf(network.NoopProgramID))
	return l
}

// ProgramLeaf is the leaf a program id occupies in the program tree.
func ProgramLeaf(programID string) []byte {
	return utils.FieldString(programDomain, programID)
}

func (l *Ledger) Params() *network.Params {
	return l.params
}

// AddCommitment appends a commitment without a ciphertext and returns its index.
func (l *Ledger) AddCommitment(commitment []byte) (uint64, error) {
	if len(commitment) != utils.FieldSize {
		return 0, fmt.Errorf("wrong commitment length: expected(%d), got(%d)", utils.FieldSize, len(commitment))
	}
	l.mtx.Lock()
	defer l.mtx.Unlock()
	return l.addOutput(commitment, ""), nil
}

func (l *Ledger) addOutput(commitment []byte, ciphertext string) uint64 {
	idx := l.commitments.push(commitment)
	l.ciphertexts = append(l.ciphertexts, ciphertext)
	return idx
}

// Root returns the current commitment tree root.
func (l *Ledger) Root() []byte {
	l.mtx.RLock()
	defer l.mtx.RUnlock()
	return l.commitments.root()
}

// Len returns the number of commitments.
func (l *Ledger) Len() int {
	l.mtx.RLock()
	defer l.mtx.RUnlock()
	return len(l.ciphertexts)
}

// Commitment returns a copy of the commitment at idx, or nil.
func (l *Ledger) Commitment(idx int) []byte {
	l.mtx.RLock()
	defer l.mtx.RUnlock()
	if idx >= 0 && idx < len(l.commitments.leaves) {
		return append([]byte(nil), l.commitments.leaves[idx]...)
	}
	return nil
}

// Ciphertext returns the record ciphertext published at idx, or "".
func (l *Ledger) Ciphertext(idx int) string {
	l.mtx.RLock()
	defer l.mtx.RUnlock()
	if idx >= 0 && idx < len(l.ciphertexts) {
		return l.ciphertexts[idx]
	}
	return ""
}

// Prove returns the proof string that commitment is in the ledger.
func (l *Ledger) Prove(commitment []byte) (string, error) {
	l.mtx.RLock()
	defer l.mtx.RUnlock()
	p, err := l.commitments.prove(commitment)
	if err != nil {
		return "", err
	}
	return p.Encode(), nil
}

// ProveProgram returns the program path proof for programID.
func (l *Ledger) ProveProgram(programID string) (string, error) {
	l.mtx.RLock()
	defer l.mtx.RUnlock()
	p, err := l.programs.prove(ProgramLeaf(programID))
	if errors.Is(err, ErrUnknownLeaf) {
		return "", fmt.Errorf("%w: %q", ErrUnknownProgram, programID)
	} else if err != nil {
		return "", err
	}
	return p.Encode(), nil
}

// VerifyProof checks a commitment membership proof string.
func (l *Ledger) VerifyProof(proof string) error {
	p, err := DecodeProof(proof)
	if err != nil {
		return err
	}
	l.mtx.RLock()
	defer l.mtx.RUnlock()
	return l.commitments.verify(p)
}

// IsSpent reports whether sn has been revealed by an applied transfer.
func (l *Ledger) IsSpent(sn []byte) bool {
	l.mtx.RLock()
	defer l.mtx.RUnlock()
	_, ok := l.spent[string(sn)]
	return ok
}

// Apply validates a serialized transaction against the ledger state and
// appends its outputs. It returns the indices of the new commitments.
func (l *Ledger) Apply(txStr string) ([]uint64, error) {
	tx, err := transaction.Parse(txStr)
	if err != nil {
		return nil, err
	}

	l.mtx.Lock()
	defer l.mtx.Unlock()

	if err := l.check(tx); err != nil {
		l.logger.Debug().Err(err).Str("kind", tx.Kind.String()).Msg("rejected transaction")
		return nil, err
	}

	for _, sn := range tx.SerialNumbers {
		l.spent[string(sn)] = struct{}{}
	}
	indices := make([]uint64, 0, len(tx.Outputs))
	for _, out := range tx.Outputs {
		indices = append(indices, l.addOutput(out.Commitment, out.Ciphertext))
	}

	l.logger.Info().
		Str("kind", tx.Kind.String()).
		Int("outputs", len(indices)).
		Str("root", hexutil.Encode(l.commitments.root())).
		Msg("applied transaction")
	return indices, nil
}

func (l *Ledger) check(tx *transaction.Transaction) error {
	if tx.Network != l.params.ID() {
		return fmt.Errorf("%w: expected(%d), got(%d)", ErrWrongNetwork, l.params.ID(), tx.Network)
	}
	if err := tx.VerifySignature(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidTx, err)
	}
	for i, out := range tx.Outputs {
		if len(out.Commitment) != utils.FieldSize {
			return fmt.Errorf("%w: output %d has a malformed commitment", ErrInvalidTx, i)
		}
	}

	switch tx.Kind {
	case transaction.KindCoinbase:
		if len(tx.Outputs) != 1 {
			return fmt.Errorf("%w: coinbase must have one output", ErrInvalidTx)
		}
		if tx.Minted > l.params.MaxCoinbaseValue {
			return fmt.Errorf("%w: coinbase value %d over the cap", ErrInvalidTx, tx.Minted)
		}
	case transaction.KindTransfer:
		if len(tx.SerialNumbers) != 1 || len(tx.LedgerProofs) != 2 {
			return fmt.Errorf("%w: transfer must spend one record with two proofs", ErrInvalidTx)
		}
		if _, ok := l.spent[string(tx.SerialNumbers[0])]; ok {
			return ErrDoubleSpend
		}

		recordProof, err := DecodeProof(tx.LedgerProofs[0])
		if err != nil {
			return fmt.Errorf("%w: %v", ErrProofMismatched, err)
		}
		if err := l.commitments.verify(recordProof); err != nil {
			return fmt.Errorf("%w: record proof: %v", ErrProofMismatched, err)
		}

		programProof, err := DecodeProof(tx.LedgerProofs[1])
		if err != nil {
			return fmt.Errorf("%w: %v", ErrProofMismatched, err)
		}
		if err := l.programs.verify(programProof); err != nil {
			return fmt.Errorf("%w: program proof: %v", ErrProofMismatched, err)
		}
	default:
		return fmt.Errorf("%w: unknown kind %v", ErrInvalidTx, tx.Kind)
	}
	return nil
}
