package transaction

import (
	crand "crypto/rand"
	"fmt"
	"io"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/holiman/uint256"
	"github.com/kysee/zkwallet/zk-wallet/account"
	"github.com/kysee/zkwallet/zk-wallet/crypto"
	"github.com/kysee/zkwallet/zk-wallet/network"
	"github.com/kysee/zkwallet/zk-wallet/record"
	"github.com/kysee/zkwallet/zk-wallet/types"
	"github.com/rs/zerolog"
)

// Assembler builds coinbase and transfer transactions for one network.
type Assembler struct {
	params *network.Params
	rand   io.Reader
	logger zerolog.Logger
}

type Option func(*Assembler)

// WithRand sets the entropy source for output and encryption randomness.
func WithRand(r io.Reader) Option {
	return func(a *Assembler) {
		a.rand = r
	}
}

func WithLogger(logger zerolog.Logger) Option {
	return func(a *Assembler) {
		a.logger = logger
	}
}

// NewAssembler returns an Assembler for params. A nil params selects Testnet1.
func NewAssembler(params *network.Params, opts ...Option) *Assembler {
	if params == nil {
		params = network.Testnet1()
	}
	a := &Assembler{
		params: params,
		rand:   crand.Reader,
		logger: zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(a)
	}
	a.logger = a.logger.With().Str("network", params.String()).Logger()
	return a
}

func (a *Assembler) Params() *network.Params {
	return a.params
}

// BuildCoinbase mints value to recipient in a single output record.
func (a *Assembler) BuildCoinbase(recipient string, value uint64, randomness []byte) (string, error) {
	to, err := account.ParseAddress(recipient)
	if err != nil {
		return "", err
	}
	if value > a.params.MaxCoinbaseValue {
		return "", types.NewError(types.ErrArithmeticOverflow,
			fmt.Sprintf("coinbase value %d exceeds the cap %d", value, a.params.MaxCoinbaseValue))
	}

	rec, err := record.NewInputRecord(to, value, nil, randomness)
	if err != nil {
		return "", err
	}
	defer rec.Release()

	out, err := a.seal(rec)
	if err != nil {
		return "", err
	}

	tx := &Transaction{
		Version: TxVersion,
		Network: a.params.ID(),
		Kind:    KindCoinbase,
		Outputs: []Output{out},
		Minted:  value,
	}
	a.logger.Debug().
		Str("kind", tx.Kind.String()).
		Uint64("minted", value).
		Str("commitment", hexutil.Encode(out.Commitment)).
		Msg("built transaction")
	return tx.Encode(), nil
}

// BuildTransfer spends input, paying amount to recipient and the rest minus
// fee back to the spender. proof1 and proof2 are the ledger proofs for the
// input record and for its program path.
func (a *Assembler) BuildTransfer(
	input *record.Record,
	proof1, proof2 string,
	spenderKey string,
	amount, fee uint64,
	recipient string,
) (string, error) {
	if input == nil {
		return "", types.NewError(types.ErrInvalidEncoding, "nil input record")
	}
	if err := input.Validate(); err != nil {
		return "", err
	}

	// amount+fee is computed in 256 bits so neither the sum nor the change can wrap.
	value := uint256.NewInt(input.Value())
	spent := new(uint256.Int).Add(uint256.NewInt(amount), uint256.NewInt(fee))
	if !spent.IsUint64() {
		return "", types.NewError(types.ErrArithmeticOverflow,
			fmt.Sprintf("amount %d plus fee %d overflows", amount, fee))
	}
	if spent.Gt(value) {
		return "", types.NewError(types.ErrInsufficientFunds,
			fmt.Sprintf("insufficient funds: value(%d) < amount(%d) + fee(%d)", input.Value(), amount, fee))
	}
	change := new(uint256.Int).Sub(value, spent)

	spender, err := account.FromSecret(spenderKey)
	if err != nil {
		return "", err
	}
	defer spender.Release()
	if !spender.Address().Equal(input.Owner()) {
		return "", types.NewError(types.ErrInvalidPrivateKey, "private key does not own the input record")
	}

	for i, proof := range []string{proof1, proof2} {
		if err := checkProof(proof); err != nil {
			return "", types.NewError(types.ErrInvalidProof, fmt.Sprintf("ledger proof %d: %v", i+1, err))
		}
	}

	to, err := account.ParseAddress(recipient)
	if err != nil {
		return "", err
	}

	sn, err := input.SerialNumber(spender.PrivateKey())
	if err != nil {
		return "", err
	}

	outputs := make([]Output, 0, 2)
	for i, o := range []struct {
		owner *account.Address
		value uint64
	}{
		{to, amount},
		{spender.Address(), change.Uint64()},
	} {
		randomness, err := a.randomness()
		if err != nil {
			return "", err
		}
		rec, err := record.NewOutputRecord(o.owner, o.value, nil, sn, uint8(i), randomness)
		if err != nil {
			return "", err
		}
		out, err := a.seal(rec)
		rec.Release()
		if err != nil {
			return "", err
		}
		outputs = append(outputs, out)
	}

	spendKey := spender.PrivateKey().SpendKey()
	tx := &Transaction{
		Version:       TxVersion,
		Network:       a.params.ID(),
		Kind:          KindTransfer,
		SerialNumbers: [][]byte{sn},
		Outputs:       outputs,
		Fee:           fee,
		LedgerProofs:  []string{proof1, proof2},
		SpendKey:      spendKey.PublicKey.Bytes(),
	}
	sig, err := crypto.SignDigest(spendKey, tx.Digest())
	if err != nil {
		return "", fmt.Errorf("failed to sign transfer: %w", err)
	}
	tx.Signature = sig

	a.logger.Debug().
		Str("kind", tx.Kind.String()).
		Str("serial_number", hexutil.Encode(sn)).
		Uint64("fee", fee).
		Int("outputs", len(outputs)).
		Msg("built transaction")
	return tx.Encode(), nil
}

// seal encrypts rec with fresh randomness into a ledger output.
func (a *Assembler) seal(rec *record.Record) (Output, error) {
	randomness, err := a.randomness()
	if err != nil {
		return Output{}, err
	}
	ciphertext, err := rec.Encrypt(randomness)
	if err != nil {
		return Output{}, err
	}
	return Output{Commitment: rec.CommitmentBytes(), Ciphertext: ciphertext}, nil
}

func (a *Assembler) randomness() ([]byte, error) {
	buf := make([]byte, record.RandomnessSize)
	if _, err := io.ReadFull(a.rand, buf); err != nil {
		return nil, types.NewError(types.ErrInvalidRandomness, "failed to read randomness: "+err.Error())
	}
	return buf, nil
}

func checkProof(proof string) error {
	if proof == "" {
		return fmt.Errorf("empty proof")
	}
	bz, err := hexutil.Decode(proof)
	if err != nil {
		return err
	}
	if len(bz) == 0 {
		return fmt.Errorf("empty proof")
	}
	return nil
}
