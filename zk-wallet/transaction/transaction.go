package transaction

import (
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/kysee/zkwallet/utils"
	"github.com/kysee/zkwallet/zk-wallet/account"
	"github.com/kysee/zkwallet/zk-wallet/crypto"
	"github.com/kysee/zkwallet/zk-wallet/record"
	"github.com/kysee/zkwallet/zk-wallet/types"
)

const (
	TxVersion = uint8(1)

	digestDomain = "zkwallet.tx.digest"
)

// Kind is the shape of a transaction.
type Kind uint8

const (
	KindCoinbase Kind = iota + 1
	KindTransfer
)

func (k Kind) String() string {
	switch k {
	case KindCoinbase:
		return "coinbase"
	case KindTransfer:
		return "transfer"
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// Output is a new record as published on the ledger: its commitment and
// the ciphertext sealed to its owner.
type Output struct {
	Commitment []byte
	Ciphertext string
}

// Transaction is the envelope submitted to the ledger.
type Transaction struct {
	Version       uint8
	Network       uint16
	Kind          Kind
	SerialNumbers [][]byte
	Outputs       []Output
	Minted        uint64
	Fee           uint64
	// LedgerProofs are forwarded verbatim; they are only checked to be hex.
	LedgerProofs []string
	SpendKey     []byte
	Signature    []byte
	Memo         []byte
}

// Bytes returns the RLP-encoded representation of the Transaction.
func (tx *Transaction) Bytes() []byte {
	b, err := rlp.EncodeToBytes(tx)
	if err != nil {
		panic(fmt.Sprintf("failed to RLP encode Transaction: %v", err))
	}
	return b
}

// Encode returns the 0x prefixed hex string submitted to the ledger.
func (tx *Transaction) Encode() string {
	return hexutil.Encode(tx.Bytes())
}

// Parse decodes a serialized transaction.
func Parse(s string) (*Transaction, error) {
	bz, err := hexutil.Decode(s)
	if err != nil {
		return nil, types.NewError(types.ErrInvalidEncoding, "invalid transaction hex: "+err.Error())
	}
	tx := &Transaction{}
	if err := rlp.DecodeBytes(bz, tx); err != nil {
		return nil, types.NewError(types.ErrInvalidEncoding, "invalid transaction: "+err.Error())
	}
	return tx, nil
}

// Digest is the field element signed by the spender. It covers every field
// except the signature.
func (tx *Transaction) Digest() []byte {
	unsigned := *tx
	unsigned.Signature = nil
	return utils.HashToField(digestDomain, unsigned.Bytes())
}

// VerifySignature checks the spend authorization of a transfer.
// Coinbase transactions carry no signature.
func (tx *Transaction) VerifySignature() error {
	switch tx.Kind {
	case KindCoinbase:
		if len(tx.SerialNumbers) != 0 || len(tx.Signature) != 0 {
			return errors.New("coinbase must not spend or sign")
		}
		return nil
	case KindTransfer:
		pub := crypto.NewSpendPub()
		if _, err := pub.SetBytes(tx.SpendKey); err != nil {
			return fmt.Errorf("invalid spend key: %w", err)
		}
		ok, err := crypto.VerifyDigest(pub, tx.Signature, tx.Digest())
		if err != nil {
			return fmt.Errorf("invalid signature: %w", err)
		}
		if !ok {
			return errors.New("signature does not match the spend key")
		}
		return nil
	}
	return fmt.Errorf("unknown transaction kind %v", tx.Kind)
}

// DecryptOutputs opens every output addressed to vk. The result is aligned
// with Outputs; entries for other owners are nil.
func (tx *Transaction) DecryptOutputs(vk *account.ViewKey) ([]*record.Record, error) {
	ret := make([]*record.Record, len(tx.Outputs))
	for i, out := range tx.Outputs {
		rec, err := record.Decrypt(out.Ciphertext, vk)
		if errors.Is(err, types.ErrViewKeyMismatch) {
			continue
		} else if err != nil {
			return nil, fmt.Errorf("output %d: %w", i, err)
		}
		if string(rec.CommitmentBytes()) != string(out.Commitment) {
			return nil, types.NewError(types.ErrInvalidCiphertext,
				fmt.Sprintf("output %d: ciphertext does not match the published commitment", i))
		}
		ret[i] = rec
	}
	return ret, nil
}
