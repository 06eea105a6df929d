package record

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/kysee/zkwallet/utils"
	"github.com/kysee/zkwallet/zk-wallet/account"
	"github.com/kysee/zkwallet/zk-wallet/crypto"
	"github.com/kysee/zkwallet/zk-wallet/network"
	"github.com/kysee/zkwallet/zk-wallet/types"
)

const (
	// RandomnessSize is the exact length of caller supplied entropy.
	RandomnessSize = 32

	MaxProgramIDLength = 64
)

// Record is a confidential note carrying value and program state.
// A Record is immutable once built; Release must be the last call.
type Record struct {
	owner                *account.Address
	value                uint64
	payload              types.Buffer
	programID            string
	serialNumberNonce    *big.Int
	commitmentRandomness *big.Int
	commitment           []byte
}

// NewInputRecord creates a fresh noop record for owner. The serial number
// nonce and the commitment randomness are both derived from randomness,
// which must be fresh for every call.
func NewInputRecord(owner *account.Address, value uint64, payload []byte, randomness []byte) (*Record, error) {
	if err := checkRandomness(randomness); err != nil {
		return nil, err
	}
	return newRecord(owner, value, payload, network.NoopProgramID,
		crypto.HashToScalar("sn_nonce", randomness),
		crypto.HashToScalar("cm_rand", randomness),
	)
}

// NewOutputRecord creates the index-th output of a transaction that consumes
// the record with serial number sn. Both scalars bind sn and index.
func NewOutputRecord(owner *account.Address, value uint64, payload []byte, sn []byte, index uint8, randomness []byte) (*Record, error) {
	if err := checkRandomness(randomness); err != nil {
		return nil, err
	}
	return newRecord(owner, value, payload, network.NoopProgramID,
		crypto.HashToScalar("sn_nonce_out", sn, []byte{index}, randomness),
		crypto.HashToScalar("cm_rand_out", sn, []byte{index}, randomness),
	)
}

// FromRecord rebuilds a noop record from known field values. Both scalars are
// 0x prefixed big endian hex strings.
func FromRecord(owner *account.Address, value uint64, payload []byte, serialNumberNonce, commitmentRandomness string) (*Record, error) {
	return FromRecordWithProgram(owner, value, payload, network.NoopProgramID, serialNumberNonce, commitmentRandomness)
}

// FromRecordWithProgram is FromRecord for records of an arbitrary program.
func FromRecordWithProgram(owner *account.Address, value uint64, payload []byte, programID, serialNumberNonce, commitmentRandomness string) (*Record, error) {
	snNonce, err := parseScalar("serial number nonce", serialNumberNonce)
	if err != nil {
		return nil, err
	}
	cmRand, err := parseScalar("commitment randomness", commitmentRandomness)
	if err != nil {
		return nil, err
	}
	return newRecord(owner, value, payload, programID, snNonce, cmRand)
}

func newRecord(owner *account.Address, value uint64, payload []byte, programID string, snNonce, cmRand *big.Int) (*Record, error) {
	if owner == nil {
		return nil, types.NewError(types.ErrInvalidAddress, "invalid owner: nil address")
	}
	if err := crypto.CheckPoint(owner.Point()); err != nil {
		return nil, types.NewError(types.ErrInvalidAddress, "invalid owner: "+err.Error())
	}
	if len(payload) > network.MaxPayloadSize {
		return nil, types.NewError(types.ErrPayloadTooLong,
			fmt.Sprintf("payload too long: got %d, max %d", len(payload), network.MaxPayloadSize))
	}
	if err := checkProgramID(programID); err != nil {
		return nil, err
	}

	r := &Record{
		owner:                owner.Copy(),
		value:                value,
		payload:              types.NewBuffer(payload),
		programID:            programID,
		serialNumberNonce:    snNonce,
		commitmentRandomness: cmRand,
	}
	r.commitment = r.computeCommitment()
	return r, nil
}

func checkRandomness(randomness []byte) error {
	if len(randomness) != RandomnessSize {
		return types.NewError(types.ErrInvalidRandomness,
			fmt.Sprintf("invalid randomness length: expected(%d), got(%d)", RandomnessSize, len(randomness)))
	}
	return nil
}

func checkProgramID(programID string) error {
	if l := len(programID); l == 0 || l > MaxProgramIDLength {
		return types.NewError(types.ErrInvalidEncoding,
			fmt.Sprintf("invalid program id length: got %d, want 1..%d", l, MaxProgramIDLength))
	}
	return nil
}

func parseScalar(name, s string) (*big.Int, error) {
	bz, err := hexutil.Decode(s)
	if err != nil {
		return nil, types.NewError(types.ErrInvalidEncoding, fmt.Sprintf("invalid %s: %v", name, err))
	}
	v, err := crypto.ScalarFromBytes(bz)
	if err != nil {
		return nil, types.NewError(types.ErrInvalidEncoding, fmt.Sprintf("invalid %s: %v", name, err))
	}
	return v, nil
}

func (r *Record) Owner() *account.Address {
	return r.owner.Copy()
}

func (r *Record) Value() uint64 {
	return r.value
}

// Payload returns a copy of the payload as a length tagged buffer.
func (r *Record) Payload() types.Buffer {
	return types.NewBuffer(r.payload.Bytes())
}

func (r *Record) ProgramID() string {
	return r.programID
}

// SerialNumberNonce returns the nonce as a 0x prefixed hex string.
func (r *Record) SerialNumberNonce() string {
	return hexutil.Encode(crypto.ScalarBytes(r.serialNumberNonce))
}

// CommitmentRandomness returns the blinding scalar as a 0x prefixed hex string.
func (r *Record) CommitmentRandomness() string {
	return hexutil.Encode(crypto.ScalarBytes(r.commitmentRandomness))
}

// Commitment returns the commitment as a 0x prefixed hex string.
func (r *Record) Commitment() string {
	return hexutil.Encode(r.commitment)
}

// CommitmentBytes returns a copy of the raw 32 byte commitment.
func (r *Record) CommitmentBytes() []byte {
	return append([]byte(nil), r.commitment...)
}

// Validate recomputes the commitment and compares it with the stored one.
func (r *Record) Validate() error {
	if r.owner == nil || r.serialNumberNonce == nil || r.commitmentRandomness == nil {
		return types.NewError(types.ErrInvalidEncoding, "record is released or incomplete")
	}
	if string(r.computeCommitment()) != string(r.commitment) {
		return types.NewError(types.ErrInvalidEncoding, "record commitment does not match its fields")
	}
	return nil
}

// SerialNumber computes the serial number revealed when pk spends the record.
func (r *Record) SerialNumber(pk *account.PrivateKey) ([]byte, error) {
	if pk == nil || !pk.ViewKey().Address().Equal(r.owner) {
		return nil, types.NewError(types.ErrInvalidPrivateKey, "private key does not own the record")
	}
	return utils.MiMCHash(pk.PRFKey(), crypto.ScalarBytes(r.serialNumberNonce)), nil
}

// Equal reports whether both records have identical fields.
func (r *Record) Equal(o *Record) bool {
	return r.owner.Equal(o.owner) &&
		r.value == o.value &&
		string(r.payload.Bytes()) == string(o.payload.Bytes()) &&
		r.programID == o.programID &&
		r.serialNumberNonce.Cmp(o.serialNumberNonce) == 0 &&
		r.commitmentRandomness.Cmp(o.commitmentRandomness) == 0 &&
		string(r.commitment) == string(o.commitment)
}

// Release clears the record's secret fields.
func (r *Record) Release() {
	for i := range r.payload.Data {
		r.payload.Data[i] = 0
	}
	if r.serialNumberNonce != nil {
		r.serialNumberNonce.SetInt64(0)
	}
	if r.commitmentRandomness != nil {
		r.commitmentRandomness.SetInt64(0)
	}
	r.owner, r.serialNumberNonce, r.commitmentRandomness = nil, nil, nil
}
