package record

import (
	"fmt"
	"strings"

	"github.com/btcsuite/btcutil/base58"
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/kysee/zkwallet/zk-wallet/account"
	"github.com/kysee/zkwallet/zk-wallet/crypto"
	"github.com/kysee/zkwallet/zk-wallet/types"
)

const (
	ciphertextPrefix  = "rc"
	ciphertextVersion = 0x13

	// cipherFormat is the layout version written in front of every ciphertext:
	// format(1) || R(32) || commitment(32) || sealed plaintext
	cipherFormat = byte(1)

	cipherHeaderSize = 1 + crypto.ScalarSize + crypto.ScalarSize
)

// SecretRecord is the plaintext sealed to the owner. The owner is implied by
// the view key that opens it.
type SecretRecord struct {
	Value                uint64
	Payload              []byte
	SerialNumberNonce    []byte
	CommitmentRandomness []byte
	ProgramID            string
}

// Bytes returns the RLP-encoded representation of the SecretRecord.
func (sr *SecretRecord) Bytes() []byte {
	b, err := rlp.EncodeToBytes(sr)
	if err != nil {
		panic(fmt.Sprintf("failed to RLP encode SecretRecord: %v", err))
	}
	return b
}

// Encrypt seals the record to its owner. The ephemeral key is derived from
// randomness, so different randomness yields unrelated ciphertexts.
func (r *Record) Encrypt(randomness []byte) (string, error) {
	fail := func(desc string) (string, error) {
		return "", types.NewError(types.ErrEncryptionFailure, "failed to encrypt record: "+desc)
	}
	if len(randomness) != RandomnessSize {
		return fail(fmt.Sprintf("invalid randomness length: expected(%d), got(%d)", RandomnessSize, len(randomness)))
	}
	if err := r.Validate(); err != nil {
		return fail(err.Error())
	}

	ephemeral := crypto.HashToScalar("enc_ephemeral", randomness)
	if ephemeral.Sign() == 0 {
		return fail("zero ephemeral scalar")
	}
	ephemeralPub := crypto.BaseMul(ephemeral)

	sharedSecret, err := crypto.ECDHComputeSharedSecret(ephemeral, r.owner.Point())
	if err != nil {
		return fail(err.Error())
	}
	key, nonce, err := expandKey(sharedSecret)
	if err != nil {
		return fail(err.Error())
	}

	header := make([]byte, 0, cipherHeaderSize)
	header = append(header, cipherFormat)
	header = append(header, crypto.PointBytes(ephemeralPub)...)
	header = append(header, r.commitment...)

	secret := &SecretRecord{
		Value:                r.value,
		Payload:              r.payload.Bytes(),
		SerialNumberNonce:    crypto.ScalarBytes(r.serialNumberNonce),
		CommitmentRandomness: crypto.ScalarBytes(r.commitmentRandomness),
		ProgramID:            r.programID,
	}
	sealed, err := crypto.Seal(key, nonce, secret.Bytes(), header)
	if err != nil {
		return fail(err.Error())
	}

	return ciphertextPrefix + base58.CheckEncode(append(header, sealed...), ciphertextVersion), nil
}

// Decrypt opens a ciphertext with vk and returns the record only if its
// commitment matches the one bound into the ciphertext.
func Decrypt(ciphertext string, vk *account.ViewKey) (*Record, error) {
	invalid := func(desc string) (*Record, error) {
		return nil, types.NewError(types.ErrInvalidCiphertext, "invalid ciphertext: "+desc)
	}
	if vk == nil {
		return nil, types.NewError(types.ErrViewKeyMismatch, "nil view key")
	}
	if !strings.HasPrefix(ciphertext, ciphertextPrefix) {
		return invalid("wrong prefix")
	}
	bz, ver, err := base58.CheckDecode(ciphertext[len(ciphertextPrefix):])
	if err != nil {
		return invalid(err.Error())
	}
	if ver != ciphertextVersion {
		return invalid(fmt.Sprintf("wrong version: expected(%d), got(%d)", ciphertextVersion, ver))
	}
	if len(bz) < cipherHeaderSize+crypto.TagSize {
		return invalid(fmt.Sprintf("too short: %d bytes", len(bz)))
	}
	if bz[0] != cipherFormat {
		return invalid(fmt.Sprintf("unknown format %d", bz[0]))
	}
	header, sealed := bz[:cipherHeaderSize], bz[cipherHeaderSize:]
	commitment := header[1+crypto.ScalarSize:]

	ephemeralPub, err := crypto.PointFromBytes(header[1 : 1+crypto.ScalarSize])
	if err != nil {
		return invalid(err.Error())
	}
	sharedSecret, err := crypto.ECDHComputeSharedSecret(vk.Scalar(), ephemeralPub)
	if err != nil {
		return invalid(err.Error())
	}
	key, nonce, err := expandKey(sharedSecret)
	if err != nil {
		return invalid(err.Error())
	}
	plaintext, err := crypto.Open(key, nonce, sealed, header)
	if err != nil {
		return nil, types.NewError(types.ErrViewKeyMismatch, "record is not addressed to this view key")
	}

	var secret SecretRecord
	if err := rlp.DecodeBytes(plaintext, &secret); err != nil {
		return invalid(err.Error())
	}
	snNonce, err := crypto.ScalarFromBytes(secret.SerialNumberNonce)
	if err != nil {
		return invalid(err.Error())
	}
	cmRand, err := crypto.ScalarFromBytes(secret.CommitmentRandomness)
	if err != nil {
		return invalid(err.Error())
	}
	r, err := newRecord(vk.Address(), secret.Value, secret.Payload, secret.ProgramID, snNonce, cmRand)
	if err != nil {
		return invalid(err.Error())
	}
	if string(r.commitment) != string(commitment) {
		r.Release()
		return invalid("commitment mismatch")
	}
	return r, nil
}

func expandKey(sharedSecret []byte) (key, nonce []byte, err error) {
	stream, err := crypto.SaplingKDF(sharedSecret, crypto.KeySize+crypto.NonceSize)
	if err != nil {
		return nil, nil, err
	}
	return stream[:crypto.KeySize], stream[crypto.KeySize:], nil
}
