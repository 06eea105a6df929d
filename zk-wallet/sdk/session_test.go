package sdk

import (
	"bytes"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/kysee/zkwallet/utils"
	"github.com/kysee/zkwallet/zk-wallet/network"
	"github.com/kysee/zkwallet/zk-wallet/transaction"
	"github.com/kysee/zkwallet/zk-wallet/types"
	"github.com/stretchr/testify/require"
)

var testSeed = types.NewBuffer(bytes.Repeat([]byte{0x11}, 32))

func lastMessage(t *testing.T, s *Session) string {
	buf := make([]byte, s.LastErrorLength())
	n := s.LastErrorMessage(buf)
	require.Equal(t, len(buf), n)
	return string(buf[:n])
}

func TestSessionAccount(t *testing.T) {
	s := NewSession(network.Testnet1())

	h := s.FromSeed(testSeed, "testnet1")
	require.NotZero(t, h)
	sk := s.AccountPrivateKey(h)
	vk := s.AccountViewKey(h)
	addr := s.AccountAddress(h)
	require.True(t, strings.HasPrefix(sk, "sk"))
	require.True(t, strings.HasPrefix(vk, "vk"))
	require.True(t, strings.HasPrefix(addr, "zk1"))

	h2 := s.FromSecret(sk)
	require.NotZero(t, h2)
	require.NotEqual(t, h, h2)
	require.Equal(t, vk, s.AccountViewKey(h2))
	require.Equal(t, addr, s.AccountAddress(h2))
	require.Equal(t, 0, s.LastErrorLength())

	other := s.FromSeed(testSeed, "testnet2")
	require.NotEqual(t, sk, s.AccountPrivateKey(other))

	s.AccountFree(h)
	s.AccountFree(h)
	require.Equal(t, "", s.AccountAddress(h))
	require.True(t, errors.Is(s.LastError(), ErrUnknownHandle))
}

func TestSessionErrors(t *testing.T) {
	s := NewSession(network.Testnet1())

	require.Zero(t, s.FromSeed(testSeed, "unknown"))
	require.True(t, errors.Is(s.LastError(), types.ErrUnsupportedNetwork))
	require.Contains(t, lastMessage(t, s), "unsupported network")

	require.Zero(t, s.FromSeed(types.NewBuffer([]byte{1}), ""))
	require.True(t, errors.Is(s.LastError(), types.ErrInvalidSeedLength))

	require.Zero(t, s.FromSecret("garbage"))
	require.True(t, errors.Is(s.LastError(), types.ErrInvalidPrivateKey))
	msg := lastMessage(t, s)

	// a small buffer is refused
	require.Equal(t, -1, s.LastErrorMessage(make([]byte, 1)))

	// success leaves the message in place
	require.NotZero(t, s.FromSeed(testSeed, ""))
	require.Equal(t, msg, lastMessage(t, s))
}

func TestSessionRecord(t *testing.T) {
	s := NewSession(network.Testnet2())
	acct := s.FromSeed(testSeed, "testnet2")
	addr := s.AccountAddress(acct)
	payload := types.NewBuffer([]byte{0, 0, 1})

	rec := s.NewInputRecord(addr, 9, payload, utils.RandBytes(32))
	require.NotZero(t, rec)
	value, ok := s.RecordValue(rec)
	require.True(t, ok)
	require.Equal(t, uint64(9), value)
	require.Equal(t, addr, s.RecordOwner(rec))
	require.Equal(t, payload, s.RecordPayload(rec))
	require.Equal(t, network.NoopProgramID, s.RecordProgramID(rec))

	rebuilt := s.FromRecord(addr, 9, payload, s.RecordSerialNumberNonce(rec), s.RecordCommitmentRandomness(rec))
	require.NotZero(t, rebuilt)
	require.Equal(t, s.RecordCommitment(rec), s.RecordCommitment(rebuilt))

	ciphertext := s.EncryptRecord(rec, utils.RandBytes(32))
	require.NotEmpty(t, ciphertext)

	decrypted := s.DecryptRecord(ciphertext, s.AccountViewKey(acct))
	require.NotZero(t, decrypted)
	require.Equal(t, s.RecordCommitment(rec), s.RecordCommitment(decrypted))

	stranger := s.FromSeed(types.NewBuffer(bytes.Repeat([]byte{0x22}, 32)), "testnet2")
	require.Zero(t, s.DecryptRecord(ciphertext, s.AccountViewKey(stranger)))
	require.True(t, errors.Is(s.LastError(), types.ErrViewKeyMismatch))

	require.Empty(t, s.EncryptRecord(rec, []byte{1}))
	require.True(t, errors.Is(s.LastError(), types.ErrEncryptionFailure))

	require.Zero(t, s.NewInputRecord(addr, 9, types.NewBuffer(make([]byte, 129)), utils.RandBytes(32)))
	require.True(t, errors.Is(s.LastError(), types.ErrPayloadTooLong))

	require.Zero(t, s.NewInputRecord("zk1bad", 9, payload, utils.RandBytes(32)))
	require.True(t, errors.Is(s.LastError(), types.ErrInvalidAddress))

	s.RecordFree(rec)
	_, ok = s.RecordValue(rec)
	require.False(t, ok)
	require.Equal(t, types.Buffer{}, s.RecordPayload(rec))
}

func TestSessionTransactions(t *testing.T) {
	s := NewSession(network.Testnet1())
	alice := s.FromSeed(testSeed, "testnet1")
	bob := s.FromSeed(types.NewBuffer(bytes.Repeat([]byte{0x33}, 32)), "testnet1")

	coinbase := s.NewCoinbaseTransaction(s.AccountAddress(alice), 1000, utils.RandBytes(32))
	require.NotEmpty(t, coinbase)
	tx, err := transaction.Parse(coinbase)
	require.NoError(t, err)
	require.Len(t, tx.Outputs, 1)

	input := s.DecryptRecord(tx.Outputs[0].Ciphertext, s.AccountViewKey(alice))
	require.NotZero(t, input)

	transfer := s.NewTransferTransaction(input, "0x01", "0x02", s.AccountPrivateKey(alice), 600, 500, s.AccountAddress(bob))
	require.Empty(t, transfer)
	require.True(t, errors.Is(s.LastError(), types.ErrInsufficientFunds))

	transfer = s.NewTransferTransaction(input, "0x01", "0x02", s.AccountPrivateKey(alice), 600, 300, s.AccountAddress(bob))
	require.NotEmpty(t, transfer)

	transfer = s.NewTransferTransaction(input, "", "0x02", s.AccountPrivateKey(alice), 1, 1, s.AccountAddress(bob))
	require.Empty(t, transfer)
	require.True(t, errors.Is(s.LastError(), types.ErrInvalidProof))

	transfer = s.NewTransferTransaction(input, "0x01", "0x02", s.AccountPrivateKey(bob), 1, 1, s.AccountAddress(bob))
	require.Empty(t, transfer)
	require.True(t, errors.Is(s.LastError(), types.ErrInvalidPrivateKey))

	require.Empty(t, s.NewTransferTransaction(0, "0x01", "0x02", s.AccountPrivateKey(alice), 1, 1, s.AccountAddress(bob)))
	require.True(t, errors.Is(s.LastError(), ErrUnknownHandle))
}

func TestSessionMalformedBuffer(t *testing.T) {
	s := NewSession(network.Testnet1())
	addr := s.AccountAddress(s.FromSeed(testSeed, "testnet1"))
	rec := s.NewInputRecord(addr, 1, types.NewBuffer(nil), utils.RandBytes(32))
	require.NotZero(t, rec)
	snNonce, cmRand := s.RecordSerialNumberNonce(rec), s.RecordCommitmentRandomness(rec)

	for _, buf := range []types.Buffer{
		{Data: make([]byte, 4), Len: 32},
		{Data: make([]byte, 4), Len: -1},
	} {
		require.NotPanics(t, func() {
			require.Zero(t, s.FromSeed(buf, "testnet1"))
		})
		require.True(t, errors.Is(s.LastError(), types.ErrInvalidEncoding))

		require.NotPanics(t, func() {
			require.Zero(t, s.NewInputRecord(addr, 1, buf, utils.RandBytes(32)))
		})
		require.True(t, errors.Is(s.LastError(), types.ErrInvalidEncoding))

		require.NotPanics(t, func() {
			require.Zero(t, s.FromRecord(addr, 1, buf, snNonce, cmRand))
		})
		require.True(t, errors.Is(s.LastError(), types.ErrInvalidEncoding))
	}
}

// Each goroutine owns a session; failures in one never show up in another.
func TestSessionErrorIsolation(t *testing.T) {
	const workers = 8

	var wg sync.WaitGroup
	results := make([]error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			s := NewSession(network.Testnet1())
			for j := 0; j < 20; j++ {
				if i%2 == 0 {
					if s.FromSecret("garbage") != 0 {
						results[i] = errors.New("garbage secret accepted")
						return
					}
				} else if s.FromSeed(testSeed, "testnet1") == 0 {
					results[i] = s.LastError()
					return
				}
			}
			if i%2 == 0 {
				if !errors.Is(s.LastError(), types.ErrInvalidPrivateKey) {
					results[i] = errors.New("missing own failure")
				}
			} else if s.LastErrorLength() != 0 || s.LastError() != nil {
				results[i] = errors.New("saw a failure from another session")
			}
		}(i)
	}
	wg.Wait()

	for i, err := range results {
		require.NoError(t, err, "worker %d", i)
	}
}
