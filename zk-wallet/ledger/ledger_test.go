package ledger

import (
	"errors"
	"testing"

	"github.com/kysee/zkwallet/utils"
	"github.com/kysee/zkwallet/zk-wallet/account"
	"github.com/kysee/zkwallet/zk-wallet/network"
	"github.com/kysee/zkwallet/zk-wallet/record"
	"github.com/kysee/zkwallet/zk-wallet/transaction"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func TestLedgerProofs(t *testing.T) {
	l := New(network.Testnet1(), zerolog.Nop())
	require.Nil(t, l.Root())

	var commitments [][]byte
	for i := 0; i < 5; i++ {
		c := utils.MiMCHash(utils.RandBytes(32))
		idx, err := l.AddCommitment(c)
		require.NoError(t, err)
		require.Equal(t, uint64(i), idx)
		commitments = append(commitments, c)
	}
	require.NotNil(t, l.Root())

	proof, err := l.Prove(commitments[3])
	require.NoError(t, err)
	require.NoError(t, l.VerifyProof(proof))

	p, err := DecodeProof(proof)
	require.NoError(t, err)
	require.Equal(t, commitments[3], p.Leaf())
	require.Equal(t, uint64(3), p.Index)
	require.Equal(t, uint64(5), p.NumLeaves)

	// proofs against an older root stay valid
	_, err = l.AddCommitment(utils.MiMCHash(utils.RandBytes(32)))
	require.NoError(t, err)
	require.NoError(t, l.VerifyProof(proof))

	// a forged leaf does not verify
	p.Path[0] = utils.MiMCHash(utils.RandBytes(32))
	require.Error(t, l.VerifyProof(p.Encode()))

	_, err = l.Prove(utils.MiMCHash(utils.RandBytes(32)))
	require.ErrorIs(t, err, ErrUnknownLeaf)

	_, err = l.AddCommitment([]byte{1, 2, 3})
	require.Error(t, err)

	_, err = l.ProveProgram("unknown")
	require.ErrorIs(t, err, ErrUnknownProgram)
}

func TestLedgerApply(t *testing.T) {
	params := network.Testnet1()
	l := New(params, zerolog.Nop())
	asm := transaction.NewAssembler(params)

	alice, err := account.New(params)
	require.NoError(t, err)
	bob, err := account.New(params)
	require.NoError(t, err)

	// mint to alice and find her record on the ledger
	coinbase, err := asm.BuildCoinbase(alice.Address().String(), 100, utils.RandBytes(record.RandomnessSize))
	require.NoError(t, err)
	indices, err := l.Apply(coinbase)
	require.NoError(t, err)
	require.Equal(t, []uint64{0}, indices)

	input, err := record.Decrypt(l.Ciphertext(0), alice.ViewKey())
	require.NoError(t, err)
	require.Equal(t, uint64(100), input.Value())

	proof1, err := l.Prove(input.CommitmentBytes())
	require.NoError(t, err)
	proof2, err := l.ProveProgram(input.ProgramID())
	require.NoError(t, err)

	transfer, err := asm.BuildTransfer(input, proof1, proof2, alice.PrivateKey().String(), 60, 30, bob.Address().String())
	require.NoError(t, err)
	indices, err = l.Apply(transfer)
	require.NoError(t, err)
	require.Equal(t, []uint64{1, 2}, indices)
	require.Equal(t, 3, l.Len())

	sn, err := input.SerialNumber(alice.PrivateKey())
	require.NoError(t, err)
	require.True(t, l.IsSpent(sn))

	received, err := record.Decrypt(l.Ciphertext(1), bob.ViewKey())
	require.NoError(t, err)
	require.Equal(t, uint64(60), received.Value())
	change, err := record.Decrypt(l.Ciphertext(2), alice.ViewKey())
	require.NoError(t, err)
	require.Equal(t, uint64(10), change.Value())

	// spending the same record again is rejected
	again, err := asm.BuildTransfer(input, proof1, proof2, alice.PrivateKey().String(), 1, 0, bob.Address().String())
	require.NoError(t, err)
	_, err = l.Apply(again)
	require.ErrorIs(t, err, ErrDoubleSpend)
}

func TestLedgerApplyInvalid(t *testing.T) {
	params := network.Testnet1()
	l := New(params, zerolog.Nop())

	alice, err := account.New(params)
	require.NoError(t, err)

	other := transaction.NewAssembler(network.Testnet2())
	coinbase, err := other.BuildCoinbase(alice.Address().String(), 1, utils.RandBytes(record.RandomnessSize))
	require.NoError(t, err)
	_, err = l.Apply(coinbase)
	require.True(t, errors.Is(err, ErrWrongNetwork))

	// proofs that are hex but not ledger proofs
	asm := transaction.NewAssembler(params)
	input, err := record.NewInputRecord(alice.Address(), 10, nil, utils.RandBytes(record.RandomnessSize))
	require.NoError(t, err)
	transfer, err := asm.BuildTransfer(input, "0x01", "0x02", alice.PrivateKey().String(), 1, 1, alice.Address().String())
	require.NoError(t, err)
	_, err = l.Apply(transfer)
	require.ErrorIs(t, err, ErrProofMismatched)

	_, err = l.Apply("0x00")
	require.Error(t, err)
}
