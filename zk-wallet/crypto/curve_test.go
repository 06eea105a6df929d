package crypto

import (
	"math/big"
	"testing"

	"github.com/kysee/zkwallet/utils"
	"github.com/stretchr/testify/require"
)

func TestHashToScalar(t *testing.T) {
	s0 := HashToScalar("test", []byte("a"), []byte("bc"))
	s1 := HashToScalar("test", []byte("ab"), []byte("c"))
	s2 := HashToScalar("other", []byte("a"), []byte("bc"))

	require.NotEqual(t, s0, s1)
	require.NotEqual(t, s0, s2)
	require.Equal(t, s0, HashToScalar("test", []byte("a"), []byte("bc")))
	require.Equal(t, -1, s0.Cmp(Order()))
}

func TestScalarCodec(t *testing.T) {
	s := HashToScalar("codec")
	bz := ScalarBytes(s)
	require.Len(t, bz, ScalarSize)

	s1, err := ScalarFromBytes(bz)
	require.NoError(t, err)
	require.Equal(t, 0, s.Cmp(s1))

	_, err = ScalarFromBytes(make([]byte, ScalarSize))
	require.ErrorContains(t, err, "zero")

	_, err = ScalarFromBytes(ScalarBytes(Order()))
	require.ErrorContains(t, err, "order")

	_, err = ScalarFromBytes(bz[1:])
	require.ErrorContains(t, err, "wrong scalar length")
}

func TestPointCodec(t *testing.T) {
	p := BaseMul(big.NewInt(12345))
	bz := PointBytes(p)

	p1, err := PointFromBytes(bz)
	require.NoError(t, err)
	require.True(t, p.Equal(p1))

	// identity
	id := BaseMul(Order())
	_, err = PointFromBytes(PointBytes(id))
	require.Error(t, err)

	_, err = PointFromBytes(bz[:31])
	require.Error(t, err)
}

func TestSpendKeySignature(t *testing.T) {
	seed := make([]byte, 32)
	seed[0] = 7

	k0, err := NewSpendKey(seed)
	require.NoError(t, err)
	k1, err := NewSpendKey(seed)
	require.NoError(t, err)
	require.Equal(t, k0.PublicKey.Bytes(), k1.PublicKey.Bytes())

	digest := utils.MiMCHash([]byte("message"))
	sig, err := SignDigest(k0, digest)
	require.NoError(t, err)

	pub := NewSpendPub()
	_, err = pub.SetBytes(k0.PublicKey.Bytes())
	require.NoError(t, err)

	ok, err := VerifyDigest(pub, sig, digest)
	require.NoError(t, err)
	require.True(t, ok)

	ok, _ = VerifyDigest(pub, sig, utils.MiMCHash([]byte("other")))
	require.False(t, ok)
}
