package utils

import (
	"bytes"
	"testing"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/stretchr/testify/require"
)

func TestMiMCHashNonCanonicalChunk(t *testing.T) {
	// a full chunk above the modulus hashes like its reduced form
	over := bytes.Repeat([]byte{0xff}, FieldSize)
	var elem fr.Element
	elem.SetBytes(over)
	reduced := elem.Marshal()

	require.Equal(t, MiMCHash(over), MiMCHash(reduced))
	require.Len(t, MiMCHash(over), FieldSize)
}

func TestMiMCHashShortChunk(t *testing.T) {
	require.Equal(t, MiMCHash([]byte{1}), MiMCHash(FieldUint64(1)))
	require.NotEqual(t, MiMCHash([]byte{1}), MiMCHash([]byte{2}))
}

func TestHashToField(t *testing.T) {
	a := HashToField("domain-a", []byte("msg"))
	b := HashToField("domain-b", []byte("msg"))
	require.Len(t, a, FieldSize)
	require.NotEqual(t, a, b)
	require.Equal(t, a, FieldString("domain-a", "msg"))

	var elem fr.Element
	require.NoError(t, elem.SetBytesCanonical(a))
}
