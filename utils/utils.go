package utils

import (
	crand "crypto/rand"
	"encoding/binary"
	"hash"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/consensys/gnark-crypto/ecc/bn254/fr/mimc"
)

// FieldSize is the size in bytes of one MiMC block (a bn254 scalar field element).
const FieldSize = fr.Bytes

func MiMCHasher() hash.Hash {
	return mimc.NewMiMC()
}

// MiMCHash hashes every input as a sequence of field elements.
// Full 32 byte chunks may exceed the modulus, so they are reduced first.
// Shorter chunks are left-padded by the hasher itself.
func MiMCHash(ins ...[]byte) []byte {
	hasher := MiMCHasher()

	blockSize := hasher.BlockSize()

	hasher.Reset()
	for _, in := range ins {

		for i := 0; i < len(in); i += blockSize {
			end := i + blockSize
			if end > len(in) {
				end = len(in)
			}
			chunk := in[i:end]

			if len(chunk) == blockSize {
				// this value may be greater than the modulus; convert to fr.Element
				var elem fr.Element
				elem.SetBytes(chunk)
				// canonical form
				chunk = elem.Marshal()
			}
			if _, err := hasher.Write(chunk); err != nil {
				panic(err)
			}
		}
	}
	return hasher.Sum(nil)
}

// FieldUint64 encodes v as a canonical field element.
func FieldUint64(v uint64) []byte {
	bz := make([]byte, FieldSize)
	binary.BigEndian.PutUint64(bz[FieldSize-8:], v)
	return bz
}

// FieldString maps an arbitrary string into one field element.
func FieldString(domain, s string) []byte {
	return HashToField(domain, []byte(s))
}

// HashToField maps arbitrary bytes into one canonical field element
// (expand_message_xmd with sha256).
func HashToField(domain string, msg []byte) []byte {
	elems, err := fr.Hash(msg, []byte(domain), 1)
	if err != nil {
		panic(err)
	}
	return elems[0].Marshal()
}

func RandBytes(n int) []byte {
	rbz := make([]byte, n)
	_, _ = crand.Read(rbz)
	return rbz
}
