package crypto

import (
	"bytes"

	jubjub "github.com/consensys/gnark-crypto/ecc/bn254/twistededwards/eddsa"
	"github.com/kysee/zkwallet/utils"
)

// NewSpendKey deterministically derives an eddsa key from a 32 byte seed.
func NewSpendKey(seed []byte) (*jubjub.PrivateKey, error) {
	return jubjub.GenerateKey(bytes.NewReader(seed))
}

func NewSpendPub() *jubjub.PublicKey {
	return new(jubjub.PublicKey)
}

// SignDigest signs a 32 byte MiMC digest.
func SignDigest(key *jubjub.PrivateKey, digest []byte) ([]byte, error) {
	return key.Sign(digest, utils.MiMCHasher())
}

func VerifyDigest(pub *jubjub.PublicKey, sig, digest []byte) (bool, error) {
	return pub.Verify(sig, digest, utils.MiMCHasher())
}
