package crypto

import (
	"errors"
	"fmt"
	"math/big"

	tedwards "github.com/consensys/gnark-crypto/ecc/bn254/twistededwards"
	"golang.org/x/crypto/blake2s"
)

// ECDHComputeSharedSecret computes the ECDH shared secret
// sharedSecret = blake2s(x(scalar * otherPublicKey))
func ECDHComputeSharedSecret(scalar *big.Int, otherPublicKey *tedwards.PointAffine) ([]byte, error) {
	// Verify the other public key is on the curve
	if !otherPublicKey.IsOnCurve() {
		return nil, errors.New("other public key is not on curve")
	}

	var sharedSecret tedwards.PointAffine
	sharedSecret.ScalarMultiplication(otherPublicKey, scalar)

	if !sharedSecret.IsOnCurve() || sharedSecret.IsZero() {
		return nil, errors.New("computed shared secret is not a valid point")
	}

	hasher, err := blake2s.New256(nil)
	if err != nil {
		return nil, err
	}
	ax := sharedSecret.X.Bytes()
	hasher.Write(ax[:])
	return hasher.Sum(nil), nil
}

// SaplingKDF derives a key stream of a specified length from a shared secret using BLAKE2s.
// This function follows the PRF^expand logic, similar to HKDF-Expand (RFC 5869),
// as defined in the Zcash Sapling specification.
func SaplingKDF(sharedSecret []byte, outputLen int) ([]byte, error) {
	if len(sharedSecret) != 32 {
		return nil, fmt.Errorf("sharedSecret must be 32 bytes")
	}

	personalization := []byte("zkwallet_expand")

	var keyStream []byte
	var counter byte = 1 // The counter must start at 1.
	for len(keyStream) < outputLen {
		// Create a new hash instance for each iteration to avoid state pollution.
		h, err := blake2s.New256(personalization)
		if err != nil {
			return nil, fmt.Errorf("failed to create blake2s hash: %w", err)
		}
		h.Write(sharedSecret)
		h.Write([]byte{counter})

		keyStream = append(keyStream, h.Sum(nil)...)

		counter++
		if counter == 0 {
			return nil, errors.New("KDF counter overflow")
		}
	}

	return keyStream[:outputLen], nil
}

// PRF evaluates keyed blake2s over the domain tag and inputs.
func PRF(key []byte, domain string, ins ...[]byte) []byte {
	h, err := blake2s.New256(key)
	if err != nil {
		panic(err)
	}
	writeLenPrefixed(h, []byte(domain))
	for _, in := range ins {
		writeLenPrefixed(h, in)
	}
	return h.Sum(nil)
}
