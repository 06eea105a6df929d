package crypto

import (
	"fmt"

	"golang.org/x/crypto/chacha20poly1305"
)

const (
	KeySize   = chacha20poly1305.KeySize
	NonceSize = chacha20poly1305.NonceSize
	TagSize   = chacha20poly1305.Overhead
)

// Seal encrypts the plaintext using the ChaCha20-Poly1305 AEAD scheme.
//
// Parameters:
//   - key: A 32-byte symmetric encryption key.
//   - nonce: A 12-byte nonce, which must be unique for each encryption with the same key.
//   - plaintext: The data to be encrypted (e.g., the serialized record fields).
//   - additionalData: Data to be authenticated but not encrypted, such as the
//     ephemeral public key and the record commitment.
//
// Returns the ciphertext, which includes the authentication tag.
func Seal(key, nonce, plaintext, additionalData []byte) ([]byte, error) {
	if len(key) != chacha20poly1305.KeySize {
		return nil, fmt.Errorf("invalid key size: must be %d bytes", chacha20poly1305.KeySize)
	}
	if len(nonce) != chacha20poly1305.NonceSize {
		return nil, fmt.Errorf("invalid nonce size: must be %d bytes", chacha20poly1305.NonceSize)
	}

	aead, err := chacha20poly1305.New(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create ChaCha20-Poly1305 AEAD: %w", err)
	}

	return aead.Seal(nil, nonce, plaintext, additionalData), nil
}

// Open decrypts and authenticates a ciphertext produced by Seal.
// An error means a wrong key or nonce, or tampered ciphertext or additionalData.
func Open(key, nonce, ciphertext, additionalData []byte) ([]byte, error) {
	if len(key) != chacha20poly1305.KeySize {
		return nil, fmt.Errorf("invalid key size: must be %d bytes", chacha20poly1305.KeySize)
	}
	if len(nonce) != chacha20poly1305.NonceSize {
		return nil, fmt.Errorf("invalid nonce size: must be %d bytes", chacha20poly1305.NonceSize)
	}

	aead, err := chacha20poly1305.New(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create ChaCha20-Poly1305 AEAD: %w", err)
	}

	plaintext, err := aead.Open(nil, nonce, ciphertext, additionalData)
	if err != nil {
		return nil, fmt.Errorf("failed to open ciphertext: %w", err)
	}
	return plaintext, nil
}
