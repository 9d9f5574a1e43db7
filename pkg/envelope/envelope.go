// Package envelope implements the AES-256-GCM + RSA-OAEP crypto
// envelope of spec component C2.
//
// No retrieved example repo carries a crypto stack of its own; this
// package is built directly on the standard library's crypto/aes,
// crypto/cipher, crypto/rsa primitives, which is the idiomatic choice
// the wider Go ecosystem makes for this exact contract (stdlib crypto
// is considered authoritative, not a fallback, for AES-GCM and
// RSA-OAEP) — see DESIGN.md.
package envelope

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"errors"
	"io"
)

// KeySize is the AES-256 session key length in bytes.
const KeySize = 32

// NonceSize is the AES-GCM nonce length in bytes.
const NonceSize = 12

// TagSize is the AES-GCM authentication tag length in bytes.
const TagSize = 16

// WrappedKeySize is the RSA-OAEP ciphertext length for a 2048-bit key.
const WrappedKeySize = 256

// ErrAuthFailed is returned when the AEAD tag does not verify.
var ErrAuthFailed = errors.New("envelope: authentication failed")

// NewSessionKey draws a fresh 32-byte AES-256 key from a cryptographic
// RNG, owned exclusively by the caller's encode call.
func NewSessionKey() ([]byte, error) {
	key := make([]byte, KeySize)
	if _, err := io.ReadFull(rand.Reader, key); err != nil {
		return nil, err
	}
	return key, nil
}

// NewNonce draws a fresh 12-byte AES-GCM nonce.
func NewNonce() ([]byte, error) {
	nonce := make([]byte, NonceSize)
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, err
	}
	return nonce, nil
}

// WrapKey encrypts a 32-byte session key under the recipient's RSA
// public key with RSA-OAEP (SHA-256, MGF1-SHA-256), producing a
// 256-byte blob for a 2048-bit key.
func WrapKey(pub *rsa.PublicKey, key []byte) ([]byte, error) {
	if len(key) != KeySize {
		return nil, errors.New("envelope: session key must be 32 bytes")
	}
	return rsa.EncryptOAEP(sha256.New(), rand.Reader, pub, key, nil)
}

// UnwrapKey decrypts a wrapped session key blob with the recipient's
// RSA private key.
func UnwrapKey(priv *rsa.PrivateKey, blob []byte) ([]byte, error) {
	key, err := rsa.DecryptOAEP(sha256.New(), rand.Reader, priv, blob, nil)
	if err != nil {
		return nil, ErrAuthFailed
	}
	if len(key) != KeySize {
		return nil, ErrAuthFailed
	}
	return key, nil
}

// Seal encrypts plaintext under key and nonce with AES-256-GCM and no
// associated data, returning ciphertext and the detached tag
// separately so the caller can place them in the frame header/trailer
// per spec §3.
func Seal(key, nonce, plaintext []byte) (ciphertext, tag []byte, err error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, nil, err
	}
	gcm, err := cipher.NewGCMWithNonceSize(block, NonceSize)
	if err != nil {
		return nil, nil, err
	}
	sealed := gcm.Seal(nil, nonce, plaintext, nil)
	n := len(sealed) - TagSize
	return sealed[:n], sealed[n:], nil
}

// Open decrypts ciphertext+tag under key and nonce, returning
// ErrAuthFailed on any tag mismatch.
func Open(key, nonce, ciphertext, tag []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	gcm, err := cipher.NewGCMWithNonceSize(block, NonceSize)
	if err != nil {
		return nil, err
	}
	sealed := make([]byte, 0, len(ciphertext)+len(tag))
	sealed = append(sealed, ciphertext...)
	sealed = append(sealed, tag...)
	plaintext, err := gcm.Open(nil, nonce, sealed, nil)
	if err != nil {
		return nil, ErrAuthFailed
	}
	return plaintext, nil
}

// FlipBit flips one bit of data at the given byte and bit offset,
// leaving all other bytes untouched. Used by property tests that
// assert single-bit corruption is always detected.
func FlipBit(data []byte, byteOff, bitOff int) {
	data[byteOff] ^= 1 << uint(bitOff)
}
