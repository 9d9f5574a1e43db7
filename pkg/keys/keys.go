// Package keys provides a reference on-disk KeyProvider: PEM-encoded
// RSA key pairs loaded from (or generated into) a pair of files. This
// role is named as an external collaborator by spec §1/§9 and left
// out of scope there, but something has to implement audio.KeyProvider
// to exercise the crypto envelope end to end, so it's grounded the way
// the teacher's internel/utils.ReadBinary/WriteBinary persist typed
// data to disk, adapted to PEM since that's the ecosystem convention
// for RSA key material rather than a raw binary dump.
package keys

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"fmt"
	"os"
)

const (
	privateKeyPEMType = "RSA PRIVATE KEY"
	publicKeyPEMType  = "RSA PUBLIC KEY"

	// KeyBits is the RSA modulus size used by GenerateKeyPair, large
	// enough for RSA-OAEP/SHA-256 to wrap a 32-byte AES-256 key with
	// room to spare for the OAEP padding overhead.
	KeyBits = 2048
)

// FileProvider is an audio.KeyProvider backed by PEM files on disk.
// Either path may be empty, meaning that role isn't configured.
type FileProvider struct {
	PublicKeyPath  string
	PrivateKeyPath string
}

func (f FileProvider) PublicKey() (*rsa.PublicKey, error) {
	if f.PublicKeyPath == "" {
		return nil, nil
	}
	return ReadPublicKey(f.PublicKeyPath)
}

func (f FileProvider) PrivateKey() (*rsa.PrivateKey, error) {
	if f.PrivateKeyPath == "" {
		return nil, nil
	}
	return ReadPrivateKey(f.PrivateKeyPath)
}

// GenerateKeyPair creates a new RSA key pair and writes it as PEM to
// the given paths, overwriting any existing files.
func GenerateKeyPair(privatePath, publicPath string) (*rsa.PrivateKey, error) {
	priv, err := rsa.GenerateKey(rand.Reader, KeyBits)
	if err != nil {
		return nil, fmt.Errorf("keys: generate: %w", err)
	}
	if err := WritePrivateKey(privatePath, priv); err != nil {
		return nil, err
	}
	if err := WritePublicKey(publicPath, &priv.PublicKey); err != nil {
		return nil, err
	}
	return priv, nil
}

// WritePrivateKey PEM-encodes priv in PKCS#1 form and writes it to
// filename with permissions restricted to the owner.
func WritePrivateKey(filename string, priv *rsa.PrivateKey) error {
	der := x509.MarshalPKCS1PrivateKey(priv)
	block := &pem.Block{Type: privateKeyPEMType, Bytes: der}
	return os.WriteFile(filename, pem.EncodeToMemory(block), 0o600)
}

// WritePublicKey PEM-encodes pub in PKCS#1 form and writes it to
// filename.
func WritePublicKey(filename string, pub *rsa.PublicKey) error {
	der := x509.MarshalPKCS1PublicKey(pub)
	block := &pem.Block{Type: publicKeyPEMType, Bytes: der}
	return os.WriteFile(filename, pem.EncodeToMemory(block), 0o644)
}

// ReadPrivateKey loads and decodes a PKCS#1 RSA private key from a PEM
// file.
func ReadPrivateKey(filename string) (*rsa.PrivateKey, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("keys: read private key: %w", err)
	}
	block, _ := pem.Decode(data)
	if block == nil {
		return nil, fmt.Errorf("keys: %s: not a valid PEM file", filename)
	}
	priv, err := x509.ParsePKCS1PrivateKey(block.Bytes)
	if err != nil {
		return nil, fmt.Errorf("keys: parse private key: %w", err)
	}
	return priv, nil
}

// ReadPublicKey loads and decodes a PKCS#1 RSA public key from a PEM
// file.
func ReadPublicKey(filename string) (*rsa.PublicKey, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("keys: read public key: %w", err)
	}
	block, _ := pem.Decode(data)
	if block == nil {
		return nil, fmt.Errorf("keys: %s: not a valid PEM file", filename)
	}
	pub, err := x509.ParsePKCS1PublicKey(block.Bytes)
	if err != nil {
		return nil, fmt.Errorf("keys: parse public key: %w", err)
	}
	return pub, nil
}
