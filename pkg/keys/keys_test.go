package keys

import (
	"path/filepath"
	"testing"
)

func TestGenerateAndReloadKeyPair(t *testing.T) {
	dir := t.TempDir()
	privPath := filepath.Join(dir, "id_rsa")
	pubPath := filepath.Join(dir, "id_rsa.pub")

	priv, err := GenerateKeyPair(privPath, pubPath)
	if err != nil {
		t.Fatalf("GenerateKeyPair: %v", err)
	}

	provider := FileProvider{PublicKeyPath: pubPath, PrivateKeyPath: privPath}
	gotPriv, err := provider.PrivateKey()
	if err != nil {
		t.Fatalf("PrivateKey: %v", err)
	}
	if gotPriv.N.Cmp(priv.N) != 0 {
		t.Fatalf("private key modulus mismatch after reload")
	}

	gotPub, err := provider.PublicKey()
	if err != nil {
		t.Fatalf("PublicKey: %v", err)
	}
	if gotPub.N.Cmp(priv.PublicKey.N) != 0 {
		t.Fatalf("public key modulus mismatch after reload")
	}
}

func TestFileProviderUnconfiguredRole(t *testing.T) {
	provider := FileProvider{}
	pub, err := provider.PublicKey()
	if err != nil || pub != nil {
		t.Fatalf("expected nil, nil for unconfigured public key, got %v, %v", pub, err)
	}
	priv, err := provider.PrivateKey()
	if err != nil || priv != nil {
		t.Fatalf("expected nil, nil for unconfigured private key, got %v, %v", priv, err)
	}
}

func TestReadMissingFile(t *testing.T) {
	if _, err := ReadPrivateKey("/nonexistent/path"); err == nil {
		t.Fatalf("expected error reading missing private key")
	}
	if _, err := ReadPublicKey("/nonexistent/path"); err == nil {
		t.Fatalf("expected error reading missing public key")
	}
}
