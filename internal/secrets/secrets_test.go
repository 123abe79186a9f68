package secrets

import (
	"errors"
	"testing"
)

func TestEncryptDecryptRoundTrip(t *testing.T) {
	key, err := GenerateKey()
	if err != nil {
		t.Fatalf("GenerateKey() error = %v", err)
	}

	token, err := Encrypt(key, "api-secret-value")
	if err != nil {
		t.Fatalf("Encrypt() error = %v", err)
	}
	if token == "api-secret-value" {
		t.Fatalf("token equals plaintext")
	}

	plaintext, err := Decrypt(key, token)
	if err != nil {
		t.Fatalf("Decrypt() error = %v", err)
	}
	if plaintext != "api-secret-value" {
		t.Errorf("Decrypt() = %q, want original plaintext", plaintext)
	}
}

func TestDecryptWrongKey(t *testing.T) {
	key1, _ := GenerateKey()
	key2, _ := GenerateKey()

	token, err := Encrypt(key1, "secret")
	if err != nil {
		t.Fatalf("Encrypt() error = %v", err)
	}
	if _, err := Decrypt(key2, token); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("Decrypt() error = %v, want ErrInvalidToken", err)
	}
}

func TestDecryptGarbage(t *testing.T) {
	key, _ := GenerateKey()
	if _, err := Decrypt(key, "not-a-token"); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("Decrypt() error = %v, want ErrInvalidToken", err)
	}
}

func TestEncryptBadKey(t *testing.T) {
	if _, err := Encrypt("short", "secret"); err == nil {
		t.Errorf("Encrypt() accepted a malformed key")
	}
}
