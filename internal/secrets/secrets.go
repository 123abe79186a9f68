// Package secrets encrypts credentials at rest with fernet symmetric tokens.
package secrets

import (
	"errors"
	"fmt"

	"github.com/fernet/fernet-go"
)

// ErrInvalidToken indicates a token that does not verify under the
// configured key, either corrupt or encrypted with a different key.
var ErrInvalidToken = errors.New("invalid secret token")

// GenerateKey returns a new base64-encoded fernet key.
func GenerateKey() (string, error) {
	var key fernet.Key
	if err := key.Generate(); err != nil {
		return "", fmt.Errorf("generating key: %w", err)
	}
	return key.Encode(), nil
}

// Encrypt seals plaintext into a fernet token under the encoded key.
func Encrypt(encodedKey, plaintext string) (string, error) {
	keys, err := fernet.DecodeKeys(encodedKey)
	if err != nil {
		return "", fmt.Errorf("decoding key: %w", err)
	}
	token, err := fernet.EncryptAndSign([]byte(plaintext), keys[0])
	if err != nil {
		return "", fmt.Errorf("encrypting: %w", err)
	}
	return string(token), nil
}

// Decrypt opens a token produced by Encrypt. Tokens do not expire.
func Decrypt(encodedKey, token string) (string, error) {
	keys, err := fernet.DecodeKeys(encodedKey)
	if err != nil {
		return "", fmt.Errorf("decoding key: %w", err)
	}
	plaintext := fernet.VerifyAndDecrypt([]byte(token), 0, keys)
	if plaintext == nil {
		return "", ErrInvalidToken
	}
	return string(plaintext), nil
}
