package utils

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"

	"golang.org/x/crypto/nacl/secretbox"
)

// KeySize is the secretbox key length in bytes.
const KeySize = 32

const nonceSize = 24

// SealToken encrypts the API bearer token before it enters the session
// store, so the persisted session file never holds it in the clear.
func SealToken(token, key string) (string, error) {
	boxKey, err := secretKey(key)
	if err != nil {
		return "", err
	}

	var nonce [nonceSize]byte
	if _, err := rand.Read(nonce[:]); err != nil {
		return "", fmt.Errorf("failed to generate nonce: %w", err)
	}

	sealed := secretbox.Seal(nonce[:], []byte(token), &nonce, boxKey)
	return base64.StdEncoding.EncodeToString(sealed), nil
}

// OpenToken decrypts a token sealed by SealToken.
func OpenToken(sealed, key string) (string, error) {
	boxKey, err := secretKey(key)
	if err != nil {
		return "", err
	}

	raw, err := base64.StdEncoding.DecodeString(sealed)
	if err != nil {
		return "", fmt.Errorf("invalid sealed token encoding: %w", err)
	}
	if len(raw) < nonceSize {
		return "", fmt.Errorf("sealed token too short")
	}

	var nonce [nonceSize]byte
	copy(nonce[:], raw[:nonceSize])

	token, ok := secretbox.Open(nil, raw[nonceSize:], &nonce, boxKey)
	if !ok {
		return "", fmt.Errorf("failed to open sealed token")
	}
	return string(token), nil
}

func secretKey(key string) (*[KeySize]byte, error) {
	if len(key) != KeySize {
		return nil, fmt.Errorf("encryption key must be %d bytes, got %d", KeySize, len(key))
	}
	var boxKey [KeySize]byte
	copy(boxKey[:], key)
	return &boxKey, nil
}
