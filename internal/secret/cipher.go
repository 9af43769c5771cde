// Package secret encrypts API keys before they are stored.
//
// Keys at rest are the most sensitive data the app holds: a leaked database
// file must not leak usable OpenAI keys. We use ChaCha20-Poly1305, an AEAD —
// decryption fails loudly if the ciphertext was tampered with, instead of
// silently returning garbage.
//
// CIPHERTEXT LAYOUT:
// base64url( nonce || sealed ), with a fresh random nonce per encryption.
// The nonce is not secret — it only has to be unique — so prepending it to
// the ciphertext is the standard construction.
package secret

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"

	"golang.org/x/crypto/chacha20poly1305"
)

// Cipher encrypts and decrypts short strings with a fixed symmetric key.
type Cipher struct {
	key []byte
}

// NewCipher creates a Cipher from a base64url-encoded 32-byte key,
// as produced by GenerateKey.
func NewCipher(encodedKey string) (*Cipher, error) {
	key, err := base64.URLEncoding.DecodeString(encodedKey)
	if err != nil {
		return nil, fmt.Errorf("secret: decoding key: %w", err)
	}
	if len(key) != chacha20poly1305.KeySize {
		return nil, fmt.Errorf("secret: key must be %d bytes, got %d", chacha20poly1305.KeySize, len(key))
	}
	return &Cipher{key: key}, nil
}

// GenerateKey returns a fresh random key, base64url-encoded for storage in
// an environment variable. Set ENCRYPTION_KEY to this value.
func GenerateKey() (string, error) {
	key := make([]byte, chacha20poly1305.KeySize)
	if _, err := rand.Read(key); err != nil {
		return "", fmt.Errorf("secret: generating key: %w", err)
	}
	return base64.URLEncoding.EncodeToString(key), nil
}

// Encrypt seals plaintext and returns a base64url string safe to store in
// a text column.
func (c *Cipher) Encrypt(plaintext string) (string, error) {
	aead, err := chacha20poly1305.New(c.key)
	if err != nil {
		return "", fmt.Errorf("secret: creating cipher: %w", err)
	}

	nonce := make([]byte, aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return "", fmt.Errorf("secret: generating nonce: %w", err)
	}

	sealed := aead.Seal(nonce, nonce, []byte(plaintext), nil)
	return base64.URLEncoding.EncodeToString(sealed), nil
}

// Decrypt reverses Encrypt. It fails if the ciphertext was produced with a
// different key or modified in any way.
func (c *Cipher) Decrypt(encoded string) (string, error) {
	raw, err := base64.URLEncoding.DecodeString(encoded)
	if err != nil {
		return "", fmt.Errorf("secret: decoding ciphertext: %w", err)
	}

	aead, err := chacha20poly1305.New(c.key)
	if err != nil {
		return "", fmt.Errorf("secret: creating cipher: %w", err)
	}

	if len(raw) < aead.NonceSize() {
		return "", errors.New("secret: ciphertext too short")
	}
	nonce, sealed := raw[:aead.NonceSize()], raw[aead.NonceSize():]

	plaintext, err := aead.Open(nil, nonce, sealed, nil)
	if err != nil {
		return "", fmt.Errorf("secret: decrypting: %w", err)
	}
	return string(plaintext), nil
}
