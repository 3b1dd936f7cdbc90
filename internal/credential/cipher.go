// Package credential protects provider secrets at rest with a password-derived
// AES-256-GCM key.
package credential

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"io"

	"golang.org/x/crypto/pbkdf2"

	"trustcheck/internal/errs"
)

const (
	PBKDF2Iterations = 100_000
	SaltLength       = 16
	NonceLength      = 12
	KeyLength        = 32
)

// randReader is swapped in tests only.
var randReader = rand.Reader

// DeriveKey stretches password with PBKDF2-HMAC-SHA256.
func DeriveKey(password string, salt []byte) []byte {
	return pbkdf2.Key([]byte(password), salt, PBKDF2Iterations, KeyLength, sha256.New)
}

// Encrypt seals plaintext under a key derived from password. A fresh salt and
// nonce are drawn for every call; the three outputs are standard base64.
func Encrypt(plaintext []byte, password string) (saltB64, nonceB64, ciphertextB64 string, err error) {
	salt := make([]byte, SaltLength)
	nonce := make([]byte, NonceLength)
	if _, err := io.ReadFull(randReader, salt); err != nil {
		return "", "", "", errs.Encryption("failed to generate salt", err)
	}
	if _, err := io.ReadFull(randReader, nonce); err != nil {
		return "", "", "", errs.Encryption("failed to generate nonce", err)
	}

	aead, err := newAEAD(DeriveKey(password, salt))
	if err != nil {
		return "", "", "", errs.Encryption("failed to create cipher", err)
	}

	ciphertext := aead.Seal(nil, nonce, plaintext, nil)

	return base64.StdEncoding.EncodeToString(salt),
		base64.StdEncoding.EncodeToString(nonce),
		base64.StdEncoding.EncodeToString(ciphertext),
		nil
}

// Decrypt reverses Encrypt. Malformed input, a wrong password and a failed tag
// check all return the same errs.ErrDecryption.
func Decrypt(ciphertextB64, password, saltB64, nonceB64 string) ([]byte, error) {
	salt, err := base64.StdEncoding.DecodeString(saltB64)
	if err != nil {
		return nil, errs.Decryption()
	}
	nonce, err := base64.StdEncoding.DecodeString(nonceB64)
	if err != nil || len(nonce) != NonceLength {
		return nil, errs.Decryption()
	}
	ciphertext, err := base64.StdEncoding.DecodeString(ciphertextB64)
	if err != nil {
		return nil, errs.Decryption()
	}

	aead, err := newAEAD(DeriveKey(password, salt))
	if err != nil {
		return nil, errs.Decryption()
	}

	plaintext, err := aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, errs.Decryption()
	}
	if plaintext == nil {
		plaintext = []byte{}
	}

	return plaintext, nil
}

func newAEAD(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("aes: %w", err)
	}
	return cipher.NewGCM(block)
}
