package backup

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/pbkdf2"
)

// Encrypted backup layout: magic || salt(16) || nonce(12) || AES-256-GCM ciphertext.
// The key is derived from the passphrase with PBKDF2-SHA256.
var encMagic = []byte("MPAYENC1")

const (
	saltSize   = 16
	pbkdf2Iter = 100_000
	keySize    = 32
)

// ErrBadPassphrase is returned when decryption fails, which with GCM means
// either a wrong passphrase or a corrupted file.
var ErrBadPassphrase = errors.New("wrong passphrase or corrupted backup")

// IsEncrypted reports whether data carries the encrypted-backup header.
func IsEncrypted(data []byte) bool {
	return bytes.HasPrefix(data, encMagic)
}

// Encrypt wraps an encoded backup document with passphrase encryption.
func Encrypt(plaintext []byte, passphrase string) ([]byte, error) {
	salt := make([]byte, saltSize)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return nil, fmt.Errorf("failed to generate salt: %w", err)
	}

	aesgcm, err := newGCM(passphrase, salt)
	if err != nil {
		return nil, err
	}

	nonce := make([]byte, aesgcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, fmt.Errorf("failed to generate nonce: %w", err)
	}

	out := make([]byte, 0, len(encMagic)+len(salt)+len(nonce)+len(plaintext)+aesgcm.Overhead())
	out = append(out, encMagic...)
	out = append(out, salt...)
	out = append(out, nonce...)
	out = aesgcm.Seal(out, nonce, plaintext, nil)
	return out, nil
}

// Decrypt unwraps a passphrase-encrypted backup, returning the encoded
// document. Data without the encryption header is a *DecodeError; an
// authentication failure is ErrBadPassphrase.
func Decrypt(data []byte, passphrase string) ([]byte, error) {
	if !IsEncrypted(data) {
		return nil, &DecodeError{Reason: "not an encrypted backup file"}
	}
	rest := data[len(encMagic):]
	if len(rest) < saltSize {
		return nil, &DecodeError{Reason: "truncated encrypted backup"}
	}
	salt, rest := rest[:saltSize], rest[saltSize:]

	aesgcm, err := newGCM(passphrase, salt)
	if err != nil {
		return nil, err
	}
	if len(rest) < aesgcm.NonceSize() {
		return nil, &DecodeError{Reason: "truncated encrypted backup"}
	}
	nonce, ciphertext := rest[:aesgcm.NonceSize()], rest[aesgcm.NonceSize():]

	plaintext, err := aesgcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, ErrBadPassphrase
	}
	return plaintext, nil
}

func newGCM(passphrase string, salt []byte) (cipher.AEAD, error) {
	key := pbkdf2.Key([]byte(passphrase), salt, pbkdf2Iter, keySize, sha256.New)
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}
	aesgcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM: %w", err)
	}
	return aesgcm, nil
}
