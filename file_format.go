package foldercrypt

import (
	"crypto/rand"
	"fmt"
	"io"
)

// Encrypted file layout:
//
//	nonce (12 bytes) | ciphertext (len(plaintext) bytes) | tag (16 bytes)
//
// There is no header or version; the associated data is empty.

// MinSealedSize is the size of a sealed empty file
const MinSealedSize = NonceSize + TagSize

// SealedSize returns the on-disk size of a plaintext of n bytes
func SealedSize(n int64) int64 {
	return n + MinSealedSize
}

// OpenedSize returns the plaintext size of a sealed blob of n bytes, or -1 if
// n is too short to be a sealed blob
func OpenedSize(n int64) int64 {
	if n < MinSealedSize {
		return -1
	}
	return n - MinSealedSize
}

// FileCipher seals and opens whole-file blobs under one key.
// It is safe for concurrent use.
type FileCipher struct {
	engine CipherEngine
	rand   io.Reader
}

// NewFileCipher creates a FileCipher for the given suite and key
func NewFileCipher(suite CipherSuite, key *Key) (*FileCipher, error) {
	kb := key.Bytes()
	if kb == nil {
		return nil, &ValidationError{Field: "key", Message: ErrKeyDestroyed.Error(), Err: ErrKeyDestroyed}
	}
	engine, err := NewCipherEngine(suite, kb)
	if err != nil {
		return nil, &ValidationError{Field: "cipher", Value: suite, Message: err.Error(), Err: err}
	}
	return newFileCipher(engine), nil
}

func newFileCipher(engine CipherEngine) *FileCipher {
	return &FileCipher{engine: engine, rand: rand.Reader}
}

// Seal encrypts plaintext under a fresh random nonce and returns
// nonce || ciphertext || tag. Sealing the same plaintext twice yields
// different output.
func (c *FileCipher) Seal(plaintext []byte) ([]byte, error) {
	nonce := make([]byte, c.engine.NonceSize())
	if _, err := io.ReadFull(c.rand, nonce); err != nil {
		return nil, &EncryptionError{Message: "failed to generate nonce", Err: err}
	}

	ciphertext, err := c.engine.Encrypt(nonce, plaintext)
	if err != nil {
		return nil, &EncryptionError{Message: err.Error(), Err: err}
	}

	out := make([]byte, 0, len(nonce)+len(ciphertext))
	out = append(out, nonce...)
	return append(out, ciphertext...), nil
}

// Open authenticates and decrypts a blob produced by Seal. Any failure,
// including a blob too short to hold a nonce and a tag, is reported as an
// *AuthenticationError and no plaintext is returned.
func (c *FileCipher) Open(blob []byte) ([]byte, error) {
	ns := c.engine.NonceSize()
	if len(blob) < ns+c.engine.Overhead() {
		return nil, &AuthenticationError{
			Message: fmt.Sprintf("%s: got %d bytes, need at least %d", ErrMalformedBlob, len(blob), ns+c.engine.Overhead()),
			Err:     ErrMalformedBlob,
		}
	}

	plaintext, err := c.engine.Decrypt(blob[:ns], blob[ns:])
	if err != nil {
		return nil, NewAuthenticationError("", err)
	}
	return plaintext, nil
}
