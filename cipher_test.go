package foldercrypt

import (
	"bytes"
	"crypto/rand"
	"errors"
	"testing"
)

func TestSealOpenRoundTrip(t *testing.T) {
	large := make([]byte, 256*1024)
	rand.Read(large)

	contents := []struct {
		name string
		data []byte
	}{
		{"empty", []byte{}},
		{"nil", nil},
		{"one byte", []byte{0x42}},
		{"hello", []byte("hello")},
		{"large", large},
	}

	for _, suite := range []CipherSuite{CipherAES256GCM, CipherChaCha20Poly1305} {
		fc := testFileCipher(t, suite)
		for _, tc := range contents {
			t.Run(suite.String()+"/"+tc.name, func(t *testing.T) {
				sealed, err := fc.Seal(tc.data)
				if err != nil {
					t.Fatalf("Seal failed: %v", err)
				}
				if got, want := int64(len(sealed)), SealedSize(int64(len(tc.data))); got != want {
					t.Errorf("sealed size = %d, want %d", got, want)
				}

				opened, err := fc.Open(sealed)
				if err != nil {
					t.Fatalf("Open failed: %v", err)
				}
				if !bytes.Equal(opened, tc.data) {
					t.Errorf("round trip mismatch: got %d bytes, want %d", len(opened), len(tc.data))
				}
			})
		}
	}
}

func TestSealedSizes(t *testing.T) {
	fc := testFileCipher(t, CipherAES256GCM)

	tests := []struct {
		plaintext string
		want      int
	}{
		{"hello", 33},
		{"", 28},
	}

	for _, tt := range tests {
		sealed, err := fc.Seal([]byte(tt.plaintext))
		if err != nil {
			t.Fatalf("Seal failed: %v", err)
		}
		if len(sealed) != tt.want {
			t.Errorf("Seal(%q) produced %d bytes, want %d", tt.plaintext, len(sealed), tt.want)
		}
		if n := OpenedSize(int64(len(sealed))); n != int64(len(tt.plaintext)) {
			t.Errorf("OpenedSize(%d) = %d, want %d", len(sealed), n, len(tt.plaintext))
		}
	}

	if n := OpenedSize(MinSealedSize - 1); n != -1 {
		t.Errorf("OpenedSize of short blob = %d, want -1", n)
	}
}

func TestSealUsesFreshNonce(t *testing.T) {
	fc := testFileCipher(t, CipherAES256GCM)
	plaintext := []byte("the same content twice")

	a, err := fc.Seal(plaintext)
	if err != nil {
		t.Fatalf("Seal failed: %v", err)
	}
	b, err := fc.Seal(plaintext)
	if err != nil {
		t.Fatalf("Seal failed: %v", err)
	}

	if bytes.Equal(a[:NonceSize], b[:NonceSize]) {
		t.Error("two seals of the same content used the same nonce")
	}
	if bytes.Equal(a[NonceSize:], b[NonceSize:]) {
		t.Error("two seals of the same content produced the same ciphertext")
	}
}

func TestOpenDetectsEveryBitFlip(t *testing.T) {
	fc := testFileCipher(t, CipherAES256GCM)
	sealed, err := fc.Seal([]byte("hello, tamper"))
	if err != nil {
		t.Fatalf("Seal failed: %v", err)
	}

	for i := range sealed {
		for bit := 0; bit < 8; bit++ {
			tampered := bytes.Clone(sealed)
			tampered[i] ^= 1 << bit

			plaintext, err := fc.Open(tampered)
			if err == nil {
				t.Fatalf("Open accepted a flip of bit %d in byte %d", bit, i)
			}
			if plaintext != nil {
				t.Fatalf("Open returned plaintext for a flip of bit %d in byte %d", bit, i)
			}
			if !IsAuthenticationError(err) || !errors.Is(err, ErrAuthFailed) {
				t.Fatalf("byte %d bit %d: expected authentication failure, got %v", i, bit, err)
			}
		}
	}
}

func TestOpenTruncated(t *testing.T) {
	fc := testFileCipher(t, CipherAES256GCM)

	for n := 0; n < MinSealedSize; n++ {
		plaintext, err := fc.Open(make([]byte, n))
		if err == nil {
			t.Fatalf("Open accepted a %d-byte blob", n)
		}
		if plaintext != nil {
			t.Errorf("Open returned plaintext for a %d-byte blob", n)
		}
		if !IsAuthenticationError(err) || !errors.Is(err, ErrMalformedBlob) {
			t.Errorf("%d bytes: expected malformed blob, got %v", n, err)
		}
	}

	// Long enough, but not a sealed blob
	if _, err := fc.Open(make([]byte, MinSealedSize)); !errors.Is(err, ErrAuthFailed) {
		t.Errorf("expected ErrAuthFailed for a zero blob, got %v", err)
	}
}

func TestOpenWrongKey(t *testing.T) {
	a := testFileCipher(t, CipherAES256GCM)
	b := testFileCipher(t, CipherAES256GCM)

	sealed, err := a.Seal([]byte("secret"))
	if err != nil {
		t.Fatalf("Seal failed: %v", err)
	}
	if _, err := b.Open(sealed); !IsAuthenticationError(err) {
		t.Errorf("expected authentication error with wrong key, got %v", err)
	}
}

func TestOpenWrongSuite(t *testing.T) {
	key := testKey(t)
	aes, err := NewFileCipher(CipherAES256GCM, key)
	if err != nil {
		t.Fatalf("NewFileCipher failed: %v", err)
	}
	chacha, err := NewFileCipher(CipherChaCha20Poly1305, key)
	if err != nil {
		t.Fatalf("NewFileCipher failed: %v", err)
	}

	sealed, err := aes.Seal([]byte("secret"))
	if err != nil {
		t.Fatalf("Seal failed: %v", err)
	}
	if _, err := chacha.Open(sealed); !IsAuthenticationError(err) {
		t.Errorf("expected authentication error across suites, got %v", err)
	}
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) {
	return 0, errors.New("entropy exhausted")
}

func TestSealRandomFailure(t *testing.T) {
	fc := testFileCipher(t, CipherAES256GCM)
	fc.rand = failingReader{}

	if _, err := fc.Seal([]byte("data")); !IsEncryptionError(err) {
		t.Errorf("expected encryption error, got %v", err)
	}
}

func TestNewCipherEngine(t *testing.T) {
	tests := []struct {
		name    string
		suite   CipherSuite
		keyLen  int
		wantErr bool
	}{
		{"aes", CipherAES256GCM, 32, false},
		{"chacha", CipherChaCha20Poly1305, 32, false},
		{"aes short key", CipherAES256GCM, 16, true},
		{"chacha short key", CipherChaCha20Poly1305, 31, true},
		{"unknown suite", CipherSuite(99), 32, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine, err := NewCipherEngine(tt.suite, make([]byte, tt.keyLen))
			if (err != nil) != tt.wantErr {
				t.Fatalf("NewCipherEngine() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				return
			}
			if engine.NonceSize() != NonceSize {
				t.Errorf("NonceSize() = %d, want %d", engine.NonceSize(), NonceSize)
			}
			if engine.Overhead() != TagSize {
				t.Errorf("Overhead() = %d, want %d", engine.Overhead(), TagSize)
			}
		})
	}
}

func TestNewFileCipherDestroyedKey(t *testing.T) {
	key := testKey(t)
	key.Destroy()

	if _, err := NewFileCipher(CipherAES256GCM, key); !errors.Is(err, ErrKeyDestroyed) {
		t.Errorf("expected ErrKeyDestroyed, got %v", err)
	}
}
