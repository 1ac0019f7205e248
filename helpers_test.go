package foldercrypt

import (
	"crypto/rand"
	"os"
	"path/filepath"
	"testing"
)

// testConfig returns a configuration with cheap key derivation
func testConfig() *Config {
	cfg := DefaultConfig()
	cfg.Argon2 = Argon2idParams{
		Memory:      1024,
		Iterations:  1, // Low for testing speed
		Parallelism: 1,
	}
	cfg.Parallel.MaxWorkers = 4
	return cfg
}

func testKey(t testing.TB) *Key {
	t.Helper()

	b := make([]byte, KeySize)
	if _, err := rand.Read(b); err != nil {
		t.Fatalf("failed to generate key: %v", err)
	}
	key, err := NewKey(b)
	if err != nil {
		t.Fatalf("NewKey failed: %v", err)
	}
	t.Cleanup(key.Destroy)
	return key
}

func testFileCipher(t testing.TB, suite CipherSuite) *FileCipher {
	t.Helper()

	fc, err := NewFileCipher(suite, testKey(t))
	if err != nil {
		t.Fatalf("NewFileCipher failed: %v", err)
	}
	return fc
}

// writeTree creates files (slash-separated names relative to dir)
func writeTree(t testing.TB, dir string, files map[string][]byte) {
	t.Helper()

	for name, content := range files {
		p := filepath.Join(dir, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(p), 0755); err != nil {
			t.Fatalf("failed to create directory for %s: %v", name, err)
		}
		if err := os.WriteFile(p, content, 0644); err != nil {
			t.Fatalf("failed to write %s: %v", name, err)
		}
	}
}

func readTestFile(t testing.TB, dir, name string) []byte {
	t.Helper()

	data, err := os.ReadFile(filepath.Join(dir, filepath.FromSlash(name)))
	if err != nil {
		t.Fatalf("failed to read %s: %v", name, err)
	}
	return data
}

func sentinelExists(t testing.TB, dir string) bool {
	t.Helper()

	_, err := os.Stat(filepath.Join(dir, SentinelName))
	if err != nil && !os.IsNotExist(err) {
		t.Fatalf("failed to stat sentinel: %v", err)
	}
	return err == nil
}

func pw(s string) []byte {
	return []byte(s)
}
