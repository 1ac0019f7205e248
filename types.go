package foldercrypt

import (
	"fmt"
)

const (
	// SaltSize is the length of the salt stored in the sentinel file
	SaltSize = 32

	// KeySize is the length of the derived key (AES-256 / ChaCha20)
	KeySize = 32

	// NonceSize is the length of the per-file nonce prepended to every encrypted file
	NonceSize = 12

	// TagSize is the length of the authentication tag appended to every encrypted file
	TagSize = 16

	// SentinelName is the name of the salt marker at the root of an encrypted tree
	SentinelName = "salt.key"
)

// CipherSuite represents the encryption algorithm to use
type CipherSuite uint8

const (
	// CipherAES256GCM uses AES-256 with Galois/Counter Mode
	CipherAES256GCM CipherSuite = iota
	// CipherChaCha20Poly1305 uses ChaCha20 stream cipher with Poly1305 MAC
	CipherChaCha20Poly1305
)

// String returns the string representation of the cipher suite
func (c CipherSuite) String() string {
	switch c {
	case CipherAES256GCM:
		return "aes-256-gcm"
	case CipherChaCha20Poly1305:
		return "chacha20-poly1305"
	default:
		return "unknown"
	}
}

// ParseCipherSuite parses the String form of a cipher suite
func ParseCipherSuite(s string) (CipherSuite, error) {
	switch s {
	case "aes-256-gcm", "aes", "":
		return CipherAES256GCM, nil
	case "chacha20-poly1305", "chacha20":
		return CipherChaCha20Poly1305, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnsupportedCipher, s)
	}
}

// KDFAlgorithm selects the password hashing function
type KDFAlgorithm uint8

const (
	// KDFArgon2id uses memory-hard Argon2id (recommended)
	KDFArgon2id KDFAlgorithm = iota
	// KDFPBKDF2 uses PBKDF2 with an HMAC hash
	KDFPBKDF2
)

func (k KDFAlgorithm) String() string {
	switch k {
	case KDFArgon2id:
		return "argon2id"
	case KDFPBKDF2:
		return "pbkdf2"
	default:
		return "unknown"
	}
}

// ParseKDFAlgorithm parses the String form of a KDF algorithm
func ParseKDFAlgorithm(s string) (KDFAlgorithm, error) {
	switch s {
	case "argon2id", "argon2", "":
		return KDFArgon2id, nil
	case "pbkdf2":
		return KDFPBKDF2, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnsupportedKDF, s)
	}
}

// HashFunc represents hash function types for PBKDF2
type HashFunc uint8

const (
	// SHA256 hash function
	SHA256 HashFunc = iota
	// SHA512 hash function
	SHA512
)

// MinPBKDF2Iterations is the lowest iteration count accepted for PBKDF2
const MinPBKDF2Iterations = 100000

// PBKDF2Params contains parameters for PBKDF2 key derivation
type PBKDF2Params struct {
	Iterations int      // Number of iterations (minimum 100,000)
	HashFunc   HashFunc // Hash function to use
}

// Argon2idParams contains parameters for Argon2id key derivation
type Argon2idParams struct {
	Memory      uint32 // Memory in KiB (e.g., 64*1024 for 64MB)
	Iterations  uint32 // Number of iterations (time parameter)
	Parallelism uint8  // Degree of parallelism
}

// DefaultArgon2idParams returns the Argon2id parameters used when none are given
func DefaultArgon2idParams() Argon2idParams {
	return Argon2idParams{
		Memory:      64 * 1024,
		Iterations:  3,
		Parallelism: 4,
	}
}

// OWASPArgon2idParams returns the OWASP minimum Argon2id parameters
// (19 MiB, 2 passes, 1 lane). Trees encrypted by tools that use these as
// their default must be decrypted with them.
func OWASPArgon2idParams() Argon2idParams {
	return Argon2idParams{
		Memory:      19 * 1024,
		Iterations:  2,
		Parallelism: 1,
	}
}

// DefaultPBKDF2Params returns the PBKDF2 parameters used when none are given
func DefaultPBKDF2Params() PBKDF2Params {
	return PBKDF2Params{
		Iterations: 600000,
		HashFunc:   SHA256,
	}
}

// Mode is the operation selected for a tree
type Mode uint8

const (
	// ModeEncrypt is selected when the tree has no sentinel
	ModeEncrypt Mode = iota + 1
	// ModeDecrypt is selected when the sentinel is present
	ModeDecrypt
)

func (m Mode) String() string {
	switch m {
	case ModeEncrypt:
		return "encrypt"
	case ModeDecrypt:
		return "decrypt"
	default:
		return "unknown"
	}
}

// Config contains configuration for folder encryption.
//
// The sentinel file carries only the salt, so a tree must be decrypted with
// the same Cipher and KDF settings it was encrypted with.
type Config struct {
	// Cipher suite used for file contents
	Cipher CipherSuite

	// KDF selects the password hashing function
	KDF KDFAlgorithm

	// Argon2 parameters, used when KDF is KDFArgon2id
	Argon2 Argon2idParams

	// PBKDF2 parameters, used when KDF is KDFPBKDF2
	PBKDF2 PBKDF2Params

	// Parallel controls the worker pool
	Parallel ParallelConfig

	// InPlace truncates and rewrites each file instead of writing a
	// temporary sibling and renaming it over the original
	InPlace bool

	// RemoveSentinelOnFailure removes the sentinel after a decrypt walk even
	// when some files failed. Off by default so that a wrong password never
	// discards the salt.
	RemoveSentinelOnFailure bool
}

// DefaultConfig returns a configuration with AES-256-GCM and Argon2id
func DefaultConfig() *Config {
	return &Config{
		Cipher:   CipherAES256GCM,
		KDF:      KDFArgon2id,
		Argon2:   DefaultArgon2idParams(),
		PBKDF2:   DefaultPBKDF2Params(),
		Parallel: DefaultParallelConfig(),
	}
}

// withDefaults returns a copy of c with zero-valued parameters filled in
func (c *Config) withDefaults() *Config {
	out := *c
	def := DefaultArgon2idParams()
	if out.Argon2.Memory == 0 {
		out.Argon2.Memory = def.Memory
	}
	if out.Argon2.Iterations == 0 {
		out.Argon2.Iterations = def.Iterations
	}
	if out.Argon2.Parallelism == 0 {
		out.Argon2.Parallelism = def.Parallelism
	}
	if out.PBKDF2.Iterations == 0 {
		out.PBKDF2.Iterations = DefaultPBKDF2Params().Iterations
	}
	return &out
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c == nil {
		return ErrNilConfig
	}
	if c.Cipher != CipherAES256GCM && c.Cipher != CipherChaCha20Poly1305 {
		return &ValidationError{Field: "cipher", Value: c.Cipher, Message: "unsupported cipher suite", Err: ErrUnsupportedCipher}
	}
	switch c.KDF {
	case KDFArgon2id:
		if c.Argon2.Iterations < 1 {
			return NewValidationError("argon2.iterations", c.Argon2.Iterations, "must be at least 1")
		}
		if c.Argon2.Parallelism < 1 {
			return NewValidationError("argon2.parallelism", c.Argon2.Parallelism, "must be at least 1")
		}
		if c.Argon2.Memory < 8*uint32(c.Argon2.Parallelism) {
			return NewValidationError("argon2.memory", c.Argon2.Memory, "must be at least 8 KiB per lane")
		}
	case KDFPBKDF2:
		if c.PBKDF2.Iterations < MinPBKDF2Iterations {
			return NewValidationError("pbkdf2.iterations", c.PBKDF2.Iterations,
				fmt.Sprintf("must be at least %d", MinPBKDF2Iterations))
		}
		if c.PBKDF2.HashFunc != SHA256 && c.PBKDF2.HashFunc != SHA512 {
			return NewValidationError("pbkdf2.hash", c.PBKDF2.HashFunc, "unsupported hash function")
		}
	default:
		return &ValidationError{Field: "kdf", Value: c.KDF, Message: "unsupported key derivation function", Err: ErrUnsupportedKDF}
	}
	if err := c.Parallel.Validate(); err != nil {
		return &ValidationError{Field: "parallel", Value: c.Parallel, Message: err.Error(), Err: err}
	}
	return nil
}
