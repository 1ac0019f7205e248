package foldercrypt

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/sha512"
	"fmt"
	"hash"

	"github.com/awnumar/memguard"
	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/pbkdf2"
)

// KeyProvider is an interface for providing encryption keys
type KeyProvider interface {
	// DeriveKey derives an encryption key from the given salt
	DeriveKey(salt []byte) (*Key, error)

	// GenerateSalt generates a new random salt
	GenerateSalt() ([]byte, error)

	// Destroy releases any secret held by the provider
	Destroy()
}

// GenerateSalt returns SaltSize bytes from the system CSPRNG
func GenerateSalt() ([]byte, error) {
	salt := make([]byte, SaltSize)
	if _, err := rand.Read(salt); err != nil {
		return nil, fmt.Errorf("failed to generate salt: %w", err)
	}
	return salt, nil
}

// PasswordKeyProvider implements KeyProvider using password-based key derivation
type PasswordKeyProvider struct {
	password     *memguard.LockedBuffer
	destroyed    bool
	useArgon2id  bool
	pbkdf2Params PBKDF2Params
	argon2Params Argon2idParams
}

// NewPasswordKeyProvider creates a new password-based key provider using
// Argon2id (recommended). The password slice is moved into guarded memory and
// wiped.
func NewPasswordKeyProvider(password []byte, params Argon2idParams) *PasswordKeyProvider {
	def := DefaultArgon2idParams()
	if params.Memory == 0 {
		params.Memory = def.Memory
	}
	if params.Iterations == 0 {
		params.Iterations = def.Iterations
	}
	if params.Parallelism == 0 {
		params.Parallelism = def.Parallelism
	}

	return &PasswordKeyProvider{
		password:     memguard.NewBufferFromBytes(password),
		useArgon2id:  true,
		argon2Params: params,
	}
}

// NewPasswordKeyProviderPBKDF2 creates a new password-based key provider using
// PBKDF2. The password slice is moved into guarded memory and wiped.
func NewPasswordKeyProviderPBKDF2(password []byte, params PBKDF2Params) *PasswordKeyProvider {
	if params.Iterations == 0 {
		params.Iterations = DefaultPBKDF2Params().Iterations
	}

	return &PasswordKeyProvider{
		password:     memguard.NewBufferFromBytes(password),
		useArgon2id:  false,
		pbkdf2Params: params,
	}
}

// NewKeyProvider returns the provider selected by c.KDF
func (c *Config) NewKeyProvider(password []byte) (*PasswordKeyProvider, error) {
	switch c.KDF {
	case KDFArgon2id:
		return NewPasswordKeyProvider(password, c.Argon2), nil
	case KDFPBKDF2:
		return NewPasswordKeyProviderPBKDF2(password, c.PBKDF2), nil
	default:
		memguard.WipeBytes(password)
		return nil, ErrUnsupportedKDF
	}
}

// DeriveKey derives an encryption key from the password and salt
func (p *PasswordKeyProvider) DeriveKey(salt []byte) (*Key, error) {
	if p.destroyed {
		return nil, &ValidationError{Field: "password", Message: "provider has been destroyed", Err: ErrKeyDestroyed}
	}
	if p.password == nil || p.password.Size() == 0 {
		return nil, &ValidationError{Field: "password", Message: ErrEmptyPassword.Error(), Err: ErrEmptyPassword}
	}
	if err := ValidateSalt(salt); err != nil {
		return nil, err
	}

	if p.useArgon2id {
		key := argon2.IDKey(
			p.password.Bytes(),
			salt,
			p.argon2Params.Iterations,
			p.argon2Params.Memory,
			p.argon2Params.Parallelism,
			KeySize,
		)
		return NewKey(key)
	}

	if p.pbkdf2Params.Iterations < MinPBKDF2Iterations {
		return nil, NewValidationError("pbkdf2.iterations", p.pbkdf2Params.Iterations,
			fmt.Sprintf("must be at least %d", MinPBKDF2Iterations))
	}

	var hashFunc func() hash.Hash
	switch p.pbkdf2Params.HashFunc {
	case SHA256:
		hashFunc = sha256.New
	case SHA512:
		hashFunc = sha512.New
	default:
		return nil, NewValidationError("pbkdf2.hash", p.pbkdf2Params.HashFunc, "unsupported hash function")
	}

	key := pbkdf2.Key(
		p.password.Bytes(),
		salt,
		p.pbkdf2Params.Iterations,
		KeySize,
		hashFunc,
	)
	return NewKey(key)
}

// GenerateSalt generates a new random salt
func (p *PasswordKeyProvider) GenerateSalt() ([]byte, error) {
	return GenerateSalt()
}

// Destroy wipes the password
func (p *PasswordKeyProvider) Destroy() {
	p.destroyed = true
	if p.password != nil {
		p.password.Destroy()
	}
}
