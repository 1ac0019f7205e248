package foldercrypt

import (
	"errors"
	"fmt"
)

// Error types represent different categories of errors

// ValidationError represents a configuration or parameter validation error.
// It is fatal: the run stops before any file is touched.
type ValidationError struct {
	Field   string // The field or parameter that failed validation
	Value   any    // The invalid value
	Message string // Human-readable error message
	Err     error  // Underlying error, if any
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation error: %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation error: %s", e.Message)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// EncryptionError represents a failure to seal a file, such as the random
// source failing to produce a nonce
type EncryptionError struct {
	Path    string // File path, if applicable
	Message string // Human-readable error message
	Err     error  // Underlying error
}

func (e *EncryptionError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("encrypt error: %s: %s", e.Path, e.Message)
	}
	return fmt.Sprintf("encrypt error: %s", e.Message)
}

func (e *EncryptionError) Unwrap() error {
	return e.Err
}

// IOError represents a file system I/O error on a single file or directory
type IOError struct {
	Operation string // "read", "write", "readdir", "rename", etc.
	Path      string // File path
	Message   string // Human-readable error message
	Err       error  // Underlying error
}

func (e *IOError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("io error: %s %s: %s", e.Operation, e.Path, e.Message)
	}
	return fmt.Sprintf("io error: %s: %s", e.Operation, e.Message)
}

func (e *IOError) Unwrap() error {
	return e.Err
}

// AuthenticationError represents a blob that failed to authenticate. The
// cause may be a wrong password, a wrong or corrupted salt, or a tampered or
// truncated file; these cannot be told apart.
type AuthenticationError struct {
	Path    string // File path
	Message string // Human-readable error message
	Err     error  // Underlying error
}

func (e *AuthenticationError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("authentication error: %s: %s", e.Path, e.Message)
	}
	return fmt.Sprintf("authentication error: %s", e.Message)
}

func (e *AuthenticationError) Unwrap() error {
	return e.Err
}

// SentinelError represents a failure to read, write or remove the sentinel
// file. It is fatal for the run.
type SentinelError struct {
	Operation string // "read", "write" or "remove"
	Path      string // Sentinel path
	Message   string // Human-readable error message
	Err       error  // Underlying error
}

func (e *SentinelError) Error() string {
	return fmt.Sprintf("sentinel error: %s %s: %s", e.Operation, e.Path, e.Message)
}

func (e *SentinelError) Unwrap() error {
	return e.Err
}

// Common sentinel errors
var (
	ErrInvalidKey        = errors.New("invalid encryption key")
	ErrAuthFailed        = errors.New("authentication failed - wrong password or data corrupted or tampered")
	ErrMalformedBlob     = errors.New("encrypted data too short")
	ErrUnsupportedCipher = errors.New("unsupported cipher suite")
	ErrUnsupportedKDF    = errors.New("unsupported key derivation function")
	ErrNilConfig         = errors.New("config cannot be nil")
	ErrNilFileSystem     = errors.New("filesystem cannot be nil")
	ErrEmptyPassword     = errors.New("password cannot be empty")
	ErrNotDirectory      = errors.New("root is not a directory")
	ErrInvalidSalt       = errors.New("invalid salt length")
	ErrKeyDestroyed      = errors.New("key has been destroyed")
	ErrAlreadyEncrypted  = errors.New("tree is already encrypted")
	ErrNotEncrypted      = errors.New("tree is not encrypted")
	ErrStaleTempFile     = errors.New("temporary file left by an interrupted run")
)

// Helper functions for creating structured errors

// NewValidationError creates a new validation error
func NewValidationError(field string, value any, message string) error {
	return &ValidationError{
		Field:   field,
		Value:   value,
		Message: message,
	}
}

// NewIOError creates a new I/O error
func NewIOError(operation, path string, err error) error {
	return &IOError{
		Operation: operation,
		Path:      path,
		Message:   err.Error(),
		Err:       err,
	}
}

// NewAuthenticationError creates a new authentication error
func NewAuthenticationError(path string, err error) error {
	return &AuthenticationError{
		Path:    path,
		Message: err.Error(),
		Err:     err,
	}
}

// NewSentinelError creates a new sentinel error
func NewSentinelError(operation, path string, err error) error {
	return &SentinelError{
		Operation: operation,
		Path:      path,
		Message:   err.Error(),
		Err:       err,
	}
}

// Error checking helpers

// IsValidationError checks if an error is a validation error
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// IsEncryptionError checks if an error is an encryption error
func IsEncryptionError(err error) bool {
	var ee *EncryptionError
	return errors.As(err, &ee)
}

// IsIOError checks if an error is an I/O error
func IsIOError(err error) bool {
	var ie *IOError
	return errors.As(err, &ie)
}

// IsAuthenticationError checks if an error is an authentication error
func IsAuthenticationError(err error) bool {
	var ae *AuthenticationError
	return errors.As(err, &ae)
}

// IsSentinelError checks if an error is a sentinel error
func IsSentinelError(err error) bool {
	var se *SentinelError
	return errors.As(err, &se)
}

// ErrorKind classifies a per-file failure in a Report
type ErrorKind uint8

const (
	// KindRead is a failure reading a file or listing a directory
	KindRead ErrorKind = iota + 1
	// KindWrite is a failure writing the transformed file
	KindWrite
	// KindAuth is an authentication failure while decrypting
	KindAuth
	// KindEncrypt is a failure sealing a file
	KindEncrypt
	// KindPanic is a recovered panic in a worker
	KindPanic
	// KindSkipped is a file left untransformed because its name is reserved
	// for temporary files
	KindSkipped
)

func (k ErrorKind) String() string {
	switch k {
	case KindRead:
		return "read error"
	case KindWrite:
		return "write error"
	case KindAuth:
		return "authentication failure"
	case KindEncrypt:
		return "encryption error"
	case KindPanic:
		return "internal error"
	case KindSkipped:
		return "skipped temporary file"
	default:
		return "unknown error"
	}
}

// ClassifyError maps an error to the ErrorKind recorded in a Report
func ClassifyError(err error) ErrorKind {
	var ie *IOError
	switch {
	case IsAuthenticationError(err):
		return KindAuth
	case IsEncryptionError(err):
		return KindEncrypt
	case errors.As(err, &ie):
		if ie.Operation == "read" || ie.Operation == "readdir" || ie.Operation == "stat" {
			return KindRead
		}
		return KindWrite
	default:
		return KindPanic
	}
}
