package foldercrypt

import (
	"fmt"
)

// Input validation helpers

// ValidateKey checks if a key has the correct size
func ValidateKey(key []byte) error {
	if key == nil {
		return &ValidationError{
			Field:   "key",
			Message: "key cannot be nil",
			Err:     ErrInvalidKey,
		}
	}

	if len(key) != KeySize {
		return &ValidationError{
			Field:   "key",
			Value:   len(key),
			Message: fmt.Sprintf("invalid key size: got %d bytes, expected %d bytes", len(key), KeySize),
			Err:     ErrInvalidKey,
		}
	}

	return nil
}

// ValidateSalt checks if a salt has the correct size
func ValidateSalt(salt []byte) error {
	if len(salt) != SaltSize {
		return &ValidationError{
			Field:   "salt",
			Value:   len(salt),
			Message: fmt.Sprintf("invalid salt size: got %d bytes, expected %d bytes", len(salt), SaltSize),
			Err:     ErrInvalidSalt,
		}
	}
	return nil
}

// ValidateFilePath checks if a file path is valid (not empty)
func ValidateFilePath(path string) error {
	if path == "" {
		return &ValidationError{
			Field:   "path",
			Message: "file path cannot be empty",
		}
	}
	return nil
}

// ValidateRoot checks that root names an existing directory
func ValidateRoot(fsys FileSystem, root string) error {
	if fsys == nil {
		return &ValidationError{Field: "filesystem", Message: ErrNilFileSystem.Error(), Err: ErrNilFileSystem}
	}
	if err := ValidateFilePath(root); err != nil {
		return err
	}

	info, err := fsys.Stat(root)
	if err != nil {
		return &ValidationError{Field: "root", Value: root, Message: err.Error(), Err: err}
	}
	if !info.IsDir() {
		return &ValidationError{Field: "root", Value: root, Message: ErrNotDirectory.Error(), Err: ErrNotDirectory}
	}
	return nil
}
