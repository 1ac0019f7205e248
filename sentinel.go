package foldercrypt

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
)

// The sentinel is SentinelName at the tree root. Its content is the raw salt
// (SaltSize bytes, no header), and its presence alone means the tree is
// encrypted.

// SentinelPath returns the sentinel's name for a tree rooted at root
func SentinelPath(root string) string {
	return path.Join(root, SentinelName)
}

// DetectMode returns ModeDecrypt when root holds a sentinel and ModeEncrypt
// when it does not. File contents are not inspected.
func DetectMode(fsys FileSystem, root string) (Mode, error) {
	if err := ValidateRoot(fsys, root); err != nil {
		return 0, err
	}

	p := SentinelPath(root)
	_, err := fsys.Stat(p)
	switch {
	case err == nil:
		return ModeDecrypt, nil
	case errors.Is(err, fs.ErrNotExist):
		return ModeEncrypt, nil
	default:
		return 0, NewSentinelError("stat", p, err)
	}
}

// ReadSentinel returns the salt stored at root
func ReadSentinel(fsys FileSystem, root string) ([]byte, error) {
	p := SentinelPath(root)
	salt, err := readFile(fsys, p)
	if err != nil {
		return nil, NewSentinelError("read", p, err)
	}
	if len(salt) != SaltSize {
		return nil, &SentinelError{
			Operation: "read",
			Path:      p,
			Message:   fmt.Sprintf("salt must be %d bytes, got %d", SaltSize, len(salt)),
			Err:       ErrInvalidSalt,
		}
	}
	return salt, nil
}

// WriteSentinel records salt at root. It fails if a sentinel already exists.
func WriteSentinel(fsys FileSystem, root string, salt []byte) error {
	p := SentinelPath(root)
	if err := ValidateSalt(salt); err != nil {
		return NewSentinelError("write", p, err)
	}

	f, err := fsys.OpenFile(p, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0600)
	if err != nil {
		return NewSentinelError("write", p, err)
	}
	if err := writeAndClose(f, salt); err != nil {
		fsys.Remove(p)
		return NewSentinelError("write", p, err)
	}
	return nil
}

// RemoveSentinel deletes the sentinel at root
func RemoveSentinel(fsys FileSystem, root string) error {
	p := SentinelPath(root)
	if err := fsys.Remove(p); err != nil {
		return NewSentinelError("remove", p, err)
	}
	return nil
}
