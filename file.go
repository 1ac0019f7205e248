package foldercrypt

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"strings"

	"github.com/absfs/absfs"
	"github.com/google/uuid"
)

// tempSuffix marks the sibling file a transform is written to before it is
// renamed over the original
const tempSuffix = ".foldercrypt-tmp"

// transformFunc maps a file's entire content to its replacement
type transformFunc func(data []byte) ([]byte, error)

// isTempName reports whether name is a temporary file left by a transform
func isTempName(name string) bool {
	return strings.HasPrefix(name, ".") && strings.HasSuffix(name, tempSuffix)
}

// tempName returns a unique temporary sibling for name
func tempName(name string) string {
	dir, base := path.Split(name)
	return path.Join(dir, "."+base+"."+uuid.NewString()+tempSuffix)
}

// transformFile reads name entirely, applies fn, and writes the result back.
// The original content is left untouched if reading or fn fails, and, unless
// inPlace is set, if writing fails.
func transformFile(fsys FileSystem, name string, perm os.FileMode, inPlace bool, fn transformFunc) error {
	data, err := readFile(fsys, name)
	if err != nil {
		return NewIOError("read", name, err)
	}

	out, err := fn(data)
	if err != nil {
		return withPath(err, name)
	}

	if inPlace {
		if err := writeInPlace(fsys, name, out); err != nil {
			return NewIOError("write", name, err)
		}
		return nil
	}

	if err := writeReplace(fsys, name, perm, out); err != nil {
		return NewIOError("write", name, err)
	}
	return nil
}

// withPath records name on the per-file error types that carry a path
func withPath(err error, name string) error {
	var ae *AuthenticationError
	if errors.As(err, &ae) && ae.Path == "" {
		ae.Path = name
		return err
	}
	var ee *EncryptionError
	if errors.As(err, &ee) && ee.Path == "" {
		ee.Path = name
		return err
	}
	return err
}

func readFile(fsys FileSystem, name string) ([]byte, error) {
	f, err := fsys.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return io.ReadAll(f)
}

// writeReplace writes data to a temporary sibling and renames it over name,
// so readers see either the old or the new content
func writeReplace(fsys FileSystem, name string, perm os.FileMode, data []byte) error {
	tmp := tempName(name)

	f, err := fsys.OpenFile(tmp, os.O_WRONLY|os.O_CREATE|os.O_EXCL, perm)
	if err != nil {
		return fmt.Errorf("failed to create temporary file: %w", err)
	}

	if err := writeAndClose(f, data); err != nil {
		fsys.Remove(tmp)
		return err
	}

	// OpenFile applies the umask
	if err := fsys.Chmod(tmp, perm); err != nil {
		fsys.Remove(tmp)
		return fmt.Errorf("failed to set permissions: %w", err)
	}

	if err := fsys.Rename(tmp, name); err != nil {
		fsys.Remove(tmp)
		return fmt.Errorf("failed to replace file: %w", err)
	}
	return nil
}

// writeInPlace truncates name and writes data over it
func writeInPlace(fsys FileSystem, name string, data []byte) error {
	f, err := fsys.OpenFile(name, os.O_WRONLY|os.O_TRUNC, 0)
	if err != nil {
		return err
	}
	return writeAndClose(f, data)
}

func writeAndClose(f absfs.File, data []byte) error {
	if _, err := f.Write(data); err != nil {
		f.Close()
		return fmt.Errorf("failed to write: %w", err)
	}
	if err := f.Sync(); err != nil {
		f.Close()
		return fmt.Errorf("failed to sync: %w", err)
	}
	return f.Close()
}
