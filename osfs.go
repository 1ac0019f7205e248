package foldercrypt

import (
	"os"
	"path/filepath"

	"github.com/absfs/absfs"
)

// FileSystem is the subset of absfs.FileSystem used to walk and rewrite a
// tree. Names are slash-separated. Readdir on a directory must report
// symbolic links as such rather than following them.
//
// Workers call into the FileSystem and the files it returns concurrently, so
// an implementation must be safe for concurrent use. OSFS is; wrap one that
// is not, such as github.com/absfs/memfs, with NewLockedFS.
type FileSystem interface {
	Open(name string) (absfs.File, error)
	OpenFile(name string, flag int, perm os.FileMode) (absfs.File, error)
	Stat(name string) (os.FileInfo, error)
	Rename(oldpath, newpath string) error
	Remove(name string) error
	Chmod(name string, mode os.FileMode) error
}

var _ FileSystem = (*OSFS)(nil)

// OSFS is a FileSystem over a directory of the host filesystem. The
// directory itself is the name "/".
type OSFS struct {
	root string
}

// NewOSFS returns an OSFS rooted at dir
func NewOSFS(dir string) *OSFS {
	return &OSFS{root: dir}
}

// Root returns the host directory backing the filesystem
func (fs *OSFS) Root() string {
	return fs.root
}

func (fs *OSFS) path(name string) string {
	return filepath.Join(fs.root, filepath.FromSlash(name))
}

func (fs *OSFS) Open(name string) (absfs.File, error) {
	return os.Open(fs.path(name))
}

func (fs *OSFS) OpenFile(name string, flag int, perm os.FileMode) (absfs.File, error) {
	return os.OpenFile(fs.path(name), flag, perm)
}

func (fs *OSFS) Stat(name string) (os.FileInfo, error) {
	return os.Stat(fs.path(name))
}

func (fs *OSFS) Rename(oldpath, newpath string) error {
	return os.Rename(fs.path(oldpath), fs.path(newpath))
}

func (fs *OSFS) Remove(name string) error {
	return os.Remove(fs.path(name))
}

func (fs *OSFS) Chmod(name string, mode os.FileMode) error {
	return os.Chmod(fs.path(name), mode)
}
