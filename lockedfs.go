package foldercrypt

import (
	"os"
	"sync"

	"github.com/absfs/absfs"
)

var _ FileSystem = (*LockedFS)(nil)

// LockedFS serializes every call into a FileSystem that is not safe for
// concurrent use, such as github.com/absfs/memfs. Files it opens take the
// same lock for each operation.
type LockedFS struct {
	mu sync.Mutex
	fs FileSystem
}

// NewLockedFS wraps fsys so that workers can share it
func NewLockedFS(fsys FileSystem) *LockedFS {
	return &LockedFS{fs: fsys}
}

func (l *LockedFS) Open(name string) (absfs.File, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	f, err := l.fs.Open(name)
	if err != nil {
		return nil, err
	}
	return &lockedFile{File: f, mu: &l.mu}, nil
}

func (l *LockedFS) OpenFile(name string, flag int, perm os.FileMode) (absfs.File, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	f, err := l.fs.OpenFile(name, flag, perm)
	if err != nil {
		return nil, err
	}
	return &lockedFile{File: f, mu: &l.mu}, nil
}

func (l *LockedFS) Stat(name string) (os.FileInfo, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.fs.Stat(name)
}

func (l *LockedFS) Rename(oldpath, newpath string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.fs.Rename(oldpath, newpath)
}

func (l *LockedFS) Remove(name string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.fs.Remove(name)
}

func (l *LockedFS) Chmod(name string, mode os.FileMode) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.fs.Chmod(name, mode)
}

// lockedFile guards the operations the walker and the workers use. Other
// methods pass straight through.
type lockedFile struct {
	absfs.File
	mu *sync.Mutex
}

func (f *lockedFile) Read(p []byte) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.File.Read(p)
}

func (f *lockedFile) ReadAt(p []byte, off int64) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.File.ReadAt(p, off)
}

func (f *lockedFile) Write(p []byte) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.File.Write(p)
}

func (f *lockedFile) WriteAt(p []byte, off int64) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.File.WriteAt(p, off)
}

func (f *lockedFile) WriteString(s string) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.File.WriteString(s)
}

func (f *lockedFile) Seek(offset int64, whence int) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.File.Seek(offset, whence)
}

func (f *lockedFile) Stat() (os.FileInfo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.File.Stat()
}

func (f *lockedFile) Readdir(n int) ([]os.FileInfo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.File.Readdir(n)
}

func (f *lockedFile) Readdirnames(n int) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.File.Readdirnames(n)
}

func (f *lockedFile) Truncate(size int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.File.Truncate(size)
}

func (f *lockedFile) Sync() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.File.Sync()
}

func (f *lockedFile) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.File.Close()
}
