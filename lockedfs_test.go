package foldercrypt

import (
	"io"
	"os"
	"sync"
	"testing"

	"github.com/absfs/memfs"
)

func TestLockedFSConcurrentCreate(t *testing.T) {
	base, err := memfs.NewFS()
	if err != nil {
		t.Fatalf("Failed to create base filesystem: %v", err)
	}
	fsys := NewLockedFS(base)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()

			name := "/" + string(rune('a'+i))
			f, err := fsys.OpenFile(name, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0600)
			if err != nil {
				t.Errorf("OpenFile(%s) failed: %v", name, err)
				return
			}
			if err := writeAndClose(f, []byte(name)); err != nil {
				t.Errorf("write %s failed: %v", name, err)
				return
			}
			if err := fsys.Rename(name, name+".renamed"); err != nil {
				t.Errorf("Rename(%s) failed: %v", name, err)
			}
		}(i)
	}
	wg.Wait()

	for i := 0; i < 16; i++ {
		name := "/" + string(rune('a'+i))
		f, err := fsys.Open(name + ".renamed")
		if err != nil {
			t.Fatalf("Open failed: %v", err)
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil || string(data) != name {
			t.Errorf("%s.renamed = %q, %v", name, data, err)
		}
	}
}

func TestLockedFSPassesErrors(t *testing.T) {
	base, err := memfs.NewFS()
	if err != nil {
		t.Fatalf("Failed to create base filesystem: %v", err)
	}
	fsys := NewLockedFS(base)

	if _, err := fsys.Open("/missing"); !os.IsNotExist(err) {
		t.Errorf("Open of missing file: got %v", err)
	}
	if _, err := fsys.Stat("/missing"); !os.IsNotExist(err) {
		t.Errorf("Stat of missing file: got %v", err)
	}
	if err := fsys.Remove("/missing"); err == nil {
		t.Error("Remove of missing file succeeded")
	}
}
