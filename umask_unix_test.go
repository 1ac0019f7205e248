//go:build unix

package foldercrypt

import (
	"syscall"
	"testing"
)

// setUmask sets the process umask for the duration of the test
func setUmask(t *testing.T, mask int) {
	t.Helper()

	old := syscall.Umask(mask)
	t.Cleanup(func() { syscall.Umask(old) })
}
