package foldercrypt

import (
	"crypto/subtle"

	"github.com/awnumar/memguard"
)

// Key is a derived symmetric key held in locked, guarded memory.
//
// A Key is read-only once created and may be shared by any number of
// goroutines. Destroy wipes it; it must not be used afterwards.
type Key struct {
	buf *memguard.LockedBuffer
}

// NewKey moves b into guarded memory. b is wiped, whatever the outcome.
func NewKey(b []byte) (*Key, error) {
	if err := ValidateKey(b); err != nil {
		memguard.WipeBytes(b)
		return nil, err
	}
	buf := memguard.NewBufferFromBytes(b)
	buf.Freeze()
	return &Key{buf: buf}, nil
}

// Bytes returns the key material. The slice aliases guarded memory and
// becomes invalid after Destroy.
func (k *Key) Bytes() []byte {
	if k == nil || k.buf == nil || !k.buf.IsAlive() {
		return nil
	}
	return k.buf.Bytes()
}

// Equal reports whether two keys hold the same bytes, in constant time
func (k *Key) Equal(other *Key) bool {
	a, b := k.Bytes(), other.Bytes()
	if a == nil || b == nil {
		return false
	}
	return subtle.ConstantTimeCompare(a, b) == 1
}

// Destroy wipes and releases the key
func (k *Key) Destroy() {
	if k == nil || k.buf == nil {
		return
	}
	k.buf.Destroy()
}
