// Package foldercrypt encrypts and decrypts every regular file in a
// directory tree under a single password-derived key.
//
// # Overview
//
// A tree is either plaintext or encrypted. An encrypted tree holds a
// sentinel file, salt.key, at its root; the sentinel's content is the
// 32-byte salt the key was derived from. Run picks the operation from the
// sentinel alone:
//
//   - no sentinel: generate a salt, derive the key, write the sentinel and
//     seal every file
//   - sentinel present: read the salt, derive the key, open every file and
//     remove the sentinel
//
// # Basic Usage
//
//	report, err := foldercrypt.Run(ctx, "/path/to/folder", []byte("hunter2"), nil)
//	if err != nil {
//	    // invalid root, bad configuration or sentinel failure; nothing
//	    // or only the sentinel was changed
//	}
//	for _, f := range report.Failures {
//	    fmt.Println(f.Path, f.Kind)
//	}
//
// Any absfs-compatible filesystem can be used through NewFolder. Files are
// processed concurrently, so a filesystem that is not safe for concurrent use
// must be wrapped:
//
//	base, _ := memfs.NewFS()
//	f, err := foldercrypt.NewFolder(foldercrypt.NewLockedFS(base), "/", nil)
//
// # Key Derivation
//
// Argon2id (default) or PBKDF2 with at least 100,000 iterations. The default
// Argon2id cost is 64 MiB, 3 passes and 4 lanes. The salt file does not
// record the cost, so a tree encrypted with other parameters, such as
// OWASPArgon2idParams (19 MiB, 2 passes, 1 lane), must be decrypted with
// the same Config.Argon2.
//
// The password and the derived key are held in memguard locked buffers and
// wiped when the run ends. The caller's password slice is wiped as soon as
// it is handed over. The AES and ChaCha20 key schedules built from the key
// live in ordinary memory, outside that guarantee.
//
// # File Format
//
// Each encrypted file is
//
//	nonce (12 bytes) | ciphertext (same length as the plaintext) | tag (16 bytes)
//
// sealed with AES-256-GCM (default) or ChaCha20-Poly1305 and no associated
// data. The nonce is random per file and per encryption. There is no header,
// so a tree must be decrypted with the cipher and KDF settings it was
// encrypted with.
//
// # Failure Handling
//
// Files are processed concurrently and independently. A file that cannot be
// read, written or authenticated is recorded in the Report and the others
// carry on. By default a decrypt run that had failures keeps the sentinel,
// so a wrong password never loses the salt.
//
// Not protected: file names, sizes and directory structure; files are read
// whole into memory.
package foldercrypt
