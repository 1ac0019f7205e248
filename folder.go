package foldercrypt

import (
	"context"
	"path"

	"github.com/awnumar/memguard"
)

// Folder encrypts and decrypts every regular file of one directory tree
// under a single password-derived key.
//
// A tree with no sentinel is plaintext and is encrypted; a tree with a
// sentinel is ciphertext and is decrypted with the salt it holds.
type Folder struct {
	fs     FileSystem
	root   string
	config *Config
}

// NewFolder returns a Folder for the tree at root on fsys. A nil config
// selects DefaultConfig.
func NewFolder(fsys FileSystem, root string, config *Config) (*Folder, error) {
	if fsys == nil {
		return nil, &ValidationError{Field: "filesystem", Message: ErrNilFileSystem.Error(), Err: ErrNilFileSystem}
	}
	if err := ValidateFilePath(root); err != nil {
		return nil, err
	}
	if config == nil {
		config = DefaultConfig()
	} else {
		config = config.withDefaults()
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &Folder{
		fs:     fsys,
		root:   path.Clean(root),
		config: config,
	}, nil
}

// Root returns the tree root
func (f *Folder) Root() string {
	return f.root
}

// Mode reports what Run would do
func (f *Folder) Mode() (Mode, error) {
	return DetectMode(f.fs, f.root)
}

// Run encrypts or decrypts the tree depending on whether the sentinel is
// present. The password slice is wiped.
//
// The returned error is non-nil only for fatal errors: an invalid root or
// configuration, a key derivation failure, or a sentinel that could not be
// read, written or removed. Per-file failures are in the Report.
func (f *Folder) Run(ctx context.Context, password []byte) (*Report, error) {
	mode, err := f.Mode()
	if err != nil {
		memguard.WipeBytes(password)
		return nil, err
	}

	if mode == ModeDecrypt {
		return f.Decrypt(ctx, password)
	}
	return f.Encrypt(ctx, password)
}

// Encrypt encrypts a plaintext tree and writes the sentinel. The password
// slice is wiped.
func (f *Folder) Encrypt(ctx context.Context, password []byte) (*Report, error) {
	kp, err := f.config.NewKeyProvider(password)
	if err != nil {
		return nil, err
	}
	defer kp.Destroy()

	return f.encrypt(ctx, kp)
}

// Decrypt decrypts an encrypted tree with the salt held in its sentinel. The
// password slice is wiped.
func (f *Folder) Decrypt(ctx context.Context, password []byte) (*Report, error) {
	kp, err := f.config.NewKeyProvider(password)
	if err != nil {
		return nil, err
	}
	defer kp.Destroy()

	return f.decrypt(ctx, kp)
}

func (f *Folder) encrypt(ctx context.Context, kp KeyProvider) (*Report, error) {
	mode, err := f.Mode()
	if err != nil {
		return nil, err
	}
	if mode != ModeEncrypt {
		return nil, &ValidationError{Field: "root", Value: f.root, Message: ErrAlreadyEncrypted.Error(), Err: ErrAlreadyEncrypted}
	}

	salt, err := kp.GenerateSalt()
	if err != nil {
		return nil, &ValidationError{Field: "salt", Message: err.Error(), Err: err}
	}

	fc, key, err := f.fileCipher(kp, salt)
	if err != nil {
		return nil, err
	}
	defer key.Destroy()

	// Written before any file changes, so an interrupted run still leaves a
	// tree that is detected as encrypted.
	if err := WriteSentinel(f.fs, f.root, salt); err != nil {
		return nil, err
	}
	log.Infof("Encrypting %s with %s", f.root, f.config.Cipher)

	report := transformTree(ctx, f.fs, f.root, fc, ModeEncrypt, f.treeOptions())
	log.Infof("%v", report)
	return report, nil
}

func (f *Folder) decrypt(ctx context.Context, kp KeyProvider) (*Report, error) {
	mode, err := f.Mode()
	if err != nil {
		return nil, err
	}
	if mode != ModeDecrypt {
		return nil, &ValidationError{Field: "root", Value: f.root, Message: ErrNotEncrypted.Error(), Err: ErrNotEncrypted}
	}

	salt, err := ReadSentinel(f.fs, f.root)
	if err != nil {
		return nil, err
	}

	fc, key, err := f.fileCipher(kp, salt)
	if err != nil {
		return nil, err
	}
	defer key.Destroy()
	log.Infof("Decrypting %s with %s", f.root, f.config.Cipher)

	report := transformTree(ctx, f.fs, f.root, fc, ModeDecrypt, f.treeOptions())
	log.Infof("%v", report)

	if !report.OK() && !f.config.RemoveSentinelOnFailure {
		log.Warnf("Keeping %s: %d files failed to decrypt", SentinelPath(f.root), report.Failed())
		report.SentinelKept = true
		return report, nil
	}

	if err := RemoveSentinel(f.fs, f.root); err != nil {
		return report, err
	}
	return report, nil
}

// fileCipher derives the key for salt and builds the cipher. The caller owns
// the returned key.
func (f *Folder) fileCipher(kp KeyProvider, salt []byte) (*FileCipher, *Key, error) {
	key, err := kp.DeriveKey(salt)
	if err != nil {
		return nil, nil, err
	}

	fc, err := NewFileCipher(f.config.Cipher, key)
	if err != nil {
		key.Destroy()
		return nil, nil, err
	}
	return fc, key, nil
}

func (f *Folder) treeOptions() treeOptions {
	return treeOptions{
		parallel: f.config.Parallel,
		inPlace:  f.config.InPlace,
	}
}

// Run encrypts or decrypts the host directory root depending on whether it
// holds a sentinel
func Run(ctx context.Context, root string, password []byte, config *Config) (*Report, error) {
	f, err := newOSFolder(root, config, password)
	if err != nil {
		return nil, err
	}
	return f.Run(ctx, password)
}

// EncryptFolder encrypts the host directory root
func EncryptFolder(ctx context.Context, root string, password []byte, config *Config) (*Report, error) {
	f, err := newOSFolder(root, config, password)
	if err != nil {
		return nil, err
	}
	return f.Encrypt(ctx, password)
}

// DecryptFolder decrypts the host directory root
func DecryptFolder(ctx context.Context, root string, password []byte, config *Config) (*Report, error) {
	f, err := newOSFolder(root, config, password)
	if err != nil {
		return nil, err
	}
	return f.Decrypt(ctx, password)
}

func newOSFolder(root string, config *Config, password []byte) (*Folder, error) {
	if err := ValidateFilePath(root); err != nil {
		memguard.WipeBytes(password)
		return nil, err
	}
	f, err := NewFolder(NewOSFS(root), "/", config)
	if err != nil {
		memguard.WipeBytes(password)
		return nil, err
	}
	return f, nil
}
