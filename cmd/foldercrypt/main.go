package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/absfs/foldercrypt"
	"github.com/awnumar/memguard"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// errFilesFailed is returned when the run finished but some files failed;
// the report has already been printed.
var errFilesFailed = errors.New("some files failed")

type options struct {
	password         string
	cipher           string
	kdf              string
	argon2Profile    string
	argon2Memory     uint32
	argon2Time       uint32
	argon2Threads    uint8
	pbkdf2Iterations int
	workers          int
	inPlace          bool
	forceSentinel    bool
	logLevel         string
	noColor          bool
}

func (o *options) config() (*foldercrypt.Config, error) {
	cfg := foldercrypt.DefaultConfig()

	var err error
	if cfg.Cipher, err = foldercrypt.ParseCipherSuite(o.cipher); err != nil {
		return nil, err
	}
	if cfg.KDF, err = foldercrypt.ParseKDFAlgorithm(o.kdf); err != nil {
		return nil, err
	}
	if cfg.Argon2, err = argon2Profile(o.argon2Profile); err != nil {
		return nil, err
	}
	// Explicit flags override the profile
	if o.argon2Memory != 0 {
		cfg.Argon2.Memory = o.argon2Memory
	}
	if o.argon2Time != 0 {
		cfg.Argon2.Iterations = o.argon2Time
	}
	if o.argon2Threads != 0 {
		cfg.Argon2.Parallelism = o.argon2Threads
	}
	cfg.PBKDF2.Iterations = o.pbkdf2Iterations
	if o.workers > 0 {
		cfg.Parallel.MaxWorkers = o.workers
	}
	cfg.InPlace = o.inPlace
	cfg.RemoveSentinelOnFailure = o.forceSentinel
	return cfg, nil
}

func argon2Profile(name string) (foldercrypt.Argon2idParams, error) {
	switch name {
	case "", "default":
		return foldercrypt.DefaultArgon2idParams(), nil
	case "owasp":
		return foldercrypt.OWASPArgon2idParams(), nil
	default:
		return foldercrypt.Argon2idParams{}, fmt.Errorf("unknown argon2 profile %q", name)
	}
}

func newRootCommand() *cobra.Command {
	opts := &options{}
	def := foldercrypt.DefaultConfig()
	owasp := foldercrypt.OWASPArgon2idParams()

	root := &cobra.Command{
		Use:   "foldercrypt [flags] <folder>",
		Short: "Encrypt or decrypt every file in a folder with a password",
		Long: `foldercrypt locks and unlocks a folder with a password.

If the folder has no salt.key it is encrypted and salt.key is created.
If it has one it is decrypted and salt.key is removed.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			color.NoColor = color.NoColor || opts.noColor
			return setLogLevels(opts.logLevel)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFolder(cmd.Context(), opts, args[0], 0)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVarP(&opts.password, "password", "p", "", "password (prompted for if missing)")
	flags.StringVar(&opts.cipher, "cipher", def.Cipher.String(), "cipher suite: aes-256-gcm or chacha20-poly1305")
	flags.StringVar(&opts.kdf, "kdf", def.KDF.String(), "key derivation: argon2id or pbkdf2")
	flags.StringVar(&opts.argon2Profile, "argon2-profile", "default",
		fmt.Sprintf("argon2id cost: default (%d KiB, t=%d, p=%d) or owasp (%d KiB, t=%d, p=%d)",
			def.Argon2.Memory, def.Argon2.Iterations, def.Argon2.Parallelism,
			owasp.Memory, owasp.Iterations, owasp.Parallelism))
	flags.Uint32Var(&opts.argon2Memory, "argon2-memory", 0, "argon2id memory in KiB (overrides the profile)")
	flags.Uint32Var(&opts.argon2Time, "argon2-time", 0, "argon2id passes (overrides the profile)")
	flags.Uint8Var(&opts.argon2Threads, "argon2-threads", 0, "argon2id lanes (overrides the profile)")
	flags.IntVar(&opts.pbkdf2Iterations, "pbkdf2-iterations", def.PBKDF2.Iterations, "pbkdf2 iterations")
	flags.IntVarP(&opts.workers, "workers", "j", 0, "files processed at once (default: number of CPUs)")
	flags.BoolVar(&opts.inPlace, "in-place", false, "rewrite files in place instead of replacing them")
	flags.BoolVar(&opts.forceSentinel, "remove-sentinel-on-failure", false, "remove salt.key after decrypting even if some files failed")
	flags.StringVar(&opts.logLevel, "log-level", "info", "trace, debug, info, warn, error, critical or off")
	flags.BoolVar(&opts.noColor, "no-color", false, "disable colored output")

	root.AddCommand(
		&cobra.Command{
			Use:   "encrypt <folder>",
			Short: "Encrypt a plaintext folder",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return runFolder(cmd.Context(), opts, args[0], foldercrypt.ModeEncrypt)
			},
		},
		&cobra.Command{
			Use:   "decrypt <folder>",
			Short: "Decrypt an encrypted folder",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return runFolder(cmd.Context(), opts, args[0], foldercrypt.ModeDecrypt)
			},
		},
		&cobra.Command{
			Use:   "status <folder>",
			Short: "Report whether a folder is encrypted",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return runStatus(args[0])
			},
		},
	)

	return root
}

// runFolder runs mode on dir, or detects it when mode is zero
func runFolder(ctx context.Context, opts *options, dir string, mode foldercrypt.Mode) error {
	cfg, err := opts.config()
	if err != nil {
		return err
	}

	f, err := foldercrypt.NewFolder(foldercrypt.NewOSFS(dir), "/", cfg)
	if err != nil {
		return err
	}
	if mode == 0 {
		if mode, err = f.Mode(); err != nil {
			return err
		}
	}

	password, err := readPassword(opts.password, mode == foldercrypt.ModeEncrypt)
	if err != nil {
		return err
	}

	log.Infof("Deriving key (%s)", cfg.KDF)
	var report *foldercrypt.Report
	if mode == foldercrypt.ModeEncrypt {
		report, err = f.Encrypt(ctx, password)
	} else {
		report, err = f.Decrypt(ctx, password)
	}
	if report != nil {
		printReport(dir, report)
	}
	if err != nil {
		return err
	}
	if !report.OK() {
		return errFilesFailed
	}
	return nil
}

func runStatus(dir string) error {
	mode, err := foldercrypt.DetectMode(foldercrypt.NewOSFS(dir), "/")
	if err != nil {
		return err
	}
	if mode == foldercrypt.ModeDecrypt {
		fmt.Printf("%s: %s\n", dir, color.YellowString("encrypted"))
	} else {
		fmt.Printf("%s: %s\n", dir, color.GreenString("plaintext"))
	}
	return nil
}

func printReport(dir string, r *foldercrypt.Report) {
	for _, f := range r.Failures {
		p := filepath.Join(dir, filepath.FromSlash(f.Path))
		color.Red("  %s: %s", p, f.Kind)
		log.Debugf("%s: %v", p, f.Err)
	}

	summary := fmt.Sprintf("%sed %d of %d files in %s", r.Mode, r.Succeeded, r.Total(), r.Elapsed.Round(time.Millisecond))
	if r.OK() {
		color.Green("%s", summary)
	} else {
		color.Red("%s", summary)
	}
	if r.Cancelled {
		color.Yellow("Interrupted: %d files not processed", r.Skipped)
	}
	if r.SentinelKept {
		color.Yellow("%s was kept because some files could not be decrypted", foldercrypt.SentinelName)
	}
}

func realMain() int {
	defer memguard.Purge()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newRootCommand().ExecuteContext(ctx); err != nil {
		if !errors.Is(err, errFilesFailed) {
			fmt.Fprintln(os.Stderr, color.RedString("error: %v", err))
		}
		return 1
	}
	return 0
}

func main() {
	os.Exit(realMain())
}
