package main

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"github.com/awnumar/memguard"
	"github.com/fatih/color"
	"golang.org/x/term"
)

var errPasswordMismatch = errors.New("passwords do not match")

// readPassword returns the password from the --password flag or, failing
// that, from the terminal with echo off. confirm asks for it twice.
func readPassword(flagValue string, confirm bool) ([]byte, error) {
	if flagValue != "" {
		return []byte(flagValue), nil
	}

	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return nil, errors.New("no password: use --password or run from a terminal")
	}

	fmt.Fprint(os.Stderr, color.GreenString("Password: "))
	pw, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return nil, fmt.Errorf("password read failed: %w", err)
	}
	if len(pw) == 0 {
		return nil, errors.New("password cannot be empty")
	}
	if !confirm {
		return pw, nil
	}

	fmt.Fprint(os.Stderr, color.GreenString("Verify: "))
	again, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr)
	defer memguard.WipeBytes(again)
	if err != nil {
		memguard.WipeBytes(pw)
		return nil, fmt.Errorf("password read failed: %w", err)
	}
	if !bytes.Equal(pw, again) {
		memguard.WipeBytes(pw)
		return nil, errPasswordMismatch
	}
	return pw, nil
}
