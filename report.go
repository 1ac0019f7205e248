package foldercrypt

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"
)

// FileFailure records one file that could not be transformed
type FileFailure struct {
	Path string
	Kind ErrorKind
	Err  error
}

func (f FileFailure) String() string {
	return fmt.Sprintf("%s: %s", f.Path, f.Kind)
}

// Report is the outcome of one walk over a tree
type Report struct {
	Mode      Mode
	Root      string
	Succeeded int
	Failures  []FileFailure

	// Skipped counts files that were never dispatched because the run was
	// cancelled
	Skipped   int
	Cancelled bool

	// SentinelKept is set by a decrypt run that left the sentinel in place
	// because some files failed
	SentinelKept bool

	Elapsed time.Duration
}

// Failed returns the number of files that failed
func (r *Report) Failed() int {
	return len(r.Failures)
}

// Total returns the number of files that were processed
func (r *Report) Total() int {
	return r.Succeeded + len(r.Failures)
}

// OK reports whether every file was transformed
func (r *Report) OK() bool {
	return len(r.Failures) == 0 && !r.Cancelled
}

// FailuresOf returns the failures of the given kind
func (r *Report) FailuresOf(kind ErrorKind) []FileFailure {
	var out []FileFailure
	for _, f := range r.Failures {
		if f.Kind == kind {
			out = append(out, f)
		}
	}
	return out
}

// Err returns nil when the report is OK, and otherwise an error joining
// every per-file failure
func (r *Report) Err() error {
	if r.OK() {
		return nil
	}
	errs := make([]error, 0, len(r.Failures)+1)
	if r.Cancelled {
		errs = append(errs, fmt.Errorf("%s cancelled with %d files not processed", r.Mode, r.Skipped))
	}
	for _, f := range r.Failures {
		errs = append(errs, f.Err)
	}
	return errors.Join(errs...)
}

// String summarises the report on one line
func (r *Report) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s: %d/%d files succeeded", r.Mode, r.Root, r.Succeeded, r.Total())
	if n := r.Failed(); n > 0 {
		fmt.Fprintf(&b, ", %d failed", n)
	}
	if r.Cancelled {
		fmt.Fprintf(&b, ", cancelled (%d skipped)", r.Skipped)
	}
	fmt.Fprintf(&b, " in %s", r.Elapsed.Round(time.Millisecond))
	return b.String()
}

// add folds one file result into the report
func (r *Report) add(res fileResult) {
	if res.err == nil {
		r.Succeeded++
		return
	}
	r.Failures = append(r.Failures, FileFailure{Path: res.path, Kind: res.kind, Err: res.err})
}

// finish orders failures by path so reports are reproducible
func (r *Report) finish(start time.Time) {
	sort.Slice(r.Failures, func(i, j int) bool {
		return r.Failures[i].Path < r.Failures[j].Path
	})
	r.Elapsed = time.Since(start)
}
