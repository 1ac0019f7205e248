package foldercrypt

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func TestReport(t *testing.T) {
	r := &Report{Mode: ModeDecrypt, Root: "/"}
	start := time.Now()

	r.add(fileResult{path: "/ok.txt"})
	r.add(fileResult{path: "/z.txt", kind: KindAuth, err: NewAuthenticationError("/z.txt", ErrAuthFailed)})
	r.add(fileResult{path: "/a.txt", kind: KindWrite, err: NewIOError("write", "/a.txt", errors.New("disk full"))})
	r.finish(start)

	if r.Succeeded != 1 || r.Failed() != 2 || r.Total() != 3 {
		t.Errorf("counts = %d/%d/%d", r.Succeeded, r.Failed(), r.Total())
	}
	if r.OK() {
		t.Error("report with failures is OK")
	}
	if r.Failures[0].Path != "/a.txt" || r.Failures[1].Path != "/z.txt" {
		t.Errorf("failures not ordered by path: %v", r.Failures)
	}
	if got := r.FailuresOf(KindAuth); len(got) != 1 || got[0].Path != "/z.txt" {
		t.Errorf("FailuresOf(KindAuth) = %v", got)
	}
	if got := r.FailuresOf(KindRead); len(got) != 0 {
		t.Errorf("FailuresOf(KindRead) = %v", got)
	}

	err := r.Err()
	if !errors.Is(err, ErrAuthFailed) || !IsIOError(err) {
		t.Errorf("Err() = %v does not join the failures", err)
	}

	s := r.String()
	for _, want := range []string{"decrypt /", "1/3 files succeeded", "2 failed"} {
		if !strings.Contains(s, want) {
			t.Errorf("String() = %q, want it to contain %q", s, want)
		}
	}
	if got := r.Failures[1].String(); got != "/z.txt: authentication failure" {
		t.Errorf("FileFailure.String() = %q", got)
	}
}

func TestReportCancelled(t *testing.T) {
	r := &Report{Mode: ModeEncrypt, Root: "/", Succeeded: 2, Skipped: 5, Cancelled: true}

	if r.OK() {
		t.Error("cancelled report is OK")
	}
	if err := r.Err(); err == nil || !strings.Contains(err.Error(), "5 files not processed") {
		t.Errorf("Err() = %v", err)
	}
	if s := r.String(); !strings.Contains(s, "cancelled (5 skipped)") {
		t.Errorf("String() = %q", s)
	}
}

func TestReportEmpty(t *testing.T) {
	r := &Report{Mode: ModeEncrypt, Root: "/"}
	r.finish(time.Now())

	if !r.OK() || r.Err() != nil || r.Total() != 0 {
		t.Errorf("empty report = %v, %v", r, r.Err())
	}
}
