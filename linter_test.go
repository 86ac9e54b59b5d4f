package sblint

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/pkgforge/sblint/logger"
)

func newTestLinter(t *testing.T) (*Linter, *bytes.Buffer, func()) {
	t.Helper()
	var out bytes.Buffer
	mgr := logger.NewManager(&out, &out, true)
	return New(mgr.Logger()), &out, mgr.Close
}

func writeDescriptor(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "app.sbuild")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLinter_PassingFile(t *testing.T) {
	lint, out, done := newTestLinter(t)
	var (
		mu      sync.Mutex
		results []FileResult
	)
	lint.Collect = func(r FileResult) {
		mu.Lock()
		defer mu.Unlock()
		results = append(results, r)
	}

	path := writeDescriptor(t, validBase)
	if err := lint.Lint(context.Background(), path); err != nil {
		t.Fatalf("err: %v", err)
	}
	done()

	if len(results) != 1 || !results[0].Ok || results[0].File != path {
		t.Fatalf("results: %+v", results)
	}
	if !strings.Contains(out.String(), "is valid") {
		t.Fatalf("output: %q", out.String())
	}
}

func TestLinter_FailingFileStreamsDiagnostics(t *testing.T) {
	lint, out, done := newTestLinter(t)
	var results []FileResult
	lint.Collect = func(r FileResult) { results = append(results, r) }

	path := writeDescriptor(t, validBase+"pkg: dup\n")
	err := lint.Lint(context.Background(), path)
	done()

	if err == nil {
		t.Fatal("expected failure")
	}
	if _, ok := AsValidationError(err); !ok {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if len(results) != 1 || results[0].Ok || len(results[0].Diagnostics) != 1 {
		t.Fatalf("results: %+v", results)
	}
	if !strings.Contains(out.String(), "'pkg' field is duplicated") {
		t.Fatalf("diagnostic not streamed: %q", out.String())
	}
	// Known line means the offending source is excerpted.
	if !strings.Contains(out.String(), "8 | pkg: dup") {
		t.Fatalf("missing excerpt: %q", out.String())
	}
}

func TestLinter_UnreadableFile(t *testing.T) {
	lint, _, done := newTestLinter(t)
	defer done()
	if err := lint.Lint(context.Background(), filepath.Join(t.TempDir(), "absent.sbuild")); err == nil {
		t.Fatal("expected error")
	}
}

type fakeChecker struct{ out string }

func (f fakeChecker) Check(_ context.Context, _, _ string) ([]byte, error) {
	if f.out != "" {
		return []byte(f.out), errors.New("exit status 1")
	}
	return nil, nil
}

func TestLinter_ShellcheckFailureIsTerminal(t *testing.T) {
	lint, out, done := newTestLinter(t)
	lint.Shell = fakeChecker{out: "SC1000: something is off"}

	err := lint.Lint(context.Background(), writeDescriptor(t, validBase))
	done()
	if err == nil {
		t.Fatal("expected failure")
	}
	if !strings.Contains(out.String(), "SC1000") {
		t.Fatalf("tool report not forwarded: %q", out.String())
	}
}

type fakeExec struct{ out string }

func (f fakeExec) Run(context.Context, string) ([]byte, error) { return []byte(f.out), nil }

func TestLinter_PkgVerWritesVersionFile(t *testing.T) {
	lint, _, done := newTestLinter(t)
	defer done()
	lint.PkgVer = true
	lint.Exec = fakeExec{out: "1.2.3\n"}

	path := writeDescriptor(t, execBase)
	if err := lint.Lint(context.Background(), path); err != nil {
		t.Fatalf("err: %v", err)
	}
	got, err := os.ReadFile(path + ".pkgver")
	if err != nil {
		t.Fatalf("pkgver file: %v", err)
	}
	if string(got) != "1.2.3\n" {
		t.Fatalf("pkgver content: %q", got)
	}
}

func TestLinter_PkgVerRejectsMultilineOutput(t *testing.T) {
	lint, _, done := newTestLinter(t)
	defer done()
	lint.PkgVer = true
	lint.Exec = fakeExec{out: "1.2.3\n4.5.6\n"}

	if err := lint.Lint(context.Background(), writeDescriptor(t, execBase)); err == nil {
		t.Fatal("expected failure")
	}
}

func TestLinter_InplaceRewrite(t *testing.T) {
	lint, _, done := newTestLinter(t)
	defer done()
	lint.Inplace = true

	path := writeDescriptor(t, validBase+"foobar: 1\n")
	if err := lint.Lint(context.Background(), path); err != nil {
		t.Fatalf("err: %v", err)
	}
	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(got), "# normalized by sblint v") {
		t.Fatalf("not rewritten: %q", string(got)[:40])
	}
	// The unknown field is dropped by normalization.
	if strings.Contains(string(got), "foobar") {
		t.Fatalf("unknown field survived rewrite: %q", got)
	}
}

func TestLinter_CancelledContext(t *testing.T) {
	lint, _, done := newTestLinter(t)
	defer done()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := lint.Lint(ctx, writeDescriptor(t, validBase)); !errors.Is(err, context.Canceled) {
		t.Fatalf("err: %v", err)
	}
}
