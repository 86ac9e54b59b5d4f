package sblint

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"

	"github.com/pkgforge/sblint/logger"
)

// ShellChecker runs a static-analysis pass over an embedded shell fragment.
// The returned output is the tool's own report, forwarded verbatim on failure.
type ShellChecker interface {
	Check(ctx context.Context, shell, script string) ([]byte, error)
}

// ScriptRunner executes an embedded shell fragment and returns its stdout.
// Used only by pkgver mode.
type ScriptRunner interface {
	Run(ctx context.Context, script string) ([]byte, error)
}

// FileResult is the machine-readable outcome for one file.
type FileResult struct {
	File        string       `json:"file"`
	Ok          bool         `json:"ok"`
	Diagnostics []Diagnostic `json:"diagnostics,omitempty"`
}

// Linter validates one descriptor file end to end: read, parse, schema walk,
// shellcheck pass over the embedded scripts, and the optional pkgver and
// in-place steps. A single Linter is safe for concurrent use; it holds no
// per-file state.
type Linter struct {
	Log *logger.Logger
	// Shell, when set, checks the x_exec fragments. Nil disables the pass.
	Shell ShellChecker
	// Exec runs the pkgver fragment when PkgVer is set.
	Exec    ScriptRunner
	PkgVer  bool
	Inplace bool
	// Collect, when set, receives the FileResult of every lint. Must be safe
	// for concurrent use.
	Collect func(FileResult)
}

// New returns a Linter that reports through log.
func New(log *logger.Logger) *Linter {
	return &Linter{Log: log}
}

// Lint validates the file at path. A nil return means the file passed,
// possibly with warnings; any error is terminal for the file.
func (l *Linter) Lint(ctx context.Context, path string) error {
	if err := ctx.Err(); err != nil {
		l.finish(path, nil, err)
		return err
	}
	l.Log.Infof("linting %s", path)

	data, err := os.ReadFile(path)
	if err != nil {
		l.Log.Errorf("%s: %v", path, err)
		l.finish(path, nil, err)
		return err
	}

	doc, err := ParseDocument(data)
	if err != nil {
		l.Log.Errorf("%s: %v", path, err)
		l.finish(path, nil, err)
		return err
	}

	cfg, rep, verr := Validate(doc)
	for _, d := range rep.Diagnostics() {
		l.Log.Custom(formatDiagnostic(doc.Source, d))
	}
	if verr != nil {
		l.Log.Errorf("%s: %v", path, verr)
		l.finish(path, rep, verr)
		return verr
	}
	if n := rep.WarnCount(); n > 0 {
		l.Log.Custom(warnText.Sprintf("%d warning(s)", n) + " found during deserialization")
	}

	if l.Shell != nil {
		if script, ok := cfg.ExecFragment("run"); ok {
			if out, err := l.Shell.Check(ctx, cfg.ExecShell(), script); err != nil {
				if len(out) > 0 {
					l.Log.Custom(strings.TrimRight(string(out), "\n"))
				}
				l.Log.Errorf("%s: shellcheck failed for x_exec.run", path)
				l.finish(path, rep, err)
				return fmt.Errorf("shellcheck: %w", err)
			}
		}
	}

	if l.PkgVer {
		if err := l.runPkgVer(ctx, path, cfg); err != nil {
			l.finish(path, rep, err)
			return err
		}
	}

	if l.Inplace {
		out, err := cfg.YAML()
		if err == nil {
			err = os.WriteFile(path, out, 0o644)
		}
		if err != nil {
			l.Log.Errorf("%s: in-place rewrite: %v", path, err)
			l.finish(path, rep, err)
			return err
		}
	}

	l.Log.Successf("%s is valid", path)
	l.finish(path, rep, nil)
	return nil
}

// runPkgVer executes the x_exec.pkgver fragment under the job's context and
// persists the computed version next to the descriptor.
func (l *Linter) runPkgVer(ctx context.Context, path string, cfg *Config) error {
	script, ok := cfg.ExecFragment("pkgver")
	if !ok {
		return nil
	}
	if l.Exec == nil {
		return nil
	}
	out, err := l.Exec.Run(ctx, script)
	if err != nil {
		l.Log.Errorf("%s: pkgver script: %v", path, err)
		return fmt.Errorf("pkgver: %w", err)
	}
	version := strings.TrimSpace(string(out))
	if version == "" || strings.ContainsRune(version, '\n') {
		err := fmt.Errorf("pkgver script must print a single non-empty version line")
		l.Log.Errorf("%s: %v", path, err)
		return err
	}
	if err := os.WriteFile(path+".pkgver", []byte(version+"\n"), 0o644); err != nil {
		l.Log.Errorf("%s: writing pkgver: %v", path, err)
		return err
	}
	l.Log.Successf("%s version: %s", path, version)
	return nil
}

func (l *Linter) finish(path string, rep *Report, err error) {
	if l.Collect == nil {
		return
	}
	res := FileResult{File: path, Ok: err == nil}
	if rep != nil {
		res.Diagnostics = rep.Diagnostics()
	}
	l.Collect(res)
}

var (
	boldText = color.New(color.Bold)
	errText  = color.New(color.FgRed)
	warnText = color.New(color.FgYellow)
)

// formatDiagnostic renders one diagnostic with its severity glyph and, when
// the line is known, a highlighted excerpt of the offending source line.
func formatDiagnostic(src string, d Diagnostic) string {
	mark, style := logger.WarnMark, warnText
	if d.Severity == Error {
		mark, style = logger.CrossMark, errText
	}
	s := fmt.Sprintf("[%s] %s -> %s", mark, boldText.Sprint(d.Field), style.Sprint(d.Message))
	if d.Line > 0 {
		if excerpt := highlightLine(src, d.Line, style); excerpt != "" {
			s += "\n" + excerpt
		}
	}
	return s
}

func highlightLine(src string, line int, style *color.Color) string {
	lines := strings.Split(src, "\n")
	if line < 1 || line > len(lines) {
		return ""
	}
	return fmt.Sprintf("  %d | %s", line, style.Sprint(lines[line-1]))
}
