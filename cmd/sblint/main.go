package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"sync"
	"time"

	"github.com/spf13/cobra"

	"github.com/pkgforge/sblint"
	"github.com/pkgforge/sblint/internal/shellcheck"
	"github.com/pkgforge/sblint/logger"
)

// errLintFailed signals a non-zero exit without re-printing anything; the
// summary already told the user what happened.
var errLintFailed = errors.New("lint failed")

func main() {
	if err := newRootCmd().Execute(); err != nil {
		if !errors.Is(err, errLintFailed) {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}

type options struct {
	pkgver       bool
	noShellcheck bool
	parallel     int
	inplace      bool
	successPath  string
	failPath     string
	reportPath   string
	timeout      time.Duration
}

func newRootCmd() *cobra.Command {
	var opts options
	root := &cobra.Command{
		Use:           "sblint [flags] FILE...",
		Short:         "sblint validates SBUILD package descriptor files",
		Args:          cobra.MinimumNArgs(1),
		Version:       sblint.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, &opts, args)
		},
	}
	root.Flags().BoolVarP(&opts.pkgver, "pkgver", "p", false, "run the pkgver script and write FILE.pkgver")
	root.Flags().BoolVar(&opts.noShellcheck, "no-shellcheck", false, "skip the shellcheck pass over x_exec scripts")
	root.Flags().IntVar(&opts.parallel, "parallel", 1, "number of files to lint in parallel")
	root.Flags().BoolVarP(&opts.inplace, "inplace", "i", false, "rewrite the file with the normalized config on success")
	root.Flags().StringVar(&opts.successPath, "success", "", "append passing file paths to this list file")
	root.Flags().StringVar(&opts.failPath, "fail", "", "append failing file paths to this list file")
	root.Flags().StringVar(&opts.reportPath, "report", "", "write a JSON report of all results to this file")
	root.Flags().DurationVar(&opts.timeout, "timeout", 30*time.Second, "per-file time budget")
	return root
}

func run(cmd *cobra.Command, opts *options, args []string) error {
	if err := applyFileConfig(cmd, opts); err != nil {
		return err
	}
	files := dedupe(args)

	var check sblint.ShellChecker
	if !opts.noShellcheck {
		sc, err := shellcheck.New()
		if err != nil {
			return fmt.Errorf("%w (install it or pass --no-shellcheck)", err)
		}
		check = sc
	}

	out, errOut := cmd.OutOrStdout(), cmd.ErrOrStderr()
	fmt.Fprintf(out, "sblint v%s\n", sblint.Version)

	successSink, err := openSink(opts.successPath)
	if err != nil {
		return err
	}
	defer closeSink(successSink)
	failSink, err := openSink(opts.failPath)
	if err != nil {
		return err
	}
	defer closeSink(failSink)

	mgr := logger.NewManager(out, errOut, opts.parallel <= 1)

	lint := sblint.New(mgr.Logger())
	lint.Shell = check
	lint.PkgVer = opts.pkgver
	lint.Inplace = opts.inplace
	lint.Exec = bashRunner{}

	var (
		resMu   sync.Mutex
		results []sblint.FileResult
	)
	if opts.reportPath != "" {
		lint.Collect = func(r sblint.FileResult) {
			resMu.Lock()
			defer resMu.Unlock()
			results = append(results, r)
		}
	}

	runner := &sblint.Runner{
		Parallel: opts.parallel,
		Timeout:  opts.timeout,
		Success:  successSink,
		Fail:     failSink,
	}
	sum := runner.Run(cmd.Context(), lint, files)
	mgr.Close()

	fmt.Fprintf(out, "\n[%s] %d file(s) passed validation\n", logger.PlusMark, sum.Passed)
	fmt.Fprintf(out, "[%s] %d file(s) failed validation\n", logger.PlusMark, sum.Failed)
	fmt.Fprintf(out, "[%s] evaluated %d/%d file(s) in %s\n",
		logger.PlusMark, sum.Passed+sum.Failed, sum.Total, sum.Elapsed.Round(time.Millisecond))

	if opts.reportPath != "" {
		if err := writeReport(opts.reportPath, results); err != nil {
			return err
		}
	}
	if sum.Failed > 0 {
		return errLintFailed
	}
	return nil
}

func dedupe(paths []string) []string {
	seen := make(map[string]struct{}, len(paths))
	out := make([]string, 0, len(paths))
	for _, p := range paths {
		if _, dup := seen[p]; dup {
			continue
		}
		seen[p] = struct{}{}
		out = append(out, p)
	}
	return out
}

func openSink(path string) (*os.File, error) {
	if path == "" {
		return nil, nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("opening list file: %w", err)
	}
	return f, nil
}

func closeSink(f *os.File) {
	if f != nil {
		_ = f.Close()
	}
}

func writeReport(path string, results []sblint.FileResult) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("writing report: %w", err)
	}
	defer f.Close()
	return sblint.WriteReport(f, results)
}

// bashRunner executes pkgver fragments with bash, inheriting the job context
// so the per-file budget kills hung scripts.
type bashRunner struct{}

func (bashRunner) Run(ctx context.Context, script string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, "bash", "-c", script)
	cmd.Stderr = io.Discard
	return cmd.Output()
}
