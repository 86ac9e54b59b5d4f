package sblint

import (
	"bytes"
	"context"
	"errors"
	"sort"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

// fakeLinter records concurrency and fails or blocks on configured paths.
type fakeLinter struct {
	active  atomic.Int32
	maxSeen atomic.Int32
	failOn  map[string]bool
	blockOn map[string]bool
}

func (f *fakeLinter) Lint(ctx context.Context, path string) error {
	cur := f.active.Add(1)
	defer f.active.Add(-1)
	for {
		seen := f.maxSeen.Load()
		if cur <= seen || f.maxSeen.CompareAndSwap(seen, cur) {
			break
		}
	}
	if f.blockOn[path] {
		<-ctx.Done()
		return ctx.Err()
	}
	time.Sleep(2 * time.Millisecond)
	if f.failOn[path] {
		return errors.New("boom")
	}
	return nil
}

func TestRunner_TalliesAndSinks(t *testing.T) {
	files := []string{"a.yaml", "b.yaml", "c.yaml", "d.yaml"}
	lint := &fakeLinter{failOn: map[string]bool{"c.yaml": true}}
	var success, fail bytes.Buffer

	sum := (&Runner{Parallel: 2, Success: &success, Fail: &fail}).Run(context.Background(), lint, files)
	if sum.Passed != 3 || sum.Failed != 1 || sum.Total != 4 {
		t.Fatalf("summary: %+v", sum)
	}
	if got := strings.TrimSpace(fail.String()); got != "c.yaml" {
		t.Fatalf("fail sink: %q", got)
	}
	passed := strings.Fields(success.String())
	sort.Strings(passed)
	if strings.Join(passed, " ") != "a.yaml b.yaml d.yaml" {
		t.Fatalf("success sink: %v", passed)
	}
}

func TestRunner_ParallelismBound(t *testing.T) {
	files := make([]string, 12)
	for i := range files {
		files[i] = string(rune('a'+i)) + ".yaml"
	}
	lint := &fakeLinter{}
	sum := (&Runner{Parallel: 2}).Run(context.Background(), lint, files)
	if sum.Passed != len(files) {
		t.Fatalf("summary: %+v", sum)
	}
	if max := lint.maxSeen.Load(); max > 2 {
		t.Fatalf("observed %d concurrent jobs with limit 2", max)
	}
}

func TestRunner_DefaultIsSequential(t *testing.T) {
	lint := &fakeLinter{}
	(&Runner{}).Run(context.Background(), lint, []string{"a", "b", "c"})
	if max := lint.maxSeen.Load(); max != 1 {
		t.Fatalf("observed %d concurrent jobs without parallelism", max)
	}
}

func TestRunner_TimeoutFailsOnlyThatJob(t *testing.T) {
	files := []string{"a.yaml", "b.yaml", "slow.yaml", "c.yaml", "d.yaml"}
	lint := &fakeLinter{blockOn: map[string]bool{"slow.yaml": true}}
	var fail bytes.Buffer

	sum := (&Runner{Parallel: 2, Timeout: 50 * time.Millisecond, Fail: &fail}).
		Run(context.Background(), lint, files)
	if sum.Failed != 1 || sum.Passed != 4 || sum.Total != 5 {
		t.Fatalf("summary: %+v", sum)
	}
	if got := strings.TrimSpace(fail.String()); got != "slow.yaml" {
		t.Fatalf("fail sink: %q", got)
	}
}
