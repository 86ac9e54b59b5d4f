package logger

import (
	"bytes"
	"strings"
	"sync"
	"testing"
)

func TestManager_DrainsEverythingBeforeClose(t *testing.T) {
	var out, errOut bytes.Buffer
	mgr := NewManager(&out, &errOut, true)
	log := mgr.Logger()

	const workers, perWorker = 8, 50
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				log.Infof("worker %d message %d", w, i)
			}
		}(w)
	}
	wg.Wait()
	mgr.Close()

	lines := strings.Split(strings.TrimRight(out.String(), "\n"), "\n")
	if len(lines) != workers*perWorker {
		t.Fatalf("expected %d lines, got %d", workers*perWorker, len(lines))
	}
}

func TestManager_Rendering(t *testing.T) {
	var out, errOut bytes.Buffer
	mgr := NewManager(&out, &errOut, true)
	log := mgr.Logger()

	log.Info("plain")
	log.Successf("done %d", 1)
	log.Warnf("careful")
	log.Errorf("broken")
	log.Custom("verbatim line")
	mgr.Close()

	if got := out.String(); !strings.Contains(got, "plain") || !strings.Contains(got, "done 1") {
		t.Fatalf("stdout: %q", got)
	}
	for _, want := range []string{"careful", "broken", "verbatim line"} {
		if !strings.Contains(errOut.String(), want) {
			t.Fatalf("stderr missing %q: %q", want, errOut.String())
		}
	}
	if strings.Contains(out.String(), "careful") {
		t.Fatal("warnings must go to the error stream")
	}
}

func TestManager_ParallelModeSuppressesDetail(t *testing.T) {
	var out, errOut bytes.Buffer
	mgr := NewManager(&out, &errOut, false)
	log := mgr.Logger()

	for i := 0; i < 10; i++ {
		log.Infof("detail %d", i)
		log.Errorf("err %d", i)
	}
	mgr.Close()

	if out.Len() != 0 || errOut.Len() != 0 {
		t.Fatalf("expected no streamed output, got %q / %q", out.String(), errOut.String())
	}
}
