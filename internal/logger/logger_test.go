package logger

import (
	"bytes"
	"os"
	"sync"
	"testing"
)

func resetLogger() {
	SetVerbose(false)
	SetOutput(os.Stderr)
}

func TestSetVerbose(t *testing.T) {
	defer resetLogger()

	SetVerbose(false)
	if IsVerbose() {
		t.Error("expected verbose to be false initially")
	}

	SetVerbose(true)
	if !IsVerbose() {
		t.Error("expected verbose to be true after SetVerbose(true)")
	}
}

func TestLevels_PlainOutputForBuffers(t *testing.T) {
	defer resetLogger()

	tests := []struct {
		name string
		log  func()
		want string
	}{
		{"debug", func() { Debug("removed %d fragment(s)", 3) }, "[DEBUG] removed 3 fragment(s)\n"},
		{"info", func() { Info("tag %s already exists", "v1.2.0") }, "[INFO] tag v1.2.0 already exists\n"},
		{"warn", func() { Warn("working tree restored") }, "[WARN] working tree restored\n"},
		{"section", func() { Section("Release") }, "\n=== Release ===\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			SetOutput(&buf)
			SetVerbose(true)

			tt.log()

			if got := buf.String(); got != tt.want {
				t.Errorf("unexpected output: %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDebug_WhenNotVerbose(t *testing.T) {
	defer resetLogger()

	var buf bytes.Buffer
	SetOutput(&buf)
	SetVerbose(false)

	Debug("test message")
	Section("hidden")

	if buf.Len() > 0 {
		t.Error("expected no output when verbose is disabled")
	}
}

func TestConcurrentAccess(t *testing.T) {
	defer resetLogger()

	var buf bytes.Buffer
	SetOutput(&buf)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			SetVerbose(true)
			Info("concurrent %d", i)
			IsVerbose()
			SetVerbose(false)
		}()
	}
	wg.Wait()
}
