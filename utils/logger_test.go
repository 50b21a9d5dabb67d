package utils

import (
	"bytes"
	"os"
	"strings"
	"testing"
)

func TestLogf(t *testing.T) {
	var buf bytes.Buffer
	SetLogOutput(&buf)
	defer SetLogOutput(os.Stdout)

	oldLevel := GlobalLogLevel
	defer func() {
		GlobalLogLevel = oldLevel
	}()
	GlobalLogLevel = LogLevelError | LogLevelInfo

	Logf("Worker", "thread %d started", 3)
	Debugf("Worker", "hidden %d", 4)
	Errorf("Worker", "failed: %s", "reason")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines: %q", len(lines), buf.String())
	}
	if !strings.HasSuffix(lines[0], " [Worker] INFO thread 3 started") {
		t.Errorf("unexpected line %q", lines[0])
	}
	if !strings.HasSuffix(lines[1], " [Worker] ERROR failed: reason") {
		t.Errorf("unexpected line %q", lines[1])
	}

	buf.Reset()
	GlobalLogLevel |= LogLevelDebug
	if !IsLogLevelDebug() {
		t.Fatal("expected debug level")
	}
	Debugf("Worker", "shown %d", 5)
	if !strings.HasSuffix(strings.TrimSpace(buf.String()), " [Worker] DEBUG shown 5") {
		t.Errorf("unexpected line %q", buf.String())
	}
}
