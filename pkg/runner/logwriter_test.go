package runner

import (
	"bytes"
	"strings"
	"testing"
)

func TestPrefixWriterLines(t *testing.T) {
	var out bytes.Buffer
	w := newPrefixWriter(&out, "backend")

	if _, err := w.Write([]byte("first\nsecond\n")); err != nil {
		t.Fatal(err)
	}

	lines := strings.Split(strings.TrimRight(out.String(), "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2: %q", len(lines), out.String())
	}
	for i, want := range []string{"first", "second"} {
		if !strings.Contains(lines[i], "[backend]") {
			t.Errorf("line %d missing prefix: %q", i, lines[i])
		}
		if !strings.HasSuffix(lines[i], want) {
			t.Errorf("line %d = %q, want suffix %q", i, lines[i], want)
		}
	}
}

func TestPrefixWriterPartialLine(t *testing.T) {
	var out bytes.Buffer
	w := newPrefixWriter(&out, "fe")

	if _, err := w.Write([]byte("no newline yet")); err != nil {
		t.Fatal(err)
	}
	if out.Len() != 0 {
		t.Errorf("partial line must stay buffered, got %q", out.String())
	}

	if _, err := w.Write([]byte(" done\n")); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "no newline yet done") {
		t.Errorf("joined line missing: %q", out.String())
	}
}

func TestPrefixWriterFlush(t *testing.T) {
	var out bytes.Buffer
	w := newPrefixWriter(&out, "fe")

	if _, err := w.Write([]byte("tail without newline")); err != nil {
		t.Fatal(err)
	}
	w.Flush()

	if !strings.Contains(out.String(), "tail without newline") {
		t.Errorf("flush dropped the tail: %q", out.String())
	}
	if !strings.HasSuffix(out.String(), "\n") {
		t.Error("flushed tail should be newline terminated")
	}

	// flushing twice is harmless
	before := out.Len()
	w.Flush()
	if out.Len() != before {
		t.Error("second flush wrote data")
	}
}
