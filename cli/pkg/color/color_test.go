package color

import (
	"bytes"
	"strings"
	"testing"
)

func TestSprintf(t *testing.T) {
	NoColor = false
	got := New(FgGreen, Bold).Sprintf("hello %s", "world")
	if !strings.HasPrefix(got, "\033[32;1m") {
		t.Errorf("missing escape prefix: %q", got)
	}
	if !strings.HasSuffix(got, "\033[0m") {
		t.Errorf("missing reset suffix: %q", got)
	}
	if !strings.Contains(got, "hello world") {
		t.Errorf("missing text: %q", got)
	}
}

func TestNoColor(t *testing.T) {
	NoColor = true
	defer func() { NoColor = false }()

	var buf bytes.Buffer
	New(FgRed).Fprintf(&buf, "plain %d", 7)
	if buf.String() != "plain 7" {
		t.Errorf("expected unstyled output, got %q", buf.String())
	}
}

func TestEmptyColor(t *testing.T) {
	NoColor = false
	if got := New().Sprintf("x"); got != "x" {
		t.Errorf("attribute-free color must pass text through, got %q", got)
	}
}
