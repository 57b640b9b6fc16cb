package progress

import (
	"bytes"
	"strings"
	"testing"
)

func TestRender(t *testing.T) {
	got := Render(21, 50, "corr")
	want := "\r[" + strings.Repeat("=", 25) + strings.Repeat("-", 35) + "] 42.0% corr"
	if got != want {
		t.Fatalf("Render=%q want=%q", got, want)
	}

	full := Render(3, 3, "")
	if !strings.Contains(full, strings.Repeat("=", Width)) || !strings.Contains(full, "100.0%") {
		t.Fatalf("complete bar=%q", full)
	}
	if Render(1, 0, "x") != "" {
		t.Fatal("zero total should render nothing")
	}
}

func TestBarSkipsRedundantRedraws(t *testing.T) {
	var buf bytes.Buffer
	b := New(&buf)

	for i := 0; i <= 1000; i++ {
		b.Report(i, 1000, "lags")
		b.Report(i, 1000, "lags")
	}

	out := buf.String()
	if n := strings.Count(out, "\r"); n != 1001 {
		t.Fatalf("redraws=%d want=1001", n)
	}
	if strings.Count(out, "\n") != 1 {
		t.Fatalf("completion lines=%d want=1", strings.Count(out, "\n"))
	}
	if !strings.HasSuffix(out, "100.0% lags\n") {
		t.Fatalf("missing completion line: %q", out[len(out)-40:])
	}
}

func TestNilBarIsNoop(t *testing.T) {
	var b *Bar
	b.Report(1, 2, "x")
}
