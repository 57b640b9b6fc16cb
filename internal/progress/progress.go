// Package progress renders a single-line console progress bar.
package progress

import (
	"fmt"
	"io"
	"math"
	"strings"
	"sync"
)

// Width is the number of bar characters between the brackets.
const Width = 60

// Bar writes `\r[====----] 42.0% label` lines to an io.Writer. A newline is
// emitted once current reaches total. Bar is safe for concurrent use.
type Bar struct {
	mu   sync.Mutex
	w    io.Writer
	last int
	done bool
}

// New returns a Bar writing to w.
func New(w io.Writer) *Bar {
	return &Bar{w: w, last: -1}
}

// Report renders the bar for current out of total. Calls that would not
// change the displayed percentage are not redrawn.
func (b *Bar) Report(current, total int, label string) {
	if b == nil || b.w == nil || total <= 0 {
		return
	}
	if current > total {
		current = total
	}
	if current < 0 {
		current = 0
	}

	ratio := float64(current) / float64(total)
	permille := int(math.Round(ratio * 1000))

	b.mu.Lock()
	defer b.mu.Unlock()
	if current < total {
		b.done = false
	}
	finishing := current == total && !b.done
	if permille == b.last && !finishing {
		return
	}
	b.last = permille

	fmt.Fprint(b.w, Render(current, total, label))
	if finishing {
		fmt.Fprintln(b.w)
		b.done = true
	}
}

// Render formats a single bar line without writing it.
func Render(current, total int, label string) string {
	if total <= 0 {
		return ""
	}
	ratio := float64(current) / float64(total)
	filled := int(math.Round(Width * ratio))
	filled = max(0, min(Width, filled))

	var sb strings.Builder
	sb.WriteString("\r[")
	sb.WriteString(strings.Repeat("=", filled))
	sb.WriteString(strings.Repeat("-", Width-filled))
	fmt.Fprintf(&sb, "] %.1f%% %s", math.Round(ratio*1000)/10, label)
	return sb.String()
}
