package display

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// ANSI control sequences used for in-place redraw
const (
	eraseToLineEnd = "\x1b[K"
	eraseBelow     = "\x1b[J"
	eraseLine      = "\x1b[2K"
)

// Terminal draws each report over the previous one
type Terminal struct {
	w     *bufio.Writer
	lines int
}

// NewTerminal creates a Terminal writing to w
func NewTerminal(w io.Writer) *Terminal {
	return &Terminal{w: bufio.NewWriter(w)}
}

// Draw writes both blocks, then moves the cursor back up over the lines just
// written so the next Draw overwrites them
func (t *Terminal) Draw(frequencies, processes string, lines int) error {
	for _, block := range []string{frequencies, processes} {
		// Clear leftovers of longer lines from the previous frame
		t.w.WriteString(strings.ReplaceAll(block, "\n", eraseToLineEnd+"\n"))
	}
	t.w.WriteString(eraseBelow)

	if lines > 0 {
		fmt.Fprintf(t.w, "\x1b[%dA", lines)
	}
	t.w.WriteString(eraseLine + "\r")
	t.lines = lines

	if err := t.w.Flush(); err != nil {
		return fmt.Errorf("failed to flush report: %w", err)
	}
	return nil
}

// Close moves the cursor below the last report
func (t *Terminal) Close() error {
	if t.lines > 0 {
		fmt.Fprintf(t.w, "\x1b[%dB", t.lines)
	}
	return t.w.Flush()
}
