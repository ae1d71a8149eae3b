package monitor

import (
	"fmt"
	"strings"

	"github.com/CristiGvl/picoCPUMon/internal/freq"
	"github.com/CristiGvl/picoCPUMon/internal/procs"
)

const (
	frequencyTitle = "=== Current frequency per core ==="
	processTitle   = "=== Running processes (PID, Name) ==="
	noFrequency    = "Could not read per-core frequency on this system."
)

// renderFrequencies writes the frequency section, blank separator line included,
// and returns the number of lines written
func (m *Monitor) renderFrequencies(b *strings.Builder, samples []freq.Sample) int {
	title := frequencyTitle
	if m.cpuModel != "" {
		title = fmt.Sprintf("=== Current frequency per core (%s) ===", m.cpuModel)
	}
	b.WriteString(m.header.Render(title))
	b.WriteString("\n")
	lines := 1

	if len(samples) == 0 {
		b.WriteString(noFrequency + "\n")
		lines++
	}
	for i, s := range samples {
		value := freq.Placeholder
		if s.Available && s.MHz > 0 {
			value = freq.Format(s.MHz)
		}
		fmt.Fprintf(b, "CPU %d: %s\n", i, value)
		lines++
	}

	b.WriteString("\n")
	return lines + 1
}

// renderProcesses writes the process section and returns the number of lines written
func (m *Monitor) renderProcesses(b *strings.Builder, entries []procs.Entry) int {
	b.WriteString(m.header.Render(processTitle))
	b.WriteString("\n")
	lines := 1

	for _, e := range entries {
		fmt.Fprintf(b, "%d  %s\n", e.PID, e.Name)
		lines++
	}
	return lines
}
