package monitor

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/CristiGvl/picoCPUMon/internal/freq"
	"github.com/CristiGvl/picoCPUMon/internal/procs"
	"github.com/charmbracelet/lipgloss"
	"github.com/sirupsen/logrus"
)

type fakeSource struct {
	samples []freq.Sample
	entries []procs.Entry
	calls   int
}

func (s *fakeSource) CoreFrequencies(ctx context.Context) []freq.Sample {
	s.calls++
	return s.samples
}

func (s *fakeSource) Processes(ctx context.Context) []procs.Entry {
	return s.entries
}

type frame struct {
	frequencies string
	processes   string
	lines       int
}

type recordingDisplay struct {
	frames []frame
	err    error
	onDraw func(n int)
}

func (d *recordingDisplay) Draw(frequencies, processes string, lines int) error {
	d.frames = append(d.frames, frame{frequencies, processes, lines})
	if d.onDraw != nil {
		d.onDraw(len(d.frames))
	}
	return d.err
}

func newTestMonitor(source Source, display Display, opts Options) *Monitor {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	opts.Logger = logger
	opts.Renderer = lipgloss.NewRenderer(io.Discard)
	return New(source, display, opts)
}

func countLines(f frame) int {
	return strings.Count(f.frequencies, "\n") + strings.Count(f.processes, "\n")
}

func TestCycleRendersCoresAndProcesses(t *testing.T) {
	source := &fakeSource{
		samples: freq.Materialize(map[int]float64{0: 2400, 1: 1800, 2: 0, 3: 3600}),
		entries: procs.Normalize([]procs.Entry{{PID: 50, Name: "bash"}, {PID: 12, Name: "init"}, {PID: 50, Name: "bash-dup-artifact"}}),
	}
	display := &recordingDisplay{}
	m := newTestMonitor(source, display, Options{})

	lines := m.Cycle(context.Background())

	if len(display.frames) != 1 {
		t.Fatalf("frames = %d, want 1", len(display.frames))
	}
	f := display.frames[0]

	wantFreq := []string{"CPU 0: 2.40 GHz", "CPU 1: 1.80 GHz", "CPU 2: N/D", "CPU 3: 3.60 GHz"}
	gotFreq := strings.Split(f.frequencies, "\n")
	if !strings.Contains(gotFreq[0], frequencyTitle) {
		t.Errorf("frequency header = %q", gotFreq[0])
	}
	for i, want := range wantFreq {
		if gotFreq[i+1] != want {
			t.Errorf("frequency line %d = %q, want %q", i, gotFreq[i+1], want)
		}
	}
	if !strings.HasSuffix(f.frequencies, "\n\n") {
		t.Errorf("frequency block should end with a blank line: %q", f.frequencies)
	}

	gotProc := strings.Split(strings.TrimSuffix(f.processes, "\n"), "\n")
	if !strings.Contains(gotProc[0], processTitle) {
		t.Errorf("process header = %q", gotProc[0])
	}
	if got, want := gotProc[1:], []string{"12  init", "50  bash"}; strings.Join(got, "|") != strings.Join(want, "|") {
		t.Errorf("process rows = %q, want %q", got, want)
	}

	// header + 4 cores + blank + header + 2 rows
	if lines != 9 {
		t.Errorf("lines = %d, want 9", lines)
	}
	if f.lines != lines || countLines(f) != lines {
		t.Errorf("drawn lines = %d, counted %d, returned %d", f.lines, countLines(f), lines)
	}
	if m.LastLines() != lines {
		t.Errorf("LastLines() = %d, want %d", m.LastLines(), lines)
	}
}

func TestCycleWithoutFrequencies(t *testing.T) {
	source := &fakeSource{}
	display := &recordingDisplay{}
	m := newTestMonitor(source, display, Options{CPUModel: "Intel(R) Core(TM) i7-3770"})

	lines := m.Cycle(context.Background())
	f := display.frames[0]

	if !strings.Contains(f.frequencies, "Could not read per-core frequency on this system.\n") {
		t.Errorf("missing no-data line: %q", f.frequencies)
	}
	if !strings.Contains(f.frequencies, "(Intel(R) Core(TM) i7-3770)") {
		t.Errorf("missing CPU model in header: %q", f.frequencies)
	}
	// header + no-data + blank + process header
	if lines != 4 || countLines(f) != 4 {
		t.Errorf("lines = %d, counted %d, want 4", lines, countLines(f))
	}
}

func TestCycleLineCountFollowsEachCycle(t *testing.T) {
	source := &fakeSource{samples: freq.Materialize(map[int]float64{0: 900})}
	display := &recordingDisplay{err: errors.New("terminal gone")}
	m := newTestMonitor(source, display, Options{})

	first := m.Cycle(context.Background())
	source.entries = []procs.Entry{{PID: 1, Name: "init"}, {PID: 2, Name: "kthreadd"}, {PID: 3, Name: "rcu_gp"}}
	second := m.Cycle(context.Background())

	if first != 4 || second != 7 {
		t.Errorf("line counts = %d, %d, want 4, 7", first, second)
	}
	for i, f := range display.frames {
		if countLines(f) != f.lines {
			t.Errorf("frame %d: counted %d lines, drawn with %d", i, countLines(f), f.lines)
		}
	}
	if !strings.Contains(display.frames[0].frequencies, "CPU 0: 900 MHz") {
		t.Errorf("unexpected frequency block: %q", display.frames[0].frequencies)
	}
}

func TestRunStopsWhenCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	source := &fakeSource{}
	display := &recordingDisplay{onDraw: func(n int) {
		if n == 3 {
			cancel()
		}
	}}
	m := newTestMonitor(source, display, Options{Interval: 5 * time.Millisecond})

	done := make(chan error, 1)
	go func() { done <- m.Run(ctx) }()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run() error = %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run() did not return after cancel")
	}

	if len(display.frames) != 3 {
		t.Errorf("frames = %d, want 3", len(display.frames))
	}
}

func TestRunSamplesOnceBeforeCheckingContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	source := &fakeSource{}
	m := newTestMonitor(source, &recordingDisplay{}, Options{Interval: time.Hour})
	if err := m.Run(ctx); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if source.calls != 1 {
		t.Errorf("source sampled %d times, want 1", source.calls)
	}
}
