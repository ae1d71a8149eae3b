package monitor

import (
	"context"
	"strings"
	"time"

	"github.com/CristiGvl/picoCPUMon/internal/freq"
	"github.com/CristiGvl/picoCPUMon/internal/procs"
	"github.com/charmbracelet/lipgloss"
	"github.com/sirupsen/logrus"
)

const defaultInterval = time.Second

// Source provides the two samples taken every cycle
type Source interface {
	CoreFrequencies(ctx context.Context) []freq.Sample
	Processes(ctx context.Context) []procs.Entry
}

// Display receives the formatted frequency and process blocks of one cycle
// together with the number of lines they span
type Display interface {
	Draw(frequencies, processes string, lines int) error
}

// Options configures a Monitor
type Options struct {
	Interval time.Duration
	CPUModel string
	Logger   *logrus.Logger
	Renderer *lipgloss.Renderer
}

// Monitor samples a Source and redraws the report in place
type Monitor struct {
	source   Source
	display  Display
	interval time.Duration
	cpuModel string
	header   lipgloss.Style
	logger   *logrus.Logger

	lastLines int
}

// New creates a Monitor
func New(source Source, display Display, opts Options) *Monitor {
	if opts.Interval <= 0 {
		opts.Interval = defaultInterval
	}
	if opts.Logger == nil {
		opts.Logger = logrus.StandardLogger()
	}
	if opts.Renderer == nil {
		opts.Renderer = lipgloss.DefaultRenderer()
	}

	return &Monitor{
		source:   source,
		display:  display,
		interval: opts.Interval,
		cpuModel: strings.TrimSpace(opts.CPUModel),
		header:   opts.Renderer.NewStyle().Bold(true),
		logger:   opts.Logger,
	}
}

// Run samples and redraws until ctx is cancelled. The context is only checked
// between cycles.
func (m *Monitor) Run(ctx context.Context) error {
	m.logger.WithField("interval", m.interval).Info("Monitor started")

	for {
		m.Cycle(ctx)

		select {
		case <-ctx.Done():
			m.logger.Info("Monitor stopped")
			return nil
		case <-time.After(m.interval):
		}
	}
}

// Cycle takes one sample, draws it and returns the number of lines drawn
func (m *Monitor) Cycle(ctx context.Context) int {
	samples := m.source.CoreFrequencies(ctx)
	entries := m.source.Processes(ctx)

	var frequencies, processes strings.Builder
	lines := m.renderFrequencies(&frequencies, samples)
	lines += m.renderProcesses(&processes, entries)

	if err := m.display.Draw(frequencies.String(), processes.String(), lines); err != nil {
		m.logger.WithError(err).Debug("Failed to draw report")
	}

	m.lastLines = lines
	return lines
}

// LastLines returns the number of lines drawn by the most recent cycle
func (m *Monitor) LastLines() int {
	return m.lastLines
}
