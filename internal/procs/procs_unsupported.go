//go:build !linux && !windows

package procs

import (
	"context"

	"github.com/shirou/gopsutil/v3/process"
	"github.com/sirupsen/logrus"
)

// PortableLister enumerates processes through gopsutil on other platforms
type PortableLister struct {
	logger *logrus.Logger
}

// newPlatformLister creates a fallback process lister for other platforms
func newPlatformLister(opts Options) Lister {
	return &PortableLister{logger: opts.Logger}
}

// Processes returns every process gopsutil can name
func (l *PortableLister) Processes(ctx context.Context) []Entry {
	all, err := process.ProcessesWithContext(ctx)
	if err != nil {
		l.logger.WithError(err).Debug("failed to list processes")
		return []Entry{}
	}

	entries := make([]Entry, 0, len(all))
	for _, p := range all {
		name, err := p.NameWithContext(ctx)
		if err != nil {
			continue // Skip processes we can't read
		}
		entries = append(entries, Entry{PID: int(p.Pid), Name: name})
	}

	return Normalize(entries)
}
