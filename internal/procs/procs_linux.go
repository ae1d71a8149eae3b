//go:build linux

package procs

import (
	"context"
	"strings"

	"github.com/prometheus/procfs"
	"github.com/sirupsen/logrus"
)

// LinuxLister implements process enumeration for Linux
type LinuxLister struct {
	procRoot string
	logger   *logrus.Logger
}

// newPlatformLister creates a new Linux process lister
func newPlatformLister(opts Options) Lister {
	return &LinuxLister{
		procRoot: opts.ProcRoot,
		logger:   opts.Logger,
	}
}

// Processes lists the numeric entries under the proc root
func (l *LinuxLister) Processes(ctx context.Context) []Entry {
	fs, err := procfs.NewFS(l.procRoot)
	if err != nil {
		l.logger.WithError(err).Debug("proc filesystem unavailable")
		return []Entry{}
	}

	all, err := fs.AllProcs()
	if err != nil {
		l.logger.WithError(err).Debug("failed to list processes")
		return []Entry{}
	}

	entries := make([]Entry, 0, len(all))
	for _, p := range all {
		name := processName(p)
		if name == "" {
			continue // Gone or unreadable
		}
		entries = append(entries, Entry{PID: p.PID, Name: name})
	}

	return Normalize(entries)
}

// processName reads comm, falling back to the Name field of status
func processName(p procfs.Proc) string {
	if comm, err := p.Comm(); err == nil && comm != "" {
		return comm
	}

	status, err := p.NewStatus()
	if err != nil {
		return ""
	}
	return strings.TrimSpace(status.Name)
}
