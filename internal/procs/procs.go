package procs

import (
	"context"
	"sort"

	"github.com/sirupsen/logrus"
)

// Entry represents one running process
type Entry struct {
	PID  int    `json:"pid"`
	Name string `json:"name"`
}

// Options configures where a Lister looks for processes
type Options struct {
	ProcRoot string
	Logger   *logrus.Logger
}

// Lister interface for process enumeration
type Lister interface {
	// Processes returns a fresh snapshot, unique by PID and sorted by PID.
	// Processes whose name cannot be resolved are left out.
	Processes(ctx context.Context) []Entry
}

// NewLister creates a new process lister for the current platform
func NewLister(opts Options) Lister {
	if opts.ProcRoot == "" {
		opts.ProcRoot = "/proc"
	}
	if opts.Logger == nil {
		opts.Logger = logrus.StandardLogger()
	}
	return newPlatformLister(opts)
}

// Normalize drops nameless entries, keeps the first entry seen for each PID and
// sorts the result by PID
func Normalize(entries []Entry) []Entry {
	seen := make(map[int]bool, len(entries))
	out := make([]Entry, 0, len(entries))
	for _, e := range entries {
		if e.PID < 0 || e.Name == "" || seen[e.PID] {
			continue
		}
		seen[e.PID] = true
		out = append(out, e)
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].PID < out[j].PID
	})
	return out
}
