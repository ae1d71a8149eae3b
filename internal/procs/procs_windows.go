//go:build windows

package procs

import (
	"context"
	"errors"
	"fmt"
	"unsafe"

	"github.com/sirupsen/logrus"
	"golang.org/x/sys/windows"
)

// WindowsLister implements process enumeration for Windows
type WindowsLister struct {
	logger *logrus.Logger
}

// newPlatformLister creates a new Windows process lister
func newPlatformLister(opts Options) Lister {
	return &WindowsLister{logger: opts.Logger}
}

// Processes walks a Toolhelp32 process snapshot
func (l *WindowsLister) Processes(ctx context.Context) []Entry {
	entries, err := snapshotProcesses()
	if err != nil {
		l.logger.WithError(err).Debug("process snapshot unavailable")
	}
	return Normalize(entries)
}

func snapshotProcesses() ([]Entry, error) {
	snap, err := windows.CreateToolhelp32Snapshot(windows.TH32CS_SNAPPROCESS, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to create process snapshot: %w", err)
	}
	defer windows.CloseHandle(snap)

	var pe windows.ProcessEntry32
	pe.Size = uint32(unsafe.Sizeof(pe))

	var entries []Entry
	if err := windows.Process32First(snap, &pe); err != nil {
		return nil, fmt.Errorf("failed to read first process: %w", err)
	}
	for {
		entries = append(entries, Entry{
			PID:  int(pe.ProcessID),
			Name: windows.UTF16ToString(pe.ExeFile[:]),
		})

		if err := windows.Process32Next(snap, &pe); err != nil {
			if errors.Is(err, windows.ERROR_NO_MORE_FILES) {
				break
			}
			return entries, fmt.Errorf("failed to read next process: %w", err)
		}
	}

	return entries, nil
}
