package platform

import (
	"context"
	"fmt"
	"runtime"

	"github.com/CristiGvl/picoCPUMon/internal/freq"
	"github.com/CristiGvl/picoCPUMon/internal/procs"
	"github.com/sirupsen/logrus"
)

// SupportedOS represents operating systems with a native reader implementation
type SupportedOS string

const (
	Linux   SupportedOS = "linux"
	Windows SupportedOS = "windows"
)

// GetOS returns the current operating system
func GetOS() SupportedOS {
	return SupportedOS(runtime.GOOS)
}

// IsSupported returns true if the current OS has native readers
func IsSupported() bool {
	os := GetOS()
	return os == Linux || os == Windows
}

// ValidateSupport returns an error if the current OS only gets the portable readers
func ValidateSupport() error {
	if !IsSupported() {
		return fmt.Errorf("no native readers for %s, using portable gopsutil readers. Native: linux, windows", runtime.GOOS)
	}
	return nil
}

// Options configures the readers behind a System
type Options struct {
	SysRoot  string
	ProcRoot string
	Logger   *logrus.Logger
}

// System samples core frequencies and processes from the local machine
type System struct {
	freqReader freq.Reader
	procLister procs.Lister
}

// New creates a System backed by the readers for the current platform
func New(opts Options) *System {
	return &System{
		freqReader: freq.NewReader(freq.Options{
			SysRoot:  opts.SysRoot,
			ProcRoot: opts.ProcRoot,
			Logger:   opts.Logger,
		}),
		procLister: procs.NewLister(procs.Options{
			ProcRoot: opts.ProcRoot,
			Logger:   opts.Logger,
		}),
	}
}

// CoreFrequencies returns the current frequency of every logical CPU
func (s *System) CoreFrequencies(ctx context.Context) []freq.Sample {
	return s.freqReader.CoreFrequencies(ctx)
}

// Processes returns the running processes sorted by PID
func (s *System) Processes(ctx context.Context) []procs.Entry {
	return s.procLister.Processes(ctx)
}
