package freq

import (
	"context"

	"github.com/sirupsen/logrus"
)

// Sample represents the current clock speed of one logical CPU
type Sample struct {
	Core      int     `json:"core"`
	MHz       float64 `json:"mhz"`
	Available bool    `json:"available"`
}

// Options configures where a Reader looks for its data
type Options struct {
	SysRoot  string
	ProcRoot string
	Logger   *logrus.Logger
}

// Reader interface for per-core frequency monitoring
type Reader interface {
	// CoreFrequencies never fails: unreadable cores come back unavailable and a
	// system with no usable source yields an empty slice.
	CoreFrequencies(ctx context.Context) []Sample
}

// NewReader creates a new frequency reader for the current platform
func NewReader(opts Options) Reader {
	return newPlatformReader(opts.withDefaults())
}

func (o Options) withDefaults() Options {
	if o.SysRoot == "" {
		o.SysRoot = "/sys"
	}
	if o.ProcRoot == "" {
		o.ProcRoot = "/proc"
	}
	if o.Logger == nil {
		o.Logger = logrus.StandardLogger()
	}
	return o
}

// Materialize turns a sparse core index to MHz mapping into a dense slice sized
// to the highest index + 1. Unseen indices and non-positive values are unavailable.
func Materialize(values map[int]float64) []Sample {
	maxCore := -1
	for core := range values {
		if core > maxCore {
			maxCore = core
		}
	}
	if maxCore < 0 {
		return nil
	}

	samples := make([]Sample, maxCore+1)
	for i := range samples {
		samples[i] = Sample{Core: i}
	}
	for core, mhz := range values {
		if core < 0 || mhz <= 0 {
			continue
		}
		samples[core].MHz = mhz
		samples[core].Available = true
	}
	return samples
}

// HasData reports whether at least one sample carries a frequency
func HasData(samples []Sample) bool {
	for _, s := range samples {
		if s.Available {
			return true
		}
	}
	return false
}
