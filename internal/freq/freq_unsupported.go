//go:build !linux && !windows

package freq

import (
	"context"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/sirupsen/logrus"
)

// PortableReader reads whatever per-CPU frequency gopsutil reports on platforms
// without a dedicated implementation
type PortableReader struct {
	logger *logrus.Logger
}

// newPlatformReader creates a fallback frequency reader for other platforms
func newPlatformReader(opts Options) Reader {
	return &PortableReader{logger: opts.Logger}
}

// CoreFrequencies returns the frequencies gopsutil reports, indexed by CPU
func (r *PortableReader) CoreFrequencies(ctx context.Context) []Sample {
	infos, err := cpu.InfoWithContext(ctx)
	if err != nil {
		r.logger.WithError(err).Debug("cpu info unavailable")
		return nil
	}

	values := make(map[int]float64, len(infos))
	for _, info := range infos {
		values[int(info.CPU)] = info.Mhz
	}

	samples := Materialize(values)
	if !HasData(samples) {
		return nil
	}
	return samples
}
