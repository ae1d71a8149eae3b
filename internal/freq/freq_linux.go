//go:build linux

package freq

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	linuxproc "github.com/c9s/goprocinfo/linux"
	"github.com/sirupsen/logrus"
)

var cpuDirPattern = regexp.MustCompile(`^cpu([0-9]+)$`)

// LinuxReader implements per-core frequency monitoring for Linux
type LinuxReader struct {
	cpuDir  string
	cpuInfo string
	logger  *logrus.Logger
}

// newPlatformReader creates a new Linux frequency reader
func newPlatformReader(opts Options) Reader {
	return &LinuxReader{
		cpuDir:  filepath.Join(opts.SysRoot, "devices", "system", "cpu"),
		cpuInfo: filepath.Join(opts.ProcRoot, "cpuinfo"),
		logger:  opts.Logger,
	}
}

// CoreFrequencies returns the current frequency of every logical CPU, reading
// cpufreq first and falling back to /proc/cpuinfo
func (r *LinuxReader) CoreFrequencies(ctx context.Context) []Sample {
	samples, err := r.readScalingFrequencies()
	if err != nil {
		r.logger.WithError(err).Debug("cpufreq unavailable")
	}
	if HasData(samples) {
		return samples
	}

	samples, err = r.readCPUInfoFrequencies()
	if err != nil {
		r.logger.WithError(err).Debug("cpuinfo unavailable")
		return nil
	}
	if !HasData(samples) {
		return nil
	}
	return samples
}

// readScalingFrequencies reads cpuN/cpufreq/scaling_cur_freq (kHz) for every cpuN directory
func (r *LinuxReader) readScalingFrequencies() ([]Sample, error) {
	entries, err := os.ReadDir(r.cpuDir)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", r.cpuDir, err)
	}

	values := make(map[int]float64)
	for _, entry := range entries {
		m := cpuDirPattern.FindStringSubmatch(entry.Name())
		if m == nil {
			continue
		}
		core, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}

		khz, err := readKHz(filepath.Join(r.cpuDir, entry.Name(), "cpufreq", "scaling_cur_freq"))
		if err != nil {
			r.logger.WithError(err).WithField("core", core).Debug("scaling_cur_freq unreadable")
			values[core] = 0
			continue
		}
		values[core] = float64(khz) / 1000
	}

	return Materialize(values), nil
}

// readCPUInfoFrequencies parses the "cpu MHz" field of every processor block
func (r *LinuxReader) readCPUInfoFrequencies() (samples []Sample, err error) {
	data, err := os.ReadFile(r.cpuInfo)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", r.cpuInfo, err)
	}
	content := sanitizeCPUInfo(string(data))
	if content == "" {
		return nil, nil
	}

	// goprocinfo only parses from a path
	tmp, err := os.CreateTemp("", "cpuinfo")
	if err != nil {
		return nil, fmt.Errorf("failed to stage cpuinfo: %w", err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.WriteString(content); err != nil {
		tmp.Close()
		return nil, fmt.Errorf("failed to stage cpuinfo: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return nil, fmt.Errorf("failed to stage cpuinfo: %w", err)
	}

	defer func() {
		if rec := recover(); rec != nil {
			samples, err = nil, fmt.Errorf("failed to parse %s: %v", r.cpuInfo, rec)
		}
	}()
	info, err := linuxproc.ReadCPUInfo(tmp.Name())
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", r.cpuInfo, err)
	}

	values := make(map[int]float64, len(info.Processors))
	for _, p := range info.Processors {
		if _, seen := values[int(p.Id)]; seen && p.MHz <= 0 {
			continue
		}
		values[int(p.Id)] = p.MHz
	}

	return Materialize(values), nil
}

// sanitizeCPUInfo keeps blank separators and "key : value" lines, drops the
// cache size field, and terminates the last processor block with a blank line
func sanitizeCPUInfo(content string) string {
	var b strings.Builder
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimRight(line, " \t\r")
		if line == "" {
			b.WriteString("\n")
			continue
		}
		key, _, found := strings.Cut(line, ":")
		if !found || strings.TrimSpace(key) == "cache size" {
			continue
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	trimmed := strings.Trim(b.String(), "\n")
	if trimmed == "" {
		return ""
	}
	return trimmed + "\n\n"
}

func readKHz(path string) (int64, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}

	khz, err := strconv.ParseInt(strings.TrimSpace(string(data)), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid frequency in %s: %w", path, err)
	}
	return khz, nil
}
