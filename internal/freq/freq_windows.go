//go:build windows

package freq

import (
	"context"
	"fmt"
	"runtime"
	"strconv"
	"strings"
	"unsafe"

	"github.com/StackExchange/wmi"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/sirupsen/logrus"
	"golang.org/x/sys/windows"
)

// ProcessorInformation level of POWER_INFORMATION_LEVEL
const processorInformation = 11

// logical processors per processor group
const groupSize = 64

var (
	modpowrprof                = windows.NewLazySystemDLL("powrprof.dll")
	procCallNtPowerInformation = modpowrprof.NewProc("CallNtPowerInformation")
)

// processorPowerInformation mirrors PROCESSOR_POWER_INFORMATION
type processorPowerInformation struct {
	Number           uint32
	MaxMhz           uint32
	CurrentMhz       uint32
	MhzLimit         uint32
	MaxIdleState     uint32
	CurrentIdleState uint32
}

// Win32_PerfFormattedData_Counters_ProcessorInformation represents per logical CPU performance counters
type Win32_PerfFormattedData_Counters_ProcessorInformation struct {
	Name                        string
	ProcessorFrequency          uint64
	PercentProcessorPerformance uint64
}

// WindowsReader implements per-core frequency monitoring for Windows
type WindowsReader struct {
	logger *logrus.Logger
}

// newPlatformReader creates a new Windows frequency reader
func newPlatformReader(opts Options) Reader {
	return &WindowsReader{logger: opts.Logger}
}

// CoreFrequencies returns the current frequency of every logical CPU, querying the
// power information API first and the WMI performance counters as fallback
func (r *WindowsReader) CoreFrequencies(ctx context.Context) []Sample {
	samples, err := r.readPowerInformation(ctx)
	if err != nil {
		r.logger.WithError(err).Debug("power information unavailable")
	}
	if HasData(samples) {
		return samples
	}

	samples, err = r.readPerfCounters()
	if err != nil {
		r.logger.WithError(err).Debug("processor performance counters unavailable")
		return nil
	}
	if !HasData(samples) {
		return nil
	}
	return samples
}

// readPowerInformation calls CallNtPowerInformation(ProcessorInformation), one record per logical CPU
func (r *WindowsReader) readPowerInformation(ctx context.Context) ([]Sample, error) {
	count, err := cpu.CountsWithContext(ctx, true)
	if err != nil || count <= 0 {
		count = runtime.NumCPU()
	}

	if err := procCallNtPowerInformation.Find(); err != nil {
		return nil, fmt.Errorf("CallNtPowerInformation not available: %w", err)
	}

	buf := make([]processorPowerInformation, count)
	size := uintptr(count) * unsafe.Sizeof(buf[0])
	status, _, _ := procCallNtPowerInformation.Call(
		uintptr(processorInformation),
		0,
		0,
		uintptr(unsafe.Pointer(&buf[0])),
		size,
	)
	if status != 0 {
		return nil, fmt.Errorf("CallNtPowerInformation failed: NTSTATUS 0x%08X", uint32(status))
	}

	values := make(map[int]float64, count)
	for i, info := range buf {
		core := int(info.Number)
		if core >= count {
			core = i
		}
		values[core] = float64(info.CurrentMhz)
	}

	return Materialize(values), nil
}

// readPerfCounters derives the current MHz from the nominal frequency and the performance percentage
func (r *WindowsReader) readPerfCounters() ([]Sample, error) {
	var counters []Win32_PerfFormattedData_Counters_ProcessorInformation
	query := "SELECT Name, ProcessorFrequency, PercentProcessorPerformance FROM Win32_PerfFormattedData_Counters_ProcessorInformation"
	if err := wmi.Query(query, &counters); err != nil {
		return nil, fmt.Errorf("failed to query processor information: %w", err)
	}

	values := make(map[int]float64, len(counters))
	for _, c := range counters {
		core, ok := parseInstanceName(c.Name)
		if !ok {
			continue
		}
		values[core] = float64(c.ProcessorFrequency) * float64(c.PercentProcessorPerformance) / 100
	}

	return Materialize(values), nil
}

// parseInstanceName maps a "<group>,<number>" counter instance to a logical CPU index
func parseInstanceName(name string) (int, bool) {
	group, number, found := strings.Cut(name, ",")
	if !found {
		return 0, false
	}

	g, err := strconv.Atoi(strings.TrimSpace(group))
	if err != nil {
		return 0, false
	}
	n, err := strconv.Atoi(strings.TrimSpace(number))
	if err != nil {
		return 0, false
	}
	return g*groupSize + n, true
}
