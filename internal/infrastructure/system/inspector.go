// Package system samples host and process resource usage for the
// /health/system endpoint.
package system

import (
	"context"
	"fmt"
	"math"
	"os"
	"runtime"
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/disk"
	"github.com/shirou/gopsutil/v3/mem"
	"github.com/shirou/gopsutil/v3/process"
)

const (
	StatusHealthy = "healthy"
	StatusWarning = "warning"
	StatusError   = "error"

	percentThreshold = 80.0
	processMemoryMB  = 500.0
	cpuSampleWindow  = 100 * time.Millisecond
)

// Gauge is one measured resource with its derived status.
type Gauge struct {
	Percent float64 `json:"percent"`
	Status  string  `json:"status"`
}

type ProcessGauge struct {
	MemoryMB float64 `json:"memory_mb"`
	Status   string  `json:"status"`
}

type Report struct {
	Status    string       `json:"status"`
	CPU       Gauge        `json:"cpu"`
	Memory    Gauge        `json:"memory"`
	Disk      Gauge        `json:"disk"`
	Process   ProcessGauge `json:"process"`
	Platform  string       `json:"platform"`
	GoVersion string       `json:"go_version"`
	Message   string       `json:"message,omitempty"`
}

// Inspector reads resource usage through gopsutil.
type Inspector struct {
	dir string
}

// NewInspector measures disk usage of dir; empty means the working directory.
func NewInspector(dir string) *Inspector {
	if dir == "" {
		if wd, err := os.Getwd(); err == nil {
			dir = wd
		} else {
			dir = "/"
		}
	}
	return &Inspector{dir: dir}
}

// Check samples the host. Any sampling failure yields an error-status report.
func (p *Inspector) Check(ctx context.Context) Report {
	r, err := p.sample(ctx)
	if err != nil {
		return Report{
			Status:    StatusError,
			Message:   err.Error(),
			Platform:  platform(),
			GoVersion: runtime.Version(),
		}
	}
	return r
}

func (p *Inspector) sample(ctx context.Context) (Report, error) {
	cpus, err := cpu.PercentWithContext(ctx, cpuSampleWindow, false)
	if err != nil {
		return Report{}, fmt.Errorf("cpu: %w", err)
	}
	var cpuPercent float64
	if len(cpus) > 0 {
		cpuPercent = cpus[0]
	}

	vm, err := mem.VirtualMemoryWithContext(ctx)
	if err != nil {
		return Report{}, fmt.Errorf("memory: %w", err)
	}

	du, err := disk.UsageWithContext(ctx, p.dir)
	if err != nil {
		return Report{}, fmt.Errorf("disk: %w", err)
	}

	proc, err := process.NewProcessWithContext(ctx, int32(os.Getpid()))
	if err != nil {
		return Report{}, fmt.Errorf("process: %w", err)
	}
	mi, err := proc.MemoryInfoWithContext(ctx)
	if err != nil {
		return Report{}, fmt.Errorf("process memory: %w", err)
	}
	rssMB := float64(mi.RSS) / (1024 * 1024)

	r := Report{
		CPU:       Gauge{Percent: round2(cpuPercent), Status: percentStatus(cpuPercent)},
		Memory:    Gauge{Percent: round2(vm.UsedPercent), Status: percentStatus(vm.UsedPercent)},
		Disk:      Gauge{Percent: round2(du.UsedPercent), Status: percentStatus(du.UsedPercent)},
		Process:   ProcessGauge{MemoryMB: round2(rssMB), Status: thresholdStatus(rssMB, processMemoryMB)},
		Platform:  platform(),
		GoVersion: runtime.Version(),
	}
	r.Status = Worst(r.CPU.Status, r.Memory.Status, r.Disk.Status, r.Process.Status)
	return r, nil
}

// Worst folds statuses with error > warning > healthy. Unknown values
// such as "not_configured" do not affect the result.
func Worst(statuses ...string) string {
	out := StatusHealthy
	for _, s := range statuses {
		switch s {
		case StatusError:
			return StatusError
		case StatusWarning:
			out = StatusWarning
		}
	}
	return out
}

func percentStatus(v float64) string {
	return thresholdStatus(v, percentThreshold)
}

func thresholdStatus(v, limit float64) string {
	if v > limit {
		return StatusWarning
	}
	return StatusHealthy
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func platform() string {
	return runtime.GOOS + "/" + runtime.GOARCH
}
