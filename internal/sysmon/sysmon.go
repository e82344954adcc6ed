// Package sysmon reads host-wide CPU and memory usage for the dashboard
// charts and the pre-run memory check.
package sysmon

import (
	"context"
	"errors"

	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/mem"
)

// Host is one reading of the machine. Percentages are within [0, 100].
type Host struct {
	CPUPercent     float64
	MemPercent     float64
	AvailableBytes uint64
}

// Read samples the host. CPU usage is measured since the previous call in
// the process, so the first reading reports 0. Whatever can be read is
// returned together with the joined errors of what could not.
func Read(ctx context.Context) (Host, error) {
	var h Host
	pcts, cpuErr := cpu.PercentWithContext(ctx, 0, false)
	if cpuErr == nil && len(pcts) > 0 {
		h.CPUPercent = clamp(pcts[0])
	}
	vm, memErr := mem.VirtualMemoryWithContext(ctx)
	if memErr == nil {
		h.MemPercent = clamp(vm.UsedPercent)
		h.AvailableBytes = vm.Available
	}
	return h, errors.Join(cpuErr, memErr)
}

// AvailableMemory returns the bytes the OS can hand out without swapping.
func AvailableMemory(ctx context.Context) (uint64, error) {
	vm, err := mem.VirtualMemoryWithContext(ctx)
	if err != nil {
		return 0, err
	}
	return vm.Available, nil
}

func clamp(pct float64) float64 {
	return min(max(pct, 0), 100)
}
