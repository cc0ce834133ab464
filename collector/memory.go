package collector

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/shirou/gopsutil/v3/mem"

	"hostmon/errors"
	"hostmon/models"
)

const DefaultMemoryInterval = 1500 * time.Millisecond

var (
	virtualMemory = mem.VirtualMemoryWithContext
	swapMemory    = mem.SwapMemoryWithContext
)

// MemorySampler reads physical and swap counters. Neither read blocks.
type MemorySampler struct {
	latest atomic.Pointer[models.MemorySnapshot]
}

func NewMemorySampler() *MemorySampler {
	return &MemorySampler{}
}

func (s *MemorySampler) Latest() *models.MemorySnapshot {
	return s.latest.Load()
}

// Sample reads both counters and publishes them together; a failure of
// either leaves the previous snapshot published.
func (s *MemorySampler) Sample(ctx context.Context) (*models.MemorySnapshot, error) {
	vm, err := virtualMemory(ctx)
	if err != nil {
		return nil, errors.Sampling("memory", err)
	}
	sw, err := swapMemory(ctx)
	if err != nil {
		return nil, errors.Sampling("swap", err)
	}

	used := vm.Used
	if used > vm.Total {
		used = vm.Total
	}
	swapUsed := sw.Used
	if swapUsed > sw.Total {
		swapUsed = sw.Total
	}

	snap := &models.MemorySnapshot{
		Timestamp:   now(),
		Total:       vm.Total,
		Available:   vm.Available,
		Used:        used,
		Percent:     clampPercent(vm.UsedPercent),
		SwapTotal:   sw.Total,
		SwapUsed:    swapUsed,
		SwapPercent: clampPercent(sw.UsedPercent),
	}
	s.latest.Store(snap)
	return snap, nil
}
