package collector

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/shirou/gopsutil/v3/cpu"

	"hostmon/errors"
	"hostmon/models"
)

const (
	DefaultCPUInterval = 1500 * time.Millisecond
	DefaultCPUWindow   = 100 * time.Millisecond
)

var (
	cpuPercent = cpu.PercentWithContext
	cpuCounts  = cpu.CountsWithContext
)

// CPUSampler measures aggregate and per-core utilisation over a short
// blocking window and publishes the result as a CPUSnapshot.
type CPUSampler struct {
	window time.Duration
	// combined takes a single per-core window and averages it instead of
	// measuring the aggregate separately.
	combined bool

	latest atomic.Pointer[models.CPUSnapshot]
}

func NewCPUSampler(window time.Duration, combined bool) *CPUSampler {
	if window <= 0 {
		window = DefaultCPUWindow
	}
	return &CPUSampler{window: window, combined: combined}
}

// Latest returns the last published snapshot, nil before the first success.
func (s *CPUSampler) Latest() *models.CPUSnapshot {
	return s.latest.Load()
}

// Sample blocks for one or two measurement windows. On failure the
// previously published snapshot stays in place.
func (s *CPUSampler) Sample(ctx context.Context) (*models.CPUSnapshot, error) {
	snap, err := s.measure(ctx)
	if err != nil {
		return nil, err
	}
	s.latest.Store(snap)
	return snap, nil
}

func (s *CPUSampler) measure(ctx context.Context) (*models.CPUSnapshot, error) {
	var overall float64
	if !s.combined {
		total, err := cpuPercent(ctx, s.window, false)
		if err != nil {
			return nil, errors.Sampling("cpu", err)
		}
		if len(total) == 0 {
			return nil, errors.Sampling("cpu", fmt.Errorf("no aggregate value reported"))
		}
		overall = total[0]
	}

	perCore, err := cpuPercent(ctx, s.window, true)
	if err != nil {
		return nil, errors.Sampling("cpu", err)
	}
	if len(perCore) == 0 {
		return nil, errors.Sampling("cpu", fmt.Errorf("no per-core values reported"))
	}

	cores := make([]float64, len(perCore))
	for i, v := range perCore {
		cores[i] = clampPercent(v)
	}
	if s.combined {
		overall = mean(cores)
	}

	logical, err := cpuCounts(ctx, true)
	if err != nil || logical != len(cores) {
		if err == nil {
			log.Debug().Int("counted", logical).Int("reported", len(cores)).Msg("logical core count mismatch")
		}
		logical = len(cores)
	}
	physical, err := cpuCounts(ctx, false)
	if err != nil || physical < 1 {
		physical = logical
	}

	return &models.CPUSnapshot{
		Timestamp:     now(),
		Percent:       clampPercent(overall),
		PerCore:       cores,
		PhysicalCores: physical,
		LogicalCores:  logical,
	}, nil
}
