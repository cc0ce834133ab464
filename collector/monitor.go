package collector

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog/log"

	"hostmon/models"
)

var ErrMonitorStopped = errors.New("monitor is not running")

// Options configures a Monitor. Zero values fall back to defaults.
type Options struct {
	CPUInterval     time.Duration
	CPUWindow       time.Duration
	CPUCombined     bool
	MemoryInterval  time.Duration
	ProcessInterval time.Duration
	ProcessLimit    int
	Source          ProcessSource
}

func (o Options) withDefaults() Options {
	if o.CPUInterval <= 0 {
		o.CPUInterval = DefaultCPUInterval
	}
	if o.CPUWindow <= 0 {
		o.CPUWindow = DefaultCPUWindow
	}
	if o.MemoryInterval <= 0 {
		o.MemoryInterval = DefaultMemoryInterval
	}
	if o.ProcessInterval <= 0 {
		o.ProcessInterval = DefaultProcessInterval
	}
	o.ProcessLimit = boundLimit(o.ProcessLimit)
	return o
}

type request func(ctx context.Context)

// Monitor drives the CPU and memory samplers and the process collector from
// a single goroutine. On-demand Refresh and Kill calls are queued onto the
// same goroutine, so no two operations ever overlap.
type Monitor struct {
	opts Options

	cpu     *CPUSampler
	mem     *MemorySampler
	procs   *ProcessCollector
	control ProcessControl

	requests chan request
	stopped  chan struct{}
}

func NewMonitor(opts Options) *Monitor {
	opts = opts.withDefaults()
	return &Monitor{
		opts:     opts,
		cpu:      NewCPUSampler(opts.CPUWindow, opts.CPUCombined),
		mem:      NewMemorySampler(),
		procs:    NewProcessCollector(opts.Source, opts.ProcessLimit),
		requests: make(chan request),
		stopped:  make(chan struct{}),
	}
}

// CPU returns the latest CPU snapshot or nil.
func (m *Monitor) CPU() *models.CPUSnapshot { return m.cpu.Latest() }

// Memory returns the latest memory snapshot or nil.
func (m *Monitor) Memory() *models.MemorySnapshot { return m.mem.Latest() }

// Processes returns the latest process snapshot or nil.
func (m *Monitor) Processes() *models.ProcessSnapshot { return m.procs.Latest() }

// Run samples everything once, then loops until ctx is cancelled. It must
// be called once; all tickers stop together when it returns.
func (m *Monitor) Run(ctx context.Context) error {
	defer close(m.stopped)

	cpuTick := time.NewTicker(m.opts.CPUInterval)
	defer cpuTick.Stop()
	memTick := time.NewTicker(m.opts.MemoryInterval)
	defer memTick.Stop()
	procTick := time.NewTicker(m.opts.ProcessInterval)
	defer procTick.Stop()

	log.Debug().
		Dur("cpu", m.opts.CPUInterval).
		Dur("memory", m.opts.MemoryInterval).
		Dur("processes", m.opts.ProcessInterval).
		Msg("monitor started")

	m.sampleCPU(ctx)
	m.sampleMemory(ctx)
	m.refreshProcesses(ctx)

	for {
		select {
		case <-ctx.Done():
			log.Debug().Msg("monitor stopped")
			return nil
		case <-cpuTick.C:
			m.sampleCPU(ctx)
		case <-memTick.C:
			m.sampleMemory(ctx)
		case <-procTick.C:
			m.refreshProcesses(ctx)
		case req := <-m.requests:
			req(ctx)
		}
	}
}

// Refresh rebuilds the process table for query on the monitor goroutine.
// Later timer ticks keep using query.
func (m *Monitor) Refresh(ctx context.Context, query string) (*models.ProcessSnapshot, error) {
	var (
		snap *models.ProcessSnapshot
		err  error
	)
	if doErr := m.do(ctx, func(runCtx context.Context) {
		snap, err = m.procs.Refresh(runCtx, query)
	}); doErr != nil {
		return nil, doErr
	}
	return snap, err
}

// Kill terminates pid on the monitor goroutine. It does not refresh the
// process table; callers do that after a successful kill.
func (m *Monitor) Kill(ctx context.Context, pid int) (models.KillOutcome, error) {
	var outcome models.KillOutcome
	if err := m.do(ctx, func(runCtx context.Context) {
		outcome = m.control.Kill(runCtx, pid)
	}); err != nil {
		return models.KillOutcome{}, err
	}
	return outcome, nil
}

// KillAndRefresh kills pid and, only when the kill succeeded, rebuilds the
// process table for query so the terminated process drops out. The returned
// snapshot is nil when no refresh ran. A refresh failure is returned
// alongside the successful outcome.
func (m *Monitor) KillAndRefresh(ctx context.Context, pid int, query string) (models.KillOutcome, *models.ProcessSnapshot, error) {
	outcome, err := m.Kill(ctx, pid)
	if err != nil || !outcome.OK() {
		return outcome, nil, err
	}
	snap, err := m.Refresh(ctx, query)
	return outcome, snap, err
}

func (m *Monitor) do(ctx context.Context, fn func(context.Context)) error {
	done := make(chan struct{})
	req := func(runCtx context.Context) {
		defer close(done)
		fn(runCtx)
	}

	select {
	case m.requests <- req:
	case <-m.stopped:
		return ErrMonitorStopped
	case <-ctx.Done():
		return ctx.Err()
	}

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (m *Monitor) sampleCPU(ctx context.Context) {
	if _, err := m.cpu.Sample(ctx); err != nil {
		log.Warn().Err(err).Msg("cpu tick failed")
	}
}

func (m *Monitor) sampleMemory(ctx context.Context) {
	if _, err := m.mem.Sample(ctx); err != nil {
		log.Warn().Err(err).Msg("memory tick failed")
	}
}

func (m *Monitor) refreshProcesses(ctx context.Context) {
	if _, err := m.procs.Refresh(ctx, m.procs.Query()); err != nil {
		log.Warn().Err(err).Msg("process tick failed")
	}
}

// Report bundles host info with the latest snapshots.
func (m *Monitor) Report(ctx context.Context) *models.Report {
	return &models.Report{
		Timestamp: now(),
		Host:      CollectHostInfo(ctx),
		CPU:       m.CPU(),
		Memory:    m.Memory(),
		Processes: m.Processes(),
	}
}
