package collector

import (
	"context"
	"errors"
	"os"
	"sort"
	"strconv"
	"strings"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/shirou/gopsutil/v3/process"

	apperrors "hostmon/errors"
	"hostmon/models"
)

const (
	DefaultProcessInterval = 2 * time.Second
	DefaultProcessLimit    = 30
)

// ProcessInfo is what the OS reported for one process. Empty fields mean
// the value could not be read.
//
// CPU is gopsutil's CPUPercent: the average utilisation since the process
// started, not the usage over the last interval. A process that was busy
// earlier and is idle now still sorts high.
type ProcessInfo struct {
	PID    int
	Name   string
	CPU    float64
	Memory float64
	Status string
}

// ProcessResult is one enumerated process or the transient error that
// prevented reading it.
type ProcessResult struct {
	Info ProcessInfo
	Err  error
}

// ProcessSource enumerates live processes. A returned error means the
// enumeration itself failed; per-process failures go into ProcessResult.Err.
type ProcessSource interface {
	Processes(ctx context.Context) ([]ProcessResult, error)
}

// ProcessCollector builds filtered, CPU-sorted, bounded process tables.
type ProcessCollector struct {
	source ProcessSource
	limit  int
	query  string

	latest atomic.Pointer[models.ProcessSnapshot]
}

func NewProcessCollector(source ProcessSource, limit int) *ProcessCollector {
	if source == nil {
		source = SystemProcesses{}
	}
	return &ProcessCollector{source: source, limit: boundLimit(limit)}
}

func (c *ProcessCollector) Latest() *models.ProcessSnapshot {
	return c.latest.Load()
}

// Query returns the query of the most recent Refresh; timer ticks reuse it.
func (c *ProcessCollector) Query() string {
	return c.query
}

// Refresh enumerates processes and publishes a new snapshot for query.
// Only a failure of the enumeration itself is returned, in which case the
// previous snapshot stays published.
func (c *ProcessCollector) Refresh(ctx context.Context, query string) (*models.ProcessSnapshot, error) {
	c.query = query

	results, err := c.source.Processes(ctx)
	if err != nil {
		return nil, apperrors.Enumeration(err)
	}

	snap := BuildSnapshot(results, query, c.limit)
	c.latest.Store(snap)
	return snap, nil
}

// BuildSnapshot turns raw enumeration results into a ProcessSnapshot:
// drops failed and pid<=0 entries, fills defaults, sorts by CPU
// descending (stable), filters by query and truncates to limit. The limit
// never exceeds DefaultProcessLimit.
func BuildSnapshot(results []ProcessResult, query string, limit int) *models.ProcessSnapshot {
	records := make([]models.ProcessRecord, 0, len(results))
	for _, r := range results {
		if r.Err != nil || r.Info.PID <= 0 {
			continue
		}
		records = append(records, toRecord(r.Info))
	}

	sort.SliceStable(records, func(i, j int) bool {
		return records[i].CPU > records[j].CPU
	})

	if query != "" {
		filtered := records[:0]
		for _, rec := range records {
			if matchesQuery(rec, query) {
				filtered = append(filtered, rec)
			}
		}
		records = filtered
	}

	limit = boundLimit(limit)
	if len(records) > limit {
		records = records[:limit]
	}

	return &models.ProcessSnapshot{
		Timestamp: now(),
		Query:     query,
		Records:   records,
	}
}

// boundLimit maps non-positive limits to the default and caps the rest at it.
func boundLimit(limit int) int {
	if limit <= 0 || limit > DefaultProcessLimit {
		return DefaultProcessLimit
	}
	return limit
}

func toRecord(info ProcessInfo) models.ProcessRecord {
	rec := models.ProcessRecord{
		PID:    info.PID,
		Name:   info.Name,
		CPU:    nonNegative(info.CPU),
		Memory: nonNegative(info.Memory),
		Status: info.Status,
	}
	if rec.Name == "" {
		rec.Name = models.UnknownName
	}
	if rec.Status == "" {
		rec.Status = models.UnknownStatus
	}
	return rec
}

// matchesQuery: name contains query ignoring case, or the decimal pid
// contains it literally.
func matchesQuery(rec models.ProcessRecord, query string) bool {
	if strings.Contains(strings.ToLower(rec.Name), strings.ToLower(query)) {
		return true
	}
	return strings.Contains(strconv.Itoa(rec.PID), query)
}

// SystemProcesses enumerates the host's processes through gopsutil.
type SystemProcesses struct{}

func (SystemProcesses) Processes(ctx context.Context) ([]ProcessResult, error) {
	procs, err := process.ProcessesWithContext(ctx)
	if err != nil {
		return nil, err
	}

	results := make([]ProcessResult, 0, len(procs))
	for _, p := range procs {
		info, err := readProcess(ctx, p)
		results = append(results, ProcessResult{Info: info, Err: err})
	}
	return results, nil
}

// readProcess reads the table columns for p. Errors meaning the process
// is gone, inaccessible or a zombie become a transient error; any other
// read failure just leaves the field empty.
func readProcess(ctx context.Context, p *process.Process) (ProcessInfo, error) {
	pid := int(p.Pid)
	info := ProcessInfo{PID: pid}

	zombie := false
	statuses, err := p.StatusWithContext(ctx)
	switch {
	case err == nil && len(statuses) > 0:
		info.Status = statuses[0]
		zombie = info.Status == process.Zombie
	case err != nil:
		if reason, ok := transientReason(err); ok {
			return info, apperrors.Transient(pid, reason, err)
		}
	}

	fail := func(err error) error {
		if reason, ok := transientReason(err); ok {
			return apperrors.Transient(pid, reason, err)
		}
		if zombie {
			return apperrors.Transient(pid, "zombie", err)
		}
		return nil
	}

	name, err := p.NameWithContext(ctx)
	if err != nil {
		if terr := fail(err); terr != nil {
			return info, terr
		}
	}
	info.Name = name

	cpuPct, err := p.CPUPercentWithContext(ctx)
	if err != nil {
		if terr := fail(err); terr != nil {
			return info, terr
		}
		cpuPct = 0
	}
	info.CPU = cpuPct

	memPct, err := p.MemoryPercentWithContext(ctx)
	if err != nil {
		if terr := fail(err); terr != nil {
			return info, terr
		}
		memPct = 0
	}
	info.Memory = float64(memPct)

	return info, nil
}

func transientReason(err error) (string, bool) {
	switch {
	case errors.Is(err, process.ErrorProcessNotRunning),
		errors.Is(err, os.ErrNotExist),
		errors.Is(err, syscall.ESRCH):
		return "vanished", true
	case errors.Is(err, os.ErrPermission):
		return "access denied", true
	}
	return "", false
}
