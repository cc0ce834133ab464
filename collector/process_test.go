package collector

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"testing"

	apperrors "hostmon/errors"
)

type fakeSource struct {
	results []ProcessResult
	err     error
	calls   int
}

func (f *fakeSource) Processes(ctx context.Context) ([]ProcessResult, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.results, nil
}

func ok(pid int, name string, cpu, mem float64) ProcessResult {
	return ProcessResult{Info: ProcessInfo{PID: pid, Name: name, CPU: cpu, Memory: mem, Status: "running"}}
}

func manyProcesses(n int) []ProcessResult {
	results := make([]ProcessResult, 0, n)
	for i := 1; i <= n; i++ {
		results = append(results, ok(i, "worker-"+strconv.Itoa(i), float64(i%17), 0.5))
	}
	return results
}

func TestRefreshSkipsVanishedProcess(t *testing.T) {
	src := &fakeSource{results: []ProcessResult{
		ok(100, "alpha", 1, 1),
		{Info: ProcessInfo{PID: 200}, Err: apperrors.Transient(200, "vanished", os.ErrNotExist)},
		ok(300, "gamma", 2, 1),
	}}
	c := NewProcessCollector(src, 0)

	snap, err := c.Refresh(context.Background(), "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(snap.Records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(snap.Records))
	}
	if snap.Records[0].PID != 300 || snap.Records[1].PID != 100 {
		t.Fatalf("unexpected order: %+v", snap.Records)
	}
}

func TestRefreshBoundsAndOrders(t *testing.T) {
	src := &fakeSource{results: manyProcesses(200)}
	c := NewProcessCollector(src, 0)

	for _, q := range []string{"", "worker", "1", "WORKER-1", "zzz"} {
		snap, err := c.Refresh(context.Background(), q)
		if err != nil {
			t.Fatalf("query %q: %v", q, err)
		}
		if len(snap.Records) > DefaultProcessLimit {
			t.Fatalf("query %q: %d records exceeds limit", q, len(snap.Records))
		}
		for i := 0; i+1 < len(snap.Records); i++ {
			if snap.Records[i].CPU < snap.Records[i+1].CPU {
				t.Fatalf("query %q: not descending at %d: %+v", q, i, snap.Records[i:i+2])
			}
		}
		for _, rec := range snap.Records {
			if q == "" {
				break
			}
			nameHit := strings.Contains(strings.ToLower(rec.Name), strings.ToLower(q))
			pidHit := strings.Contains(strconv.Itoa(rec.PID), q)
			if !nameHit && !pidHit {
				t.Fatalf("query %q: record %+v does not match", q, rec)
			}
		}
	}
}

func TestRefreshNoMatchIsEmpty(t *testing.T) {
	src := &fakeSource{results: manyProcesses(50)}
	c := NewProcessCollector(src, 0)

	snap, err := c.Refresh(context.Background(), "999999")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if snap.Records == nil || len(snap.Records) != 0 {
		t.Fatalf("expected empty non-nil records, got %+v", snap.Records)
	}
}

func TestRefreshMatchesPIDOrName(t *testing.T) {
	src := &fakeSource{results: []ProcessResult{
		ok(4242, "sshd", 0, 0),
		ok(17, "Postgres", 0, 0),
		ok(18, "bash42", 0, 0),
		ok(19, "zsh", 0, 0),
	}}
	c := NewProcessCollector(src, 0)

	snap, _ := c.Refresh(context.Background(), "42")
	if len(snap.Records) != 2 || snap.Records[0].PID != 4242 || snap.Records[1].PID != 18 {
		t.Fatalf("pid/name match wrong: %+v", snap.Records)
	}

	snap, _ = c.Refresh(context.Background(), "postGRES")
	if len(snap.Records) != 1 || snap.Records[0].PID != 17 {
		t.Fatalf("case-insensitive name match wrong: %+v", snap.Records)
	}
	if c.Query() != "postGRES" {
		t.Fatalf("query not remembered: %q", c.Query())
	}
}

func TestRefreshDefaultsAndDropsInvalidPID(t *testing.T) {
	src := &fakeSource{results: []ProcessResult{
		{Info: ProcessInfo{PID: 0, Name: "idle"}},
		{Info: ProcessInfo{PID: -3, Name: "bogus"}},
		{Info: ProcessInfo{PID: 5, CPU: -1}},
	}}
	c := NewProcessCollector(src, 0)

	snap, err := c.Refresh(context.Background(), "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(snap.Records) != 1 {
		t.Fatalf("expected only pid 5, got %+v", snap.Records)
	}
	rec := snap.Records[0]
	if rec.Name != "Unknown" || rec.Status != "unknown" || rec.CPU != 0 || rec.Memory != 0 {
		t.Fatalf("defaults not applied: %+v", rec)
	}

	snap, _ = c.Refresh(context.Background(), "unknown")
	if len(snap.Records) != 1 {
		t.Fatalf("defaulted name should be searchable: %+v", snap.Records)
	}
}

func TestRefreshStableTies(t *testing.T) {
	src := &fakeSource{results: []ProcessResult{
		ok(1, "a", 5, 0),
		ok(2, "b", 5, 0),
		ok(3, "c", 9, 0),
		ok(4, "d", 5, 0),
	}}
	snap := BuildSnapshot(src.results, "", 30)

	want := []int{3, 1, 2, 4}
	for i, pid := range want {
		if snap.Records[i].PID != pid {
			t.Fatalf("tie order broken: got %+v", snap.Records)
		}
	}
}

func TestRefreshEnumerationFailureKeepsPrevious(t *testing.T) {
	src := &fakeSource{results: []ProcessResult{ok(1, "init", 0, 0)}}
	c := NewProcessCollector(src, 0)

	first, err := c.Refresh(context.Background(), "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	src.err = fmt.Errorf("proc not mounted")
	if _, err := c.Refresh(context.Background(), ""); !apperrors.Is(err, apperrors.ErrTypeEnumeration) {
		t.Fatalf("expected enumeration error, got %v", err)
	}
	if c.Latest() != first {
		t.Fatalf("previous snapshot should stay published")
	}
}

func TestRefreshCustomLimit(t *testing.T) {
	c := NewProcessCollector(&fakeSource{results: manyProcesses(20)}, 5)
	snap, _ := c.Refresh(context.Background(), "")
	if len(snap.Records) != 5 {
		t.Fatalf("expected 5 records, got %d", len(snap.Records))
	}
}

func TestRefreshLimitCappedAt30(t *testing.T) {
	for _, limit := range []int{31, 50, 1000} {
		c := NewProcessCollector(&fakeSource{results: manyProcesses(200)}, limit)
		snap, err := c.Refresh(context.Background(), "")
		if err != nil {
			t.Fatalf("limit %d: %v", limit, err)
		}
		if len(snap.Records) != DefaultProcessLimit {
			t.Errorf("limit %d: got %d records, want %d", limit, len(snap.Records), DefaultProcessLimit)
		}
	}

	if snap := BuildSnapshot(manyProcesses(200), "", 50); len(snap.Records) != DefaultProcessLimit {
		t.Errorf("BuildSnapshot kept %d records", len(snap.Records))
	}
}

func TestRecordCPUIsReportedValue(t *testing.T) {
	// the source's lifetime average is shown as is; no per-refresh delta
	src := &fakeSource{results: []ProcessResult{ok(10, "batch", 37.5, 1)}}
	c := NewProcessCollector(src, 0)
	for i := 0; i < 2; i++ {
		snap, err := c.Refresh(context.Background(), "")
		if err != nil {
			t.Fatal(err)
		}
		if got := snap.Records[0].CPU; got != 37.5 {
			t.Fatalf("refresh %d: cpu = %v, want 37.5", i, got)
		}
	}
}

func TestTransientReason(t *testing.T) {
	tests := []struct {
		err    error
		reason string
		ok     bool
	}{
		{os.ErrNotExist, "vanished", true},
		{fmt.Errorf("open /proc/1/status: %w", os.ErrPermission), "access denied", true},
		{fmt.Errorf("not implemented yet"), "", false},
	}

	for _, tt := range tests {
		reason, ok := transientReason(tt.err)
		if reason != tt.reason || ok != tt.ok {
			t.Errorf("transientReason(%v) = %q, %v", tt.err, reason, ok)
		}
	}
}

func TestSystemProcessesIncludesSelf(t *testing.T) {
	results, err := SystemProcesses{}.Processes(context.Background())
	if err != nil {
		t.Skipf("process enumeration unavailable: %v", err)
	}

	self := os.Getpid()
	for _, r := range results {
		if r.Err == nil && r.Info.PID == self {
			return
		}
	}
	t.Fatalf("own pid %d not enumerated", self)
}
