package models

import (
	"testing"

	"hostmon/errors"
)

func TestProcessSnapshotLookup(t *testing.T) {
	snap := &ProcessSnapshot{Records: []ProcessRecord{
		{PID: 10, Name: "a"},
		{PID: 20, Name: "b"},
	}}

	if pid, ok := snap.PIDAt(1); !ok || pid != 20 {
		t.Fatalf("PIDAt(1) = %d, %v", pid, ok)
	}
	if _, ok := snap.PIDAt(2); ok {
		t.Fatalf("PIDAt out of range should fail")
	}
	if _, ok := snap.PIDAt(-1); ok {
		t.Fatalf("PIDAt(-1) should fail")
	}
	if rec, ok := snap.Find(10); !ok || rec.Name != "a" {
		t.Fatalf("Find(10) = %+v, %v", rec, ok)
	}
	if _, ok := snap.Find(30); ok {
		t.Fatalf("Find(30) should fail")
	}

	var nilSnap *ProcessSnapshot
	if nilSnap.Len() != 0 {
		t.Fatalf("nil snapshot should have zero length")
	}
	if _, ok := nilSnap.PIDAt(0); ok {
		t.Fatalf("nil snapshot PIDAt should fail")
	}
}

func TestKillOutcomeMessages(t *testing.T) {
	tests := []struct {
		outcome KillOutcome
		message string
		errType string
	}{
		{KillOutcome{Kind: KillSuccess, PID: 1}, "Killed process 1", ""},
		{KillOutcome{Kind: KillNotFound, PID: 2}, "Process 2 not found", errors.ErrTypeKillNotFound},
		{KillOutcome{Kind: KillPermissionDenied, PID: 3}, "Permission denied for PID 3", errors.ErrTypeKillPermission},
		{KillOutcome{Kind: KillFailed, PID: 4, Detail: "busy"}, "Error: busy", errors.ErrTypeKillFailed},
	}

	for _, tt := range tests {
		t.Run(tt.outcome.Kind.String(), func(t *testing.T) {
			if got := tt.outcome.Message(); got != tt.message {
				t.Errorf("Message() = %q, want %q", got, tt.message)
			}
			if got := errors.GetType(tt.outcome.Err()); got != tt.errType {
				t.Errorf("Err() type = %q, want %q", got, tt.errType)
			}
			if tt.outcome.OK() != (tt.errType == "") {
				t.Errorf("OK() mismatch")
			}
		})
	}
}

func TestReportToPayload(t *testing.T) {
	r := &Report{
		Host:   HostInfo{Hostname: "box", Uptime: 60},
		CPU:    &CPUSnapshot{Percent: 12.5, PerCore: []float64{10, 15}, PhysicalCores: 1, LogicalCores: 2},
		Memory: &MemorySnapshot{Used: 1, Total: 4, Percent: 25},
	}

	p := r.ToPayload()
	if p.Hostname != "box" || p.Uptime != 60 {
		t.Fatalf("host fields not copied: %+v", p)
	}
	if p.CPU != 12.5 || p.CPUThreads != 2 || len(p.CPUPerCore) != 2 {
		t.Fatalf("cpu fields not copied: %+v", p)
	}
	if p.MemoryTotal != 4 || p.Memory != 25 {
		t.Fatalf("memory fields not copied: %+v", p)
	}
	if p.Processes != nil {
		t.Fatalf("expected no processes")
	}
}
