package models

import "time"

const (
	UnknownName   = "Unknown"
	UnknownStatus = "unknown"
)

// ProcessRecord is one row of the process table, identified by PID.
// CPU is the percent averaged over the process lifetime, as gopsutil reports
// it, not the usage since the previous refresh.
type ProcessRecord struct {
	PID    int     `json:"pid"`
	Name   string  `json:"name"`
	CPU    float64 `json:"cpu"`
	Memory float64 `json:"memory"`
	Status string  `json:"status"`
}

// ProcessSnapshot is the filtered, CPU-descending, bounded process table
type ProcessSnapshot struct {
	Timestamp time.Time       `json:"timestamp"`
	Query     string          `json:"query,omitempty"`
	Records   []ProcessRecord `json:"records"`
}

// Len returns the number of rows, nil-safe.
func (s *ProcessSnapshot) Len() int {
	if s == nil {
		return 0
	}
	return len(s.Records)
}

// PIDAt resolves a table row back to its PID.
func (s *ProcessSnapshot) PIDAt(row int) (int, bool) {
	if row < 0 || row >= s.Len() {
		return 0, false
	}
	return s.Records[row].PID, true
}

// Find returns the record for pid, if it is part of the snapshot.
func (s *ProcessSnapshot) Find(pid int) (ProcessRecord, bool) {
	for i := 0; i < s.Len(); i++ {
		if s.Records[i].PID == pid {
			return s.Records[i], true
		}
	}
	return ProcessRecord{}, false
}
