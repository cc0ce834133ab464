package models

import "time"

// HostInfo holds OS details shown in the header and sent with reports
type HostInfo struct {
	Hostname string  `json:"hostname"`
	OS       string  `json:"os"`
	Kernel   string  `json:"kernel"`
	Arch     string  `json:"arch"`
	Uptime   uint64  `json:"uptime"`
	Load1    float64 `json:"load1"`
	Load5    float64 `json:"load5"`
	Load15   float64 `json:"load15"`
}

// CPUSnapshot holds one aggregate + per-core CPU measurement.
// len(PerCore) always equals LogicalCores.
type CPUSnapshot struct {
	Timestamp     time.Time `json:"timestamp"`
	Percent       float64   `json:"percent"`
	PerCore       []float64 `json:"perCore"`
	PhysicalCores int       `json:"physicalCores"`
	LogicalCores  int       `json:"logicalCores"`
}

// MemorySnapshot holds RAM and swap counters. Used never exceeds Total.
type MemorySnapshot struct {
	Timestamp   time.Time `json:"timestamp"`
	Total       uint64    `json:"total"`
	Available   uint64    `json:"available"`
	Used        uint64    `json:"used"`
	Percent     float64   `json:"percent"`
	SwapTotal   uint64    `json:"swapTotal"`
	SwapUsed    uint64    `json:"swapUsed"`
	SwapPercent float64   `json:"swapPercent"`
}
