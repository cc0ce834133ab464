package models

import "time"

// Report is the headless-mode snapshot bundle
type Report struct {
	Timestamp time.Time        `json:"timestamp"`
	Host      HostInfo         `json:"host"`
	CPU       *CPUSnapshot     `json:"cpu,omitempty"`
	Memory    *MemorySnapshot  `json:"memory,omitempty"`
	Processes *ProcessSnapshot `json:"processes,omitempty"`
}

// ReportPayload is the flat payload sent to API
type ReportPayload struct {
	CPU         float64         `json:"cpu"`
	CPUPerCore  []float64       `json:"cpuPerCore"`
	CPUCores    int             `json:"cpuCores"`
	CPUThreads  int             `json:"cpuThreads"`
	Memory      float64         `json:"memory"`
	MemoryUsed  float64         `json:"memoryUsed"`
	MemoryTotal float64         `json:"memoryTotal"`
	MemoryAvail float64         `json:"memoryAvailable"`
	Swap        float64         `json:"swap"`
	SwapUsed    float64         `json:"swapUsed"`
	SwapTotal   float64         `json:"swapTotal"`
	Load1       float64         `json:"load1"`
	Load5       float64         `json:"load5"`
	Load15      float64         `json:"load15"`
	Uptime      float64         `json:"uptime"`
	Hostname    string          `json:"hostname"`
	OS          string          `json:"os"`
	Kernel      string          `json:"kernel"`
	Arch        string          `json:"arch"`
	Processes   []ProcessRecord `json:"processes,omitempty"`
	Timestamp   time.Time       `json:"timestamp"`
}

// ToPayload flattens the report. Missing snapshots leave their fields zero.
func (r *Report) ToPayload() *ReportPayload {
	p := &ReportPayload{
		Load1:     r.Host.Load1,
		Load5:     r.Host.Load5,
		Load15:    r.Host.Load15,
		Uptime:    float64(r.Host.Uptime),
		Hostname:  r.Host.Hostname,
		OS:        r.Host.OS,
		Kernel:    r.Host.Kernel,
		Arch:      r.Host.Arch,
		Timestamp: r.Timestamp,
	}
	if r.CPU != nil {
		p.CPU = r.CPU.Percent
		p.CPUPerCore = r.CPU.PerCore
		p.CPUCores = r.CPU.PhysicalCores
		p.CPUThreads = r.CPU.LogicalCores
	}
	if r.Memory != nil {
		p.Memory = r.Memory.Percent
		p.MemoryUsed = float64(r.Memory.Used)
		p.MemoryTotal = float64(r.Memory.Total)
		p.MemoryAvail = float64(r.Memory.Available)
		p.Swap = r.Memory.SwapPercent
		p.SwapUsed = float64(r.Memory.SwapUsed)
		p.SwapTotal = float64(r.Memory.SwapTotal)
	}
	if r.Processes != nil {
		p.Processes = r.Processes.Records
	}
	return p
}
