package ui

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/docker/go-units"
	"github.com/rivo/tview"

	"hostmon/collector"
	"hostmon/models"
)

const (
	barWidth       = 20
	maxCoresShown  = 8
	maxNameDisplay = 30
)

func severityColor(s collector.Severity) string {
	switch s {
	case collector.Normal:
		return "green"
	case collector.Warning:
		return "yellow"
	default:
		return "red"
	}
}

// bar draws a percentage gauge using tview color tags.
func bar(percent float64, color string) string {
	filled := int(math.Round(percent / 100 * barWidth))
	if filled < 0 {
		filled = 0
	}
	if filled > barWidth {
		filled = barWidth
	}
	return fmt.Sprintf("[%s]%s[-][gray]%s[-]", color, strings.Repeat("█", filled), strings.Repeat("░", barWidth-filled))
}

func formatBytes(n uint64) string {
	return units.BytesSize(float64(n))
}

func renderCPU(snap *models.CPUSnapshot) string {
	if snap == nil {
		return "[::b]CPU Usage[::-]\n\nsampling..."
	}

	color := severityColor(collector.Classify(snap.Percent, collector.CPUBreakpoints))

	cores := snap.PerCore
	if len(cores) > maxCoresShown {
		cores = cores[:maxCoresShown]
	}
	parts := make([]string, 0, len(cores))
	for _, c := range cores {
		cc := severityColor(collector.Classify(c, collector.CPUBreakpoints))
		parts = append(parts, fmt.Sprintf("[%s]%4.0f%%[-]", cc, c))
	}

	return fmt.Sprintf("[::b]CPU Usage[::-]\n%s [%s]%.1f%%[-]\n\nCores: %d physical, %d logical\nPer Core: %s",
		bar(snap.Percent, color), color, snap.Percent,
		snap.PhysicalCores, snap.LogicalCores,
		strings.Join(parts, " "))
}

func renderMemory(snap *models.MemorySnapshot) string {
	if snap == nil {
		return "[::b]Memory Usage[::-]\n\nsampling..."
	}

	color := severityColor(collector.Classify(snap.Percent, collector.MemoryBreakpoints))
	return fmt.Sprintf("[::b]Memory Usage[::-]\n%s [%s]%.1f%%[-]\nUsed: %s / %s\nAvailable: %s\n\n[::b]Swap[::-]\n%s [blue]%.1f%%[-]\nUsed: %s / %s",
		bar(snap.Percent, color), color, snap.Percent,
		formatBytes(snap.Used), formatBytes(snap.Total),
		formatBytes(snap.Available),
		bar(snap.SwapPercent, "blue"), snap.SwapPercent,
		formatBytes(snap.SwapUsed), formatBytes(snap.SwapTotal))
}

func renderHeader(host models.HostInfo, at time.Time) string {
	uptime := time.Duration(host.Uptime) * time.Second
	return fmt.Sprintf("[::b]hostmon[::-]  %s  %s  up %s  load %.2f %.2f %.2f  %s",
		tview.Escape(host.Hostname), tview.Escape(host.OS), units.HumanDuration(uptime),
		host.Load1, host.Load5, host.Load15, at.Format("15:04:05"))
}

func truncateName(name string) string {
	r := []rune(name)
	if len(r) > maxNameDisplay {
		return string(r[:maxNameDisplay])
	}
	return name
}

// processRow returns the display cells for one table row
func processRow(rec models.ProcessRecord) []string {
	cpuColor := severityColor(collector.Classify(rec.CPU, collector.ProcessCPUBreakpoints))
	memColor := severityColor(collector.Classify(rec.Memory, collector.ProcessMemoryBreakpoints))
	return []string{
		fmt.Sprintf("%d", rec.PID),
		tview.Escape(truncateName(rec.Name)),
		fmt.Sprintf("[%s]%.1f[-]", cpuColor, rec.CPU),
		fmt.Sprintf("[%s]%.1f[-]", memColor, rec.Memory),
		tview.Escape(rec.Status),
	}
}
