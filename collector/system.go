package collector

import (
	"context"
	"os"
	"runtime"
	"strings"

	"github.com/shirou/gopsutil/v3/host"
	"github.com/shirou/gopsutil/v3/load"

	"hostmon/models"
)

var (
	hostInfo = host.InfoWithContext
	loadAvg  = load.AvgWithContext
)

// CollectHostInfo gathers OS, uptime and load average. Every field is
// best effort.
func CollectHostInfo(ctx context.Context) models.HostInfo {
	info := models.HostInfo{Arch: runtime.GOARCH}
	info.Hostname, _ = os.Hostname()

	if hi, err := hostInfo(ctx); err == nil && hi != nil {
		info.OS = strings.TrimSpace(hi.OS + " " + hi.Platform + " " + hi.PlatformVersion)
		info.Kernel = hi.KernelVersion
		if hi.KernelArch != "" {
			info.Arch = hi.KernelArch
		}
		info.Uptime = hi.Uptime
		if info.Hostname == "" {
			info.Hostname = hi.Hostname
		}
	}

	// Load average is not available on Windows
	if runtime.GOOS != "windows" {
		if avg, err := loadAvg(ctx); err == nil && avg != nil {
			info.Load1 = avg.Load1
			info.Load5 = avg.Load5
			info.Load15 = avg.Load15
		}
	}

	return info
}
