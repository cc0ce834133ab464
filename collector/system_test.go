package collector

import (
	"context"
	"fmt"
	"runtime"
	"testing"

	"github.com/shirou/gopsutil/v3/host"
	"github.com/shirou/gopsutil/v3/load"
)

func TestCollectHostInfo(t *testing.T) {
	t.Cleanup(func() {
		hostInfo = host.InfoWithContext
		loadAvg = load.AvgWithContext
	})
	hostInfo = func(ctx context.Context) (*host.InfoStat, error) {
		return &host.InfoStat{
			OS:              "linux",
			Platform:        "debian",
			PlatformVersion: "12",
			KernelVersion:   "6.1.0",
			KernelArch:      "x86_64",
			Uptime:          3600,
		}, nil
	}
	loadAvg = func(ctx context.Context) (*load.AvgStat, error) {
		return &load.AvgStat{Load1: 0.5, Load5: 0.25, Load15: 0.1}, nil
	}

	info := CollectHostInfo(context.Background())
	if info.OS != "linux debian 12" || info.Kernel != "6.1.0" || info.Arch != "x86_64" || info.Uptime != 3600 {
		t.Fatalf("unexpected host info: %+v", info)
	}
	if runtime.GOOS != "windows" && info.Load1 != 0.5 {
		t.Fatalf("load average not copied: %+v", info)
	}
}

func TestCollectHostInfoBestEffort(t *testing.T) {
	t.Cleanup(func() {
		hostInfo = host.InfoWithContext
		loadAvg = load.AvgWithContext
	})
	hostInfo = func(ctx context.Context) (*host.InfoStat, error) { return nil, fmt.Errorf("no host info") }
	loadAvg = func(ctx context.Context) (*load.AvgStat, error) { return nil, fmt.Errorf("no load") }

	info := CollectHostInfo(context.Background())
	if info.Arch != runtime.GOARCH {
		t.Fatalf("expected GOARCH fallback, got %q", info.Arch)
	}
}
