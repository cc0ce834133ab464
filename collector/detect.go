package collector

import (
	"os"
	"runtime"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"
)

type Capabilities struct {
	HasProcFS     bool
	HasHostPID    bool
	CanSignalAny  bool
	PlatformLabel string
}

var (
	caps     Capabilities
	capsOnce sync.Once
)

// DetectCapabilities reports what the process table and kill control can
// reach from this process. Detection runs once and is logged.
func DetectCapabilities() Capabilities {
	capsOnce.Do(func() {
		caps = Capabilities{
			HasProcFS:     runtime.GOOS != "linux" || fileExists("/proc/self/stat"),
			HasHostPID:    detectHostPID(),
			CanSignalAny:  detectPrivileged(),
			PlatformLabel: runtime.GOOS + "/" + runtime.GOARCH,
		}

		log.Info().Str("platform", caps.PlatformLabel).Msg("╭─ Monitor Capabilities ────────────────────────────────────╮")
		logCap("procfs", caps.HasProcFS, "(process enumeration)")
		logCap("Host PID", caps.HasHostPID, "(all host processes visible)")
		logCap("Privileged", caps.CanSignalAny, "(kill other users' processes)")
		log.Info().Msg("╰───────────────────────────────────────────────────────────╯")
	})
	return caps
}

func logCap(name string, available bool, desc string) {
	icon := "✗"
	status := "unavailable"
	if available {
		icon = "✓"
		status = "enabled"
	}
	log.Info().Msgf("│ %s %-10s │ %-11s │ %-28s │", icon, name, status, desc)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// detectHostPID guesses whether we run in our own PID namespace by looking
// at what PID 1 is.
func detectHostPID() bool {
	if runtime.GOOS != "linux" {
		return true
	}
	data, err := os.ReadFile("/proc/1/cmdline")
	if err != nil {
		return false
	}
	cmdline := strings.ReplaceAll(string(data), "\x00", " ")
	cmdline = strings.TrimSpace(strings.ToLower(cmdline))

	if strings.Contains(cmdline, "hostmon") || os.Getpid() == 1 {
		return false
	}
	return true
}

func detectPrivileged() bool {
	if runtime.GOOS == "windows" {
		return false
	}
	return os.Geteuid() == 0
}
