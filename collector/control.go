package collector

import (
	"context"
	"errors"
	"math"
	"os"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/shirou/gopsutil/v3/process"

	"hostmon/models"
)

// killProcess delivers SIGKILL (TerminateProcess on Windows).
var killProcess = func(ctx context.Context, pid int32) error {
	p, err := process.NewProcessWithContext(ctx, pid)
	if err != nil {
		return err
	}
	return p.KillWithContext(ctx)
}

// ProcessControl terminates processes. It keeps no state; refreshing the
// process table afterwards is up to the caller.
type ProcessControl struct{}

// Kill sends a forceful termination to pid and classifies the result.
// Non-positive pids are never passed to the OS, where they would address
// process groups.
func (ProcessControl) Kill(ctx context.Context, pid int) models.KillOutcome {
	if pid <= 0 || pid > math.MaxInt32 {
		return models.KillOutcome{Kind: models.KillNotFound, PID: pid}
	}

	err := killProcess(ctx, int32(pid))
	outcome := classifyKill(pid, err)

	ev := log.Info()
	if !outcome.OK() {
		ev = log.Warn().Err(err)
	}
	ev.Int("pid", pid).Str("outcome", outcome.Kind.String()).Msg("kill requested")

	return outcome
}

func classifyKill(pid int, err error) models.KillOutcome {
	switch {
	case err == nil:
		return models.KillOutcome{Kind: models.KillSuccess, PID: pid}
	case errors.Is(err, process.ErrorProcessNotRunning),
		errors.Is(err, os.ErrProcessDone),
		errors.Is(err, syscall.ESRCH):
		return models.KillOutcome{Kind: models.KillNotFound, PID: pid}
	case errors.Is(err, os.ErrPermission):
		return models.KillOutcome{Kind: models.KillPermissionDenied, PID: pid}
	default:
		return models.KillOutcome{Kind: models.KillFailed, PID: pid, Detail: err.Error()}
	}
}
