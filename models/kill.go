package models

import (
	"fmt"

	"hostmon/errors"
)

type KillKind int

const (
	KillSuccess KillKind = iota
	KillNotFound
	KillPermissionDenied
	KillFailed
)

func (k KillKind) String() string {
	switch k {
	case KillSuccess:
		return "success"
	case KillNotFound:
		return "not_found"
	case KillPermissionDenied:
		return "permission_denied"
	default:
		return "failed"
	}
}

// KillOutcome is the classified result of a termination request.
// Detail is only set for KillFailed.
type KillOutcome struct {
	Kind   KillKind `json:"kind"`
	PID    int      `json:"pid"`
	Detail string   `json:"detail,omitempty"`
}

func (o KillOutcome) OK() bool {
	return o.Kind == KillSuccess
}

// Message is the operator-facing line for the outcome
func (o KillOutcome) Message() string {
	switch o.Kind {
	case KillSuccess:
		return fmt.Sprintf("Killed process %d", o.PID)
	case KillNotFound:
		return fmt.Sprintf("Process %d not found", o.PID)
	case KillPermissionDenied:
		return fmt.Sprintf("Permission denied for PID %d", o.PID)
	default:
		return fmt.Sprintf("Error: %s", o.Detail)
	}
}

// Err returns nil on success and the matching typed error otherwise.
func (o KillOutcome) Err() error {
	switch o.Kind {
	case KillSuccess:
		return nil
	case KillNotFound:
		return errors.KillNotFound(o.PID)
	case KillPermissionDenied:
		return errors.KillPermissionDenied(o.PID, nil)
	default:
		return errors.KillFailed(o.PID, o.Detail)
	}
}
