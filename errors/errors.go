package errors

import (
	"errors"
	"fmt"
	"runtime"
	"strings"
)

// Error types
const (
	ErrTypeTransient      = "transient_process"
	ErrTypeEnumeration    = "enumeration"
	ErrTypeSampling       = "sampling"
	ErrTypeKillNotFound   = "kill_not_found"
	ErrTypeKillPermission = "kill_permission_denied"
	ErrTypeKillFailed     = "kill_failed"
	ErrTypeConfig         = "config"
	ErrTypeReport         = "report"
	ErrTypeInvalidArg     = "invalid_argument"
)

// AppError is a classified failure. PID is zero unless the error concerns
// a single process.
type AppError struct {
	Type    string   `json:"type"`
	Message string   `json:"message"`
	PID     int      `json:"pid,omitempty"`
	Cause   error    `json:"-"`
	Stack   []string `json:"-"`
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

func (e *AppError) String() string {
	return e.Error()
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// WithStack records the caller stack, skipping runtime frames.
func (e *AppError) WithStack() *AppError {
	const depth = 32
	var pcs [depth]uintptr
	n := runtime.Callers(2, pcs[:])
	frames := runtime.CallersFrames(pcs[:n])

	stack := make([]string, 0, n)
	for {
		frame, more := frames.Next()
		if !strings.Contains(frame.File, "runtime/") {
			stack = append(stack, fmt.Sprintf("%s:%d %s", frame.File, frame.Line, frame.Function))
		}
		if !more {
			break
		}
	}

	e.Stack = stack
	return e
}

func (e *AppError) WithPID(pid int) *AppError {
	e.PID = pid
	return e
}

func New(errType, message string, cause error) *AppError {
	return &AppError{
		Type:    errType,
		Message: message,
		Cause:   cause,
	}
}

// Wrap turns err into an AppError. An existing AppError keeps its type and
// PID and only gets the new message.
func Wrap(err error, errType, message string) *AppError {
	if err == nil {
		return nil
	}

	var appErr *AppError
	if errors.As(err, &appErr) {
		return &AppError{
			Type:    appErr.Type,
			Message: message,
			PID:     appErr.PID,
			Cause:   appErr.Cause,
			Stack:   appErr.Stack,
		}
	}

	return New(errType, message, err)
}

// Is reports whether err is an AppError of errType
func Is(err error, errType string) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Type == errType
	}
	return false
}

func GetType(err error) string {
	if err == nil {
		return ""
	}

	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Type
	}

	return "unknown"
}

// RootCause follows the Unwrap chain to its end
func RootCause(err error) error {
	for err != nil {
		unwrapped := errors.Unwrap(err)
		if unwrapped == nil {
			return err
		}
		err = unwrapped
	}
	return err
}

func ErrInvalidArg(param string) *AppError {
	return New(ErrTypeInvalidArg, fmt.Sprintf("invalid arg: %s", param), nil).WithStack()
}

// Transient marks a per-process read failure that the collector skips.
func Transient(pid int, reason string, cause error) *AppError {
	return New(ErrTypeTransient, reason, cause).WithPID(pid)
}

func Enumeration(cause error) *AppError {
	return New(ErrTypeEnumeration, "process enumeration failed", cause).WithStack()
}

func Sampling(what string, cause error) *AppError {
	return New(ErrTypeSampling, fmt.Sprintf("%s sampling failed", what), cause).WithStack()
}

func KillNotFound(pid int) *AppError {
	return New(ErrTypeKillNotFound, fmt.Sprintf("process %d not found", pid), nil).WithPID(pid)
}

func KillPermissionDenied(pid int, cause error) *AppError {
	return New(ErrTypeKillPermission, fmt.Sprintf("permission denied for pid %d", pid), cause).WithPID(pid)
}

func KillFailed(pid int, detail string) *AppError {
	return New(ErrTypeKillFailed, fmt.Sprintf("kill %d: %s", pid, detail), nil).WithPID(pid)
}

func Config(message string, cause error) *AppError {
	return New(ErrTypeConfig, message, cause).WithStack()
}

func Report(message string, cause error) *AppError {
	return New(ErrTypeReport, message, cause).WithStack()
}
