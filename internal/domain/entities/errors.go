package entities

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNonFastForward is returned by version control drivers when the remote
	// has advanced since the clone.
	ErrNonFastForward = errors.New("remote rejected non-fast-forward update")
	// ErrStagingReleased is returned when a released staging area is used.
	ErrStagingReleased = errors.New("staging area already released")
	// ErrPathEscapesStaging is returned for relative paths leaving the staging area.
	ErrPathEscapesStaging = errors.New("path escapes staging area")
	// ErrUnsupportedEndpoint is returned when a transport receives the other variant's endpoint.
	ErrUnsupportedEndpoint = errors.New("endpoint not supported by transport")
)

// Steps reported by RepositoryError.
const (
	StepClone  = "clone"
	StepStage  = "stage"
	StepStatus = "status"
	StepCommit = "commit"
	StepPush   = "push"
)

// MissingFieldsError lists mandatory fields absent for the selected mode, in declaration order.
type MissingFieldsError struct {
	Fields []Field
}

func (e *MissingFieldsError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for _, field := range e.Fields {
		names = append(names, string(field))
	}
	return "mandatory options are missing: " + strings.Join(names, ", ")
}

// InvalidFieldError is returned when a supplied value cannot be trusted or parsed.
type InvalidFieldError struct {
	Field  Field
	Reason string
}

func (e *InvalidFieldError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// ConnectError means the transport could not be opened.
type ConnectError struct {
	Variant TransportVariant
	Target  string
	Err     error
}

func (e *ConnectError) Error() string {
	return fmt.Sprintf("failed to open %s transport to %s: %v", e.Variant, e.Target, e.Err)
}

func (e *ConnectError) Unwrap() error { return e.Err }

// CommandError means the transport was open but a command, read, or write failed.
type CommandError struct {
	Operation string
	Err       error
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("device %s failed: %v", e.Operation, e.Err)
}

func (e *CommandError) Unwrap() error { return e.Err }

// RepositoryError means a version control step failed.
type RepositoryError struct {
	Step string
	Err  error
}

func (e *RepositoryError) Error() string {
	return fmt.Sprintf("repository %s failed: %v", e.Step, e.Err)
}

func (e *RepositoryError) Unwrap() error { return e.Err }

// PushConflictError is the RepositoryError sub-case where the remote advanced
// since the clone. It is never retried.
type PushConflictError struct {
	Remote string
	Err    error
}

func (e *PushConflictError) Error() string {
	return fmt.Sprintf("push to %s rejected, remote has advanced since clone: %v", e.Remote, e.Err)
}

func (e *PushConflictError) Unwrap() error { return e.Err }

// FileAccessError covers a configuration file missing from the clone and any staging I/O failure.
type FileAccessError struct {
	Path string
	Err  error
}

func (e *FileAccessError) Error() string {
	return fmt.Sprintf("file access %s failed: %v", e.Path, e.Err)
}

func (e *FileAccessError) Unwrap() error { return e.Err }
