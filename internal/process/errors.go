package process

import (
	"errors"
	"fmt"
)

var (
	// ErrSpawnFailed is matched by every SpawnFailedError.
	ErrSpawnFailed = errors.New("failed to spawn process")
	// ErrChildProcessFailed is matched by every ChildProcessFailedError.
	ErrChildProcessFailed = errors.New("child process failed")
)

// SpawnFailedError is returned when the OS rejects process creation.
type SpawnFailedError struct {
	Spec LaunchSpec
	Err  error
}

func (e *SpawnFailedError) Error() string {
	return fmt.Sprintf("%s: %s: %v", ErrSpawnFailed, e.Spec, e.Err)
}

func (e *SpawnFailedError) Unwrap() []error {
	return []error{ErrSpawnFailed, e.Err}
}

// ChildProcessFailedError is returned when a supervised process exits non-zero.
type ChildProcessFailedError struct {
	Spec     LaunchSpec
	ExitCode int
}

func (e *ChildProcessFailedError) Error() string {
	return fmt.Sprintf("process %s exited with code %d", e.Spec, e.ExitCode)
}

func (e *ChildProcessFailedError) Unwrap() error { return ErrChildProcessFailed }

// ExitCode maps an orchestration error onto the supervisor's exit status.
// A child failure propagates the child's code; everything else is 1.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var failed *ChildProcessFailedError
	if errors.As(err, &failed) && failed.ExitCode > 0 {
		return failed.ExitCode
	}
	return 1
}
