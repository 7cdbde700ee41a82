package process

import (
	"io"
	"os"
	"os/exec"

	"devrunner/pkg/logging"
)

// Launcher spawns child processes.
type Launcher interface {
	Launch(spec LaunchSpec) (Child, error)
}

// ExecLauncher spawns real OS processes. Zero-valued streams fall back to the
// supervisor's own stdin, stdout and stderr, so child output is never captured.
type ExecLauncher struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer

	// Environ returns the ambient environment; defaults to os.Environ.
	Environ func() []string
}

// NewExecLauncher returns a launcher wired to the supervisor's terminal.
func NewExecLauncher() *ExecLauncher {
	return &ExecLauncher{
		Stdin:   os.Stdin,
		Stdout:  os.Stdout,
		Stderr:  os.Stderr,
		Environ: os.Environ,
	}
}

// Launch starts the process and returns without waiting for it.
func (l *ExecLauncher) Launch(spec LaunchSpec) (Child, error) {
	cmd := exec.Command(spec.Path, spec.Args...)
	cmd.Dir = spec.Dir

	environ := l.Environ
	if environ == nil {
		environ = os.Environ
	}
	cmd.Env = MergeEnv(environ(), spec.Env)

	cmd.Stdin = l.Stdin
	if cmd.Stdin == nil {
		cmd.Stdin = os.Stdin
	}
	cmd.Stdout = l.Stdout
	if cmd.Stdout == nil {
		cmd.Stdout = os.Stdout
	}
	cmd.Stderr = l.Stderr
	if cmd.Stderr == nil {
		cmd.Stderr = os.Stderr
	}

	if err := cmd.Start(); err != nil {
		logging.Error("Launcher", err, "Failed to start %s", spec)
		return nil, &SpawnFailedError{Spec: spec, Err: err}
	}

	logging.Info("Launcher", "Started %s (PID: %d)", spec, cmd.Process.Pid)
	return newExecChild(spec, cmd), nil
}
