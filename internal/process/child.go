package process

import (
	"context"
	"os/exec"
	"sync"

	"devrunner/pkg/logging"
)

// Child is a launched process owned by whoever called Launch.
type Child interface {
	Spec() LaunchSpec
	PID() int
	// Wait blocks until the process exits or ctx is done and returns the exit code.
	Wait(ctx context.Context) (int, error)
	// Terminate sends a single termination request. It is a no-op once the
	// process has exited or after the first call.
	Terminate() error
}

type execChild struct {
	spec LaunchSpec
	cmd  *exec.Cmd

	done     chan struct{}
	exitCode int
	waitErr  error

	terminateOnce sync.Once
	terminateErr  error
}

func newExecChild(spec LaunchSpec, cmd *exec.Cmd) *execChild {
	c := &execChild{
		spec: spec,
		cmd:  cmd,
		done: make(chan struct{}),
	}
	go c.reap()
	return c
}

// reap records the exit status exactly once.
func (c *execChild) reap() {
	err := c.cmd.Wait()
	code := -1
	if c.cmd.ProcessState != nil {
		code = c.cmd.ProcessState.ExitCode()
	}
	c.exitCode = code
	c.waitErr = err
	logging.Debug("Launcher", "%s (PID: %d) exited with code %d", c.spec.Name, c.PID(), code)
	close(c.done)
}

func (c *execChild) Spec() LaunchSpec { return c.spec }

func (c *execChild) PID() int { return c.cmd.Process.Pid }

func (c *execChild) Wait(ctx context.Context) (int, error) {
	select {
	case <-c.done:
		return c.exitCode, nil
	case <-ctx.Done():
		return 0, ctx.Err()
	}
}

func (c *execChild) exited() bool {
	select {
	case <-c.done:
		return true
	default:
		return false
	}
}

func (c *execChild) Terminate() error {
	if c.exited() {
		return nil
	}
	c.terminateOnce.Do(func() {
		logging.Info("Launcher", "Terminating %s (PID: %d)", c.spec.Name, c.PID())
		c.terminateErr = requestTermination(c.cmd.Process)
	})
	return c.terminateErr
}
