//go:build !windows

package process

import (
	"errors"
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// requestTermination goes through the os.Process handle so an already reaped
// PID is never signalled.
func requestTermination(p *os.Process) error {
	if err := p.Signal(unix.SIGTERM); err != nil {
		if errors.Is(err, os.ErrProcessDone) {
			return nil
		}
		return fmt.Errorf("failed to send SIGTERM to PID %d: %w", p.Pid, err)
	}
	return nil
}
