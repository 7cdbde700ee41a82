//go:build windows

package process

import (
	"errors"
	"fmt"
	"os"
)

// Windows has no SIGTERM; Kill is the only termination request available.
func requestTermination(p *os.Process) error {
	if err := p.Kill(); err != nil {
		if errors.Is(err, os.ErrProcessDone) {
			return nil
		}
		return fmt.Errorf("failed to kill PID %d: %w", p.Pid, err)
	}
	return nil
}
