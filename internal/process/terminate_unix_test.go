//go:build !windows

package process

import (
	"os/exec"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestTermination_ReapedProcess(t *testing.T) {
	cmd := exec.Command("/bin/sh", "-c", "exit 0")
	require.NoError(t, cmd.Start())
	require.NoError(t, cmd.Wait())

	assert.NoError(t, requestTermination(cmd.Process))
}

func TestRequestTermination_Running(t *testing.T) {
	cmd := exec.Command("/bin/sh", "-c", "exec sleep 30")
	require.NoError(t, cmd.Start())

	require.NoError(t, requestTermination(cmd.Process))
	err := cmd.Wait()
	require.Error(t, err)
	assert.Equal(t, -1, cmd.ProcessState.ExitCode())
}
