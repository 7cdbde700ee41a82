package process_test

import (
	"bytes"
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"devrunner/internal/process"
	"devrunner/internal/process/processtest"
	"devrunner/pkg/logging"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fake(name string) *processtest.FakeChild {
	return processtest.NewFakeChild(process.LaunchSpec{Name: name, Path: name}, 1)
}

func TestGroupWait_ExitCodes(t *testing.T) {
	tests := []struct {
		name     string
		codes    []int
		wantCode int
		wantName string
	}{
		{name: "single success", codes: []int{0}},
		{name: "all success", codes: []int{0, 0, 0}},
		{name: "first fails", codes: []int{3, 0}, wantCode: 3, wantName: "m0"},
		{name: "last fails", codes: []int{0, 0, 7}, wantCode: 7, wantName: "m2"},
		{name: "first failure reported", codes: []int{0, 2, 9}, wantCode: 2, wantName: "m1"},
	}

	for _, tt := range tests {
		for _, policy := range []process.WaitPolicy{process.FailFast, process.WaitAll} {
			t.Run(tt.name+"/"+policy.String(), func(t *testing.T) {
				var members []process.Child
				for i, code := range tt.codes {
					c := processtest.NewFakeChild(process.LaunchSpec{Name: "m" + string(rune('0'+i))}, i)
					c.Exit(code)
					members = append(members, c)
				}

				err := process.NewGroup(policy, members...).Wait(context.Background())
				if tt.wantCode == 0 {
					assert.NoError(t, err)
					return
				}

				require.Error(t, err)
				assert.ErrorIs(t, err, process.ErrChildProcessFailed)
				var failed *process.ChildProcessFailedError
				require.True(t, errors.As(err, &failed))
				assert.Equal(t, tt.wantCode, failed.ExitCode)
				assert.Equal(t, tt.wantName, failed.Spec.Name)
				assert.Equal(t, tt.wantCode, process.ExitCode(err))
			})
		}
	}
}

func TestGroupWait_FailFastDoesNotWaitForLaterMembers(t *testing.T) {
	first := fake("data-service")
	second := fake("app-server") // never exits
	first.Exit(1)

	done := make(chan error, 1)
	go func() {
		done <- process.NewGroup(process.FailFast, first, second).Wait(context.Background())
	}()

	select {
	case err := <-done:
		var failed *process.ChildProcessFailedError
		require.True(t, errors.As(err, &failed))
		assert.Equal(t, "data-service", failed.Spec.Name)
		assert.False(t, second.Exited())
	case <-time.After(2 * time.Second):
		t.Fatal("fail-fast wait blocked on a running member")
	}
}

func TestGroupWait_WaitAllReportsEveryFailure(t *testing.T) {
	a, b, c := fake("a"), fake("b"), fake("c")
	a.Exit(1)
	b.Exit(0)
	c.Exit(4)

	err := process.NewGroup(process.WaitAll, a, b, c).Wait(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "a (a) exited with code 1")
	assert.Contains(t, err.Error(), "c (c) exited with code 4")
	assert.Equal(t, 1, process.ExitCode(err))
}

func TestGroupWait_ContextCancelled(t *testing.T) {
	running := fake("server")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := process.NewGroup(process.FailFast, running).Wait(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestGroupTerminateAll_ReverseOrderOnce(t *testing.T) {
	spy := &processtest.SpyLauncher{}
	db, err := spy.Launch(process.LaunchSpec{Name: "data-service"})
	require.NoError(t, err)
	app, err := spy.Launch(process.LaunchSpec{Name: "app-server"})
	require.NoError(t, err)

	g := process.NewGroup(process.FailFast, db, app)
	require.NoError(t, g.TerminateAll())

	assert.Equal(t, []string{
		"launch:data-service",
		"launch:app-server",
		"terminate:app-server",
		"terminate:data-service",
	}, spy.Events())
	assert.Equal(t, 1, spy.Child("data-service").Terminations())
	assert.Equal(t, 1, spy.Child("app-server").Terminations())
}

func TestGroupMembers_IsACopy(t *testing.T) {
	g := process.NewGroup(process.FailFast, fake("a"), fake("b"))
	members := g.Members()
	members[0] = nil
	assert.NotNil(t, g.Members()[0])
	assert.Equal(t, process.FailFast, g.Policy())
}

func TestParseWaitPolicy(t *testing.T) {
	tests := []struct {
		in      string
		want    process.WaitPolicy
		wantErr bool
	}{
		{in: "", want: process.FailFast},
		{in: "fail-fast", want: process.FailFast},
		{in: "Wait-All", want: process.WaitAll},
		{in: "sometimes", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := process.ParseWaitPolicy(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExitCode(t *testing.T) {
	assert.Equal(t, 0, process.ExitCode(nil))
	assert.Equal(t, 1, process.ExitCode(errors.New("boom")))
	assert.Equal(t, 1, process.ExitCode(&process.ChildProcessFailedError{ExitCode: -1}))
	assert.Equal(t, 12, process.ExitCode(&process.ChildProcessFailedError{ExitCode: 12}))
}

func TestGroupWait_FailureIsNotLoggedAboveDebug(t *testing.T) {
	var buf bytes.Buffer
	logging.InitForCLI(logging.LevelInfo, &buf)
	t.Cleanup(func() { logging.InitForCLI(logging.LevelInfo, os.Stderr) })

	failing := fake("build")
	failing.Exit(2)

	err := process.NewGroup(process.FailFast, failing).Wait(context.Background())
	require.Error(t, err)
	assert.NotContains(t, buf.String(), "build")
}
