// Package processtest provides in-memory process doubles for tests.
package processtest

import (
	"context"
	"sync"

	"devrunner/internal/process"
)

// FakeChild is a process.Child whose exit is controlled by the test.
type FakeChild struct {
	spec process.LaunchSpec
	pid  int

	// ExitOnTerminate makes Terminate complete the process with TerminatedCode.
	ExitOnTerminate bool
	TerminatedCode  int

	onTerminate func(*FakeChild)

	mu           sync.Mutex
	done         chan struct{}
	code         int
	exited       bool
	terminations int
}

// NewFakeChild returns a running fake.
func NewFakeChild(spec process.LaunchSpec, pid int) *FakeChild {
	return &FakeChild{
		spec:            spec,
		pid:             pid,
		done:            make(chan struct{}),
		ExitOnTerminate: true,
		TerminatedCode:  -1,
	}
}

// Exit completes the process with code. Later calls are ignored.
func (c *FakeChild) Exit(code int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.exited {
		return
	}
	c.code = code
	c.exited = true
	close(c.done)
}

// Exited reports whether the process has completed.
func (c *FakeChild) Exited() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.exited
}

// Terminations is the number of Terminate calls received.
func (c *FakeChild) Terminations() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.terminations
}

func (c *FakeChild) Spec() process.LaunchSpec { return c.spec }

func (c *FakeChild) PID() int { return c.pid }

func (c *FakeChild) Wait(ctx context.Context) (int, error) {
	select {
	case <-c.done:
		c.mu.Lock()
		defer c.mu.Unlock()
		return c.code, nil
	case <-ctx.Done():
		return 0, ctx.Err()
	}
}

// Terminate counts every call so tests can assert "exactly once".
func (c *FakeChild) Terminate() error {
	c.mu.Lock()
	c.terminations++
	exitNow := c.ExitOnTerminate
	c.mu.Unlock()

	if c.onTerminate != nil {
		c.onTerminate(c)
	}
	if exitNow {
		c.Exit(c.TerminatedCode)
	}
	return nil
}

// SpyLauncher records launches and hands out FakeChild values.
type SpyLauncher struct {
	// OnLaunch runs after the fake is created. It can complete the child
	// (child.Exit) or return an error to simulate a spawn failure.
	OnLaunch func(spec process.LaunchSpec, child *FakeChild) error

	mu       sync.Mutex
	launches []process.LaunchSpec
	children []*FakeChild
	events   []string
}

// Launch implements process.Launcher.
func (l *SpyLauncher) Launch(spec process.LaunchSpec) (process.Child, error) {
	l.mu.Lock()
	child := NewFakeChild(spec, 1000+len(l.children))
	child.onTerminate = func(c *FakeChild) { l.record("terminate:" + c.spec.Name) }
	l.mu.Unlock()

	if l.OnLaunch != nil {
		if err := l.OnLaunch(spec, child); err != nil {
			return nil, &process.SpawnFailedError{Spec: spec, Err: err}
		}
	}

	l.mu.Lock()
	l.launches = append(l.launches, spec)
	l.children = append(l.children, child)
	l.events = append(l.events, "launch:"+spec.Name)
	l.mu.Unlock()
	return child, nil
}

func (l *SpyLauncher) record(event string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = append(l.events, event)
}

// Launches returns the specs launched so far, in order.
func (l *SpyLauncher) Launches() []process.LaunchSpec {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]process.LaunchSpec(nil), l.launches...)
}

// Names returns the launched spec names in order.
func (l *SpyLauncher) Names() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	names := make([]string, 0, len(l.launches))
	for _, s := range l.launches {
		names = append(names, s.Name)
	}
	return names
}

// Child returns the first fake launched under name, or nil.
func (l *SpyLauncher) Child(name string) *FakeChild {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, c := range l.children {
		if c.spec.Name == name {
			return c
		}
	}
	return nil
}

// Events returns "launch:<name>" and "terminate:<name>" entries in order.
func (l *SpyLauncher) Events() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.events...)
}
