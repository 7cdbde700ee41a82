package orchestrator

import (
	"errors"
	"fmt"
	"slices"
	"sync"

	"devrunner/internal/config"
	"devrunner/internal/process"
	"devrunner/internal/readiness"
	"devrunner/internal/tools"
	"devrunner/pkg/logging"
)

// ErrAlreadyRun is returned when Run is called on a used orchestrator.
var ErrAlreadyRun = errors.New("orchestrator has already run")

// Config holds everything one run needs besides its collaborators.
type Config struct {
	// Root is the absolute project root; relative paths in Project resolve against it.
	Root string
	Mode Mode
	// Production is accepted and logged; it does not change orchestration.
	Production bool
	RunID      string
	WaitPolicy process.WaitPolicy
	Project    config.DevrunnerConfig
}

// Orchestrator runs one development session. It is not reusable.
type Orchestrator struct {
	cfg       Config
	resolver  tools.Resolver
	launcher  process.Launcher
	readiness readiness.Waiter

	mu      sync.Mutex
	state   State
	history []State
	tools   tools.Set
	// owned are launched children that have not been waited to completion.
	owned []process.Child
}

// New creates an orchestrator. A nil waiter falls back to the configured
// readiness strategy.
func New(cfg Config, resolver tools.Resolver, launcher process.Launcher, waiter readiness.Waiter) *Orchestrator {
	if waiter == nil {
		waiter = NewReadinessWaiter(cfg.Project)
	}
	return &Orchestrator{
		cfg:       cfg,
		resolver:  resolver,
		launcher:  launcher,
		readiness: waiter,
		state:     StateIdle,
	}
}

// NewReadinessWaiter builds the waiter selected by the readiness config.
func NewReadinessWaiter(project config.DevrunnerConfig) readiness.Waiter {
	r := project.Readiness
	if r.Mode == config.ReadinessProbe {
		return readiness.NewTCPProbe(project.DataService.HTTP, uint64(r.MaxAttempts), r.InitialInterval)
	}
	return readiness.FixedDelay{Delay: r.FixedDelay()}
}

// launch spawns spec and takes ownership of the child.
func (o *Orchestrator) launch(spec process.LaunchSpec) (process.Child, error) {
	child, err := o.launcher.Launch(spec)
	if err != nil {
		return nil, err
	}
	o.mu.Lock()
	o.owned = append(o.owned, child)
	o.mu.Unlock()
	return child, nil
}

// release drops a child that has exited on its own.
func (o *Orchestrator) release(child process.Child) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.owned = slices.DeleteFunc(o.owned, func(c process.Child) bool { return c == child })
}

func (o *Orchestrator) takeOwned() []process.Child {
	o.mu.Lock()
	defer o.mu.Unlock()
	owned := o.owned
	o.owned = nil
	return owned
}

// toolPath returns the path resolved during preflight. Every launched tool is
// part of preflight, so an unresolved name is a programming error.
func (o *Orchestrator) toolPath(name string) string {
	o.mu.Lock()
	defer o.mu.Unlock()
	path, ok := o.tools.Path(name)
	if !ok {
		panic(fmt.Sprintf("orchestrator: tool %q was not resolved before launch", name))
	}
	return path
}

// preflightTools lists requiredTools followed by every tool a step launches,
// without duplicates.
func (o *Orchestrator) preflightTools() []string {
	p := o.cfg.Project
	names := slices.Clone(p.RequiredTools)
	for _, name := range []string{p.Typegen.Tool, p.Build.Tool, p.AppServer.Runtime} {
		if name != "" && !slices.Contains(names, name) {
			names = append(names, name)
		}
	}
	return names
}

func (o *Orchestrator) logf(format string, args ...interface{}) {
	logging.Info("Orchestrator", format, args...)
}
