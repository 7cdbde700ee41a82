package orchestrator

import (
	"context"
	"errors"
	"fmt"

	"devrunner/internal/process"
	"devrunner/internal/tools"
	"devrunner/pkg/logging"
)

// Run executes the configured mode until it completes, fails, or ctx is
// cancelled. Cancellation is a user-initiated stop and returns nil.
func (o *Orchestrator) Run(ctx context.Context) error {
	if o.State() != StateIdle {
		return ErrAlreadyRun
	}

	o.transition(StateResolvingTools)
	set, err := tools.ResolveAll(o.resolver, o.preflightTools()...)
	if err != nil {
		return o.shutdown(ctx, err)
	}
	o.mu.Lock()
	o.tools = set
	o.mu.Unlock()

	o.transition(StateRunning)
	if o.cfg.Production {
		o.logf("Production flag set; orchestration is unchanged")
	}

	switch o.cfg.Mode {
	case ModeTypeGeneration:
		err = o.runTypeGeneration(ctx)
	default:
		err = o.runDevelopmentServer(ctx)
	}
	return o.shutdown(ctx, err)
}

// runTypeGeneration starts the data service, runs the helper against it and
// returns; shutdown then terminates the data service.
func (o *Orchestrator) runTypeGeneration(ctx context.Context) error {
	if _, err := o.launch(o.dataServiceSpec()); err != nil {
		return err
	}
	if err := o.runToCompletion(ctx, o.typegenSpec()); err != nil {
		return fmt.Errorf("type generation failed: %w", err)
	}
	o.logf("Types written to %s", o.path(o.cfg.Project.Typegen.Out))
	return nil
}

func (o *Orchestrator) runDevelopmentServer(ctx context.Context) error {
	if o.cfg.Project.TypegenOnDevStart() {
		if err := o.runToCompletion(ctx, o.typegenSpec()); err != nil {
			return fmt.Errorf("type generation failed: %w", err)
		}
	}

	dataService, err := o.launch(o.dataServiceSpec())
	if err != nil {
		return err
	}

	if err := o.runToCompletion(ctx, o.buildSpec()); err != nil {
		return fmt.Errorf("build failed: %w", err)
	}

	if err := o.readiness.Await(ctx); err != nil {
		return fmt.Errorf("data service not ready: %w", err)
	}

	appServer, err := o.launch(o.appServerSpec())
	if err != nil {
		return err
	}

	group := process.NewGroup(o.cfg.WaitPolicy, dataService, appServer)
	o.logf("Development server running on %s (wait policy %s). Press Ctrl+C to stop.",
		DataServiceURL(o.cfg.Project.DataService.HTTP), group.Policy())
	return group.Wait(ctx)
}

// runToCompletion launches spec and blocks until it exits. A child that exits
// is released whatever its code; one interrupted mid-wait stays owned so
// shutdown terminates it.
func (o *Orchestrator) runToCompletion(ctx context.Context, spec process.LaunchSpec) error {
	child, err := o.launch(spec)
	if err != nil {
		return err
	}
	err = process.NewGroup(o.cfg.WaitPolicy, child).Wait(ctx)
	if err == nil || errors.Is(err, process.ErrChildProcessFailed) {
		o.release(child)
	}
	return err
}

// shutdown terminates every owned child once and maps the run outcome.
func (o *Orchestrator) shutdown(ctx context.Context, runErr error) error {
	o.transition(StateShuttingDown)

	// Children share the terminal's Ctrl+C; a failure observed after
	// cancellation is part of the stop.
	interrupted := runErr != nil && ctx.Err() != nil
	switch {
	case interrupted:
		o.logf("Interrupted, shutting down")
	case runErr != nil:
		logging.Error("Orchestrator", runErr, "Run failed, shutting down")
	}

	if owned := o.takeOwned(); len(owned) > 0 {
		_ = process.NewGroup(o.cfg.WaitPolicy, owned...).TerminateAll()
	}

	o.transition(StateTerminated)
	if interrupted {
		return nil
	}
	return runErr
}
