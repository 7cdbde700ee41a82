package process

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"devrunner/pkg/logging"
)

// WaitPolicy selects how a Group reacts to the first failing member.
type WaitPolicy int

const (
	// FailFast stops waiting at the first non-zero exit, even while later
	// members are still running. A later failure can go unreported.
	FailFast WaitPolicy = iota
	// WaitAll waits for every member and reports all failures.
	WaitAll
)

func (p WaitPolicy) String() string {
	switch p {
	case FailFast:
		return "fail-fast"
	case WaitAll:
		return "wait-all"
	default:
		return fmt.Sprintf("WaitPolicy(%d)", int(p))
	}
}

// ParseWaitPolicy accepts "fail-fast" or "wait-all"; empty means FailFast.
func ParseWaitPolicy(s string) (WaitPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "fail-fast", "failfast":
		return FailFast, nil
	case "wait-all", "waitall":
		return WaitAll, nil
	default:
		return FailFast, fmt.Errorf("unknown wait policy %q (want fail-fast or wait-all)", s)
	}
}

// Group is a fixed, ordered set of children waited on and terminated together.
type Group struct {
	members []Child
	policy  WaitPolicy
}

// NewGroup assembles a group. Membership cannot change afterwards.
func NewGroup(policy WaitPolicy, members ...Child) *Group {
	return &Group{
		members: slices.Clone(members),
		policy:  policy,
	}
}

// Members returns the children in launch order.
func (g *Group) Members() []Child {
	return slices.Clone(g.members)
}

// Policy returns the wait policy.
func (g *Group) Policy() WaitPolicy { return g.policy }

// Wait blocks until the group outcome is known. It returns nil iff every
// member exited 0, a *ChildProcessFailedError for the first failing member in
// enumeration order, or ctx.Err() if ctx is done first.
func (g *Group) Wait(ctx context.Context) error {
	var failures []error
	for _, member := range g.members {
		code, err := member.Wait(ctx)
		if err != nil {
			return err
		}
		if code == 0 {
			logging.Debug("Group", "%s completed successfully", member.Spec().Name)
			continue
		}

		failed := &ChildProcessFailedError{Spec: member.Spec(), ExitCode: code}
		logging.Debug("Group", "Member %s exited with code %d", member.Spec().Name, code)
		if g.policy == FailFast {
			return failed
		}
		failures = append(failures, failed)
	}
	return errors.Join(failures...)
}

// TerminateAll requests termination of every member once, newest first, so
// the earliest launched member is signalled last.
func (g *Group) TerminateAll() error {
	var errs []error
	for i := len(g.members) - 1; i >= 0; i-- {
		if err := g.members[i].Terminate(); err != nil {
			logging.Warn("Group", "Failed to terminate %s: %v", g.members[i].Spec().Name, err)
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
