// Package orchestrator sequences a local development session.
//
// The orchestrator is a small state machine:
//
//	Idle -> ResolvingTools -> Running -> ShuttingDown -> Terminated
//
// It resolves every required tool before launching anything, then runs one of
// two modes.
//
// # Type generation
//
// One-shot. The data service is started, the type generation helper runs to
// completion against it, and the data service is terminated. The run succeeds
// iff the helper exits 0.
//
// # Development server
//
// Long-running. Steps, each strictly after the previous one:
//
//  1. Type generation helper (optional, synchronous)
//  2. Data service (left running)
//  3. Application build (synchronous; failure aborts)
//  4. Readiness wait for the data service (fixed delay or TCP probe)
//  5. Application server, with NODE_ENV=development and POCKETBASE_URL set
//
// The data service and application server then form one process.Group and
// the orchestrator waits on it.
//
// # Shutdown
//
// Every exit path goes through ShuttingDown, which sends one termination
// request to each process still owned by the run, newest first. Cancelling
// the run context (Ctrl+C) is a normal stop and Run returns nil. A child
// failure is returned as a *process.ChildProcessFailedError.
package orchestrator
