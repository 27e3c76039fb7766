// Package sim drives coupled solver collaborators until the monitored
// field reaches steady state or the iteration budget runs out.
//
// A [Loop] owns a [Clock], a timestep adaptor and a convergence
// monitor, and advances external [Solver] collaborators through a
// fixed sequence every iteration:
//
//  1. periodic snapshot output on the configured cadence
//  2. timestep update from the latest velocity, then the clock advance
//  3. solver calls in registration order
//  4. convergence measurement on the monitored field
//
// The run ends with [StatusConverged] when the measured change drops
// below tolerance, or [StatusBudgetExhausted] when the budget is
// spent. Budget exhaustion is a status, not an error; only
// collaborator failures surface as errors, wrapped in a [StepError].
//
// A degenerate velocity field is the one non-fatal solve-side
// condition: the loop substitutes the adaptor ceiling for that
// iteration, logs a warning and keeps going.
//
// A Loop is not safe for concurrent use. Concurrent runs each own a
// full loop stack; the sweep helpers in the scenario package follow
// that pattern.
package sim
