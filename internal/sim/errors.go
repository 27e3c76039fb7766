package sim

import "fmt"

// StepError wraps a fatal collaborator failure with the iteration that
// hit it.
type StepError struct {
	Op   string
	Iter int
	Time float64
	Err  error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("sim: %s failed at iteration %d (t=%g): %v", e.Op, e.Iter, e.Time, e.Err)
}

func (e *StepError) Unwrap() error { return e.Err }
