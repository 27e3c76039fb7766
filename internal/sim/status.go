package sim

// Status enumerates the loop lifecycle.
type Status int

const (
	StatusInitialising Status = iota
	StatusStepping
	StatusConverged
	StatusBudgetExhausted
)

func (s Status) String() string {
	switch s {
	case StatusInitialising:
		return "initialising"
	case StatusStepping:
		return "stepping"
	case StatusConverged:
		return "converged"
	case StatusBudgetExhausted:
		return "budget exhausted"
	default:
		return "unknown"
	}
}

// Terminal reports whether the loop has finished. Both terminal states
// are ordinary outcomes; running out of budget is not an error.
func (s Status) Terminal() bool {
	return s == StatusConverged || s == StatusBudgetExhausted
}
