package physics

import "errors"

// ErrUnstable reports a solve that left the finite range. The run
// cannot continue from a field with NaN or Inf nodes.
var ErrUnstable = errors.New("physics: field diverged")
