// Package timestep derives stable coupling steps from the most recent
// velocity solution.
//
// An [Adaptor] applies three bounds each iteration: the configured
// ceiling, a Courant stability estimate over the grid, and a growth
// cap relative to the previously chosen step. Starting from a tiny
// seed step the chosen sequence therefore ramps up geometrically while
// the flow allows it and flattens against whichever bound bites first.
//
// A velocity field with every node at rest has no finite stability
// bound; [Adaptor.Update] reports this as [ErrDegenerateField] and
// leaves its state untouched so the caller can substitute a step of
// its own choosing, conventionally [Adaptor.Max].
package timestep
