// Package physics provides the demo solver pair that exercises the
// driving loop end to end on a heated box.
//
//   - [Buoyancy]: reduced momentum balance, temperature in, velocity out
//   - [Energy]: explicit advection-diffusion of temperature
//
// Both satisfy the loop's Solver contract; [Energy] additionally
// retains its pre-solve iterate and so backs the steady-state check.
// The solvers share field storage by pointer, which is why the loop's
// registration order is what couples them: momentum first, so the
// energy equation advects with the velocity of the current iteration.
package physics
