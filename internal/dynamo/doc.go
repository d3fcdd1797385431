// Package dynamo provides core simulation primitives for dynamical systems.
//
// The package defines the fundamental interfaces and types for fixed-step
// numerical simulation of ordinary differential equations (ODEs):
//
//   - [State]: vector representing system state
//   - [System]: interface for ODE systems (dX/dt = f(X, u, t))
//   - [Integrator]: fixed-step numerical integration scheme
//   - [Metric]: per-step observation aggregated into a scalar
//
// # Thread Safety
//
// None of the types here are safe for concurrent use within one run.
// A simulation is a strict sequential fold over its input sequence; for
// parallelism, run independent simulations each owning their own state
// (see the batch package).
package dynamo
