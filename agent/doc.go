// Package agent implements the iterative Reason-Act-Observe execution loop.
//
// A Runner repeatedly asks an injected reasoning oracle for the next step,
// dispatches the chosen tool through the registry, records the observation,
// and decides whether to continue, stop successfully, or abort. Each run is
// strictly sequential (every oracle call depends on all prior observations)
// while independent runs may execute concurrently against the same
// read-only registry.
package agent
