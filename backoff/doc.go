// Package backoff provides a collision-avoidance retry delay generator.
//
// A Sequence samples each wait uniformly from a growing window of discrete
// time slots instead of returning a deterministic exponential delay, so
// independent retriers desynchronize over time. Use New to build a Sequence,
// then call Next (or range over All) once per retry attempt; the caller is
// responsible for actually waiting out the returned duration.
package backoff
