// Package log defines the diagnostics interface and typed logging fields
// used by backoff debug traces.
//
// Adapters (such as the zap package) implement Logger so callers can route
// traces into whatever logging backend their application uses.
package log
