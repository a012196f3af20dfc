// Package zap bridges the backoff/log diagnostics interface to zap.
//
// Use New to build a structured logger suitable for Config.Logger, so
// backoff debug traces land in the application's regular log stream with
// trace correlation preserved.
package zap
