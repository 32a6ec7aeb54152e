// Package logx wraps zerolog behind a small structured-logging API.
//
// The zero Logger value is a safe no-op. Loggers created from a Service
// stay live across Service.Apply calls, so sinks and levels can change
// at runtime without re-plumbing loggers through the app.
package logx
