// Package store persists which events have already been notified and the
// per-source poll cursors. It is the only durable state in the process.
package store
