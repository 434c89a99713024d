// Package server implements the optional monitoring HTTP server. A single
// transcription job can poll for a long time; the server exposes health,
// Prometheus metrics, and the current task state while the CLI waits.
package server
