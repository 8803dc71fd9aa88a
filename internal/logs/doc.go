// Package logs reads the tail of assetcarver's log files with bounded memory.
//
// Tail returns the last N lines of a file plus the byte offset where reading
// stopped; Follow polls from that offset and emits each appended line until
// the context is cancelled. The `logs` command uses both against the
// application log and the per-output extraction error log.
package logs
