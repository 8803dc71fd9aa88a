// Package preflight provides readiness checks for the filesystem paths and
// external binaries an extraction run depends on.
//
// The extract command calls RunAll before starting workers and aborts when a
// required check fails. The status command renders the same results as a table.
package preflight
