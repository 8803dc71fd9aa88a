// Package runlog keeps a SQLite ledger of finished extraction runs.
//
// The ledger is append-only and informational: losing it never affects
// extraction or the persisted history. Schema changes bump schemaVersion and
// require deleting the database.
package runlog
