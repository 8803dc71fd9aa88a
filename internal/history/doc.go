// Package history persists the set of source-file fingerprints that earlier
// runs already extracted, so unchanged cache entries are skipped without being
// read.
//
// # Storage
//
// The set is a JSON array of hex fingerprints at a configurable path
// (default: ~/.roblox_asset_extractor/extracted_history.json). Older files
// shaped as {"hashes": [...]} are still accepted on load. The file is loaded
// once when the store opens and rewritten wholesale on Flush; Flush is a no-op
// when nothing changed.
//
// Writers take an advisory lock on "<path>.lock" and merge with whatever is on
// disk, so two runs sharing a history file never drop each other's entries.
package history
