// Package extractor carves recognizable assets out of a cache tree.
//
// ProcessFile runs one file through the pipeline: history lookup by source
// identity, a single read, an optional decompression pass, signature
// detection and carving, in-run content dedup, classification, and placement
// through a temp file into the category directory. Every per-file failure
// becomes an OutcomeError on the Result; nothing propagates out of a worker.
//
// Run wraps ProcessFile with scanning, the worker pool, progress reporting,
// the history flush and the run ledger. Only one run may target an output
// directory at a time; the lock lives at <output>/.assetcarver.lock.
package extractor
