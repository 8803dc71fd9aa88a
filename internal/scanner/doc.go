// Package scanner enumerates candidate cache files and implements the cache
// purge used by "assetcarver cache clear".
//
// Both walks skip directories whose name matches an excluded name anywhere in
// the tree, so extracted or converted output is never rescanned. Per-entry
// permission and I/O errors drop only that entry or subtree.
package scanner
