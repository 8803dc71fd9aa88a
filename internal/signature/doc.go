// Package signature holds the catalog of asset kinds recognized inside Roblox
// cache entries and the carve operations that cut a payload out of a raw
// buffer.
//
// The catalog is a fixed table: each Kind has marker byte sequences, an
// output extension and a coarse group. Detect walks kinds in catalog order
// and returns the first one whose carve yields a viable payload, so a short
// false-positive match never masks a later correct one.
//
// Only the leading signature is load-bearing. OGG, KTX and RBXM payloads run
// to the end of the buffer because their containers have no cheap trailing
// marker.
package signature
