// Package ffprobe wraps the ffprobe binary for duration measurement.
//
// Key types:
//   - Prober: measures a file's duration with a per-call timeout
//   - Result: parsed JSON inspection output used when the container
//     declares no duration of its own
package ffprobe
