// Package progress renders extraction progress for humans.
//
// A Reporter is fed workpool samples and forwards an Update, enriched with
// the rate-limited statistics snapshot, to a Sink. LogSink writes sampled
// slog lines; BarSink drives a terminal progress bar.
package progress
