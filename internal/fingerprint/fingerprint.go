// Package fingerprint computes the two 128-bit identities the extractor uses:
// source identity over path, size and mtime, and content identity over a
// carved payload. The two spaces share a representation but must never be
// compared with each other.
package fingerprint

import (
	"crypto/md5"
	"encoding/hex"
	"io/fs"
	"strconv"
	"strings"
	"time"
)

// Fingerprint is a lower-case hex MD5 digest.
type Fingerprint string

func (f Fingerprint) String() string { return string(f) }

// SourceIdentity fingerprints a cache file by "<path>_<size>_<mtime>", where
// mtime is fractional seconds rendered the way the history file has always
// stored it, so existing history files keep matching.
func SourceIdentity(path string, info fs.FileInfo) Fingerprint {
	return SourceIdentityOf(path, info.Size(), info.ModTime())
}

// SourceIdentityOf is SourceIdentity for callers that already hold size and mtime.
func SourceIdentityOf(path string, size int64, mtime time.Time) Fingerprint {
	key := path + "_" + strconv.FormatInt(size, 10) + "_" + formatMTime(mtime)
	return digest([]byte(key))
}

// Content fingerprints a carved payload.
func Content(payload []byte) Fingerprint {
	return digest(payload)
}

func digest(data []byte) Fingerprint {
	sum := md5.Sum(data)
	return Fingerprint(hex.EncodeToString(sum[:]))
}

func formatMTime(t time.Time) string {
	seconds := float64(t.Unix()) + float64(t.Nanosecond())*1e-9
	s := strconv.FormatFloat(seconds, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}
