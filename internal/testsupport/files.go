package testsupport

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/gzip"
)

// WriteFile writes data to path, creating parent directories.
func WriteFile(t testing.TB, path string, data []byte) string {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}

// Filler returns n bytes of a repeating pattern that contains no asset marker.
func Filler(n int, seed byte) []byte {
	buf := make([]byte, n)
	for i := range buf {
		buf[i] = 'a' + (seed+byte(i))%16
	}
	return buf
}

// PNG returns a minimal PNG stream: signature, IHDR, body bytes, IEND and CRC.
func PNG(body []byte) []byte {
	var b bytes.Buffer
	b.Write([]byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'})
	b.Write([]byte{0, 0, 0, 13})
	b.WriteString("IHDR")
	b.Write(make([]byte, 13))
	b.Write([]byte{1, 2, 3, 4})
	b.Write(body)
	b.Write([]byte{0, 0, 0, 0})
	b.WriteString("IEND")
	b.Write([]byte{0xae, 0x42, 0x60, 0x82})
	return b.Bytes()
}

// OGG returns an Ogg page header followed by body bytes.
func OGG(body []byte) []byte {
	var b bytes.Buffer
	b.WriteString("OggS")
	b.Write([]byte{0, 2, 0, 0, 0, 0, 0, 0, 0, 0})
	b.Write(body)
	return b.Bytes()
}

// WEBP returns a RIFF/WEBP container whose declared size covers body.
func WEBP(body []byte) []byte {
	var b bytes.Buffer
	b.WriteString("RIFF")
	size := make([]byte, 4)
	binary.LittleEndian.PutUint32(size, uint32(4+len(body)))
	b.Write(size)
	b.WriteString("WEBP")
	b.Write(body)
	return b.Bytes()
}

// KTX returns a KTX 1.1 file identifier followed by body bytes.
func KTX(body []byte) []byte {
	var b bytes.Buffer
	b.Write([]byte{0xab, 'K', 'T', 'X', ' ', '1', '1', 0xbb, '\r', '\n', 0x1a, '\n'})
	b.Write(body)
	return b.Bytes()
}

// RBXM returns a binary model container header followed by body bytes.
func RBXM(body []byte) []byte {
	var b bytes.Buffer
	b.WriteString("<roblox!")
	b.Write([]byte{0x89, 0xff, '\r', '\n', 0x1a, '\n'})
	b.Write(body)
	return b.Bytes()
}

// Gzip compresses data with the standard gzip format.
func Gzip(t testing.TB, data []byte) []byte {
	t.Helper()
	var b bytes.Buffer
	w := gzip.NewWriter(&b)
	if _, err := w.Write(data); err != nil {
		t.Fatalf("gzip write: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("gzip close: %v", err)
	}
	return b.Bytes()
}

// Concat joins byte slices.
func Concat(parts ...[]byte) []byte {
	return bytes.Join(parts, nil)
}
