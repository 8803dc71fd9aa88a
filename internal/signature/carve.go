package signature

import (
	"bytes"
	"encoding/binary"
	"errors"
)

var (
	// ErrNoMatch reports that none of a kind's markers occur in the buffer.
	ErrNoMatch = errors.New("signature not found")
	// ErrIncomplete reports a marker without the structure needed to bound the payload.
	ErrIncomplete = errors.New("payload boundary not found")
)

var (
	oggMarker  = []byte("OggS")
	iendTag    = []byte("IEND")
	webpMarker = []byte("WEBP")
	riffTag    = []byte("RIFF")
	ktxToken   = []byte("KTX")
)

// Present reports whether any marker for k occurs in buf.
func Present(k Kind, buf []byte) bool {
	if k == KindRBXM {
		return indexFoldASCII(buf, rbxmMarker) >= 0
	}
	for _, m := range catalog[k].markers {
		if bytes.Contains(buf, m) {
			return true
		}
	}
	return false
}

// Carve returns the payload for k cut from buf. The returned slice aliases buf.
func Carve(k Kind, buf []byte) ([]byte, error) {
	switch k {
	case KindOgg:
		return carveOgg(buf)
	case KindPNG:
		return carvePNG(buf)
	case KindWEBP:
		return carveWEBP(buf)
	case KindKTX:
		return carveKTX(buf)
	case KindRBXM:
		return carveRBXM(buf)
	default:
		return nil, ErrNoMatch
	}
}

func carveOgg(buf []byte) ([]byte, error) {
	start := bytes.Index(buf, oggMarker)
	if start < 0 {
		return nil, ErrNoMatch
	}
	return buf[start:], nil
}

// carvePNG cuts from the PNG header through the IEND tag and its 4-byte CRC.
func carvePNG(buf []byte) ([]byte, error) {
	start := bytes.Index(buf, pngHeader)
	if start < 0 {
		return nil, ErrNoMatch
	}
	rel := bytes.Index(buf[start:], iendTag)
	if rel < 0 {
		return nil, ErrIncomplete
	}
	end := min(start+rel+len(iendTag)+4, len(buf))
	return buf[start:end], nil
}

// carveWEBP walks back from the first WEBP marker to the nearest RIFF tag and
// slices the RIFF-declared size plus the 8-byte chunk header.
func carveWEBP(buf []byte) ([]byte, error) {
	marker := bytes.Index(buf, webpMarker)
	if marker < 0 {
		return nil, ErrNoMatch
	}
	riff := bytes.LastIndex(buf[:marker], riffTag)
	if riff < 0 {
		return nil, ErrIncomplete
	}
	if riff+8 > len(buf) {
		return buf[riff:], nil
	}
	size := int64(binary.LittleEndian.Uint32(buf[riff+4 : riff+8]))
	end := min(int64(riff)+size+8, int64(len(buf)))
	return buf[riff:end], nil
}

// carveKTX prefers the 12-byte KTX identifier and falls back to the bare token.
func carveKTX(buf []byte) ([]byte, error) {
	if start := bytes.Index(buf, ktxIdentifier); start >= 0 {
		return buf[start:], nil
	}
	if start := bytes.Index(buf, ktxToken); start >= 0 {
		return buf[start:], nil
	}
	return nil, ErrNoMatch
}

func carveRBXM(buf []byte) ([]byte, error) {
	start := indexFoldASCII(buf, rbxmMarker)
	if start < 0 {
		return nil, ErrNoMatch
	}
	return buf[start:], nil
}

// indexFoldASCII finds lowerNeedle in buf ignoring ASCII case. The needle
// must already be lower case.
func indexFoldASCII(buf, lowerNeedle []byte) int {
	n := len(lowerNeedle)
	if n == 0 {
		return 0
	}
	first := lowerNeedle[0]
	for i := 0; i+n <= len(buf); i++ {
		if toLowerASCII(buf[i]) != first {
			continue
		}
		match := true
		for j := 1; j < n; j++ {
			if toLowerASCII(buf[i+j]) != lowerNeedle[j] {
				match = false
				break
			}
		}
		if match {
			return i
		}
	}
	return -1
}

func toLowerASCII(b byte) byte {
	if 'A' <= b && b <= 'Z' {
		return b + ('a' - 'A')
	}
	return b
}
