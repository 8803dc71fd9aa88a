package extractor

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"

	"assetcarver/internal/logging"
)

var (
	gzipMagic = []byte{0x1f, 0x8b}
	zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}

	errTooLarge = errors.New("decompressed size exceeds limit")
)

// decompress makes one attempt to unwrap a gzip or zstd frame. Any failure
// returns the raw bytes unchanged.
func (e *Engine) decompress(data []byte) []byte {
	var (
		out []byte
		err error
	)
	switch {
	case bytes.HasPrefix(data, gzipMagic):
		out, err = gunzip(data, e.cfg.MaxDecompressedBytes())
	case bytes.HasPrefix(data, zstdMagic):
		out, err = e.zstd.decode(data)
	default:
		return data
	}
	if err != nil {
		e.logger.Debug("decompression failed, using raw bytes", logging.Error(err))
		return data
	}
	return out
}

func gunzip(data []byte, limit int64) ([]byte, error) {
	zr, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("gzip header: %w", err)
	}
	defer zr.Close()
	return readLimited(zr, limit)
}

func readLimited(r io.Reader, limit int64) ([]byte, error) {
	if limit <= 0 {
		return io.ReadAll(r)
	}
	out, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, err
	}
	if int64(len(out)) > limit {
		return nil, errTooLarge
	}
	return out, nil
}

// decoderPool reuses zstd decoders across workers.
type decoderPool struct {
	pool  sync.Pool
	limit int64
}

func newDecoderPool(limit int64) *decoderPool {
	return &decoderPool{limit: limit}
}

func (p *decoderPool) get(r io.Reader) (*zstd.Decoder, func(), error) {
	if dec, ok := p.pool.Get().(*zstd.Decoder); ok {
		if err := dec.Reset(r); err == nil {
			return dec, func() {
				_ = dec.Reset(nil)
				p.pool.Put(dec)
			}, nil
		}
		dec.Close()
	}
	opts := []zstd.DOption{zstd.WithDecoderConcurrency(1)}
	if p.limit > 0 {
		opts = append(opts, zstd.WithDecoderMaxMemory(uint64(p.limit)))
	}
	dec, err := zstd.NewReader(r, opts...)
	if err != nil {
		return nil, nil, err
	}
	return dec, func() {
		_ = dec.Reset(nil)
		p.pool.Put(dec)
	}, nil
}

func (p *decoderPool) decode(data []byte) ([]byte, error) {
	dec, release, err := p.get(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("zstd reader: %w", err)
	}
	defer release()
	return readLimited(dec, p.limit)
}
