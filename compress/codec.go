package compress

import (
	"errors"
	"fmt"
	"time"

	"github.com/arloliu/tsln/format"
)

// ErrUnsupported is returned for compression types without a built-in codec.
var ErrUnsupported = errors.New("unsupported compression type")

// Codec compresses and decompresses complete payloads.
//
// Compress never modifies its input. Decompress fails on corrupted input or
// input produced by another algorithm.
type Codec interface {
	Type() format.CompressionType
	Compress(data []byte) ([]byte, error)
	Decompress(data []byte) ([]byte, error)
}

var builtin = map[format.CompressionType]Codec{
	format.CompressionNone: noopCodec{},
	format.CompressionZstd: zstdCodec{},
	format.CompressionS2:   s2Codec{},
	format.CompressionLZ4:  lz4Codec{},
}

// Get returns the shared codec of ct. Codecs are safe for concurrent use.
func Get(ct format.CompressionType) (Codec, error) {
	c, ok := builtin[ct]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupported, ct)
	}

	return c, nil
}

// Stats describes the compression of one text.
type Stats struct {
	Algorithm      format.CompressionType
	OriginalSize   int
	CompressedSize int
	Duration       time.Duration
}

// Ratio returns compressed size / original size, or 0 for empty input.
func (s Stats) Ratio() float64 {
	if s.OriginalSize == 0 {
		return 0
	}

	return float64(s.CompressedSize) / float64(s.OriginalSize)
}

// Savings returns the space saved as a percentage of the original size.
func (s Stats) Savings() float64 {
	if s.OriginalSize == 0 {
		return 0
	}

	return (1 - s.Ratio()) * 100
}

// Measure compresses text with c and reports the sizes.
func Measure(c Codec, text string) (Stats, error) {
	start := time.Now()
	out, err := c.Compress([]byte(text))
	if err != nil {
		return Stats{}, fmt.Errorf("%s compression: %w", c.Type(), err)
	}

	return Stats{
		Algorithm:      c.Type(),
		OriginalSize:   len(text),
		CompressedSize: len(out),
		Duration:       time.Since(start),
	}, nil
}

// Size returns the size of text after compression with ct.
func Size(ct format.CompressionType, text string) (int, error) {
	c, err := Get(ct)
	if err != nil {
		return 0, err
	}

	stats, err := Measure(c, text)
	if err != nil {
		return 0, err
	}

	return stats.CompressedSize, nil
}
