package compress

import (
	"bytes"
	"io"

	"github.com/klauspost/compress/s2"
	"github.com/pierrec/lz4/v4"

	"github.com/arloliu/tsln/format"
)

// zstdLevel is the libzstd-equivalent level used by both zstd backends.
const zstdLevel = 3

// noopCodec is the uncompressed reference point; results share memory with the input.
type noopCodec struct{}

func (noopCodec) Type() format.CompressionType { return format.CompressionNone }

func (noopCodec) Compress(data []byte) ([]byte, error) { return data, nil }

func (noopCodec) Decompress(data []byte) ([]byte, error) { return data, nil }

type zstdCodec struct{}

func (zstdCodec) Type() format.CompressionType { return format.CompressionZstd }

// s2Codec writes a single S2 block using the better-ratio encoder, which
// suits small text payloads.
type s2Codec struct{}

func (s2Codec) Type() format.CompressionType { return format.CompressionS2 }

func (s2Codec) Compress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	return s2.EncodeBetter(nil, data), nil
}

func (s2Codec) Decompress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	return s2.Decode(nil, data)
}

// lz4Codec writes the LZ4 frame format, so the decoded size needs no guessing.
type lz4Codec struct{}

func (lz4Codec) Type() format.CompressionType { return format.CompressionLZ4 }

func (lz4Codec) Compress(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	w := lz4.NewWriter(&buf)
	if _, err := w.Write(data); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

func (lz4Codec) Decompress(data []byte) ([]byte, error) {
	return io.ReadAll(lz4.NewReader(bytes.NewReader(data)))
}
