// Package compress measures how far general-purpose compression shrinks an encoded document.
//
// TSLN documents are plain text and are usually handed to a language model
// as-is, so compression is not part of the format. It is still useful to know
// how much redundancy an encoding leaves behind: a notation that compresses
// much further under zstd carries structure the encoder did not exploit.
// The metrics package reports a compressed size next to the raw size and token
// count of every compared format.
//
// The built-in codecs are looked up with Get:
//
//   - format.CompressionNone returns the input unchanged.
//   - format.CompressionZstd uses klauspost/compress/zstd, or valyala/gozstd
//     when built with cgo and the tsln_gozstd tag.
//   - format.CompressionS2 writes one S2 block (klauspost/compress/s2).
//   - format.CompressionLZ4 writes an LZ4 frame (pierrec/lz4).
//
// Usage:
//
//	n, err := compress.Size(format.CompressionZstd, doc.Text())
package compress
