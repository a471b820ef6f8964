// Package compress provides the compression codecs applied to captured OSON
// and VECTOR images.
//
// Images are stored and exchanged as opaque byte strings. When they are
// captured to disk, attached to reports or piped between tools they are often
// compressed as a whole; this package gives those captures a uniform
// interface keyed by format.CompressionType:
//
//   - None: data passes through unchanged
//   - Zstd: best ratio, moderate speed
//   - S2: fast, moderate ratio
//   - LZ4: fast, self-describing frames
//
// Usage:
//
//	codec, err := compress.GetCodec(format.CompressionZstd)
//	if err != nil {
//		return err
//	}
//	compressed, err := codec.Compress(image)
//	...
//	image, err = codec.Decompress(compressed)
//
// CompressWithStats also reports the original and compressed sizes:
//
//	compressed, stats, err := compress.CompressWithStats(format.CompressionS2, image)
//	fmt.Printf("%.1f%% saved\n", stats.SpaceSavings())
//
// All codecs are safe for concurrent use. Zstd and LZ4 keep pooled encoder
// state between calls.
package compress
