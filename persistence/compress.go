package persistence

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Compression selects the payload compression of portable files.
type Compression uint8

const (
	// CompressionNone stores the payload as is.
	CompressionNone Compression = 0
	// CompressionLZ4 uses LZ4 block compression (fast).
	CompressionLZ4 Compression = 1
	// CompressionZSTD uses ZSTD (better ratio).
	CompressionZSTD Compression = 2
)

var (
	// ErrUnknownCompression is returned for unsupported compression values.
	ErrUnknownCompression = errors.New("unknown compression")
	// ErrImplausibleSize is returned when a recorded decompressed size
	// cannot come from the stored payload.
	ErrImplausibleSize = errors.New("implausible decompressed size")
)

const (
	// lz4MaxRatio bounds LZ4 block expansion: a single token byte and a
	// 255-run length byte can describe at most 255 output bytes each.
	lz4MaxRatio = 255

	// zstdPrealloc caps the buffer reserved up front for ZSTD output. The
	// frame itself bounds what the decoder produces.
	zstdPrealloc = 64 << 20
)

// String returns the string representation of a Compression.
func (c Compression) String() string {
	switch c {
	case CompressionNone:
		return "none"
	case CompressionLZ4:
		return "lz4"
	case CompressionZSTD:
		return "zstd"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(c))
	}
}

// ParseCompression parses a compression name.
func ParseCompression(s string) (Compression, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none":
		return CompressionNone, nil
	case "lz4":
		return CompressionLZ4, nil
	case "zstd":
		return CompressionZSTD, nil
	default:
		return CompressionNone, fmt.Errorf("%w: %q", ErrUnknownCompression, s)
	}
}

// ZSTD encoder/decoder pools for efficiency
var (
	zstdEncoderPool sync.Pool
	zstdDecoderPool sync.Pool
)

func getZstdEncoder() *zstd.Encoder {
	if v := zstdEncoderPool.Get(); v != nil {
		return v.(*zstd.Encoder)
	}
	enc, _ := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	return enc
}

func getZstdDecoder() *zstd.Decoder {
	if v := zstdDecoderPool.Get(); v != nil {
		return v.(*zstd.Decoder)
	}
	dec, _ := zstd.NewReader(nil, zstd.WithDecoderConcurrency(1))
	return dec
}

// Compress compresses data with c. It returns the compression actually
// applied: incompressible input is stored with CompressionNone.
func Compress(c Compression, data []byte) (Compression, []byte, error) {
	if len(data) == 0 {
		return CompressionNone, data, nil
	}

	switch c {
	case CompressionNone:
		return CompressionNone, data, nil
	case CompressionLZ4:
		out := make([]byte, lz4.CompressBlockBound(len(data)))

		n, err := lz4.CompressBlock(data, out, nil)
		if err != nil {
			return CompressionNone, nil, err
		}
		if n == 0 || n >= len(data) {
			return CompressionNone, data, nil
		}

		return CompressionLZ4, out[:n], nil
	case CompressionZSTD:
		enc := getZstdEncoder()
		defer zstdEncoderPool.Put(enc)

		out := enc.EncodeAll(data, nil)
		if len(out) >= len(data) {
			return CompressionNone, data, nil
		}

		return CompressionZSTD, out, nil
	default:
		return CompressionNone, nil, fmt.Errorf("%w: %d", ErrUnknownCompression, uint8(c))
	}
}

// Decompress reverses Compress. rawSize is the expected decompressed size;
// it is checked against what data could expand to before anything is
// allocated.
func Decompress(c Compression, data []byte, rawSize int) ([]byte, error) {
	if rawSize < 0 {
		return nil, fmt.Errorf("%w: %d", ErrImplausibleSize, rawSize)
	}

	switch c {
	case CompressionNone:
		if len(data) != rawSize {
			return nil, fmt.Errorf("%w: payload %d bytes, expected %d", ErrTruncated, len(data), rawSize)
		}
		return data, nil
	case CompressionLZ4:
		if rawSize/lz4MaxRatio > len(data) {
			return nil, fmt.Errorf("%w: %d bytes from %d", ErrImplausibleSize, rawSize, len(data))
		}

		out := make([]byte, rawSize)

		n, err := lz4.UncompressBlock(data, out)
		if err != nil {
			return nil, err
		}
		if n != rawSize {
			return nil, fmt.Errorf("%w: got %d bytes, header says %d", ErrImplausibleSize, n, rawSize)
		}

		return out, nil
	case CompressionZSTD:
		dec := getZstdDecoder()
		defer zstdDecoderPool.Put(dec)

		out, err := dec.DecodeAll(data, make([]byte, 0, min(rawSize, zstdPrealloc)))
		if err != nil {
			return nil, err
		}
		if len(out) != rawSize {
			return nil, fmt.Errorf("%w: got %d bytes, header says %d", ErrImplausibleSize, len(out), rawSize)
		}

		return out, nil
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownCompression, uint8(c))
	}
}
