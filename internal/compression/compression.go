// Package compression provides streaming codecs for compressed DAQ artifacts.
//
// The compression stage of the pipeline writes raw event files through ZSTD
// or Zlib. Validators that compare a decompressed output against such an
// artifact decode it on the fly with NewReader, so a whole file is never held
// in memory. Gzip, LZ4 and Snappy cover artifacts that were re-packed for
// transfer or archiving.
package compression

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/golang/snappy"
	"github.com/klauspost/compress/flate"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zlib"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// ErrUnsupportedCodec is returned for a codec name or Type that has no
// streaming implementation.
var ErrUnsupportedCodec = errors.New("compression: unsupported codec")

// Type represents a compression algorithm.
type Type uint8

const (
	// NoCompression passes bytes through unchanged.
	NoCompression Type = 0x0

	// SnappyCompression uses the Snappy framing format.
	SnappyCompression Type = 0x1

	// ZlibCompression uses zlib. Raw DEFLATE streams are accepted on read.
	ZlibCompression Type = 0x2

	// GzipCompression uses gzip.
	GzipCompression Type = 0x3

	// LZ4Compression uses the LZ4 frame format.
	LZ4Compression Type = 0x4

	// ZstdCompression uses Zstandard. Concatenated frames decode as one stream.
	ZstdCompression Type = 0x7

	// AutoDetect selects the codec from the file name, see FromPath.
	AutoDetect Type = 0xFF
)

// String returns the human-readable name of the compression type.
func (t Type) String() string {
	switch t {
	case NoCompression:
		return "NoCompression"
	case SnappyCompression:
		return "Snappy"
	case ZlibCompression:
		return "Zlib"
	case GzipCompression:
		return "Gzip"
	case LZ4Compression:
		return "LZ4"
	case ZstdCompression:
		return "ZSTD"
	case AutoDetect:
		return "Auto"
	default:
		return fmt.Sprintf("Unknown(%d)", t)
	}
}

// IsSupported returns true if the type has a streaming implementation.
// AutoDetect is not a codec and reports false.
func (t Type) IsSupported() bool {
	switch t {
	case NoCompression, SnappyCompression, ZlibCompression, GzipCompression, LZ4Compression, ZstdCompression:
		return true
	default:
		return false
	}
}

// ParseType maps a command-line codec name to a Type.
// Names are case-insensitive; the empty string means NoCompression.
func ParseType(name string) (Type, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "none", "raw":
		return NoCompression, nil
	case "auto":
		return AutoDetect, nil
	case "snappy":
		return SnappyCompression, nil
	case "zlib":
		return ZlibCompression, nil
	case "gzip", "gz":
		return GzipCompression, nil
	case "lz4":
		return LZ4Compression, nil
	case "zstd", "zst":
		return ZstdCompression, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnsupportedCodec, name)
	}
}

// FromPath returns the codec implied by the file extension.
// Unknown extensions (including .raw) map to NoCompression.
func FromPath(path string) Type {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".zst", ".zstd":
		return ZstdCompression
	case ".zz", ".zlib":
		return ZlibCompression
	case ".gz":
		return GzipCompression
	case ".lz4":
		return LZ4Compression
	case ".sz", ".snappy":
		return SnappyCompression
	default:
		return NoCompression
	}
}

// Resolve turns AutoDetect into a concrete codec for path.
func Resolve(t Type, path string) Type {
	if t == AutoDetect {
		return FromPath(path)
	}
	return t
}

// NewReader returns a reader that yields the decoded contents of r.
//
// Closing the returned reader releases decoder resources only; the caller
// still owns r.
func NewReader(t Type, r io.Reader) (io.ReadCloser, error) {
	switch t {
	case NoCompression:
		return io.NopCloser(r), nil

	case SnappyCompression:
		return io.NopCloser(snappy.NewReader(r)), nil

	case ZlibCompression:
		return newZlibReader(r)

	case GzipCompression:
		zr, err := gzip.NewReader(r)
		if err != nil {
			return nil, fmt.Errorf("gzip reader: %w", err)
		}
		return zr, nil

	case LZ4Compression:
		return io.NopCloser(lz4.NewReader(r)), nil

	case ZstdCompression:
		dec, err := zstd.NewReader(r, zstd.WithDecoderConcurrency(1))
		if err != nil {
			return nil, fmt.Errorf("zstd decoder: %w", err)
		}
		return dec.IOReadCloser(), nil

	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedCodec, t)
	}
}

// newZlibReader accepts both zlib-wrapped and raw DEFLATE streams.
// A zlib stream starts with a CMF/FLG pair whose big-endian value is a
// multiple of 31 and whose method nibble is 8.
func newZlibReader(r io.Reader) (io.ReadCloser, error) {
	br := bufio.NewReader(r)
	hdr, err := br.Peek(2)
	if err == nil && hdr[0]&0x0f == 8 && (uint16(hdr[0])<<8|uint16(hdr[1]))%31 == 0 {
		zr, err := zlib.NewReader(br)
		if err != nil {
			return nil, fmt.Errorf("zlib reader: %w", err)
		}
		return zr, nil
	}
	return flate.NewReader(br), nil
}

// NewWriter returns a writer that encodes into w.
// The returned writer must be closed to flush the final frame; closing it
// does not close w.
func NewWriter(t Type, w io.Writer) (io.WriteCloser, error) {
	switch t {
	case NoCompression:
		return nopWriteCloser{w}, nil

	case SnappyCompression:
		return snappy.NewBufferedWriter(w), nil

	case ZlibCompression:
		return zlib.NewWriter(w), nil

	case GzipCompression:
		return gzip.NewWriter(w), nil

	case LZ4Compression:
		return lz4.NewWriter(w), nil

	case ZstdCompression:
		enc, err := zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedDefault))
		if err != nil {
			return nil, fmt.Errorf("zstd encoder: %w", err)
		}
		return enc, nil

	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedCodec, t)
	}
}

type nopWriteCloser struct{ io.Writer }

func (nopWriteCloser) Close() error { return nil }

// Compress encodes data in one shot.
func Compress(t Type, data []byte) ([]byte, error) {
	var buf bytes.Buffer
	w, err := NewWriter(t, &buf)
	if err != nil {
		return nil, err
	}
	if _, err := w.Write(data); err != nil {
		_ = w.Close()
		return nil, fmt.Errorf("%s write: %w", t, err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("%s close: %w", t, err)
	}
	return buf.Bytes(), nil
}

// Decompress decodes data in one shot.
func Decompress(t Type, data []byte) ([]byte, error) {
	r, err := NewReader(t, bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer func() { _ = r.Close() }()
	out, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%s decompress: %w", t, err)
	}
	return out, nil
}
