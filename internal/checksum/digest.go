package checksum

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/aalhour/daqverify/internal/compression"
	"github.com/aalhour/daqverify/internal/logging"
)

// DefaultChunkSize is the read size used to feed the hash.
const DefaultChunkSize = 4096

// ErrInvalidChunkSize is returned when Options.ChunkSize is not positive.
var ErrInvalidChunkSize = errors.New("checksum: chunk size must be positive")

// Options configures digest computation.
type Options struct {
	// Algorithm selects the digest. Defaults to SHA256.
	Algorithm Algorithm

	// ChunkSize is the number of bytes read per hash update.
	// The digest does not depend on it.
	ChunkSize int

	// Codec decodes the file before hashing. compression.AutoDetect picks the
	// codec from the file extension. Defaults to NoCompression.
	Codec compression.Type

	// Logger receives diagnostics. If nil, nothing is logged.
	Logger logging.Logger
}

// DefaultOptions returns SHA-256 over raw bytes in 4096-byte chunks.
func DefaultOptions() Options {
	return Options{
		Algorithm: SHA256,
		ChunkSize: DefaultChunkSize,
		Codec:     compression.NoCompression,
	}
}

// FileAccessError reports a file that could not be opened or read.
type FileAccessError struct {
	Path string
	Op   string
	Err  error
}

func (e *FileAccessError) Error() string {
	return fmt.Sprintf("checksum: %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *FileAccessError) Unwrap() error { return e.Err }

// Digest streams r through the configured hash and returns the lowercase
// hex digest.
func Digest(ctx context.Context, r io.Reader, opts Options) (string, error) {
	if opts.ChunkSize <= 0 {
		return "", fmt.Errorf("%w: %d", ErrInvalidChunkSize, opts.ChunkSize)
	}
	h, err := opts.Algorithm.New()
	if err != nil {
		return "", err
	}

	buf := make([]byte, opts.ChunkSize)
	for {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		n, err := r.Read(buf)
		if n > 0 {
			_, _ = h.Write(buf[:n]) // hash.Hash.Write never returns an error
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return "", err
		}
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// ComputeDigest returns the hex digest of the file at path.
//
// The file is opened read-only and closed before returning. If opts.Codec
// is set, the digest covers the decoded bytes.
func ComputeDigest(ctx context.Context, path string, opts Options) (string, error) {
	logger := logging.OrDefault(opts.Logger)

	f, err := os.Open(path)
	if err != nil {
		return "", &FileAccessError{Path: path, Op: "open", Err: err}
	}
	defer f.Close()

	codec := compression.Resolve(opts.Codec, path)
	r, err := compression.NewReader(codec, f)
	if err != nil {
		return "", fmt.Errorf("checksum: %s: %w", path, err)
	}
	defer r.Close()
	if codec != compression.NoCompression {
		logger.Debugf("%sdecoding %s as %s", logging.NSCodec, path, codec)
	}

	sum, err := Digest(ctx, r, opts)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) || errors.Is(err, ErrInvalidChunkSize) || errors.Is(err, ErrUnknownAlgorithm) {
			return "", err
		}
		return "", &FileAccessError{Path: path, Op: "read", Err: err}
	}
	logger.Debugf("%s%s %s  %s", logging.NSChecksum, opts.Algorithm, sum, path)
	return sum, nil
}
