package checksum

import (
	"context"

	"github.com/aalhour/daqverify/internal/compression"
)

// Verdict lines printed by the validator.
const (
	MatchLine    = "Checksums match. The files are identical."
	MismatchLine = "Checksums do not match. The files differ."
)

// ValidateOptions configures Validate. Both files use the same algorithm
// and chunk size; each may be decoded with its own codec.
type ValidateOptions struct {
	Options

	// FileCodec decodes the candidate file.
	FileCodec compression.Type

	// RefCodec decodes the reference file.
	RefCodec compression.Type
}

// DefaultValidateOptions returns SHA-256 over raw bytes for both files.
func DefaultValidateOptions() ValidateOptions {
	return ValidateOptions{Options: DefaultOptions()}
}

// MatchResult is the outcome of comparing two files.
type MatchResult struct {
	Match bool

	File       string
	FileDigest string
	Ref        string
	RefDigest  string

	Algorithm Algorithm
}

// Line returns the human-readable verdict.
func (r *MatchResult) Line() string {
	if r.Match {
		return MatchLine
	}
	return MismatchLine
}

// Validate computes the digests of file and ref independently and compares
// them. A mismatch is a result, not an error; errors are reserved for files
// that cannot be read.
func Validate(ctx context.Context, file, ref string, opts ValidateOptions) (*MatchResult, error) {
	fileOpts := opts.Options
	fileOpts.Codec = opts.FileCodec
	fileDigest, err := ComputeDigest(ctx, file, fileOpts)
	if err != nil {
		return nil, err
	}

	refOpts := opts.Options
	refOpts.Codec = opts.RefCodec
	refDigest, err := ComputeDigest(ctx, ref, refOpts)
	if err != nil {
		return nil, err
	}

	return &MatchResult{
		Match:      fileDigest == refDigest,
		File:       file,
		FileDigest: fileDigest,
		Ref:        ref,
		RefDigest:  refDigest,
		Algorithm:  opts.Algorithm,
	}, nil
}
