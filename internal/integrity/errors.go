package integrity

import (
	"errors"
	"fmt"
)

var (
	// ErrNoLogs is returned when a directory holds no *_decompression.json files.
	ErrNoLogs = errors.New("integrity: no decompression logs found")

	// ErrIntegrity is wrapped by every check failure.
	ErrIntegrity = errors.New("integrity: check failed")
)

// IntegrityCheckFailure describes the first (or, in collect-all mode, one)
// failing check.
type IntegrityCheckFailure struct {
	Pair  LogPair
	Index int
	Check Check
	Got   int64
	Want  int64
}

func (e *IntegrityCheckFailure) Error() string {
	return fmt.Sprintf("integrity: %s failed at event %d of %s: got %d, want %d",
		e.Check, e.Index, e.Pair.Decompression, e.Got, e.Want)
}

func (e *IntegrityCheckFailure) Unwrap() error { return ErrIntegrity }

// LengthMismatchError reports paired logs with different event counts.
// No check is evaluated for such a pair.
type LengthMismatchError struct {
	Pair             LogPair
	DecompressionLen int
	CompressionLen   int
}

func (e *LengthMismatchError) Error() string {
	return fmt.Sprintf("integrity: %s has %d events but %s has %d",
		e.Pair.Decompression, e.DecompressionLen, e.Pair.Compression, e.CompressionLen)
}
