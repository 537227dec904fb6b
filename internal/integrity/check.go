package integrity

import (
	"fmt"

	"github.com/aalhour/daqverify/internal/eventlog"
)

// Check identifies one of the per-event consistency checks.
// Checks run in declaration order for every event.
type Check int

const (
	// CheckIOForward: decompression outputSize equals compression inputSize.
	CheckIOForward Check = iota + 1
	// CheckIOReverse: decompression inputSize equals compression outputSize.
	CheckIOReverse
	// CheckDecompressionPayload: decompression payloadSize equals its outputSize.
	CheckDecompressionPayload
	// CheckCompressionPayload: compression payloadSize equals its outputSize.
	CheckCompressionPayload
)

// Checks lists every check in evaluation order.
var Checks = []Check{
	CheckIOForward,
	CheckIOReverse,
	CheckDecompressionPayload,
	CheckCompressionPayload,
}

// String returns the check name used in report lines.
func (c Check) String() string {
	switch c {
	case CheckIOForward:
		return "I/O Test 1"
	case CheckIOReverse:
		return "I/O Test 2"
	case CheckDecompressionPayload:
		return "Payload Test Decompression"
	case CheckCompressionPayload:
		return "Payload Test Compression"
	default:
		return fmt.Sprintf("Check(%d)", int(c))
	}
}

// PassLine is the report line printed when the check holds.
func (c Check) PassLine() string {
	switch c {
	case CheckDecompressionPayload:
		return "PASS Payload set Correctly in Decompression log"
	case CheckCompressionPayload:
		return "PASS Payload set Correctly in Compression log"
	default:
		return "PASS " + c.String()
	}
}

// FailLine is the report line printed when the check fails.
func (c Check) FailLine() string {
	switch c {
	case CheckDecompressionPayload:
		return "FAIL Payload not set Correctly in Decompression log"
	case CheckCompressionPayload:
		return "FAIL Payload not set Correctly in Compression Log"
	default:
		return "FAIL " + c.String()
	}
}

// Evaluate applies c to the event pair at one index and returns the two
// compared values. ok is got == want.
func (c Check) Evaluate(comp, decomp eventlog.EventRecord) (got, want int64, ok bool) {
	switch c {
	case CheckIOForward:
		got, want = decomp.OutputSize, comp.InputSize
	case CheckIOReverse:
		got, want = decomp.InputSize, comp.OutputSize
	case CheckDecompressionPayload:
		got, want = decomp.EventHeader.PayloadSize, decomp.OutputSize
	case CheckCompressionPayload:
		got, want = comp.EventHeader.PayloadSize, comp.OutputSize
	default:
		return 0, 0, false
	}
	return got, want, got == want
}
