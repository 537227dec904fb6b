// Package integrity cross-checks compression and decompression event logs.
//
// The compression stage logs, per event, the bytes it consumed and produced;
// the decompression stage logs the same for the inverse transform. For a
// lossless round trip each decompression event must be the exact inverse of
// the compression event at the same position, and each log's header
// payloadSize must equal the bytes that stage produced.
//
// Run discovers every <base>_decompression.json in a directory, pairs it with
// <base>.json, and evaluates the Checks for every event. In FailFast mode the
// first failing check ends the run; in CollectAll mode every failure is
// gathered into the Report.
package integrity

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/aalhour/daqverify/internal/eventlog"
	"github.com/aalhour/daqverify/internal/logging"
)

// Mode selects how a run reacts to a failing check.
type Mode int

const (
	// FailFast aborts the whole run on the first failing check.
	FailFast Mode = iota
	// CollectAll evaluates every check and reports all failures at the end.
	CollectAll
)

// String returns the mode name.
func (m Mode) String() string {
	switch m {
	case FailFast:
		return "fail-fast"
	case CollectAll:
		return "collect-all"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// Options configures a Checker.
type Options struct {
	// Mode selects fail-fast or collect-all behavior.
	Mode Mode

	// Report receives the human-readable PASS/FAIL lines.
	// If nil, report lines are discarded.
	Report io.Writer

	// Logger receives diagnostics. If nil, nothing is logged.
	Logger logging.Logger
}

// DefaultOptions returns fail-fast options with no output.
func DefaultOptions() Options {
	return Options{Mode: FailFast}
}

// Report summarizes a run.
type Report struct {
	Dir      string
	Pairs    int
	Events   int
	Checks   int
	Failures []*IntegrityCheckFailure
}

// Passed reports whether every evaluated check held.
func (r *Report) Passed() bool {
	return len(r.Failures) == 0
}

// Checker runs integrity checks over log directories.
type Checker struct {
	opts   Options
	out    io.Writer
	logger logging.Logger
}

// New creates a Checker.
func New(opts Options) *Checker {
	out := opts.Report
	if out == nil {
		out = io.Discard
	}
	return &Checker{
		opts:   opts,
		out:    out,
		logger: logging.OrDefault(opts.Logger),
	}
}

// Run checks every log pair in dir.
//
// The returned error is nil only when every check of every pair passed, in
// which case "All PASS" has been written to the report. Failures wrap
// ErrIntegrity; an empty directory returns ErrNoLogs. Malformed logs and
// length mismatches end the run in both modes.
func (c *Checker) Run(ctx context.Context, dir string) (*Report, error) {
	report := &Report{Dir: dir}
	c.printf("Checking in %s\n", dir)

	pairs, err := Discover(dir)
	if err != nil {
		return report, err
	}
	c.logger.Infof("%schecking %d log pair(s) in %s mode", logging.NSIntegrity, len(pairs), c.opts.Mode)

	for _, pair := range pairs {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		if err := c.CheckPair(ctx, pair, report); err != nil {
			return report, err
		}
	}

	if !report.Passed() {
		c.printf("FAIL %d check(s) failed across %d log pair(s)\n", len(report.Failures), report.Pairs)
		return report, fmt.Errorf("%w: %d failure(s)", ErrIntegrity, len(report.Failures))
	}

	c.printf("All PASS\n")
	return report, nil
}

// CheckPair loads one log pair and evaluates every check for every event,
// accumulating counts into report.
//
// In FailFast mode the first failure is returned as *IntegrityCheckFailure.
// In CollectAll mode failures are appended to report.Failures and CheckPair
// returns nil unless the pair cannot be checked at all.
func (c *Checker) CheckPair(ctx context.Context, pair LogPair, report *Report) error {
	c.printf("Testing %s <---------------------> %s\n", pair.Decompression, pair.Compression)

	decomp, err := eventlog.LoadWithLogger(pair.Decompression, c.logger)
	if err != nil {
		return err
	}
	comp, err := eventlog.LoadWithLogger(pair.Compression, c.logger)
	if err != nil {
		return err
	}

	if decomp.Len() != comp.Len() {
		return &LengthMismatchError{
			Pair:             pair,
			DecompressionLen: decomp.Len(),
			CompressionLen:   comp.Len(),
		}
	}

	report.Pairs++
	for i := range decomp.Events {
		if err := ctx.Err(); err != nil {
			return err
		}
		report.Events++
		if err := c.checkEvent(pair, i, comp.Events[i], decomp.Events[i], report); err != nil {
			return err
		}
	}
	return nil
}

func (c *Checker) checkEvent(pair LogPair, index int, comp, decomp eventlog.EventRecord, report *Report) error {
	for _, check := range Checks {
		report.Checks++
		got, want, ok := check.Evaluate(comp, decomp)
		if ok {
			c.printf("%s\n", check.PassLine())
			continue
		}

		failure := &IntegrityCheckFailure{
			Pair:  pair,
			Index: index,
			Check: check,
			Got:   got,
			Want:  want,
		}
		c.printf("%s\n", check.FailLine())
		c.logger.Errorf("%s%v", logging.NSIntegrity, failure)

		report.Failures = append(report.Failures, failure)
		if c.opts.Mode == FailFast {
			return failure
		}
	}
	return nil
}

func (c *Checker) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(c.out, format, args...)
}

// IsFailure reports whether err is a check failure rather than a problem
// reading the logs.
func IsFailure(err error) bool {
	return errors.Is(err, ErrIntegrity)
}
