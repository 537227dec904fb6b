// checkintegrity cross-checks the compression and decompression logs of a run.
//
// Every <base>_decompression.json in the directory is paired with
// <base>.json and, for each event, the tool verifies that:
//
//   - decompression outputSize == compression inputSize  (I/O Test 1)
//   - decompression inputSize  == compression outputSize (I/O Test 2)
//   - decompression payloadSize == decompression outputSize
//   - compression payloadSize   == compression outputSize
//
// Usage:
//
//	checkintegrity [-d <dir>] [-all] [-v]
//
// Exit status: 0 when every check passes ("All PASS"), 1 when no
// decompression logs are found or a check fails, 2 when a log cannot be read
// or is malformed.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/aalhour/daqverify/internal/integrity"
	"github.com/aalhour/daqverify/internal/logging"
)

const (
	exitOK    = 0
	exitFail  = 1
	exitError = 2
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("checkintegrity", flag.ContinueOnError)
	fs.SetOutput(stderr)

	var dir string
	fs.StringVar(&dir, "d", "../", "Directory containing the JSON logs")
	fs.StringVar(&dir, "dir", "../", "Directory containing the JSON logs")
	collectAll := fs.Bool("all", false, "Report every failing check instead of stopping at the first")
	verbose := fs.Bool("v", false, "Verbose diagnostics on stderr")
	fs.Usage = func() {
		fmt.Fprintln(stderr, "checkintegrity - check a run's compression/decompression logs against each other")
		fmt.Fprintln(stderr)
		fmt.Fprintln(stderr, "Usage: checkintegrity [-d <dir>] [-all] [-v]")
		fmt.Fprintln(stderr)
		fmt.Fprintln(stderr, "Options:")
		fs.PrintDefaults()
		fmt.Fprintln(stderr)
		fmt.Fprintln(stderr, "Use this only for validation of logs.")
	}

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}
		return exitError
	}
	if fs.NArg() > 0 {
		fmt.Fprintf(stderr, "Error: unexpected arguments: %v\n", fs.Args())
		fs.Usage()
		return exitError
	}

	level := logging.LevelWarn
	if *verbose {
		level = logging.LevelDebug
	}
	logger := logging.NewLogger(stderr, level)
	code := exitOK
	logger.SetFatalHandler(func(string) { code = exitError })

	opts := integrity.DefaultOptions()
	opts.Report = stdout
	opts.Logger = logger
	if *collectAll {
		opts.Mode = integrity.CollectAll
	}

	_, err := integrity.New(opts).Run(ctx, dir)
	switch {
	case err == nil:
		return exitOK
	case errors.Is(err, integrity.ErrNoLogs):
		fmt.Fprintln(stdout, "No Decompression logs here")
		return exitFail
	case integrity.IsFailure(err):
		return exitFail
	default:
		logger.Fatalf("%s%v", logging.NSIntegrity, err)
		return code
	}
}
