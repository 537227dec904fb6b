// checksumvalidate verifies that a decompressed file is bit-identical to its
// reference by comparing digests.
//
// Usage:
//
//	checksumvalidate -f <file> -r <ref> [-algo sha256] [-chunk 4096]
//	                 [-file-codec none] [-ref-codec none] [-v]
//
// Either file may be a compressed artifact: pass -file-codec/-ref-codec with
// zstd, zlib, gzip, lz4, snappy, or auto (pick by extension) to hash the
// decoded bytes.
//
// Exit status: 0 when the files are identical, 1 when they differ, 2 on a
// usage error or unreadable file.
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

	"github.com/aalhour/daqverify/internal/checksum"
	"github.com/aalhour/daqverify/internal/compression"
	"github.com/aalhour/daqverify/internal/logging"
)

const (
	exitOK    = 0
	exitFail  = 1
	exitError = 2
)

const (
	defaultFile = "Faser-Physics-009015-00015_decompressed.raw"
	defaultRef  = "Faser-Physics-009015-00015_ref.raw"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("checksumvalidate", flag.ContinueOnError)
	fs.SetOutput(stderr)

	var file, ref string
	fs.StringVar(&file, "f", defaultFile, "Decompressed file that is to be validated")
	fs.StringVar(&file, "file", defaultFile, "Decompressed file that is to be validated")
	fs.StringVar(&ref, "r", defaultRef, "Reference file to validate against")
	fs.StringVar(&ref, "ref", defaultRef, "Reference file to validate against")
	algo := fs.String("algo", checksum.SHA256.String(), "Digest algorithm: sha256, sha512, xxh3, xxhash64, crc32c")
	chunk := fs.Int("chunk", checksum.DefaultChunkSize, "Read size in bytes per hash update")
	fileCodec := fs.String("file-codec", "none", "Decode -file first: none, auto, zstd, zlib, gzip, lz4, snappy")
	refCodec := fs.String("ref-codec", "none", "Decode -ref first: none, auto, zstd, zlib, gzip, lz4, snappy")
	verbose := fs.Bool("v", false, "Print both digests on stderr")
	fs.Usage = func() {
		fmt.Fprintln(stderr, "checksumvalidate - verify two files have the same checksum")
		fmt.Fprintln(stderr)
		fmt.Fprintln(stderr, "Usage: checksumvalidate -f <file> -r <ref> [options]")
		fmt.Fprintln(stderr)
		fmt.Fprintln(stderr, "Options:")
		fs.PrintDefaults()
		fmt.Fprintln(stderr)
		fmt.Fprintln(stderr, "Use this only for validation of decompressed files.")
	}

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}
		return exitError
	}

	opts := checksum.DefaultValidateOptions()
	var err error
	if opts.Algorithm, err = checksum.ParseAlgorithm(*algo); err != nil {
		return usageError(fs, stderr, err)
	}
	if *chunk <= 0 {
		return usageError(fs, stderr, fmt.Errorf("%w: %d", checksum.ErrInvalidChunkSize, *chunk))
	}
	opts.ChunkSize = *chunk
	if opts.FileCodec, err = compression.ParseType(*fileCodec); err != nil {
		return usageError(fs, stderr, err)
	}
	if opts.RefCodec, err = compression.ParseType(*refCodec); err != nil {
		return usageError(fs, stderr, err)
	}

	level := logging.LevelWarn
	if *verbose {
		level = logging.LevelDebug
	}
	logger := logging.NewLogger(stderr, level)
	code := exitOK
	logger.SetFatalHandler(func(string) { code = exitError })
	opts.Logger = logger

	res, err := checksum.Validate(ctx, file, ref, opts)
	if err != nil {
		logger.Fatalf("%s%v", logging.NSChecksum, err)
		return code
	}

	fmt.Fprintln(stdout, res.Line())
	if !res.Match {
		logger.Infof("%s%s differs: %s != %s", logging.NSChecksum, res.Algorithm, res.FileDigest, res.RefDigest)
		return exitFail
	}
	return exitOK
}

func usageError(fs *flag.FlagSet, stderr io.Writer, err error) int {
	fmt.Fprintf(stderr, "Error: %v\n", err)
	fs.Usage()
	return exitError
}
