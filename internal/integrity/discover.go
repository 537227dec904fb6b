package integrity

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const (
	// DecompressionSuffix marks a decompression log name.
	DecompressionSuffix = "_decompression"

	// DecompressionPattern matches decompression logs inside a directory.
	DecompressionPattern = "*" + DecompressionSuffix + ".json"
)

// LogPair is a decompression log and the compression log it is checked
// against.
type LogPair struct {
	Decompression string
	Compression   string
}

// CompressionPath derives the compression log path for a decompression log:
// <dir>/<base>_decompression.json becomes <dir>/<base>.json. Only the file
// name is rewritten.
func CompressionPath(decompression string) string {
	dir, name := filepath.Split(decompression)
	ext := filepath.Ext(name)
	stem := strings.TrimSuffix(strings.TrimSuffix(name, ext), DecompressionSuffix)
	return dir + stem + ext
}

// Discover returns a LogPair for every regular file in dir matching
// DecompressionPattern, ordered by file name. The paired compression log is
// not required to exist yet; loading it reports that.
func Discover(dir string) ([]LogPair, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("integrity: read dir %s: %w", dir, err)
	}

	var pairs []LogPair
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ok, err := filepath.Match(DecompressionPattern, entry.Name())
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		decomp := filepath.Join(dir, entry.Name())
		pairs = append(pairs, LogPair{
			Decompression: decomp,
			Compression:   CompressionPath(decomp),
		})
	}

	if len(pairs) == 0 {
		return nil, fmt.Errorf("%w in %s", ErrNoLogs, dir)
	}
	return pairs, nil
}
