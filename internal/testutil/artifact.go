package testutil

import (
	"math/rand/v2"
	"path/filepath"
	"testing"
)

// RawArtifact returns size pseudo-random bytes seeded by seed, shaped like
// a run file: repeated headers with noisy payloads so codecs have
// something to compress.
func RawArtifact(seed uint64, size int) []byte {
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	data := make([]byte, size)
	for i := range data {
		if i%64 < 16 {
			data[i] = byte(i % 16)
			continue
		}
		data[i] = byte(rng.IntN(256))
	}
	return data
}

// WriteArtifact writes a RawArtifact into dir/name and returns its path and
// content.
func WriteArtifact(t testing.TB, dir, name string, seed uint64, size int) (string, []byte) {
	t.Helper()
	data := RawArtifact(seed, size)
	path := filepath.Join(dir, name)
	WriteFile(t, path, data)
	return path, data
}
