package integrity

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/aalhour/daqverify/internal/testutil"
)

func TestCompressionPath(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"run_decompression.json", "run.json"},
		{filepath.Join("logs", "Faser-Physics-009015-00015_decompression.json"), filepath.Join("logs", "Faser-Physics-009015-00015.json")},
		// Only the file name is rewritten.
		{filepath.Join("old_decompression", "run_decompression.json"), filepath.Join("old_decompression", "run.json")},
		{filepath.Join("logs", "a_decompression_decompression.json"), filepath.Join("logs", "a_decompression.json")},
	}
	for _, tt := range tests {
		if got := CompressionPath(tt.in); got != tt.want {
			t.Errorf("CompressionPath(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestDiscover_SortedPairs(t *testing.T) {
	dir := t.TempDir()
	for _, base := range []string{"run_b", "run_a", "run_c"} {
		comp, decomp := testutil.ConsistentPair([2]int64{2, 1})
		testutil.WriteLogPair(t, dir, base, comp, decomp)
	}
	testutil.WriteFile(t, filepath.Join(dir, "notes_decompression.txt"), []byte("x"))

	pairs, err := Discover(dir)
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	if len(pairs) != 3 {
		t.Fatalf("pairs = %d, want 3: %v", len(pairs), pairs)
	}
	for i, base := range []string{"run_a", "run_b", "run_c"} {
		want := LogPair{
			Decompression: filepath.Join(dir, base+"_decompression.json"),
			Compression:   filepath.Join(dir, base+".json"),
		}
		if pairs[i] != want {
			t.Errorf("pairs[%d] = %+v, want %+v", i, pairs[i], want)
		}
	}
}

// Contract: a directory name with glob metacharacters is not interpreted.
func TestDiscover_DirWithMetacharacters(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "run[1]")
	comp, decomp := testutil.ConsistentPair([2]int64{2, 1})
	testutil.WriteLogPair(t, dir, "run", comp, decomp)

	pairs, err := Discover(dir)
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	if len(pairs) != 1 {
		t.Errorf("pairs = %v", pairs)
	}
}

func TestDiscover_Empty(t *testing.T) {
	if _, err := Discover(t.TempDir()); !errors.Is(err, ErrNoLogs) {
		t.Fatalf("err = %v, want ErrNoLogs", err)
	}
}
