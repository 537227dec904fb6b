package checksum

import (
	"bytes"
	"context"
	"errors"
	"io/fs"
	"path/filepath"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/aalhour/daqverify/internal/compression"
	"github.com/aalhour/daqverify/internal/testutil"
)

func TestDigest_KnownVectors(t *testing.T) {
	tests := []struct {
		alg  Algorithm
		data string
		want string
	}{
		{SHA256, "", "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855"},
		{SHA256, "abc", "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad"},
		{CRC32C, "123456789", "e3069283"},
		{CRC32C, "", "00000000"},
	}

	for _, tt := range tests {
		t.Run(tt.alg.String()+"/"+tt.data, func(t *testing.T) {
			opts := DefaultOptions()
			opts.Algorithm = tt.alg
			got, err := Digest(context.Background(), strings.NewReader(tt.data), opts)
			if err != nil {
				t.Fatalf("Digest: %v", err)
			}
			if got != tt.want {
				t.Errorf("Digest = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestDigest_LengthAndCase(t *testing.T) {
	data := testutil.RawArtifact(1, 5000)
	for _, alg := range []Algorithm{SHA256, SHA512, XXH3, XXHash64, CRC32C} {
		opts := DefaultOptions()
		opts.Algorithm = alg
		got, err := Digest(context.Background(), bytes.NewReader(data), opts)
		if err != nil {
			t.Fatalf("%s: %v", alg, err)
		}
		if len(got) != 2*alg.Size() {
			t.Errorf("%s: digest length %d, want %d", alg, len(got), 2*alg.Size())
		}
		if got != strings.ToLower(got) {
			t.Errorf("%s: digest should be lowercase hex: %s", alg, got)
		}
	}
}

// Contract: the digest does not depend on the chunk size or on short reads.
func TestDigest_ChunkSizeIndependent(t *testing.T) {
	data := testutil.RawArtifact(9015, 3*DefaultChunkSize+17)

	for _, alg := range []Algorithm{SHA256, XXH3, XXHash64, CRC32C} {
		base := DefaultOptions()
		base.Algorithm = alg
		want, err := Digest(context.Background(), bytes.NewReader(data), base)
		if err != nil {
			t.Fatal(err)
		}

		for _, chunk := range []int{1, 7, 4095, 4097, 1 << 20} {
			opts := base
			opts.ChunkSize = chunk
			got, err := Digest(context.Background(), bytes.NewReader(data), opts)
			if err != nil {
				t.Fatalf("%s chunk %d: %v", alg, chunk, err)
			}
			if got != want {
				t.Errorf("%s chunk %d: digest %s, want %s", alg, chunk, got, want)
			}
		}

		got, err := Digest(context.Background(), iotest.OneByteReader(bytes.NewReader(data)), base)
		if err != nil {
			t.Fatal(err)
		}
		if got != want {
			t.Errorf("%s one-byte reader: digest %s, want %s", alg, got, want)
		}
	}
}

func TestDigest_InvalidOptions(t *testing.T) {
	opts := DefaultOptions()
	opts.ChunkSize = 0
	if _, err := Digest(context.Background(), strings.NewReader("x"), opts); !errors.Is(err, ErrInvalidChunkSize) {
		t.Errorf("err = %v, want ErrInvalidChunkSize", err)
	}

	opts = DefaultOptions()
	opts.Algorithm = Algorithm(42)
	if _, err := Digest(context.Background(), strings.NewReader("x"), opts); !errors.Is(err, ErrUnknownAlgorithm) {
		t.Errorf("err = %v, want ErrUnknownAlgorithm", err)
	}
}

func TestDigest_ReadError(t *testing.T) {
	boom := errors.New("boom")
	_, err := Digest(context.Background(), iotest.ErrReader(boom), DefaultOptions())
	if !errors.Is(err, boom) {
		t.Errorf("err = %v, want boom", err)
	}
}

func TestDigest_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Digest(ctx, strings.NewReader("data"), DefaultOptions())
	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

// Contract: repeated digests of an unmodified file are equal.
func TestComputeDigest_Deterministic(t *testing.T) {
	path, data := testutil.WriteArtifact(t, t.TempDir(), "run.raw", 15, 10000)

	first, err := ComputeDigest(context.Background(), path, DefaultOptions())
	if err != nil {
		t.Fatalf("ComputeDigest: %v", err)
	}
	second, err := ComputeDigest(context.Background(), path, DefaultOptions())
	if err != nil {
		t.Fatalf("ComputeDigest: %v", err)
	}
	if first != second {
		t.Errorf("digests differ: %s vs %s", first, second)
	}

	inMemory, err := Digest(context.Background(), bytes.NewReader(data), DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	if first != inMemory {
		t.Errorf("file digest %s != in-memory digest %s", first, inMemory)
	}
}

func TestComputeDigest_MissingFile(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "missing.raw")
	_, err := ComputeDigest(context.Background(), missing, DefaultOptions())

	var fae *FileAccessError
	if !errors.As(err, &fae) {
		t.Fatalf("err = %v, want *FileAccessError", err)
	}
	if fae.Path != missing || fae.Op != "open" {
		t.Errorf("FileAccessError = %+v", fae)
	}
	if !errors.Is(err, fs.ErrNotExist) {
		t.Error("error should wrap fs.ErrNotExist")
	}
}

// Contract: decoding a compressed artifact yields the digest of the raw bytes.
func TestComputeDigest_Codecs(t *testing.T) {
	dir := t.TempDir()
	rawPath, raw := testutil.WriteArtifact(t, dir, "run.raw", 7, 50000)
	want, err := ComputeDigest(context.Background(), rawPath, DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}

	codecs := map[compression.Type]string{
		compression.ZstdCompression:   "run.raw.zst",
		compression.ZlibCompression:   "run.raw.zz",
		compression.GzipCompression:   "run.raw.gz",
		compression.LZ4Compression:    "run.raw.lz4",
		compression.SnappyCompression: "run.raw.sz",
	}
	for codec, name := range codecs {
		t.Run(codec.String(), func(t *testing.T) {
			packed, err := compression.Compress(codec, raw)
			if err != nil {
				t.Fatal(err)
			}
			path := filepath.Join(dir, name)
			testutil.WriteFile(t, path, packed)

			for _, c := range []compression.Type{codec, compression.AutoDetect} {
				opts := DefaultOptions()
				opts.Codec = c
				got, err := ComputeDigest(context.Background(), path, opts)
				if err != nil {
					t.Fatalf("ComputeDigest(%s): %v", c, err)
				}
				if got != want {
					t.Errorf("ComputeDigest(%s) = %s, want %s", c, got, want)
				}
			}

			undecoded, err := ComputeDigest(context.Background(), path, DefaultOptions())
			if err != nil {
				t.Fatal(err)
			}
			if undecoded == want {
				t.Error("compressed bytes should not hash like the raw file")
			}
		})
	}
}

func TestComputeDigest_CorruptCompressedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.zst")
	testutil.WriteFile(t, path, bytes.Repeat([]byte{0xde, 0xad}, 100))

	opts := DefaultOptions()
	opts.Codec = compression.AutoDetect
	if _, err := ComputeDigest(context.Background(), path, opts); err == nil {
		t.Fatal("expected an error for a corrupt zstd file")
	}
}

func TestParseAlgorithm(t *testing.T) {
	tests := []struct {
		name string
		want Algorithm
	}{
		{"", SHA256},
		{"sha256", SHA256},
		{"SHA-256", SHA256},
		{"sha512", SHA512},
		{"xxh3", XXH3},
		{"xxh64", XXHash64},
		{"xxhash64", XXHash64},
		{"crc32c", CRC32C},
	}
	for _, tt := range tests {
		got, err := ParseAlgorithm(tt.name)
		if err != nil {
			t.Errorf("ParseAlgorithm(%q): %v", tt.name, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseAlgorithm(%q) = %s, want %s", tt.name, got, tt.want)
		}
	}
	if _, err := ParseAlgorithm("md5"); !errors.Is(err, ErrUnknownAlgorithm) {
		t.Errorf("ParseAlgorithm(md5) err = %v, want ErrUnknownAlgorithm", err)
	}
}

func TestAlgorithmString(t *testing.T) {
	if got := Algorithm(42).String(); got != "Algorithm(42)" {
		t.Errorf("String = %q", got)
	}
	for _, alg := range []Algorithm{SHA256, SHA512, XXH3, XXHash64, CRC32C} {
		parsed, err := ParseAlgorithm(alg.String())
		if err != nil || parsed != alg {
			t.Errorf("ParseAlgorithm(%s.String()) = %v, %v", alg, parsed, err)
		}
	}
}
