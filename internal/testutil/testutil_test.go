package testutil

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	json "github.com/goccy/go-json"
)

func TestWriteLogPair_Layout(t *testing.T) {
	dir := t.TempDir()
	comp, decomp := ConsistentPair([2]int64{200, 100}, [2]int64{4096, 1500})

	compPath, decompPath := WriteLogPair(t, dir, "run7", comp, decomp)

	if filepath.Base(compPath) != "run7.json" {
		t.Errorf("compression path = %s", compPath)
	}
	if filepath.Base(decompPath) != "run7_decompression.json" {
		t.Errorf("decompression path = %s", decompPath)
	}

	data, err := os.ReadFile(decompPath)
	if err != nil {
		t.Fatal(err)
	}
	var got map[string][]map[string]any
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(got["evdata"]) != 2 {
		t.Fatalf("evdata len = %d, want 2", len(got["evdata"]))
	}
	header := got["evdata"][0]["eventHeader"].(map[string]any)
	if header["payloadSize"] != "200" {
		t.Errorf("payloadSize = %v, want \"200\"", header["payloadSize"])
	}
}

func TestRawArtifact_Deterministic(t *testing.T) {
	a := RawArtifact(15, 10000)
	b := RawArtifact(15, 10000)
	c := RawArtifact(16, 10000)
	if !bytes.Equal(a, b) {
		t.Error("same seed should give same bytes")
	}
	if bytes.Equal(a, c) {
		t.Error("different seeds should give different bytes")
	}
}
