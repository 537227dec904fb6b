// Package testutil provides fixtures for the validator tests.
//
// This file writes compression / decompression log pairs in the layout the
// DAQ pipeline produces, so integrity tests can build a run directory
// without checked-in data.
package testutil

import (
	"os"
	"path/filepath"
	"strconv"
	"testing"

	json "github.com/goccy/go-json"
)

// Event is one evdata entry as written to disk.
//
// PayloadSize is an any so tests can write the textual form the pipeline
// uses ("100") as well as a JSON number.
type Event struct {
	InputSize   int64  `json:"inputSize"`
	OutputSize  int64  `json:"outputSize"`
	EventHeader Header `json:"eventHeader"`
}

// Header is the eventHeader object.
type Header struct {
	PayloadSize any `json:"payloadSize"`
}

// Log is a whole log document.
type Log struct {
	Evdata []Event `json:"evdata"`
}

// CompressedEvent returns the compression-side entry for an event of size
// raw bytes compressed to packed bytes.
func CompressedEvent(raw, packed int64) Event {
	return Event{
		InputSize:   raw,
		OutputSize:  packed,
		EventHeader: Header{PayloadSize: strconv.FormatInt(packed, 10)},
	}
}

// DecompressedEvent returns the decompression-side entry that inverts
// CompressedEvent(raw, packed).
func DecompressedEvent(raw, packed int64) Event {
	return Event{
		InputSize:   packed,
		OutputSize:  raw,
		EventHeader: Header{PayloadSize: strconv.FormatInt(raw, 10)},
	}
}

// ConsistentPair builds matching compression and decompression logs for the
// given raw/packed size pairs.
func ConsistentPair(sizes ...[2]int64) (compression, decompression Log) {
	for _, s := range sizes {
		compression.Evdata = append(compression.Evdata, CompressedEvent(s[0], s[1]))
		decompression.Evdata = append(decompression.Evdata, DecompressedEvent(s[0], s[1]))
	}
	return compression, decompression
}

// WriteLogPair writes <base>.json and <base>_decompression.json into dir
// and returns their paths.
func WriteLogPair(t testing.TB, dir, base string, compression, decompression Log) (compPath, decompPath string) {
	t.Helper()
	compPath = filepath.Join(dir, base+".json")
	decompPath = filepath.Join(dir, base+"_decompression.json")
	WriteJSON(t, compPath, compression)
	WriteJSON(t, decompPath, decompression)
	return compPath, decompPath
}

// WriteJSON marshals v into path.
func WriteJSON(t testing.TB, path string, v any) {
	t.Helper()
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		t.Fatalf("marshal %s: %v", path, err)
	}
	WriteFile(t, path, data)
}

// WriteFile writes data to path, creating parent directories.
func WriteFile(t testing.TB, path string, data []byte) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}
