// Package eventlog loads the per-event JSON logs written by the DAQ
// compression and decompression stages.
//
// A log document has a top-level "evdata" list. Each entry records the bytes
// consumed (inputSize) and produced (outputSize) for one event, and the
// payload size declared in the event header:
//
//	{"evdata": [
//	  {"inputSize": 200, "outputSize": 100, "eventHeader": {"payloadSize": "100"}}
//	]}
//
// payloadSize is written as text by the logger but is an integer logically;
// both encodings are accepted. Unknown keys are ignored.
package eventlog

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	json "github.com/goccy/go-json"

	"github.com/aalhour/daqverify/internal/logging"
)

// EventRecord is one event entry of a log document.
type EventRecord struct {
	InputSize   int64
	OutputSize  int64
	EventHeader EventHeader
}

// EventHeader holds the header fields the validators look at.
type EventHeader struct {
	PayloadSize int64

	// PayloadSizeText is payloadSize exactly as it appeared in the log,
	// without quotes.
	PayloadSizeText string
}

// LogDocument is the ordered event sequence of one compression or
// decompression run. Position is the pairing key between the two logs.
type LogDocument struct {
	Path   string
	Events []EventRecord
}

// Len returns the number of events.
func (d *LogDocument) Len() int {
	return len(d.Events)
}

// MalformedLogError reports a log that does not have the expected shape.
type MalformedLogError struct {
	Path string
	// Index is the event position, or -1 when the problem is document-level.
	Index int
	Field string
	Err   error
}

func (e *MalformedLogError) Error() string {
	var b strings.Builder
	b.WriteString("eventlog: malformed log ")
	b.WriteString(e.Path)
	if e.Index >= 0 {
		fmt.Fprintf(&b, ": event %d", e.Index)
	}
	if e.Field != "" {
		b.WriteString(": ")
		b.WriteString(e.Field)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *MalformedLogError) Unwrap() error { return e.Err }

// ErrMissingField is wrapped by MalformedLogError for absent keys.
var ErrMissingField = errors.New("missing field")

// rawDocument mirrors the on-disk layout; pointer fields detect absent keys.
type rawDocument struct {
	Evdata *[]rawRecord `json:"evdata"`
}

type rawRecord struct {
	InputSize   *int64     `json:"inputSize"`
	OutputSize  *int64     `json:"outputSize"`
	EventHeader *rawHeader `json:"eventHeader"`
}

type rawHeader struct {
	PayloadSize *rawText `json:"payloadSize"`
}

// rawText captures a JSON string or number as its text.
type rawText string

func (t *rawText) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*t = rawText(s)
		return nil
	}
	*t = rawText(b)
	return nil
}

// Load reads and validates the log document at path.
func Load(path string) (*LogDocument, error) {
	return LoadWithLogger(path, nil)
}

// LoadWithLogger is Load with diagnostics sent to logger.
func LoadWithLogger(path string, logger logging.Logger) (*LogDocument, error) {
	logger = logging.OrDefault(logger)

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("eventlog: open %s: %w", path, err)
	}
	defer f.Close()

	doc, err := Decode(bufio.NewReader(f), path)
	if err != nil {
		return nil, err
	}
	logger.Debugf("%sloaded %d events from %s", logging.NSEventLog, doc.Len(), path)
	return doc, nil
}

// Decode parses a log document from r. name is used in error messages.
func Decode(r io.Reader, name string) (*LogDocument, error) {
	var raw rawDocument
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, &MalformedLogError{Path: name, Index: -1, Err: err}
	}
	if raw.Evdata == nil {
		return nil, &MalformedLogError{Path: name, Index: -1, Field: "evdata", Err: ErrMissingField}
	}

	doc := &LogDocument{
		Path:   name,
		Events: make([]EventRecord, 0, len(*raw.Evdata)),
	}
	for i, rr := range *raw.Evdata {
		rec, err := rr.record()
		if err != nil {
			err.Path = name
			err.Index = i
			return nil, err
		}
		doc.Events = append(doc.Events, rec)
	}
	return doc, nil
}

func (rr rawRecord) record() (EventRecord, *MalformedLogError) {
	switch {
	case rr.InputSize == nil:
		return EventRecord{}, &MalformedLogError{Field: "inputSize", Err: ErrMissingField}
	case rr.OutputSize == nil:
		return EventRecord{}, &MalformedLogError{Field: "outputSize", Err: ErrMissingField}
	case rr.EventHeader == nil:
		return EventRecord{}, &MalformedLogError{Field: "eventHeader", Err: ErrMissingField}
	case rr.EventHeader.PayloadSize == nil:
		return EventRecord{}, &MalformedLogError{Field: "eventHeader.payloadSize", Err: ErrMissingField}
	}

	text := string(*rr.EventHeader.PayloadSize)
	size, err := strconv.ParseInt(strings.TrimSpace(text), 10, 64)
	if err != nil {
		return EventRecord{}, &MalformedLogError{Field: "eventHeader.payloadSize", Err: err}
	}

	return EventRecord{
		InputSize:  *rr.InputSize,
		OutputSize: *rr.OutputSize,
		EventHeader: EventHeader{
			PayloadSize:     size,
			PayloadSizeText: text,
		},
	}, nil
}
