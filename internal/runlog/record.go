package runlog

import (
	"bytes"

	"github.com/valyala/fastjson"
)

// Lines are written by an external process and may be observed mid-write, so
// decoding is tolerant: anything that is not one complete JSON value is
// skipped, never surfaced as an error.

var parsers fastjson.ParserPool

// Record is one decoded run-log event, held as its raw JSON bytes. It
// marshals verbatim, so re-encoding a decoded record cannot fail.
type Record []byte

// MarshalJSON returns the raw bytes unchanged.
func (r Record) MarshalJSON() ([]byte, error) {
	if len(r) == 0 {
		return []byte("null"), nil
	}
	return r, nil
}

// String returns the record text.
func (r Record) String() string { return string(r) }

// DecodeLine parses one log line, its terminator already stripped. Empty and
// whitespace-only lines decode to nothing, as do partial or malformed lines.
// The returned Record owns a copy of the bytes; callers may reuse line.
func DecodeLine(line []byte) (Record, bool) {
	line = bytes.TrimSpace(line)
	if len(line) == 0 {
		return nil, false
	}
	p := parsers.Get()
	defer parsers.Put(p)
	if _, err := p.ParseBytes(line); err != nil {
		return nil, false
	}
	return Record(append([]byte(nil), line...)), true
}
