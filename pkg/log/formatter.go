package log

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// defaultTimestampFormat is RFC 3339 with millisecond precision.
const defaultTimestampFormat = "2006-01-02T15:04:05.000Z07:00"

// JSONFormatter renders entries as single-line JSON objects with ts, level,
// msg, optional caller, and the entry fields flattened alongside them.
type JSONFormatter struct {
	// TimestampFormat overrides the default millisecond RFC 3339 format.
	TimestampFormat string
}

// Format implements Formatter.
func (f *JSONFormatter) Format(entry *Entry) ([]byte, error) {
	tsFormat := f.TimestampFormat
	if tsFormat == "" {
		tsFormat = defaultTimestampFormat
	}

	m := make(map[string]interface{}, len(entry.Fields)+4)
	for k, v := range entry.Fields {
		if v == nil {
			continue
		}
		m[k] = v
	}
	m["ts"] = entry.Timestamp.Format(tsFormat)
	m["level"] = strings.ToLower(entry.Level.String())
	m["msg"] = entry.Message
	if entry.Caller != "" {
		m["caller"] = entry.Caller
	}

	b, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("marshal log entry: %w", err)
	}
	return append(b, '\n'), nil
}

// TextFormatter renders entries as "ts LEVEL message key=value ..." lines
// with fields sorted by key for stable output.
type TextFormatter struct {
	// TimestampFormat overrides the default millisecond RFC 3339 format.
	TimestampFormat string

	// DisableTimestamp omits the leading timestamp, useful in tests.
	DisableTimestamp bool
}

// Format implements Formatter.
func (f *TextFormatter) Format(entry *Entry) ([]byte, error) {
	tsFormat := f.TimestampFormat
	if tsFormat == "" {
		tsFormat = defaultTimestampFormat
	}

	var buf bytes.Buffer
	if !f.DisableTimestamp {
		buf.WriteString(entry.Timestamp.Format(tsFormat))
		buf.WriteByte(' ')
	}
	buf.WriteString(entry.Level.String())
	buf.WriteByte(' ')
	buf.WriteString(entry.Message)

	keys := make([]string, 0, len(entry.Fields))
	for k := range entry.Fields {
		if entry.Fields[k] == nil {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		buf.WriteByte(' ')
		buf.WriteString(k)
		buf.WriteByte('=')
		buf.WriteString(formatValue(entry.Fields[k]))
	}
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}

func formatValue(v interface{}) string {
	s := fmt.Sprintf("%v", v)
	if strings.ContainsAny(s, " \t\"=") {
		return fmt.Sprintf("%q", s)
	}
	return s
}
