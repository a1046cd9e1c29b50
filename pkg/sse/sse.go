// Package sse provides a minimal, purpose-built lexer for SSE
// (Server-Sent Events) streams as produced by the toolset server. It splits a
// response body into lines and classifies each line as an event-tag line, a
// data line, or noise, leaving event-level semantics (tag tracking, token
// batching) to the relay.
//
// This package intentionally does NOT provide SSE writer or server
// capabilities.
//
// See the SSE specification:
// https://html.spec.whatwg.org/multipage/server-sent-events.html
package sse

import (
	"bufio"
	"io"
	"strings"
)

// Done is the sentinel data payload the toolset server sends to mark the
// logical end of a stream.
const Done = "[DONE]"

// Field identifies the kind of a scanned SSE line.
type Field int

const (
	// FieldNone is any line that is neither an event-tag line nor a data
	// line: blank lines, comments, keep-alives, unknown fields.
	FieldNone Field = iota

	// FieldEvent is a line carrying an event tag ("event: <tag>").
	FieldEvent

	// FieldData is a line carrying a data payload ("data: <json-or-[DONE]>").
	FieldData
)

const (
	eventPrefix = "event: "
	dataPrefix  = "data: "
)

// Line is a single classified line of the stream. It is only valid until the
// next call to Scan.
type Line struct {
	// Field is the line classification.
	Field Field

	// Value is the field payload: the trimmed tag for FieldEvent, the raw
	// remainder after "data: " for FieldData, empty for FieldNone.
	Value string
}

// Classify parses one whitespace-trimmed stream line.
// The event tag is trimmed; the data payload is taken verbatim after the
// prefix so JSON containing leading whitespace survives intact.
func Classify(line string) Line {
	switch {
	case strings.HasPrefix(line, eventPrefix):
		return Line{Field: FieldEvent, Value: strings.TrimSpace(line[len(eventPrefix):])}
	case strings.HasPrefix(line, dataPrefix):
		return Line{Field: FieldData, Value: line[len(dataPrefix):]}
	default:
		return Line{Field: FieldNone}
	}
}

// Scanner reads an SSE byte stream line by line, yielding classified lines.
type Scanner struct {
	scanner *bufio.Scanner
	line    Line
}

// NewScanner returns a Scanner over src.
func NewScanner(src io.Reader) *Scanner {
	scanner := bufio.NewScanner(src)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)

	return &Scanner{scanner: scanner}
}

// Scan advances to the next non-blank line, classifying it. It returns false
// when the source is exhausted or a read error occurred; check Err afterwards.
// Surrounding whitespace is stripped before classification, matching the
// server's framing where each frame line stands alone.
func (s *Scanner) Scan() bool {
	for s.scanner.Scan() {
		raw := strings.TrimSpace(s.scanner.Text())
		if raw == "" {
			continue
		}

		s.line = Classify(raw)
		return true
	}

	s.line = Line{}
	return false
}

// Line returns the most recently scanned line.
func (s *Scanner) Line() Line {
	return s.line
}

// Err returns the first error encountered by the underlying reader, or nil if
// the stream ended cleanly.
func (s *Scanner) Err() error {
	return s.scanner.Err()
}
