package ingest

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotFound indicates the input file does not exist.
	ErrNotFound = errors.New("input file not found")

	// ErrNotReadable indicates no supported text encoding could decode the file.
	ErrNotReadable = errors.New("input file not readable with any supported encoding")

	// ErrParseFailure indicates no supported delimiter produced a table.
	ErrParseFailure = errors.New("input file not parseable with any supported delimiter")
)

// ParseFailureError carries the delimiters that were tried for a file.
type ParseFailureError struct {
	File       string
	Delimiters []rune
	Err        error // last underlying parse error
}

func (e *ParseFailureError) Error() string {
	msg := fmt.Sprintf("%v: %s (tried %s)", ErrParseFailure, e.File, formatDelimiters(e.Delimiters))
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ParseFailureError) Is(target error) bool {
	return target == ErrParseFailure
}

func (e *ParseFailureError) Unwrap() error {
	return e.Err
}

// NotReadableError carries the encodings that were tried for a file.
type NotReadableError struct {
	File      string
	Encodings []string
	Err       error
}

func (e *NotReadableError) Error() string {
	msg := fmt.Sprintf("%v: %s (tried %s)", ErrNotReadable, e.File, strings.Join(e.Encodings, ", "))
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *NotReadableError) Is(target error) bool {
	return target == ErrNotReadable
}

func (e *NotReadableError) Unwrap() error {
	return e.Err
}

func formatDelimiters(ds []rune) string {
	parts := make([]string, len(ds))
	for i, d := range ds {
		parts[i] = DelimiterName(d)
	}
	return strings.Join(parts, ", ")
}

// DelimiterName returns a printable name for a delimiter rune.
func DelimiterName(d rune) string {
	switch d {
	case '\t':
		return `\t`
	case ' ':
		return "space"
	default:
		return fmt.Sprintf("%q", d)
	}
}

// ParseDelimiter reads a delimiter given by name or as a single character.
// Accepted names are "tab", `\t`, "comma", "semicolon", "pipe" and "space".
func ParseDelimiter(s string) (rune, error) {
	switch strings.ToLower(s) {
	case "tab", `\t`, "\t":
		return '\t', nil
	case "comma":
		return ',', nil
	case "semicolon":
		return ';', nil
	case "pipe":
		return '|', nil
	case "space", " ":
		return ' ', nil
	}
	r := []rune(s)
	if len(r) != 1 || r[0] == '"' || r[0] == '\r' || r[0] == '\n' {
		return 0, fmt.Errorf("invalid delimiter %q", s)
	}
	return r[0], nil
}
