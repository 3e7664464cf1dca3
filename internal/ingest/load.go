package ingest

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/klauspost/compress/gzip"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Supported encodings, in fallback order after the requested one.
const (
	EncodingUTF8     = "utf-8"
	EncodingLatin1   = "latin-1"
	EncodingCP1252   = "cp1252"
	EncodingISO88591 = "iso-8859-1"
)

// FallbackDelimiters is tried in order after the preferred delimiter.
var FallbackDelimiters = []rune{',', ';', '\t', '|'}

// FallbackEncodings is tried in order after the requested encoding.
var FallbackEncodings = []string{EncodingUTF8, EncodingLatin1, EncodingCP1252, EncodingISO88591}

var (
	errInvalidUTF8 = errors.New("invalid utf-8 byte sequence")
	errEmptyData   = errors.New("no data")
)

// LoadReport describes how a file was read.
type LoadReport struct {
	File                string
	Encoding            string
	EncodingFallback    bool
	Delimiter           rune
	DelimiterFallback   bool
	AttemptedDelimiters []rune
	Rows                int
	Columns             int
}

// FallbackUsed reports whether anything other than the requested delimiter or
// encoding was needed.
func (r *LoadReport) FallbackUsed() bool {
	return r.DelimiterFallback || r.EncodingFallback
}

// LoadWithFallback reads a UTF-8 file, trying the preferred delimiter and
// then FallbackDelimiters.
func LoadWithFallback(path string, preferred rune) (*Table, *LoadReport, error) {
	raw, err := readRaw(path)
	if err != nil {
		return nil, nil, err
	}
	text, err := decode(raw, EncodingUTF8)
	if err != nil {
		return nil, nil, &NotReadableError{File: path, Encodings: []string{EncodingUTF8}, Err: err}
	}
	table, report, err := parseWithFallback(path, text, preferred)
	if err != nil {
		return nil, nil, err
	}
	report.Encoding = EncodingUTF8
	return table, report, nil
}

// LoadWithEncoding reads a file trying the requested encoding and then
// FallbackEncodings; each decoded candidate goes through the delimiter chain.
// A candidate that cannot be decoded is skipped silently.
func LoadWithEncoding(path string, preferred rune, encoding string) (*Table, *LoadReport, error) {
	raw, err := readRaw(path)
	if err != nil {
		return nil, nil, err
	}

	requested := normalizeEncoding(encoding)
	chain := encodingChain(requested)

	var parseErr error
	var lastDecodeErr error
	for _, enc := range chain {
		text, err := decode(raw, enc)
		if err != nil {
			lastDecodeErr = err
			continue
		}
		table, report, err := parseWithFallback(path, text, preferred)
		if err != nil {
			parseErr = err
			continue
		}
		report.Encoding = enc
		report.EncodingFallback = enc != requested
		return table, report, nil
	}

	if parseErr != nil {
		return nil, nil, parseErr
	}
	return nil, nil, &NotReadableError{File: path, Encodings: chain, Err: lastDecodeErr}
}

func readRaw(path string) ([]byte, error) {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	var r io.Reader = f
	if strings.EqualFold(filepath.Ext(path), ".gz") {
		gz, err := gzip.NewReader(f)
		if err != nil {
			return nil, &NotReadableError{File: path, Encodings: []string{"gzip"}, Err: err}
		}
		defer gz.Close()
		r = gz
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return data, nil
}

func encodingChain(requested string) []string {
	chain := []string{requested}
	for _, enc := range FallbackEncodings {
		if enc != requested {
			chain = append(chain, enc)
		}
	}
	return chain
}

func normalizeEncoding(name string) string {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "utf-8", "utf8", "utf-8-sig":
		return EncodingUTF8
	case "latin-1", "latin1", "l1":
		return EncodingLatin1
	case "cp1252", "windows-1252", "win1252":
		return EncodingCP1252
	case "iso-8859-1", "iso8859-1", "iso_8859_1":
		return EncodingISO88591
	default:
		return strings.ToLower(name)
	}
}

// decode converts raw bytes in the given encoding to a UTF-8 string.
func decode(raw []byte, enc string) (string, error) {
	var out []byte
	switch enc {
	case EncodingUTF8:
		if !utf8.Valid(raw) {
			return "", errInvalidUTF8
		}
		b, _, err := transform.Bytes(unicode.UTF8BOM.NewDecoder(), raw)
		if err != nil {
			return "", err
		}
		out = b
	case EncodingLatin1, EncodingISO88591:
		b, _, err := transform.Bytes(charmap.ISO8859_1.NewDecoder(), raw)
		if err != nil {
			return "", err
		}
		out = b
	case EncodingCP1252:
		b, _, err := transform.Bytes(charmap.Windows1252.NewDecoder(), raw)
		if err != nil {
			return "", err
		}
		out = b
	default:
		return "", fmt.Errorf("unsupported encoding %q", enc)
	}
	if len(bytes.TrimSpace(out)) == 0 {
		return "", errEmptyData
	}
	return string(out), nil
}

func delimiterChain(preferred rune) []rune {
	chain := []rune{preferred}
	for _, d := range FallbackDelimiters {
		if d != preferred {
			chain = append(chain, d)
		}
	}
	return chain
}

// parseWithFallback returns the first delimiter whose parse yields at least
// two header columns. If every clean parse has a single column, the first
// clean parse wins, which keeps one-column files loadable.
func parseWithFallback(path, text string, preferred rune) (*Table, *LoadReport, error) {
	chain := delimiterChain(preferred)

	var single *Table
	var singleDelim rune
	var lastErr error
	for _, d := range chain {
		table, err := parseDelimited(text, d)
		if err != nil {
			lastErr = err
			continue
		}
		if len(table.Header) >= 2 {
			return table, newReport(path, table, d, preferred, chain), nil
		}
		if single == nil {
			single, singleDelim = table, d
		}
	}
	if single != nil {
		return single, newReport(path, single, singleDelim, preferred, chain), nil
	}
	return nil, nil, &ParseFailureError{File: path, Delimiters: chain, Err: lastErr}
}

func newReport(path string, t *Table, d, preferred rune, chain []rune) *LoadReport {
	return &LoadReport{
		File:                path,
		Delimiter:           d,
		DelimiterFallback:   d != preferred,
		AttemptedDelimiters: chain,
		Rows:                t.Len(),
		Columns:             len(t.Header),
	}
}

func parseDelimited(text string, d rune) (*Table, error) {
	r := csv.NewReader(strings.NewReader(text))
	r.Comma = d
	r.FieldsPerRecord = 0
	r.LazyQuotes = true

	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, errEmptyData
	}
	header := records[0]
	for i, h := range header {
		header[i] = strings.TrimSpace(h)
	}
	return NewTable(header, records[1:]), nil
}
