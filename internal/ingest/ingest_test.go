package ingest

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func TestLoadWithFallback_PreferredDelimiter(t *testing.T) {
	path := writeFile(t, "in.csv", []byte("id,Prompt\n1,Hallo\n2,Welt\n"))

	table, rep, err := LoadWithFallback(path, ',')
	require.NoError(t, err)

	assert.Equal(t, []string{"id", "Prompt"}, table.Header)
	assert.Equal(t, 2, table.Len())
	assert.Equal(t, ',', rep.Delimiter)
	assert.False(t, rep.FallbackUsed())
	assert.Equal(t, EncodingUTF8, rep.Encoding)
}

func TestLoadWithFallback_SemicolonFallbackRecorded(t *testing.T) {
	path := writeFile(t, "in.csv", []byte("id;Prompt\n1;Was ist ein Atom\n2;Erkläre Gravitation\n"))

	table, rep, err := LoadWithFallback(path, ',')
	require.NoError(t, err)

	assert.Equal(t, []string{"id", "Prompt"}, table.Header)
	assert.Equal(t, ';', rep.Delimiter)
	assert.True(t, rep.DelimiterFallback)
	assert.True(t, rep.FallbackUsed())
	assert.Equal(t, []rune{',', ';', '\t', '|'}, rep.AttemptedDelimiters)
	col, ok := table.Column("Prompt")
	require.True(t, ok)
	assert.Equal(t, []string{"Was ist ein Atom", "Erkläre Gravitation"}, col)
}

func TestLoadWithFallback_PreferredNotRepeatedInChain(t *testing.T) {
	path := writeFile(t, "in.tsv", []byte("a\tb\n1\t2\n"))

	_, rep, err := LoadWithFallback(path, '\t')
	require.NoError(t, err)
	assert.Equal(t, []rune{'\t', ',', ';', '|'}, rep.AttemptedDelimiters)
	assert.False(t, rep.FallbackUsed())
}

func TestLoadWithFallback_SingleColumnFile(t *testing.T) {
	path := writeFile(t, "in.csv", []byte("Prompt\nHallo\nWelt\n"))

	table, rep, err := LoadWithFallback(path, ';')
	require.NoError(t, err)
	assert.Equal(t, []string{"Prompt"}, table.Header)
	assert.Equal(t, ';', rep.Delimiter)
}

func TestLoadWithFallback_NotFound(t *testing.T) {
	_, _, err := LoadWithFallback(filepath.Join(t.TempDir(), "missing.csv"), ',')
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLoadWithFallback_ParseFailure(t *testing.T) {
	path := writeFile(t, "bad.csv", []byte("a,b;c\td|e\n1\n"))

	_, _, err := LoadWithFallback(path, ',')
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrParseFailure)

	var pf *ParseFailureError
	require.True(t, errors.As(err, &pf))
	assert.Equal(t, path, pf.File)
	assert.Len(t, pf.Delimiters, 4)
	assert.Contains(t, err.Error(), "bad.csv")
}

func TestLoadWithFallback_InnerQuotesAreLiteral(t *testing.T) {
	path := writeFile(t, "in.csv", []byte("id;Prompt\n1;Erkläre mir \"Photosynthese\" bitte\n2;Was ist ein Atom?\n"))

	table, rep, err := LoadWithEncoding(path, ';', "utf-8")
	require.NoError(t, err)
	assert.Equal(t, ';', rep.Delimiter)
	col, ok := table.Column("Prompt")
	require.True(t, ok)
	assert.Equal(t, []string{`Erkläre mir "Photosynthese" bitte`, "Was ist ein Atom?"}, col)
}

func TestLoadWithEncoding_Latin1Fallback(t *testing.T) {
	// "Erklär" in ISO-8859-1: 0xE4 is not valid UTF-8.
	data := []byte("id;Prompt\n1;Erkl\xe4re mir das\n")
	path := writeFile(t, "latin.csv", data)

	table, rep, err := LoadWithEncoding(path, ';', "utf-8")
	require.NoError(t, err)

	assert.Equal(t, EncodingLatin1, rep.Encoding)
	assert.True(t, rep.EncodingFallback)
	col, _ := table.Column("Prompt")
	assert.Equal(t, []string{"Erkläre mir das"}, col)
}

func TestLoadWithEncoding_RequestedCodePage(t *testing.T) {
	// 0x80 is the euro sign in Windows-1252.
	path := writeFile(t, "cp.csv", []byte("id;Preis\n1;5 \x80\n"))

	table, rep, err := LoadWithEncoding(path, ';', "windows-1252")
	require.NoError(t, err)
	assert.Equal(t, EncodingCP1252, rep.Encoding)
	assert.False(t, rep.EncodingFallback)
	col, _ := table.Column("Preis")
	assert.Equal(t, []string{"5 €"}, col)
}

func TestLoadWithEncoding_StripsBOM(t *testing.T) {
	path := writeFile(t, "bom.csv", append([]byte{0xEF, 0xBB, 0xBF}, []byte("id,Prompt\n1,x\n")...))

	table, _, err := LoadWithEncoding(path, ',', "")
	require.NoError(t, err)
	assert.Equal(t, "id", table.Header[0])
}

func TestLoadWithEncoding_EmptyFileNotReadable(t *testing.T) {
	path := writeFile(t, "empty.csv", nil)

	_, _, err := LoadWithEncoding(path, ',', "utf-8")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotReadable)

	var nr *NotReadableError
	require.True(t, errors.As(err, &nr))
	assert.Equal(t, []string{"utf-8", "latin-1", "cp1252", "iso-8859-1"}, nr.Encodings)
}

func TestLoadWithEncoding_Gzip(t *testing.T) {
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	_, err := zw.Write([]byte("id,Prompt\n1,komprimiert\n"))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	path := writeFile(t, "in.csv.gz", buf.Bytes())

	table, _, err := LoadWithEncoding(path, ',', "utf-8")
	require.NoError(t, err)
	col, _ := table.Column("Prompt")
	assert.Equal(t, []string{"komprimiert"}, col)
}

func TestCheckDuplicates_EmptyTable(t *testing.T) {
	rep := CheckDuplicates(NewTable([]string{"text"}, nil), []string{"text"})

	assert.Equal(t, 0, rep.TotalRows)
	assert.Equal(t, 0, rep.DuplicateRows)
	assert.Equal(t, 0.0, rep.Percentage)
	assert.Empty(t, rep.Indices)
}

func TestCheckDuplicates_SubsetAndWholeRow(t *testing.T) {
	table := NewTable([]string{"id", "text"}, [][]string{
		{"1", "a"},
		{"2", "b"},
		{"3", "a"},
		{"1", "a"},
	})

	byText := CheckDuplicates(table, []string{"text"})
	assert.Equal(t, 2, byText.DuplicateRows)
	assert.Equal(t, 2, byText.UniqueRows)
	assert.Equal(t, []int{2, 3}, byText.Indices)
	assert.Equal(t, 50.0, byText.Percentage)
	assert.Equal(t, "columns: text", byText.Scope())

	whole := CheckDuplicates(table, nil)
	assert.Equal(t, 1, whole.DuplicateRows)
	assert.Equal(t, []int{3}, whole.Indices)
	assert.True(t, whole.WholeRow())
}

func TestCheckDuplicates_PercentageRounded(t *testing.T) {
	table := NewTable([]string{"text"}, [][]string{{"a"}, {"a"}, {"b"}})

	rep := CheckDuplicates(table, []string{"text"})
	assert.Equal(t, 33.33, rep.Percentage)
}

func TestCheckDuplicates_MissingColumnFallsBackToWholeRow(t *testing.T) {
	table := NewTable([]string{"id", "text"}, [][]string{
		{"1", "a"},
		{"2", "a"},
	})

	rep := CheckDuplicates(table, []string{"Prompt"})
	assert.True(t, rep.WholeRow())
	assert.Equal(t, 0, rep.DuplicateRows)
}

func TestRemoveDuplicates_KeepFirstAndLast(t *testing.T) {
	table := NewTable([]string{"id", "text"}, [][]string{
		{"1", "a"},
		{"2", "b"},
		{"3", "a"},
		{"4", "c"},
	})

	first := RemoveDuplicates(table, []string{"text"}, KeepFirst)
	ids, _ := first.Column("id")
	assert.Equal(t, []string{"1", "2", "4"}, ids)
	assert.Equal(t, []int{0, 1, 3}, first.Index)

	last := RemoveDuplicates(table, []string{"text"}, KeepLast)
	ids, _ = last.Column("id")
	assert.Equal(t, []string{"2", "3", "4"}, ids)

	assert.Equal(t, 4, table.Len(), "input must not be mutated")
}

func TestRemoveDuplicates_Idempotent(t *testing.T) {
	table := NewTable([]string{"text"}, [][]string{{"x"}, {"y"}, {"x"}, {"x"}, {"z"}, {"y"}})

	once := RemoveDuplicates(table, []string{"text"}, KeepFirst)
	twice := RemoveDuplicates(once, []string{"text"}, KeepFirst)

	assert.Equal(t, 0, CheckDuplicates(twice, []string{"text"}).DuplicateRows)
	assert.Equal(t, once.Rows, twice.Rows)
}

func TestRemoveDuplicates_PhotosyntheseScenario(t *testing.T) {
	table := NewTable([]string{"id", "text"}, [][]string{
		{"1", "Erkläre mir Photosynthese"},
		{"2", ""},
		{"3", "Erkläre mir Photosynthese"},
	})

	clean := RemoveDuplicates(table, []string{"text"}, KeepFirst)
	ids, _ := clean.Column("id")
	assert.Equal(t, []string{"1", "2"}, ids)
}

func TestParseKeep(t *testing.T) {
	assert.Equal(t, KeepLast, ParseKeep("LAST"))
	assert.Equal(t, KeepFirst, ParseKeep("first"))
	assert.Equal(t, KeepFirst, ParseKeep("bogus"))
}

func TestTable_TruncateAndAppendColumn(t *testing.T) {
	table := NewTable([]string{"id", "text"}, [][]string{{"1", "a"}, {"2", "b"}, {"3", "c"}})

	assert.Equal(t, 3, table.Truncate(0).Len())
	assert.Equal(t, 3, table.Truncate(10).Len())
	small := table.Truncate(2)
	assert.Equal(t, 2, small.Len())
	assert.Equal(t, []int{0, 1}, small.Index)

	out, err := small.AppendColumn("Category", []string{"S.S", "OTHER"})
	require.NoError(t, err)
	assert.Equal(t, []string{"id", "text", "Category"}, out.Header)
	assert.Equal(t, []string{"2", "b", "OTHER"}, out.Rows[1])
	assert.Equal(t, []string{"id", "text"}, small.Header)

	_, err = small.AppendColumn("Category", []string{"x"})
	assert.Error(t, err)
}

func TestTable_SetColumnOverwritesExisting(t *testing.T) {
	table := NewTable([]string{"Prompt", "Category"}, [][]string{{"a", "old"}, {"b", "old"}})

	out, err := table.SetColumn("Category", []string{"S.S", "D.I"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Prompt", "Category"}, out.Header)
	col, ok := out.Column("Category")
	require.True(t, ok)
	assert.Equal(t, []string{"S.S", "D.I"}, col)
	assert.Equal(t, []string{"a", "old"}, table.Rows[0])

	out, err = table.SetColumn("lang", []string{"de", "en"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Prompt", "Category", "lang"}, out.Header)

	_, err = table.SetColumn("Category", []string{"x"})
	assert.Error(t, err)
}

func TestWriteCSV(t *testing.T) {
	table := NewTable([]string{"id", "text"}, [][]string{{"1", "a;b"}})

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, table, ';'))
	assert.Equal(t, "id;text\n1;\"a;b\"\n", buf.String())
}

func TestAnalyze_MissingTextColumn(t *testing.T) {
	path := writeFile(t, "in.csv", []byte("id;text\n1;a\n1;a\n2;a\n"))

	res, err := Analyze(path, AnalyzeOptions{Delimiter: ';', TextColumn: "Prompt"})
	require.NoError(t, err)
	assert.True(t, res.Duplicates.WholeRow())
	assert.Equal(t, 1, res.Duplicates.DuplicateRows)

	res, err = Analyze(path, AnalyzeOptions{Delimiter: ';', TextColumn: "text"})
	require.NoError(t, err)
	assert.Equal(t, 2, res.Duplicates.DuplicateRows)
}

func TestAnalyze_NotFoundWrapped(t *testing.T) {
	_, err := Analyze(filepath.Join(t.TempDir(), "nope.csv"), AnalyzeOptions{})
	assert.ErrorIs(t, err, ErrNotFound)
}
