package classify

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/taxis/internal/ingest"
	"github.com/alexanderramin/taxis/internal/langid"
	"github.com/alexanderramin/taxis/internal/llm"
	"github.com/alexanderramin/taxis/internal/taxonomy"
)

// mockLLMClient answers via respond and records every request.
type mockLLMClient struct {
	mu       sync.Mutex
	requests []llm.GenerateRequest
	respond  func(req llm.GenerateRequest) (string, error)
}

func (m *mockLLMClient) Generate(_ context.Context, req llm.GenerateRequest) (*llm.GenerateResponse, error) {
	m.mu.Lock()
	m.requests = append(m.requests, req)
	m.mu.Unlock()

	text, err := m.respond(req)
	if err != nil {
		return nil, err
	}
	return &llm.GenerateResponse{Text: text, Model: "gpt-4o-mini"}, nil
}

func (m *mockLLMClient) Available(_ context.Context) bool { return true }

func (m *mockLLMClient) calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.requests)
}

func fixed(text string) *mockLLMClient {
	return &mockLLMClient{respond: func(llm.GenerateRequest) (string, error) { return text, nil }}
}

func TestClassify_EmptyTextIsOtherWithoutCall(t *testing.T) {
	client := fixed("S.S")
	c := New(client, taxonomy.All(taxonomy.Default()), Options{})

	for _, text := range []string{"", "   ", "\n\t"} {
		res := c.Classify(context.Background(), text)
		assert.Equal(t, taxonomy.CodeOther, res.Code)
		assert.Equal(t, 0, res.Calls)
	}
	assert.Equal(t, 0, client.calls())
}

func TestClassify_UsesDeterministicClassifyTask(t *testing.T) {
	client := fixed("  S.S \n")
	c := New(client, taxonomy.All(taxonomy.Default()), Options{})

	res := c.Classify(context.Background(), "Was ist ein Atom?")

	assert.Equal(t, "S.S", res.Code)
	assert.True(t, res.Known)
	require.Len(t, client.requests, 1)
	req := client.requests[0]
	assert.Equal(t, llm.TaskClassify, req.Task)
	assert.Empty(t, req.SystemPrompt)
	assert.Nil(t, req.Temperature, "task default (temperature 0) applies")
	assert.Contains(t, req.UserPrompt, "- Was ist ein Atom?")
}

func TestClassify_ServiceFaultBecomesError(t *testing.T) {
	boom := fmt.Errorf("%w: connection refused", llm.ErrUnavailable)
	client := &mockLLMClient{respond: func(llm.GenerateRequest) (string, error) { return "", boom }}
	c := New(client, taxonomy.All(taxonomy.Default()), Options{})

	res := c.Classify(context.Background(), "Hilfe")
	assert.Equal(t, taxonomy.CodeError, res.Code)
	assert.ErrorIs(t, res.Err, llm.ErrUnavailable)
}

func TestClassify_FaithfulKeepsUnknownAnswer(t *testing.T) {
	c := New(fixed("Category: S.S"), taxonomy.All(taxonomy.Default()), Options{})

	res := c.Classify(context.Background(), "Erkläre mir Mitose")
	assert.Equal(t, "Category: S.S", res.Code)
	assert.False(t, res.Known)
}

func TestClassify_StrictMapsOutsideSelectionToOther(t *testing.T) {
	tax := taxonomy.Default()
	sel := taxonomy.NewSelection(tax, []string{"S.S", "D.I"})

	strict := New(fixed("E.RF"), sel, Options{Strict: true})
	res := strict.Classify(context.Background(), "Löse Aufgabe 3")
	assert.Equal(t, taxonomy.CodeOther, res.Code)
	assert.Equal(t, "E.RF", res.Raw)
	assert.True(t, res.Known)

	res = New(fixed("s.s"), sel, Options{Strict: true}).Classify(context.Background(), "Was ist X")
	assert.Equal(t, "S.S", res.Code)

	res = New(fixed("garbage"), sel, Options{Strict: true}).Classify(context.Background(), "x")
	assert.Equal(t, taxonomy.CodeOther, res.Code)
}

func TestClassifyAll_PreservesOrderUnderConcurrency(t *testing.T) {
	client := &mockLLMClient{respond: func(req llm.GenerateRequest) (string, error) {
		// Earlier documents answer later to scramble completion order.
		switch {
		case strings.Contains(req.UserPrompt, "- q0"):
			time.Sleep(30 * time.Millisecond)
			return "D.I", nil
		case strings.Contains(req.UserPrompt, "- q1"):
			time.Sleep(10 * time.Millisecond)
			return "", errors.New("rate limited")
		default:
			return "R.ES", nil
		}
	}}
	c := New(client, taxonomy.All(taxonomy.Default()), Options{Concurrency: 4})

	docs := []Document{{Index: 0, Text: "q0"}, {Index: 1, Text: "q1"}, {Index: 2, Text: ""}, {Index: 3, Text: "q3"}}
	results := c.ClassifyAll(context.Background(), docs)

	require.Len(t, results, len(docs))
	var codes []string
	for i, r := range results {
		assert.Equal(t, docs[i].Index, r.Index)
		codes = append(codes, r.Code)
	}
	assert.Equal(t, []string{"D.I", taxonomy.CodeError, taxonomy.CodeOther, "R.ES"}, codes)
	assert.Equal(t, 3, client.calls())
}

func TestClassifyAll_BoundedConcurrency(t *testing.T) {
	var inFlight, peak atomic.Int32
	client := &mockLLMClient{respond: func(llm.GenerateRequest) (string, error) {
		n := inFlight.Add(1)
		for {
			p := peak.Load()
			if n <= p || peak.CompareAndSwap(p, n) {
				break
			}
		}
		time.Sleep(5 * time.Millisecond)
		inFlight.Add(-1)
		return "S.S", nil
	}}
	c := New(client, taxonomy.All(taxonomy.Default()), Options{Concurrency: 2})

	docs := make([]Document, 10)
	for i := range docs {
		docs[i] = Document{Index: i, Text: fmt.Sprintf("frage %d", i)}
	}
	results := c.ClassifyAll(context.Background(), docs)

	assert.Len(t, results, 10)
	assert.LessOrEqual(t, peak.Load(), int32(2))
}

type recorder struct {
	mu      sync.Mutex
	sources []string
	codes   []string
}

func (r *recorder) Record(source string, res Result) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sources = append(r.sources, source)
	r.codes = append(r.codes, res.Code)
}

func TestClassify_RecorderSeesEveryResult(t *testing.T) {
	rec := &recorder{}
	c := New(fixed("S.S"), taxonomy.All(taxonomy.Default()), Options{Recorder: rec}).WithSource("prompts.csv")

	c.ClassifyAll(context.Background(), []Document{{Index: 0, Text: "a"}, {Index: 1, Text: ""}})

	assert.Equal(t, []string{"prompts.csv", "prompts.csv"}, rec.sources)
	assert.Equal(t, []string{"S.S", taxonomy.CodeOther}, rec.codes)
}

func TestMultiRecorder_FansOutSkippingNil(t *testing.T) {
	a, b := &recorder{}, &recorder{}
	multi := MultiRecorder{a, nil, b}

	multi.Record("q.csv", Result{Code: "D.I"})

	assert.Equal(t, []string{"D.I"}, a.codes)
	assert.Equal(t, []string{"D.I"}, b.codes)
}

func TestEndToEnd_PhotosyntheseScenario(t *testing.T) {
	table := ingest.NewTable([]string{"id", "text"}, [][]string{
		{"1", "Erkläre mir Photosynthese"},
		{"2", ""},
		{"3", "Erkläre mir Photosynthese"},
	})
	clean := ingest.RemoveDuplicates(table, []string{"text"}, ingest.KeepFirst)
	require.Equal(t, 2, clean.Len())

	client := fixed("S.S")
	c := New(client, taxonomy.All(taxonomy.Default()), Options{})

	docs, err := Documents(clean, "text")
	require.NoError(t, err)
	results := c.ClassifyAll(context.Background(), docs)

	require.Len(t, results, 2)
	assert.Equal(t, "S.S", results[0].Code)
	assert.Equal(t, taxonomy.CodeOther, results[1].Code)
	assert.Equal(t, 0, results[1].Calls)

	require.Equal(t, 1, client.calls())
	prompt := client.requests[0].UserPrompt
	assert.Contains(t, prompt, "- Erkläre mir Photosynthese")
	assert.Contains(t, prompt, "Search (S.S)")
	assert.Contains(t, prompt, "prefer S.S over D.I")

	out, err := Annotate(clean, results, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"id", "text", ColumnCategory}, out.Header)
	ids, _ := out.Column("id")
	assert.Equal(t, []string{"1", "2"}, ids)
}

func TestDocuments_MissingColumn(t *testing.T) {
	_, err := Documents(ingest.NewTable([]string{"id"}, nil), "Prompt")
	assert.ErrorIs(t, err, ErrMissingColumn)
}

type stubIdentifier struct {
	guess langid.Guess
	err   error
	panic bool
}

func (s stubIdentifier) Identify(string) (langid.Guess, error) {
	if s.panic {
		panic("model file missing")
	}
	return s.guess, s.err
}

func TestDetectLanguage(t *testing.T) {
	assert.Equal(t, LanguageUnknown, DetectLanguage(stubIdentifier{}, "  "))
	assert.Equal(t, "de", DetectLanguage(stubIdentifier{guess: langid.Guess{Code: "de"}}, "Hallo Welt"))
	assert.Equal(t, LanguageUnknown, DetectLanguage(stubIdentifier{}, "1234"))
	assert.Equal(t, LanguageError, DetectLanguage(stubIdentifier{err: errors.New("bad")}, "x"))
	assert.Equal(t, LanguageError, DetectLanguage(stubIdentifier{panic: true}, "x"))
}

func TestAnnotate_WithLanguages(t *testing.T) {
	table := ingest.NewTable([]string{"Prompt"}, [][]string{{"a"}, {"b"}})
	out, err := Annotate(table, []Result{{Code: "S.S"}, {Code: "OTHER"}}, []string{"de", "en"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Prompt", ColumnCategory, ColumnLanguage}, out.Header)
	assert.Equal(t, []string{"b", "OTHER", "en"}, out.Rows[1])

	_, err = Annotate(table, []Result{{Code: "S.S"}}, nil)
	assert.Error(t, err)
}

func TestAnnotate_ReplacesExistingCategoryColumn(t *testing.T) {
	table := ingest.NewTable([]string{"Prompt", ColumnCategory}, [][]string{{"a", "D.I"}, {"b", "D.I"}})

	out, err := Annotate(table, []Result{{Code: "S.S"}, {Code: "OTHER"}}, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"Prompt", ColumnCategory}, out.Header)
	col, ok := out.Column(ColumnCategory)
	require.True(t, ok)
	assert.Equal(t, []string{"S.S", "OTHER"}, col)
}

func TestSummarize(t *testing.T) {
	results := []Result{{Code: "S.S"}, {Code: "OTHER"}, {Code: "S.S"}, {Code: "D.I"}, {Code: "ERROR"}}

	got := Summarize(results)
	assert.Equal(t, []CategoryCount{
		{Code: "S.S", Count: 2},
		{Code: "D.I", Count: 1},
		{Code: "ERROR", Count: 1},
		{Code: "OTHER", Count: 1},
	}, got)

	table := SummaryTable(got)
	assert.Equal(t, []string{"Category", "Count"}, table.Header)
	assert.Equal(t, []string{"S.S", "2"}, table.Rows[0])
}
