// Package classify assigns taxonomy codes to learner queries by asking a
// language model, one document per request.
package classify

import (
	"context"
	"log/slog"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/alexanderramin/taxis/internal/llm"
	"github.com/alexanderramin/taxis/internal/taxonomy"
)

// Document is one row to classify. Index is the row's position in its source.
type Document struct {
	Index int
	Text  string
}

// Result is the outcome for one document. Code is always set: a model answer,
// taxonomy.CodeOther for empty text, or taxonomy.CodeError when the call failed.
type Result struct {
	Index int
	Code  string
	Raw   string // trimmed model output; empty when no call was made
	Known bool   // Code is a selected code or a sentinel
	Err   error  // the service fault behind CodeError
	Calls int
}

// Recorder observes every result, e.g. for metrics or error reporting.
type Recorder interface {
	Record(source string, r Result)
}

// MultiRecorder fans a result out to every non-nil recorder.
type MultiRecorder []Recorder

func (m MultiRecorder) Record(source string, r Result) {
	for _, rec := range m {
		if rec != nil {
			rec.Record(source, r)
		}
	}
}

// Options configures a Classifier.
type Options struct {
	// Strict maps answers outside the selection to OTHER. When false the
	// trimmed answer is kept verbatim and Result.Known flags it.
	Strict bool

	// Concurrency bounds in-flight requests in ClassifyAll. Values below 1
	// mean sequential.
	Concurrency int

	Logger   *slog.Logger
	Recorder Recorder
}

// Classifier maps query text to a code of a fixed Selection.
type Classifier struct {
	client llm.Client
	sel    *taxonomy.Selection
	opts   Options
	source string
}

// New returns a Classifier for sel. The selection is fixed for the
// classifier's lifetime.
func New(client llm.Client, sel *taxonomy.Selection, opts Options) *Classifier {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Concurrency < 1 {
		opts.Concurrency = 1
	}
	return &Classifier{client: client, sel: sel, opts: opts}
}

// WithSource returns a copy that labels log lines and records with source,
// usually the input file name.
func (c *Classifier) WithSource(source string) *Classifier {
	cp := *c
	cp.source = source
	return &cp
}

// Selection returns the active selection.
func (c *Classifier) Selection() *taxonomy.Selection {
	return c.sel
}

// Strict reports whether answers outside the selection are mapped to OTHER.
func (c *Classifier) Strict() bool {
	return c.opts.Strict
}

// Classify classifies a single text. It never fails; faults become
// taxonomy.CodeError.
func (c *Classifier) Classify(ctx context.Context, text string) Result {
	return c.classify(ctx, Document{Index: -1, Text: text})
}

// ClassifyAll classifies docs and returns one result per document in input
// order, whatever the completion order.
func (c *Classifier) ClassifyAll(ctx context.Context, docs []Document) []Result {
	results := make([]Result, len(docs))

	var g errgroup.Group
	g.SetLimit(c.opts.Concurrency)
	for i := range docs {
		g.Go(func() error {
			results[i] = c.classify(ctx, docs[i])
			return nil
		})
	}
	_ = g.Wait()

	return results
}

func (c *Classifier) classify(ctx context.Context, doc Document) Result {
	res := c.resolve(ctx, doc)
	if c.opts.Recorder != nil {
		c.opts.Recorder.Record(c.source, res)
	}
	return res
}

func (c *Classifier) resolve(ctx context.Context, doc Document) Result {
	text := strings.TrimSpace(doc.Text)
	if text == "" {
		return Result{Index: doc.Index, Code: taxonomy.CodeOther, Known: true}
	}

	resp, err := c.client.Generate(ctx, llm.GenerateRequest{
		Task:       llm.TaskClassify,
		UserPrompt: BuildPrompt(c.sel, text),
	})
	if err != nil {
		c.opts.Logger.Warn("classification failed",
			"file", c.source,
			"row", doc.Index,
			"error", err,
		)
		return Result{Index: doc.Index, Code: taxonomy.CodeError, Known: true, Err: err, Calls: 1}
	}

	raw := strings.TrimSpace(resp.Text)
	res := Result{Index: doc.Index, Code: raw, Raw: raw, Calls: 1}
	if code, ok := c.accept(raw); ok {
		res.Code, res.Known = code, true
		return res
	}

	if c.opts.Strict {
		c.opts.Logger.Info("answer outside selection, using OTHER",
			"file", c.source, "row", doc.Index, "answer", raw)
		res.Code, res.Known = taxonomy.CodeOther, true
		return res
	}
	c.opts.Logger.Warn("answer outside selection kept verbatim",
		"file", c.source, "row", doc.Index, "answer", raw)
	return res
}

// accept reports whether raw names a selected code or OTHER. In faithful
// mode only an exact match counts so the stored value never changes.
func (c *Classifier) accept(raw string) (string, bool) {
	code := raw
	if c.opts.Strict {
		resolved, ok := c.sel.Taxonomy().Resolve(raw)
		if !ok {
			return "", false
		}
		code = resolved
	}
	if code == taxonomy.CodeOther || c.sel.Has(code) {
		return code, true
	}
	return "", false
}
