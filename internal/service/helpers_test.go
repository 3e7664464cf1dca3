package service

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/alexanderramin/taxis/internal/langid"
	"github.com/alexanderramin/taxis/internal/llm"
	"github.com/stretchr/testify/require"
)

// keywordClient answers with the code mapped to the first keyword found in
// the prompt, or fallback.
type keywordClient struct {
	mu       sync.Mutex
	codes    map[string]string
	fallback string
	err      error
	calls    int
}

func (k *keywordClient) Generate(_ context.Context, req llm.GenerateRequest) (*llm.GenerateResponse, error) {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.calls++
	if k.err != nil {
		return nil, k.err
	}
	for kw, code := range k.codes {
		if strings.Contains(req.UserPrompt, "- "+kw) {
			return &llm.GenerateResponse{Text: " " + code + "\n"}, nil
		}
	}
	return &llm.GenerateResponse{Text: k.fallback}, nil
}

func (k *keywordClient) Available(context.Context) bool { return true }

func (k *keywordClient) callCount() int {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.calls
}

// stubIdentifier reports the same language for every text.
type stubIdentifier struct{ code string }

func (s stubIdentifier) Identify(string) (langid.Guess, error) {
	return langid.Guess{Code: s.code, Reliable: true}, nil
}

// recordingObserver keeps every use-case event.
type recordingObserver struct {
	mu     sync.Mutex
	events []UseCaseEvent
}

func (r *recordingObserver) ObserveUseCase(_ context.Context, e UseCaseEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func writeInput(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}
