// Package langid identifies the natural language of short texts.
package langid

import (
	"errors"
	"fmt"
	"strings"

	"github.com/abadojack/whatlanggo"
)

// ErrNoText indicates there was nothing to identify.
var ErrNoText = errors.New("no text to identify")

// Guess is one identification result.
type Guess struct {
	Code       string // ISO 639-1, empty when the language is unknown
	Code3      string // ISO 639-3
	Name       string
	Confidence float64
	Reliable   bool
}

// Identifier identifies the language of a text.
type Identifier interface {
	Identify(text string) (Guess, error)
}

// WhatlangIdentifier identifies languages with trigram statistics.
type WhatlangIdentifier struct {
	options whatlanggo.Options
}

// NewWhatlangIdentifier returns an identifier. A non-empty allow list
// restricts detection to those ISO 639-1 codes.
func NewWhatlangIdentifier(allow ...string) *WhatlangIdentifier {
	id := &WhatlangIdentifier{}
	if len(allow) == 0 {
		return id
	}
	whitelist := make(map[whatlanggo.Lang]bool, len(allow))
	for lang, code := range iso6391Index() {
		for _, a := range allow {
			if strings.EqualFold(a, code) {
				whitelist[lang] = true
			}
		}
	}
	id.options.Whitelist = whitelist
	return id
}

// Identify returns the most likely language of text. Newlines are folded
// into spaces first.
func (w *WhatlangIdentifier) Identify(text string) (g Guess, err error) {
	text = strings.TrimSpace(strings.ReplaceAll(text, "\n", " "))
	if text == "" {
		return Guess{}, ErrNoText
	}
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("language identification panicked: %v", r)
		}
	}()

	info := whatlanggo.DetectWithOptions(text, w.options)
	code := info.Lang.Iso6391()
	if code == "" {
		return Guess{Confidence: info.Confidence}, nil
	}
	return Guess{
		Code:       code,
		Code3:      info.Lang.Iso6393(),
		Name:       info.Lang.String(),
		Confidence: info.Confidence,
		Reliable:   info.IsReliable(),
	}, nil
}

func iso6391Index() map[whatlanggo.Lang]string {
	out := make(map[whatlanggo.Lang]string, len(whatlanggo.Langs))
	for lang := range whatlanggo.Langs {
		out[lang] = lang.Iso6391()
	}
	return out
}
