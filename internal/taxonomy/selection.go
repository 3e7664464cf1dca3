package taxonomy

import (
	"strconv"
	"strings"
)

// Selection is the run-scoped subset of taxonomy codes offered to the model.
// It is built once at startup and never changes afterwards; it is always
// non-empty and every code in it exists in its taxonomy.
type Selection struct {
	tax   *Taxonomy
	codes []string
	set   map[string]struct{}
}

// All returns a Selection covering the full taxonomy.
func All(t *Taxonomy) *Selection {
	return newSelection(t, t.Codes())
}

// NewSelection returns a Selection for the given codes. Unknown codes and
// duplicates are dropped; if nothing valid remains the full taxonomy is used.
func NewSelection(t *Taxonomy, codes []string) *Selection {
	valid := make([]string, 0, len(codes))
	seen := make(map[string]struct{}, len(codes))
	for _, code := range codes {
		if !t.Contains(code) {
			continue
		}
		if _, dup := seen[code]; dup {
			continue
		}
		seen[code] = struct{}{}
		valid = append(valid, code)
	}
	if len(valid) == 0 {
		return All(t)
	}
	return newSelection(t, valid)
}

func newSelection(t *Taxonomy, codes []string) *Selection {
	set := make(map[string]struct{}, len(codes))
	for _, c := range codes {
		set[c] = struct{}{}
	}
	return &Selection{tax: t, codes: codes, set: set}
}

// ParseSelection interprets a user answer to the category menu. Tokens are
// separated by commas or whitespace and may be 1-based menu indices or codes.
// An empty answer, "all" or "*" selects everything, as does an answer in which
// no token is valid.
func ParseSelection(t *Taxonomy, input string) *Selection {
	input = strings.TrimSpace(input)
	if input == "" {
		return All(t)
	}
	switch strings.ToLower(input) {
	case "all", "*":
		return All(t)
	}

	order := t.Codes()
	tokens := strings.Fields(strings.ReplaceAll(input, ",", " "))
	chosen := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		if isDigits(tok) {
			n, err := strconv.Atoi(tok)
			if err == nil && n >= 1 && n <= len(order) {
				chosen = append(chosen, order[n-1])
			}
			continue
		}
		if code, ok := t.Resolve(tok); ok {
			chosen = append(chosen, code)
		}
	}
	return NewSelection(t, chosen)
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}

// Codes returns the selected codes in selection order.
func (s *Selection) Codes() []string {
	return append([]string(nil), s.codes...)
}

// Has reports whether code is selected.
func (s *Selection) Has(code string) bool {
	_, ok := s.set[code]
	return ok
}

// Len returns the number of selected codes.
func (s *Selection) Len() int {
	return len(s.codes)
}

// IsAll reports whether every taxonomy code is selected.
func (s *Selection) IsAll() bool {
	return len(s.codes) == s.tax.Len()
}

// Taxonomy returns the taxonomy the selection was drawn from.
func (s *Selection) Taxonomy() *Taxonomy {
	return s.tax
}

// Summary renders "Title (CODE), ..." for log and console output.
func (s *Selection) Summary() string {
	parts := make([]string, 0, len(s.codes))
	for _, code := range s.codes {
		c, _ := s.tax.Lookup(code)
		parts = append(parts, c.Title+" ("+code+")")
	}
	return strings.Join(parts, ", ")
}

// String returns the comma-joined codes.
func (s *Selection) String() string {
	return strings.Join(s.codes, ",")
}
