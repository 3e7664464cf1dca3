// Package taxonomy holds the fixed category taxonomy used to classify learner
// queries, the run-scoped Active Selection, and the prompt rendering of both.
package taxonomy

import (
	"fmt"
	"strings"
)

// Sentinel result codes. CodeOther is also a regular taxonomy entry; CodeError
// never is.
const (
	CodeOther = "OTHER"
	CodeError = "ERROR"
)

// Category is a leaf taxonomy entry.
type Category struct {
	Code        string
	Title       string
	Description string
	Group       string
}

// Group is a named, ordered list of category codes.
type Group struct {
	Label string
	Codes []string
}

// Taxonomy is an immutable set of categories arranged in ordered groups.
// Group order and within-group order define the rendering order everywhere.
type Taxonomy struct {
	groups     []Group
	categories map[string]Category
	order      []string
	aliases    map[string]string
}

// New builds a Taxonomy from groups and their categories. Every code listed in
// a group must have a category entry and may appear in only one group.
func New(groups []Group, categories []Category) (*Taxonomy, error) {
	t := &Taxonomy{
		categories: make(map[string]Category, len(categories)),
		aliases:    make(map[string]string, len(categories)*2),
	}
	for _, c := range categories {
		if c.Code == "" {
			return nil, fmt.Errorf("category %q has empty code", c.Title)
		}
		if _, dup := t.categories[c.Code]; dup {
			return nil, fmt.Errorf("duplicate category code %s", c.Code)
		}
		t.categories[c.Code] = c
	}

	seen := make(map[string]string, len(categories))
	for _, g := range groups {
		for _, code := range g.Codes {
			c, ok := t.categories[code]
			if !ok {
				return nil, fmt.Errorf("group %s references unknown code %s", g.Label, code)
			}
			if prev, dup := seen[code]; dup {
				return nil, fmt.Errorf("code %s listed in groups %s and %s", code, prev, g.Label)
			}
			if c.Group != "" && c.Group != g.Label {
				return nil, fmt.Errorf("code %s declares group %s but is listed under %s", code, c.Group, g.Label)
			}
			c.Group = g.Label
			t.categories[code] = c
			seen[code] = g.Label
			t.order = append(t.order, code)

			canonical := strings.ToUpper(code)
			t.aliases[canonical] = code
			t.aliases[strings.ReplaceAll(canonical, ".", "")] = code
		}
		t.groups = append(t.groups, Group{Label: g.Label, Codes: append([]string(nil), g.Codes...)})
	}
	if len(seen) != len(t.categories) {
		for code := range t.categories {
			if _, ok := seen[code]; !ok {
				return nil, fmt.Errorf("code %s is not assigned to any group", code)
			}
		}
	}
	return t, nil
}

// Codes returns every code in rendering order.
func (t *Taxonomy) Codes() []string {
	return append([]string(nil), t.order...)
}

// Groups returns the groups in display order.
func (t *Taxonomy) Groups() []Group {
	out := make([]Group, len(t.groups))
	for i, g := range t.groups {
		out[i] = Group{Label: g.Label, Codes: append([]string(nil), g.Codes...)}
	}
	return out
}

// Len returns the number of categories.
func (t *Taxonomy) Len() int {
	return len(t.order)
}

// Lookup returns the category for an exact code.
func (t *Taxonomy) Lookup(code string) (Category, bool) {
	c, ok := t.categories[code]
	return c, ok
}

// Categories returns all categories in rendering order.
func (t *Taxonomy) Categories() []Category {
	out := make([]Category, 0, len(t.order))
	for _, code := range t.order {
		out = append(out, t.categories[code])
	}
	return out
}

// Resolve maps a user token to a canonical code. Matching is
// case-insensitive and the "." separator is optional, so "sss", "S.S" and
// "s.s" all resolve to "S.S".
func (t *Taxonomy) Resolve(token string) (string, bool) {
	normalized := strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(token), " ", ""))
	code, ok := t.aliases[normalized]
	return code, ok
}

// Contains reports whether code is an exact taxonomy code.
func (t *Taxonomy) Contains(code string) bool {
	_, ok := t.categories[code]
	return ok
}

// ShortDescription returns the first sentence of a description so menus stay
// readable.
func ShortDescription(text string) string {
	if text == "" {
		return ""
	}
	i := strings.IndexByte(text, '.')
	if i == -1 {
		return text
	}
	return text[:i+1]
}
