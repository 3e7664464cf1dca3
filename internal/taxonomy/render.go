package taxonomy

import (
	"fmt"
	"strings"
)

// RenderCategorySection renders the selected categories for the classification
// prompt, grouped and ordered by the taxonomy:
//
//	# Categories
//	## Defining
//	- Identification (D.I): ...
func RenderCategorySection(s *Selection) string {
	lines := []string{"# Categories"}
	for _, g := range s.tax.groups {
		var picked []string
		for _, code := range g.Codes {
			if s.Has(code) {
				picked = append(picked, code)
			}
		}
		if len(picked) == 0 {
			continue
		}
		lines = append(lines, "## "+g.Label)
		for _, code := range picked {
			c := s.tax.categories[code]
			lines = append(lines, fmt.Sprintf("- %s (%s): %s", c.Title, code, c.Description))
		}
		lines = append(lines, "")
	}
	return strings.TrimRight(strings.Join(lines, "\n"), "\n ")
}

// MenuEntry is one numbered line of the interactive category menu.
type MenuEntry struct {
	Index   int
	Group   string
	Code    string
	Title   string
	Summary string
}

// Menu returns the numbered menu entries in taxonomy order. Indices are
// 1-based and match what ParseSelection accepts.
func Menu(t *Taxonomy) []MenuEntry {
	entries := make([]MenuEntry, 0, len(t.order))
	for i, code := range t.order {
		c := t.categories[code]
		entries = append(entries, MenuEntry{
			Index:   i + 1,
			Group:   c.Group,
			Code:    code,
			Title:   c.Title,
			Summary: ShortDescription(c.Description),
		})
	}
	return entries
}
