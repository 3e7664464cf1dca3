package formatter

import (
	"strconv"

	"github.com/alexanderramin/taxis/internal/taxonomy"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

// FormatCategories renders the numbered category menu as a bordered table.
// Codes in sel are marked; a nil sel marks nothing.
func FormatCategories(tax *taxonomy.Taxonomy, sel *taxonomy.Selection) string {
	menu := taxonomy.Menu(tax)
	rows := make([][]string, 0, len(menu))
	groups := make([]string, 0, len(menu))
	for _, e := range menu {
		mark := ""
		if sel != nil && sel.Has(e.Code) {
			mark = "●"
		}
		rows = append(rows, []string{strconv.Itoa(e.Index), mark, e.Group, e.Code, e.Title, Truncate(e.Summary, 60)})
		groups = append(groups, e.Group)
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(StyleDim).
		Headers("#", "", "GROUP", "CODE", "TITLE", "SUMMARY").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			base := lipgloss.NewStyle().Padding(0, 1)
			if row == table.HeaderRow {
				return base.Inherit(StyleHeader)
			}
			switch col {
			case 0:
				return base.Inherit(StyleDim).Align(lipgloss.Right)
			case 1:
				return base.Inherit(StyleGreen)
			case 2:
				return base.Inherit(GroupStyle(groups[row]))
			case 3:
				return base.Inherit(StyleBold)
			case 5:
				return base.Inherit(StyleDim)
			}
			return base
		})

	return t.String()
}

// FormatSelection renders the active selection as one line per code.
func FormatSelection(sel *taxonomy.Selection) string {
	if sel.IsAll() {
		return Dim("Using all ") + strconv.Itoa(sel.Len()) + Dim(" categories")
	}
	return Dim("Using ") + strconv.Itoa(sel.Len()) + Dim(" categories: ") + sel.Summary()
}
