package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/alexanderramin/taxis/internal/cli/formatter"
	"github.com/alexanderramin/taxis/internal/taxonomy"
)

const defaultPickerWidth = 100

// categoryPicker shows the numbered category menu grouped by activity and
// reads a selection string. Enter parses the input; Esc and Ctrl+C choose
// every category.
type categoryPicker struct {
	tax     *taxonomy.Taxonomy
	entries map[string]taxonomy.MenuEntry
	input   textinput.Model
	width   int

	result *taxonomy.Selection
}

func newCategoryPicker(tax *taxonomy.Taxonomy) categoryPicker {
	entries := make(map[string]taxonomy.MenuEntry)
	for _, e := range taxonomy.Menu(tax) {
		entries[e.Code] = e
	}

	ti := textinput.New()
	ti.Prompt = "› "
	ti.Placeholder = `numbers or codes, e.g. "1 3" or "S.S,E.RF"; empty for all`
	ti.CharLimit = 256
	ti.PromptStyle = formatter.StyleHeader
	ti.Focus()

	return categoryPicker{tax: tax, entries: entries, input: ti, width: defaultPickerWidth}
}

func (m categoryPicker) Init() tea.Cmd {
	return textinput.Blink
}

func (m categoryPicker) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.input.Width = msg.Width - 4
		return m, nil
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyEnter:
			m.result = taxonomy.ParseSelection(m.tax, m.input.Value())
			return m, tea.Quit
		case tea.KeyEsc, tea.KeyCtrlC:
			m.result = taxonomy.All(m.tax)
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m categoryPicker) View() string {
	if m.result != nil {
		return ""
	}

	var b strings.Builder
	b.WriteString(formatter.Header("Select categories"))
	b.WriteString("\n")

	summaryWidth := m.width - 24
	if summaryWidth < 20 {
		summaryWidth = 20
	}
	for _, g := range m.tax.Groups() {
		b.WriteString("\n")
		b.WriteString(formatter.GroupStyle(g.Label).Bold(true).Render(g.Label))
		b.WriteString("\n")
		for _, code := range g.Codes {
			e := m.entries[code]
			fmt.Fprintf(&b, "  %s  %-5s %s\n",
				formatter.Dim(fmt.Sprintf("%2d", e.Index)),
				e.Code,
				formatter.Truncate(e.Title+": "+e.Summary, summaryWidth),
			)
		}
	}

	b.WriteString("\n")
	b.WriteString(m.input.View())
	b.WriteString("\n")
	b.WriteString(formatter.FormatSelection(taxonomy.ParseSelection(m.tax, m.input.Value())))
	b.WriteString("\n")
	b.WriteString(formatter.Dim("enter confirm · esc use all categories"))
	b.WriteString("\n")
	return b.String()
}

// Selection returns the chosen selection, or nil while the picker is open.
func (m categoryPicker) Selection() *taxonomy.Selection {
	return m.result
}

// runCategoryPicker runs the picker on the terminal, drawing to stderr so
// stdout stays clean for results.
func runCategoryPicker(tax *taxonomy.Taxonomy) (*taxonomy.Selection, error) {
	final, err := tea.NewProgram(newCategoryPicker(tax), tea.WithOutput(os.Stderr)).Run()
	if err != nil {
		return nil, fmt.Errorf("category picker: %w", err)
	}
	if m, ok := final.(categoryPicker); ok && m.result != nil {
		return m.result, nil
	}
	return taxonomy.All(tax), nil
}
