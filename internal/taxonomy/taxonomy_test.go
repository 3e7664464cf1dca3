package taxonomy

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sixCategoryTaxonomy(t *testing.T) *Taxonomy {
	t.Helper()
	tax, err := New(
		[]Group{
			{Label: "Defining", Codes: []string{"D.I", "D.G"}},
			{Label: "Seeking", Codes: []string{"S.S", "S.SL"}},
			{Label: "Other", Codes: []string{"X.A", CodeOther}},
		},
		[]Category{
			{Code: "D.I", Title: "Identification", Description: "Describe a problem."},
			{Code: "D.G", Title: "Goals", Description: "Set goals."},
			{Code: "S.S", Title: "Search", Description: "Ask for information."},
			{Code: "S.SL", Title: "Select", Description: "Ask for a summary."},
			{Code: "X.A", Title: "Extra", Description: "Something else."},
			{Code: CodeOther, Title: "Other", Description: "Nothing fits."},
		},
	)
	require.NoError(t, err)
	return tax
}

func TestDefault_Shape(t *testing.T) {
	tax := Default()

	assert.Equal(t, 12, tax.Len())
	assert.Equal(t,
		[]string{"D.I", "D.G", "S.S", "S.SL", "S.EQ", "E.RV", "E.O", "E.RF", "E.RH", "R.ET", "R.ES", "OTHER"},
		tax.Codes())

	var labels []string
	for _, g := range tax.Groups() {
		labels = append(labels, g.Label)
	}
	assert.Equal(t, []string{"Defining", "Seeking", "Engaging", "Reflecting", "Other"}, labels)

	c, ok := tax.Lookup("E.RF")
	require.True(t, ok)
	assert.Equal(t, GroupEngaging, c.Group)
	assert.Equal(t, "Reformatting and Reworking", c.Title)
}

func TestNew_RejectsDuplicateCodes(t *testing.T) {
	_, err := New(
		[]Group{{Label: "A", Codes: []string{"X"}}},
		[]Category{{Code: "X"}, {Code: "X"}},
	)
	assert.Error(t, err)
}

func TestNew_RejectsCodeInTwoGroups(t *testing.T) {
	_, err := New(
		[]Group{{Label: "A", Codes: []string{"X"}}, {Label: "B", Codes: []string{"X"}}},
		[]Category{{Code: "X"}},
	)
	assert.Error(t, err)
}

func TestNew_RejectsUngroupedCategory(t *testing.T) {
	_, err := New(
		[]Group{{Label: "A", Codes: []string{"X"}}},
		[]Category{{Code: "X"}, {Code: "Y"}},
	)
	assert.Error(t, err)
}

func TestResolve_Aliases(t *testing.T) {
	tax := Default()

	for _, tok := range []string{"S.S", "s.s", "SS", "ss", " S.S "} {
		code, ok := tax.Resolve(tok)
		require.True(t, ok, tok)
		assert.Equal(t, "S.S", code, tok)
	}
	code, ok := tax.Resolve("other")
	require.True(t, ok)
	assert.Equal(t, CodeOther, code)

	_, ok = tax.Resolve("Z.Z")
	assert.False(t, ok)
}

func TestParseSelection_IndicesAndCodes(t *testing.T) {
	tax := Default()

	sel := ParseSelection(tax, "1 3")
	assert.Equal(t, []string{"D.I", "S.S"}, sel.Codes())

	sel = ParseSelection(tax, "e.rf, 1,rES")
	assert.Equal(t, []string{"E.RF", "D.I", "R.ES"}, sel.Codes())
}

func TestParseSelection_AllForms(t *testing.T) {
	tax := Default()

	for _, in := range []string{"", "   ", "all", "ALL", "*"} {
		sel := ParseSelection(tax, in)
		assert.True(t, sel.IsAll(), "input %q", in)
		assert.Equal(t, tax.Codes(), sel.Codes())
	}
}

func TestParseSelection_InvalidTokensFallBackToAll(t *testing.T) {
	tax := sixCategoryTaxonomy(t)

	sel := ParseSelection(tax, "9 9")
	assert.True(t, sel.IsAll())
	assert.Equal(t, tax.Codes(), sel.Codes())

	sel = ParseSelection(tax, "0 -1 foo")
	assert.True(t, sel.IsAll())
}

func TestParseSelection_DropsUnknownKeepsValid(t *testing.T) {
	tax := sixCategoryTaxonomy(t)

	sel := ParseSelection(tax, "9 2 2 bogus s.sl")
	assert.Equal(t, []string{"D.G", "S.SL"}, sel.Codes())
}

func TestSelection_SummaryAndHas(t *testing.T) {
	tax := Default()
	sel := NewSelection(tax, []string{"S.S", "OTHER", "nope"})

	assert.True(t, sel.Has("S.S"))
	assert.False(t, sel.Has("D.I"))
	assert.Equal(t, 2, sel.Len())
	assert.Equal(t, "Search (S.S), Other (OTHER)", sel.Summary())
	assert.Equal(t, "S.S,OTHER", sel.String())
}

func TestSelection_CodesIsACopy(t *testing.T) {
	sel := All(Default())
	codes := sel.Codes()
	codes[0] = "MUTATED"
	assert.Equal(t, "D.I", sel.Codes()[0])
}

func TestRenderCategorySection_GroupsInTaxonomyOrder(t *testing.T) {
	tax := Default()
	// Selection order must not influence rendering order.
	sel := NewSelection(tax, []string{"R.ES", "S.S", "D.I"})

	got := RenderCategorySection(sel)

	want := strings.Join([]string{
		"# Categories",
		"## Defining",
		"- Identification (D.I): " + mustDesc(t, tax, "D.I"),
		"",
		"## Seeking",
		"- Search (S.S): " + mustDesc(t, tax, "S.S"),
		"",
		"## Reflecting",
		"- Self Evaluation (R.ES): " + mustDesc(t, tax, "R.ES"),
	}, "\n")
	assert.Equal(t, want, got)
	assert.NotContains(t, got, "## Engaging")
}

func TestShortDescription(t *testing.T) {
	assert.Equal(t, "", ShortDescription(""))
	assert.Equal(t, "No period here", ShortDescription("No period here"))
	assert.Equal(t, "First.", ShortDescription("First. Second."))
}

func TestMenu_IndicesMatchParseSelection(t *testing.T) {
	tax := Default()
	menu := Menu(tax)

	require.Len(t, menu, 12)
	for _, e := range menu {
		sel := ParseSelection(tax, e.Code)
		assert.Equal(t, []string{e.Code}, sel.Codes())
	}
	assert.Equal(t, 3, menu[2].Index)
	assert.Equal(t, "S.S", menu[2].Code)
	assert.Equal(t, GroupSeeking, menu[2].Group)
}

func mustDesc(t *testing.T, tax *Taxonomy, code string) string {
	t.Helper()
	c, ok := tax.Lookup(code)
	require.True(t, ok)
	return c.Description
}
