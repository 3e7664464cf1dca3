package classify

import (
	"strings"

	"github.com/alexanderramin/taxis/internal/taxonomy"
)

const promptTemplate = `You are an AI model specialized in analyzing and assigning user queries
according to a predefined categorization scheme.

Your task is to examine the given inputs and assign them a suitable category
from the following list:

{category_section}

You are given a single topic consisting of multiple user queries.

Representative user queries:
{documents}

Decision rules:
1. If the user explicitly asks for an EXPLANATION, DEFINITION, or INFORMATION
   (e.g. "Erkläre", "Was ist", "Gibt es Studien"), prefer S.S over D.I.
2. If the user asks to SOLVE EXERCISES or work through tasks based on slides,
   examples, or given text, prefer E.RF.
3. If the user wants EXISTING text or solutions to be CHECKED or CORRECTED,
   prefer E.RV.
4. Use D.I only if the main action is to DESCRIBE or DEFINE a problem or task,
   without primarily asking for explanations, solutions, or practice.
5. Use E.O only if the main request is to STRUCTURE or ORGANIZE content
   (outline, categories, ordering), not to explain or solve.
6. CRITICAL - Distinguish R.ES from S.S:
   - R.ES: "Ich verstehe X nicht" or "Was verstehe ich hier falsch?" (self-reflection about understanding)
   - S.S: "Erkläre mir X" or "Was ist X?" (requesting new information/explanation)
   - R.ES is meta-cognitive (about the user's own understanding gaps),
     S.S is informational (requesting knowledge from the chatbot).
7. CRITICAL - Distinguish R.ET from E.RV:
   - R.ET: "Ist meine Lösung richtig?" or "Ist das ausreichend?" (asking for judgment/assessment)
   - E.RV: "Überprüfe meine Lösung und korrigiere Fehler" (asking for checking AND improvement)
   - R.ET is evaluation/assessment, E.RV is review/correction.
8. Use OTHER sparingly - most queries fit into one of the main categories.
   Only use OTHER if the query is off-topic or meta (e.g., asking about the chatbot system itself).

Task:
1. Analyze the user queries and their shared intent.
2. Assign the most appropriate category to this topic from:
   {valid_codes}.

Important:
- Output ONLY the category code (exactly one of:
  {valid_codes}).
- Do not include any explanation or additional text.
`

// BuildPrompt fills the instruction template with the selection's category
// listing and the document. The closed set of valid codes always lists the
// whole taxonomy.
func BuildPrompt(sel *taxonomy.Selection, text string) string {
	r := strings.NewReplacer(
		"{category_section}", taxonomy.RenderCategorySection(sel),
		"{documents}", "- "+strings.TrimSpace(text),
		"{valid_codes}", strings.Join(sel.Taxonomy().Codes(), ", "),
	)
	return r.Replace(promptTemplate)
}
