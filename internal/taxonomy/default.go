package taxonomy

// Group labels of the default taxonomy, in display order.
const (
	GroupDefining   = "Defining"
	GroupSeeking    = "Seeking"
	GroupEngaging   = "Engaging"
	GroupReflecting = "Reflecting"
	GroupOther      = "Other"
)

var defaultGroups = []Group{
	{Label: GroupDefining, Codes: []string{"D.I", "D.G"}},
	{Label: GroupSeeking, Codes: []string{"S.S", "S.SL", "S.EQ"}},
	{Label: GroupEngaging, Codes: []string{"E.RV", "E.O", "E.RF", "E.RH"}},
	{Label: GroupReflecting, Codes: []string{"R.ET", "R.ES"}},
	{Label: GroupOther, Codes: []string{CodeOther}},
}

var defaultCategories = []Category{
	{
		Code:  "D.I",
		Title: "Identification",
		Description: "The user mainly DESCRIBES a problem, task, or situation and wants to DEFINE " +
			"what the issue is. They do NOT primarily ask the chatbot to explain content, " +
			"solve exercises, or provide new information.",
	},
	{
		Code:  "D.G",
		Title: "Goal Setting and Requirement Clarification",
		Description: "The user sets learning goals or clarifies what is expected in a course, exam, " +
			"or task.",
	},
	{
		Code:  "S.S",
		Title: "Search",
		Description: "The user wants NEW INFORMATION, explanations, or definitions from the chatbot " +
			"(e.g. \"Erkläre mir...\", \"Was ist...\", \"Gibt es Studien zu...\"). " +
			"The focus is on obtaining knowledge, not on rewriting or solving given exercises.",
	},
	{
		Code:  "S.SL",
		Title: "Select",
		Description: "The user asks for summaries, key points, or extractions " +
			"(e.g. \"Fasse zusammen\", \"Nenne mir die wichtigsten Punkte\").",
	},
	{
		Code:        "S.EQ",
		Title:       "Evaluation of Information Quality",
		Description: "The user asks about credibility, reliability, or quality of information or sources.",
	},
	{
		Code:  "E.RV",
		Title: "Review",
		Description: "The user wants existing work or answers to be checked, corrected, or improved " +
			"(e.g. \"Überprüfe meine Lösung\", \"Prüfe meinen Text\").",
	},
	{
		Code:  "E.O",
		Title: "Organise",
		Description: "The user wants help STRUCTURING or CATEGORIZING content " +
			"(e.g. Gliederungen, Mindmaps, Sortieren in Kategorien), not explanations.",
	},
	{
		Code:  "E.RF",
		Title: "Reformatting and Reworking",
		Description: "The user wants to TRANSFORM given content (e.g. Übersetzen, Umformulieren, " +
			"in Stichworte/Diagramme umwandeln) OR asks the chatbot to solve exercises " +
			"STEP BY STEP based on provided material.",
	},
	{
		Code:  "E.RH",
		Title: "Rehearse",
		Description: "The user wants to PRACTISE, e.g. Quizfragen, Übungsaufgaben, Wiederholungsfragen " +
			"zu gelerntem Stoff.",
	},
	{
		Code:  "R.ET",
		Title: "Task Evaluation",
		Description: "The user explicitly assesses or critiques the quality, correctness, or completeness " +
			"of a solution, assignment, or work product (e.g. \"Ist diese Lösung richtig?\", " +
			"\"Habe ich die Aufgabe korrekt bearbeitet?\", \"Ist diese Antwort ausreichend?\"). " +
			"The user is asking for JUDGMENT or FEEDBACK on their own or another's work quality, " +
			"NOT asking how to improve or fix it.",
	},
	{
		Code:  "R.ES",
		Title: "Self Evaluation",
		Description: "The user reflects on their OWN UNDERSTANDING, LEARNING GAPS, or READINESS. They " +
			"question what they understand or don't understand (e.g. \"Ich verstehe das nicht\", " +
			"\"Was bedeutet das genau?\", \"Wo liegt mein Verständnislücke?\"). This is " +
			"META-COGNITIVE reflection, not a request to explain the concept itself.",
	},
	{
		Code:  CodeOther,
		Title: "Other",
		Description: "Only if the query clearly does NOT fit any of the above categories " +
			"(e.g. off-topic, meta-questions about the chatbot itself, greetings without substance).",
	},
}

// Default returns the built-in learning-intent taxonomy: twelve categories in
// five groups.
func Default() *Taxonomy {
	t, err := New(defaultGroups, defaultCategories)
	if err != nil {
		panic("taxonomy: invalid default taxonomy: " + err.Error())
	}
	return t
}
