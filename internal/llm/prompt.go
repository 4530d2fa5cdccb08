package llm

import (
	"strings"

	"github.com/loomi-hq/hr-service/constants"
)

// BuildPrompt assembles the single batched user prompt for one document.
// The model is told to answer in source-document formats (DD/MM/YYYY, bare
// numbers); typed normalization happens on our side so model output goes
// through the same coercion as a regex capture. Contract text is truncated
// to maxTextLen: the fields all appear on page one, and the tail of a long
// contract is boilerplate clauses.
func BuildPrompt(text string, missing []constants.Field, maxTextLen int) string {
	var defs strings.Builder
	for _, f := range missing {
		defs.WriteString("- ")
		defs.WriteString(string(f))
		defs.WriteString(": ")
		defs.WriteString(fieldDefs[f])
		defs.WriteString("\n")
	}

	if maxTextLen > 0 && len(text) > maxTextLen {
		text = text[:maxTextLen]
	}

	var b strings.Builder
	b.WriteString("Extract the following fields from this UAE MOHRE employment contract text.\n")
	b.WriteString("Return a JSON object with exactly these keys. Use null for any field not found.\n")
	b.WriteString("For dates use DD/MM/YYYY format. For salaries return numbers only.\n\n")
	b.WriteString("Fields to extract:\n")
	b.WriteString(defs.String())
	b.WriteString("\nContract text:\n")
	b.WriteString(text)
	return b.String()
}
