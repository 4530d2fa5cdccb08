package parse

import (
	"regexp"

	"github.com/loomi-hq/hr-service/constants"
)

// Mode selects how a rule's pattern is compiled.
type Mode int

const (
	// ModeLine is case-insensitive matching within normal regex line
	// semantics.
	ModeLine Mode = iota
	// ModeCrossLine additionally lets `.` span newlines, for values the
	// bilingual layout scatters across lines with Arabic text between.
	ModeCrossLine
)

// MatchRule is one declarative extraction rule: a pattern with exactly one
// capture group, plus the compile mode. Rules for a field are tried in
// declaration order; within a rule every occurrence in the text is tried in
// document order before falling through to the next rule, because noisy OCR
// output can contain a garbled early match followed by the real value.
type MatchRule struct {
	Pattern string
	Mode    Mode

	re *regexp.Regexp
}

func (r *MatchRule) compiled() *regexp.Regexp {
	return r.re
}

// patternTable maps each field to its ordered rule list. This is data, not
// control flow: the matcher is identical for every field, and a new layout
// quirk is handled by appending a rule here.
//
// insurance_status has no rules on purpose; it comes from the benefits
// document, not the contract.
var patternTable = map[constants.Field][]MatchRule{
	constants.FullName: {
		// "2. Name FRANK ..." or "2 Name\nFRANK ..." (OCR may drop the dot).
		// [A-Z ]+ stops at newlines and Arabic characters naturally.
		{Pattern: `2\.?\s*Name\s+([A-Z][A-Z ]+)`},
	},
	constants.Nationality: {
		// "2. Name\n[NAME]\nNationality\n[COUNTRY]": anchoring to the
		// employee section avoids the employer's "Nationality EMIRATES".
		{Pattern: `2\.?\s*Name\s+[A-Z][A-Z ]+\s+Nationality\s+([A-Z]+)`},
		// Employee nationality right before their DOB on the same line,
		// e.g. "Nationality PAKISTAN of 05/08/1999"; the employer line
		// never carries "of [date]".
		{Pattern: `Nationality\s+([A-Z]+)\s+of\s+\d{2}/\d{2}/\d{4}`},
		// OCR layout: employer nationality precedes the "First Party /
		// Employer" marker, employee nationality follows it. Lazy
		// cross-line match skips the OCR noise between them.
		{Pattern: `First Party.+?Nationality\s*([A-Z]+)`, Mode: ModeCrossLine},
	},
	constants.DateOfBirth: {
		{Pattern: `Date\s+of\s+Birth\s+(\d{2}/\d{2}/\d{4})`},
		// Value immediately after a bare "Date" label.
		{Pattern: `\bDate\b\s+(\d{2}/\d{2}/\d{4})`},
		// DOB embedded in the nationality line.
		{Pattern: `Nationality\s+[A-Z]+\s+of\s+(\d{2}/\d{2}/\d{4})`},
		// Scanned pages sometimes yield a garbled day ("99/11/1999")
		// before the real date; skip the first and capture the second.
		{Pattern: `(?:Date|Daret)[^\d]+\d{2}/\d{2}/\d{4}[^\d]+(\d{2}/\d{2}/\d{4})`},
		// Any DOB-adjacent label ("Daret", "Birt") followed by one date.
		{Pattern: `(?:Date|Daret|Birth|Birt)[^\d]+(\d{2}/\d{2}/\d{4})`},
	},
	constants.PassportNumber: {
		// "Passport Number\nA00580269", OCR also drops the space
		// ("PassportNumber P10474550"). The employer block uses
		// "Passport No"; "Passport Number" is employee-only.
		{Pattern: `Passport\s*Number\s+([A-Z][0-9A-Z]{5,})`},
		// Arabic column reordering: passport value precedes "Telephone".
		{Pattern: `([A-Z][0-9A-Z]{5,})\s+Telephone`},
	},
	constants.JobTitle: {
		// "profession of Launderer\nin the UAE"; OCR can drop the space
		// before "in", hence \s* and the lazy capture.
		{Pattern: `profession of\s+(.+?)\s*in the UAE`, Mode: ModeCrossLine},
	},
	constants.BaseSalary: {
		{Pattern: `Basic Salary:\s*(\d+(?:\.\d+)?)\s*AED`},
	},
	constants.TotalSalary: {
		{Pattern: `Total Salary:\s*(\d+(?:\.\d+)?)\s*AED`},
	},
	constants.ContractStartDate: {
		{Pattern: `starting from\s+(\d{2}/\d{2}/\d{4})`},
		{Pattern: `commenc(?:ing|es?)\s+(?:on|from)\s+(\d{2}/\d{2}/\d{4})`},
		{Pattern: `effective\s+(?:from|on|date)\s+(\d{2}/\d{2}/\d{4})`},
		{Pattern: `from\s+(\d{2}/\d{2}/\d{4})\s+(?:to|until|and\s+ending)`},
		{Pattern: `Start\s*Date[\s:]+(\d{2}/\d{2}/\d{4})`},
		// Arabic text may sit between "term" and the date.
		{Pattern: `term\b.{0,80}?\bfrom\s+(\d{2}/\d{2}/\d{4})`, Mode: ModeCrossLine},
	},
	constants.ContractExpiryDate: {
		// [^\d]* absorbs Arabic between the label and the date.
		{Pattern: `ending on[^\d]*(\d{2}/\d{2}/\d{4})`},
		{Pattern: `expir(?:ing|es?|y\s*date)\s*(?:on|at|from|:)?\s*(\d{2}/\d{2}/\d{4})`},
		{Pattern: `(?:until|up\s+to|through|till)\s+(\d{2}/\d{2}/\d{4})`},
		// "from DD/MM/YYYY to DD/MM/YYYY": capture the second date.
		{Pattern: `from\s+\d{2}/\d{2}/\d{4}\s+(?:to|until|and\s+ending\s+on)\s+(\d{2}/\d{2}/\d{4})`},
		{Pattern: `End(?:ing)?\s*Date[\s:]+(\d{2}/\d{2}/\d{4})`},
		{Pattern: `valid\s+(?:until|till)\s+(\d{2}/\d{2}/\d{4})`},
		{Pattern: `term\b.{0,80}?\bending\s+(?:on\s+)?(\d{2}/\d{2}/\d{4})`, Mode: ModeCrossLine},
	},
	constants.MohreTransactionNo: {
		{Pattern: `Transaction Number\s+([A-Z0-9]+)`},
		// Arabic sits between the label and the value across a newline.
		{Pattern: `Transaction Number[^\n]*\n([A-Z0-9]+)`},
	},
}

func init() {
	for field, rules := range patternTable {
		for i := range rules {
			prefix := "(?i)"
			if rules[i].Mode == ModeCrossLine {
				prefix = "(?is)"
			}
			rules[i].re = regexp.MustCompile(prefix + rules[i].Pattern)
		}
		patternTable[field] = rules
	}
}

// RulesFor exposes a field's rule list for rule-authorship tests.
func RulesFor(f constants.Field) []MatchRule {
	return patternTable[f]
}

// patternFields iterates fields that have rules, in canonical order.
func patternFields() []constants.Field {
	out := make([]constants.Field, 0, len(patternTable))
	for _, f := range constants.AllFields() {
		if _, ok := patternTable[f]; ok {
			out = append(out, f)
		}
	}
	return out
}
