package parse

import (
	"github.com/loomi-hq/hr-service/constants"
)

// Result is the extraction output for one document. It is created fresh
// per document and never mutated after Parse returns; the storage layer
// reads it exactly once.
type Result struct {
	// Fields holds every enumerated field; nil means unresolved. Dates are
	// ISO-8601, salaries canonical decimal strings.
	Fields map[constants.Field]*string
	// Scores holds the confidence tier for every field.
	Scores map[constants.Field]constants.Score
	// Confidence is the minimum score across all fields except
	// insurance_status, which is always absent here and populated from a
	// separate benefits document.
	Confidence float64
	OCRUsed    bool
	DocType    constants.DocType
}

// aggregateConfidence computes the document confidence from per-field
// scores, skipping insurance_status.
func aggregateConfidence(scores map[constants.Field]constants.Score) float64 {
	min := 1.0
	for f, s := range scores {
		if f == constants.InsuranceStatus {
			continue
		}
		if float64(s) < min {
			min = float64(s)
		}
	}
	return min
}

// missingFields returns fields still unresolved, in canonical order,
// excluding insurance_status (never pattern-matched or model-requested).
func missingFields(scores map[constants.Field]constants.Score) []constants.Field {
	var out []constants.Field
	for _, f := range patternFields() {
		if scores[f] == constants.ScoreMissing {
			out = append(out, f)
		}
	}
	return out
}
