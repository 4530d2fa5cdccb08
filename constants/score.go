package constants

// Score is the per-field confidence tier. The set is closed on purpose:
// downstream review queues compare against ReviewThreshold, and a value
// outside the tier set would silently shift that policy.
type Score float64

const (
	// ScoreMatched means a deterministic pattern rule produced the value.
	ScoreMatched Score = 1.0
	// ScoreDerived means the value was computed or model-extracted and
	// should be spot-checked.
	ScoreDerived Score = 0.85
	// ScoreMissing means no value could be resolved.
	ScoreMissing Score = 0.0
)

// ReviewThreshold routes fields scored below it (insurance_status excepted)
// to the exception queue.
const ReviewThreshold = 0.95
