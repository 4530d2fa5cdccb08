package parse

import (
	"strconv"
	"strings"
	"time"

	"github.com/loomi-hq/hr-service/constants"
)

const (
	sourceDateLayout = "02/01/2006"
	isoDateLayout    = "2006-01-02"
)

// coerce validates and normalizes a raw capture for a field's declared
// type: dates become ISO-8601, decimals a canonical number string, free
// text is trimmed. An error means the capture must be skipped, not that
// the field failed.
func coerce(field constants.Field, raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	switch {
	case field.IsDate():
		t, err := time.Parse(sourceDateLayout, raw)
		if err != nil {
			return "", err
		}
		return t.Format(isoDateLayout), nil
	case field.IsDecimal():
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return "", err
		}
		return strconv.FormatFloat(f, 'f', -1, 64), nil
	default:
		return raw, nil
	}
}

// MatchField resolves one field from the full document text.
//
// Rules run in declaration order; within a rule, every occurrence in the
// text is tried in document order. A capture that fails typed coercion
// (malformed date, non-numeric salary) is skipped and matching continues;
// scanned pages regularly produce a garbled value before the real one.
// The first capture that coerces wins at ScoreMatched; exhausting all
// rules resolves to (nil, ScoreMissing).
func MatchField(field constants.Field, text string) (*string, constants.Score) {
	for _, rule := range patternTable[field] {
		for _, m := range rule.compiled().FindAllStringSubmatch(text, -1) {
			value, err := coerce(field, m[1])
			if err != nil {
				continue
			}
			return &value, constants.ScoreMatched
		}
	}
	return nil, constants.ScoreMissing
}
