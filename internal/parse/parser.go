// Package parse resolves employee fields from contract document text with
// a tiered confidence score per field: 1.0 for a deterministic pattern
// match, 0.85 for derived or model-extracted values, 0.0 for unresolved.
// Low confidence is signaled data, never an error: a document the
// acquirer could read always yields a Result.
package parse

import (
	"context"
	"log/slog"

	"github.com/loomi-hq/hr-service/constants"
	"github.com/loomi-hq/hr-service/internal/textract"
)

// Acquirer is the text-acquisition stage (stage 1: file -> text).
type Acquirer interface {
	Acquire(ctx context.Context, path string) (textract.Result, error)
}

// Fallback batches unresolved fields into one external-model request and
// returns raw values keyed by field; absent keys stay unresolved. Values
// are re-typed here exactly like pattern captures. Implementations must
// treat their own failures as soft: no usable response means an empty map.
type Fallback interface {
	ExtractMissing(ctx context.Context, text string, missing []constants.Field) (map[constants.Field]string, error)
}

// Parser runs the full extraction sequence for one document. Each call is
// self-contained; parsers are safe for concurrent use across documents.
type Parser struct {
	acquirer Acquirer
	fallback Fallback // nil disables the external-model stage
	logger   *slog.Logger
}

func NewParser(acquirer Acquirer, fallback Fallback, logger *slog.Logger) *Parser {
	if logger == nil {
		logger = slog.Default()
	}
	return &Parser{acquirer: acquirer, fallback: fallback, logger: logger}
}

// Parse extracts a full Result from the document at path. The only hard
// error is an unreadable input file; everything downstream degrades to
// per-field zero scores instead of failing.
func (p *Parser) Parse(ctx context.Context, path string) (Result, error) {
	acq, err := p.acquirer.Acquire(ctx, path)
	if err != nil {
		return Result{}, err
	}
	res := p.ParseText(ctx, acq.Text)
	res.OCRUsed = acq.OCRUsed
	return res, nil
}

// ParseText runs field resolution over already-acquired text. Split out so
// the deterministic stages can be exercised without documents; it is a pure
// function of the text apart from the external fallback.
func (p *Parser) ParseText(ctx context.Context, text string) Result {
	fields := make(map[constants.Field]*string, len(constants.AllFields()))
	scores := make(map[constants.Field]constants.Score, len(constants.AllFields()))

	for _, f := range patternFields() {
		fields[f], scores[f] = MatchField(f, text)
	}

	docType := DetectDocType(text)

	// Job offer: derive start/expiry before the model fallback so the
	// model cannot echo the signing date as the expiry. Fields a direct
	// rule already resolved are never overwritten.
	if docType == constants.DocTypeJobOffer {
		startISO, expiryISO := DeriveOfferDates(text)
		if startISO != "" && scores[constants.ContractStartDate] == constants.ScoreMissing {
			v := startISO
			fields[constants.ContractStartDate] = &v
			scores[constants.ContractStartDate] = constants.ScoreDerived
		}
		if expiryISO != "" && scores[constants.ContractExpiryDate] == constants.ScoreMissing {
			v := expiryISO
			fields[constants.ContractExpiryDate] = &v
			scores[constants.ContractExpiryDate] = constants.ScoreDerived
		}
	}

	if missing := missingFields(scores); len(missing) > 0 && p.fallback != nil {
		p.resolveMissing(ctx, text, missing, fields, scores)
	}

	// insurance_status comes from the benefits document; scored 1.0 by
	// policy so its absence never drags document confidence down.
	fields[constants.InsuranceStatus] = nil
	scores[constants.InsuranceStatus] = constants.ScoreMatched

	return Result{
		Fields:     fields,
		Scores:     scores,
		Confidence: aggregateConfidence(scores),
		DocType:    docType,
	}
}

// resolveMissing merges external-model values for still-unresolved fields.
// Model output is untrusted: every value is re-typed like a pattern
// capture, and anything that fails stays at (nil, 0.0). Model values score
// ScoreDerived, never ScoreMatched.
func (p *Parser) resolveMissing(ctx context.Context, text string, missing []constants.Field, fields map[constants.Field]*string, scores map[constants.Field]constants.Score) {
	values, err := p.fallback.ExtractMissing(ctx, text, missing)
	if err != nil {
		// Soft failure: the document proceeds with its gaps.
		p.logger.Warn("parse.fallback.failed", "missing", len(missing), "error", err)
		return
	}
	for _, f := range missing {
		raw, ok := values[f]
		if !ok {
			continue
		}
		value, err := coerce(f, raw)
		if err != nil {
			p.logger.Warn("parse.fallback.bad_value", "field", string(f), "error", err)
			continue
		}
		fields[f] = &value
		scores[f] = constants.ScoreDerived
	}
}
