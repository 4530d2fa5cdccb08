package parse

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/loomi-hq/hr-service/constants"
	"github.com/loomi-hq/hr-service/internal/textract"
)

type stubAcquirer struct {
	res textract.Result
	err error
}

func (s stubAcquirer) Acquire(context.Context, string) (textract.Result, error) {
	return s.res, s.err
}

type stubFallback struct {
	values map[constants.Field]string
	err    error
	asked  []constants.Field
}

func (s *stubFallback) ExtractMissing(_ context.Context, _ string, missing []constants.Field) (map[constants.Field]string, error) {
	s.asked = append([]constants.Field(nil), missing...)
	return s.values, s.err
}

func TestParseFullyMatchedContract(t *testing.T) {
	p := NewParser(stubAcquirer{res: textract.Result{Text: contractText}}, nil, nil)

	res, err := p.Parse(context.Background(), "contract.pdf")
	require.NoError(t, err)
	require.Equal(t, constants.DocTypeEmploymentContract, res.DocType)
	require.False(t, res.OCRUsed)

	require.Len(t, res.Fields, len(constants.AllFields()))
	require.Len(t, res.Scores, len(constants.AllFields()))
	require.Equal(t, 1.0, res.Confidence)

	require.NotNil(t, res.Fields[constants.FullName])
	require.Equal(t, "FRANK OKELLO OMONDI", *res.Fields[constants.FullName])
	require.Equal(t, "2024-03-15", *res.Fields[constants.ContractStartDate])
	require.Equal(t, "2026-03-14", *res.Fields[constants.ContractExpiryDate])
}

func TestParseConfidenceIsMinimumScore(t *testing.T) {
	// Only the name resolves; every other pattern field scores 0.0.
	p := NewParser(stubAcquirer{res: textract.Result{Text: "2. Name FRANK OKELLO"}}, nil, nil)

	res, err := p.Parse(context.Background(), "thin.pdf")
	require.NoError(t, err)
	require.Equal(t, constants.ScoreMatched, res.Scores[constants.FullName])
	require.Equal(t, constants.ScoreMissing, res.Scores[constants.PassportNumber])
	require.Equal(t, 0.0, res.Confidence)
}

func TestParseInsuranceStatusPolicy(t *testing.T) {
	p := NewParser(stubAcquirer{res: textract.Result{Text: contractText}}, nil, nil)

	res, err := p.Parse(context.Background(), "contract.pdf")
	require.NoError(t, err)

	// Always null at full score; it never drags confidence down and is
	// never requested from the fallback.
	require.Nil(t, res.Fields[constants.InsuranceStatus])
	require.Equal(t, constants.ScoreMatched, res.Scores[constants.InsuranceStatus])
	require.Equal(t, 1.0, res.Confidence)
}

func TestParsePropagatesAcquireError(t *testing.T) {
	p := NewParser(stubAcquirer{err: errors.New("unreadable")}, nil, nil)
	_, err := p.Parse(context.Background(), "broken.pdf")
	require.Error(t, err)
}

func TestParseCarriesOCRFlag(t *testing.T) {
	p := NewParser(stubAcquirer{res: textract.Result{Text: contractText, OCRUsed: true}}, nil, nil)
	res, err := p.Parse(context.Background(), "scan.pdf")
	require.NoError(t, err)
	require.True(t, res.OCRUsed)
}

func TestParseJobOfferDerivedDates(t *testing.T) {
	text := `JOB OFFER
Corresponding to = 01/01/2023
valid for a period of two years`
	p := NewParser(stubAcquirer{res: textract.Result{Text: text}}, nil, nil)

	res, err := p.Parse(context.Background(), "offer.pdf")
	require.NoError(t, err)
	require.Equal(t, constants.DocTypeJobOffer, res.DocType)

	require.Equal(t, "2023-01-01", *res.Fields[constants.ContractStartDate])
	require.Equal(t, constants.ScoreDerived, res.Scores[constants.ContractStartDate])
	require.Equal(t, "2025-01-01", *res.Fields[constants.ContractExpiryDate])
	require.Equal(t, constants.ScoreDerived, res.Scores[constants.ContractExpiryDate])
}

func TestParseDerivedDateNeverOverridesDirectMatch(t *testing.T) {
	text := `JOB OFFER
starting from 10/02/2023
Corresponding to = 01/01/2023
valid for a period of two years`
	p := NewParser(stubAcquirer{res: textract.Result{Text: text}}, nil, nil)

	res, err := p.Parse(context.Background(), "offer.pdf")
	require.NoError(t, err)

	require.Equal(t, "2023-02-10", *res.Fields[constants.ContractStartDate])
	require.Equal(t, constants.ScoreMatched, res.Scores[constants.ContractStartDate])
	// Expiry had no direct match, so the derived value still lands.
	require.Equal(t, "2025-01-01", *res.Fields[constants.ContractExpiryDate])
	require.Equal(t, constants.ScoreDerived, res.Scores[constants.ContractExpiryDate])
}

func TestParseFallbackFillsMissingFields(t *testing.T) {
	fb := &stubFallback{values: map[constants.Field]string{
		constants.JobTitle:    "Welder",
		constants.DateOfBirth: "31/13/2020", // malformed, must stay unresolved
	}}
	p := NewParser(stubAcquirer{res: textract.Result{Text: "2. Name FRANK OKELLO"}}, fb, nil)

	res, err := p.Parse(context.Background(), "thin.pdf")
	require.NoError(t, err)

	require.Equal(t, "Welder", *res.Fields[constants.JobTitle])
	require.Equal(t, constants.ScoreDerived, res.Scores[constants.JobTitle])

	require.Nil(t, res.Fields[constants.DateOfBirth])
	require.Equal(t, constants.ScoreMissing, res.Scores[constants.DateOfBirth])

	// Matched fields are never re-requested.
	require.NotContains(t, fb.asked, constants.FullName)
	require.NotContains(t, fb.asked, constants.InsuranceStatus)
	require.Contains(t, fb.asked, constants.JobTitle)
}

func TestParseFallbackFailureIsSoft(t *testing.T) {
	fb := &stubFallback{err: errors.New("rate limited")}
	p := NewParser(stubAcquirer{res: textract.Result{Text: "2. Name FRANK OKELLO"}}, fb, nil)

	res, err := p.Parse(context.Background(), "thin.pdf")
	require.NoError(t, err)
	require.Equal(t, constants.ScoreMissing, res.Scores[constants.JobTitle])
	require.Equal(t, 0.0, res.Confidence)
}

func TestParseFallbackSkippedWhenNothingMissing(t *testing.T) {
	fb := &stubFallback{}
	p := NewParser(stubAcquirer{res: textract.Result{Text: contractText}}, fb, nil)

	_, err := p.Parse(context.Background(), "contract.pdf")
	require.NoError(t, err)
	require.Empty(t, fb.asked)
}

func TestParseTextIsDeterministic(t *testing.T) {
	p := NewParser(nil, nil, nil)
	a := p.ParseText(context.Background(), contractText)
	b := p.ParseText(context.Background(), contractText)
	require.Equal(t, a.Fields, b.Fields)
	require.Equal(t, a.Scores, b.Scores)
	require.Equal(t, a.Confidence, b.Confidence)
}
