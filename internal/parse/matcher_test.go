package parse

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/loomi-hq/hr-service/constants"
)

const contractText = `EMPLOYMENT CONTRACT
Transaction Number MB198230492817
2. Name FRANK OKELLO OMONDI
Nationality UGANDAN of 05/08/1999
Passport Number A00580269
The Second Party shall work in the profession of Launderer in the UAE
Basic Salary: 1500 AED
Total Salary: 2500.00 AED
starting from 15/03/2024 and valid until 14/03/2026
`

func TestMatchFieldDirectHits(t *testing.T) {
	cases := []struct {
		field constants.Field
		want  string
	}{
		{constants.FullName, "FRANK OKELLO OMONDI"},
		{constants.Nationality, "UGANDAN"},
		{constants.DateOfBirth, "1999-08-05"},
		{constants.PassportNumber, "A00580269"},
		{constants.JobTitle, "Launderer"},
		{constants.BaseSalary, "1500"},
		{constants.TotalSalary, "2500"},
		{constants.ContractStartDate, "2024-03-15"},
		{constants.ContractExpiryDate, "2026-03-14"},
		{constants.MohreTransactionNo, "MB198230492817"},
	}
	for _, tc := range cases {
		t.Run(string(tc.field), func(t *testing.T) {
			value, score := MatchField(tc.field, contractText)
			require.NotNil(t, value)
			require.Equal(t, tc.want, *value)
			require.Equal(t, constants.ScoreMatched, score)
		})
	}
}

func TestMatchFieldNoMatch(t *testing.T) {
	value, score := MatchField(constants.PassportNumber, "nothing useful here")
	require.Nil(t, value)
	require.Equal(t, constants.ScoreMissing, score)
}

// A scanned page can produce a garbled date before the real one. Every
// occurrence of a rule is tried in document order, so the invalid capture
// is skipped rather than failing the field.
func TestMatchFieldSkipsGarbledDate(t *testing.T) {
	text := "Date of Birth 99/11/1999\nsome noise\nDate of Birth 05/08/1999"
	value, score := MatchField(constants.DateOfBirth, text)
	require.NotNil(t, value)
	require.Equal(t, "1999-08-05", *value)
	require.Equal(t, constants.ScoreMatched, score)
}

func TestMatchFieldGarbledOnly(t *testing.T) {
	value, score := MatchField(constants.DateOfBirth, "Date of Birth 99/99/1999")
	require.Nil(t, value)
	require.Equal(t, constants.ScoreMissing, score)
}

func TestCoerceDecimalCanonical(t *testing.T) {
	got, err := coerce(constants.TotalSalary, " 2500.00 ")
	require.NoError(t, err)
	require.Equal(t, "2500", got)

	got, err = coerce(constants.BaseSalary, "1537.50")
	require.NoError(t, err)
	require.Equal(t, "1537.5", got)

	_, err = coerce(constants.BaseSalary, "AED")
	require.Error(t, err)
}

func TestCoerceDateToISO(t *testing.T) {
	got, err := coerce(constants.ContractStartDate, "05/08/1999")
	require.NoError(t, err)
	require.Equal(t, "1999-08-05", got)

	_, err = coerce(constants.ContractStartDate, "31/13/2020")
	require.Error(t, err)
}

// Arabic column reordering puts the passport value before "Telephone";
// the fallback rule has to recover it when the labeled form is absent.
func TestMatchFieldPassportBeforeTelephone(t *testing.T) {
	value, score := MatchField(constants.PassportNumber, "details P10474550 Telephone 0501234567")
	require.NotNil(t, value)
	require.Equal(t, "P10474550", *value)
	require.Equal(t, constants.ScoreMatched, score)
}

func TestEveryRuleHasOneCaptureGroup(t *testing.T) {
	for _, f := range constants.AllFields() {
		for i, rule := range RulesFor(f) {
			require.Equalf(t, 1, rule.compiled().NumSubexp(),
				"field %s rule %d must have exactly one capture group", f, i)
		}
	}
}

func TestInsuranceStatusHasNoRules(t *testing.T) {
	require.Empty(t, RulesFor(constants.InsuranceStatus))
}
