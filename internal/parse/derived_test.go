package parse

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDeriveOfferDates(t *testing.T) {
	text := `JOB OFFER
Date: 18/06/1444 Corresponding to = 01/01/2023
This offer is valid for a period of two years from the date of signing.`

	start, expiry := DeriveOfferDates(text)
	require.Equal(t, "2023-01-01", start)
	require.Equal(t, "2025-01-01", expiry)
}

func TestDeriveOfferDatesDigitDuration(t *testing.T) {
	start, expiry := DeriveOfferDates("Corresponding to = 15/07/2024 for a period of 3 years")
	require.Equal(t, "2024-07-15", start)
	require.Equal(t, "2027-07-15", expiry)
}

func TestDeriveOfferDatesColonSeparator(t *testing.T) {
	start, expiry := DeriveOfferDates("Corresponding to : 01/06/2023 for a period of one year")
	require.Equal(t, "2023-06-01", start)
	require.Equal(t, "2024-06-01", expiry)
}

func TestDeriveOfferDatesLeapDayClamped(t *testing.T) {
	start, expiry := DeriveOfferDates("Corresponding to = 29/02/2024 for a period of one year")
	require.Equal(t, "2024-02-29", start)
	require.Equal(t, "2025-02-28", expiry)
}

func TestDeriveOfferDatesNoDuration(t *testing.T) {
	start, expiry := DeriveOfferDates("Corresponding to = 01/01/2023 with no term stated")
	require.Equal(t, "2023-01-01", start)
	require.Empty(t, expiry)
}

func TestDeriveOfferDatesNoSigningDate(t *testing.T) {
	start, expiry := DeriveOfferDates("for a period of two years")
	require.Empty(t, start)
	require.Empty(t, expiry)
}
