package parse

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// The job-offer template does not state explicit start/expiry dates; it
// states a signing date ("Corresponding to = DD/MM/YYYY") and a duration
// clause. Start is taken as the signing date and expiry computed from the
// duration. Both are derived rather than literal contract language, so
// they score ScoreDerived, and this must run before the external-model
// fallback, because the model tends to echo the signing date as the expiry.

var signingDatePatterns = []*regexp.Regexp{
	// OCR may merge the words or swap "=" for ":".
	regexp.MustCompile(`(?i)Corresponding\s*to\s*[=:]?\s*(\d{2}/\d{2}/\d{4})`),
}

var durationPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)for\s+a\s+period\s+of\s+(\d+)\s+[Yy]ear`),
	regexp.MustCompile(`(?i)for\s+a\s+period\s+of\s+(one|two|three|four|five)\s+[Yy]ear`),
}

var yearWords = map[string]int{
	"one": 1, "two": 2, "three": 3, "four": 4, "five": 5,
}

// DeriveOfferDates extracts (startISO, expiryISO) from job-offer text.
// Either may be empty: no signing date means neither can be derived; a
// signing date without a duration yields only the start.
func DeriveOfferDates(text string) (string, string) {
	var start time.Time
	found := false
	for _, re := range signingDatePatterns {
		m := re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		t, err := time.Parse(sourceDateLayout, m[1])
		if err != nil {
			continue
		}
		start, found = t, true
		break
	}
	if !found {
		return "", ""
	}
	startISO := start.Format(isoDateLayout)

	years := 0
	for _, re := range durationPatterns {
		m := re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		raw := strings.ToLower(m[1])
		if n, ok := yearWords[raw]; ok {
			years = n
		} else if n, err := strconv.Atoi(raw); err == nil {
			years = n
		}
		if years > 0 {
			break
		}
	}
	if years == 0 {
		return startISO, ""
	}

	return startISO, addYears(start, years).Format(isoDateLayout)
}

// addYears advances by whole years, clamping Feb-29 to Feb-28 when the
// target year is not a leap year.
func addYears(t time.Time, years int) time.Time {
	out := time.Date(t.Year()+years, t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	if out.Month() != t.Month() {
		out = time.Date(t.Year()+years, t.Month(), 28, 0, 0, 0, 0, time.UTC)
	}
	return out
}
