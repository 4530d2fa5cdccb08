package parse

import (
	"strings"

	"github.com/loomi-hq/hr-service/constants"
)

// docTypeMarkers are literal phrases checked case-insensitively, in order;
// the first hit wins. Classification runs once per document, before field
// resolution, because the job-offer template changes how start/expiry
// dates are derived.
var docTypeMarkers = []struct {
	marker  string
	docType constants.DocType
}{
	{"EMPLOYMENT CONTRACT", constants.DocTypeEmploymentContract},
	{"JOB OFFER", constants.DocTypeJobOffer},
}

// DetectDocType labels the document from its full text.
func DetectDocType(text string) constants.DocType {
	upper := strings.ToUpper(text)
	for _, m := range docTypeMarkers {
		if strings.Contains(upper, m.marker) {
			return m.docType
		}
	}
	return constants.DocTypeUnknown
}
