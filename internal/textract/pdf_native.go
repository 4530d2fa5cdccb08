package textract

import (
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
)

// nativePages extracts per-page text from a text-native PDF in process.
// A page that fails to decode contributes an empty string; only a file
// that cannot be opened at all is an error.
func nativePages(path string) ([]string, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open pdf: %w", err)
	}
	defer func() { _ = f.Close() }()

	n := r.NumPage()
	pages := make([]string, 0, n)
	for i := 1; i <= n; i++ {
		p := r.Page(i)
		if p.V.IsNull() {
			pages = append(pages, "")
			continue
		}
		txt, err := p.GetPlainText(nil)
		if err != nil {
			pages = append(pages, "")
			continue
		}
		pages = append(pages, txt)
	}
	return pages, nil
}

// pageFilled reports whether extracted page text meets the minimum
// character threshold for trusting it over the next engine.
func pageFilled(text string, minChars int) bool {
	return len(strings.TrimSpace(text)) >= minChars
}
