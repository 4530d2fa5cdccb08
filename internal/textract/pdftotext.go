package textract

import (
	"context"
	"fmt"
)

// pdftotextPage extracts one page via the pdftotext binary. Different
// extractors split bilingual column layouts differently, so this is worth
// trying even when the native pass already produced some text.
func (a *Acquirer) pdftotextPage(ctx context.Context, path string, page int) (string, error) {
	// pdftotext -f N -l N -layout -enc UTF-8 -eol unix <path> -
	out, errb, err := a.runner.Run(ctx, a.cfg.Pdftotext,
		"-f", fmt.Sprintf("%d", page),
		"-l", fmt.Sprintf("%d", page),
		"-layout", "-enc", "UTF-8", "-eol", "unix",
		path, "-")
	if err != nil {
		return "", fmt.Errorf("pdftotext: %w (%s)", err, truncate(string(errb), 512))
	}
	return string(out), nil
}
