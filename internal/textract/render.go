package textract

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

// renderPage rasterizes one PDF page to a PNG in a fresh temp dir.
// Returns the image path and a cleanup func that removes the temp dir.
func (a *Acquirer) renderPage(ctx context.Context, path string, page int) (string, func(), error) {
	tmpDir, err := os.MkdirTemp("", "hr-pp-*")
	if err != nil {
		return "", nil, err
	}
	cleanup := func() { _ = os.RemoveAll(tmpDir) }

	prefix := filepath.Join(tmpDir, "page")
	// pdftoppm -f N -l N -r <dpi> -png <in.pdf> <tmp/page>
	_, errb, err := a.runner.Run(ctx, a.cfg.Pdftoppm,
		"-f", fmt.Sprintf("%d", page),
		"-l", fmt.Sprintf("%d", page),
		"-r", fmt.Sprintf("%d", a.cfg.DPI),
		"-png", path, prefix)
	if err != nil {
		return "", cleanup, fmt.Errorf("pdftoppm: %w (%s)", err, truncate(string(errb), 512))
	}

	matches, _ := filepath.Glob(prefix + "-*.png")
	sort.Strings(matches)
	if len(matches) == 0 {
		return "", cleanup, fmt.Errorf("pdftoppm produced no image for page %d", page)
	}
	return matches[0], cleanup, nil
}
