// Package textract turns contract documents (PDF bytes or a single raster
// image) into plain text. Extraction escalates per page:
//
//  1. in-process PDF text (clean Arabic/English separation on text-native files)
//  2. pdftotext binary (handles some bilingual column layouts the native
//     extractor garbles)
//  3. in-process tesseract OCR over the rendered page image
//  4. legacy standalone tesseract call over the same image
//
// Any page reaching OCR marks the whole document as OCR-derived. Missing
// engines are skipped; with nothing installed the acquirer returns empty
// text rather than an error so extraction can degrade to zero confidence.
package textract

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/loomi-hq/hr-service/constants"
	"github.com/loomi-hq/hr-service/internal/common"
)

type Config struct {
	Pdftotext   string // binary name or absolute path; if empty -> "pdftotext"
	Pdftoppm    string // binary name or absolute path; if empty -> "pdftoppm"
	Tesseract   string // binary name or absolute path; if empty -> "tesseract"
	TessdataDir string
	Language    string // default "eng"
	DPI         int    // rasterization DPI for scanned pages, default 300

	// MinTextChars: pages with less extracted text than this are treated
	// as scanned and escalated.
	MinTextChars int
	InProcessOCR bool
}

type Result struct {
	Text     string
	OCRUsed  bool
	Pages    int
	Duration time.Duration
}

type Acquirer struct {
	cfg    Config
	caps   Capabilities
	runner Runner
	engine ImageOCR
	logger *slog.Logger
}

func NewAcquirer(cfg Config, logger *slog.Logger) *Acquirer {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Pdftotext == "" {
		cfg.Pdftotext = "pdftotext"
	}
	if cfg.Pdftoppm == "" {
		cfg.Pdftoppm = "pdftoppm"
	}
	if cfg.Tesseract == "" {
		cfg.Tesseract = "tesseract"
	}
	if cfg.Language == "" {
		cfg.Language = "eng"
	}
	if cfg.DPI <= 0 {
		cfg.DPI = 300
	}
	if cfg.MinTextChars <= 0 {
		cfg.MinTextChars = 100
	}
	a := &Acquirer{
		cfg:    cfg,
		caps:   DetectCapabilities(cfg, logger),
		runner: execRunner{},
		logger: logger,
	}
	if cfg.InProcessOCR {
		a.engine = NewGosseractOCR(cfg.Language, cfg.TessdataDir)
	}
	return a
}

// Acquire extracts the full document text, picking a strategy by extension.
func (a *Acquirer) Acquire(ctx context.Context, path string) (Result, error) {
	start := time.Now()
	ext := constants.NormalizeExt(filepath.Ext(path))

	var res Result
	var err error
	switch constants.MapExtToFormat(ext) {
	case constants.PDF:
		res, err = a.acquirePDF(ctx, path)
	case constants.IMAGE:
		res, err = a.acquireImage(ctx, path)
	default:
		return Result{}, common.NewAppError("UNSUPPORTED_EXT",
			fmt.Sprintf("unsupported extension %q", ext), common.ErrInvalidInput)
	}
	res.Duration = time.Since(start)
	if err != nil {
		return res, err
	}

	a.logger.Info("textract.acquire.ok",
		"path", path,
		"pages", res.Pages,
		"text_bytes", len(res.Text),
		"ocr_used", res.OCRUsed,
		"elapsed_ms", res.Duration.Milliseconds(),
	)
	return res, nil
}

func (a *Acquirer) acquirePDF(ctx context.Context, path string) (Result, error) {
	native, err := nativePages(path)
	if err != nil {
		// The only hard failure in the pipeline: the bytes are not a PDF.
		return Result{}, common.WrapError(common.ErrUnreadableDocument, err.Error())
	}

	var ocrUsed bool
	pages := make([]string, 0, len(native))
	for i, pageText := range native {
		pageNum := i + 1
		if pageFilled(pageText, a.cfg.MinTextChars) {
			pages = append(pages, pageText)
			continue
		}

		// Too little native text: try the secondary extractor.
		if a.caps.Pdftotext {
			alt, err := a.pdftotextPage(ctx, path, pageNum)
			if err == nil && pageFilled(alt, a.cfg.MinTextChars) {
				pages = append(pages, alt)
				continue
			}
		}

		// Both structured extractors came up short: the page is scanned.
		// With no OCR available the page contributes empty text; partial
		// extraction is the design, not an error.
		txt, usedOCR := a.ocrPage(ctx, path, pageNum)
		if usedOCR {
			ocrUsed = true
		}
		pages = append(pages, txt)
	}

	return Result{
		Text:    strings.Join(pages, "\n"),
		OCRUsed: ocrUsed,
		Pages:   len(pages),
	}, nil
}

// ocrPage renders one page and runs the OCR chain over it. Rendering
// artifacts are removed before return.
func (a *Acquirer) ocrPage(ctx context.Context, path string, pageNum int) (string, bool) {
	if !a.caps.Pdftoppm || !a.caps.OCRAvailable() {
		return "", false
	}
	img, cleanup, err := a.renderPage(ctx, path, pageNum)
	if cleanup != nil {
		defer cleanup()
	}
	if err != nil {
		a.logger.Warn("textract.render.failed", "path", path, "page", pageNum, "error", err)
		return "", false
	}
	return a.ocrImage(ctx, img)
}

func (a *Acquirer) acquireImage(ctx context.Context, path string) (Result, error) {
	if !a.caps.OCRAvailable() {
		return Result{Pages: 1}, nil
	}
	txt, ran := a.ocrImage(ctx, path)
	return Result{Text: txt, OCRUsed: ran, Pages: 1}, nil
}
