package textract

import (
	"log/slog"
	"os/exec"
)

// Capabilities records which extraction engines are usable. Resolved once
// at startup; every stage of the fallback chain checks its flag and skips
// silently when absent, so a stripped-down install still produces a result
// (with empty text in the worst case) instead of failing.
type Capabilities struct {
	// PDFNative is the in-process PDF text extractor; always present.
	PDFNative bool
	// Pdftotext is the secondary structured-text extractor binary.
	Pdftotext bool
	// Pdftoppm renders PDF pages to images for the OCR stages.
	Pdftoppm bool
	// InProcessOCR is the linked tesseract engine.
	InProcessOCR bool
	// TesseractExec is the legacy standalone OCR binary.
	TesseractExec bool
}

// DetectCapabilities probes the configured binaries on PATH.
func DetectCapabilities(cfg Config, logger *slog.Logger) Capabilities {
	if logger == nil {
		logger = slog.Default()
	}
	caps := Capabilities{
		PDFNative:    true,
		InProcessOCR: cfg.InProcessOCR,
	}
	if _, err := exec.LookPath(cfg.Pdftotext); err == nil {
		caps.Pdftotext = true
	}
	if _, err := exec.LookPath(cfg.Pdftoppm); err == nil {
		caps.Pdftoppm = true
	}
	if _, err := exec.LookPath(cfg.Tesseract); err == nil {
		caps.TesseractExec = true
	}
	logger.Info("textract.capabilities",
		"pdftotext", caps.Pdftotext,
		"pdftoppm", caps.Pdftoppm,
		"in_process_ocr", caps.InProcessOCR,
		"tesseract_exec", caps.TesseractExec,
	)
	return caps
}

// OCRAvailable reports whether any OCR path can run for a rendered page.
func (c Capabilities) OCRAvailable() bool {
	return c.InProcessOCR || c.TesseractExec
}
