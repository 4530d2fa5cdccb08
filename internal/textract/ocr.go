package textract

import (
	"context"
	"fmt"
	"strings"

	"github.com/otiai10/gosseract/v2"
)

// tessdataCandidates are tried in order after the engine default. Data
// files move between distro packagings, so a plain install often needs one
// of these.
var tessdataCandidates = []string{
	"/usr/share/tesseract-ocr/5/tessdata",
	"/usr/share/tesseract-ocr/4.00/tessdata",
	"/usr/local/share/tessdata",
}

// ImageOCR recognizes text in a single raster image. The engine default
// configuration is tried first, then each known tessdata location; the
// first configuration that yields non-empty text wins.
type ImageOCR interface {
	Recognize(ctx context.Context, imagePath string) (string, error)
}

type gosseractOCR struct {
	lang        string
	tessdataDir string
}

// NewGosseractOCR returns the linked-tesseract engine.
func NewGosseractOCR(lang, tessdataDir string) ImageOCR {
	if lang == "" {
		lang = "eng"
	}
	return &gosseractOCR{lang: lang, tessdataDir: tessdataDir}
}

func (g *gosseractOCR) Recognize(ctx context.Context, imagePath string) (string, error) {
	prefixes := []string{""}
	if g.tessdataDir != "" {
		prefixes = append(prefixes, g.tessdataDir)
	}
	prefixes = append(prefixes, tessdataCandidates...)

	var lastErr error
	for _, prefix := range prefixes {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		txt, err := g.recognizeWith(imagePath, prefix)
		if err != nil {
			lastErr = err
			continue
		}
		if strings.TrimSpace(txt) != "" {
			return txt, nil
		}
	}
	if lastErr != nil {
		return "", fmt.Errorf("gosseract: %w", lastErr)
	}
	return "", nil
}

func (g *gosseractOCR) recognizeWith(imagePath, tessdataPrefix string) (string, error) {
	client := gosseract.NewClient()
	defer func() { _ = client.Close() }()

	if tessdataPrefix != "" {
		if err := client.SetTessdataPrefix(tessdataPrefix); err != nil {
			return "", err
		}
	}
	if err := client.SetLanguage(g.lang); err != nil {
		return "", err
	}
	if err := client.SetImage(imagePath); err != nil {
		return "", err
	}
	return client.Text()
}

// tesseractExec is the legacy OCR path: shell out to the standalone binary.
func (a *Acquirer) tesseractExec(ctx context.Context, imagePath string) (string, error) {
	args := []string{imagePath, "stdout", "-l", a.cfg.Language}
	if a.cfg.TessdataDir != "" {
		args = append(args, "--tessdata-dir", a.cfg.TessdataDir)
	}
	out, errb, err := a.runner.Run(ctx, a.cfg.Tesseract, args...)
	if err != nil {
		return "", fmt.Errorf("tesseract: %w (%s)", err, truncate(string(errb), 512))
	}
	return string(out), nil
}

// ocrImage runs the OCR chain over one rendered image: in-process engine
// first, legacy binary only if that produced nothing. The second return
// reports whether any OCR engine actually ran.
func (a *Acquirer) ocrImage(ctx context.Context, imagePath string) (string, bool) {
	ran := false
	if a.caps.InProcessOCR && a.engine != nil {
		ran = true
		txt, err := a.engine.Recognize(ctx, imagePath)
		if err != nil {
			a.logger.Warn("textract.ocr.in_process_failed", "image", imagePath, "error", err)
		} else if strings.TrimSpace(txt) != "" {
			return txt, true
		}
	}
	if a.caps.TesseractExec {
		ran = true
		txt, err := a.tesseractExec(ctx, imagePath)
		if err != nil {
			a.logger.Warn("textract.ocr.legacy_failed", "image", imagePath, "error", err)
			return "", ran
		}
		return txt, ran
	}
	return "", ran
}
