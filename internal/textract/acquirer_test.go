package textract

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
)

// stubRunner records invocations and returns canned output per binary.
type stubRunner struct {
	calls   [][]string
	outputs map[string]string
	err     error
}

func (r *stubRunner) Run(_ context.Context, name string, args ...string) ([]byte, []byte, error) {
	r.calls = append(r.calls, append([]string{name}, args...))
	if r.err != nil {
		return nil, []byte("boom"), r.err
	}
	return []byte(r.outputs[name]), nil, nil
}

// stubEngine is an in-process OCR double.
type stubEngine struct {
	text string
	err  error
}

func (e stubEngine) Recognize(context.Context, string) (string, error) {
	return e.text, e.err
}

func bareAcquirer(caps Capabilities) *Acquirer {
	return &Acquirer{
		cfg:    Config{Pdftotext: "pdftotext", Pdftoppm: "pdftoppm", Tesseract: "tesseract", Language: "eng", DPI: 300, MinTextChars: 100},
		caps:   caps,
		runner: &stubRunner{},
		logger: slog.Default(),
	}
}

func TestPageFilled(t *testing.T) {
	require.False(t, pageFilled("", 100))
	require.False(t, pageFilled("   \n\t  ", 100))
	require.False(t, pageFilled("short page", 100))

	long := make([]byte, 120)
	for i := range long {
		long[i] = 'a'
	}
	require.True(t, pageFilled(string(long), 100))
}

func TestAcquireUnsupportedExtension(t *testing.T) {
	a := NewAcquirer(Config{
		Pdftotext: "definitely-missing-pdftotext",
		Pdftoppm:  "definitely-missing-pdftoppm",
		Tesseract: "definitely-missing-tesseract",
	}, slog.Default())

	_, err := a.Acquire(context.Background(), "contract.docx")
	require.Error(t, err)
}

func TestAcquirePDFUnreadableBytes(t *testing.T) {
	a := NewAcquirer(Config{
		Pdftotext: "definitely-missing-pdftotext",
		Pdftoppm:  "definitely-missing-pdftoppm",
		Tesseract: "definitely-missing-tesseract",
	}, slog.Default())

	// The path does not exist, so the native extractor cannot open it.
	_, err := a.Acquire(context.Background(), "/nonexistent/contract.pdf")
	require.Error(t, err)
}

// With no OCR engine at all, an image document degrades to empty text
// rather than an error; extraction downstream scores every field 0.0.
func TestAcquireImageWithoutOCR(t *testing.T) {
	a := bareAcquirer(Capabilities{PDFNative: true})

	res, err := a.Acquire(context.Background(), "scan.png")
	require.NoError(t, err)
	require.Empty(t, res.Text)
	require.False(t, res.OCRUsed)
	require.Equal(t, 1, res.Pages)
}

func TestAcquireImageWithInProcessOCR(t *testing.T) {
	a := bareAcquirer(Capabilities{PDFNative: true, InProcessOCR: true})
	a.engine = stubEngine{text: "EMPLOYMENT CONTRACT"}

	res, err := a.Acquire(context.Background(), "scan.png")
	require.NoError(t, err)
	require.Equal(t, "EMPLOYMENT CONTRACT", res.Text)
	require.True(t, res.OCRUsed)
}

func TestOCRImageFallsBackToLegacyBinary(t *testing.T) {
	runner := &stubRunner{outputs: map[string]string{"tesseract": "legacy text"}}
	a := bareAcquirer(Capabilities{PDFNative: true, InProcessOCR: true, TesseractExec: true})
	a.runner = runner
	a.engine = stubEngine{text: ""} // in-process produced nothing

	txt, ran := a.ocrImage(context.Background(), "page.png")
	require.True(t, ran)
	require.Equal(t, "legacy text", txt)
	require.Len(t, runner.calls, 1)
	require.Equal(t, "tesseract", runner.calls[0][0])
}

func TestOCRImageInProcessWinsWhenNonEmpty(t *testing.T) {
	runner := &stubRunner{outputs: map[string]string{"tesseract": "legacy text"}}
	a := bareAcquirer(Capabilities{PDFNative: true, InProcessOCR: true, TesseractExec: true})
	a.runner = runner
	a.engine = stubEngine{text: "in-process text"}

	txt, ran := a.ocrImage(context.Background(), "page.png")
	require.True(t, ran)
	require.Equal(t, "in-process text", txt)
	require.Empty(t, runner.calls) // legacy binary never invoked
}

func TestOCRImageReportsRanOnEngineError(t *testing.T) {
	a := bareAcquirer(Capabilities{PDFNative: true, InProcessOCR: true})
	a.engine = stubEngine{err: errors.New("tessdata not found")}

	txt, ran := a.ocrImage(context.Background(), "page.png")
	require.True(t, ran)
	require.Empty(t, txt)
}

func TestPdftotextPageArgs(t *testing.T) {
	runner := &stubRunner{outputs: map[string]string{"pdftotext": "page text"}}
	a := bareAcquirer(Capabilities{PDFNative: true, Pdftotext: true})
	a.runner = runner

	txt, err := a.pdftotextPage(context.Background(), "contract.pdf", 3)
	require.NoError(t, err)
	require.Equal(t, "page text", txt)

	require.Len(t, runner.calls, 1)
	require.Equal(t,
		[]string{"pdftotext", "-f", "3", "-l", "3", "-layout", "-enc", "UTF-8", "-eol", "unix", "contract.pdf", "-"},
		runner.calls[0])
}

func TestPdftotextPageError(t *testing.T) {
	runner := &stubRunner{err: errors.New("exit status 1")}
	a := bareAcquirer(Capabilities{PDFNative: true, Pdftotext: true})
	a.runner = runner

	_, err := a.pdftotextPage(context.Background(), "contract.pdf", 1)
	require.Error(t, err)
}

func TestOCRAvailable(t *testing.T) {
	require.False(t, Capabilities{}.OCRAvailable())
	require.True(t, Capabilities{InProcessOCR: true}.OCRAvailable())
	require.True(t, Capabilities{TesseractExec: true}.OCRAvailable())
}
