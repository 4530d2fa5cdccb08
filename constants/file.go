package constants

import "strings"

// Format is the coarse input kind the text acquirer switches on.
type Format string

const (
	PDF   Format = "PDF"
	IMAGE Format = "IMAGE"
)

// imageExtensions are the raster formats accepted for direct OCR.
var imageExtensions = map[string]struct{}{
	"jpg":  {},
	"jpeg": {},
	"png":  {},
	"tiff": {},
	"tif":  {},
	"bmp":  {},
}

// NormalizeExt lowercases and trims the dot from a file extension.
func NormalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}

// MapExtToFormat returns the format for a (possibly dotted) extension, or ""
// when the extension is not supported.
func MapExtToFormat(ext string) Format {
	e := NormalizeExt(ext)
	if e == "pdf" {
		return PDF
	}
	if _, ok := imageExtensions[e]; ok {
		return IMAGE
	}
	return ""
}
