package constants

import "strings"

// Format classifies a document by how it must be normalized before OCR.
type Format string

const (
	IMAGE Format = "IMAGE"
	PDF   Format = "PDF"
	DOCX  Format = "DOCX"
	DOC   Format = "DOC"
)

// LockFilePrefix marks host-application lock files left next to open
// documents; they are never real inputs.
const LockFilePrefix = "~$"

// NotFound is the sentinel recorded for a concept with no textual support in
// the document. It is a value, not an omission: every requested concept
// appears in the output and in the store.
const NotFound = "Not found"

// AllowedExtensions holds the file extensions the pipeline accepts.
var AllowedExtensions = map[string]struct{}{
	"png":  {},
	"jpg":  {},
	"jpeg": {},
	"tiff": {},
	"bmp":  {},
	"pdf":  {},
	"docx": {},
	"doc":  {},
}

// NormalizeExt lowercases and trims the dot from a file extension.
func NormalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}

// MapExtToFormat maps a normalized extension to its Format.
// Unknown extensions map to the empty Format.
func MapExtToFormat(ext string) Format {
	switch NormalizeExt(ext) {
	case "png", "jpg", "jpeg", "tiff", "bmp":
		return IMAGE
	case "pdf":
		return PDF
	case "docx":
		return DOCX
	case "doc":
		return DOC
	default:
		return ""
	}
}

// MimeType returns the MIME type for a normalized extension.
func MimeType(ext string) string {
	switch NormalizeExt(ext) {
	case "png":
		return "image/png"
	case "jpg", "jpeg":
		return "image/jpeg"
	case "tiff":
		return "image/tiff"
	case "bmp":
		return "image/bmp"
	case "pdf":
		return "application/pdf"
	case "docx":
		return "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	case "doc":
		return "application/msword"
	default:
		return "application/octet-stream"
	}
}
