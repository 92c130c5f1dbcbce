package constants

import "testing"

func TestMapExtToFormat(t *testing.T) {
	tests := []struct {
		ext  string
		want Format
	}{
		{"png", IMAGE},
		{".JPG", IMAGE},
		{"jpeg", IMAGE},
		{"tiff", IMAGE},
		{"bmp", IMAGE},
		{"pdf", PDF},
		{".PDF", PDF},
		{"docx", DOCX},
		{"doc", DOC},
		{"txt", Format("")},
		{"", Format("")},
	}
	for _, tt := range tests {
		if got := MapExtToFormat(tt.ext); got != tt.want {
			t.Errorf("MapExtToFormat(%q) = %q, want %q", tt.ext, got, tt.want)
		}
	}
}

func TestMimeType(t *testing.T) {
	if got := MimeType("png"); got != "image/png" {
		t.Errorf("MimeType(png) = %q", got)
	}
	if got := MimeType("weird"); got != "application/octet-stream" {
		t.Errorf("MimeType(weird) = %q", got)
	}
}
