package parser

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/dgallion1/pdfmark/internal/doctree"
)

// ErrUnsupported is returned for files that are not PDFs.
var ErrUnsupported = errors.New("not a PDF file")

// Parser extracts page text from raw document bytes.
type Parser interface {
	Parse(r io.Reader, filename string) (*doctree.Document, error)
}

// Options configures the parsers returned by ForFile.
type Options struct {
	FallbackPdftotext bool
}

// ForFile returns the appropriate parser for a filename.
func ForFile(filename string, opts Options) (Parser, error) {
	if !IsSupportedExtension(filename) {
		return nil, fmt.Errorf("%w: %q", ErrUnsupported, filename)
	}
	return &PDFParser{FallbackPdftotext: opts.FallbackPdftotext}, nil
}

// IsSupportedExtension checks if a file extension is supported.
func IsSupportedExtension(filename string) bool {
	return strings.EqualFold(filepath.Ext(filename), ".pdf")
}
