package doctree

import (
	"strings"

	"github.com/dgallion1/pdfmark/internal/markdown"
)

// Document is the text extracted from a PDF, page by page.
type Document struct {
	Title  string // Document title (file name without extension)
	Source string // Original file name
	Pages  []Page
}

// Page holds the plain text of a single page.
type Page struct {
	Number int // 1-based
	Text   string
}

// Lines flattens the document into lines, with a page marker line in front
// of each page's text.
func (d *Document) Lines() []string {
	var b strings.Builder
	for _, p := range d.Pages {
		b.WriteString("\n" + markdown.PageMarker(p.Number) + "\n")
		b.WriteString(p.Text + "\n")
	}
	if b.Len() == 0 {
		return nil
	}
	return strings.Split(b.String(), "\n")
}

// HasText reports whether any page carries non-whitespace text.
func (d *Document) HasText() bool {
	for _, p := range d.Pages {
		if strings.TrimSpace(p.Text) != "" {
			return true
		}
	}
	return false
}
