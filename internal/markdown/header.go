package markdown

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"
)

// TimestampLayout is the format of the conversion time in the header.
const TimestampLayout = "2006-01-02 15:04:05"

// DefaultGenerator is the attribution line used when none is configured.
const DefaultGenerator = "Generated automatically from PDF by pdfmark"

// Header is the metadata block prepended to every converted document.
type Header struct {
	Title       string
	Source      string
	Generator   string
	ConvertedAt time.Time
}

func (h Header) String() string {
	gen := h.Generator
	if gen == "" {
		gen = DefaultGenerator
	}
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", h.Title)
	fmt.Fprintf(&b, "> %s\n", gen)
	fmt.Fprintf(&b, "> Source: %s\n", h.Source)
	fmt.Fprintf(&b, "> Converted: %s\n\n", h.ConvertedAt.Format(TimestampLayout))
	b.WriteString("---\n\n")
	return b.String()
}

// PageMarker is the comment line inserted before the text of page n (1-based).
func PageMarker(n int) string {
	return fmt.Sprintf("<!-- page %d -->", n)
}

// IsPageMarker reports whether line is a PageMarker line.
func IsPageMarker(line string) bool {
	return pageMarkRe.MatchString(strings.TrimSpace(line))
}

// Title is the file name without directory and extension.
func Title(filename string) string {
	base := filepath.Base(filename)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// OutputName maps "report.pdf" to "report.md".
func OutputName(filename string) string {
	return Title(filename) + ".md"
}
