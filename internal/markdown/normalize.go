package markdown

import (
	"errors"
	"regexp"
	"strings"
)

// ErrNoText is returned when the extracted text holds nothing but whitespace
// and page markers, which is what an image-only PDF yields.
var ErrNoText = errors.New("no extractable text")

var (
	// Three or more newlines separated only by whitespace.
	blankRunRe = regexp.MustCompile(`\n` + space + `*\n` + space + `*\n`)
	headingRe  = regexp.MustCompile(`^#{1,6}\s`)
	pageMarkRe = regexp.MustCompile(`^<!-- page \d+ -->$`)
)

// Normalize collapses runs of blank lines into a single blank line and
// makes sure every heading has a blank line before and after it. Body text
// is left untouched. Normalize(Normalize(s)) == Normalize(s).
func Normalize(text string) string {
	text = blankRunRe.ReplaceAllString(text, "\n\n")
	lines := strings.Split(text, "\n")
	lines = spaceAfterHeadings(lines)
	lines = spaceBeforeHeadings(lines)
	return strings.Join(lines, "\n")
}

// Convert classifies extracted lines and normalizes the result.
func Convert(lines []string) (string, error) {
	if !hasContent(lines) {
		return "", ErrNoText
	}
	return Normalize(strings.Join(ClassifyLines(lines), "\n")), nil
}

// IsHeadingLine reports whether a Markdown line is an ATX heading.
func IsHeadingLine(line string) bool {
	return headingRe.MatchString(line)
}

func spaceAfterHeadings(lines []string) []string {
	out := make([]string, 0, len(lines)+8)
	for i, line := range lines {
		out = append(out, line)
		if IsHeadingLine(line) && i+1 < len(lines) && !isBlank(lines[i+1]) {
			out = append(out, "")
		}
	}
	return out
}

func spaceBeforeHeadings(lines []string) []string {
	out := make([]string, 0, len(lines)+8)
	for _, line := range lines {
		if IsHeadingLine(line) && len(out) > 0 && !isBlank(out[len(out)-1]) {
			out = append(out, "")
		}
		out = append(out, line)
	}
	return out
}

func hasContent(lines []string) bool {
	for _, line := range lines {
		if !isBlank(line) && !IsPageMarker(line) {
			return true
		}
	}
	return false
}
