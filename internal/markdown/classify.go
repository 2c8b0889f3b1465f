// Package markdown turns extracted PDF text into Markdown. Headings are
// inferred line by line from numbering patterns, then the result is
// normalized so every heading sits in its own paragraph.
package markdown

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	MinLevel = 1
	MaxLevel = 6

	// shortLineLimit is the exclusive rune count below which a line may be
	// promoted to a heading by the capitalization and chapter rules.
	shortLineLimit = 50
)

// space matches what a Unicode-aware \s does, including the ideographic
// space common in CJK documents.
const space = `[\s\v\x{85}\p{Z}]`

var (
	numericOutlineRe = regexp.MustCompile(`^\p{Nd}+(?:\.\p{Nd}+)*(\.)?` + space + `+`)
	chineseNumeralRe = regexp.MustCompile(`^[一二三四五六七八九十]+、`)
	parentheticalRe  = regexp.MustCompile(`^\([一二三四五六七八九十\p{Nd}]+\)`)
)

// Rule is one step of the heading cascade. Level returns 0 for lines that
// match but stay body text.
type Rule struct {
	Name  string
	Match func(line string) bool
	Level func(line string) int
}

// Rules is evaluated in order; the first match decides.
var Rules = []Rule{
	{Name: "blank", Match: isBlank, Level: fixedLevel(0)},
	{Name: "numeric-outline", Match: numericOutlineRe.MatchString, Level: outlineLevel},
	{Name: "chinese-numeral", Match: chineseNumeralRe.MatchString, Level: fixedLevel(1)},
	{Name: "parenthetical", Match: parentheticalRe.MatchString, Level: fixedLevel(2)},
	{Name: "short-title", Match: isShortTitle, Level: fixedLevel(1)},
}

// Classification is the outcome of running a line through Rules.
type Classification struct {
	Level int    // 1-6 for headings, 0 for body text
	Rule  string // name of the matching rule, empty when none matched
}

// IsHeading reports whether the line was classified as a heading.
func (c Classification) IsHeading() bool {
	return c.Level >= MinLevel
}

// Classify decides whether line is a heading using only its own content.
func Classify(line string) Classification {
	for _, r := range Rules {
		if r.Match(line) {
			return Classification{Level: r.Level(line), Rule: r.Name}
		}
	}
	return Classification{}
}

// ClassifyLines returns one Markdown line per input line, in order. Heading
// lines get a "#" prefix; everything else is copied verbatim.
func ClassifyLines(lines []string) []string {
	out := make([]string, len(lines))
	for i, line := range lines {
		c := Classify(line)
		if c.IsHeading() {
			out[i] = HeadingLine(c.Level, line)
		} else {
			out[i] = line
		}
	}
	return out
}

// HeadingLine prefixes text with level hashes and a space. The level is
// clamped to [MinLevel, MaxLevel].
func HeadingLine(level int, text string) string {
	return strings.Repeat("#", clampLevel(level)) + " " + text
}

// outlineLevel counts every "." in the line, not only those in the leading
// number, so "1.1 See section 2.3" lands one level deeper than "1.1 See".
// A dot that merely terminates the leading number ("1. Scope") does not
// add a level.
func outlineLevel(line string) int {
	dots := strings.Count(line, ".")
	if m := numericOutlineRe.FindStringSubmatchIndex(line); m != nil && m[2] >= 0 {
		dots--
	}
	return clampLevel(dots + 1)
}

func isShortTitle(line string) bool {
	if utf8.RuneCountInString(line) >= shortLineLimit {
		return false
	}
	return isUpper(line) || (strings.Contains(line, "第") && strings.Contains(line, "章"))
}

// isUpper reports whether line has at least one cased letter and no
// lowercase or titlecase letters. Lowercase and uppercase follow the
// Unicode derived properties, so modifier letters such as "ª" and "ʰ"
// count as lowercase and circled capitals such as "Ⓐ" as uppercase.
func isUpper(line string) bool {
	cased := false
	for _, r := range line {
		switch {
		case unicode.IsLower(r), unicode.Is(unicode.Other_Lowercase, r), unicode.IsTitle(r):
			return false
		case unicode.IsUpper(r), unicode.Is(unicode.Other_Uppercase, r):
			cased = true
		}
	}
	return cased
}

func isBlank(line string) bool {
	return strings.TrimSpace(line) == ""
}

func fixedLevel(n int) func(string) int {
	return func(string) int { return n }
}

func clampLevel(n int) int {
	return min(max(n, MinLevel), MaxLevel)
}
