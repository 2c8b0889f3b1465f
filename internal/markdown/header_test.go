package markdown

import (
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestHeader_String(t *testing.T) {
	h := Header{
		Title:       "report",
		Source:      "report.pdf",
		Generator:   "Generated by test",
		ConvertedAt: time.Date(2026, 3, 4, 5, 6, 7, 0, time.UTC),
	}
	want := "# report\n\n" +
		"> Generated by test\n" +
		"> Source: report.pdf\n" +
		"> Converted: 2026-03-04 05:06:07\n\n" +
		"---\n\n"
	assert.Equal(t, want, h.String())
}

func TestHeader_DefaultGeneratorAndTimestampFormat(t *testing.T) {
	out := Header{Title: "x", Source: "x.pdf", ConvertedAt: time.Now()}.String()
	assert.Contains(t, out, "> "+DefaultGenerator+"\n")
	assert.Regexp(t, regexp.MustCompile(`> Converted: \d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2}\n`), out)
}

func TestTitleAndOutputName(t *testing.T) {
	tests := []struct {
		in, title, output string
	}{
		{"report.pdf", "report", "report.md"},
		{"dir/sub/report.final.pdf", "report.final", "report.final.md"},
		{"规范.PDF", "规范", "规范.md"},
		{"noext", "noext", "noext.md"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.title, Title(tt.in))
		assert.Equal(t, tt.output, OutputName(tt.in))
	}
}

func TestPageMarker(t *testing.T) {
	assert.Equal(t, "<!-- page 1 -->", PageMarker(1))
	assert.True(t, IsPageMarker(PageMarker(12)))
	assert.True(t, IsPageMarker("  <!-- page 2 -->  "))
	assert.False(t, IsPageMarker("<!-- note -->"))
	assert.False(t, IsPageMarker("page 1"))
}
