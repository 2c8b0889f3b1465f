package markdown

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "heading gets blank lines around it",
			in:   "intro text\n# 1. Section\nbody text",
			want: "intro text\n\n# 1. Section\n\nbody text",
		},
		{
			name: "four empty lines collapse to one",
			in:   "a\n\n\n\n\nb",
			want: "a\n\nb",
		},
		{
			name: "whitespace-only lines count as blank",
			in:   "a\n \n\t\n　\nb",
			want: "a\n\nb",
		},
		{
			name: "single blank line kept",
			in:   "a\n\nb",
			want: "a\n\nb",
		},
		{
			name: "consecutive headings",
			in:   "# A\n## B\ntext",
			want: "# A\n\n## B\n\ntext",
		},
		{
			name: "heading as last line",
			in:   "text\n# End",
			want: "text\n\n# End",
		},
		{
			name: "already spaced heading untouched",
			in:   "text\n\n## Two\n\nmore",
			want: "text\n\n## Two\n\nmore",
		},
		{
			name: "body text is not altered",
			in:   "  indented body  \nnext line",
			want: "  indented body  \nnext line",
		},
		{
			name: "seven hashes are not a heading",
			in:   "a\n####### b\nc",
			want: "a\n####### b\nc",
		},
		{
			name: "hash without space is not a heading",
			in:   "a\n#tag\nc",
			want: "a\n#tag\nc",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.in))
		})
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	inputs := []string{
		"",
		"\n\n\n",
		"intro\n# A\n## B\n### C\nbody",
		"a\n\n\n\n# H\n\n\n\nb\n",
		"# Start\ntext\n\n\n\n\n## Mid\n \nend\n# Last",
		"\n<!-- page 1 -->\n# 一、总则\n正文\n\n<!-- page 2 -->\n## (1)条款\n",
	}
	for _, in := range inputs {
		once := Normalize(in)
		assert.Equal(t, once, Normalize(once), "input %q", in)
	}
}

func TestNormalize_NoBlankRunsRemain(t *testing.T) {
	in := "a\n\n\n\n# H\n\n\n\nb\n\n\n\n\n\nc"
	out := Normalize(in)
	assert.NotContains(t, out, "\n\n\n")
	assert.Equal(t, "a\n\n# H\n\nb\n\nc", out)
}

func TestConvert(t *testing.T) {
	out, err := Convert([]string{"intro text", "1. Section", "body text"})
	require.NoError(t, err)
	assert.Equal(t, "intro text\n\n# 1. Section\n\nbody text", out)
}

func TestConvert_PageMarkedDocument(t *testing.T) {
	lines := []string{
		"",
		PageMarker(1),
		"第一章 总则",
		"一、目的",
		"为了规范格式。",
		"(1)适用范围",
		"",
		"",
		"",
		PageMarker(2),
		"INTRODUCTION",
		"Body text follows.",
	}
	out, err := Convert(lines)
	require.NoError(t, err)

	assert.Contains(t, out, "<!-- page 1 -->\n\n# 第一章 总则\n\n# 一、目的\n\n为了规范格式。\n\n## (1)适用范围\n\n<!-- page 2 -->")
	assert.Contains(t, out, "\n\n# INTRODUCTION\n\nBody text follows.")
	assert.NotContains(t, out, "\n\n\n")
}

func TestConvert_NoText(t *testing.T) {
	tests := [][]string{
		nil,
		{""},
		{"", PageMarker(1), "   ", "", PageMarker(2), "\t", ""},
	}
	for _, lines := range tests {
		_, err := Convert(lines)
		assert.ErrorIs(t, err, ErrNoText)
	}
}

func TestIsHeadingLine(t *testing.T) {
	assert.True(t, IsHeadingLine("# a"))
	assert.True(t, IsHeadingLine("###### a"))
	assert.False(t, IsHeadingLine("####### a"))
	assert.False(t, IsHeadingLine("#a"))
	assert.False(t, IsHeadingLine(" # a"))
	assert.False(t, IsHeadingLine(strings.Repeat("x", 3)))
}
