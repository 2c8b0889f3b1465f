package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		convertCmd.Flags().Set("output", "")
		convertCmd.Flags().Set("out-dir", "")
	})
	err := rootCmd.Execute()
	return out.String(), err
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "pdfmark dev\n", out)
}

func TestConvert_OutputNeedsSingleInput(t *testing.T) {
	_, err := execute(t, "convert", "-o", "out.md", "a.pdf", "b.pdf")
	assert.ErrorContains(t, err, "--output accepts a single input")
}

func TestConvert_RequiresArgs(t *testing.T) {
	_, err := execute(t, "convert")
	assert.Error(t, err)
}

func TestConvert_FailuresExitNonZero(t *testing.T) {
	dir := t.TempDir()
	notes := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(notes, []byte("hello"), 0o644))
	broken := filepath.Join(dir, "broken.pdf")
	require.NoError(t, os.WriteFile(broken, []byte("not really a pdf"), 0o644))

	out, err := execute(t, "convert", "--out-dir", filepath.Join(dir, "md"), notes, broken)
	assert.ErrorContains(t, err, "2 of 2 files failed")
	assert.Contains(t, out, "failed:    "+notes+" (not a PDF file)")
	assert.Contains(t, out, "failed:    "+broken)
	assert.Contains(t, out, "Summary: 0 converted, 2 failed (total: 2)")
}
