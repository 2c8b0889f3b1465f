package pipeline

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dgallion1/pdfmark/internal/markdown"
	"github.com/dgallion1/pdfmark/internal/parser"
)

// FileConverter converts PDFs on the local filesystem, for the CLI.
type FileConverter struct {
	Options   parser.Options
	Generator string

	// Log defaults to discarding output.
	Log *slog.Logger
	// ParserFor defaults to parser.ForFile.
	ParserFor func(filename string, opts parser.Options) (parser.Parser, error)
	// Now defaults to time.Now.
	Now func() time.Time
}

// DefaultOutputPath replaces the extension of pdfPath with ".md".
func DefaultOutputPath(pdfPath string) string {
	return strings.TrimSuffix(pdfPath, filepath.Ext(pdfPath)) + ".md"
}

// Convert converts pdfPath and writes the Markdown to outPath. An empty
// outPath means DefaultOutputPath(pdfPath).
func (c *FileConverter) Convert(pdfPath, outPath string) Result {
	now := time.Now
	if c.Now != nil {
		now = c.Now
	}
	parserFor := parser.ForFile
	if c.ParserFor != nil {
		parserFor = c.ParserFor
	}
	log := c.Log
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if outPath == "" {
		outPath = DefaultOutputPath(pdfPath)
	}

	start := now()
	conv := converter{parserFor: parserFor, opts: c.Options, generator: c.Generator}
	res := conv.run(log.With("file", pdfPath), document{
		filename: pdfPath,
		open: func() (io.ReadCloser, error) {
			return os.Open(pdfPath)
		},
		write: func(content string) (string, error) {
			if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
				return "", fmt.Errorf("create output dir: %w", err)
			}
			if err := os.WriteFile(outPath, []byte(content), 0o644); err != nil {
				return "", fmt.Errorf("write output: %w", err)
			}
			return outPath, nil
		},
	}, Result{ID: pdfPath, Filename: pdfPath, CreatedAt: start}, start)
	res.Duration = now().Sub(start)
	return res
}

// ConvertAll converts each path in turn, printing one status line per file
// and a summary to w. With an empty outDir each Markdown file is written
// next to its PDF.
func (c *FileConverter) ConvertAll(pdfPaths []string, outDir string, w io.Writer) BatchResult {
	results := make([]Result, len(pdfPaths))
	for i, p := range pdfPaths {
		out := ""
		if outDir != "" {
			out = filepath.Join(outDir, markdown.OutputName(p))
		}
		results[i] = c.Convert(p, out)
		if results[i].OK() {
			fmt.Fprintf(w, "converted: %s -> %s (%d pages, %d headings)\n",
				p, results[i].OutputPath(), results[i].Pages, results[i].Headings)
		} else {
			fmt.Fprintf(w, "failed:    %s (%s)\n", p, results[i].Error)
		}
	}
	batch := NewBatchResult(results)
	fmt.Fprintf(w, "\nSummary: %d converted, %d failed (total: %d)\n", batch.Successful, batch.Failed, batch.Total)
	return batch
}
