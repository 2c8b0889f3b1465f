package pipeline

import (
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"runtime/debug"
	"time"

	"github.com/dgallion1/pdfmark/internal/parser"
)

type parserFunc func(filename string, opts parser.Options) (parser.Parser, error)

// converter holds the parse, render, and write steps shared by the service
// worker and the CLI.
type converter struct {
	parserFor parserFunc
	opts      parser.Options
	generator string
}

// document is one input: how to read it and where the Markdown goes.
type document struct {
	filename string
	open     func() (io.ReadCloser, error)
	write    func(content string) (path string, err error)
}

// run converts doc and fills in res. A panic in any step becomes a
// ReasonInternal failure of this document only.
func (c converter) run(log *slog.Logger, doc document, res Result, start time.Time) (out Result) {
	defer func() {
		if r := recover(); r != nil {
			log.Error("conversion panicked", "panic", r, "stack", string(debug.Stack()))
			out = failResult(res, ReasonInternal, fmt.Errorf("internal error: %v", r))
		}
	}()

	p, err := c.parserFor(doc.filename, c.opts)
	if err != nil {
		log.Warn("rejected input", "error", err)
		return failResult(res, ReasonUnsupported, err)
	}

	f, err := doc.open()
	if err != nil {
		log.Error("open input failed", "error", err)
		return failResult(res, ReasonStorage, err)
	}
	parsed, err := p.Parse(f, doc.filename)
	f.Close()
	if err != nil {
		log.Error("extraction failed", "error", err)
		return failResult(res, ReasonExtraction, err)
	}
	res.Pages = len(parsed.Pages)

	content, err := Render(parsed, start, c.generator)
	if err != nil {
		log.Warn("no text extracted", "pages", res.Pages)
		return failResult(res, reasonFor(err, ReasonInternal), err)
	}

	path, err := doc.write(content)
	if err != nil {
		log.Error("write output failed", "error", err)
		return failResult(res, ReasonStorage, err)
	}

	res.Status = StatusSucceeded
	res.OutputFilename = filepath.Base(path)
	res.Headings = countHeadings(content)
	res.outputPath = path
	log.Info("converted", "pages", res.Pages, "headings", res.Headings)
	return res
}

func failResult(res Result, reason Reason, err error) Result {
	res.Status = StatusFailed
	res.Reason = reason
	res.Error = message(reason, err)
	return res
}
