package pipeline

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/dgallion1/pdfmark/internal/doctree"
	"github.com/dgallion1/pdfmark/internal/markdown"
	"github.com/dgallion1/pdfmark/internal/parser"
	"github.com/dgallion1/pdfmark/internal/storage"
)

// Upload is a PDF already saved in the store under ID.
type Upload struct {
	ID       string
	Filename string
}

// Worker converts stored uploads one at a time. A Worker has no mutable
// state and may be shared between goroutines.
type Worker struct {
	store      *storage.Store
	log        *slog.Logger
	parserOpts parser.Options
	generator  string

	// Overridable in tests.
	parserFor parserFunc
	now       func() time.Time
}

func NewWorker(store *storage.Store, log *slog.Logger, opts parser.Options, generator string) *Worker {
	return &Worker{
		store:      store,
		log:        log,
		parserOpts: opts,
		generator:  generator,
		parserFor:  parser.ForFile,
		now:        time.Now,
	}
}

// Process runs extraction, heading inference, and normalization for one
// upload and writes the Markdown next to it in the store. Failures are
// reported in the Result, never returned or panicked. The upload itself is
// removed afterwards.
func (w *Worker) Process(ctx context.Context, u Upload) Result {
	start := w.now()
	log := w.log.With("conversion_id", u.ID, "filename", u.Filename)
	res := Result{ID: u.ID, Filename: u.Filename, CreatedAt: start}
	defer w.store.RemoveUpload(u.ID)

	if err := ctx.Err(); err != nil {
		res = failResult(res, ReasonCanceled, err)
	} else {
		c := converter{parserFor: w.parserFor, opts: w.parserOpts, generator: w.generator}
		res = c.run(log, document{
			filename: u.Filename,
			open: func() (io.ReadCloser, error) {
				return w.store.OpenUpload(u.ID, u.Filename)
			},
			write: func(content string) (string, error) {
				return w.store.WriteOutput(u.ID, markdown.OutputName(u.Filename), content)
			},
		}, res, start)
	}
	res.Duration = w.now().Sub(start)
	return res
}

// Render builds the final Markdown document: header block, then the
// heading-annotated and normalized page text.
func Render(doc *doctree.Document, now time.Time, generator string) (string, error) {
	if !doc.HasText() {
		return "", markdown.ErrNoText
	}
	body, err := markdown.Convert(doc.Lines())
	if err != nil {
		return "", err
	}
	h := markdown.Header{
		Title:       doc.Title,
		Source:      doc.Source,
		Generator:   generator,
		ConvertedAt: now,
	}
	// The header already ends with a blank line.
	return h.String() + strings.TrimLeft(body, "\n"), nil
}

// countHeadings excludes the title heading of the header block.
func countHeadings(content string) int {
	return max(len(markdown.Outline([]byte(content)))-1, 0)
}

func reasonFor(err error, fallback Reason) Reason {
	switch {
	case errors.Is(err, parser.ErrUnsupported):
		return ReasonUnsupported
	case errors.Is(err, markdown.ErrNoText):
		return ReasonNoText
	case errors.Is(err, storage.ErrTooLarge):
		return ReasonTooLarge
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return ReasonCanceled
	}
	return fallback
}

// message is the user-facing text for a failure.
func message(reason Reason, err error) string {
	switch reason {
	case ReasonUnsupported:
		return "not a PDF file"
	case ReasonNoText:
		return "could not extract text from PDF"
	case ReasonTooLarge:
		return "file exceeds the upload size limit"
	}
	if err == nil {
		return string(reason)
	}
	return err.Error()
}
