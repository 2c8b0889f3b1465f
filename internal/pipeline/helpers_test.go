package pipeline

import (
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dgallion1/pdfmark/internal/doctree"
	"github.com/dgallion1/pdfmark/internal/markdown"
	"github.com/dgallion1/pdfmark/internal/parser"
	"github.com/dgallion1/pdfmark/internal/storage"
)

var fixedNow = time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

const sampleText = "一、总则\n本规范适用于论文。\n(1)条款说明\n正文"

// fakeParser returns canned pages, an error, or panics, keyed by the
// content of the uploaded file.
type fakeParser struct{}

func (fakeParser) Parse(r io.Reader, filename string) (*doctree.Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	doc := &doctree.Document{Title: markdown.Title(filename), Source: filename}
	switch content := string(data); {
	case content == "blank":
		doc.Pages = []doctree.Page{{Number: 1, Text: "  \n"}, {Number: 2}}
	case content == "broken":
		return nil, fmt.Errorf("malformed xref table")
	case content == "panic":
		panic("classifier exploded")
	default:
		doc.Pages = []doctree.Page{{Number: 1, Text: content}}
	}
	return doc, nil
}

func fakeParserFor(filename string, _ parser.Options) (parser.Parser, error) {
	if !parser.IsSupportedExtension(filename) {
		return nil, fmt.Errorf("%w: %q", parser.ErrUnsupported, filename)
	}
	return fakeParser{}, nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestStore(t *testing.T) *storage.Store {
	t.Helper()
	root := t.TempDir()
	s, err := storage.New(filepath.Join(root, "uploads"), filepath.Join(root, "outputs"))
	require.NoError(t, err)
	return s
}

func newTestWorker(t *testing.T, store *storage.Store) *Worker {
	t.Helper()
	w := NewWorker(store, discardLogger(), parser.Options{}, "test-gen")
	w.parserFor = fakeParserFor
	w.now = func() time.Time { return fixedNow }
	return w
}

func saveUpload(t *testing.T, store *storage.Store, filename, content string) Upload {
	t.Helper()
	id := storage.NewID()
	_, err := store.SaveUpload(id, filename, strings.NewReader(content), 0)
	require.NoError(t, err)
	return Upload{ID: id, Filename: filename}
}
