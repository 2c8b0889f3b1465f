package pipeline

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/dgallion1/pdfmark/internal/config"
	"github.com/dgallion1/pdfmark/internal/parser"
	"github.com/dgallion1/pdfmark/internal/stats"
	"github.com/dgallion1/pdfmark/internal/storage"
)

// Orchestrator runs conversions, keeps their results for download, and
// deletes stored files once results expire.
type Orchestrator struct {
	results *ResultStore
	worker  *Worker
	store   *storage.Store
	stats   *stats.Recorder
	log     *slog.Logger
	cfg     config.Config

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewOrchestrator wires a worker to the given store. Non-positive
// concurrency and TTL are raised to one worker and one hour.
func NewOrchestrator(cfg config.Config, store *storage.Store, rec *stats.Recorder, log *slog.Logger) *Orchestrator {
	cfg.MaxConcurrent = max(cfg.MaxConcurrent, 1)
	if cfg.ResultTTL <= 0 {
		cfg.ResultTTL = time.Hour
	}
	opts := parser.Options{FallbackPdftotext: cfg.PDFFallbackPdftotext}
	return &Orchestrator{
		results: NewResultStore(cfg.ResultTTL),
		worker:  NewWorker(store, log, opts, cfg.Generator),
		store:   store,
		stats:   rec,
		log:     log,
		cfg:     cfg,
	}
}

// Start launches the result cleanup loop.
func (o *Orchestrator) Start(ctx context.Context) {
	cleanupCtx, cancel := context.WithCancel(ctx)
	o.cancel = cancel

	interval := min(o.cfg.ResultTTL, 5*time.Minute)
	o.wg.Add(1)
	go func() {
		defer o.wg.Done()
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-cleanupCtx.Done():
				return
			case now := <-ticker.C:
				o.Cleanup(now)
			}
		}
	}()
}

// Stop halts the cleanup loop.
func (o *Orchestrator) Stop() {
	if o.cancel != nil {
		o.cancel()
	}
	o.wg.Wait()
}

// Convert processes a single upload synchronously.
func (o *Orchestrator) Convert(ctx context.Context, u Upload) Result {
	res := o.worker.Process(ctx, u)
	o.Record(res)
	return res
}

// ConvertBatch processes uploads with bounded concurrency. Each upload is
// isolated: a failure is recorded in its own Result and never stops the
// others.
func (o *Orchestrator) ConvertBatch(ctx context.Context, uploads []Upload) BatchResult {
	results := make([]Result, len(uploads))

	var g errgroup.Group
	g.SetLimit(o.cfg.MaxConcurrent)
	for i, u := range uploads {
		g.Go(func() error {
			results[i] = o.Convert(ctx, u)
			return nil
		})
	}
	g.Wait()

	batch := NewBatchResult(results)
	o.log.Info("batch converted", "total", batch.Total, "successful", batch.Successful, "failed", batch.Failed)
	return batch
}

// Record stores a result for later lookup and counts it in the stats.
// Failed uploads rejected before conversion are recorded too.
func (o *Orchestrator) Record(res Result) {
	o.results.Put(res)
	if o.stats != nil {
		o.stats.Record(res.Duration, res.OK(), res.Pages)
	}
}

// GetResult returns a conversion result by ID.
func (o *Orchestrator) GetResult(id string) (Result, bool) {
	return o.results.Get(id)
}

// Cleanup evicts expired results and removes their files.
func (o *Orchestrator) Cleanup(now time.Time) {
	for _, id := range o.results.Cleanup(now) {
		if err := o.store.Remove(id); err != nil {
			o.log.Warn("remove expired conversion", "conversion_id", id, "error", err)
		}
	}
}

// SetParserFor replaces the parser lookup used by the worker.
func (o *Orchestrator) SetParserFor(fn func(filename string, opts parser.Options) (parser.Parser, error)) {
	o.worker.parserFor = fn
}

// Store returns the storage used for uploads and outputs.
func (o *Orchestrator) Store() *storage.Store {
	return o.store
}

// Stats returns the conversion stats recorder, which may be nil.
func (o *Orchestrator) Stats() *stats.Recorder {
	return o.stats
}
