package pipeline

import (
	"sync"
	"time"
)

// Status is the outcome of a single conversion.
type Status string

const (
	StatusSucceeded Status = "succeeded"
	StatusFailed    Status = "failed"
)

// Reason classifies a failed conversion.
type Reason string

const (
	ReasonUnsupported Reason = "unsupported"
	ReasonTooLarge    Reason = "too_large"
	ReasonExtraction  Reason = "extraction"
	ReasonNoText      Reason = "no_text"
	ReasonStorage     Reason = "storage"
	ReasonCanceled    Reason = "canceled"
	ReasonInternal    Reason = "internal"
)

// Result describes one converted (or rejected) document.
type Result struct {
	ID             string        `json:"id"`
	Filename       string        `json:"filename"`
	OutputFilename string        `json:"output_filename,omitempty"`
	Status         Status        `json:"status"`
	Reason         Reason        `json:"reason,omitempty"`
	Error          string        `json:"error,omitempty"`
	Pages          int           `json:"pages"`
	Headings       int           `json:"headings"`
	Duration       time.Duration `json:"-"`
	CreatedAt      time.Time     `json:"created_at"`

	// Internal: not serialized.
	outputPath string
}

// OK reports whether the conversion succeeded.
func (r Result) OK() bool {
	return r.Status == StatusSucceeded
}

// OutputPath is where the Markdown was written, empty on failure.
func (r Result) OutputPath() string {
	return r.outputPath
}

// Failed builds a failure result for a document that never reached the
// converter, e.g. a rejected upload.
func Failed(id, filename string, reason Reason, err error) Result {
	return Result{
		ID:        id,
		Filename:  filename,
		Status:    StatusFailed,
		Reason:    reason,
		Error:     message(reason, err),
		CreatedAt: time.Now(),
	}
}

// BatchResult summarizes a batch. Results keep the input order.
type BatchResult struct {
	Total      int      `json:"total_files"`
	Successful int      `json:"successful"`
	Failed     int      `json:"failed"`
	Results    []Result `json:"results"`
}

// NewBatchResult counts the outcomes in results.
func NewBatchResult(results []Result) BatchResult {
	b := BatchResult{Total: len(results), Results: results}
	for _, r := range results {
		if r.OK() {
			b.Successful++
		} else {
			b.Failed++
		}
	}
	return b
}

// Succeeded returns the successful results in order.
func (b BatchResult) Succeeded() []Result {
	var out []Result
	for _, r := range b.Results {
		if r.OK() {
			out = append(out, r)
		}
	}
	return out
}

// Failures returns the failed results in order.
func (b BatchResult) Failures() []Result {
	var out []Result
	for _, r := range b.Results {
		if !r.OK() {
			out = append(out, r)
		}
	}
	return out
}

// ResultStore is a thread-safe in-memory result registry with TTL eviction.
type ResultStore struct {
	mu      sync.Mutex
	results map[string]Result
	ttl     time.Duration
}

func NewResultStore(ttl time.Duration) *ResultStore {
	return &ResultStore{
		results: make(map[string]Result),
		ttl:     ttl,
	}
}

func (s *ResultStore) Put(r Result) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.results[r.ID] = r
}

func (s *ResultStore) Get(id string) (Result, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.results[id]
	return r, ok
}

func (s *ResultStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.results)
}

// Cleanup removes expired results and returns their IDs.
func (s *ResultStore) Cleanup(now time.Time) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	var expired []string
	for id, r := range s.results {
		if now.Sub(r.CreatedAt) > s.ttl {
			delete(s.results, id)
			expired = append(expired, id)
		}
	}
	return expired
}
