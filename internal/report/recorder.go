// Package report captures failure screenshots and the per-run result report.
package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Status of a finished test
type Status string

const (
	StatusPassed  Status = "passed"
	StatusFailed  Status = "failed"
	StatusSkipped Status = "skipped"
)

// Result is one test's outcome.
type Result struct {
	Name       string        `json:"name"`
	Markers    []string      `json:"markers,omitempty"`
	Status     Status        `json:"status"`
	Duration   time.Duration `json:"duration_ns"`
	Screenshot string        `json:"screenshot,omitempty"`
	Error      string        `json:"error,omitempty"`
}

// Summary counts results by status
type Summary struct {
	Total   int `json:"total"`
	Passed  int `json:"passed"`
	Failed  int `json:"failed"`
	Skipped int `json:"skipped"`
}

// Report is the document written to reports/ and published.
type Report struct {
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	Browser    string    `json:"browser"`
	Headless   bool      `json:"headless"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
	Summary    Summary   `json:"summary"`
	Results    []Result  `json:"results"`
}

// Recorder collects results from concurrently finishing tests.
type Recorder struct {
	mu       sync.RWMutex
	id       string
	title    string
	browser  string
	headless bool
	started  time.Time
	results  map[string]*Result
}

// NewRecorder starts a run
func NewRecorder(title, browser string, headless bool) *Recorder {
	return &Recorder{
		id:       uuid.NewString(),
		title:    title,
		browser:  browser,
		headless: headless,
		started:  time.Now(),
		results:  make(map[string]*Result),
	}
}

// Record stores r, replacing an earlier result of the same name.
func (r *Recorder) Record(res Result) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.results[res.Name] = &res
}

// Get returns the stored result for name
func (r *Recorder) Get(name string) (Result, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	res, ok := r.results[name]
	if !ok {
		return Result{}, false
	}
	return *res, true
}

// Len returns the number of recorded results
func (r *Recorder) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.results)
}

// Report snapshots the run, results sorted by name.
func (r *Recorder) Report() *Report {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rep := &Report{
		ID:         r.id,
		Title:      r.title,
		Browser:    r.browser,
		Headless:   r.headless,
		StartedAt:  r.started,
		FinishedAt: time.Now(),
		Results:    make([]Result, 0, len(r.results)),
	}

	for _, res := range r.results {
		rep.Results = append(rep.Results, *res)
		rep.Summary.Total++
		switch res.Status {
		case StatusPassed:
			rep.Summary.Passed++
		case StatusFailed:
			rep.Summary.Failed++
		case StatusSkipped:
			rep.Summary.Skipped++
		}
	}
	sort.Slice(rep.Results, func(i, j int) bool { return rep.Results[i].Name < rep.Results[j].Name })

	return rep
}

// WriteJSON writes the report to dir/report_<YYYYMMDD_HHMMSS>.json.
func (r *Recorder) WriteJSON(dir string) (string, error) {
	rep := r.Report()

	data, err := json.MarshalIndent(rep, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal report: %w", err)
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create report dir: %w", err)
	}

	path := filepath.Join(dir, fmt.Sprintf("report_%s.json", rep.FinishedAt.Format(TimestampLayout)))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write report: %w", err)
	}
	return path, nil
}
