package batch

import (
	"context"
	"time"
)

// Status is the outcome of one batch item
type Status string

const (
	StatusSucceeded Status = "succeeded"
	StatusFailed    Status = "failed"
)

// Handler processes one item and returns a reference to what it produced
type Handler func(ctx context.Context, item string) (string, error)

// Runner fans items out over a bounded pool of workers. Item failures are
// recorded in the report and never abort the batch.
type Runner interface {
	Run(ctx context.Context, items []string, handler Handler) Report
}

// Result is the per-item outcome
type Result struct {
	ID       string        `json:"id"`
	Item     string        `json:"item"`
	Status   Status        `json:"status"`
	Output   string        `json:"output,omitempty"`
	Error    string        `json:"error,omitempty"`
	Duration time.Duration `json:"duration"`
}

// Report aggregates a batch run. Results follow the input order.
type Report struct {
	Total     int           `json:"total"`
	Succeeded int           `json:"succeeded"`
	Failed    int           `json:"failed"`
	Elapsed   time.Duration `json:"elapsed"`
	Results   []Result      `json:"results"`
}
