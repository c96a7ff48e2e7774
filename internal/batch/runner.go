package batch

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"
)

func (r *implRunner) Run(ctx context.Context, items []string, handler Handler) Report {
	start := r.now()
	results := make([]Result, len(items))
	sem := newSemaphore(r.maxConcurrent)

	var wg sync.WaitGroup
	for i, item := range items {
		results[i] = Result{ID: uuid.NewString(), Item: item}

		if err := sem.acquire(ctx); err != nil {
			results[i].Status = StatusFailed
			results[i].Error = err.Error()
			continue
		}

		wg.Add(1)
		go func(res *Result) {
			defer wg.Done()
			defer sem.release()
			r.runOne(ctx, res, handler)
		}(&results[i])
	}
	wg.Wait()

	report := Report{Total: len(items), Results: results, Elapsed: r.now().Sub(start)}
	for _, res := range results {
		if res.Status == StatusSucceeded {
			report.Succeeded++
		} else {
			report.Failed++
		}
	}

	r.logger.Info(ctx, "Batch finished: %d/%d succeeded", report.Succeeded, report.Total)
	return report
}

func (r *implRunner) runOne(ctx context.Context, res *Result, handler Handler) {
	begin := r.now()
	defer func() {
		if p := recover(); p != nil {
			res.Status = StatusFailed
			res.Error = fmt.Sprintf("panic: %v", p)
			r.logger.Error(ctx, "Item %s panicked: %v", res.Item, p)
		}
		res.Duration = r.now().Sub(begin)
	}()

	out, err := handler(ctx, res.Item)
	if err != nil {
		res.Status = StatusFailed
		res.Error = err.Error()
		r.logger.Error(ctx, "Failed to process %s: %v", res.Item, err)
		return
	}
	res.Status = StatusSucceeded
	res.Output = out
}

// WriteSummary stores the report as indented JSON
func WriteSummary(path string, report Report) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create summary dir: %w", err)
	}
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("encode summary: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write summary: %w", err)
	}
	return nil
}
