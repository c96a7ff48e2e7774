package jobstore

import (
	"context"
	"time"
)

// Status is the lifecycle state of a pipeline run
type Status string

const (
	StatusRunning   Status = "running"
	StatusSucceeded Status = "succeeded"
	StatusFailed    Status = "failed"
)

// Run is one pipeline execution for one video
type Run struct {
	ID         string
	Video      string
	Status     Status
	Stage      string
	Keyframes  int
	Output     string
	Error      string
	StartedAt  time.Time
	FinishedAt time.Time
}

// Store records run history
type Store interface {
	Start(ctx context.Context, video string) (*Run, error)
	SetStage(ctx context.Context, id, stage string) error
	Complete(ctx context.Context, id string, keyframes int, output string) error
	Fail(ctx context.Context, id string, cause error) error
	Get(ctx context.Context, id string) (*Run, error)
	List(ctx context.Context, limit int) ([]Run, error)
	Close() error
}
