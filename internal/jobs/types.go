// Package jobs defines the async scan job model and the queue abstractions
// behind the /api/scan/async endpoint.
package jobs

import (
	"context"
	"time"

	"github.com/Shivanikinagi/arthiksetu-engine/internal/domain"
	"github.com/Shivanikinagi/arthiksetu-engine/internal/engine"
)

// JobType represents the type of job to be executed.
type JobType string

const (
	// JobTypeScanBatch represents a message batch scan job.
	JobTypeScanBatch JobType = "scan_batch"
)

// JobStatus represents the current status of a job.
type JobStatus string

const (
	JobStatusPending   JobStatus = "pending"
	JobStatusRunning   JobStatus = "running"
	JobStatusCompleted JobStatus = "completed"
	JobStatusFailed    JobStatus = "failed"
	JobStatusRetrying  JobStatus = "retrying"
)

// ScanBatchJob carries one raw message batch through the queue and, once
// processed, the computed result. The raw batch travels inline: the engine
// owns no message storage.
type ScanBatchJob struct {
	JobID string `json:"job_id"`

	// Messages is the batch to scan, as supplied by the ingestion adapter.
	Messages []domain.RawMessage `json:"messages"`

	// WindowStart/WindowEnd bound the reporting window, half-open.
	WindowStart time.Time `json:"window_start"`
	WindowEnd   time.Time `json:"window_end"`

	// Enrich requests the enrichment fallback for this batch.
	Enrich bool `json:"enrich"`

	Status JobStatus `json:"status"`

	// Result is populated when the job completes.
	Result *engine.Result `json:"result,omitempty"`

	CreatedAt   time.Time  `json:"created_at"`
	StartedAt   *time.Time `json:"started_at,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`

	Error string `json:"error,omitempty"`

	RetryCount int `json:"retry_count"`
	MaxRetries int `json:"max_retries"`
}

// Job is a generic interface for all job types.
type Job interface {
	GetID() string
	GetType() JobType
	GetStatus() JobStatus
}

func (j *ScanBatchJob) GetID() string        { return j.JobID }
func (j *ScanBatchJob) GetType() JobType     { return JobTypeScanBatch }
func (j *ScanBatchJob) GetStatus() JobStatus { return j.Status }

// Publisher defines the interface for publishing jobs to a queue.
// The abstraction allows swapping the in-memory queue for a broker later.
type Publisher interface {
	// PublishScanBatch publishes a batch scan job.
	PublishScanBatch(ctx context.Context, job *ScanBatchJob) error

	// Close closes the publisher and releases resources.
	Close() error
}

// Consumer defines the interface for consuming jobs from a queue.
type Consumer interface {
	// Start begins consuming jobs; handler is called for each job.
	Start(ctx context.Context, handler JobHandler) error

	// Stop stops consuming and waits for in-flight jobs.
	Stop(ctx context.Context) error
}

// JobHandler processes one job; a returned error marks it for retry.
type JobHandler func(ctx context.Context, job Job) error

// JobStore tracks job state for the status endpoints.
type JobStore interface {
	SaveJob(ctx context.Context, job *ScanBatchJob) error
	GetJob(ctx context.Context, jobID string) (*ScanBatchJob, error)
	ListJobs(ctx context.Context, filter JobFilter) ([]*ScanBatchJob, error)
	UpdateJobStatus(ctx context.Context, jobID string, status JobStatus, errorMsg string) error
}

// JobFilter defines filtering criteria for listing jobs.
type JobFilter struct {
	Status JobStatus
	Limit  int
	Offset int
}
