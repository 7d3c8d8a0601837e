// Package jobs tracks asynchronous export jobs and their progress.
package jobs

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Status is the lifecycle state of an export job.
type Status string

const (
	StatusProcessing Status = "processing"
	StatusComplete   Status = "complete"
	StatusError      Status = "error"
)

// ErrNotFound is returned when a job ID is not in the registry.
var ErrNotFound = errors.New("jobs: not found")

// Job is a snapshot of one export job. OutputPath and Error are
// pointers so absent values serialize as JSON null rather than "".
type Job struct {
	ID         string    `json:"id"`
	Status     Status    `json:"status"`
	Progress   float64   `json:"progress"`
	OutputPath *string   `json:"outputPath"`
	Error      *string   `json:"error"`
	CreatedAt  time.Time `json:"createdAt"`
}

// Registry is an in-memory job store safe for concurrent use.
type Registry struct {
	mu   sync.RWMutex
	jobs map[string]*Job
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{jobs: make(map[string]*Job)}
}

// Create registers a new job in the processing state and returns its ID.
func (r *Registry) Create() string {
	id := uuid.NewString()
	r.mu.Lock()
	r.jobs[id] = &Job{
		ID:        id,
		Status:    StatusProcessing,
		CreatedAt: time.Now().UTC(),
	}
	r.mu.Unlock()
	return id
}

// Get returns a copy of the job, or ErrNotFound.
func (r *Registry) Get(id string) (Job, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	j, ok := r.jobs[id]
	if !ok {
		return Job{}, ErrNotFound
	}
	return *j, nil
}

// SetProgress updates progress for a job still processing. Progress is
// clamped to [0,1]; terminal jobs are left untouched.
func (r *Registry) SetProgress(id string, progress float64) {
	if progress < 0 {
		progress = 0
	}
	if progress > 1 {
		progress = 1
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	j, ok := r.jobs[id]
	if !ok || j.Status != StatusProcessing {
		return
	}
	j.Progress = progress
}

// Complete marks a job finished with its output path.
func (r *Registry) Complete(id, outputPath string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	j, ok := r.jobs[id]
	if !ok {
		return
	}
	j.Status = StatusComplete
	j.Progress = 1
	j.OutputPath = &outputPath
	j.Error = nil
}

// Fail marks a job failed with a message.
func (r *Registry) Fail(id, message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	j, ok := r.jobs[id]
	if !ok {
		return
	}
	j.Status = StatusError
	j.Error = &message
	j.OutputPath = nil
}
