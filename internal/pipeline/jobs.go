package pipeline

import (
	"crypto/sha256"
	"fmt"
	"sync"
	"time"

	"github.com/bmcallis/aknetl/internal/akn"
)

// JobStatus represents the state of a transform job.
type JobStatus string

const (
	StatusQueued       JobStatus = "queued"
	StatusReading      JobStatus = "reading"
	StatusTransforming JobStatus = "transforming"
	StatusSerializing  JobStatus = "serializing"
	StatusCompleted    JobStatus = "completed"
	StatusFailed       JobStatus = "failed"
	StatusReview       JobStatus = "completed_with_findings"
)

// Job tracks the state of a single document transform.
type Job struct {
	mu sync.Mutex

	ID       string    `json:"job_id"`
	Filename string    `json:"filename"`
	Title    string    `json:"title"`
	Status   JobStatus `json:"status"`
	Phase    string    `json:"phase"`

	Counts Counts `json:"counts"`

	ContentHash string    `json:"content_hash,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// Internal: not serialized.
	fileData []byte
	metaXML  string
	result   []byte
	findings []akn.Finding
	errors   []string
}

// Counts summarizes the structure recovered by a completed transform.
type Counts struct {
	Chapters int `json:"chapters"`
	Sections int `json:"sections"`
	Articles int `json:"articles"`
	Recitals int `json:"recitals"`
	Findings int `json:"findings"`
}

// JobStore is a thread-safe in-memory job registry with TTL eviction.
type JobStore struct {
	mu   sync.Mutex
	jobs map[string]*Job
	ttl  time.Duration
}

func NewJobStore(ttl time.Duration) *JobStore {
	return &JobStore{
		jobs: make(map[string]*Job),
		ttl:  ttl,
	}
}

func (s *JobStore) Put(job *Job) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs[job.ID] = job
}

func (s *JobStore) Get(id string) *Job {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.jobs[id]
}

// Cleanup removes expired jobs.
func (s *JobStore) Cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	for id, job := range s.jobs {
		if now.Sub(job.UpdatedAt) > s.ttl {
			delete(s.jobs, id)
		}
	}
}

// SetStatus updates job status atomically.
func (j *Job) SetStatus(status JobStatus, phase string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Status = status
	j.Phase = phase
	j.UpdatedAt = time.Now()
}

// AddError records an error.
func (j *Job) AddError(err string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.errors = append(j.errors, err)
	j.UpdatedAt = time.Now()
}

// SetFileData sets the raw file bytes for processing.
func (j *Job) SetFileData(data []byte) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.fileData = data
}

// FileData returns the raw file bytes.
func (j *Job) FileData() []byte {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.fileData
}

// SetMetaXML stores the rendered metadata block passed through to the output.
func (j *Job) SetMetaXML(meta string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.metaXML = meta
}

// MetaXML returns the rendered metadata block.
func (j *Job) MetaXML() string {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.metaXML
}

// SetResult stores the serialized markup plus the review findings and counts.
func (j *Job) SetResult(xml []byte, findings []akn.Finding, counts Counts) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.result = xml
	j.findings = findings
	j.Counts = counts
	j.UpdatedAt = time.Now()
}

// Result returns the serialized markup, nil until the job completes.
func (j *Job) Result() []byte {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.result
}

// Findings returns a copy of the review list produced by the transform.
func (j *Job) Findings() []akn.Finding {
	j.mu.Lock()
	defer j.mu.Unlock()
	out := make([]akn.Finding, len(j.findings))
	copy(out, j.findings)
	return out
}

// JobSnapshot is a read-only, JSON-safe copy of job state.
type JobSnapshot struct {
	ID        string    `json:"job_id"`
	Filename  string    `json:"filename"`
	Title     string    `json:"title"`
	Status    JobStatus `json:"status"`
	Phase     string    `json:"phase"`
	Counts    Counts    `json:"counts"`
	Errors    []string  `json:"errors"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Snapshot returns a JSON-safe copy of the job state.
func (j *Job) Snapshot() JobSnapshot {
	j.mu.Lock()
	defer j.mu.Unlock()
	errs := make([]string, len(j.errors))
	copy(errs, j.errors)
	return JobSnapshot{
		ID:        j.ID,
		Filename:  j.Filename,
		Title:     j.Title,
		Status:    j.Status,
		Phase:     j.Phase,
		Counts:    j.Counts,
		Errors:    errs,
		CreatedAt: j.CreatedAt,
		UpdatedAt: j.UpdatedAt,
	}
}

// ContentHashHex computes SHA-256 of content and returns hex string.
func ContentHashHex(data []byte) string {
	h := sha256.Sum256(data)
	return fmt.Sprintf("%x", h[:])
}
