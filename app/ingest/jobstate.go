package ingest

import (
	"errors"
	"sync"
	"time"
)

// ErrAlreadyRunning rejects a trigger that arrives while an ingestion
// run is in flight. Runs are never queued.
var ErrAlreadyRunning = errors.New("ingestion run already in progress")

type JobStatus string

const (
	StatusIdle      JobStatus = "idle"
	StatusRunning   JobStatus = "running"
	StatusCompleted JobStatus = "completed"
	StatusFailed    JobStatus = "failed"
)

// JobSnapshot is a point-in-time view of the single ingestion slot.
type JobSnapshot struct {
	Status     JobStatus    `json:"status"`
	StartedAt  *time.Time   `json:"started_at,omitempty"`
	FinishedAt *time.Time   `json:"finished_at,omitempty"`
	Error      string       `json:"error,omitempty"`
	LastRun    []RunSummary `json:"last_run,omitempty"`
}

// jobState serializes ingestion runs: at most one holds the slot, a
// second Start fails with ErrAlreadyRunning.
type jobState struct {
	mu         sync.Mutex
	status     JobStatus
	startedAt  time.Time
	finishedAt time.Time
	errMsg     string
	lastRun    []RunSummary
}

func newJobState() *jobState {
	return &jobState{status: StatusIdle}
}

func (s *jobState) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.status == StatusRunning {
		return ErrAlreadyRunning
	}

	s.status = StatusRunning
	s.startedAt = time.Now()
	s.finishedAt = time.Time{}
	s.errMsg = ""
	return nil
}

func (s *jobState) Finish(summaries []RunSummary, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.finishedAt = time.Now()
	s.lastRun = summaries
	if err != nil {
		s.status = StatusFailed
		s.errMsg = err.Error()
	} else {
		s.status = StatusCompleted
	}
}

func (s *jobState) Snapshot() JobSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := JobSnapshot{
		Status:  s.status,
		Error:   s.errMsg,
		LastRun: s.lastRun,
	}
	if !s.startedAt.IsZero() {
		started := s.startedAt
		snapshot.StartedAt = &started
	}
	if !s.finishedAt.IsZero() {
		finished := s.finishedAt
		snapshot.FinishedAt = &finished
	}
	return snapshot
}
