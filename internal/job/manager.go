package job

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/maauso/mediajob-server/internal/job/id"
)

// Static errors returned by Manager operations.
var (
	// ErrNotFound is returned when a job or batch id does not exist.
	ErrNotFound = errors.New("job: not found")
)

const maxIDAttempts = 8

// Manager is the central data structure of the server: it owns every
// Job and Batch for the process lifetime and serializes all mutating
// access behind a single lock held for each method's entire body.
type Manager struct {
	mu      sync.Mutex
	jobs    map[string]*Job
	batches map[string]*Batch
	sinks   map[string][]*Sink
	logger  *slog.Logger
}

// NewManager creates an empty Manager.
func NewManager(logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{
		jobs:    make(map[string]*Job),
		batches: make(map[string]*Batch),
		sinks:   make(map[string][]*Sink),
		logger:  logger,
	}
}

// Create allocates a new Job in Pending status with a fresh 12-hex id,
// retrying on the astronomically rare collision.
func (m *Manager) Create(processorID, originalFilename string) (*Job, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var newID string
	for attempt := 0; ; attempt++ {
		candidate := id.Generate()
		if _, exists := m.jobs[candidate]; !exists {
			newID = candidate
			break
		}
		if attempt >= maxIDAttempts {
			return nil, fmt.Errorf("job: exhausted %d id generation attempts", maxIDAttempts)
		}
	}

	j := &Job{
		ID:               newID,
		ProcessorID:      processorID,
		OriginalFilename: originalFilename,
		Status:           StatusPending,
		CreatedAt:        time.Now().UTC(),
	}
	m.jobs[newID] = j

	m.logger.Info("job created",
		slog.String("job_id", j.ID),
		slog.String("processor_id", processorID),
		slog.String("original_filename", originalFilename),
	)

	return j.Clone(), nil
}

// Get returns a snapshot of the job, or ErrNotFound.
func (m *Manager) Get(jobID string) (*Job, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	j, ok := m.jobs[jobID]
	if !ok {
		return nil, ErrNotFound
	}
	return j.Clone(), nil
}

// GetBatch returns a snapshot of the batch, or ErrNotFound.
func (m *Manager) GetBatch(batchID string) (*Batch, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.batches[batchID]
	if !ok {
		return nil, ErrNotFound
	}
	return b.Clone(), nil
}

// UpdateProgress mutates progress and message, transitions Pending ->
// Processing on first call, and publishes the resulting event to every
// current subscriber before returning — so any caller reading the Job
// immediately afterward is consistent with what subscribers observed.
func (m *Manager) UpdateProgress(jobID string, percent float64, message string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	j, ok := m.jobs[jobID]
	if !ok {
		return ErrNotFound
	}
	if j.Status == StatusPending {
		if !canTransition(j.Status, StatusProcessing) {
			return ErrInvalidTransition
		}
		j.Status = StatusProcessing
	}
	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}
	j.Progress = roundToOneDecimal(percent)
	j.Message = message

	m.publishLocked(jobID, Event{Progress: j.Progress, Message: j.Message, Status: j.Status})
	return nil
}

// MarkCompleted sets status=Completed, progress=100, message="Done!",
// and the result path. It does not publish an event — the caller emits
// the terminal event through Finish after calling this.
func (m *Manager) MarkCompleted(jobID, resultPath string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	j, ok := m.jobs[jobID]
	if !ok {
		return ErrNotFound
	}
	if !canTransition(j.Status, StatusCompleted) {
		return ErrInvalidTransition
	}
	j.Status = StatusCompleted
	j.Progress = 100
	j.Message = "Done!"
	j.ResultPath = resultPath
	j.ResultExtension = deriveExtension(resultPath)
	return nil
}

// MarkFailed sets status=Failed and records the error message. Progress
// is left at its last reported value.
func (m *Manager) MarkFailed(jobID, errMsg string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	j, ok := m.jobs[jobID]
	if !ok {
		return ErrNotFound
	}
	if !canTransition(j.Status, StatusFailed) {
		return ErrInvalidTransition
	}
	j.Status = StatusFailed
	j.Error = &errMsg
	j.Message = "Error: " + errMsg
	return nil
}

// Finish publishes exactly one terminal event per subscriber. The
// job-execution task MUST call this after MarkCompleted/MarkFailed, as
// the single normalized entry point for terminal-event publication.
// Calling it on an already-finished job is idempotent: it simply
// republishes the current terminal snapshot as an event.
func (m *Manager) Finish(jobID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	j, ok := m.jobs[jobID]
	if !ok {
		return ErrNotFound
	}
	if !j.Status.IsTerminal() {
		return fmt.Errorf("job: Finish called on non-terminal job %s", jobID)
	}

	m.publishLocked(jobID, Event{Progress: j.Progress, Message: j.Message, Status: j.Status})
	return nil
}

// publishLocked enqueues event to every sink registered for jobID, in
// registration order. Caller must hold m.mu.
func (m *Manager) publishLocked(jobID string, e Event) {
	for _, s := range m.sinks[jobID] {
		s.push(e)
	}
}

// Subscribe registers a new sink for jobID and returns it.
func (m *Manager) Subscribe(jobID string) (*Sink, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.jobs[jobID]; !ok {
		return nil, ErrNotFound
	}
	s := NewSink()
	m.sinks[jobID] = append(m.sinks[jobID], s)
	return s, nil
}

// SubscribeWithSnapshot atomically reads the current Job snapshot and
// registers a new sink for it under a single lock acquisition, so no
// event published between the two can be lost: a caller that instead
// called Get then Subscribe separately could miss an UpdateProgress
// landing in the gap, since it wouldn't be in the snapshot already read
// and the sink wouldn't yet be registered to receive it.
func (m *Manager) SubscribeWithSnapshot(jobID string) (*Job, *Sink, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	j, ok := m.jobs[jobID]
	if !ok {
		return nil, nil, ErrNotFound
	}
	s := NewSink()
	m.sinks[jobID] = append(m.sinks[jobID], s)
	return j.Clone(), s, nil
}

// Unsubscribe removes sink from jobID's subscriber list. It tolerates
// being called with a sink it no longer tracks.
func (m *Manager) Unsubscribe(jobID string, s *Sink) {
	m.mu.Lock()
	defer m.mu.Unlock()
	list := m.sinks[jobID]
	for i, candidate := range list {
		if candidate == s {
			m.sinks[jobID] = append(list[:i], list[i+1:]...)
			return
		}
	}
}

// CreateBatch creates a Batch record grouping the given jobIDs, in
// submission order.
func (m *Manager) CreateBatch(processorID string, jobIDs []string) (*Batch, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var newID string
	for attempt := 0; ; attempt++ {
		candidate := id.Generate()
		if _, exists := m.batches[candidate]; !exists {
			newID = candidate
			break
		}
		if attempt >= maxIDAttempts {
			return nil, fmt.Errorf("job: exhausted %d id generation attempts", maxIDAttempts)
		}
	}

	b := &Batch{
		ID:          newID,
		ProcessorID: processorID,
		JobIDs:      append([]string(nil), jobIDs...),
		CreatedAt:   time.Now().UTC(),
	}
	m.batches[newID] = b
	return b.Clone(), nil
}

// CollectExpired returns the ids of jobs in a terminal state whose
// CreatedAt is older than maxAge.
func (m *Manager) CollectExpired(maxAge time.Duration) []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	cutoff := time.Now().UTC().Add(-maxAge)
	var expired []string
	for jobID, j := range m.jobs {
		if j.Status.IsTerminal() && j.CreatedAt.Before(cutoff) {
			expired = append(expired, jobID)
		}
	}
	return expired
}

// RemoveJob removes the Job, removes it from every Batch it appears in,
// and removes any Batch that becomes empty as a result.
func (m *Manager) RemoveJob(jobID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.jobs, jobID)
	delete(m.sinks, jobID)

	for batchID, b := range m.batches {
		filtered := b.JobIDs[:0:0]
		for _, id := range b.JobIDs {
			if id != jobID {
				filtered = append(filtered, id)
			}
		}
		if len(filtered) == 0 {
			delete(m.batches, batchID)
			continue
		}
		b.JobIDs = filtered
	}
}

func roundToOneDecimal(v float64) float64 {
	return float64(int64(v*10+0.5)) / 10
}
