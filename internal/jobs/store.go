// Package jobs holds the mutable state of in-flight and completed report
// jobs. The store is the single source of truth for section ordering: the
// stream and the final cached report both read from it.
package jobs

import (
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/HumbledDS/dd-intelligence-assistant/pkg/models"
)

var (
	ErrNotFound = errors.New("job not found")
	ErrTerminal = errors.New("job already terminal")
)

const (
	defaultRetention = 30 * time.Minute

	// Generous bound: a pipeline run emits well under this many events
	// (at most a handful of sections plus one terminal marker), so sends
	// to a subscriber channel never block.
	subscriberBuffer = 64
)

// Event is one element of a job's observable event sequence: either a
// section append or the single terminal status marker.
type Event struct {
	Section  *models.Section
	Terminal bool
	Status   string
}

type jobState struct {
	job         models.Job
	subscribers map[int]chan Event
	nextSubID   int
	evictAt     time.Time
}

// Store is an in-memory job store. Each job has a single writer (the
// pipeline goroutine that owns it) and any number of readers; reads return
// copies so no reader ever blocks a writer.
type Store struct {
	mu        sync.RWMutex
	jobs      map[uuid.UUID]*jobState
	retention time.Duration
	now       func() time.Time
}

// NewStore creates a Store that evicts terminal jobs after retention.
// retention <= 0 selects the default.
func NewStore(retention time.Duration) *Store {
	if retention <= 0 {
		retention = defaultRetention
	}
	return &Store{
		jobs:      make(map[uuid.UUID]*jobState),
		retention: retention,
		now:       time.Now,
	}
}

// Create registers a new queued job and returns a copy of it.
func (s *Store) Create(siren string, variant models.Variant) models.Job {
	job := models.Job{
		ID:        uuid.New(),
		Siren:     siren,
		Variant:   variant,
		Status:    models.JobStatusQueued,
		CreatedAt: s.now().UTC(),
	}
	s.mu.Lock()
	s.jobs[job.ID] = &jobState{job: job, subscribers: make(map[int]chan Event)}
	s.mu.Unlock()
	return job
}

// Get returns a copy of the job, or false if unknown or evicted.
func (s *Store) Get(id uuid.UUID) (models.Job, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st, ok := s.jobs[id]
	if !ok {
		return models.Job{}, false
	}
	return copyJob(&st.job), true
}

// MarkProcessing transitions a queued job to processing.
func (s *Store) MarkProcessing(id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.jobs[id]
	if !ok {
		return ErrNotFound
	}
	if models.TerminalStatus(st.job.Status) {
		return ErrTerminal
	}
	st.job.Status = models.JobStatusProcessing
	return nil
}

// AppendSection appends one section to the job's log, assigning the next
// sequence number, and wakes every subscriber. The append is visible to
// concurrent readers as soon as this returns.
func (s *Store) AppendSection(id uuid.UUID, kind string, payload json.RawMessage, errDetail string) (models.Section, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.jobs[id]
	if !ok {
		return models.Section{}, ErrNotFound
	}
	if models.TerminalStatus(st.job.Status) {
		return models.Section{}, ErrTerminal
	}
	sec := models.Section{
		Seq:     len(st.job.Sections),
		Kind:    kind,
		Payload: payload,
		Error:   errDetail,
	}
	st.job.Sections = append(st.job.Sections, sec)
	for _, ch := range st.subscribers {
		ch <- Event{Section: &sec}
	}
	return sec, nil
}

// Complete transitions the job to its completed terminal status.
func (s *Store) Complete(id uuid.UUID) error {
	return s.finish(id, models.JobStatusCompleted, "")
}

// Fail transitions the job to its failed terminal status with an error
// summary explaining which phase failed and why.
func (s *Store) Fail(id uuid.UUID, errSummary string) error {
	return s.finish(id, models.JobStatusFailed, errSummary)
}

func (s *Store) finish(id uuid.UUID, status, errSummary string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.jobs[id]
	if !ok {
		return ErrNotFound
	}
	if models.TerminalStatus(st.job.Status) {
		return ErrTerminal
	}
	st.job.Status = status
	now := s.now().UTC()
	st.job.CompletedAt = &now
	if errSummary != "" {
		st.job.Error = &errSummary
	}
	st.evictAt = s.now().Add(s.retention)
	for subID, ch := range st.subscribers {
		ch <- Event{Terminal: true, Status: status}
		close(ch)
		delete(st.subscribers, subID)
	}
	return nil
}

// Subscribe returns a channel of the job's events in strictly increasing
// sequence order. Sections already in the log are replayed first, oldest
// first, then live appends, then exactly one terminal event; the channel is
// closed after the terminal event. Each subscriber gets its own independent
// sequence. The returned cancel func detaches the observer without
// affecting the job and is safe to call more than once.
func (s *Store) Subscribe(id uuid.UUID) (<-chan Event, func(), error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.jobs[id]
	if !ok {
		return nil, nil, ErrNotFound
	}

	ch := make(chan Event, subscriberBuffer)
	for i := range st.job.Sections {
		sec := st.job.Sections[i]
		ch <- Event{Section: &sec}
	}
	if models.TerminalStatus(st.job.Status) {
		ch <- Event{Terminal: true, Status: st.job.Status}
		close(ch)
		return ch, func() {}, nil
	}

	subID := st.nextSubID
	st.nextSubID++
	st.subscribers[subID] = ch

	cancel := func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if cur, ok := s.jobs[id]; ok {
			if c, live := cur.subscribers[subID]; live {
				delete(cur.subscribers, subID)
				close(c)
			}
		}
	}
	return ch, cancel, nil
}

// EvictExpired drops terminal jobs whose retention window has passed and
// returns how many were removed. Call on a timer.
func (s *Store) EvictExpired() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	evicted := 0
	for id, st := range s.jobs {
		if models.TerminalStatus(st.job.Status) && now.After(st.evictAt) {
			delete(s.jobs, id)
			evicted++
		}
	}
	return evicted
}

// Len returns the number of tracked jobs.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.jobs)
}

func copyJob(j *models.Job) models.Job {
	out := *j
	out.Sections = make([]models.Section, len(j.Sections))
	copy(out.Sections, j.Sections)
	return out
}
