package state

import (
	"fmt"
	"sync"
	"time"

	"github.com/tparrish/hitch/internal/corral"
)

// Snapshot represents the latest schedule data available to the UI.
type Snapshot struct {
	Jobs                []corral.JobSummary
	LastUpdated         time.Time
	LastError           error
	ConsecutiveFailures int // Number of consecutive poll failures
}

// IsOffline returns true when the backend has been unreachable for multiple polls.
func (s Snapshot) IsOffline() bool {
	return s.ConsecutiveFailures >= 2
}

// Store coordinates concurrent updates to the snapshot.
type Store struct {
	mu       sync.RWMutex
	snapshot Snapshot
}

// Update replaces the stored schedule. When err is non-nil the previous data
// is kept but the error is recorded for visibility.
func (s *Store) Update(jobs []corral.JobSummary, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err != nil {
		s.snapshot.LastError = err
		s.snapshot.LastUpdated = time.Now()
		s.snapshot.ConsecutiveFailures++
		return
	}

	s.snapshot.Jobs = cloneJobs(jobs)
	s.snapshot.LastError = nil
	s.snapshot.LastUpdated = time.Now()
	s.snapshot.ConsecutiveFailures = 0
}

// Snapshot returns a copy of the current snapshot.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := s.snapshot
	snap.Jobs = cloneJobs(s.snapshot.Jobs)
	if s.snapshot.LastError != nil {
		snap.LastError = fmt.Errorf("%w", s.snapshot.LastError)
	}
	return snap
}

func cloneJobs(jobs []corral.JobSummary) []corral.JobSummary {
	if len(jobs) == 0 {
		return nil
	}
	dup := make([]corral.JobSummary, len(jobs))
	copy(dup, jobs)
	return dup
}
