package usecase

import "sync"

// candidateLocks serializes all session mutations for one candidate, per
// spec.md §5. Proctoring event ingest deliberately bypasses this lock — it
// only bumps atomic counters via CandidateRepository.IncrementProctoringCounters.
type candidateLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newCandidateLocks() *candidateLocks {
	return &candidateLocks{locks: make(map[string]*sync.Mutex)}
}

// Lock acquires the advisory lock for candidateAssessmentID, returning an
// unlock function. Per-key mutexes are never removed once created, so the
// map grows by one entry for each distinct candidate the process has locked.
func (c *candidateLocks) Lock(candidateAssessmentID string) func() {
	c.mu.Lock()
	m, ok := c.locks[candidateAssessmentID]
	if !ok {
		m = &sync.Mutex{}
		c.locks[candidateAssessmentID] = m
	}
	c.mu.Unlock()

	m.Lock()
	return m.Unlock
}
