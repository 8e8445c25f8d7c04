package redpanda

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ironquill/assesspoint/internal/domain"
)

type fakeProctoringRepo struct {
	created []*domain.ProctoringEvent
	failNext bool
}

func (f *fakeProctoringRepo) Create(_ domain.Context, e *domain.ProctoringEvent) error {
	if f.failNext {
		return assert.AnError
	}
	f.created = append(f.created, e)
	return nil
}

func (f *fakeProctoringRepo) ListByCandidate(_ domain.Context, _ string, _, _ int) ([]*domain.ProctoringEvent, error) {
	return f.created, nil
}

func (f *fakeProctoringRepo) MarkReviewed(_ domain.Context, _, _, _ string) error { return nil }

type fakeCandidateRepoCounters struct {
	domain.CandidateRepository
	lastID       string
	lastCounters domain.ProctoringStats
	calls        int
}

func (f *fakeCandidateRepoCounters) IncrementProctoringCounters(_ domain.Context, id string, events domain.ProctoringStats) error {
	f.calls++
	f.lastID = id
	f.lastCounters = events
	return nil
}

func TestConsumer_Handle_ClassifiesAndPersists(t *testing.T) {
	proctoring := &fakeProctoringRepo{}
	candidates := &fakeCandidateRepoCounters{}

	c := &Consumer{proctoring: proctoring, candidates: candidates}

	w := wireEvent{
		CandidateAssessmentID: "ca-1",
		Type:                  domain.EventMultipleFaces,
		Section:               domain.Section("mcq"),
		OccurredAt:            "2026-01-02T03:04:05.000Z",
	}
	raw, err := marshalWire(w)
	require.NoError(t, err)

	require.NoError(t, c.handle(context.Background(), raw))

	require.Len(t, proctoring.created, 1)
	assert.Equal(t, domain.SeverityHigh, proctoring.created[0].Severity)
	assert.Equal(t, "ca-1", proctoring.created[0].CandidateAssessmentID)

	assert.Equal(t, 1, candidates.calls)
	assert.Equal(t, "ca-1", candidates.lastID)
	assert.Equal(t, 1, candidates.lastCounters.TotalEvents)
	assert.Equal(t, 1, candidates.lastCounters.HighSeverityEvents)
}

func TestConsumer_Handle_TabSwitchCounters(t *testing.T) {
	proctoring := &fakeProctoringRepo{}
	candidates := &fakeCandidateRepoCounters{}
	c := &Consumer{proctoring: proctoring, candidates: candidates}

	w := wireEvent{CandidateAssessmentID: "ca-2", Type: domain.EventTabSwitch, OccurredAt: "2026-01-02T03:04:05.000Z"}
	raw, err := marshalWire(w)
	require.NoError(t, err)

	require.NoError(t, c.handle(context.Background(), raw))
	assert.Equal(t, 1, candidates.lastCounters.TabSwitches)
	assert.Equal(t, 0, candidates.lastCounters.HighSeverityEvents)
}

func TestConsumer_Handle_PropagatesCreateError(t *testing.T) {
	proctoring := &fakeProctoringRepo{failNext: true}
	candidates := &fakeCandidateRepoCounters{}
	c := &Consumer{proctoring: proctoring, candidates: candidates}

	w := wireEvent{CandidateAssessmentID: "ca-3", Type: domain.EventNoFace, OccurredAt: "2026-01-02T03:04:05.000Z"}
	raw, err := marshalWire(w)
	require.NoError(t, err)

	err = c.handle(context.Background(), raw)
	require.Error(t, err)
	assert.Equal(t, 0, candidates.calls)
}

func marshalWire(w wireEvent) ([]byte, error) {
	return json.Marshal(w)
}
