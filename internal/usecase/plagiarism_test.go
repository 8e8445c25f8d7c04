package usecase_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/ironquill/assesspoint/internal/domain"
	"github.com/ironquill/assesspoint/internal/domain/mocks"
	"github.com/ironquill/assesspoint/internal/usecase"
)

// fakeVectorSearcher is a hand-written stand-in for usecase.VectorSearcher,
// which is a narrow local interface rather than a generated domain mock.
type fakeVectorSearcher struct {
	hits          []map[string]any
	searchErr     error
	upsertErr     error
	upsertedVecs  [][]float32
	lastSearchVec []float32
}

func (f *fakeVectorSearcher) Search(_ domain.Context, _ string, vector []float32, _ int) ([]map[string]any, error) {
	f.lastSearchVec = vector
	return f.hits, f.searchErr
}

func (f *fakeVectorSearcher) UpsertPoints(_ domain.Context, _ string, vectors [][]float32, _ []map[string]any, _ []any) error {
	f.upsertedVecs = vectors
	return f.upsertErr
}

func TestPlagiarism_Check_SkipsWhenDependenciesMissing(t *testing.T) {
	t.Parallel()
	svc := usecase.NewPlagiarismService(nil, nil)
	block, err := svc.Check(context.Background(), "jd-1", "q1", "cand-1", "some answer text")
	require.NoError(t, err)
	assert.False(t, block.Checked)
	assert.False(t, block.IsFlagged)
}

func TestPlagiarism_Check_SkipsEmptyText(t *testing.T) {
	t.Parallel()
	ai := mocks.NewMockAIClient(t)
	vec := &fakeVectorSearcher{}
	svc := usecase.NewPlagiarismService(ai, vec)
	block, err := svc.Check(context.Background(), "jd-1", "q1", "cand-1", "")
	require.NoError(t, err)
	assert.False(t, block.Checked)
	ai.AssertNotCalled(t, "Embed", mock.Anything, mock.Anything)
}

func TestPlagiarism_Check_FlagsAboveSimilarityThreshold(t *testing.T) {
	t.Parallel()
	ai := mocks.NewMockAIClient(t)
	ai.EXPECT().Embed(mock.Anything, []string{"this answer is copied"}).Return([][]float32{{0.1, 0.2, 0.3}}, nil)

	vec := &fakeVectorSearcher{hits: []map[string]any{
		{
			"score": 0.92,
			"payload": map[string]any{
				"questionId":            "q1",
				"candidateAssessmentId": "cand-2",
			},
		},
	}}

	svc := usecase.NewPlagiarismService(ai, vec)
	block, err := svc.Check(context.Background(), "jd-1", "q1", "cand-1", "this answer is copied")
	require.NoError(t, err)
	assert.True(t, block.Checked)
	assert.True(t, block.IsFlagged)
	assert.Equal(t, "cand-2", block.MatchedCandidate)
	assert.InDelta(t, 0.92, block.SimilarityScore, 0.001)
	require.Len(t, vec.upsertedVecs, 1)
}

func TestPlagiarism_Check_IgnoresMatchesAgainstOtherQuestionsOrSelf(t *testing.T) {
	t.Parallel()
	ai := mocks.NewMockAIClient(t)
	ai.EXPECT().Embed(mock.Anything, []string{"original answer"}).Return([][]float32{{0.4, 0.5}}, nil)

	vec := &fakeVectorSearcher{hits: []map[string]any{
		{"score": 0.99, "payload": map[string]any{"questionId": "other-question", "candidateAssessmentId": "cand-2"}},
		{"score": 0.95, "payload": map[string]any{"questionId": "q1", "candidateAssessmentId": "cand-1"}},
	}}

	svc := usecase.NewPlagiarismService(ai, vec)
	block, err := svc.Check(context.Background(), "jd-1", "q1", "cand-1", "original answer")
	require.NoError(t, err)
	assert.True(t, block.Checked)
	assert.False(t, block.IsFlagged)
}

func TestPlagiarism_Check_BelowThresholdNotFlagged(t *testing.T) {
	t.Parallel()
	ai := mocks.NewMockAIClient(t)
	ai.EXPECT().Embed(mock.Anything, []string{"somewhat similar answer"}).Return([][]float32{{0.1}}, nil)

	vec := &fakeVectorSearcher{hits: []map[string]any{
		{"score": 0.5, "payload": map[string]any{"questionId": "q1", "candidateAssessmentId": "cand-2"}},
	}}

	svc := usecase.NewPlagiarismService(ai, vec)
	block, err := svc.Check(context.Background(), "jd-1", "q1", "cand-1", "somewhat similar answer")
	require.NoError(t, err)
	assert.True(t, block.Checked)
	assert.False(t, block.IsFlagged)
}
