package usecase_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/ironquill/assesspoint/internal/domain"
	"github.com/ironquill/assesspoint/internal/domain/mocks"
	"github.com/ironquill/assesspoint/internal/usecase"
)

const detectJSON = `{"need_follow_up":true,"confidence":%v,"reason":"vague","summarized_answer":"candidate described caching briefly"}`
const generateJSON = `{"follow_up_question":"%s","expected_answer":"expects detail on eviction policy"}`

func TestFollowUp_AdmitsBelowTargetThreshold(t *testing.T) {
	t.Parallel()
	interviews := mocks.NewMockInterviewRepository(t)
	ai := mocks.NewMockAIClient(t)

	meta := &domain.InterviewMetadata{
		ID: "meta-1", CandidateAssessmentID: "cand-1",
		BaseQuestionCount: 2, MaxQuestions: 6, MinQuestions: 2,
		CurrentTotalQuestions: 2, FollowupCount: 0,
	}
	interviews.EXPECT().GetOrCreateMetadata(mock.Anything, "cand-1", 2, 2, 6).Return(meta, nil)
	// detector call: meta.FollowupCount(0) < target(3), so threshold is 0.65; 0.9 passes
	ai.EXPECT().ChatJSON(mock.Anything, mock.Anything, mock.Anything, 512).
		Return(fmt.Sprintf(detectJSON, 0.9), nil).Once()
	interviews.EXPECT().ListFollowUps(mock.Anything, "cand-1").Return(nil, nil)
	ai.EXPECT().ChatJSON(mock.Anything, mock.Anything, mock.Anything, 512).
		Return(fmt.Sprintf(generateJSON, "what happens on cache eviction?"), nil).Once()
	interviews.EXPECT().RecentQuestions(mock.Anything, "cand-1", 6).Return(nil, nil)
	interviews.EXPECT().CreateFollowUp(mock.Anything, mock.MatchedBy(func(f *domain.FollowUpQuestion) bool {
		return f.SortKey == domain.SortKeyFor(0, 1) && f.OriginBaseIndex == 0
	})).Return(nil)
	interviews.EXPECT().UpdateMetadata(mock.Anything, mock.MatchedBy(func(m *domain.InterviewMetadata) bool {
		return m.FollowupCount == 1 && m.ApprovedCount == 1 && m.CurrentTotalQuestions == 3
	})).Return(nil)

	engine := usecase.NewFollowUpEngine(interviews, ai)
	got, err := engine.ProcessAnswer(context.Background(), "cand-1", 0, 2, 2, 6, "explain caching", "we use an LRU")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "what happens on cache eviction?", got.Question)
}

func TestFollowUp_RejectsAtTargetBelowRaisedThreshold(t *testing.T) {
	t.Parallel()
	interviews := mocks.NewMockInterviewRepository(t)
	ai := mocks.NewMockAIClient(t)

	// base=2, max=6 => target = min(ceil(1.5*2), 6-2) = min(3,4) = 3
	meta := &domain.InterviewMetadata{
		ID: "meta-1", CandidateAssessmentID: "cand-1",
		BaseQuestionCount: 2, MaxQuestions: 6, MinQuestions: 2,
		CurrentTotalQuestions: 5, FollowupCount: 3,
	}
	interviews.EXPECT().GetOrCreateMetadata(mock.Anything, "cand-1", 2, 2, 6).Return(meta, nil)
	ai.EXPECT().ChatJSON(mock.Anything, mock.Anything, mock.Anything, 512).
		Return(fmt.Sprintf(detectJSON, 0.70), nil).Once()
	interviews.EXPECT().ListFollowUps(mock.Anything, "cand-1").Return(nil, nil)
	interviews.EXPECT().UpdateMetadata(mock.Anything, mock.MatchedBy(func(m *domain.InterviewMetadata) bool {
		return m.RejectedCount == 1
	})).Return(nil)

	engine := usecase.NewFollowUpEngine(interviews, ai)
	got, err := engine.ProcessAnswer(context.Background(), "cand-1", 1, 2, 2, 6, "explain indexing", "btree stuff")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestFollowUp_RejectsWhenOriginAlreadyHasMaxFollowUps(t *testing.T) {
	t.Parallel()
	interviews := mocks.NewMockInterviewRepository(t)
	ai := mocks.NewMockAIClient(t)

	meta := &domain.InterviewMetadata{
		ID: "meta-1", CandidateAssessmentID: "cand-1",
		BaseQuestionCount: 3, MaxQuestions: 10, CurrentTotalQuestions: 4,
	}
	interviews.EXPECT().GetOrCreateMetadata(mock.Anything, "cand-1", 3, 2, 10).Return(meta, nil)
	ai.EXPECT().ChatJSON(mock.Anything, mock.Anything, mock.Anything, 512).
		Return(fmt.Sprintf(detectJSON, 0.95), nil).Once()
	interviews.EXPECT().ListFollowUps(mock.Anything, "cand-1").Return([]*domain.FollowUpQuestion{
		{OriginBaseIndex: 0}, {OriginBaseIndex: 0},
	}, nil)
	interviews.EXPECT().UpdateMetadata(mock.Anything, mock.Anything).Return(nil)

	engine := usecase.NewFollowUpEngine(interviews, ai)
	got, err := engine.ProcessAnswer(context.Background(), "cand-1", 0, 3, 2, 10, "q", "a")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestFollowUp_RejectsWhenNoSlotsRemainForRemainingBaseQuestions(t *testing.T) {
	t.Parallel()
	interviews := mocks.NewMockInterviewRepository(t)
	ai := mocks.NewMockAIClient(t)

	// base=4, max=5: only 1 follow-up slot total. originBaseIndex=1 leaves 2
	// remaining base questions (indices 2,3) but 0 slots remain after this one,
	// so the reservation check rejects even though confidence is high.
	meta := &domain.InterviewMetadata{
		ID: "meta-1", CandidateAssessmentID: "cand-1",
		BaseQuestionCount: 4, MaxQuestions: 5, CurrentTotalQuestions: 4,
	}
	interviews.EXPECT().GetOrCreateMetadata(mock.Anything, "cand-1", 4, 2, 5).Return(meta, nil)
	ai.EXPECT().ChatJSON(mock.Anything, mock.Anything, mock.Anything, 512).
		Return(fmt.Sprintf(detectJSON, 0.95), nil).Once()
	interviews.EXPECT().ListFollowUps(mock.Anything, "cand-1").Return(nil, nil)
	interviews.EXPECT().UpdateMetadata(mock.Anything, mock.Anything).Return(nil)

	engine := usecase.NewFollowUpEngine(interviews, ai)
	got, err := engine.ProcessAnswer(context.Background(), "cand-1", 1, 4, 2, 5, "q", "a")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestFollowUp_RegeneratesOnDuplicateQuestion(t *testing.T) {
	t.Parallel()
	interviews := mocks.NewMockInterviewRepository(t)
	ai := mocks.NewMockAIClient(t)

	meta := &domain.InterviewMetadata{
		ID: "meta-1", CandidateAssessmentID: "cand-1",
		BaseQuestionCount: 2, MaxQuestions: 10, CurrentTotalQuestions: 2,
	}
	interviews.EXPECT().GetOrCreateMetadata(mock.Anything, "cand-1", 2, 2, 10).Return(meta, nil)

	// calls happen, in order: detect, generate (duplicate), generate (regen)
	ai.EXPECT().ChatJSON(mock.Anything, mock.Anything, mock.Anything, 512).
		Return(fmt.Sprintf(detectJSON, 0.9), nil).Once()
	interviews.EXPECT().ListFollowUps(mock.Anything, "cand-1").Return(nil, nil)
	ai.EXPECT().ChatJSON(mock.Anything, mock.Anything, mock.Anything, 512).
		Return(fmt.Sprintf(generateJSON, "what is a hash map?"), nil).Once()
	interviews.EXPECT().RecentQuestions(mock.Anything, "cand-1", 6).Return([]string{"What is a hash map?"}, nil)
	ai.EXPECT().ChatJSON(mock.Anything, mock.Anything, mock.Anything, 512).
		Return(fmt.Sprintf(generateJSON, "how do you resolve hash collisions?"), nil).Once()

	interviews.EXPECT().CreateFollowUp(mock.Anything, mock.MatchedBy(func(f *domain.FollowUpQuestion) bool {
		return f.Question == "how do you resolve hash collisions?"
	})).Return(nil)
	interviews.EXPECT().UpdateMetadata(mock.Anything, mock.Anything).Return(nil)

	engine := usecase.NewFollowUpEngine(interviews, ai)
	got, err := engine.ProcessAnswer(context.Background(), "cand-1", 0, 2, 2, 10, "explain hash maps", "a key-value structure")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "how do you resolve hash collisions?", got.Question)
}

func TestSortKeyFor_OrdersFollowUpsAfterTheirBase(t *testing.T) {
	t.Parallel()
	assert.Equal(t, 0, domain.SortKeyFor(0, 0))
	assert.Equal(t, 1001, domain.SortKeyFor(1, 1))
	assert.True(t, domain.SortKeyFor(1, 1) > domain.SortKeyFor(0, 999))
}
