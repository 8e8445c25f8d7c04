package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/ironquill/assesspoint/internal/domain"
	"github.com/ironquill/assesspoint/internal/domain/mocks"
	"github.com/ironquill/assesspoint/internal/usecase"
)

func candidateWithSet() *domain.CandidateAssessment {
	return &domain.CandidateAssessment{ID: "cand-1", AssignedSetID: "set-1"}
}

func setWithProgrammingQuestion() *domain.AssessmentSet {
	return &domain.AssessmentSet{
		ID: "set-1",
		Programming: []domain.ProgrammingQuestion{
			{
				QuestionID: "p1",
				Points:     20,
				TestCases: []domain.TestCase{
					{Input: "1", ExpectedOutput: "1", Weight: 1, Hidden: false},
					{Input: "2", ExpectedOutput: "2", Weight: 2, Hidden: true},
					{Input: "3", ExpectedOutput: "3", Weight: 1, Hidden: true},
				},
			},
		},
	}
}

func TestCodeExec_Submit_WeightedCorrectness(t *testing.T) {
	t.Parallel()
	sandbox := mocks.NewMockSandboxClient(t)
	answers := mocks.NewMockAnswerRepository(t)
	sets := mocks.NewMockSetRepository(t)
	candidates := mocks.NewMockCandidateRepository(t)

	candidates.EXPECT().Get(mock.Anything, "cand-1").Return(candidateWithSet(), nil)
	sets.EXPECT().Get(mock.Anything, "set-1").Return(setWithProgrammingQuestion(), nil)

	// sample passes, first hidden passes (weight 2), second hidden fails (weight 1)
	// weightedPassed = 1+2 = 3, weightedTotal = 1+2+1 = 4 => correctness = 75
	sandbox.EXPECT().RunTestCases(mock.Anything, "code", "python", mock.AnythingOfType("[]domain.TestCase")).Return([]domain.CaseResult{
		{ActualOutput: "1", Passed: true},
		{ActualOutput: "2", Passed: true},
		{ActualOutput: "x", Passed: false},
	}, nil)

	answers.EXPECT().GetOrCreate(mock.Anything, "cand-1", domain.SectionProgramming).Return(&domain.AssessmentAnswer{}, nil)
	answers.EXPECT().Get(mock.Anything, "cand-1", domain.SectionProgramming).Return(&domain.AssessmentAnswer{}, nil)
	answers.EXPECT().UpsertEntry(mock.Anything, "cand-1", domain.SectionProgramming, mock.MatchedBy(func(e domain.AnswerEntry) bool {
		if len(e.LastResults) != 3 {
			return false
		}
		// hidden cases must be redacted in stored form
		return e.LastResults[1].Input == "[hidden]" && e.LastResults[1].ExpectedOutput == "[hidden]" &&
			e.LastResults[0].Input == "1" && e.Points == 15
	})).Return(nil)

	svc := usecase.NewCodeExecService(sandbox, answers, sets, candidates, nil)
	result, err := svc.Submit(context.Background(), "cand-1", "p1", "code", "python")
	require.NoError(t, err)
	assert.InDelta(t, 75.0, result.CorrectnessScore, 0.001)
	assert.Equal(t, 1, result.HiddenTestsPassed)
	assert.Equal(t, 2, result.HiddenTestsTotal)
	assert.Equal(t, 15, result.Points) // round(75/100*20) = 15
	assert.Len(t, result.SampleResults, 1)
}

func TestCodeExec_Submit_AllZeroWeightsYieldZeroCorrectness(t *testing.T) {
	t.Parallel()
	sandbox := mocks.NewMockSandboxClient(t)
	answers := mocks.NewMockAnswerRepository(t)
	sets := mocks.NewMockSetRepository(t)
	candidates := mocks.NewMockCandidateRepository(t)

	candidates.EXPECT().Get(mock.Anything, "cand-1").Return(candidateWithSet(), nil)
	sets.EXPECT().Get(mock.Anything, "set-1").Return(&domain.AssessmentSet{
		ID: "set-1",
		Programming: []domain.ProgrammingQuestion{
			{
				QuestionID: "p1",
				Points:     20,
				TestCases: []domain.TestCase{
					{Input: "1", ExpectedOutput: "1", Weight: 0, Hidden: false},
					{Input: "2", ExpectedOutput: "2", Weight: 0, Hidden: true},
				},
			},
		},
	}, nil)
	sandbox.EXPECT().RunTestCases(mock.Anything, "code", "python", mock.AnythingOfType("[]domain.TestCase")).Return([]domain.CaseResult{
		{ActualOutput: "1", Passed: true},
		{ActualOutput: "2", Passed: true},
	}, nil)

	answers.EXPECT().GetOrCreate(mock.Anything, "cand-1", domain.SectionProgramming).Return(&domain.AssessmentAnswer{}, nil)
	answers.EXPECT().Get(mock.Anything, "cand-1", domain.SectionProgramming).Return(&domain.AssessmentAnswer{}, nil)
	answers.EXPECT().UpsertEntry(mock.Anything, "cand-1", domain.SectionProgramming, mock.Anything).Return(nil)

	svc := usecase.NewCodeExecService(sandbox, answers, sets, candidates, nil)
	result, err := svc.Submit(context.Background(), "cand-1", "p1", "code", "python")
	require.NoError(t, err)
	assert.Equal(t, 0.0, result.CorrectnessScore)
	assert.Equal(t, 0, result.Points)
}

func TestCodeExec_Submit_SandboxResultCountMismatch(t *testing.T) {
	t.Parallel()
	sandbox := mocks.NewMockSandboxClient(t)
	answers := mocks.NewMockAnswerRepository(t)
	sets := mocks.NewMockSetRepository(t)
	candidates := mocks.NewMockCandidateRepository(t)

	candidates.EXPECT().Get(mock.Anything, "cand-1").Return(candidateWithSet(), nil)
	sets.EXPECT().Get(mock.Anything, "set-1").Return(setWithProgrammingQuestion(), nil)
	sandbox.EXPECT().RunTestCases(mock.Anything, "code", "python", mock.Anything).Return([]domain.CaseResult{
		{Passed: true},
	}, nil)

	svc := usecase.NewCodeExecService(sandbox, answers, sets, candidates, nil)
	_, err := svc.Submit(context.Background(), "cand-1", "p1", "code", "python")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInfrastructure)
}

func TestCodeExec_Run_OnlyExecutesSampleCases(t *testing.T) {
	t.Parallel()
	sandbox := mocks.NewMockSandboxClient(t)
	answers := mocks.NewMockAnswerRepository(t)
	sets := mocks.NewMockSetRepository(t)
	candidates := mocks.NewMockCandidateRepository(t)

	candidates.EXPECT().Get(mock.Anything, "cand-1").Return(candidateWithSet(), nil)
	sets.EXPECT().Get(mock.Anything, "set-1").Return(setWithProgrammingQuestion(), nil)
	sandbox.EXPECT().RunTestCases(mock.Anything, "code", "python", mock.MatchedBy(func(tcs []domain.TestCase) bool {
		return len(tcs) == 1 && !tcs[0].Hidden
	})).Return([]domain.CaseResult{{Passed: true}}, nil)

	answers.EXPECT().GetOrCreate(mock.Anything, "cand-1", domain.SectionProgramming).Return(&domain.AssessmentAnswer{}, nil)
	answers.EXPECT().Get(mock.Anything, "cand-1", domain.SectionProgramming).Return(&domain.AssessmentAnswer{}, nil)
	answers.EXPECT().UpsertEntry(mock.Anything, "cand-1", domain.SectionProgramming, mock.MatchedBy(func(e domain.AnswerEntry) bool {
		return len(e.RunHistory) == 1 && e.RunHistory[0].Passed == 1 && e.RunHistory[0].Total == 1
	})).Return(nil)

	svc := usecase.NewCodeExecService(sandbox, answers, sets, candidates, nil)
	result, err := svc.Run(context.Background(), "cand-1", "p1", "code", "python")
	require.NoError(t, err)
	assert.Equal(t, 1, result.Passed)
	assert.Equal(t, 1, result.Total)
}

func TestCodeExec_FindQuestion_UnknownQuestionID(t *testing.T) {
	t.Parallel()
	sandbox := mocks.NewMockSandboxClient(t)
	answers := mocks.NewMockAnswerRepository(t)
	sets := mocks.NewMockSetRepository(t)
	candidates := mocks.NewMockCandidateRepository(t)

	candidates.EXPECT().Get(mock.Anything, "cand-1").Return(candidateWithSet(), nil)
	sets.EXPECT().Get(mock.Anything, "set-1").Return(setWithProgrammingQuestion(), nil)

	svc := usecase.NewCodeExecService(sandbox, answers, sets, candidates, nil)
	_, err := svc.Run(context.Background(), "cand-1", "unknown", "code", "python")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCodeExec_Submit_RateLimited(t *testing.T) {
	t.Parallel()
	sandbox := mocks.NewMockSandboxClient(t)
	answers := mocks.NewMockAnswerRepository(t)
	sets := mocks.NewMockSetRepository(t)
	candidates := mocks.NewMockCandidateRepository(t)
	limiter := mocks.NewMockRateLimiter(t)

	limiter.EXPECT().Allow(mock.Anything, "codeexec:cand-1", 1).Return(false, time.Second, nil)

	svc := usecase.NewCodeExecService(sandbox, answers, sets, candidates, limiter)
	_, err := svc.Submit(context.Background(), "cand-1", "p1", "code", "python")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrRateLimited)
}

func TestCodeExec_Run_RateLimiterErrorFailsOpen(t *testing.T) {
	t.Parallel()
	sandbox := mocks.NewMockSandboxClient(t)
	answers := mocks.NewMockAnswerRepository(t)
	sets := mocks.NewMockSetRepository(t)
	candidates := mocks.NewMockCandidateRepository(t)
	limiter := mocks.NewMockRateLimiter(t)

	limiter.EXPECT().Allow(mock.Anything, "codeexec:cand-1", 1).Return(false, time.Duration(0), errors.New("redis down"))
	candidates.EXPECT().Get(mock.Anything, "cand-1").Return(candidateWithSet(), nil)
	sets.EXPECT().Get(mock.Anything, "set-1").Return(setWithProgrammingQuestion(), nil)
	sandbox.EXPECT().RunTestCases(mock.Anything, "code", "python", mock.AnythingOfType("[]domain.TestCase")).Return([]domain.CaseResult{
		{ActualOutput: "1", Passed: true},
	}, nil)
	answers.EXPECT().GetOrCreate(mock.Anything, "cand-1", domain.SectionProgramming).Return(&domain.AssessmentAnswer{}, nil)
	answers.EXPECT().Get(mock.Anything, "cand-1", domain.SectionProgramming).Return(&domain.AssessmentAnswer{}, nil)
	answers.EXPECT().UpsertEntry(mock.Anything, "cand-1", domain.SectionProgramming, mock.Anything).Return(nil)

	svc := usecase.NewCodeExecService(sandbox, answers, sets, candidates, limiter)
	_, err := svc.Run(context.Background(), "cand-1", "p1", "code", "python")
	require.NoError(t, err)
}
