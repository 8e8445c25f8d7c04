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

func objectiveOnlyJDForSets() *domain.JobDescription {
	return &domain.JobDescription{
		ID: "jd-1",
		Config: domain.AssessmentConfig{
			ExperienceLevel: domain.ExperienceMid,
			Sections: map[domain.Section]domain.SectionConfig{
				domain.SectionObjective: {Enabled: true, QuestionCount: 1},
			},
		},
	}
}

func TestSetGenerator_GenerateSets_AcceptsTopLevelArrayFormat(t *testing.T) {
	t.Parallel()
	sets := mocks.NewMockSetRepository(t)
	ai := mocks.NewMockAIClient(t)

	ai.EXPECT().ChatJSON(mock.Anything, mock.Anything, mock.Anything, 2048).Return(
		`[{"text":"what is a slice?","options":[{"text":"a view over an array","isCorrect":true},{"text":"a map","isCorrect":false}],"points":5,"difficulty":"easy"}]`, nil)

	var captured []*domain.AssessmentSet
	sets.EXPECT().CreateMany(mock.Anything, mock.MatchedBy(func(s []*domain.AssessmentSet) bool {
		captured = s
		return len(s) == 1
	})).Return(nil)

	svc := usecase.NewSetGeneratorService(sets, ai)
	ids, err := svc.GenerateSets(context.Background(), objectiveOnlyJDForSets(), 1)
	require.NoError(t, err)
	require.Len(t, ids, 1)
	require.Len(t, captured[0].Objective, 1)
	assert.Equal(t, "what is a slice?", captured[0].Objective[0].Text)
	assert.Equal(t, 5, captured[0].Objective[0].Points)
}

func TestSetGenerator_GenerateSets_AcceptsQuestionsWrapperFormat(t *testing.T) {
	t.Parallel()
	sets := mocks.NewMockSetRepository(t)
	ai := mocks.NewMockAIClient(t)

	jd := &domain.JobDescription{
		ID: "jd-2",
		Config: domain.AssessmentConfig{
			Sections: map[domain.Section]domain.SectionConfig{
				domain.SectionSubjective: {Enabled: true, QuestionCount: 1},
			},
		},
	}
	ai.EXPECT().ChatJSON(mock.Anything, mock.Anything, mock.Anything, 2048).Return(
		`{"questions":[{"text":"describe your testing approach","expectedAnswer":"...","rubric":"...","maxWords":200,"points":15,"difficulty":"medium"}]}`, nil)

	var captured []*domain.AssessmentSet
	sets.EXPECT().CreateMany(mock.Anything, mock.MatchedBy(func(s []*domain.AssessmentSet) bool {
		captured = s
		return len(s) == 1
	})).Return(nil)

	svc := usecase.NewSetGeneratorService(sets, ai)
	_, err := svc.GenerateSets(context.Background(), jd, 1)
	require.NoError(t, err)
	require.Len(t, captured[0].Subjective, 1)
	assert.Equal(t, "describe your testing approach", captured[0].Subjective[0].Text)
	assert.Equal(t, 15, captured[0].Subjective[0].Points)
}

func TestSetGenerator_GenerateSets_AcceptsFirstArrayValuedProperty(t *testing.T) {
	t.Parallel()
	sets := mocks.NewMockSetRepository(t)
	ai := mocks.NewMockAIClient(t)

	jd := &domain.JobDescription{
		ID: "jd-3",
		Config: domain.AssessmentConfig{
			Sections: map[domain.Section]domain.SectionConfig{
				domain.SectionProgramming: {Enabled: true, QuestionCount: 1},
			},
		},
	}
	ai.EXPECT().ChatJSON(mock.Anything, mock.Anything, mock.Anything, 2048).Return(
		`{"problems":[{"text":"reverse a string","testCases":[{"input":"abc","expectedOutput":"cba","weight":1,"hidden":false},{"input":"xyz","expectedOutput":"zyx","weight":2,"hidden":true}],"points":25,"difficulty":"hard"}]}`, nil)

	var captured []*domain.AssessmentSet
	sets.EXPECT().CreateMany(mock.Anything, mock.MatchedBy(func(s []*domain.AssessmentSet) bool {
		captured = s
		return len(s) == 1
	})).Return(nil)

	svc := usecase.NewSetGeneratorService(sets, ai)
	_, err := svc.GenerateSets(context.Background(), jd, 1)
	require.NoError(t, err)
	require.Len(t, captured[0].Programming, 1)
	assert.Equal(t, "reverse a string", captured[0].Programming[0].Text)
	assert.Equal(t, 25, captured[0].Programming[0].Points)
	require.Len(t, captured[0].Programming[0].TestCases, 2)
}

func TestSetGenerator_GenerateSets_AppliesNormalizationDefaults(t *testing.T) {
	t.Parallel()
	sets := mocks.NewMockSetRepository(t)
	ai := mocks.NewMockAIClient(t)

	ai.EXPECT().ChatJSON(mock.Anything, mock.Anything, mock.Anything, 2048).Return(
		`[{"text":"no points or difficulty given","options":[{"text":"only option","isCorrect":true}]}]`, nil)

	var captured []*domain.AssessmentSet
	sets.EXPECT().CreateMany(mock.Anything, mock.MatchedBy(func(s []*domain.AssessmentSet) bool {
		captured = s
		return len(s) == 1
	})).Return(nil)

	svc := usecase.NewSetGeneratorService(sets, ai)
	_, err := svc.GenerateSets(context.Background(), objectiveOnlyJDForSets(), 1)
	require.NoError(t, err)
	q := captured[0].Objective[0]
	assert.Equal(t, 10, q.Points)
	assert.Equal(t, "medium", q.Difficulty)
}

func TestSetGenerator_GenerateSets_ClampsCountToTen(t *testing.T) {
	t.Parallel()
	sets := mocks.NewMockSetRepository(t)
	ai := mocks.NewMockAIClient(t)

	ai.EXPECT().ChatJSON(mock.Anything, mock.Anything, mock.Anything, 2048).Return(
		`[{"text":"q","options":[{"text":"a","isCorrect":true}]}]`, nil)
	sets.EXPECT().CreateMany(mock.Anything, mock.MatchedBy(func(s []*domain.AssessmentSet) bool {
		return len(s) == 10
	})).Return(nil)

	svc := usecase.NewSetGeneratorService(sets, ai)
	ids, err := svc.GenerateSets(context.Background(), objectiveOnlyJDForSets(), 99)
	require.NoError(t, err)
	assert.Len(t, ids, 10)
}

func TestSetGenerator_GenerateSets_AbortsSetOnValidationFailure(t *testing.T) {
	t.Parallel()
	sets := mocks.NewMockSetRepository(t)
	ai := mocks.NewMockAIClient(t)

	// two correct options -> fails AssessmentSet.Validate's exactly-one-correct rule
	ai.EXPECT().ChatJSON(mock.Anything, mock.Anything, mock.Anything, 2048).Return(
		`[{"text":"bad question","options":[{"text":"a","isCorrect":true},{"text":"b","isCorrect":true}]}]`, nil)

	svc := usecase.NewSetGeneratorService(sets, ai)
	_, err := svc.GenerateSets(context.Background(), objectiveOnlyJDForSets(), 1)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrValidation)
}
