package usecase

import (
	"fmt"
	"time"

	"go.opentelemetry.io/otel"

	"github.com/ironquill/assesspoint/internal/domain"
)

// CodeExecService wraps the Sandbox Gateway (C3) with weighted scoring and
// hidden-test-case redaction, per spec.md §4.8.
type CodeExecService struct {
	Sandbox    domain.SandboxClient
	Answers    domain.AnswerRepository
	Sets       domain.SetRepository
	Candidates domain.CandidateRepository
	Limiter    domain.RateLimiter
}

// NewCodeExecService constructs a CodeExecService. limiter may be nil, in
// which case Run/Submit are unthrottled.
func NewCodeExecService(sandbox domain.SandboxClient, answers domain.AnswerRepository, sets domain.SetRepository, candidates domain.CandidateRepository, limiter domain.RateLimiter) *CodeExecService {
	return &CodeExecService{Sandbox: sandbox, Answers: answers, Sets: sets, Candidates: candidates, Limiter: limiter}
}

// checkRateLimit throttles sandbox submissions per candidate assessment so a
// single candidate can't exhaust the Judge0 pool with rapid-fire Run/Submit
// calls. No-op when no limiter is configured.
func (s *CodeExecService) checkRateLimit(ctx domain.Context, candidateAssessmentID string) error {
	if s.Limiter == nil {
		return nil
	}
	allowed, retryAfter, err := s.Limiter.Allow(ctx, "codeexec:"+candidateAssessmentID, 1)
	if err != nil {
		return nil
	}
	if !allowed {
		return fmt.Errorf("%w: retry after %s", domain.ErrRateLimited, retryAfter)
	}
	return nil
}

// RunResult is the candidate-facing outcome of a sample-only Run call.
type RunResult struct {
	Results []domain.CaseResult `json:"results"`
	Passed  int                 `json:"passed"`
	Total   int                 `json:"total"`
}

// Run executes code only against sample (non-hidden) test cases. It never
// alters score — it records a runHistory entry and saves the code and
// language on the answer entry.
func (s *CodeExecService) Run(ctx domain.Context, candidateAssessmentID, questionID, code, language string) (*RunResult, error) {
	tr := otel.Tracer("usecase.codeexec")
	ctx, span := tr.Start(ctx, "CodeExecService.Run")
	defer span.End()

	if err := s.checkRateLimit(ctx, candidateAssessmentID); err != nil {
		return nil, err
	}

	question, err := s.findQuestion(ctx, candidateAssessmentID, questionID)
	if err != nil {
		return nil, err
	}

	var sample []domain.TestCase
	for _, tc := range question.TestCases {
		if !tc.Hidden {
			sample = append(sample, tc)
		}
	}

	results, err := s.Sandbox.RunTestCases(ctx, code, language, sample)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrSandboxUnavailable, err)
	}

	passed := 0
	for _, r := range results {
		if r.Passed {
			passed++
		}
	}

	if err := s.appendRunHistory(ctx, candidateAssessmentID, questionID, code, language, passed, len(sample)); err != nil {
		return nil, err
	}

	return &RunResult{Results: results, Passed: passed, Total: len(sample)}, nil
}

// SubmitResult is the candidate-facing outcome of a full Submit call. Hidden
// test case inputs/outputs are never exposed — only pass/fail aggregates.
type SubmitResult struct {
	SampleResults     []domain.CaseResult `json:"sampleResults"`
	HiddenTestsPassed int                 `json:"hiddenTestsPassed"`
	HiddenTestsTotal  int                 `json:"hiddenTestsTotal"`
	CorrectnessScore  float64             `json:"correctnessScore"`
	Points            int                 `json:"points"`
}

// Submit runs code against every test case (sample + hidden), computes the
// weighted correctness score, and persists per-case records with hidden
// inputs/outputs redacted in stored form.
func (s *CodeExecService) Submit(ctx domain.Context, candidateAssessmentID, questionID, code, language string) (*SubmitResult, error) {
	tr := otel.Tracer("usecase.codeexec")
	ctx, span := tr.Start(ctx, "CodeExecService.Submit")
	defer span.End()

	if err := s.checkRateLimit(ctx, candidateAssessmentID); err != nil {
		return nil, err
	}

	question, err := s.findQuestion(ctx, candidateAssessmentID, questionID)
	if err != nil {
		return nil, err
	}

	results, err := s.Sandbox.RunTestCases(ctx, code, language, question.TestCases)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrSandboxUnavailable, err)
	}
	if len(results) != len(question.TestCases) {
		return nil, fmt.Errorf("%w: sandbox returned %d results for %d test cases", domain.ErrInfrastructure, len(results), len(question.TestCases))
	}

	var weightedPassed, weightedTotal float64
	var sampleResults []domain.CaseResult
	var hiddenPassed, hiddenTotal int
	stored := make([]domain.CaseResult, len(results))

	for i, r := range results {
		tc := question.TestCases[i]
		weight := float64(tc.Weight)
		if weight < 0 {
			weight = 1
		}
		weightedTotal += weight
		if r.Passed {
			weightedPassed += weight
		}

		if tc.Hidden {
			hiddenTotal++
			if r.Passed {
				hiddenPassed++
			}
			stored[i] = domain.CaseResult{Input: "[hidden]", ExpectedOutput: "[hidden]", ActualOutput: r.ActualOutput, Passed: r.Passed, Hidden: true}
		} else {
			stored[i] = domain.CaseResult{Input: tc.Input, ExpectedOutput: tc.ExpectedOutput, ActualOutput: r.ActualOutput, Passed: r.Passed, Hidden: false}
			sampleResults = append(sampleResults, stored[i])
		}
	}

	correctness := 0.0
	if weightedTotal > 0 {
		correctness = 100 * weightedPassed / weightedTotal
	}
	points := int(correctness/100*float64(question.Points) + 0.5)

	if err := s.persistSubmission(ctx, candidateAssessmentID, questionID, code, language, stored, points); err != nil {
		return nil, err
	}

	return &SubmitResult{
		SampleResults:     sampleResults,
		HiddenTestsPassed: hiddenPassed,
		HiddenTestsTotal:  hiddenTotal,
		CorrectnessScore:  correctness,
		Points:            points,
	}, nil
}

func (s *CodeExecService) findQuestion(ctx domain.Context, candidateAssessmentID, questionID string) (*domain.ProgrammingQuestion, error) {
	candidate, err := s.Candidates.Get(ctx, candidateAssessmentID)
	if err != nil {
		return nil, err
	}
	set, err := s.Sets.Get(ctx, candidate.AssignedSetID)
	if err != nil {
		return nil, err
	}
	for _, q := range set.Programming {
		if q.QuestionID == questionID {
			return &q, nil
		}
	}
	return nil, fmt.Errorf("%w: unknown programming question %q", domain.ErrNotFound, questionID)
}

func (s *CodeExecService) appendRunHistory(ctx domain.Context, candidateAssessmentID, questionID, code, language string, passed, total int) error {
	entry, err := s.currentEntry(ctx, candidateAssessmentID, questionID)
	if err != nil {
		return err
	}
	entry.Code = code
	entry.Language = language
	entry.RunHistory = append(entry.RunHistory, domain.RunRecord{Code: code, Language: language, Passed: passed, Total: total, RanAt: time.Now().UTC()})
	if err := s.Answers.UpsertEntry(ctx, candidateAssessmentID, domain.SectionProgramming, *entry); err != nil {
		return fmt.Errorf("op=codeexec.run: %w", err)
	}
	return nil
}

func (s *CodeExecService) persistSubmission(ctx domain.Context, candidateAssessmentID, questionID, code, language string, results []domain.CaseResult, points int) error {
	entry, err := s.currentEntry(ctx, candidateAssessmentID, questionID)
	if err != nil {
		return err
	}
	entry.Code = code
	entry.Language = language
	entry.LastResults = results
	entry.Points = points
	if err := s.Answers.UpsertEntry(ctx, candidateAssessmentID, domain.SectionProgramming, *entry); err != nil {
		return fmt.Errorf("op=codeexec.submit: %w", err)
	}
	return nil
}

func (s *CodeExecService) currentEntry(ctx domain.Context, candidateAssessmentID, questionID string) (*domain.AnswerEntry, error) {
	if _, err := s.Answers.GetOrCreate(ctx, candidateAssessmentID, domain.SectionProgramming); err != nil {
		return nil, fmt.Errorf("op=codeexec.current_entry: %w", err)
	}
	answer, err := s.Answers.Get(ctx, candidateAssessmentID, domain.SectionProgramming)
	if err != nil {
		return nil, fmt.Errorf("op=codeexec.current_entry: %w", err)
	}
	for _, e := range answer.Entries {
		if e.QuestionID == questionID {
			return &e, nil
		}
	}
	return &domain.AnswerEntry{QuestionID: questionID}, nil
}
