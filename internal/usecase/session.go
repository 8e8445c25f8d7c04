package usecase

import (
	"fmt"
	"log/slog"
	"math/rand"
	"strings"
	"time"

	"go.opentelemetry.io/otel"

	"github.com/ironquill/assesspoint/internal/config"
	"github.com/ironquill/assesspoint/internal/domain"
	obsctx "github.com/ironquill/assesspoint/internal/observability"
)

// EvaluationRunner is the narrow slice of the Evaluation Engine (C10) the
// Session Controller needs at SubmitAll time.
type EvaluationRunner interface {
	RunEvaluation(ctx domain.Context, candidateAssessmentID string) error
}

// SessionService implements the session controller state machine (C7), the
// core of the assessment flow: establishment, per-request authentication,
// section serving, answer saving, and submission.
type SessionService struct {
	Candidates domain.CandidateRepository
	Answers    domain.AnswerRepository
	Sets       domain.SetRepository
	JDs        domain.JDRepository
	Evaluator  EvaluationRunner
	Cfg        config.Config
	locks      *candidateLocks
}

// NewSessionService constructs a SessionService.
func NewSessionService(candidates domain.CandidateRepository, answers domain.AnswerRepository, sets domain.SetRepository, jds domain.JDRepository, evaluator EvaluationRunner, cfg config.Config) *SessionService {
	return &SessionService{
		Candidates: candidates,
		Answers:    answers,
		Sets:       sets,
		JDs:        jds,
		Evaluator:  evaluator,
		Cfg:        cfg,
		locks:      newCandidateLocks(),
	}
}

// Start establishes the candidate's session: idempotent if already
// in_progress, otherwise assigns a uniformly random active AssessmentSet
// and mints a session token, per spec.md §4.7.
func (s *SessionService) Start(ctx domain.Context, candidateAssessmentID string) (*domain.CandidateAssessment, error) {
	tr := otel.Tracer("usecase.session")
	ctx, span := tr.Start(ctx, "SessionService.Start")
	defer span.End()

	unlock := s.locks.Lock(candidateAssessmentID)
	defer unlock()

	candidate, err := s.Candidates.Get(ctx, candidateAssessmentID)
	if err != nil {
		return nil, err
	}
	if candidate.Status == domain.CandidateInProgress && candidate.SessionToken != "" {
		return candidate, nil
	}
	if !candidate.IsOnboardingComplete() {
		return nil, fmt.Errorf("%w: onboarding is not complete", domain.ErrConflict)
	}

	jd, err := s.JDs.Get(ctx, candidate.JDID)
	if err != nil {
		return nil, err
	}
	sets, err := s.Sets.ListActiveByJD(ctx, jd.ID)
	if err != nil {
		return nil, err
	}
	if len(sets) == 0 {
		return nil, fmt.Errorf("%w: no active assessment sets for this jd", domain.ErrConflict)
	}
	assigned := sets[rand.Intn(len(sets))] //nolint:gosec // uniform set assignment, not security sensitive

	token, err := domain.NewSessionToken()
	if err != nil {
		return nil, fmt.Errorf("op=session.start: %w", err)
	}
	now := time.Now().UTC()
	if err := s.Candidates.UpdateFields(ctx, candidateAssessmentID, candidate.Version, map[string]any{
		"assignedSetId":  assigned.ID,
		"sessionToken":   token,
		"status":         domain.CandidateInProgress,
		"startedAt":      &now,
		"lastHeartbeat":  &now,
		"currentSection": firstEnabledSection(jd.Config),
	}); err != nil {
		return nil, fmt.Errorf("op=session.start: %w", err)
	}
	return s.Candidates.Get(ctx, candidateAssessmentID)
}

// authenticate resolves a session token into the candidate record, enforces
// the time budget + grace period, and refreshes lastHeartbeat on success.
// Callers must already hold the candidate's advisory lock.
func (s *SessionService) authenticate(ctx domain.Context, sessionToken string) (*domain.CandidateAssessment, *domain.JobDescription, time.Duration, error) {
	candidate, err := s.Candidates.GetBySessionToken(ctx, sessionToken)
	if err != nil {
		return nil, nil, 0, fmt.Errorf("%w: %v", domain.ErrSessionInvalid, err)
	}
	if candidate.Status != domain.CandidateInProgress {
		return nil, nil, 0, domain.ErrSessionNotInProgress
	}

	jd, err := s.JDs.Get(ctx, candidate.JDID)
	if err != nil {
		return nil, nil, 0, err
	}

	now := time.Now().UTC()
	budget := time.Duration(jd.Config.TotalTimeMinutes) * time.Minute
	grace := s.Cfg.SessionGrace()
	var elapsed time.Duration
	if candidate.StartedAt != nil {
		elapsed = now.Sub(*candidate.StartedAt)
	}
	if elapsed > budget+grace {
		_ = s.Candidates.UpdateFields(ctx, candidate.ID, candidate.Version, map[string]any{
			"status":      domain.CandidateSubmitted,
			"submittedAt": &now,
		})
		return nil, nil, 0, domain.ErrSessionExpired
	}

	if err := s.Candidates.UpdateFields(ctx, candidate.ID, candidate.Version, map[string]any{
		"lastHeartbeat": &now,
	}); err != nil {
		return nil, nil, 0, fmt.Errorf("op=session.authenticate: %w", err)
	}
	remaining := budget - elapsed
	if remaining < 0 {
		remaining = 0
	}
	return candidate, jd, remaining, nil
}

// SectionView is the candidate-facing projection of a section's questions,
// stripped of evaluator-only fields per spec.md §4.7.
type SectionView struct {
	Section       domain.Section              `json:"section"`
	Objective     []ObjectiveQuestionView      `json:"objective,omitempty"`
	Subjective    []SubjectiveQuestionView     `json:"subjective,omitempty"`
	Programming   []ProgrammingQuestionView    `json:"programming,omitempty"`
	RemainingTime time.Duration                `json:"remainingTime"`
}

type OptionView struct {
	Text string `json:"text"`
}

type ObjectiveQuestionView struct {
	QuestionID string       `json:"questionId"`
	Text       string       `json:"text"`
	Options    []OptionView `json:"options"`
}

type SubjectiveQuestionView struct {
	QuestionID string `json:"questionId"`
	Text       string `json:"text"`
	MaxWords   int    `json:"maxWords"`
}

type TestCaseView struct {
	Input          string `json:"input"`
	ExpectedOutput string `json:"expectedOutput"`
}

type ProgrammingQuestionView struct {
	QuestionID string         `json:"questionId"`
	Text       string         `json:"text"`
	TestCases  []TestCaseView `json:"testCases"`
}

// GetSection returns the candidate-facing view of one section's questions.
func (s *SessionService) GetSection(ctx domain.Context, sessionToken string, section domain.Section) (*SectionView, error) {
	tr := otel.Tracer("usecase.session")
	ctx, span := tr.Start(ctx, "SessionService.GetSection")
	defer span.End()

	candidate, jd, remaining, err := s.withAuth(ctx, sessionToken)
	if err != nil {
		return nil, err
	}
	cfg, ok := jd.Config.Sections[section]
	if !ok || !cfg.Enabled {
		return nil, fmt.Errorf("%w: section is not enabled", domain.ErrValidation)
	}

	set, err := s.Sets.Get(ctx, candidate.AssignedSetID)
	if err != nil {
		return nil, err
	}

	view := &SectionView{Section: section, RemainingTime: remaining}
	switch section {
	case domain.SectionObjective:
		for _, q := range set.Objective {
			opts := make([]OptionView, len(q.Options))
			for i, o := range q.Options {
				opts[i] = OptionView{Text: o.Text}
			}
			view.Objective = append(view.Objective, ObjectiveQuestionView{QuestionID: q.QuestionID, Text: q.Text, Options: opts})
		}
	case domain.SectionSubjective:
		for _, q := range set.Subjective {
			view.Subjective = append(view.Subjective, SubjectiveQuestionView{QuestionID: q.QuestionID, Text: q.Text, MaxWords: q.MaxWords})
		}
	case domain.SectionProgramming:
		for _, q := range set.Programming {
			var cases []TestCaseView
			for _, tc := range q.TestCases {
				if tc.Hidden {
					cases = append(cases, TestCaseView{Input: "[hidden]", ExpectedOutput: "[hidden]"})
					continue
				}
				cases = append(cases, TestCaseView{Input: tc.Input, ExpectedOutput: tc.ExpectedOutput})
			}
			view.Programming = append(view.Programming, ProgrammingQuestionView{QuestionID: q.QuestionID, Text: q.Text, TestCases: cases})
		}
	}
	return view, nil
}

// withAuth wraps authenticate with the candidate's advisory lock.
func (s *SessionService) withAuth(ctx domain.Context, sessionToken string) (*domain.CandidateAssessment, *domain.JobDescription, time.Duration, error) {
	candidate, err := s.Candidates.GetBySessionToken(ctx, sessionToken)
	if err != nil {
		return nil, nil, 0, fmt.Errorf("%w: %v", domain.ErrSessionInvalid, err)
	}
	unlock := s.locks.Lock(candidate.ID)
	defer unlock()
	return s.authenticate(ctx, sessionToken)
}

// SaveAnswer upserts one question's answer entry without disturbing the
// rest of the section's entries, per spec.md §4.7.
func (s *SessionService) SaveAnswer(ctx domain.Context, sessionToken string, section domain.Section, entry domain.AnswerEntry) error {
	tr := otel.Tracer("usecase.session")
	ctx, span := tr.Start(ctx, "SessionService.SaveAnswer")
	defer span.End()

	candidate, err := s.Candidates.GetBySessionToken(ctx, sessionToken)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrSessionInvalid, err)
	}
	unlock := s.locks.Lock(candidate.ID)
	defer unlock()

	if _, _, _, err := s.authenticate(ctx, sessionToken); err != nil {
		return err
	}

	if section == domain.SectionSubjective {
		entry.WordCount = len(strings.Fields(entry.Text))
	}

	if _, err := s.Answers.GetOrCreate(ctx, candidate.ID, section); err != nil {
		return fmt.Errorf("op=session.save_answer: %w", err)
	}
	if err := s.Answers.UpsertEntry(ctx, candidate.ID, section, entry); err != nil {
		return fmt.Errorf("op=session.save_answer: %w", err)
	}

	answer, err := s.Answers.Get(ctx, candidate.ID, section)
	if err != nil {
		return fmt.Errorf("op=session.save_answer: %w", err)
	}
	progress := candidate.SectionProgress
	if progress == nil {
		progress = map[domain.Section]domain.SectionProgress{}
	}
	p := progress[section]
	if !p.Started {
		now := time.Now().UTC()
		p.Started = true
		p.StartedAt = &now
	}
	p.QuestionsAnswered = len(answer.Entries)
	progress[section] = p
	return s.Candidates.UpdateFields(ctx, candidate.ID, candidate.Version, map[string]any{
		"sectionProgress": progress,
	})
}

// SubmitSectionResult reports the outcome of submitting one section.
type SubmitSectionResult struct {
	Section      domain.Section `json:"section"`
	SectionScore int            `json:"sectionScore"`
	MaxScore     int            `json:"maxScore"`
	NextSection  domain.Section `json:"nextSection,omitempty"`
}

// SubmitSection grades objective sections immediately against the assigned
// AssessmentSet and advances currentSection, per spec.md §4.7.
func (s *SessionService) SubmitSection(ctx domain.Context, sessionToken string, section domain.Section) (*SubmitSectionResult, error) {
	tr := otel.Tracer("usecase.session")
	ctx, span := tr.Start(ctx, "SessionService.SubmitSection")
	defer span.End()
	lg := obsctx.LoggerFromContext(ctx)

	candidate, err := s.Candidates.GetBySessionToken(ctx, sessionToken)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrSessionInvalid, err)
	}
	unlock := s.locks.Lock(candidate.ID)
	defer unlock()

	candidate, jd, _, err := s.authenticate(ctx, sessionToken)
	if err != nil {
		return nil, err
	}

	answer, err := s.Answers.Get(ctx, candidate.ID, section)
	if err != nil {
		return nil, fmt.Errorf("op=session.submit_section: %w", err)
	}

	sectionScore, maxScore := answer.SectionScore, answer.SectionMaxScore
	entries := answer.Entries
	if section == domain.SectionObjective {
		set, err := s.Sets.Get(ctx, candidate.AssignedSetID)
		if err != nil {
			return nil, fmt.Errorf("op=session.submit_section: %w", err)
		}
		entries, sectionScore, maxScore = gradeObjective(set.Objective, answer.Entries)
	}

	now := time.Now().UTC()
	totalSpent := answer.TotalTimeSpentSeconds
	if answer.SectionStartedAt != nil {
		totalSpent = int(now.Sub(*answer.SectionStartedAt).Seconds())
	}
	if err := s.Answers.UpdateFields(ctx, candidate.ID, section, answer.Version, map[string]any{
		"entries":               entries,
		"isSubmitted":           true,
		"sectionSubmittedAt":    &now,
		"sectionScore":          sectionScore,
		"sectionMaxScore":       maxScore,
		"totalTimeSpentSeconds": totalSpent,
	}); err != nil {
		return nil, fmt.Errorf("op=session.submit_section: %w", err)
	}

	progress := candidate.SectionProgress
	if progress == nil {
		progress = map[domain.Section]domain.SectionProgress{}
	}
	p := progress[section]
	p.Completed = true
	p.CompletedAt = &now
	progress[section] = p

	next := nextEnabledSectionAfter(jd.Config, section)
	if err := s.Candidates.UpdateFields(ctx, candidate.ID, candidate.Version, map[string]any{
		"sectionProgress": progress,
		"currentSection":  next,
	}); err != nil {
		return nil, fmt.Errorf("op=session.submit_section: %w", err)
	}

	lg.Info("section submitted", slog.String("candidate_assessment_id", candidate.ID), slog.String("section", string(section)), slog.Int("score", sectionScore))
	return &SubmitSectionResult{Section: section, SectionScore: sectionScore, MaxScore: maxScore, NextSection: next}, nil
}

// SubmitAll finalizes the candidate's session and synchronously runs the
// Evaluation Engine. Evaluation failure is logged but does not fail the
// submission, per spec.md §4.7.
func (s *SessionService) SubmitAll(ctx domain.Context, sessionToken string) error {
	tr := otel.Tracer("usecase.session")
	ctx, span := tr.Start(ctx, "SessionService.SubmitAll")
	defer span.End()
	lg := obsctx.LoggerFromContext(ctx)

	candidate, err := s.Candidates.GetBySessionToken(ctx, sessionToken)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrSessionInvalid, err)
	}
	unlock := s.locks.Lock(candidate.ID)

	candidate, _, _, err = s.authenticate(ctx, sessionToken)
	if err != nil {
		unlock()
		return err
	}

	now := time.Now().UTC()
	var spent int
	if candidate.StartedAt != nil {
		spent = int(now.Sub(*candidate.StartedAt).Seconds())
	}
	if err := s.Candidates.UpdateFields(ctx, candidate.ID, candidate.Version, map[string]any{
		"status":           domain.CandidateSubmitted,
		"submittedAt":      &now,
		"currentSection":   domain.Section(""),
		"timeSpentSeconds": spent,
	}); err != nil {
		unlock()
		return fmt.Errorf("op=session.submit_all: %w", err)
	}
	unlock()

	if err := s.JDs.IncrementStat(ctx, candidate.JDID, "completedAssessments", 1); err != nil {
		lg.Error("failed to increment jd completed assessments", slog.Any("error", err))
	}

	if s.Evaluator != nil {
		if err := s.Evaluator.RunEvaluation(ctx, candidate.ID); err != nil {
			lg.Error("synchronous evaluation failed", slog.String("candidate_assessment_id", candidate.ID), slog.Any("error", err))
		}
	}
	return nil
}

// Heartbeat validates the session and reports remaining time.
func (s *SessionService) Heartbeat(ctx domain.Context, sessionToken string) (time.Duration, error) {
	_, _, remaining, err := s.withAuth(ctx, sessionToken)
	if err != nil {
		return 0, err
	}
	return remaining, nil
}

func gradeObjective(questions []domain.ObjectiveQuestion, entries []domain.AnswerEntry) ([]domain.AnswerEntry, int, int) {
	byID := make(map[string]domain.ObjectiveQuestion, len(questions))
	maxScore := 0
	for _, q := range questions {
		byID[q.QuestionID] = q
		maxScore += q.Points
	}
	graded := make([]domain.AnswerEntry, len(entries))
	score := 0
	for i, e := range entries {
		q, ok := byID[e.QuestionID]
		correct := false
		if ok && e.SelectedOptionIndex != nil {
			idx := *e.SelectedOptionIndex
			if idx >= 0 && idx < len(q.Options) && q.Options[idx].IsCorrect {
				correct = true
			}
		}
		points := 0
		if correct {
			points = q.Points
		}
		e.IsCorrect = &correct
		e.Points = points
		graded[i] = e
		score += points
	}
	return graded, score, maxScore
}

func firstEnabledSection(cfg domain.AssessmentConfig) domain.Section {
	for _, sec := range domain.SectionOrder {
		if sc, ok := cfg.Sections[sec]; ok && sc.Enabled && sc.QuestionCount > 0 {
			return sec
		}
	}
	return ""
}

func nextEnabledSectionAfter(cfg domain.AssessmentConfig, current domain.Section) domain.Section {
	found := false
	for _, sec := range domain.SectionOrder {
		if found {
			if sc, ok := cfg.Sections[sec]; ok && sc.Enabled && sc.QuestionCount > 0 {
				return sec
			}
			continue
		}
		if sec == current {
			found = true
		}
	}
	return ""
}
