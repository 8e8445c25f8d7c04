package usecase

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"

	"github.com/ironquill/assesspoint/internal/config"
	"github.com/ironquill/assesspoint/internal/domain"
	obsctx "github.com/ironquill/assesspoint/internal/observability"
)

const subjectiveScoreSystemPrompt = `You grade a candidate's free-text answer against a rubric.
Return strict JSON: {"score":int,"feedback":string}. score is out of the question's maxPoints,
graded strictly against the rubric and expected answer.`

// plagiarismSimilarityGate is the spec.md §4.10 step 4 threshold: a match at
// or above this forces REVIEW regardless of score.
const plagiarismSimilarityGate = 0.80

// EvaluationService implements the aggregation, scoring, and recommendation
// engine (C10).
type EvaluationService struct {
	Evaluations domain.EvaluationRepository
	Candidates  domain.CandidateRepository
	Answers     domain.AnswerRepository
	Sets        domain.SetRepository
	JDs         domain.JDRepository
	AI          domain.AIClient
	Plagiarism  domain.PlagiarismChecker
	Notifier    domain.Notifier
	Audit       domain.AuditRepository
}

// NewEvaluationService constructs an EvaluationService.
func NewEvaluationService(evaluations domain.EvaluationRepository, candidates domain.CandidateRepository, answers domain.AnswerRepository, sets domain.SetRepository, jds domain.JDRepository, ai domain.AIClient, plagiarism domain.PlagiarismChecker, notifier domain.Notifier, audit domain.AuditRepository) *EvaluationService {
	return &EvaluationService{Evaluations: evaluations, Candidates: candidates, Answers: answers, Sets: sets, JDs: jds, AI: ai, Plagiarism: plagiarism, Notifier: notifier, Audit: audit}
}

// RecordDecision records a recruiter's pass/fail/review decision and writes
// an audit trail entry, per spec.md §4.10's admin-override step.
func (s *EvaluationService) RecordDecision(ctx domain.Context, candidateAssessmentID string, decision domain.AdminDecision, by, note string) error {
	tr := otel.Tracer("usecase.evaluation")
	ctx, span := tr.Start(ctx, "EvaluationService.RecordDecision")
	defer span.End()

	if err := s.Evaluations.RecordDecision(ctx, candidateAssessmentID, decision, by, note); err != nil {
		return fmt.Errorf("op=evaluation.record_decision: %w", err)
	}
	if s.Audit != nil {
		_ = s.Audit.Record(ctx, by, "record_decision", "candidate_assessment", candidateAssessmentID, map[string]any{
			"decision": decision, "note": note,
		})
	}
	return nil
}

// RunEvaluation aggregates section scores, checks plagiarism, computes the
// weighted score and recommendation band, and persists the Evaluation, per
// spec.md §4.10.
func (s *EvaluationService) RunEvaluation(ctx domain.Context, candidateAssessmentID string) error {
	tr := otel.Tracer("usecase.evaluation")
	ctx, span := tr.Start(ctx, "EvaluationService.RunEvaluation")
	defer span.End()
	lg := obsctx.LoggerFromContext(ctx)

	candidate, err := s.Candidates.Get(ctx, candidateAssessmentID)
	if err != nil {
		return err
	}
	jd, err := s.JDs.Get(ctx, candidate.JDID)
	if err != nil {
		return err
	}
	set, err := s.Sets.Get(ctx, candidate.AssignedSetID)
	if err != nil {
		return err
	}

	sections := map[domain.Section]domain.SectionAggregate{}
	plagiarism := domain.PlagiarismBlock{}

	if cfg, ok := jd.Config.Sections[domain.SectionObjective]; ok && cfg.Enabled {
		if agg, err := s.aggregateObjective(ctx, candidateAssessmentID); err == nil {
			sections[domain.SectionObjective] = agg
		}
	}
	if cfg, ok := jd.Config.Sections[domain.SectionSubjective]; ok && cfg.Enabled {
		agg, block, err := s.aggregateSubjective(ctx, jd.ID, candidateAssessmentID, set)
		if err != nil {
			lg.Error("subjective aggregation failed", slog.Any("error", err))
		} else {
			sections[domain.SectionSubjective] = agg
			mergePlagiarism(&plagiarism, block)
		}
	}
	if cfg, ok := jd.Config.Sections[domain.SectionProgramming]; ok && cfg.Enabled {
		agg, block, err := s.aggregateProgramming(ctx, jd.ID, candidateAssessmentID, set)
		if err != nil {
			lg.Error("programming aggregation failed", slog.Any("error", err))
		} else {
			sections[domain.SectionProgramming] = agg
			mergePlagiarism(&plagiarism, block)
		}
	}

	totalScore, maxTotal := 0, 0
	for _, agg := range sections {
		totalScore += agg.Score
		maxTotal += agg.MaxScore
	}
	percentage := 0.0
	if maxTotal > 0 {
		percentage = float64(totalScore) / float64(maxTotal) * 100
	}

	weightedScore := weightedScoreOf(jd.Config, sections)

	cutoff := jd.Config.CutoffScore
	if cutoff <= 0 {
		cutoff = config.DefaultCutoffScore
	}
	recommendation, confidence := recommendationBand(weightedScore, cutoff)
	if plagiarism.IsFlagged && recommendation != domain.RecommendationReview {
		recommendation = domain.RecommendationReview
		confidence = 60
	}

	now := time.Now().UTC()
	eval := &domain.Evaluation{
		ID:                    domain.NewID(),
		CandidateAssessmentID: candidateAssessmentID,
		JDID:                  jd.ID,
		Sections:              sections,
		TotalScore:            totalScore,
		MaxTotalScore:         maxTotal,
		Percentage:            percentage,
		WeightedScore:         weightedScore,
		Plagiarism:            plagiarism,
		AIRecommendation:      recommendation,
		AIConfidence:          confidence,
		AdminDecision:         domain.DecisionReviewPending,
		EvaluatedAt:           now,
	}
	if err := s.Evaluations.Upsert(ctx, eval); err != nil {
		return fmt.Errorf("op=evaluation.run: %w", err)
	}

	if err := s.Candidates.UpdateFields(ctx, candidateAssessmentID, candidate.Version, map[string]any{
		"status": domain.CandidateEvaluated,
	}); err != nil {
		return fmt.Errorf("op=evaluation.run: %w", err)
	}

	if s.Notifier != nil {
		if err := s.Notifier.SendReportReady(ctx, candidate.Email, candidateAssessmentID); err != nil {
			lg.Warn("send report-ready notification failed", slog.Any("error", err))
		}
	}

	lg.Info("evaluation complete",
		slog.String("candidate_assessment_id", candidateAssessmentID),
		slog.Float64("weighted_score", weightedScore),
		slog.String("recommendation", string(recommendation)))
	return nil
}

func (s *EvaluationService) aggregateObjective(ctx domain.Context, candidateAssessmentID string) (domain.SectionAggregate, error) {
	answer, err := s.Answers.Get(ctx, candidateAssessmentID, domain.SectionObjective)
	if err != nil {
		return domain.SectionAggregate{}, err
	}
	pct := 0.0
	if answer.SectionMaxScore > 0 {
		pct = float64(answer.SectionScore) / float64(answer.SectionMaxScore) * 100
	}
	return domain.SectionAggregate{Score: answer.SectionScore, MaxScore: answer.SectionMaxScore, Percentage: pct}, nil
}

type subjectiveScoreResult struct {
	Score    int    `json:"score"`
	Feedback string `json:"feedback"`
}

func (s *EvaluationService) aggregateSubjective(ctx domain.Context, jdID, candidateAssessmentID string, set *domain.AssessmentSet) (domain.SectionAggregate, domain.PlagiarismBlock, error) {
	answer, err := s.Answers.Get(ctx, candidateAssessmentID, domain.SectionSubjective)
	if err != nil {
		return domain.SectionAggregate{}, domain.PlagiarismBlock{}, err
	}
	byID := make(map[string]domain.SubjectiveQuestion, len(set.Subjective))
	maxScore := 0
	for _, q := range set.Subjective {
		byID[q.QuestionID] = q
		maxScore += q.Points
	}

	block := domain.PlagiarismBlock{}
	score := 0
	entries := make([]domain.AnswerEntry, len(answer.Entries))
	copy(entries, answer.Entries)
	for i, e := range entries {
		q, ok := byID[e.QuestionID]
		if !ok {
			continue
		}
		if e.AIScore == nil && e.Text != "" {
			result, err := s.scoreSubjective(ctx, q, e.Text)
			if err == nil {
				e.AIScore = &result.Score
				e.Points = result.Score
				entries[i] = e
				if upErr := s.Answers.UpsertEntry(ctx, candidateAssessmentID, domain.SectionSubjective, e); upErr != nil {
					obsctx.LoggerFromContext(ctx).Warn("persist subjective score failed", slog.Any("error", upErr))
				}
			}
		}
		score += e.Points

		if s.Plagiarism != nil && e.Text != "" {
			if pb, err := s.Plagiarism.Check(ctx, jdID, e.QuestionID, candidateAssessmentID, e.Text); err == nil {
				mergePlagiarism(&block, *pb)
			}
		}
	}

	pct := 0.0
	if maxScore > 0 {
		pct = float64(score) / float64(maxScore) * 100
	}
	return domain.SectionAggregate{Score: score, MaxScore: maxScore, Percentage: pct}, block, nil
}

func (s *EvaluationService) scoreSubjective(ctx domain.Context, q domain.SubjectiveQuestion, answerText string) (*subjectiveScoreResult, error) {
	prompt := fmt.Sprintf("Question: %s\nExpected answer: %s\nRubric: %s\nMax points: %d\nCandidate answer: %s",
		q.Text, q.ExpectedAnswer, q.Rubric, q.Points, answerText)
	out, err := s.AI.ChatJSON(ctx, subjectiveScoreSystemPrompt, prompt, 512)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrLLMUnavailable, err)
	}
	var result subjectiveScoreResult
	if err := json.Unmarshal([]byte(out), &result); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrLLMBadJSON, err)
	}
	if result.Score > q.Points {
		result.Score = q.Points
	}
	if result.Score < 0 {
		result.Score = 0
	}
	return &result, nil
}

func (s *EvaluationService) aggregateProgramming(ctx domain.Context, jdID, candidateAssessmentID string, set *domain.AssessmentSet) (domain.SectionAggregate, domain.PlagiarismBlock, error) {
	answer, err := s.Answers.Get(ctx, candidateAssessmentID, domain.SectionProgramming)
	if err != nil {
		return domain.SectionAggregate{}, domain.PlagiarismBlock{}, err
	}
	maxScore := 0
	for _, q := range set.Programming {
		maxScore += q.Points
	}

	block := domain.PlagiarismBlock{}
	score := 0
	for _, e := range answer.Entries {
		score += e.Points
		if s.Plagiarism != nil && e.Code != "" {
			if pb, err := s.Plagiarism.Check(ctx, jdID, e.QuestionID, candidateAssessmentID, e.Code); err == nil {
				mergePlagiarism(&block, *pb)
			}
		}
	}

	pct := 0.0
	if maxScore > 0 {
		pct = float64(score) / float64(maxScore) * 100
	}
	return domain.SectionAggregate{Score: score, MaxScore: maxScore, Percentage: pct}, block, nil
}

func mergePlagiarism(dst *domain.PlagiarismBlock, src domain.PlagiarismBlock) {
	if src.Checked {
		dst.Checked = true
	}
	if src.SimilarityScore > dst.SimilarityScore {
		dst.SimilarityScore = src.SimilarityScore
	}
	if src.IsFlagged && src.SimilarityScore >= plagiarismSimilarityGate {
		dst.IsFlagged = true
		dst.MatchedCandidate = src.MatchedCandidate
		dst.Details = src.Details
	}
}

func weightedScoreOf(cfg domain.AssessmentConfig, sections map[domain.Section]domain.SectionAggregate) float64 {
	type weighted struct {
		section domain.Section
		weight  int
	}
	var weights []weighted
	totalWeight := 0
	for sec := range sections {
		sc, ok := cfg.Sections[sec]
		weight := 0
		if ok {
			weight = sc.Weight
		}
		if weight <= 0 {
			weight = defaultWeightFor(sec)
		}
		weights = append(weights, weighted{section: sec, weight: weight})
		totalWeight += weight
	}
	if totalWeight == 0 {
		return 0
	}
	score := 0.0
	for _, w := range weights {
		agg := sections[w.section]
		fraction := float64(w.weight) / float64(totalWeight)
		score += agg.Percentage * fraction
	}
	return score
}

func defaultWeightFor(section domain.Section) int {
	if w, ok := config.DefaultSectionWeights[section]; ok {
		return w
	}
	return 0
}

func recommendationBand(score float64, cutoff int) (domain.Recommendation, int) {
	c := float64(cutoff)
	switch {
	case score >= c+15:
		return domain.RecommendationPass, 85
	case score >= c:
		return domain.RecommendationReview, 60
	case score >= c-10:
		return domain.RecommendationReview, 70
	default:
		return domain.RecommendationFail, 80
	}
}
