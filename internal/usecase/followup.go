package usecase

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"go.opentelemetry.io/otel"

	"github.com/ironquill/assesspoint/internal/domain"
	obsctx "github.com/ironquill/assesspoint/internal/observability"
)

const detectorSystemPrompt = `You decide whether a candidate's interview answer warrants a follow-up
question. Use a conservative, low-temperature judgment. Return strict JSON:
{"need_follow_up":bool,"confidence":float,"reason":string,"summarized_answer":string}.
summarized_answer must be at most roughly 200 tokens and preserve only what is relevant to
grading a follow-up.`

const generatorSystemPrompt = `You write one probing follow-up interview question based on a
candidate's prior answer. Return strict JSON: {"follow_up_question":string,"expected_answer":string}.`

const generatorRegenSystemPrompt = generatorSystemPrompt + ` The previous attempt duplicated an
earlier question — produce a materially different angle this time.`

// admitConfidence / admitConfidenceAtTarget are the heuristic thresholds
// from spec.md §4.11 step 2.
const (
	admitConfidence         = 0.65
	admitConfidenceAtTarget = 0.75
	maxFollowUpsPerBase     = 2
	recentQuestionWindow    = 6
)

// FollowUpEngine implements the adaptive follow-up interviewing engine (C11).
type FollowUpEngine struct {
	Interviews domain.InterviewRepository
	AI         domain.AIClient
}

// NewFollowUpEngine constructs a FollowUpEngine.
func NewFollowUpEngine(interviews domain.InterviewRepository, ai domain.AIClient) *FollowUpEngine {
	return &FollowUpEngine{Interviews: interviews, AI: ai}
}

type detectorResult struct {
	NeedFollowUp     bool    `json:"need_follow_up"`
	Confidence       float64 `json:"confidence"`
	Reason           string  `json:"reason"`
	SummarizedAnswer string  `json:"summarized_answer"`
}

type generatorResult struct {
	FollowUpQuestion string `json:"follow_up_question"`
	ExpectedAnswer   string `json:"expected_answer"`
}

// ProcessAnswer runs the detector over one completed base-question answer
// and, if admitted by the heuristics, generates and persists a follow-up.
// Returns (nil, nil) when no follow-up is admitted.
func (e *FollowUpEngine) ProcessAnswer(ctx domain.Context, candidateAssessmentID string, originBaseIndex, baseQuestionCount, minQuestions, maxQuestions int, question, answerText string) (*domain.FollowUpQuestion, error) {
	tr := otel.Tracer("usecase.followup")
	ctx, span := tr.Start(ctx, "FollowUpEngine.ProcessAnswer")
	defer span.End()
	lg := obsctx.LoggerFromContext(ctx)

	meta, err := e.Interviews.GetOrCreateMetadata(ctx, candidateAssessmentID, baseQuestionCount, minQuestions, maxQuestions)
	if err != nil {
		return nil, fmt.Errorf("op=followup.process_answer: %w", err)
	}

	det, err := e.detect(ctx, question, answerText)
	if err != nil {
		lg.Error("detector call failed", slog.Any("error", err))
		return nil, fmt.Errorf("%w: %v", domain.ErrLLMUnavailable, err)
	}

	admitted, existingForOrigin, err := e.shouldAdmit(ctx, meta, originBaseIndex, det)
	if err != nil {
		return nil, err
	}

	bumpAvgConfidence(meta, det.Confidence)
	meta.DetectorCallCount++
	if !admitted {
		meta.RejectedCount++
		if err := e.Interviews.UpdateMetadata(ctx, meta); err != nil {
			return nil, fmt.Errorf("op=followup.process_answer: %w", err)
		}
		return nil, nil
	}

	gen, err := e.generate(ctx, question, det.SummarizedAnswer, generatorSystemPrompt)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrLLMUnavailable, err)
	}
	recent, err := e.Interviews.RecentQuestions(ctx, candidateAssessmentID, recentQuestionWindow)
	if err != nil {
		return nil, fmt.Errorf("op=followup.process_answer: %w", err)
	}
	if isDuplicate(gen.FollowUpQuestion, recent) {
		gen, err = e.generate(ctx, question, det.SummarizedAnswer, generatorRegenSystemPrompt)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrLLMUnavailable, err)
		}
	}

	sortKey := domain.SortKeyFor(originBaseIndex, existingForOrigin+1)
	followUp := &domain.FollowUpQuestion{
		ID:                    domain.NewID(),
		CandidateAssessmentID: candidateAssessmentID,
		OriginBaseIndex:       originBaseIndex,
		SortKey:               sortKey,
		Question:              gen.FollowUpQuestion,
		ExpectedAnswer:        gen.ExpectedAnswer,
		DetectorConfidence:    det.Confidence,
		DetectorReason:        det.Reason,
		SummarizedOrigin:      det.SummarizedAnswer,
		CreatedAt:             time.Now().UTC(),
	}
	if err := e.Interviews.CreateFollowUp(ctx, followUp); err != nil {
		return nil, fmt.Errorf("op=followup.process_answer: %w", err)
	}

	meta.FollowupCount++
	meta.CurrentTotalQuestions++
	meta.LastFollowupPosition = sortKey
	meta.ApprovedCount++
	if meta.CurrentTotalQuestions >= meta.MaxQuestions {
		meta.Status = domain.InterviewCompleted
	}
	if err := e.Interviews.UpdateMetadata(ctx, meta); err != nil {
		return nil, fmt.Errorf("op=followup.process_answer: %w", err)
	}

	lg.Info("follow-up admitted",
		slog.String("candidate_assessment_id", candidateAssessmentID),
		slog.Int("origin_base_index", originBaseIndex),
		slog.Int("sort_key", sortKey),
		slog.Float64("confidence", det.Confidence))
	return followUp, nil
}

func (e *FollowUpEngine) detect(ctx domain.Context, question, answerText string) (*detectorResult, error) {
	prompt := fmt.Sprintf("Question: %s\nAnswer: %s", question, answerText)
	out, err := e.AI.ChatJSON(ctx, detectorSystemPrompt, prompt, 512)
	if err != nil {
		return nil, err
	}
	var det detectorResult
	if err := json.Unmarshal([]byte(out), &det); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrLLMBadJSON, err)
	}
	return &det, nil
}

func (e *FollowUpEngine) generate(ctx domain.Context, question, summarizedAnswer, systemPrompt string) (*generatorResult, error) {
	prompt := fmt.Sprintf("Original question: %s\nCandidate's summarized answer: %s", question, summarizedAnswer)
	out, err := e.AI.ChatJSON(ctx, systemPrompt, prompt, 512)
	if err != nil {
		return nil, err
	}
	var gen generatorResult
	if err := json.Unmarshal([]byte(out), &gen); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrLLMBadJSON, err)
	}
	return &gen, nil
}

// shouldAdmit applies spec.md §4.11 step 2's heuristics and returns whether
// to admit a follow-up, along with the count of follow-ups already
// generated for this origin base question.
func (e *FollowUpEngine) shouldAdmit(ctx domain.Context, meta *domain.InterviewMetadata, originBaseIndex int, det *detectorResult) (bool, int, error) {
	if !det.NeedFollowUp {
		return false, 0, nil
	}

	followUps, err := e.Interviews.ListFollowUps(ctx, meta.CandidateAssessmentID)
	if err != nil {
		return false, 0, fmt.Errorf("op=followup.should_admit: %w", err)
	}
	existingForOrigin := 0
	for _, f := range followUps {
		if f.OriginBaseIndex == originBaseIndex {
			existingForOrigin++
		}
	}
	if existingForOrigin >= maxFollowUpsPerBase {
		return false, existingForOrigin, nil
	}

	threshold := admitConfidence
	if meta.FollowupCount >= meta.TargetFollowups() {
		threshold = admitConfidenceAtTarget
	}
	if det.Confidence < threshold {
		return false, existingForOrigin, nil
	}

	if meta.CurrentTotalQuestions >= meta.MaxQuestions {
		return false, existingForOrigin, nil
	}
	remainingBaseQuestions := meta.BaseQuestionCount - originBaseIndex - 1
	slotsAfterThisOne := meta.MaxQuestions - meta.CurrentTotalQuestions - 1
	if slotsAfterThisOne < remainingBaseQuestions {
		return false, existingForOrigin, nil
	}

	return true, existingForOrigin, nil
}

func bumpAvgConfidence(meta *domain.InterviewMetadata, confidence float64) {
	n := meta.DetectorCallCount
	meta.AvgDetectorConfidence = (meta.AvgDetectorConfidence*float64(n) + confidence) / float64(n+1)
}

func isDuplicate(candidate string, recent []string) bool {
	norm := normalizeQuestion(candidate)
	for _, r := range recent {
		if normalizeQuestion(r) == norm {
			return true
		}
	}
	return false
}

func normalizeQuestion(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(strings.TrimSpace(s))), " ")
}
