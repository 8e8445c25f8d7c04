package usecase

import (
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel"

	"github.com/ironquill/assesspoint/internal/domain"
	obsctx "github.com/ironquill/assesspoint/internal/observability"
)

// similarityThreshold flags a free-text answer as plagiarized once its
// nearest stored neighbor crosses this cosine-similarity score.
const similarityThreshold = 0.80

// VectorSearcher is the subset of the Qdrant client the plagiarism checker
// needs: search and upsert, nothing else.
type VectorSearcher interface {
	Search(ctx domain.Context, collection string, vector []float32, topK int) ([]map[string]any, error)
	UpsertPoints(ctx domain.Context, collection string, vectors [][]float32, payloads []map[string]any, ids []any) error
}

// AnswersCollection is the Qdrant collection free-text answers are indexed
// into by cmd/plagiarismseed and searched against here.
const AnswersCollection = "assessment_answers"

// PlagiarismService implements domain.PlagiarismChecker by embedding a
// candidate's free-text answer and searching for near-duplicate answers
// other candidates gave to the same question.
type PlagiarismService struct {
	AI     domain.AIClient
	Vector VectorSearcher
}

// NewPlagiarismService constructs a PlagiarismService.
func NewPlagiarismService(ai domain.AIClient, vector VectorSearcher) *PlagiarismService {
	return &PlagiarismService{AI: ai, Vector: vector}
}

// Check embeds text and searches AnswersCollection for the nearest
// previously-indexed answer to the same question. A match at or above
// similarityThreshold flags the answer. The answer is then indexed whether
// or not it matched, so later candidates' answers are checked against it too.
func (s *PlagiarismService) Check(ctx domain.Context, jdID, questionID, candidateAssessmentID, text string) (*domain.PlagiarismBlock, error) {
	tr := otel.Tracer("usecase.plagiarism")
	ctx, span := tr.Start(ctx, "PlagiarismService.Check")
	defer span.End()

	lg := obsctx.LoggerFromContext(ctx)

	block := &domain.PlagiarismBlock{Checked: false}
	if s.AI == nil || s.Vector == nil {
		lg.Warn("plagiarism check skipped: dependencies not configured",
			slog.String("question_id", questionID))
		return block, nil
	}
	if text == "" {
		return block, nil
	}

	vecs, err := s.AI.Embed(ctx, []string{text})
	if err != nil {
		return nil, fmt.Errorf("%w: embed answer: %v", domain.ErrLLMUnavailable, err)
	}
	if len(vecs) == 0 {
		return nil, fmt.Errorf("%w: embed answer: no vector returned", domain.ErrLLMUnavailable)
	}
	vector := vecs[0]

	hits, err := s.Vector.Search(ctx, AnswersCollection, vector, 5)
	if err != nil {
		lg.Error("plagiarism similarity search failed", slog.Any("error", err))
		return nil, fmt.Errorf("%w: similarity search: %v", domain.ErrInfrastructure, err)
	}

	block.Checked = true

	var best map[string]any
	var bestScore float64
	for _, h := range hits {
		payload, _ := h["payload"].(map[string]any)
		if payload == nil {
			continue
		}
		if payload["questionId"] != questionID {
			continue
		}
		if payload["candidateAssessmentId"] == candidateAssessmentID {
			continue
		}
		score, _ := h["score"].(float64)
		if score > bestScore {
			bestScore = score
			best = payload
		}
	}

	if best != nil && bestScore >= similarityThreshold {
		block.IsFlagged = true
		block.SimilarityScore = bestScore
		if other, ok := best["candidateAssessmentId"].(string); ok {
			block.MatchedCandidate = other
		}
		block.Details = fmt.Sprintf("answer matches a prior submission at %.0f%% similarity", bestScore*100)
		lg.Info("plagiarism flagged",
			slog.String("question_id", questionID),
			slog.String("candidate_assessment_id", candidateAssessmentID),
			slog.Float64("score", bestScore))
	}

	payload := map[string]any{
		"jdId":                  jdID,
		"questionId":            questionID,
		"candidateAssessmentId": candidateAssessmentID,
	}
	if err := s.Vector.UpsertPoints(ctx, AnswersCollection, [][]float32{vector}, []map[string]any{payload}, nil); err != nil {
		lg.Warn("plagiarism index upsert failed", slog.Any("error", err))
	}

	return block, nil
}
