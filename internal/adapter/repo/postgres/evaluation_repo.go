package postgres

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"go.opentelemetry.io/otel"

	"github.com/ironquill/assesspoint/internal/domain"
)

// EvaluationRepo persists Evaluation records (C1/C10).
type EvaluationRepo struct{ Pool PgxPool }

// NewEvaluationRepo constructs an EvaluationRepo with the given pool.
func NewEvaluationRepo(p PgxPool) *EvaluationRepo { return &EvaluationRepo{Pool: p} }

// Upsert writes the evaluation, replacing any prior one for this candidate
// (re-evaluation, e.g. after a manual recompute, overwrites rather than
// accumulating history — spec.md has no versioned-evaluation requirement).
func (r *EvaluationRepo) Upsert(ctx domain.Context, e *domain.Evaluation) error {
	tracer := otel.Tracer("repo.evaluations")
	ctx, span := tracer.Start(ctx, "evaluations.Upsert")
	defer span.End()

	if e.ID == "" {
		e.ID = domain.NewID()
	}
	if e.EvaluatedAt.IsZero() {
		e.EvaluatedAt = time.Now().UTC()
	}
	if e.AdminDecision == "" {
		e.AdminDecision = domain.DecisionReviewPending
	}
	e.Version++

	doc, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("op=evaluations.upsert: marshal: %w", err)
	}

	q := `INSERT INTO evaluations (candidate_assessment_id, jd_id, recommendation, decision, doc, created_at, updated_at)
	      VALUES ($1,$2,$3,$4,$5,$6,$6)
	      ON CONFLICT (candidate_assessment_id) DO UPDATE
	      SET jd_id = EXCLUDED.jd_id, recommendation = EXCLUDED.recommendation,
	          doc = EXCLUDED.doc, updated_at = EXCLUDED.updated_at`
	_, err = r.Pool.Exec(ctx, q, e.CandidateAssessmentID, e.JDID, e.AIRecommendation, e.AdminDecision, doc, e.EvaluatedAt)
	if err != nil {
		return fmt.Errorf("op=evaluations.upsert: %w", err)
	}
	return nil
}

func (r *EvaluationRepo) GetByCandidate(ctx domain.Context, candidateAssessmentID string) (*domain.Evaluation, error) {
	q := `SELECT doc FROM evaluations WHERE candidate_assessment_id=$1`
	row := r.Pool.QueryRow(ctx, q, candidateAssessmentID)
	var raw []byte
	if err := row.Scan(&raw); err != nil {
		if err == pgx.ErrNoRows {
			return nil, fmt.Errorf("op=evaluations.get: %w", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("op=evaluations.get: %w", err)
	}
	var e domain.Evaluation
	if err := json.Unmarshal(raw, &e); err != nil {
		return nil, fmt.Errorf("op=evaluations.get: unmarshal: %w", err)
	}
	return &e, nil
}

func (r *EvaluationRepo) ListByJD(ctx domain.Context, jdID string, limit, offset int) ([]*domain.Evaluation, error) {
	q := `SELECT doc FROM evaluations WHERE jd_id=$1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	rows, err := r.Pool.Query(ctx, q, jdID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("op=evaluations.list_by_jd: %w", err)
	}
	defer rows.Close()

	var out []*domain.Evaluation
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("op=evaluations.list_by_jd: scan: %w", err)
		}
		var e domain.Evaluation
		if err := json.Unmarshal(raw, &e); err != nil {
			return nil, fmt.Errorf("op=evaluations.list_by_jd: unmarshal: %w", err)
		}
		out = append(out, &e)
	}
	return out, rows.Err()
}

func (r *EvaluationRepo) RecordDecision(ctx domain.Context, candidateAssessmentID string, decision domain.AdminDecision, by, note string) error {
	tracer := otel.Tracer("repo.evaluations")
	ctx, span := tracer.Start(ctx, "evaluations.RecordDecision")
	defer span.End()

	now := time.Now().UTC()
	fields := map[string]any{
		"adminDecision":     decision,
		"adminDecisionBy":   by,
		"adminDecisionAt":   now,
		"adminDecisionNote": note,
	}
	patch, err := mergeFieldsJSON(fields)
	if err != nil {
		return fmt.Errorf("op=evaluations.record_decision: marshal: %w", err)
	}

	q := `UPDATE evaluations SET doc = doc || $1::jsonb, decision = $2, updated_at = $3 WHERE candidate_assessment_id = $4`
	tag, err := r.Pool.Exec(ctx, q, patch, decision, now, candidateAssessmentID)
	if err != nil {
		return fmt.Errorf("op=evaluations.record_decision: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("op=evaluations.record_decision: %w", domain.ErrNotFound)
	}
	return nil
}
