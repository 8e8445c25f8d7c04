package postgres

import (
	"encoding/json"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"

	"github.com/ironquill/assesspoint/internal/domain"
)

// ProctoringRepo persists ProctoringEvent records (C1/C9). Events are
// append-only; there is no UpdateFields here because nothing in spec.md
// mutates a recorded event except MarkReviewed.
type ProctoringRepo struct{ Pool PgxPool }

// NewProctoringRepo constructs a ProctoringRepo with the given pool.
func NewProctoringRepo(p PgxPool) *ProctoringRepo { return &ProctoringRepo{Pool: p} }

func (r *ProctoringRepo) Create(ctx domain.Context, e *domain.ProctoringEvent) error {
	tracer := otel.Tracer("repo.proctoring")
	ctx, span := tracer.Start(ctx, "proctoring.Create")
	defer span.End()

	if e.ID == "" {
		e.ID = domain.NewID()
	}
	e.CreatedAt = time.Now().UTC()

	doc, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("op=proctoring.create: marshal: %w", err)
	}

	q := `INSERT INTO proctoring_events (id, candidate_assessment_id, severity, event_type, reviewed, doc, created_at)
	      VALUES ($1,$2,$3,$4,$5,$6,$7)`
	_, err = r.Pool.Exec(ctx, q, e.ID, e.CandidateAssessmentID, e.Severity, e.Type, e.Reviewed, doc, e.CreatedAt)
	if err != nil {
		return fmt.Errorf("op=proctoring.create: %w", err)
	}
	return nil
}

func (r *ProctoringRepo) ListByCandidate(ctx domain.Context, candidateAssessmentID string, limit, offset int) ([]*domain.ProctoringEvent, error) {
	q := `SELECT doc FROM proctoring_events WHERE candidate_assessment_id=$1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	rows, err := r.Pool.Query(ctx, q, candidateAssessmentID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("op=proctoring.list: %w", err)
	}
	defer rows.Close()

	var out []*domain.ProctoringEvent
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("op=proctoring.list: scan: %w", err)
		}
		var e domain.ProctoringEvent
		if err := json.Unmarshal(raw, &e); err != nil {
			return nil, fmt.Errorf("op=proctoring.list: unmarshal: %w", err)
		}
		out = append(out, &e)
	}
	return out, rows.Err()
}

func (r *ProctoringRepo) MarkReviewed(ctx domain.Context, id, reviewedBy, note string) error {
	tracer := otel.Tracer("repo.proctoring")
	ctx, span := tracer.Start(ctx, "proctoring.MarkReviewed")
	defer span.End()

	now := time.Now().UTC()
	fields := map[string]any{
		"reviewed":   true,
		"reviewedBy": reviewedBy,
		"reviewedAt": now,
		"reviewNote": note,
	}
	patch, err := mergeFieldsJSON(fields)
	if err != nil {
		return fmt.Errorf("op=proctoring.mark_reviewed: marshal: %w", err)
	}

	q := `UPDATE proctoring_events SET doc = doc || $1::jsonb, reviewed = true WHERE id = $2`
	tag, err := r.Pool.Exec(ctx, q, patch, id)
	if err != nil {
		return fmt.Errorf("op=proctoring.mark_reviewed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("op=proctoring.mark_reviewed: %w", domain.ErrNotFound)
	}
	return nil
}
