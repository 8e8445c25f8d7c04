package postgres

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"go.opentelemetry.io/otel"

	"github.com/ironquill/assesspoint/internal/domain"
)

// CandidateRepo persists CandidateAssessment documents (C1/C6/C7).
type CandidateRepo struct{ Pool PgxPool }

// NewCandidateRepo constructs a CandidateRepo with the given pool.
func NewCandidateRepo(p PgxPool) *CandidateRepo { return &CandidateRepo{Pool: p} }

func (r *CandidateRepo) Create(ctx domain.Context, c *domain.CandidateAssessment) error {
	tracer := otel.Tracer("repo.candidate")
	ctx, span := tracer.Start(ctx, "candidate.Create")
	defer span.End()

	now := time.Now().UTC()
	if c.InvitedAt.IsZero() {
		c.InvitedAt = now
	}
	c.UpdatedAt, c.Version = now, 1

	doc, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("op=candidate.create: marshal: %w", err)
	}

	var token any
	if c.SessionToken != "" {
		token = c.SessionToken
	}

	q := `INSERT INTO candidate_assessments (id, jd_id, candidate_id, session_token, status, doc, version, created_at, updated_at)
	      VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)`
	_, err = r.Pool.Exec(ctx, q, c.ID, c.JDID, c.CandidateID, token, c.Status, doc, c.Version, now, now)
	if err != nil {
		return fmt.Errorf("op=candidate.create: %w", err)
	}
	return nil
}

func (r *CandidateRepo) Get(ctx domain.Context, id string) (*domain.CandidateAssessment, error) {
	return r.getWhere(ctx, `SELECT doc FROM candidate_assessments WHERE id=$1`, id)
}

func (r *CandidateRepo) GetByCandidateAndJD(ctx domain.Context, candidateID, jdID string) (*domain.CandidateAssessment, error) {
	q := `SELECT doc FROM candidate_assessments WHERE jd_id=$1 AND candidate_id=$2`
	return r.getWhere(ctx, q, jdID, candidateID)
}

func (r *CandidateRepo) GetBySessionToken(ctx domain.Context, token string) (*domain.CandidateAssessment, error) {
	return r.getWhere(ctx, `SELECT doc FROM candidate_assessments WHERE session_token=$1`, token)
}

func (r *CandidateRepo) getWhere(ctx domain.Context, q string, args ...any) (*domain.CandidateAssessment, error) {
	row := r.Pool.QueryRow(ctx, q, args...)
	var raw []byte
	if err := row.Scan(&raw); err != nil {
		if err == pgx.ErrNoRows {
			return nil, fmt.Errorf("op=candidate.get: %w", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("op=candidate.get: %w", err)
	}
	var c domain.CandidateAssessment
	if err := json.Unmarshal(raw, &c); err != nil {
		return nil, fmt.Errorf("op=candidate.get: unmarshal: %w", err)
	}
	return &c, nil
}

func (r *CandidateRepo) ListByJD(ctx domain.Context, jdID string, limit, offset int) ([]*domain.CandidateAssessment, error) {
	q := `SELECT doc FROM candidate_assessments WHERE jd_id=$1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	rows, err := r.Pool.Query(ctx, q, jdID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("op=candidate.list_by_jd: %w", err)
	}
	defer rows.Close()

	var out []*domain.CandidateAssessment
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("op=candidate.list_by_jd: scan: %w", err)
		}
		var c domain.CandidateAssessment
		if err := json.Unmarshal(raw, &c); err != nil {
			return nil, fmt.Errorf("op=candidate.list_by_jd: unmarshal: %w", err)
		}
		out = append(out, &c)
	}
	return out, rows.Err()
}

// UpdateFields patches the given top-level doc fields and bumps version,
// failing with domain.ErrConflict on a version mismatch (spec.md §4.1).
func (r *CandidateRepo) UpdateFields(ctx domain.Context, id string, expectedVersion int, fields map[string]any) error {
	tracer := otel.Tracer("repo.candidate")
	ctx, span := tracer.Start(ctx, "candidate.UpdateFields")
	defer span.End()

	fields["updatedAt"] = time.Now().UTC()
	fields["version"] = expectedVersion + 1
	patch, err := mergeFieldsJSON(fields)
	if err != nil {
		return fmt.Errorf("op=candidate.update_fields: marshal: %w", err)
	}

	var status any
	if s, ok := fields["status"]; ok {
		status = s
	}
	var token any
	if t, ok := fields["sessionToken"]; ok {
		token = t
	}

	q := `UPDATE candidate_assessments
	      SET doc = doc || $1::jsonb, version = $2, updated_at = $3,
	          status = COALESCE($4, status), session_token = COALESCE($5, session_token)
	      WHERE id = $6 AND version = $7`
	tag, err := r.Pool.Exec(ctx, q, patch, expectedVersion+1, time.Now().UTC(), status, token, id, expectedVersion)
	if err != nil {
		return fmt.Errorf("op=candidate.update_fields: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("op=candidate.update_fields: %w", domain.ErrConflict)
	}
	return nil
}

// IncrementProctoringCounters bumps the candidate's embedded proctoring
// stats counters atomically, independent of the optimistic-concurrency
// version column — proctoring appends never contend with the candidate
// lock (spec.md §5).
func (r *CandidateRepo) IncrementProctoringCounters(ctx domain.Context, id string, events domain.ProctoringStats) error {
	tracer := otel.Tracer("repo.candidate")
	ctx, span := tracer.Start(ctx, "candidate.IncrementProctoringCounters")
	defer span.End()

	q := `UPDATE candidate_assessments
	      SET doc = jsonb_set(
	            jsonb_set(
	              jsonb_set(
	                jsonb_set(doc, '{proctoringStats,totalEvents}',
	                  to_jsonb(COALESCE((doc->'proctoringStats'->>'totalEvents')::int, 0) + $1), true),
	                '{proctoringStats,tabSwitches}',
	                  to_jsonb(COALESCE((doc->'proctoringStats'->>'tabSwitches')::int, 0) + $2), true),
	              '{proctoringStats,faceDetectionIssues}',
	                to_jsonb(COALESCE((doc->'proctoringStats'->>'faceDetectionIssues')::int, 0) + $3), true),
	            '{proctoringStats,highSeverityEvents}',
	              to_jsonb(COALESCE((doc->'proctoringStats'->>'highSeverityEvents')::int, 0) + $4), true),
	          updated_at = $5
	      WHERE id = $6`
	_, err := r.Pool.Exec(ctx, q, events.TotalEvents, events.TabSwitches, events.FaceDetectionIssues,
		events.HighSeverityEvents, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("op=candidate.increment_proctoring_counters: %w", err)
	}
	return nil
}
