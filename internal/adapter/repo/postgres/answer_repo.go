package postgres

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"go.opentelemetry.io/otel"

	"github.com/ironquill/assesspoint/internal/domain"
)

// AnswerRepo persists AssessmentAnswer documents (C1/C7/C8).
type AnswerRepo struct{ Pool PgxPool }

// NewAnswerRepo constructs an AnswerRepo with the given pool.
func NewAnswerRepo(p PgxPool) *AnswerRepo { return &AnswerRepo{Pool: p} }

func (r *AnswerRepo) GetOrCreate(ctx domain.Context, candidateAssessmentID string, section domain.Section) (*domain.AssessmentAnswer, error) {
	tracer := otel.Tracer("repo.answers")
	ctx, span := tracer.Start(ctx, "answers.GetOrCreate")
	defer span.End()

	answer, err := r.Get(ctx, candidateAssessmentID, section)
	if err == nil {
		return answer, nil
	}
	if !isNotFound(err) {
		return nil, err
	}

	now := time.Now().UTC()
	a := &domain.AssessmentAnswer{
		ID:                    domain.NewID(),
		CandidateAssessmentID: candidateAssessmentID,
		Section:               section,
		Entries:               []domain.AnswerEntry{},
		Version:               1,
		UpdatedAt:             now,
	}
	doc, err := json.Marshal(a)
	if err != nil {
		return nil, fmt.Errorf("op=answers.get_or_create: marshal: %w", err)
	}

	q := `INSERT INTO assessment_answers (candidate_assessment_id, section, doc, version, created_at, updated_at)
	      VALUES ($1,$2,$3,$4,$5,$6)
	      ON CONFLICT (candidate_assessment_id, section) DO NOTHING`
	if _, err := r.Pool.Exec(ctx, q, candidateAssessmentID, section, doc, a.Version, now, now); err != nil {
		return nil, fmt.Errorf("op=answers.get_or_create: %w", err)
	}
	return r.Get(ctx, candidateAssessmentID, section)
}

func (r *AnswerRepo) Get(ctx domain.Context, candidateAssessmentID string, section domain.Section) (*domain.AssessmentAnswer, error) {
	q := `SELECT doc FROM assessment_answers WHERE candidate_assessment_id=$1 AND section=$2`
	row := r.Pool.QueryRow(ctx, q, candidateAssessmentID, section)
	var raw []byte
	if err := row.Scan(&raw); err != nil {
		if err == pgx.ErrNoRows {
			return nil, fmt.Errorf("op=answers.get: %w", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("op=answers.get: %w", err)
	}
	var a domain.AssessmentAnswer
	if err := json.Unmarshal(raw, &a); err != nil {
		return nil, fmt.Errorf("op=answers.get: unmarshal: %w", err)
	}
	return &a, nil
}

func (r *AnswerRepo) ListByCandidate(ctx domain.Context, candidateAssessmentID string) ([]*domain.AssessmentAnswer, error) {
	q := `SELECT doc FROM assessment_answers WHERE candidate_assessment_id=$1 ORDER BY section`
	rows, err := r.Pool.Query(ctx, q, candidateAssessmentID)
	if err != nil {
		return nil, fmt.Errorf("op=answers.list: %w", err)
	}
	defer rows.Close()

	var out []*domain.AssessmentAnswer
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("op=answers.list: scan: %w", err)
		}
		var a domain.AssessmentAnswer
		if err := json.Unmarshal(raw, &a); err != nil {
			return nil, fmt.Errorf("op=answers.list: unmarshal: %w", err)
		}
		out = append(out, &a)
	}
	return out, rows.Err()
}

// UpsertEntry appends or replaces the entry matching entry.QuestionID inside
// the section's Entries array via a transaction: the candidate+section row
// is read FOR UPDATE, so concurrent saves to the same section wait for each
// other, and the whole section document is written back with its version
// bumped. The session usecase layer also serializes writes per candidate
// with its own lock.
func (r *AnswerRepo) UpsertEntry(ctx domain.Context, candidateAssessmentID string, section domain.Section, entry domain.AnswerEntry) error {
	tracer := otel.Tracer("repo.answers")
	ctx, span := tracer.Start(ctx, "answers.UpsertEntry")
	defer span.End()

	tx, err := r.Pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("op=answers.upsert_entry.begin_tx: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback(ctx)
		}
	}()

	q := `SELECT doc FROM assessment_answers WHERE candidate_assessment_id=$1 AND section=$2 FOR UPDATE`
	row := tx.QueryRow(ctx, q, candidateAssessmentID, section)
	var raw []byte
	if err := row.Scan(&raw); err != nil {
		return fmt.Errorf("op=answers.upsert_entry: %w", err)
	}
	var a domain.AssessmentAnswer
	if err := json.Unmarshal(raw, &a); err != nil {
		return fmt.Errorf("op=answers.upsert_entry: unmarshal: %w", err)
	}

	replaced := false
	for i, e := range a.Entries {
		if e.QuestionID == entry.QuestionID {
			a.Entries[i] = entry
			replaced = true
			break
		}
	}
	if !replaced {
		a.Entries = append(a.Entries, entry)
	}
	a.Version++
	a.UpdatedAt = time.Now().UTC()

	newDoc, err := json.Marshal(a)
	if err != nil {
		return fmt.Errorf("op=answers.upsert_entry: marshal: %w", err)
	}
	upd := `UPDATE assessment_answers SET doc=$1, version=$2, updated_at=$3 WHERE candidate_assessment_id=$4 AND section=$5`
	if _, err := tx.Exec(ctx, upd, newDoc, a.Version, a.UpdatedAt, candidateAssessmentID, section); err != nil {
		return fmt.Errorf("op=answers.upsert_entry: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("op=answers.upsert_entry.commit: %w", err)
	}
	committed = true
	return nil
}

func (r *AnswerRepo) UpdateFields(ctx domain.Context, candidateAssessmentID string, section domain.Section, expectedVersion int, fields map[string]any) error {
	tracer := otel.Tracer("repo.answers")
	ctx, span := tracer.Start(ctx, "answers.UpdateFields")
	defer span.End()

	fields["updatedAt"] = time.Now().UTC()
	fields["version"] = expectedVersion + 1
	patch, err := mergeFieldsJSON(fields)
	if err != nil {
		return fmt.Errorf("op=answers.update_fields: marshal: %w", err)
	}

	q := `UPDATE assessment_answers
	      SET doc = doc || $1::jsonb, version = $2, updated_at = $3
	      WHERE candidate_assessment_id = $4 AND section = $5 AND version = $6`
	tag, err := r.Pool.Exec(ctx, q, patch, expectedVersion+1, time.Now().UTC(), candidateAssessmentID, section, expectedVersion)
	if err != nil {
		return fmt.Errorf("op=answers.update_fields: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("op=answers.update_fields: %w", domain.ErrConflict)
	}
	return nil
}

func isNotFound(err error) bool {
	return errors.Is(err, domain.ErrNotFound)
}
