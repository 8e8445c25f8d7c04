package postgres

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"go.opentelemetry.io/otel"

	"github.com/ironquill/assesspoint/internal/domain"
)

// SetRepo persists AssessmentSet documents (C1/C5).
type SetRepo struct{ Pool PgxPool }

// NewSetRepo constructs a SetRepo with the given pool.
func NewSetRepo(p PgxPool) *SetRepo { return &SetRepo{Pool: p} }

// CreateMany inserts N sets in one transaction; either all N sets of a JD
// persist or none do (spec.md §4.5's GenerateSets is all-or-nothing).
func (r *SetRepo) CreateMany(ctx domain.Context, sets []*domain.AssessmentSet) error {
	tracer := otel.Tracer("repo.sets")
	ctx, span := tracer.Start(ctx, "sets.CreateMany")
	defer span.End()

	tx, err := r.Pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("op=sets.create_many.begin_tx: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback(ctx)
		}
	}()

	now := time.Now().UTC()
	for _, s := range sets {
		s.CreatedAt = now
		s.Finalize()
		if err := s.Validate(); err != nil {
			return fmt.Errorf("op=sets.create_many: %w", err)
		}
		doc, err := json.Marshal(s)
		if err != nil {
			return fmt.Errorf("op=sets.create_many: marshal: %w", err)
		}
		q := `INSERT INTO assessment_sets (id, jd_id, idx, is_active, doc, created_at) VALUES ($1,$2,$3,$4,$5,$6)`
		if _, err := tx.Exec(ctx, q, s.ID, s.JDID, s.Index, s.IsActive, doc, now); err != nil {
			return fmt.Errorf("op=sets.create_many: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("op=sets.create_many.commit: %w", err)
	}
	committed = true
	return nil
}

func (r *SetRepo) Get(ctx domain.Context, id string) (*domain.AssessmentSet, error) {
	q := `SELECT doc FROM assessment_sets WHERE id=$1`
	row := r.Pool.QueryRow(ctx, q, id)
	var raw []byte
	if err := row.Scan(&raw); err != nil {
		if err == pgx.ErrNoRows {
			return nil, fmt.Errorf("op=sets.get: %w", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("op=sets.get: %w", err)
	}
	var s domain.AssessmentSet
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("op=sets.get: unmarshal: %w", err)
	}
	return &s, nil
}

func (r *SetRepo) ListByJD(ctx domain.Context, jdID string) ([]*domain.AssessmentSet, error) {
	return r.listWhere(ctx, `SELECT doc FROM assessment_sets WHERE jd_id=$1 ORDER BY idx`, jdID)
}

func (r *SetRepo) ListActiveByJD(ctx domain.Context, jdID string) ([]*domain.AssessmentSet, error) {
	return r.listWhere(ctx, `SELECT doc FROM assessment_sets WHERE jd_id=$1 AND is_active ORDER BY idx`, jdID)
}

func (r *SetRepo) listWhere(ctx domain.Context, q, jdID string) ([]*domain.AssessmentSet, error) {
	rows, err := r.Pool.Query(ctx, q, jdID)
	if err != nil {
		return nil, fmt.Errorf("op=sets.list: %w", err)
	}
	defer rows.Close()

	var out []*domain.AssessmentSet
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("op=sets.list: scan: %w", err)
		}
		var s domain.AssessmentSet
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil, fmt.Errorf("op=sets.list: unmarshal: %w", err)
		}
		out = append(out, &s)
	}
	return out, rows.Err()
}

func (r *SetRepo) DeleteByJD(ctx domain.Context, jdID string) error {
	_, err := r.Pool.Exec(ctx, `DELETE FROM assessment_sets WHERE jd_id=$1`, jdID)
	if err != nil {
		return fmt.Errorf("op=sets.delete_by_jd: %w", err)
	}
	return nil
}
