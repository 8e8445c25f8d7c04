package postgres

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/ironquill/assesspoint/internal/domain"
)

// JDRepo persists JobDescription documents (C1/C4).
type JDRepo struct{ Pool PgxPool }

// NewJDRepo constructs a JDRepo with the given pool.
func NewJDRepo(p PgxPool) *JDRepo { return &JDRepo{Pool: p} }

func (r *JDRepo) Create(ctx domain.Context, jd *domain.JobDescription) error {
	tracer := otel.Tracer("repo.jd")
	ctx, span := tracer.Start(ctx, "jd.Create")
	defer span.End()
	span.SetAttributes(attribute.String("db.sql.table", "job_descriptions"))

	now := time.Now().UTC()
	jd.CreatedAt, jd.UpdatedAt, jd.Version = now, now, 1

	doc, err := json.Marshal(jd)
	if err != nil {
		return fmt.Errorf("op=jd.create: marshal: %w", err)
	}

	var link any
	if jd.AssessmentLink != "" {
		link = jd.AssessmentLink
	}

	q := `INSERT INTO job_descriptions (id, company_id, recruiter_id, status, assessment_link, doc, version, created_at, updated_at)
	      VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)`
	_, err = r.Pool.Exec(ctx, q, jd.ID, jd.CompanyID, jd.RecruiterID, jd.Status, link, doc, jd.Version, now, now)
	if err != nil {
		return fmt.Errorf("op=jd.create: %w", err)
	}
	return nil
}

func (r *JDRepo) Get(ctx domain.Context, id string) (*domain.JobDescription, error) {
	tracer := otel.Tracer("repo.jd")
	ctx, span := tracer.Start(ctx, "jd.Get")
	defer span.End()

	q := `SELECT doc FROM job_descriptions WHERE id=$1`
	row := r.Pool.QueryRow(ctx, q, id)
	var raw []byte
	if err := row.Scan(&raw); err != nil {
		if err == pgx.ErrNoRows {
			return nil, fmt.Errorf("op=jd.get: %w", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("op=jd.get: %w", err)
	}
	var jd domain.JobDescription
	if err := json.Unmarshal(raw, &jd); err != nil {
		return nil, fmt.Errorf("op=jd.get: unmarshal: %w", err)
	}
	return &jd, nil
}

func (r *JDRepo) GetByAssessmentLink(ctx domain.Context, link string) (*domain.JobDescription, error) {
	tracer := otel.Tracer("repo.jd")
	ctx, span := tracer.Start(ctx, "jd.GetByAssessmentLink")
	defer span.End()

	q := `SELECT doc FROM job_descriptions WHERE assessment_link=$1`
	row := r.Pool.QueryRow(ctx, q, link)
	var raw []byte
	if err := row.Scan(&raw); err != nil {
		if err == pgx.ErrNoRows {
			return nil, fmt.Errorf("op=jd.get_by_link: %w", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("op=jd.get_by_link: %w", err)
	}
	var jd domain.JobDescription
	if err := json.Unmarshal(raw, &jd); err != nil {
		return nil, fmt.Errorf("op=jd.get_by_link: unmarshal: %w", err)
	}
	return &jd, nil
}

func (r *JDRepo) ListByCompany(ctx domain.Context, companyID string, limit, offset int) ([]*domain.JobDescription, error) {
	tracer := otel.Tracer("repo.jd")
	ctx, span := tracer.Start(ctx, "jd.ListByCompany")
	defer span.End()

	q := `SELECT doc FROM job_descriptions WHERE company_id=$1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	rows, err := r.Pool.Query(ctx, q, companyID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("op=jd.list_by_company: %w", err)
	}
	defer rows.Close()

	var out []*domain.JobDescription
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("op=jd.list_by_company: scan: %w", err)
		}
		var jd domain.JobDescription
		if err := json.Unmarshal(raw, &jd); err != nil {
			return nil, fmt.Errorf("op=jd.list_by_company: unmarshal: %w", err)
		}
		out = append(out, &jd)
	}
	return out, rows.Err()
}

// UpdateFields patches the given top-level doc fields and bumps version,
// failing with domain.ErrConflict if expectedVersion doesn't match the
// current row (optimistic concurrency, spec.md §4.1).
func (r *JDRepo) UpdateFields(ctx domain.Context, id string, expectedVersion int, fields map[string]any) error {
	tracer := otel.Tracer("repo.jd")
	ctx, span := tracer.Start(ctx, "jd.UpdateFields")
	defer span.End()

	fields["updatedAt"] = time.Now().UTC()
	fields["version"] = expectedVersion + 1
	patch, err := mergeFieldsJSON(fields)
	if err != nil {
		return fmt.Errorf("op=jd.update_fields: marshal: %w", err)
	}

	var status any
	if s, ok := fields["status"]; ok {
		status = s
	}
	var link any
	if l, ok := fields["assessmentLink"]; ok {
		link = l
	}

	q := `UPDATE job_descriptions
	      SET doc = doc || $1::jsonb, version = $2, updated_at = $3,
	          status = COALESCE($4, status), assessment_link = COALESCE($5, assessment_link)
	      WHERE id = $6 AND version = $7`
	tag, err := r.Pool.Exec(ctx, q, patch, expectedVersion+1, time.Now().UTC(), status, link, id, expectedVersion)
	if err != nil {
		return fmt.Errorf("op=jd.update_fields: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("op=jd.update_fields: %w", domain.ErrConflict)
	}
	return nil
}

func (r *JDRepo) Delete(ctx domain.Context, id string) error {
	tracer := otel.Tracer("repo.jd")
	ctx, span := tracer.Start(ctx, "jd.Delete")
	defer span.End()

	tag, err := r.Pool.Exec(ctx, `DELETE FROM job_descriptions WHERE id=$1`, id)
	if err != nil {
		return fmt.Errorf("op=jd.delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("op=jd.delete: %w", domain.ErrNotFound)
	}
	return nil
}

func (r *JDRepo) LinkExists(ctx domain.Context, link string) (bool, error) {
	q := `SELECT EXISTS(SELECT 1 FROM job_descriptions WHERE assessment_link=$1)`
	row := r.Pool.QueryRow(ctx, q, link)
	var exists bool
	if err := row.Scan(&exists); err != nil {
		return false, fmt.Errorf("op=jd.link_exists: %w", err)
	}
	return exists, nil
}

// IncrementStat bumps a single numeric field inside doc.stats atomically,
// e.g. "totalCandidates" or "completedAssessments".
func (r *JDRepo) IncrementStat(ctx domain.Context, id string, field string, delta int) error {
	tracer := otel.Tracer("repo.jd")
	ctx, span := tracer.Start(ctx, "jd.IncrementStat")
	defer span.End()
	span.SetAttributes(attribute.String("jd.stat.field", field))

	path := fmt.Sprintf("{stats,%s}", field)
	q := `UPDATE job_descriptions
	      SET doc = jsonb_set(doc, $1, to_jsonb(COALESCE((doc->'stats'->>$2)::int, 0) + $3), true),
	          updated_at = $4
	      WHERE id = $5`
	_, err := r.Pool.Exec(ctx, q, path, field, delta, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("op=jd.increment_stat: %w", err)
	}
	return nil
}
