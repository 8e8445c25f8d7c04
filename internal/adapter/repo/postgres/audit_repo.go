package postgres

import (
	"encoding/json"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"

	"github.com/ironquill/assesspoint/internal/domain"
)

// AuditRepo persists append-only audit entries (C1) covering recruiter and
// admin actions: JD publish/archive, assessment link regeneration, manual
// decision overrides, proctoring review.
type AuditRepo struct{ Pool PgxPool }

// NewAuditRepo constructs an AuditRepo with the given pool.
func NewAuditRepo(p PgxPool) *AuditRepo { return &AuditRepo{Pool: p} }

func (r *AuditRepo) Record(ctx domain.Context, actorID, action, targetType, targetID string, detail map[string]any) error {
	tracer := otel.Tracer("repo.audit")
	ctx, span := tracer.Start(ctx, "audit.Record")
	defer span.End()

	raw, err := json.Marshal(detail)
	if err != nil {
		return fmt.Errorf("op=audit.record: marshal: %w", err)
	}

	q := `INSERT INTO audit_log (id, actor_id, action, target_type, target_id, detail, created_at)
	      VALUES ($1,$2,$3,$4,$5,$6,$7)`
	_, err = r.Pool.Exec(ctx, q, domain.NewID(), actorID, action, targetType, targetID, raw, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("op=audit.record: %w", err)
	}
	return nil
}

func (r *AuditRepo) List(ctx domain.Context, targetType, targetID string, limit, offset int) ([]domain.AuditEntry, error) {
	q := `SELECT id, actor_id, action, target_type, target_id, detail, created_at
	      FROM audit_log WHERE target_type=$1 AND target_id=$2
	      ORDER BY created_at DESC LIMIT $3 OFFSET $4`
	rows, err := r.Pool.Query(ctx, q, targetType, targetID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("op=audit.list: %w", err)
	}
	defer rows.Close()

	var out []domain.AuditEntry
	for rows.Next() {
		var e domain.AuditEntry
		var detail []byte
		if err := rows.Scan(&e.ID, &e.ActorID, &e.Action, &e.TargetType, &e.TargetID, &detail, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("op=audit.list: scan: %w", err)
		}
		if len(detail) > 0 {
			if err := json.Unmarshal(detail, &e.Detail); err != nil {
				return nil, fmt.Errorf("op=audit.list: unmarshal: %w", err)
			}
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
