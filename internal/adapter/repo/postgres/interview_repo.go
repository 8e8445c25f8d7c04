package postgres

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"go.opentelemetry.io/otel"

	"github.com/ironquill/assesspoint/internal/domain"
)

// InterviewRepo persists InterviewMetadata and FollowUpQuestion records
// (C1/C11).
type InterviewRepo struct{ Pool PgxPool }

// NewInterviewRepo constructs an InterviewRepo with the given pool.
func NewInterviewRepo(p PgxPool) *InterviewRepo { return &InterviewRepo{Pool: p} }

func (r *InterviewRepo) GetOrCreateMetadata(ctx domain.Context, candidateAssessmentID string, baseQuestionCount, minQ, maxQ int) (*domain.InterviewMetadata, error) {
	tracer := otel.Tracer("repo.interview")
	ctx, span := tracer.Start(ctx, "interview.GetOrCreateMetadata")
	defer span.End()

	q := `SELECT doc FROM interview_metadata WHERE candidate_assessment_id=$1`
	row := r.Pool.QueryRow(ctx, q, candidateAssessmentID)
	var raw []byte
	err := row.Scan(&raw)
	if err == nil {
		var m domain.InterviewMetadata
		if err := json.Unmarshal(raw, &m); err != nil {
			return nil, fmt.Errorf("op=interview.get_or_create: unmarshal: %w", err)
		}
		return &m, nil
	}
	if err != pgx.ErrNoRows {
		return nil, fmt.Errorf("op=interview.get_or_create: %w", err)
	}

	m := &domain.InterviewMetadata{
		ID:                    domain.NewID(),
		CandidateAssessmentID: candidateAssessmentID,
		MinQuestions:          minQ,
		MaxQuestions:          maxQ,
		BaseQuestionCount:     baseQuestionCount,
		CurrentTotalQuestions: baseQuestionCount,
		Status:                domain.InterviewActive,
		Version:               1,
	}
	doc, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("op=interview.get_or_create: marshal: %w", err)
	}
	ins := `INSERT INTO interview_metadata (candidate_assessment_id, doc, updated_at) VALUES ($1,$2,$3)
	        ON CONFLICT (candidate_assessment_id) DO NOTHING`
	if _, err := r.Pool.Exec(ctx, ins, candidateAssessmentID, doc, time.Now().UTC()); err != nil {
		return nil, fmt.Errorf("op=interview.get_or_create: %w", err)
	}
	return r.GetOrCreateMetadata(ctx, candidateAssessmentID, baseQuestionCount, minQ, maxQ)
}

func (r *InterviewRepo) UpdateMetadata(ctx domain.Context, m *domain.InterviewMetadata) error {
	tracer := otel.Tracer("repo.interview")
	ctx, span := tracer.Start(ctx, "interview.UpdateMetadata")
	defer span.End()

	m.Version++
	doc, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("op=interview.update_metadata: marshal: %w", err)
	}
	q := `UPDATE interview_metadata SET doc=$1, updated_at=$2 WHERE candidate_assessment_id=$3`
	tag, err := r.Pool.Exec(ctx, q, doc, time.Now().UTC(), m.CandidateAssessmentID)
	if err != nil {
		return fmt.Errorf("op=interview.update_metadata: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("op=interview.update_metadata: %w", domain.ErrNotFound)
	}
	return nil
}

func (r *InterviewRepo) CreateFollowUp(ctx domain.Context, f *domain.FollowUpQuestion) error {
	tracer := otel.Tracer("repo.interview")
	ctx, span := tracer.Start(ctx, "interview.CreateFollowUp")
	defer span.End()

	if f.ID == "" {
		f.ID = domain.NewID()
	}
	f.CreatedAt = time.Now().UTC()

	doc, err := json.Marshal(f)
	if err != nil {
		return fmt.Errorf("op=interview.create_followup: marshal: %w", err)
	}
	q := `INSERT INTO followup_questions (id, candidate_assessment_id, sort_key, doc, created_at) VALUES ($1,$2,$3,$4,$5)`
	_, err = r.Pool.Exec(ctx, q, f.ID, f.CandidateAssessmentID, f.SortKey, doc, f.CreatedAt)
	if err != nil {
		return fmt.Errorf("op=interview.create_followup: %w", err)
	}
	return nil
}

func (r *InterviewRepo) ListFollowUps(ctx domain.Context, candidateAssessmentID string) ([]*domain.FollowUpQuestion, error) {
	q := `SELECT doc FROM followup_questions WHERE candidate_assessment_id=$1 ORDER BY sort_key`
	rows, err := r.Pool.Query(ctx, q, candidateAssessmentID)
	if err != nil {
		return nil, fmt.Errorf("op=interview.list_followups: %w", err)
	}
	defer rows.Close()

	var out []*domain.FollowUpQuestion
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("op=interview.list_followups: scan: %w", err)
		}
		var f domain.FollowUpQuestion
		if err := json.Unmarshal(raw, &f); err != nil {
			return nil, fmt.Errorf("op=interview.list_followups: unmarshal: %w", err)
		}
		out = append(out, &f)
	}
	return out, rows.Err()
}

// RecentQuestions returns the texts of the last n stored follow-up questions,
// newest first by sort key, used to avoid the detector generating a
// near-repeat follow-up. Base questions are not stored in followup_questions
// and are not included.
func (r *InterviewRepo) RecentQuestions(ctx domain.Context, candidateAssessmentID string, n int) ([]string, error) {
	q := `SELECT doc->>'question' FROM followup_questions WHERE candidate_assessment_id=$1 ORDER BY sort_key DESC LIMIT $2`
	rows, err := r.Pool.Query(ctx, q, candidateAssessmentID, n)
	if err != nil {
		return nil, fmt.Errorf("op=interview.recent_questions: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var text string
		if err := rows.Scan(&text); err != nil {
			return nil, fmt.Errorf("op=interview.recent_questions: scan: %w", err)
		}
		out = append(out, text)
	}
	return out, rows.Err()
}
