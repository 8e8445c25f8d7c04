package httpserver

import (
	"encoding/csv"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/ironquill/assesspoint/internal/domain"
)

// AdminTokenHandler exchanges admin username/password for a short-lived
// bearer JWT.
func (s *Server) AdminTokenHandler() http.HandlerFunc {
	sm := NewSessionManager(s.Cfg)
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Username string `json:"username"`
			Password string `json:"password"`
		}
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, r, domain.ErrValidation, nil)
			return
		}
		if !sm.VerifyAdminCredentials(req.Username, req.Password) {
			writeError(w, r, domain.ErrAuthInvalid, nil)
			return
		}
		token, err := sm.GenerateJWT(req.Username, 12*time.Hour)
		if err != nil {
			writeError(w, r, domain.ErrInfrastructure, nil)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"token": token})
	}
}

type uploadJDRequest struct {
	CompanyID   string `json:"companyId"`
	RecruiterID string `json:"recruiterId"`
	Title       string `json:"title"`
	RawText     string `json:"rawText"`
}

// UploadJDHandler creates a JD in the draft state.
func (s *Server) UploadJDHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req uploadJDRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, r, domain.ErrValidation, nil)
			return
		}
		jd, err := s.JDs.Upload(r.Context(), req.CompanyID, req.RecruiterID, SanitizeString(req.Title), req.RawText)
		if err != nil {
			writeError(w, r, err, nil)
			return
		}
		writeJSON(w, http.StatusCreated, jd)
	}
}

// GetJDHandler returns one JD by id.
func (s *Server) GetJDHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "jdId")
		jd, err := s.JDs.JDs.Get(r.Context(), id)
		if err != nil {
			writeError(w, r, err, nil)
			return
		}
		writeJSON(w, http.StatusOK, jd)
	}
}

// ListJDsHandler lists JDs for a company.
func (s *Server) ListJDsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		companyID := r.URL.Query().Get("companyId")
		limit, offset := ParsePagination(r.URL.Query().Get("limit"), r.URL.Query().Get("offset"), 50)
		jds, err := s.JDs.JDs.ListByCompany(r.Context(), companyID, limit, offset)
		if err != nil {
			writeError(w, r, err, nil)
			return
		}
		writeJSON(w, http.StatusOK, jds)
	}
}

// ParseJDHandler triggers LLM extraction and default section config.
func (s *Server) ParseJDHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "jdId")
		var req struct {
			ExperienceLevel domain.ExperienceLevel `json:"experienceLevel"`
		}
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, r, domain.ErrValidation, nil)
			return
		}
		jd, err := s.JDs.Parse(r.Context(), id, req.ExperienceLevel)
		if err != nil {
			writeError(w, r, err, nil)
			return
		}
		writeJSON(w, http.StatusOK, jd)
	}
}

// UpdateJDConfigHandler updates section/timing config, locked post-start to
// endTime-only changes.
func (s *Server) UpdateJDConfigHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "jdId")
		var cfg domain.AssessmentConfig
		if err := decodeJSON(r, &cfg); err != nil {
			writeError(w, r, domain.ErrValidation, nil)
			return
		}
		jd, err := s.JDs.UpdateConfig(r.Context(), id, cfg)
		if err != nil {
			writeError(w, r, err, nil)
			return
		}
		writeJSON(w, http.StatusOK, jd)
	}
}

// UpdateSkillsHandler replaces the JD's parsed technical/soft skills.
// Forbidden once the test has started.
func (s *Server) UpdateSkillsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "jdId")
		var req struct {
			TechnicalSkills []string `json:"technicalSkills"`
			SoftSkills      []string `json:"softSkills"`
		}
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, r, domain.ErrValidation, nil)
			return
		}
		jd, err := s.JDs.UpdateSkills(r.Context(), id, req.TechnicalSkills, req.SoftSkills)
		if err != nil {
			writeError(w, r, err, nil)
			return
		}
		writeJSON(w, http.StatusOK, jd)
	}
}

// UpdateRubricsHandler replaces the per-section grading rubric text.
// Forbidden once the test has started.
func (s *Server) UpdateRubricsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "jdId")
		var req struct {
			Rubrics map[domain.Section]string `json:"rubrics"`
		}
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, r, domain.ErrValidation, nil)
			return
		}
		jd, err := s.JDs.UpdateRubrics(r.Context(), id, req.Rubrics)
		if err != nil {
			writeError(w, r, err, nil)
			return
		}
		writeJSON(w, http.StatusOK, jd)
	}
}

// LockJDHandler freezes the JD's assessment config.
func (s *Server) LockJDHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "jdId")
		if err := s.JDs.Lock(r.Context(), id); err != nil {
			writeError(w, r, err, nil)
			return
		}
		writeJSON(w, http.StatusNoContent, nil)
	}
}

// UnlockJDHandler releases the config freeze.
func (s *Server) UnlockJDHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "jdId")
		if err := s.JDs.Unlock(r.Context(), id); err != nil {
			writeError(w, r, err, nil)
			return
		}
		writeJSON(w, http.StatusNoContent, nil)
	}
}

// GenerateLinkHandler mints the assessment link and triggers set generation.
func (s *Server) GenerateLinkHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "jdId")
		var req struct {
			NumSets int `json:"numSets"`
		}
		_ = decodeJSON(r, &req)
		jd, err := s.JDs.GenerateLink(r.Context(), id, req.NumSets)
		if err != nil {
			writeError(w, r, err, nil)
			return
		}
		writeJSON(w, http.StatusOK, jd)
	}
}

// DeleteJDHandler deletes a JD (and cascades its AssessmentSets), forbidden
// once active.
func (s *Server) DeleteJDHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "jdId")
		if err := s.JDs.Delete(r.Context(), id); err != nil {
			writeError(w, r, err, nil)
			return
		}
		writeJSON(w, http.StatusNoContent, nil)
	}
}

// ListCandidatesHandler lists candidate assessments for a JD.
func (s *Server) ListCandidatesHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		jdID := chi.URLParam(r, "jdId")
		limit, offset := ParsePagination(r.URL.Query().Get("limit"), r.URL.Query().Get("offset"), 50)
		candidates, err := s.Onboarding.Candidates.ListByJD(r.Context(), jdID, limit, offset)
		if err != nil {
			writeError(w, r, err, nil)
			return
		}
		writeJSON(w, http.StatusOK, candidates)
	}
}

// GetCandidateHandler returns one candidate assessment by id.
func (s *Server) GetCandidateHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "candidateAssessmentId")
		candidate, err := s.Onboarding.Candidates.Get(r.Context(), id)
		if err != nil {
			writeError(w, r, err, nil)
			return
		}
		writeJSON(w, http.StatusOK, candidate)
	}
}

// maxAnalyticsRows bounds how many evaluations/candidates a single
// analytics or export request aggregates, to keep the admin surface from
// issuing unbounded repository scans.
const maxAnalyticsRows = 5000

// jdAnalytics is the aggregate view returned by AnalyticsHandler.
type jdAnalytics struct {
	JDID                 string  `json:"jdId"`
	TotalCandidates      int     `json:"totalCandidates"`
	CompletedAssessments int     `json:"completedAssessments"`
	Evaluated            int     `json:"evaluated"`
	RecommendedPass      int     `json:"recommendedPass"`
	RecommendedReview    int     `json:"recommendedReview"`
	RecommendedFail      int     `json:"recommendedFail"`
	AverageWeightedScore float64 `json:"averageWeightedScore"`
}

// AnalyticsHandler aggregates candidate and evaluation counters for a JD.
func (s *Server) AnalyticsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		jdID := chi.URLParam(r, "jdId")
		jd, err := s.JDs.JDs.Get(r.Context(), jdID)
		if err != nil {
			writeError(w, r, err, nil)
			return
		}
		evals, err := s.Evaluations.Evaluations.ListByJD(r.Context(), jdID, maxAnalyticsRows, 0)
		if err != nil {
			writeError(w, r, err, nil)
			return
		}
		out := jdAnalytics{
			JDID:                 jdID,
			TotalCandidates:      jd.Stats.TotalCandidates,
			CompletedAssessments: jd.Stats.CompletedAssessments,
			Evaluated:            len(evals),
		}
		var totalScore float64
		for _, e := range evals {
			totalScore += e.WeightedScore
			switch e.AIRecommendation {
			case domain.RecommendationPass:
				out.RecommendedPass++
			case domain.RecommendationReview:
				out.RecommendedReview++
			case domain.RecommendationFail:
				out.RecommendedFail++
			}
		}
		if len(evals) > 0 {
			out.AverageWeightedScore = totalScore / float64(len(evals))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// ExportCandidatesHandler exports a JD's candidates as CSV (default) or
// JSON (?format=json), per spec.md §6's export column spec.
func (s *Server) ExportCandidatesHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		jdID := chi.URLParam(r, "jdId")
		candidates, err := s.Onboarding.Candidates.ListByJD(r.Context(), jdID, maxAnalyticsRows, 0)
		if err != nil {
			writeError(w, r, err, nil)
			return
		}

		type row struct {
			Name            string `json:"name"`
			Email           string `json:"email"`
			Status          string `json:"status"`
			ResumeMatchScore int   `json:"resumeMatchScore"`
			Score           string `json:"score"`
			Submitted       string `json:"submitted"`
		}
		rows := make([]row, 0, len(candidates))
		for _, c := range candidates {
			score := ""
			if eval, eerr := s.Evaluations.Evaluations.GetByCandidate(r.Context(), c.ID); eerr == nil {
				score = strconv.FormatFloat(eval.WeightedScore, 'f', 2, 64)
			}
			submitted := ""
			if c.SubmittedAt != nil {
				submitted = c.SubmittedAt.Format(time.RFC3339)
			}
			rows = append(rows, row{
				Name: c.Name, Email: c.Email, Status: string(c.Status),
				ResumeMatchScore: c.Resume.MatchScore, Score: score, Submitted: submitted,
			})
		}

		if r.URL.Query().Get("format") == "json" {
			writeJSON(w, http.StatusOK, rows)
			return
		}

		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="candidates-%s.csv"`, jdID))
		cw := csv.NewWriter(w)
		_ = cw.Write([]string{"Name", "Email", "Status", "Resume Match Score", "Score", "Submitted"})
		for _, rr := range rows {
			_ = cw.Write([]string{rr.Name, rr.Email, rr.Status, strconv.Itoa(rr.ResumeMatchScore), rr.Score, rr.Submitted})
		}
		cw.Flush()
	}
}

// JDAuditLogHandler lists audit entries recorded against a JD.
func (s *Server) JDAuditLogHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		jdID := chi.URLParam(r, "jdId")
		limit, offset := ParsePagination(r.URL.Query().Get("limit"), r.URL.Query().Get("offset"), 50)
		if s.Audit == nil {
			writeJSON(w, http.StatusOK, []domain.AuditEntry{})
			return
		}
		entries, err := s.Audit.List(r.Context(), "job_description", jdID, limit, offset)
		if err != nil {
			writeError(w, r, err, nil)
			return
		}
		writeJSON(w, http.StatusOK, entries)
	}
}

// CandidateAuditLogHandler lists audit entries recorded against a candidate
// assessment (decisions, proctoring reviews).
func (s *Server) CandidateAuditLogHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "candidateAssessmentId")
		limit, offset := ParsePagination(r.URL.Query().Get("limit"), r.URL.Query().Get("offset"), 50)
		if s.Audit == nil {
			writeJSON(w, http.StatusOK, []domain.AuditEntry{})
			return
		}
		entries, err := s.Audit.List(r.Context(), "candidate_assessment", id, limit, offset)
		if err != nil {
			writeError(w, r, err, nil)
			return
		}
		writeJSON(w, http.StatusOK, entries)
	}
}

// GetEvaluationHandler returns one candidate's Evaluation.
func (s *Server) GetEvaluationHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "candidateAssessmentId")
		eval, err := s.Evaluations.Evaluations.GetByCandidate(r.Context(), id)
		if err != nil {
			writeError(w, r, err, nil)
			return
		}
		writeJSON(w, http.StatusOK, eval)
	}
}

// ListEvaluationsHandler lists Evaluations for a JD, for the recruiter
// review queue.
func (s *Server) ListEvaluationsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		jdID := chi.URLParam(r, "jdId")
		limit, offset := ParsePagination(r.URL.Query().Get("limit"), r.URL.Query().Get("offset"), 50)
		evals, err := s.Evaluations.Evaluations.ListByJD(r.Context(), jdID, limit, offset)
		if err != nil {
			writeError(w, r, err, nil)
			return
		}
		writeJSON(w, http.StatusOK, evals)
	}
}

// RecordDecisionHandler records a recruiter's pass/fail/review decision,
// overriding or confirming the AI recommendation.
func (s *Server) RecordDecisionHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "candidateAssessmentId")
		var req struct {
			Decision domain.AdminDecision `json:"decision"`
			By       string               `json:"by"`
			Note     string               `json:"note"`
		}
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, r, domain.ErrValidation, nil)
			return
		}
		if err := s.Evaluations.RecordDecision(r.Context(), id, req.Decision, req.By, SanitizeString(req.Note)); err != nil {
			writeError(w, r, err, nil)
			return
		}
		writeJSON(w, http.StatusNoContent, nil)
	}
}

// ListProctoringEventsHandler lists a candidate's proctoring history for
// admin review.
func (s *Server) ListProctoringEventsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "candidateAssessmentId")
		limit, offset := ParsePagination(r.URL.Query().Get("limit"), r.URL.Query().Get("offset"), 50)
		events, err := s.Proctoring.ListEvents(r.Context(), id, limit, offset)
		if err != nil {
			writeError(w, r, err, nil)
			return
		}
		writeJSON(w, http.StatusOK, events)
	}
}

// ReviewProctoringEventHandler records an admin's review of a flagged event.
func (s *Server) ReviewProctoringEventHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "eventId")
		var req struct {
			ReviewedBy string `json:"reviewedBy"`
			Note       string `json:"note"`
		}
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, r, domain.ErrValidation, nil)
			return
		}
		if err := s.Proctoring.MarkReviewed(r.Context(), id, req.ReviewedBy, SanitizeString(req.Note)); err != nil {
			writeError(w, r, err, nil)
			return
		}
		writeJSON(w, http.StatusNoContent, nil)
	}
}
