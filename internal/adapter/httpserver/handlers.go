package httpserver

import (
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ironquill/assesspoint/internal/config"
	"github.com/ironquill/assesspoint/internal/domain"
	"github.com/ironquill/assesspoint/internal/usecase"
)

// maxResumeBytes bounds multipart resume uploads handed to the text
// extractor.
const maxResumeBytes = 10 << 20 // 10 MiB

// Server aggregates every usecase service the HTTP surface depends on.
type Server struct {
	Cfg         config.Config
	JDs         *usecase.JDLifecycleService
	Onboarding  *usecase.OnboardingService
	Sessions    *usecase.SessionService
	CodeExec    *usecase.CodeExecService
	Proctoring  *usecase.ProctoringService
	Evaluations *usecase.EvaluationService
	Interviews  *usecase.FollowUpEngine
	Audit       domain.AuditRepository
	DBCheck     func(ctx context.Context) error
	QdrantCheck func(ctx context.Context) error
	TikaCheck   func(ctx context.Context) error
}

// NewServer constructs an HTTP server with every usecase service wired.
func NewServer(cfg config.Config, jds *usecase.JDLifecycleService, onboarding *usecase.OnboardingService, sessions *usecase.SessionService, codeExec *usecase.CodeExecService, proctoring *usecase.ProctoringService, evaluations *usecase.EvaluationService, interviews *usecase.FollowUpEngine, audit domain.AuditRepository, dbCheck, qdrantCheck, tikaCheck func(context.Context) error) *Server {
	return &Server{
		Cfg: cfg, JDs: jds, Onboarding: onboarding, Sessions: sessions, CodeExec: codeExec,
		Proctoring: proctoring, Evaluations: evaluations, Interviews: interviews, Audit: audit,
		DBCheck: dbCheck, QdrantCheck: qdrantCheck, TikaCheck: tikaCheck,
	}
}

func decodeJSON(r *http.Request, v any) error {
	defer func() { _, _ = io.Copy(io.Discard, r.Body); _ = r.Body.Close() }()
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

// HealthzHandler reports liveness only.
func (s *Server) HealthzHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}

// ReadyzHandler reports readiness against downstream dependencies.
func (s *Server) ReadyzHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		checks := map[string]string{}
		ready := true
		for name, fn := range map[string]func(context.Context) error{
			"database": s.DBCheck, "qdrant": s.QdrantCheck, "tika": s.TikaCheck,
		} {
			if fn == nil {
				continue
			}
			if err := fn(ctx); err != nil {
				checks[name] = err.Error()
				ready = false
				continue
			}
			checks[name] = "ok"
		}
		status := http.StatusOK
		if !ready {
			status = http.StatusServiceUnavailable
		}
		writeJSON(w, status, map[string]any{"ready": ready, "checks": checks})
	}
}

// RegisterRequest is the body of POST /a/{link}/register.
type RegisterRequest struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

// RegisterHandler onboards a candidate against an assessment link.
func (s *Server) RegisterHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		link := chi.URLParam(r, "link")
		var req RegisterRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, r, domain.ErrValidation, nil)
			return
		}
		if vr := ValidateEmail(req.Email); !vr.Valid {
			writeError(w, r, domain.ErrValidation, vr.Errors)
			return
		}
		candidate, err := s.Onboarding.Register(r.Context(), link, req.Email, SanitizeString(req.Name))
		if err != nil {
			writeError(w, r, err, nil)
			return
		}
		writeJSON(w, http.StatusCreated, candidate)
	}
}

// AssessmentInfoHandler resolves an assessment link to public-safe JD
// metadata for a candidate who has not yet registered.
func (s *Server) AssessmentInfoHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		link := chi.URLParam(r, "link")
		info, err := s.Onboarding.AssessmentInfo(r.Context(), link)
		if err != nil {
			writeError(w, r, err, nil)
			return
		}
		writeJSON(w, http.StatusOK, info)
	}
}

// StatusHandler returns a candidate's current status for client-side
// polling.
func (s *Server) StatusHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "candidateAssessmentId")
		candidate, err := s.Onboarding.Status(r.Context(), id)
		if err != nil {
			writeError(w, r, err, nil)
			return
		}
		writeJSON(w, http.StatusOK, candidate)
	}
}

// VerifyEmailHandler validates the OTP code sent at registration.
func (s *Server) VerifyEmailHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "candidateAssessmentId")
		var req struct {
			Code string `json:"code"`
		}
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, r, domain.ErrValidation, nil)
			return
		}
		if vr := ValidateOTPCode(req.Code); !vr.Valid {
			writeError(w, r, domain.ErrValidation, vr.Errors)
			return
		}
		candidate, err := s.Onboarding.VerifyEmail(r.Context(), id, req.Code)
		if err != nil {
			writeError(w, r, err, nil)
			return
		}
		writeJSON(w, http.StatusOK, candidate)
	}
}

// CapturePhotoHandler records the candidate's profile photo reference.
func (s *Server) CapturePhotoHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "candidateAssessmentId")
		var req struct {
			PhotoURL string `json:"photoUrl"`
		}
		if err := decodeJSON(r, &req); err != nil || req.PhotoURL == "" {
			writeError(w, r, domain.ErrValidation, nil)
			return
		}
		candidate, err := s.Onboarding.CapturePhoto(r.Context(), id, req.PhotoURL)
		if err != nil {
			writeError(w, r, err, nil)
			return
		}
		writeJSON(w, http.StatusOK, candidate)
	}
}

// AcceptConsentHandler records proctoring consent.
func (s *Server) AcceptConsentHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "candidateAssessmentId")
		candidate, err := s.Onboarding.AcceptConsent(r.Context(), id)
		if err != nil {
			writeError(w, r, err, nil)
			return
		}
		writeJSON(w, http.StatusOK, candidate)
	}
}

// UploadResumeHandler accepts a multipart resume upload and gates the
// candidate into ready/resume_rejected.
func (s *Server) UploadResumeHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "candidateAssessmentId")
		r.Body = http.MaxBytesReader(w, r.Body, maxResumeBytes)
		if err := r.ParseMultipartForm(maxResumeBytes); err != nil {
			writeError(w, r, domain.ErrValidation, nil)
			return
		}
		file, header, err := r.FormFile("resume")
		if err != nil {
			writeError(w, r, domain.ErrValidation, nil)
			return
		}
		defer func() { _ = file.Close() }()
		data, err := io.ReadAll(file)
		if err != nil {
			writeError(w, r, domain.ErrValidation, nil)
			return
		}
		candidate, err := s.Onboarding.UploadResume(r.Context(), id, header.Filename, data)
		if err != nil {
			writeError(w, r, err, nil)
			return
		}
		writeJSON(w, http.StatusOK, candidate)
	}
}

// StartSessionHandler establishes the candidate's timed session.
func (s *Server) StartSessionHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "candidateAssessmentId")
		candidate, err := s.Sessions.Start(r.Context(), id)
		if err != nil {
			writeError(w, r, err, nil)
			return
		}
		writeJSON(w, http.StatusOK, candidate)
	}
}

// GetSectionHandler returns the candidate-facing view of one section.
func (s *Server) GetSectionHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)
		if token == "" {
			writeError(w, r, domain.ErrAuthMissing, nil)
			return
		}
		section := domain.Section(chi.URLParam(r, "section"))
		view, err := s.Sessions.GetSection(r.Context(), token, section)
		if err != nil {
			writeError(w, r, err, nil)
			return
		}
		writeJSON(w, http.StatusOK, view)
	}
}

// SaveAnswerHandler upserts one question's answer entry.
func (s *Server) SaveAnswerHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)
		if token == "" {
			writeError(w, r, domain.ErrAuthMissing, nil)
			return
		}
		section := domain.Section(chi.URLParam(r, "section"))
		var entry domain.AnswerEntry
		if err := decodeJSON(r, &entry); err != nil {
			writeError(w, r, domain.ErrValidation, nil)
			return
		}
		if err := s.Sessions.SaveAnswer(r.Context(), token, section, entry); err != nil {
			writeError(w, r, err, nil)
			return
		}
		writeJSON(w, http.StatusNoContent, nil)
	}
}

// SubmitSectionHandler grades (where applicable) and closes out a section.
func (s *Server) SubmitSectionHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)
		if token == "" {
			writeError(w, r, domain.ErrAuthMissing, nil)
			return
		}
		section := domain.Section(chi.URLParam(r, "section"))
		result, err := s.Sessions.SubmitSection(r.Context(), token, section)
		if err != nil {
			writeError(w, r, err, nil)
			return
		}
		writeJSON(w, http.StatusOK, result)
	}
}

// SubmitAllHandler finalizes the whole assessment session.
func (s *Server) SubmitAllHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)
		if token == "" {
			writeError(w, r, domain.ErrAuthMissing, nil)
			return
		}
		if err := s.Sessions.SubmitAll(r.Context(), token); err != nil {
			writeError(w, r, err, nil)
			return
		}
		writeJSON(w, http.StatusNoContent, nil)
	}
}

// HeartbeatHandler refreshes the session's last-seen timestamp.
func (s *Server) HeartbeatHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)
		if token == "" {
			writeError(w, r, domain.ErrAuthMissing, nil)
			return
		}
		remaining, err := s.Sessions.Heartbeat(r.Context(), token)
		if err != nil {
			writeError(w, r, err, nil)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"remainingSeconds": int(remaining.Seconds())})
	}
}

type codeRunRequest struct {
	CandidateAssessmentID string `json:"candidateAssessmentId"`
	Code                   string `json:"code"`
	Language               string `json:"language"`
}

// CodeRunHandler runs a candidate's code against sample test cases only.
func (s *Server) CodeRunHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		questionID := chi.URLParam(r, "questionId")
		var req codeRunRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, r, domain.ErrValidation, nil)
			return
		}
		result, err := s.CodeExec.Run(r.Context(), req.CandidateAssessmentID, questionID, req.Code, req.Language)
		if err != nil {
			writeError(w, r, err, nil)
			return
		}
		writeJSON(w, http.StatusOK, result)
	}
}

// CodeSubmitHandler runs a candidate's code against every test case and
// persists the weighted score.
func (s *Server) CodeSubmitHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		questionID := chi.URLParam(r, "questionId")
		var req codeRunRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, r, domain.ErrValidation, nil)
			return
		}
		result, err := s.CodeExec.Submit(r.Context(), req.CandidateAssessmentID, questionID, req.Code, req.Language)
		if err != nil {
			writeError(w, r, err, nil)
			return
		}
		writeJSON(w, http.StatusOK, result)
	}
}

type proctoringEventRequest struct {
	CandidateAssessmentID string                     `json:"candidateAssessmentId"`
	Type                   domain.ProctoringEventType `json:"type"`
	Section                domain.Section             `json:"section"`
	QuestionID             string                     `json:"questionId"`
	Evidence               map[string]any             `json:"evidence"`
	ScreenshotRef          string                     `json:"screenshotRef"`
}

// ProctoringEventHandler ingests a proctoring signal from the candidate's
// browser client.
func (s *Server) ProctoringEventHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req proctoringEventRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, r, domain.ErrValidation, nil)
			return
		}
		if err := s.Proctoring.LogEvent(r.Context(), req.CandidateAssessmentID, req.Type, req.Section, req.QuestionID, req.Evidence, req.ScreenshotRef); err != nil {
			writeError(w, r, err, nil)
			return
		}
		writeJSON(w, http.StatusAccepted, nil)
	}
}
