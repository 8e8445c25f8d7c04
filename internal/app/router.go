// Package app wires application components and startup helpers.
package app

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	httpserver "github.com/ironquill/assesspoint/internal/adapter/httpserver"
	"github.com/ironquill/assesspoint/internal/adapter/observability"
	"github.com/ironquill/assesspoint/internal/config"
)

// ParseOrigins splits a comma-separated origin list into a slice, trimming
// spaces. An empty input allows all origins.
func ParseOrigins(s string) []string {
	s = strings.TrimSpace(s)
	if s == "" || s == "*" {
		return []string{"*"}
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return []string{"*"}
	}
	return out
}

// BuildRouter constructs the HTTP handler with all middleware and routes.
func BuildRouter(cfg config.Config, srv *httpserver.Server) http.Handler {
	r := chi.NewRouter()
	r.Use(httpserver.Recoverer())
	r.Use(httpserver.RequestID())
	r.Use(httpserver.TimeoutMiddleware(30 * time.Second))
	r.Use(httpserver.TraceMiddleware)
	r.Use(httpserver.AccessLog())
	r.Use(observability.HTTPMetricsMiddleware)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   ParseOrigins(cfg.CORSAllowOrigins),
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		ExposedHeaders:   []string{"X-Request-Id"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/healthz", srv.HealthzHandler())
	r.Get("/readyz", srv.ReadyzHandler())

	// Candidate-facing surface: rate limited by IP, no admin auth.
	r.Group(func(cr chi.Router) {
		cr.Use(httprate.LimitByIP(cfg.RateLimitPerMin, time.Minute))

		cr.Get("/a/{link}/info", srv.AssessmentInfoHandler())
		cr.Post("/a/{link}/register", srv.RegisterHandler())
		cr.Get("/candidates/{candidateAssessmentId}/status", srv.StatusHandler())
		cr.Post("/candidates/{candidateAssessmentId}/verify-email", srv.VerifyEmailHandler())
		cr.Post("/candidates/{candidateAssessmentId}/photo", srv.CapturePhotoHandler())
		cr.Post("/candidates/{candidateAssessmentId}/consent", srv.AcceptConsentHandler())
		cr.Post("/candidates/{candidateAssessmentId}/resume", srv.UploadResumeHandler())
		cr.Post("/candidates/{candidateAssessmentId}/session/start", srv.StartSessionHandler())

		cr.Get("/session/sections/{section}", srv.GetSectionHandler())
		cr.Put("/session/sections/{section}/answers", srv.SaveAnswerHandler())
		cr.Post("/session/sections/{section}/submit", srv.SubmitSectionHandler())
		cr.Post("/session/submit", srv.SubmitAllHandler())
		cr.Post("/session/heartbeat", srv.HeartbeatHandler())

		cr.Post("/session/code/{questionId}/run", srv.CodeRunHandler())
		cr.Post("/session/code/{questionId}/submit", srv.CodeSubmitHandler())

		cr.Post("/session/proctoring/events", srv.ProctoringEventHandler())
	})

	// Admin surface: bearer JWT required once admin credentials are
	// configured, matching config.AdminEnabled's all-or-nothing semantics.
	r.Group(func(ar chi.Router) {
		ar.Use(httprate.LimitByIP(cfg.RateLimitPerMin, time.Minute))
		ar.Post("/admin/token", srv.AdminTokenHandler())

		ar.Group(func(gr chi.Router) {
			gr.Use(srv.AdminAPIGuard())

			gr.Post("/admin/jds", srv.UploadJDHandler())
			gr.Get("/admin/jds", srv.ListJDsHandler())
			gr.Get("/admin/jds/{jdId}", srv.GetJDHandler())
			gr.Post("/admin/jds/{jdId}/parse", srv.ParseJDHandler())
			gr.Put("/admin/jds/{jdId}/config", srv.UpdateJDConfigHandler())
			gr.Put("/admin/jds/{jdId}/skills", srv.UpdateSkillsHandler())
			gr.Put("/admin/jds/{jdId}/rubrics", srv.UpdateRubricsHandler())
			gr.Post("/admin/jds/{jdId}/lock", srv.LockJDHandler())
			gr.Post("/admin/jds/{jdId}/unlock", srv.UnlockJDHandler())
			gr.Post("/admin/jds/{jdId}/generate-link", srv.GenerateLinkHandler())
			gr.Delete("/admin/jds/{jdId}", srv.DeleteJDHandler())
			gr.Get("/admin/jds/{jdId}/candidates", srv.ListCandidatesHandler())
			gr.Get("/admin/jds/{jdId}/evaluations", srv.ListEvaluationsHandler())
			gr.Get("/admin/jds/{jdId}/analytics", srv.AnalyticsHandler())
			gr.Get("/admin/jds/{jdId}/export", srv.ExportCandidatesHandler())
			gr.Get("/admin/jds/{jdId}/audit-log", srv.JDAuditLogHandler())

			gr.Get("/admin/candidates/{candidateAssessmentId}", srv.GetCandidateHandler())
			gr.Get("/admin/candidates/{candidateAssessmentId}/evaluation", srv.GetEvaluationHandler())
			gr.Post("/admin/candidates/{candidateAssessmentId}/decision", srv.RecordDecisionHandler())
			gr.Get("/admin/candidates/{candidateAssessmentId}/proctoring-events", srv.ListProctoringEventsHandler())
			gr.Get("/admin/candidates/{candidateAssessmentId}/audit-log", srv.CandidateAuditLogHandler())
			gr.Post("/admin/proctoring-events/{eventId}/review", srv.ReviewProctoringEventHandler())

			gr.Get("/admin/prometheus", func(w http.ResponseWriter, r *http.Request) { promhttp.Handler().ServeHTTP(w, r) })
		})
	})

	return httpserver.SecurityHeaders(r)
}
