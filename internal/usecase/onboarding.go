package usecase

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"go.opentelemetry.io/otel"

	"github.com/ironquill/assesspoint/internal/config"
	"github.com/ironquill/assesspoint/internal/domain"
	obsctx "github.com/ironquill/assesspoint/internal/observability"
)

const otpPurposeVerifyEmail = "verify_email"

const resumeMatchSystemPrompt = `You score how well a candidate's resume matches a job description.
Weights: skills 40, projects 40, fit 20. Return strict JSON:
{"skillsScore":int,"projectsScore":int,"fitScore":int,"matchScore":int,"isFake":bool,"details":string}.
matchScore is the weighted sum of the three sub-scores out of 100. isFake is true if the resume
reads as fabricated, templated, or inconsistent with the claimed experience.`

// OnboardingService implements the candidate onboarding state machine (C6).
type OnboardingService struct {
	JDs        domain.JDRepository
	Candidates domain.CandidateRepository
	OTP        domain.OTPStore
	Notifier   domain.Notifier
	AI         domain.AIClient
	Extractor  domain.TextExtractor
	Cfg        config.Config
}

// NewOnboardingService constructs an OnboardingService.
func NewOnboardingService(jds domain.JDRepository, candidates domain.CandidateRepository, otp domain.OTPStore, notifier domain.Notifier, ai domain.AIClient, extractor domain.TextExtractor, cfg config.Config) *OnboardingService {
	return &OnboardingService{JDs: jds, Candidates: candidates, OTP: otp, Notifier: notifier, AI: ai, Extractor: extractor, Cfg: cfg}
}

// Register validates the assessment link and window, upserts the candidate
// record, and issues a fresh email-verification OTP, per spec.md §4.6.
func (s *OnboardingService) Register(ctx domain.Context, link, email, name string) (*domain.CandidateAssessment, error) {
	tr := otel.Tracer("usecase.onboarding")
	ctx, span := tr.Start(ctx, "OnboardingService.Register")
	defer span.End()
	lg := obsctx.LoggerFromContext(ctx)

	email = strings.ToLower(strings.TrimSpace(email))
	if link == "" || email == "" {
		return nil, fmt.Errorf("%w: link and email are required", domain.ErrValidation)
	}

	jd, err := s.JDs.GetByAssessmentLink(ctx, link)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	if jd.Config.StartTime == nil || jd.Config.EndTime == nil || now.Before(*jd.Config.StartTime) || now.After(*jd.Config.EndTime) {
		return nil, fmt.Errorf("%w: assessment window is not open", domain.ErrValidation)
	}

	candidateID := deriveCandidateID(email)
	if existing, getErr := s.Candidates.GetByCandidateAndJD(ctx, candidateID, jd.ID); getErr == nil {
		if err := s.issueOTP(ctx, email); err != nil {
			return nil, err
		}
		return existing, nil
	} else if !errors.Is(getErr, domain.ErrNotFound) {
		return nil, getErr
	}

	candidate := &domain.CandidateAssessment{
		ID:          domain.NewID(),
		CandidateID: candidateID,
		Email:       email,
		Name:        name,
		JDID:        jd.ID,
		Status:      domain.CandidateOnboarding,
		InvitedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.Candidates.Create(ctx, candidate); err != nil {
		return nil, fmt.Errorf("op=onboarding.register: %w", err)
	}
	if err := s.issueOTP(ctx, email); err != nil {
		return nil, err
	}
	lg.Info("candidate registered", slog.String("candidate_assessment_id", candidate.ID), slog.String("jd_id", jd.ID))
	return candidate, nil
}

// AssessmentInfo is the public-safe subset of a JD surfaced to a candidate
// resolving an assessment link, before they register.
type AssessmentInfo struct {
	JDID            string                  `json:"jdId"`
	Title           string                  `json:"title"`
	Role            string                  `json:"role,omitempty"`
	ExperienceLevel domain.ExperienceLevel  `json:"experienceLevel"`
	TotalTimeMinutes int                    `json:"totalTimeMinutes"`
	StartTime       *time.Time              `json:"startTime,omitempty"`
	EndTime         *time.Time              `json:"endTime,omitempty"`
	IsOpen          bool                    `json:"isOpen"`
}

// AssessmentInfo resolves an assessment link to the public-safe JD metadata
// a candidate sees before registering, per spec.md §6's candidate surface.
func (s *OnboardingService) AssessmentInfo(ctx domain.Context, link string) (*AssessmentInfo, error) {
	jd, err := s.JDs.GetByAssessmentLink(ctx, link)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	isOpen := jd.Config.StartTime != nil && jd.Config.EndTime != nil &&
		!now.Before(*jd.Config.StartTime) && !now.After(*jd.Config.EndTime)

	info := &AssessmentInfo{
		JDID:             jd.ID,
		Title:            jd.Title,
		ExperienceLevel:  jd.Config.ExperienceLevel,
		TotalTimeMinutes: jd.Config.TotalTimeMinutes,
		StartTime:        jd.Config.StartTime,
		EndTime:          jd.Config.EndTime,
		IsOpen:           isOpen,
	}
	if jd.ParsedContent != nil {
		info.Role = jd.ParsedContent.Role
	}
	return info, nil
}

// Status returns a candidate's current onboarding/session status for
// client-side polling, per spec.md §6's candidate surface.
func (s *OnboardingService) Status(ctx domain.Context, candidateAssessmentID string) (*domain.CandidateAssessment, error) {
	return s.Candidates.Get(ctx, candidateAssessmentID)
}

func (s *OnboardingService) issueOTP(ctx domain.Context, email string) error {
	code, err := s.OTP.Issue(ctx, email, otpPurposeVerifyEmail, s.Cfg.OTPTTL())
	if err != nil {
		return fmt.Errorf("op=onboarding.issue_otp: %w", err)
	}
	if err := s.Notifier.SendOTP(ctx, email, code); err != nil {
		obsctx.LoggerFromContext(ctx).Warn("send otp failed", slog.Any("error", err))
	}
	return nil
}

// VerifyEmail validates the OTP against the candidate's email and, on
// success, marks emailVerified.
func (s *OnboardingService) VerifyEmail(ctx domain.Context, candidateAssessmentID, code string) (*domain.CandidateAssessment, error) {
	tr := otel.Tracer("usecase.onboarding")
	ctx, span := tr.Start(ctx, "OnboardingService.VerifyEmail")
	defer span.End()

	candidate, err := s.Candidates.Get(ctx, candidateAssessmentID)
	if err != nil {
		return nil, err
	}

	ok, err := s.OTP.Verify(ctx, candidate.Email, otpPurposeVerifyEmail, code, s.Cfg.OTPMaxAttempts)
	if err != nil {
		return nil, fmt.Errorf("op=onboarding.verify_email: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("%w: incorrect or expired code", domain.ErrAuthInvalid)
	}

	if err := s.Candidates.UpdateFields(ctx, candidateAssessmentID, candidate.Version, map[string]any{
		"emailVerified": true,
	}); err != nil {
		return nil, fmt.Errorf("op=onboarding.verify_email: %w", err)
	}
	return s.Candidates.Get(ctx, candidateAssessmentID)
}

// CapturePhoto stores a reference to the candidate's profile photo.
func (s *OnboardingService) CapturePhoto(ctx domain.Context, candidateAssessmentID, photoURL string) (*domain.CandidateAssessment, error) {
	candidate, err := s.Candidates.Get(ctx, candidateAssessmentID)
	if err != nil {
		return nil, err
	}
	if err := s.Candidates.UpdateFields(ctx, candidateAssessmentID, candidate.Version, map[string]any{
		"profilePhotoCaptured": true,
		"profilePhotoUrl":      photoURL,
	}); err != nil {
		return nil, fmt.Errorf("op=onboarding.capture_photo: %w", err)
	}
	return s.Candidates.Get(ctx, candidateAssessmentID)
}

// AcceptConsent records the candidate's proctoring consent.
func (s *OnboardingService) AcceptConsent(ctx domain.Context, candidateAssessmentID string) (*domain.CandidateAssessment, error) {
	candidate, err := s.Candidates.Get(ctx, candidateAssessmentID)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	if err := s.Candidates.UpdateFields(ctx, candidateAssessmentID, candidate.Version, map[string]any{
		"consentAccepted":   true,
		"consentAcceptedAt": &now,
	}); err != nil {
		return nil, fmt.Errorf("op=onboarding.accept_consent: %w", err)
	}
	return s.Candidates.Get(ctx, candidateAssessmentID)
}

type resumeMatchResult struct {
	SkillsScore   int    `json:"skillsScore"`
	ProjectsScore int    `json:"projectsScore"`
	FitScore      int    `json:"fitScore"`
	MatchScore    int    `json:"matchScore"`
	IsFake        bool   `json:"isFake"`
	Details       string `json:"details"`
}

// UploadResume extracts the resume's text, scores it against the JD via the
// LLM gateway, and gates the candidate into ready or resume_rejected, per
// spec.md §4.6.
func (s *OnboardingService) UploadResume(ctx domain.Context, candidateAssessmentID, fileName string, data []byte) (*domain.CandidateAssessment, error) {
	tr := otel.Tracer("usecase.onboarding")
	ctx, span := tr.Start(ctx, "OnboardingService.UploadResume")
	defer span.End()
	lg := obsctx.LoggerFromContext(ctx)

	candidate, err := s.Candidates.Get(ctx, candidateAssessmentID)
	if err != nil {
		return nil, err
	}
	jd, err := s.JDs.Get(ctx, candidate.JDID)
	if err != nil {
		return nil, err
	}

	text, err := s.Extractor.Extract(ctx, fileName, data)
	if err != nil {
		return nil, fmt.Errorf("%w: extract resume text: %v", domain.ErrInfrastructure, err)
	}

	minLen := s.Cfg.ResumeMinTextLen
	if minLen <= 0 {
		minLen = 50
	}
	now := time.Now().UTC()
	if len(text) < minLen {
		resume := domain.ResumeBlock{
			TextExtracted:   text,
			Details:         "extracted resume text is too short to evaluate",
			PassedThreshold: false,
			UploadedAt:      now,
		}
		if err := s.Candidates.UpdateFields(ctx, candidateAssessmentID, candidate.Version, map[string]any{
			"resume": resume,
			"status": domain.CandidateResumeRejected,
		}); err != nil {
			return nil, fmt.Errorf("op=onboarding.upload_resume: %w", err)
		}
		return s.Candidates.Get(ctx, candidateAssessmentID)
	}

	if err := s.Candidates.UpdateFields(ctx, candidateAssessmentID, candidate.Version, map[string]any{
		"status": domain.CandidateResumeReview,
	}); err != nil {
		return nil, fmt.Errorf("op=onboarding.upload_resume: %w", err)
	}
	candidate, err = s.Candidates.Get(ctx, candidateAssessmentID)
	if err != nil {
		return nil, err
	}

	prompt := fmt.Sprintf("Job description:\n%s\n\nResume:\n%s", jd.RawText, text)
	out, callErr := s.AI.ChatJSON(ctx, resumeMatchSystemPrompt, prompt, 1024)
	if callErr != nil {
		lg.Error("resume match call failed", slog.String("candidate_assessment_id", candidateAssessmentID), slog.Any("error", callErr))
		return nil, fmt.Errorf("%w: %v", domain.ErrLLMUnavailable, callErr)
	}
	var result resumeMatchResult
	if err := json.Unmarshal([]byte(out), &result); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrLLMBadJSON, err)
	}

	threshold := jd.Config.ResumeMatchThreshold
	if threshold <= 0 {
		threshold = config.DefaultResumeMatchThreshold
	}
	passed := result.MatchScore >= threshold && !result.IsFake

	resume := domain.ResumeBlock{
		TextExtracted:   text,
		MatchScore:      result.MatchScore,
		SkillsScore:     result.SkillsScore,
		ProjectsScore:   result.ProjectsScore,
		FitScore:        result.FitScore,
		IsFake:          result.IsFake,
		Details:         result.Details,
		PassedThreshold: passed,
		UploadedAt:      now,
	}
	status := domain.CandidateResumeRejected
	if passed {
		status = domain.CandidateReady
	}

	if err := s.Candidates.UpdateFields(ctx, candidateAssessmentID, candidate.Version, map[string]any{
		"resume": resume,
		"status": status,
	}); err != nil {
		return nil, fmt.Errorf("op=onboarding.upload_resume: %w", err)
	}
	return s.Candidates.Get(ctx, candidateAssessmentID)
}

// deriveCandidateID derives a stable candidate identity from email so that
// repeat registrations against the same JD resolve to the same
// CandidateAssessment row, mirroring the teacher's hash-based idempotency
// idiom from evaluate.go.
func deriveCandidateID(email string) string {
	h := sha256.Sum256([]byte(strings.ToLower(strings.TrimSpace(email))))
	return hex.EncodeToString(h[:])
}
