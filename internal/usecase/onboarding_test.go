package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/ironquill/assesspoint/internal/config"
	"github.com/ironquill/assesspoint/internal/domain"
	"github.com/ironquill/assesspoint/internal/domain/mocks"
	"github.com/ironquill/assesspoint/internal/usecase"
)

func openWindowJD() *domain.JobDescription {
	start := time.Now().Add(-time.Hour)
	end := time.Now().Add(time.Hour)
	return &domain.JobDescription{
		ID: "jd-1", RawText: "we need a backend engineer",
		Config: domain.AssessmentConfig{StartTime: &start, EndTime: &end, ResumeMatchThreshold: 60},
	}
}

func TestOnboarding_Register_IssuesOTPOnRepeatRegistration(t *testing.T) {
	t.Parallel()
	jds := mocks.NewMockJDRepository(t)
	candidates := mocks.NewMockCandidateRepository(t)
	otp := mocks.NewMockOTPStore(t)
	notifier := mocks.NewMockNotifier(t)
	ai := mocks.NewMockAIClient(t)
	extractor := mocks.NewMockTextExtractor(t)

	jd := openWindowJD()
	existing := &domain.CandidateAssessment{ID: "cand-1", JDID: jd.ID, Email: "a@b.com"}

	jds.EXPECT().GetByAssessmentLink(mock.Anything, "link-1").Return(jd, nil)
	candidates.EXPECT().GetByCandidateAndJD(mock.Anything, mock.Anything, jd.ID).Return(existing, nil)
	otp.EXPECT().Issue(mock.Anything, "a@b.com", "verify_email", mock.Anything).Return("123456", nil)
	notifier.EXPECT().SendOTP(mock.Anything, "a@b.com", "123456").Return(nil)

	svc := usecase.NewOnboardingService(jds, candidates, otp, notifier, ai, extractor, config.Config{})
	got, err := svc.Register(context.Background(), "link-1", "A@B.com", "Alice")
	require.NoError(t, err)
	assert.Equal(t, "cand-1", got.ID)
}

func TestOnboarding_Register_RejectsWhenWindowClosed(t *testing.T) {
	t.Parallel()
	jds := mocks.NewMockJDRepository(t)
	candidates := mocks.NewMockCandidateRepository(t)
	otp := mocks.NewMockOTPStore(t)
	notifier := mocks.NewMockNotifier(t)
	ai := mocks.NewMockAIClient(t)
	extractor := mocks.NewMockTextExtractor(t)

	past := time.Now().Add(-48 * time.Hour)
	closedEnd := time.Now().Add(-24 * time.Hour)
	jd := &domain.JobDescription{ID: "jd-1", Config: domain.AssessmentConfig{StartTime: &past, EndTime: &closedEnd}}
	jds.EXPECT().GetByAssessmentLink(mock.Anything, "link-1").Return(jd, nil)

	svc := usecase.NewOnboardingService(jds, candidates, otp, notifier, ai, extractor, config.Config{})
	_, err := svc.Register(context.Background(), "link-1", "a@b.com", "Alice")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestOnboarding_VerifyEmail_RejectsIncorrectCode(t *testing.T) {
	t.Parallel()
	jds := mocks.NewMockJDRepository(t)
	candidates := mocks.NewMockCandidateRepository(t)
	otp := mocks.NewMockOTPStore(t)
	notifier := mocks.NewMockNotifier(t)
	ai := mocks.NewMockAIClient(t)
	extractor := mocks.NewMockTextExtractor(t)

	candidate := &domain.CandidateAssessment{ID: "cand-1", Email: "a@b.com", Version: 1}
	candidates.EXPECT().Get(mock.Anything, "cand-1").Return(candidate, nil)
	otp.EXPECT().Verify(mock.Anything, "a@b.com", "verify_email", "000000", 5).Return(false, nil)

	svc := usecase.NewOnboardingService(jds, candidates, otp, notifier, ai, extractor, config.Config{OTPMaxAttempts: 5})
	_, err := svc.VerifyEmail(context.Background(), "cand-1", "000000")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrAuthInvalid)
}

func TestOnboarding_UploadResume_RejectsBelowMinTextLength(t *testing.T) {
	t.Parallel()
	jds := mocks.NewMockJDRepository(t)
	candidates := mocks.NewMockCandidateRepository(t)
	otp := mocks.NewMockOTPStore(t)
	notifier := mocks.NewMockNotifier(t)
	ai := mocks.NewMockAIClient(t)
	extractor := mocks.NewMockTextExtractor(t)

	candidate := &domain.CandidateAssessment{ID: "cand-1", JDID: "jd-1", Version: 1}
	candidates.EXPECT().Get(mock.Anything, "cand-1").Return(candidate, nil)
	jds.EXPECT().Get(mock.Anything, "jd-1").Return(openWindowJD(), nil)
	extractor.EXPECT().Extract(mock.Anything, "resume.pdf", mock.Anything).Return("too short", nil)
	candidates.EXPECT().UpdateFields(mock.Anything, "cand-1", 1, mock.MatchedBy(func(f map[string]any) bool {
		return f["status"] == domain.CandidateResumeRejected
	})).Return(nil)
	candidates.EXPECT().Get(mock.Anything, "cand-1").Return(&domain.CandidateAssessment{ID: "cand-1", Status: domain.CandidateResumeRejected}, nil)

	svc := usecase.NewOnboardingService(jds, candidates, otp, notifier, ai, extractor, config.Config{ResumeMinTextLen: 50})
	got, err := svc.UploadResume(context.Background(), "cand-1", "resume.pdf", []byte("too short"))
	require.NoError(t, err)
	assert.Equal(t, domain.CandidateResumeRejected, got.Status)
	ai.AssertNotCalled(t, "ChatJSON", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestOnboarding_UploadResume_PassesAboveThreshold(t *testing.T) {
	t.Parallel()
	jds := mocks.NewMockJDRepository(t)
	candidates := mocks.NewMockCandidateRepository(t)
	otp := mocks.NewMockOTPStore(t)
	notifier := mocks.NewMockNotifier(t)
	ai := mocks.NewMockAIClient(t)
	extractor := mocks.NewMockTextExtractor(t)

	longText := ""
	for i := 0; i < 20; i++ {
		longText += "experienced backend engineer with distributed systems background "
	}

	candidate := &domain.CandidateAssessment{ID: "cand-1", JDID: "jd-1", Version: 1}
	candidates.EXPECT().Get(mock.Anything, "cand-1").Return(candidate, nil).Once()
	jds.EXPECT().Get(mock.Anything, "jd-1").Return(openWindowJD(), nil)
	extractor.EXPECT().Extract(mock.Anything, "resume.pdf", mock.Anything).Return(longText, nil)
	candidates.EXPECT().UpdateFields(mock.Anything, "cand-1", 1, mock.MatchedBy(func(f map[string]any) bool {
		return f["status"] == domain.CandidateResumeReview
	})).Return(nil)
	candidates.EXPECT().Get(mock.Anything, "cand-1").Return(&domain.CandidateAssessment{ID: "cand-1", Version: 2}, nil).Once()
	ai.EXPECT().ChatJSON(mock.Anything, mock.Anything, mock.Anything, 1024).Return(
		`{"skillsScore":90,"projectsScore":80,"fitScore":70,"matchScore":82,"isFake":false,"details":"strong match"}`, nil)
	candidates.EXPECT().UpdateFields(mock.Anything, "cand-1", 2, mock.MatchedBy(func(f map[string]any) bool {
		return f["status"] == domain.CandidateReady
	})).Return(nil)
	candidates.EXPECT().Get(mock.Anything, "cand-1").Return(&domain.CandidateAssessment{ID: "cand-1", Status: domain.CandidateReady}, nil).Once()

	svc := usecase.NewOnboardingService(jds, candidates, otp, notifier, ai, extractor, config.Config{ResumeMinTextLen: 50})
	got, err := svc.UploadResume(context.Background(), "cand-1", "resume.pdf", []byte(longText))
	require.NoError(t, err)
	assert.Equal(t, domain.CandidateReady, got.Status)
}
