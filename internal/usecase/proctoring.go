package usecase

import (
	"fmt"
	"time"

	"go.opentelemetry.io/otel"

	"github.com/ironquill/assesspoint/internal/domain"
)

// validEventTypes is the closed set of proctoring event types the Glossary
// defines. Severity classification and counter increments happen downstream
// of Publish, in the redpanda consumer — this usecase is the HTTP-ingest
// side, matching spec.md §5's "proctoring appends bypass the candidate lock"
// rule: it never touches CandidateRepository directly.
var validEventTypes = map[domain.ProctoringEventType]bool{
	domain.EventMultipleFaces:    true,
	domain.EventDeviceDetected:   true,
	domain.EventExternalScreen:   true,
	domain.EventCopyPaste:        true,
	domain.EventDevTools:         true,
	domain.EventTabSwitch:        true,
	domain.EventNoFace:           true,
	domain.EventKeyboardShortcut: true,
	domain.EventIdleLong:         true,
	domain.EventSuspicious:       true,
	domain.EventFullscreenExit:   true,
	domain.EventWindowBlur:       true,
	domain.EventFaceNotCentered:  true,
	domain.EventRightClick:       true,
	domain.EventBrowserResize:    true,
}

// ProctoringService implements the proctoring ingest surface (C9).
type ProctoringService struct {
	Bus        domain.ProctoringEventBus
	Events     domain.ProctoringRepository
	Audit      domain.AuditRepository
}

// NewProctoringService constructs a ProctoringService.
func NewProctoringService(bus domain.ProctoringEventBus, events domain.ProctoringRepository, audit domain.AuditRepository) *ProctoringService {
	return &ProctoringService{Bus: bus, Events: events, Audit: audit}
}

// LogEvent validates the event type and publishes it for asynchronous
// severity classification and persistence. It never alters candidate
// status — only admin review can clear an integrity flag.
func (s *ProctoringService) LogEvent(ctx domain.Context, candidateAssessmentID string, eventType domain.ProctoringEventType, section domain.Section, questionID string, evidence map[string]any, screenshotRef string) error {
	tr := otel.Tracer("usecase.proctoring")
	ctx, span := tr.Start(ctx, "ProctoringService.LogEvent")
	defer span.End()

	if !validEventTypes[eventType] {
		return fmt.Errorf("%w: unknown proctoring event type %q", domain.ErrValidation, eventType)
	}
	if candidateAssessmentID == "" {
		return fmt.Errorf("%w: candidateAssessmentId is required", domain.ErrValidation)
	}

	return s.Bus.Publish(ctx, domain.ProctoringEventRaw{
		CandidateAssessmentID: candidateAssessmentID,
		Type:                  eventType,
		Section:               section,
		QuestionID:            questionID,
		Evidence:              evidence,
		ScreenshotRef:         screenshotRef,
		OccurredAt:            time.Now().UTC(),
	})
}

// ListEvents returns the candidate's proctoring history for admin review.
func (s *ProctoringService) ListEvents(ctx domain.Context, candidateAssessmentID string, limit, offset int) ([]*domain.ProctoringEvent, error) {
	return s.Events.ListByCandidate(ctx, candidateAssessmentID, limit, offset)
}

// MarkReviewed records an admin's review of a flagged proctoring event.
func (s *ProctoringService) MarkReviewed(ctx domain.Context, eventID, reviewedBy, note string) error {
	if err := s.Events.MarkReviewed(ctx, eventID, reviewedBy, note); err != nil {
		return fmt.Errorf("op=proctoring.mark_reviewed: %w", err)
	}
	if s.Audit != nil {
		_ = s.Audit.Record(ctx, reviewedBy, "proctoring_event_reviewed", "proctoring_event", eventID, map[string]any{"note": note})
	}
	return nil
}
