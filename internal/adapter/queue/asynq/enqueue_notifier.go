package asynqadp

import "github.com/ironquill/assesspoint/internal/domain"

// EnqueueNotifier implements domain.Notifier by enqueueing a notify_email
// task instead of sending synchronously, so HTTP handlers never block on an
// SMTP round trip. cmd/notifyworker drains the queue with the real
// notify.Notifier.
type EnqueueNotifier struct {
	Queue *Queue
}

// NewEnqueueNotifier wraps a Queue as a domain.Notifier.
func NewEnqueueNotifier(q *Queue) *EnqueueNotifier {
	return &EnqueueNotifier{Queue: q}
}

func (n *EnqueueNotifier) SendOTP(ctx domain.Context, email, code string) error {
	_, err := n.Queue.Enqueue(ctx, NotifyTaskPayload{Kind: NotifyOTP, Email: email, Code: code})
	return err
}

func (n *EnqueueNotifier) SendInvite(ctx domain.Context, email, assessmentURL string) error {
	_, err := n.Queue.Enqueue(ctx, NotifyTaskPayload{Kind: NotifyInvite, Email: email, AssessmentURL: assessmentURL})
	return err
}

func (n *EnqueueNotifier) SendReportReady(ctx domain.Context, email, candidateAssessmentID string) error {
	_, err := n.Queue.Enqueue(ctx, NotifyTaskPayload{Kind: NotifyReportReady, Email: email, CandidateAssessmentID: candidateAssessmentID})
	return err
}
