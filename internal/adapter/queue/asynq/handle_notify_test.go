package asynqadp

import (
	"context"
	"errors"
	"testing"

	"github.com/ironquill/assesspoint/internal/domain"
)

type fakeNotifier struct {
	sentOTP, sentInvite, sentReport int
	failNext                        bool
}

func (f *fakeNotifier) SendOTP(_ domain.Context, _, _ string) error {
	if f.failNext {
		return errors.New("smtp down")
	}
	f.sentOTP++
	return nil
}

func (f *fakeNotifier) SendInvite(_ domain.Context, _, _ string) error {
	f.sentInvite++
	return nil
}

func (f *fakeNotifier) SendReportReady(_ domain.Context, _, _ string) error {
	f.sentReport++
	return nil
}

func TestHandleNotify_OTP(t *testing.T) {
	n := &fakeNotifier{}
	err := handleNotify(context.Background(), n, NotifyTaskPayload{Kind: NotifyOTP, Email: "a@b.com", Code: "123456"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n.sentOTP != 1 {
		t.Fatalf("expected 1 OTP send, got %d", n.sentOTP)
	}
}

func TestHandleNotify_Invite(t *testing.T) {
	n := &fakeNotifier{}
	err := handleNotify(context.Background(), n, NotifyTaskPayload{Kind: NotifyInvite, Email: "a@b.com", AssessmentURL: "https://x/y"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n.sentInvite != 1 {
		t.Fatalf("expected 1 invite send, got %d", n.sentInvite)
	}
}

func TestHandleNotify_ReportReady(t *testing.T) {
	n := &fakeNotifier{}
	err := handleNotify(context.Background(), n, NotifyTaskPayload{Kind: NotifyReportReady, Email: "a@b.com", CandidateAssessmentID: "ca1"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n.sentReport != 1 {
		t.Fatalf("expected 1 report-ready send, got %d", n.sentReport)
	}
}

func TestHandleNotify_UnknownKind(t *testing.T) {
	n := &fakeNotifier{}
	err := handleNotify(context.Background(), n, NotifyTaskPayload{Kind: "bogus"})
	if err == nil {
		t.Fatal("expected error for unknown kind")
	}
}

func TestHandleNotify_PropagatesFailure(t *testing.T) {
	n := &fakeNotifier{failNext: true}
	err := handleNotify(context.Background(), n, NotifyTaskPayload{Kind: NotifyOTP, Email: "a@b.com", Code: "1"})
	if err == nil {
		t.Fatal("expected error to propagate")
	}
}
