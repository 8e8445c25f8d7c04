// Package notify implements domain.Notifier: best-effort email dispatch for
// OTP codes, assessment invites, and report-ready notices. When SMTP isn't
// configured it falls back to logging the message, matching spec.md §6's
// "email transport is out of scope; provide an interface and a
// console-logging implementation for local development."
package notify

import (
	"fmt"
	"log/slog"
	"net/smtp"
	"strings"

	"github.com/ironquill/assesspoint/internal/config"
	"github.com/ironquill/assesspoint/internal/domain"
)

// Notifier sends transactional email via SMTP, or logs to stdout when no
// SMTP host is configured.
type Notifier struct {
	cfg config.Config
}

// New constructs a Notifier from the given config.
func New(cfg config.Config) *Notifier {
	return &Notifier{cfg: cfg}
}

func (n *Notifier) SendOTP(ctx domain.Context, email, code string) error {
	subject := "Your verification code"
	body := fmt.Sprintf("Your one-time verification code is %s. It expires in 10 minutes.", code)
	return n.send(ctx, email, subject, body)
}

func (n *Notifier) SendInvite(ctx domain.Context, email, assessmentURL string) error {
	subject := "You've been invited to an assessment"
	body := fmt.Sprintf("You've been invited to complete a technical assessment. Start here: %s", assessmentURL)
	return n.send(ctx, email, subject, body)
}

func (n *Notifier) SendReportReady(ctx domain.Context, email, candidateAssessmentID string) error {
	subject := "Assessment report ready"
	body := fmt.Sprintf("The evaluation report for assessment %s is ready for review.", candidateAssessmentID)
	return n.send(ctx, email, subject, body)
}

func (n *Notifier) send(_ domain.Context, to, subject, body string) error {
	if n.cfg.SMTPHost == "" {
		slog.Info("notify: console fallback (SMTP not configured)",
			slog.String("to", to), slog.String("subject", subject), slog.String("body", body))
		return nil
	}

	addr := fmt.Sprintf("%s:%d", n.cfg.SMTPHost, n.cfg.SMTPPort)
	msg := buildMessage(n.cfg.SMTPFrom, to, subject, body)

	var auth smtp.Auth
	if n.cfg.SMTPUser != "" {
		auth = smtp.PlainAuth("", n.cfg.SMTPUser, n.cfg.SMTPPass, n.cfg.SMTPHost)
	}
	if err := smtp.SendMail(addr, auth, n.cfg.SMTPFrom, []string{to}, []byte(msg)); err != nil {
		return fmt.Errorf("op=notify.send: %w", err)
	}
	return nil
}

func buildMessage(from, to, subject, body string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", from)
	fmt.Fprintf(&b, "To: %s\r\n", to)
	fmt.Fprintf(&b, "Subject: %s\r\n", subject)
	b.WriteString("\r\n")
	b.WriteString(body)
	b.WriteString("\r\n")
	return b.String()
}
