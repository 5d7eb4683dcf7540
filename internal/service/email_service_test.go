package service

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/edunext-academy/internal/config"
	"github.com/edunext-academy/internal/models"
)

func TestBuildVerifyCodeContent(t *testing.T) {
	subject, body := buildVerifyCodeContent("482913")
	if !strings.Contains(subject, "verification code") {
		t.Fatalf("unexpected subject: %s", subject)
	}
	if !strings.Contains(body, "482913") {
		t.Fatalf("body must contain the code: %s", body)
	}
	if !strings.Contains(body, "only once") {
		t.Fatalf("body must mention single use: %s", body)
	}
}

func TestBuildCertificateIssuedContent(t *testing.T) {
	cert := &models.Certificate{
		StudentName:      "Alice Zhang",
		ProgramTitle:     "Go Backend Engineering",
		IssueDate:        time.Date(2026, 2, 14, 0, 0, 0, 0, time.UTC),
		VerificationCode: "ABCDEF123456",
	}
	subject, body := buildCertificateIssuedContent(cert)
	if !strings.Contains(subject, "certificate") {
		t.Fatalf("unexpected subject: %s", subject)
	}
	for _, want := range []string{"Alice Zhang", "Go Backend Engineering", "2026-02-14", "ABCDEF123456", "/certificates/verify/ABCDEF123456"} {
		if !strings.Contains(body, want) {
			t.Fatalf("body missing %q: %s", want, body)
		}
	}
}

func TestSendEmailDisabledOrUnconfigured(t *testing.T) {
	disabled := NewEmailService(&config.EmailConfig{Enabled: false})
	if err := disabled.SendVerifyCodeEmail("user@example.com", "123456"); !errors.Is(err, ErrEmailServiceDisabled) {
		t.Fatalf("expected ErrEmailServiceDisabled, got %v", err)
	}

	unconfigured := NewEmailService(&config.EmailConfig{Enabled: true})
	if err := unconfigured.SendVerifyCodeEmail("user@example.com", "123456"); !errors.Is(err, ErrEmailServiceNotConfigured) {
		t.Fatalf("expected ErrEmailServiceNotConfigured, got %v", err)
	}
}

func TestSendEmailRejectsInvalidRecipient(t *testing.T) {
	svc := NewEmailService(&config.EmailConfig{
		Enabled: true,
		Host:    "smtp.example.com",
		Port:    587,
		From:    "noreply@example.com",
	})
	if err := svc.SendVerifyCodeEmail("not-an-address", "123456"); !errors.Is(err, ErrInvalidEmail) {
		t.Fatalf("expected ErrInvalidEmail, got %v", err)
	}
}

func TestBuildEmailMessageHeaders(t *testing.T) {
	msg := buildEmailMessage("EduNext <noreply@example.com>", "user@example.com", "Hello", "Body text")
	if !strings.Contains(msg, "From: EduNext <noreply@example.com>\r\n") {
		t.Fatalf("missing from header: %s", msg)
	}
	if !strings.Contains(msg, "To: user@example.com\r\n") {
		t.Fatalf("missing to header: %s", msg)
	}
	if !strings.Contains(msg, "Content-Type: text/plain; charset=UTF-8\r\n") {
		t.Fatalf("missing content type: %s", msg)
	}
	if !strings.HasSuffix(msg, "\r\n\r\nBody text") {
		t.Fatalf("body must follow blank line: %s", msg)
	}
}

func TestIsEmailRecipientRejected(t *testing.T) {
	tests := []struct {
		message string
		want    bool
	}{
		{"550 5.1.1 no such recipient here", true},
		{"recipient address rejected: access denied", true},
		{"user unknown", true},
		{"550 relay not permitted for this address", true},
		{"connection refused", false},
		{"535 authentication failed", false},
		{"", false},
	}
	for _, tt := range tests {
		var err error
		if tt.message != "" {
			err = errors.New(tt.message)
		}
		if got := isEmailRecipientRejected(err); got != tt.want {
			t.Fatalf("isEmailRecipientRejected(%q) = %v, want %v", tt.message, got, tt.want)
		}
	}
}
