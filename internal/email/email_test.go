package email_test

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"

	"github.com/ErlanBelekov/blog-platform/internal/email"
)

func TestNewSender_LocalLogsInsteadOfSending(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	s := email.NewSender("local", "", "", logger)
	if _, ok := s.(*email.LogSender); !ok {
		t.Fatalf("sender = %T, want *email.LogSender", s)
	}

	if err := s.Send(context.Background(), "alice@example.com", "Hello", "<p>hi</p>"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(buf.String(), "alice@example.com") {
		t.Errorf("log output %q does not mention recipient", buf.String())
	}
}

func TestNewSender_ProductionUsesResend(t *testing.T) {
	s := email.NewSender("production", "re_test", "blog@example.com", slog.Default())
	if _, ok := s.(*email.ResendSender); !ok {
		t.Fatalf("sender = %T, want *email.ResendSender", s)
	}
}

func TestWelcomeMessage(t *testing.T) {
	subject, body := email.WelcomeMessage("alice@example.com")
	if subject == "" {
		t.Error("empty subject")
	}
	if !strings.Contains(body, "alice@example.com") {
		t.Errorf("body %q does not greet recipient", body)
	}
}

func TestWelcomeMessage_EscapesAddress(t *testing.T) {
	_, body := email.WelcomeMessage(`"<b>x</b>"@example.com`)
	if strings.Contains(body, "<b>") {
		t.Errorf("body %q contains unescaped markup", body)
	}
	if !strings.Contains(body, "&lt;b&gt;x&lt;/b&gt;") {
		t.Errorf("body %q does not contain the escaped address", body)
	}
}
