package email

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"github.com/google/uuid"
)

type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

type SMTPProvider struct {
	cfg Config
}

func NewSMTP(cfg Config) *SMTPProvider {
	return &SMTPProvider{cfg: cfg}
}

func (p *SMTPProvider) Configured() bool {
	return p.cfg.Host != "" && p.cfg.Port > 0 && p.cfg.From != ""
}

func (p *SMTPProvider) Send(ctx context.Context, to []string, subject string, htmlBody string) (string, error) {
	if len(to) == 0 {
		return "", fmt.Errorf("email: no recipients")
	}

	var auth smtp.Auth
	if p.cfg.Username != "" {
		auth = smtp.PlainAuth("", p.cfg.Username, p.cfg.Password, p.cfg.Host)
	}
	addr := fmt.Sprintf("%s:%d", p.cfg.Host, p.cfg.Port)

	mime := "MIME-version: 1.0;\nContent-Type: text/html; charset=\"UTF-8\";\n\n"
	msg := []byte(fmt.Sprintf("To: %s\r\nSubject: %s\r\n%s\r\n%s", strings.Join(to, ", "), subject, mime, htmlBody))

	type sendResult struct {
		err error
	}
	done := make(chan sendResult, 1)
	go func() {
		done <- sendResult{err: smtp.SendMail(addr, auth, p.cfg.From, to, msg)}
	}()

	// net/smtp has no context support, so honor cancellation here and let
	// the orphaned dial finish in the background.
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case res := <-done:
		if res.err != nil {
			return "", res.err
		}
	}

	return uuid.NewString(), nil
}
