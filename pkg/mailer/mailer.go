package mailer

import (
	"context"
	"fmt"
	"net/smtp"
	"net/url"
	"strings"

	"github.com/jobnest/jobnest-backend/config"
	"github.com/jobnest/jobnest-backend/pkg/logger"
	"github.com/jordan-wright/email"
)

// Mailer delivers password reset secrets out of band
type Mailer interface {
	SendPasswordReset(ctx context.Context, toEmail, secret string) error
}

// New returns an SMTP mailer, or a log-only mailer when SMTP credentials are missing
func New(cfg config.SMTPConfig) Mailer {
	if cfg.From == "" || cfg.Password == "" {
		logger.Warn("SMTP credentials not configured, reset links will only be logged")
		return &LogMailer{resetURL: cfg.ResetURL}
	}
	return &SMTPMailer{cfg: cfg}
}

type SMTPMailer struct {
	cfg config.SMTPConfig
}

const resetSubject = "[JobNest] Reset your password"

// resetEmail builds the HTML message carrying the reset link
func (m *SMTPMailer) resetEmail(toEmail, secret string) *email.Email {
	link := resetLink(m.cfg.ResetURL, toEmail, secret)

	e := email.NewEmail()
	e.From = m.cfg.From
	e.To = []string{toEmail}
	e.Subject = resetSubject
	e.HTML = []byte(fmt.Sprintf(`<html>
<body style="font-family: Arial, sans-serif; padding: 20px;">
	<h1>Password reset</h1>
	<p>We received a request to reset the password of your JobNest account.</p>
	<p><a href="%s">Choose a new password</a></p>
	<p style="color: #999; font-size: 14px;">If you did not request this, you can ignore this email.</p>
</body>
</html>
`, link))
	return e
}

func (m *SMTPMailer) SendPasswordReset(ctx context.Context, toEmail, secret string) error {
	e := m.resetEmail(toEmail, secret)

	hostAndPort := strings.Join([]string{m.cfg.Host, m.cfg.Port}, ":")
	plainAuth := smtp.PlainAuth("", m.cfg.From, m.cfg.Password, m.cfg.Host)

	errCh := make(chan error, 1)
	go func() {
		errCh <- e.Send(hostAndPort, plainAuth)
	}()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case err := <-errCh:
		if err != nil {
			logger.Error("Failed to send password reset email", err, map[string]interface{}{
				"email": toEmail,
			})
			return fmt.Errorf("failed to send password reset email: %w", err)
		}
	}

	logger.Info("Password reset email sent", map[string]interface{}{
		"email": toEmail,
	})
	return nil
}

// LogMailer writes the reset link to the log instead of sending it
type LogMailer struct {
	resetURL string
}

func (m *LogMailer) SendPasswordReset(_ context.Context, toEmail, secret string) error {
	logger.Info("[DEV MODE] Password reset link", map[string]interface{}{
		"email": toEmail,
		"link":  resetLink(m.resetURL, toEmail, secret),
	})
	return nil
}

func resetLink(base, email, secret string) string {
	q := url.Values{}
	q.Set("email", email)
	q.Set("token", secret)
	return base + "?" + q.Encode()
}
