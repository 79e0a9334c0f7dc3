// Package mail sends outbound email — in practice, the password-reset OTP.
//
// When no SMTP credentials are configured, the dispatcher degrades to
// logging the message instead of sending it and reports success. That keeps
// the reset flow usable in development (read the code off the server log)
// without anyone having to provision a mail account first.
package mail

import (
	"context"
	"fmt"
	"log/slog"

	gomail "github.com/wneessen/go-mail"
)

// Dispatcher is the outbound-email contract the auth service depends on.
// A failed Send must return an error: ForgotPassword rolls back the stored
// OTP when dispatch fails.
type Dispatcher interface {
	Send(ctx context.Context, to, subject, message string) error
}

// Config holds SMTP settings. Host/User/Pass empty means "not configured".
type Config struct {
	Host string
	Port int
	User string
	Pass string
	From string // sender address; defaults to User when empty
}

// Configured reports whether real SMTP delivery is possible.
func (c Config) Configured() bool {
	return c.User != "" && c.Pass != ""
}

// SMTPDispatcher sends plain-text mail over authenticated SMTP, or logs
// the message when unconfigured.
type SMTPDispatcher struct {
	cfg    Config
	logger *slog.Logger
}

var _ Dispatcher = (*SMTPDispatcher)(nil)

// New creates a dispatcher for the given config.
func New(cfg Config, logger *slog.Logger) *SMTPDispatcher {
	if cfg.From == "" {
		cfg.From = cfg.User
	}
	if cfg.Port == 0 {
		cfg.Port = 587
	}
	return &SMTPDispatcher{cfg: cfg, logger: logger}
}

// Send delivers a plain-text message.
//
// Unconfigured transport is not an error — the message is logged and the
// caller proceeds as if it were sent.
func (d *SMTPDispatcher) Send(ctx context.Context, to, subject, message string) error {
	if !d.cfg.Configured() {
		d.logger.Warn("no EMAIL_USER/EMAIL_PASS configured, logging email instead",
			slog.String("to", to),
			slog.String("subject", subject),
			slog.String("message", message),
		)
		return nil
	}

	msg := gomail.NewMsg()
	if err := msg.From(d.cfg.From); err != nil {
		return fmt.Errorf("mail: invalid sender %q: %w", d.cfg.From, err)
	}
	if err := msg.To(to); err != nil {
		return fmt.Errorf("mail: invalid recipient %q: %w", to, err)
	}
	msg.Subject(subject)
	msg.SetBodyString(gomail.TypeTextPlain, message)

	client, err := gomail.NewClient(d.cfg.Host,
		gomail.WithPort(d.cfg.Port),
		gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
		gomail.WithUsername(d.cfg.User),
		gomail.WithPassword(d.cfg.Pass),
	)
	if err != nil {
		return fmt.Errorf("mail: creating SMTP client: %w", err)
	}

	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("mail: sending to %s: %w", to, err)
	}

	d.logger.Info("email sent", slog.String("to", to), slog.String("subject", subject))
	return nil
}
