package email

import (
	"fmt"
	"net/mail"
	"strings"

	"github.com/itchan-dev/bloghub/shared/config"
	"github.com/itchan-dev/bloghub/shared/errors"
	"github.com/itchan-dev/bloghub/shared/logger"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"gopkg.in/gomail.v2"
)

var emailsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: "bloghub",
		Name:      "emails_total",
		Help:      "Outgoing emails by result",
	},
	[]string{"result"},
)

type Email struct {
	config *config.Email
	send   func(m ...*gomail.Message) error
}

// New builds a notifier that delivers through the configured SMTP server.
// gomail uses implicit TLS on port 465 and STARTTLS otherwise.
func New(cfg *config.Email) *Email {
	dialer := gomail.NewDialer(cfg.SMTPServer, cfg.SMTPPort, cfg.Username, cfg.Password)
	return &Email{
		config: cfg,
		send:   dialer.DialAndSend,
	}
}

func (e *Email) IsCorrect(email string) error {
	if _, err := mail.ParseAddress(email); err != nil {
		return errors.Validation("Email is not valid: %s", err.Error())
	}
	return nil
}

// Send delivers a plain text message. Failures are returned, never retried.
func (e *Email) Send(recipientEmail, subject, body string) error {
	if strings.TrimSpace(recipientEmail) == "" {
		emailsTotal.WithLabelValues("failed").Inc()
		return fmt.Errorf("empty recipient")
	}

	m := gomail.NewMessage()
	m.SetAddressHeader("From", e.from(), e.config.SenderName)
	m.SetHeader("To", recipientEmail)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)

	if err := e.send(m); err != nil {
		emailsTotal.WithLabelValues("failed").Inc()
		logger.Log.Error("failed to send email", "recipient", recipientEmail, "smtp_server", e.config.SMTPServer, "error", err)
		return fmt.Errorf("send email: %w", err)
	}

	emailsTotal.WithLabelValues("sent").Inc()
	logger.Log.Info("email sent", "recipient", recipientEmail, "subject", subject)
	return nil
}

func (e *Email) from() string {
	if e.config.From != "" {
		return e.config.From
	}
	return e.config.Username
}
