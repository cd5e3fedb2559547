// Package mail sends outbound email over SMTP. Sends triggered by route
// pipelines are dispatched asynchronously; failures are logged, not retried.
package mail

import (
	"log"
	"net/smtp"

	"chatterbug_server/config"
)

// Sender dispatches email through the configured relay.
type Sender struct {
	from   string
	smtp   config.SMTPConfig
	logger *log.Logger
}

// New builds a Sender. Failures go to logger.
func New(from string, smtpConfig config.SMTPConfig, logger *log.Logger) *Sender {
	return &Sender{from: from, smtp: smtpConfig, logger: logger}
}

// Send delivers one message synchronously.
func (s *Sender) Send(to string, subject string, body string) error {
	message := "From: " + s.from + "\r\n" +
		"To: " + to + "\r\n" +
		"Subject: " + subject + "\r\n" +
		"MIME-version: 1.0;\r\nContent-Type: text/html; charset=\"UTF-8\";\r\n\r\n" +
		body

	auth := smtp.PlainAuth("", s.smtp.User, s.smtp.Password, s.smtp.Host)
	return smtp.SendMail(s.smtp.Host+":"+s.smtp.Port, auth, s.smtp.User, []string{to}, []byte(message))
}

// SendAsync delivers one message without blocking the caller. The HTTP
// response a route already produced is never held up by the relay.
func (s *Sender) SendAsync(to string, subject string, body string) {
	go func() {
		if err := s.Send(to, subject, body); err != nil {
			s.logger.Println("Email sender error: " + err.Error())
		}
	}()
}
