// Package mailer delivers transactional email over SMTP
package mailer

import (
	"fmt"

	mail "gopkg.in/mail.v2"
)

// Mailer sends emails
type Mailer interface {
	// Send delivers a plain-text email and blocks until the transport
	// accepts it or fails. Failures are wrapped, never passed through raw.
	Send(to, subject, body string) error
}

type smtpMailer struct {
	host     string
	port     int
	username string
	password string
	from     string
}

// NewSMTPMailer creates a Mailer backed by an SMTP server
func NewSMTPMailer(host string, port int, username, password, from string) Mailer {
	return &smtpMailer{
		host:     host,
		port:     port,
		username: username,
		password: password,
		from:     from,
	}
}

func (m *smtpMailer) Send(to, subject, body string) error {
	msg := mail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", body)

	d := mail.NewDialer(m.host, m.port, m.username, m.password)
	if err := d.DialAndSend(msg); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	return nil
}
