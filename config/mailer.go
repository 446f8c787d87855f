package config

import (
	"crypto/tls"
	"fmt"
	"time"

	mail "github.com/go-mail/mail/v2"
)

// Mailer delivers HTML mail over SMTP.
type Mailer struct {
	host          string
	port          int
	user          string
	pass          string
	from          string
	skipTLSVerify bool
	timeout       time.Duration
}

func NewMailer(s Settings) *Mailer {
	port := s.SMTPPort
	if port == 0 {
		port = 587
	}
	return &Mailer{
		host:          s.SMTPHost,
		port:          port,
		user:          s.SMTPUser,
		pass:          s.SMTPPass,
		from:          s.SMTPFrom,
		skipTLSVerify: s.SMTPSkipTLSVerify,
		timeout:       s.SMTPTimeout,
	}
}

func (m *Mailer) Configured() bool {
	return m.host != "" && m.from != ""
}

// Send delivers a message with an HTML body and a plain-text alternative.
func (m *Mailer) Send(to []string, subject, html, text string) error {
	if len(to) == 0 {
		return nil
	}
	if !m.Configured() {
		return fmt.Errorf("smtp not configured (SMTP_HOST/SMTP_FROM)")
	}

	msg := mail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to...)
	msg.SetHeader("Subject", subject)
	if text != "" {
		msg.SetBody("text/plain", text)
		msg.AddAlternative("text/html", html)
	} else {
		msg.SetBody("text/html", html)
	}

	d := mail.NewDialer(m.host, m.port, m.user, m.pass)
	if m.timeout > 0 {
		d.Timeout = m.timeout
	}

	// Port 465 is implicit TLS; everything else must upgrade with STARTTLS.
	if m.port != 465 {
		d.StartTLSPolicy = mail.MandatoryStartTLS
	}
	d.TLSConfig = &tls.Config{
		ServerName:         m.host,
		InsecureSkipVerify: m.skipTLSVerify, // dev only
	}

	return d.DialAndSend(msg)
}
