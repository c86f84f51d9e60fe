// Package notify sends the transactional mails of the backend.
package notify

import (
	"context"
	"fmt"
	"mime"
	"net/smtp"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

// Message is a plain text mail.
type Message struct {
	To      []string
	Subject string
	Body    string
}

// Mailer delivers messages.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// SMTPMailer delivers messages through an SMTP server with PLAIN authentication.
type SMTPMailer struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
}

func (m SMTPMailer) Send(ctx context.Context, msg Message) error {
	// net/smtp cannot be cancelled, so at least do not start when the context is done
	if err := ctx.Err(); err != nil {
		return err
	}

	var auth smtp.Auth
	if m.User != "" {
		auth = smtp.PlainAuth("", m.User, m.Password, m.Host)
	}

	addr := m.Host + ":" + strconv.Itoa(m.Port)
	err := smtp.SendMail(addr, auth, m.From, msg.To, m.build(msg, time.Now()))
	if err != nil {
		return fmt.Errorf("could not send mail to %s: %w", strings.Join(msg.To, ", "), err)
	}

	return nil
}

// build renders the message with its headers.
func (m SMTPMailer) build(msg Message, date time.Time) []byte {
	var b strings.Builder

	fmt.Fprintf(&b, "From: %s\r\n", m.From)
	fmt.Fprintf(&b, "To: %s\r\n", strings.Join(msg.To, ", "))
	fmt.Fprintf(&b, "Subject: %s\r\n", mime.QEncoding.Encode("utf-8", msg.Subject))
	fmt.Fprintf(&b, "Date: %s\r\n", date.Format(time.RFC1123Z))
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=UTF-8\r\n")
	b.WriteString("Content-Transfer-Encoding: 8bit\r\n")
	b.WriteString("\r\n")
	b.WriteString(strings.ReplaceAll(msg.Body, "\n", "\r\n"))
	b.WriteString("\r\n")

	return []byte(b.String())
}

// LogMailer logs messages instead of delivering them. It is used when no
// SMTP server is configured.
type LogMailer struct{}

func (LogMailer) Send(_ context.Context, msg Message) error {
	log.Info().Strs("to", msg.To).Str("subject", msg.Subject).Msg("mail not sent, SMTP is not configured")
	return nil
}
