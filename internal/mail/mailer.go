package mail

import (
	"context"  // Cancellation
	"fmt"      // Message assembly
	"net/smtp" // SMTP delivery
	"strings"  // Header building

	"github.com/sirupsen/logrus" // Logrus for delivery logging
)

// Message is one outgoing HTML email
type Message struct {
	To      string
	Subject string
	HTML    string
}

// Mailer delivers messages
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// SMTPMailer delivers through an authenticated SMTP relay using STARTTLS
type SMTPMailer struct {
	addr string
	from string
	auth smtp.Auth
	send func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

// NewSMTPMailer authenticates as user, who is also the sender
func NewSMTPMailer(host, port, user, pass string) *SMTPMailer {
	return &SMTPMailer{
		addr: host + ":" + port,
		from: user,
		auth: smtp.PlainAuth("", user, pass, host),
		send: smtp.SendMail,
	}
}

// Send delivers msg, returning ctx.Err() once ctx is done even if the relay is still talking
func (m *SMTPMailer) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", m.from)
	fmt.Fprintf(&b, "To: %s\r\n", msg.To)
	fmt.Fprintf(&b, "Subject: %s\r\n", msg.Subject)
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n\r\n")
	b.WriteString(msg.HTML)
	done := make(chan error, 1)
	go func() {
		done <- m.send(m.addr, m.auth, m.from, []string{msg.To}, []byte(b.String()))
	}()
	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// LogMailer only logs messages; used when no SMTP host is configured
type LogMailer struct{}

func (LogMailer) Send(_ context.Context, msg Message) error {
	logrus.WithFields(logrus.Fields{
		"to":      msg.To,
		"subject": msg.Subject,
	}).Info("Mail delivery disabled, message dropped")
	return nil
}
