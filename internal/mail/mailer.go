package mail

import (
	"fmt"

	"gopkg.in/gomail.v2"
)

// Message is an outbound email with an optional HTML alternative
type Message struct {
	From    string
	To      string
	Subject string
	Text    string
	HTML    string
}

// Sender delivers outbound mail. The SMTP implementation is the only
// production one; tests substitute a fake.
type Sender interface {
	Send(msg Message) error
}

type smtpSender struct {
	dialer *gomail.Dialer
}

// NewSMTPSender creates a Sender over an SMTP relay
func NewSMTPSender(host string, port int, username, password string) Sender {
	return &smtpSender{dialer: gomail.NewDialer(host, port, username, password)}
}

// Send delivers the message through the configured relay
func (s *smtpSender) Send(msg Message) error {
	m := gomail.NewMessage()
	m.SetHeader("From", msg.From)
	m.SetHeader("To", msg.To)
	m.SetHeader("Subject", msg.Subject)
	m.SetBody("text/plain", msg.Text)
	if msg.HTML != "" {
		m.AddAlternative("text/html", msg.HTML)
	}

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send mail: %w", err)
	}
	return nil
}
