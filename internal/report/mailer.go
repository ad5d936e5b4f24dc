package report

import (
	"fmt"
	"os"

	"gopkg.in/gomail.v2"
)

const (
	mailSubject = "Daily Weather Report"
	mailBody    = "Hi,\n\nPlease find attached today's weather report.\n"
)

// Mailer transmits the report file as an attachment through an authenticated
// SMTP relay over implicit TLS.
type Mailer struct {
	host     string
	port     int
	sender   string
	password string
	receiver string
}

func NewMailer(host string, port int, sender, password, receiver string) *Mailer {
	return &Mailer{
		host:     host,
		port:     port,
		sender:   sender,
		password: password,
		receiver: receiver,
	}
}

// Send builds one message with a fixed subject and body and the report file
// attached under its on-disk name, then dials the relay and transmits it.
func (m *Mailer) Send(path string) error {
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("report file not readable: %w", err)
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.sender)
	msg.SetHeader("To", m.receiver)
	msg.SetHeader("Subject", mailSubject)
	msg.SetBody("text/plain", mailBody)
	msg.Attach(path)

	dialer := gomail.NewDialer(m.host, m.port, m.sender, m.password)
	// The relay expects implicit TLS on connect, not STARTTLS.
	dialer.SSL = true

	if err := dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("send report mail: %w", err)
	}
	return nil
}
