package mailer

import (
	"fmt"

	"gopkg.in/gomail.v2"
)

// Mailer sends transactional mail. Sending is always best-effort: a
// failure is logged by the caller and never aborts the operation that
// triggered it.
type Mailer interface {
	SendWelcomeEmail(toEmail, name string) error
}

// SMTPMailer sends mail through a plain SMTP relay.
type SMTPMailer struct {
	host     string
	port     int
	from     string
	password string
}

func NewSMTPMailer(host string, port int, from, password string) *SMTPMailer {
	return &SMTPMailer{host: host, port: port, from: from, password: password}
}

func (m *SMTPMailer) SendWelcomeEmail(toEmail, name string) error {
	d := gomail.NewDialer(m.host, m.port, m.from, m.password)
	return d.DialAndSend(m.welcomeMessage(toEmail, name))
}

func (m *SMTPMailer) welcomeMessage(toEmail, name string) *gomail.Message {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", toEmail)
	msg.SetHeader("Subject", "Welcome to Car Inventory")
	msg.SetBody("text/plain", fmt.Sprintf("Hi %s,\n\nYour account has been created. You can now add cars to your inventory.", name))
	return msg
}
