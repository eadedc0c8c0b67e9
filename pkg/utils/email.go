package utils

import (
	"errors"
	"fmt"

	"gopkg.in/gomail.v2"
)

// Mailer sends HTML mail through one SMTP account.
type Mailer struct {
	Host     string
	Port     int
	From     string
	Password string
}

// Enabled reports whether enough settings are present to send mail.
func (m Mailer) Enabled() bool {
	return m.Host != "" && m.From != "" && m.Port > 0
}

func (m Mailer) message(to, subject, body string) *gomail.Message {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.From)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", body)
	return msg
}

func (m Mailer) SendEmail(to, subject, body string) error {
	if !m.Enabled() {
		return errors.New("smtp is not configured")
	}

	d := gomail.NewDialer(m.Host, m.Port, m.From, m.Password)
	if err := d.DialAndSend(m.message(to, subject, body)); err != nil {
		Logger.Errorf("failed to send email to %s", to)
		return fmt.Errorf("failed to send email: %v", err)
	}
	return nil
}
