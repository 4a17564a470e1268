package mail

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"
)

// Sender delivers rendered messages over SMTP.
type Sender struct {
	addr string
	from string
}

// NewSender constructs a Sender for the given SMTP endpoint.
func NewSender(host string, port int, from string) *Sender {
	return &Sender{
		addr: fmt.Sprintf("%s:%d", host, port),
		from: from,
	}
}

// Send renders the named template and delivers it to a single recipient.
func (s *Sender) Send(ctx context.Context, to, templateName string, data map[string]string) error {
	subject, html, err := Render(templateName, data)
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	var msg strings.Builder
	msg.WriteString("From: " + s.from + "\r\n")
	msg.WriteString("To: " + to + "\r\n")
	msg.WriteString("Subject: " + subject + "\r\n")
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n")
	msg.WriteString("\r\n")
	msg.WriteString(html)

	if err := smtp.SendMail(s.addr, nil, s.from, []string{to}, []byte(msg.String())); err != nil {
		return fmt.Errorf("mail: send to %s: %w", to, err)
	}
	return nil
}
