package email

import (
	"context"
	"fmt"
	"net/smtp"

	"github.com/rs/xid"
)

// smtpProvider delivers through a plain SMTP relay (mailhog in development).
type smtpProvider struct {
	smtpAddr string
	from     string
}

func NewSMTPProvider(host, port, from string) Provider {
	return &smtpProvider{
		smtpAddr: host + ":" + port,
		from:     from,
	}
}

func (p *smtpProvider) Mocked() bool { return false }

func (p *smtpProvider) Deliver(ctx context.Context, req EmailRequest) (string, error) {
	body := req.HTML
	contentType := "text/html; charset=UTF-8"
	if body == "" {
		body = req.Text
		contentType = "text/plain; charset=UTF-8"
	}

	for _, to := range req.To {
		msg := []byte(fmt.Sprintf(
			"From: %s\r\nTo: %s\r\nSubject: %s\r\nContent-Type: %s\r\n\r\n%s",
			p.from, to, req.Subject, contentType, body))

		if err := smtp.SendMail(p.smtpAddr, nil, p.from, []string{to}, msg); err != nil {
			return "", fmt.Errorf("failed to send email to %s: %w", to, err)
		}
	}

	return "smtp-" + xid.New().String(), nil
}
