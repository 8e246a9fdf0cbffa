package deliver

import (
	"fmt"
	"net/smtp"
	"strings"

	"github.com/google/uuid"

	"newsbrief/internal/brief"
	"newsbrief/internal/render"
)

// EmailConfig holds the SMTP settings for the email sink. To may list
// several recipients separated by commas.
type EmailConfig struct {
	From     string
	Password string
	To       string
	Host     string
	Port     int
}

// EmailSender delivers rendered briefs over SMTP. Port 587 upgrades the
// connection with STARTTLS inside smtp.SendMail.
type EmailSender struct {
	cfg        EmailConfig
	to         []string
	dateLayout string
}

// NewEmailSender validates cfg and returns a sender. Host and Port fall
// back to the Gmail submission endpoint when unset.
func NewEmailSender(cfg EmailConfig, dateLayout string) (*EmailSender, error) {
	if cfg.From == "" {
		return nil, fmt.Errorf("sender email is required")
	}
	if cfg.Password == "" {
		return nil, fmt.Errorf("sender password is required")
	}
	if strings.TrimSpace(cfg.To) == "" {
		return nil, fmt.Errorf("recipient email is required")
	}
	if cfg.Host == "" {
		cfg.Host = "smtp.gmail.com"
	}
	if cfg.Port == 0 {
		cfg.Port = 587
	}

	var to []string
	for _, addr := range strings.Split(cfg.To, ",") {
		if addr = strings.TrimSpace(addr); addr != "" {
			to = append(to, addr)
		}
	}

	return &EmailSender{cfg: cfg, to: to, dateLayout: dateLayout}, nil
}

// Send renders b into a multipart plain+HTML message and submits it.
func (s *EmailSender) Send(b brief.Brief) error {
	htmlBody, err := render.HTML(b, s.dateLayout)
	if err != nil {
		return &DeliveryError{Sink: "email", Err: err}
	}
	msg := s.buildMessage(b, render.Text(b, s.dateLayout), htmlBody)

	auth := smtp.PlainAuth("", s.cfg.From, s.cfg.Password, s.cfg.Host)
	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)
	if err := smtp.SendMail(addr, auth, s.cfg.From, s.to, msg); err != nil {
		return &DeliveryError{Sink: "email", Err: fmt.Errorf("smtp send failed: %w", err)}
	}
	return nil
}

// buildMessage assembles the RFC 5322 message: headers, then a plain
// part and an HTML part under one multipart/alternative boundary, all
// CRLF-terminated.
func (s *EmailSender) buildMessage(b brief.Brief, textBody, htmlBody string) []byte {
	boundary := "brief-" + uuid.NewString()
	subject := fmt.Sprintf("Daily News Brief - %s", b.GeneratedAt.Format(s.dateLayout))

	var msg strings.Builder
	msg.WriteString(fmt.Sprintf("From: %s\r\n", s.cfg.From))
	msg.WriteString(fmt.Sprintf("To: %s\r\n", strings.Join(s.to, ", ")))
	msg.WriteString(fmt.Sprintf("Subject: %s\r\n", subject))
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString(fmt.Sprintf("Content-Type: multipart/alternative; boundary=%q\r\n", boundary))
	msg.WriteString("\r\n")

	msg.WriteString(fmt.Sprintf("--%s\r\n", boundary))
	msg.WriteString("Content-Type: text/plain; charset=UTF-8\r\n")
	msg.WriteString("\r\n")
	msg.WriteString(crlf(textBody))
	msg.WriteString("\r\n")

	msg.WriteString(fmt.Sprintf("--%s\r\n", boundary))
	msg.WriteString("Content-Type: text/html; charset=UTF-8\r\n")
	msg.WriteString("\r\n")
	msg.WriteString(crlf(htmlBody))
	msg.WriteString("\r\n")

	msg.WriteString(fmt.Sprintf("--%s--\r\n", boundary))
	return []byte(msg.String())
}

// crlf normalizes rendered bodies, which use bare newlines, to CRLF.
func crlf(body string) string {
	return strings.ReplaceAll(body, "\n", "\r\n")
}
