// Package mailer sends administrator notifications over SMTP. Delivery
// is best-effort: callers dispatch asynchronously and only log failures.
package mailer

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"mime/multipart"
	"net/smtp"
	"net/textproto"
)

// Config holds SMTP configuration.
type Config struct {
	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	FromName     string
	FromEmail    string
}

// Mailer sends mail through a single SMTP account.
type Mailer struct {
	config Config
}

func New(config Config) *Mailer {
	return &Mailer{config: config}
}

// Send delivers a plain-text message, optionally with one attachment.
// Pass a nil attachment to send text only.
func (m *Mailer) Send(to, subject, body, attachmentName string, attachment []byte) error {
	var message []byte
	var err error
	if attachment != nil {
		message, err = m.buildMultipartEmail(to, subject, body, attachmentName, attachment)
		if err != nil {
			return fmt.Errorf("building email: %w", err)
		}
	} else {
		message = m.buildTextEmail(to, subject, body)
	}

	addr := fmt.Sprintf("%s:%d", m.config.SMTPHost, m.config.SMTPPort)
	var auth smtp.Auth
	if m.config.SMTPUsername != "" {
		auth = smtp.PlainAuth("", m.config.SMTPUsername, m.config.SMTPPassword, m.config.SMTPHost)
	}

	if err := smtp.SendMail(addr, auth, m.config.FromEmail, []string{to}, message); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

func (m *Mailer) headers(to, subject string) string {
	return fmt.Sprintf(
		"From: %s <%s>\r\n"+
			"To: %s\r\n"+
			"Subject: %s\r\n"+
			"MIME-Version: 1.0\r\n",
		m.config.FromName,
		m.config.FromEmail,
		to,
		subject,
	)
}

func (m *Mailer) buildTextEmail(to, subject, body string) []byte {
	msg := m.headers(to, subject) +
		"Content-Type: text/plain; charset=\"UTF-8\"\r\n" +
		"\r\n" +
		body
	return []byte(msg)
}

// buildMultipartEmail assembles a multipart/mixed message with a text
// part and a single base64-encoded attachment.
func (m *Mailer) buildMultipartEmail(to, subject, body, attachmentName string, attachment []byte) ([]byte, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	buf.WriteString(m.headers(to, subject))
	buf.WriteString(fmt.Sprintf("Content-Type: multipart/mixed; boundary=%q\r\n\r\n", writer.Boundary()))

	textHeader := textproto.MIMEHeader{}
	textHeader.Set("Content-Type", "text/plain; charset=\"UTF-8\"")
	textPart, err := writer.CreatePart(textHeader)
	if err != nil {
		return nil, err
	}
	if _, err := textPart.Write([]byte(body)); err != nil {
		return nil, err
	}

	fileHeader := textproto.MIMEHeader{}
	fileHeader.Set("Content-Type", "image/png")
	fileHeader.Set("Content-Transfer-Encoding", "base64")
	fileHeader.Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", attachmentName))
	filePart, err := writer.CreatePart(fileHeader)
	if err != nil {
		return nil, err
	}
	encoded := make([]byte, base64.StdEncoding.EncodedLen(len(attachment)))
	base64.StdEncoding.Encode(encoded, attachment)
	if _, err := filePart.Write(encoded); err != nil {
		return nil, err
	}

	if err := writer.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
