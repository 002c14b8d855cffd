package mailer

import (
	"bytes"
	"encoding/base64"
	"io"
	"mime"
	"mime/multipart"
	"net/mail"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testMailer() *Mailer {
	return New(Config{
		SMTPHost:  "smtp.example.org",
		SMTPPort:  465,
		FromName:  "Receipts",
		FromEmail: "noreply@example.org",
	})
}

func TestBuildTextEmail(t *testing.T) {
	m := testMailer()

	raw := m.buildTextEmail("admin@example.org", "New Receipt Submitted", "Receipt ID: 0000000001")

	msg, err := mail.ReadMessage(bytes.NewReader(raw))
	require.NoError(t, err)
	assert.Equal(t, "Receipts <noreply@example.org>", msg.Header.Get("From"))
	assert.Equal(t, "admin@example.org", msg.Header.Get("To"))
	assert.Equal(t, "New Receipt Submitted", msg.Header.Get("Subject"))
	assert.Contains(t, msg.Header.Get("Content-Type"), "text/plain")

	body, err := io.ReadAll(msg.Body)
	require.NoError(t, err)
	assert.Equal(t, "Receipt ID: 0000000001", string(body))
}

func TestBuildMultipartEmail(t *testing.T) {
	m := testMailer()
	attachment := []byte{0x89, 'P', 'N', 'G', 0x0d, 0x0a, 0x1a, 0x0a, 0x00, 0x01}

	raw, err := m.buildMultipartEmail(
		"admin@example.org", "New Receipt Submitted",
		"Receipt ID: 0000000001",
		"receipt_0000000001.png", attachment,
	)
	require.NoError(t, err)

	msg, err := mail.ReadMessage(bytes.NewReader(raw))
	require.NoError(t, err)

	mediaType, params, err := mime.ParseMediaType(msg.Header.Get("Content-Type"))
	require.NoError(t, err)
	assert.Equal(t, "multipart/mixed", mediaType)
	require.NotEmpty(t, params["boundary"])

	reader := multipart.NewReader(msg.Body, params["boundary"])

	textPart, err := reader.NextPart()
	require.NoError(t, err)
	assert.Contains(t, textPart.Header.Get("Content-Type"), "text/plain")
	text, err := io.ReadAll(textPart)
	require.NoError(t, err)
	assert.Equal(t, "Receipt ID: 0000000001", string(text))

	filePart, err := reader.NextPart()
	require.NoError(t, err)
	assert.Equal(t, "image/png", filePart.Header.Get("Content-Type"))
	assert.Equal(t, "base64", filePart.Header.Get("Content-Transfer-Encoding"))
	assert.Contains(t, filePart.Header.Get("Content-Disposition"), `filename="receipt_0000000001.png"`)

	encoded, err := io.ReadAll(filePart)
	require.NoError(t, err)
	decoded, err := base64.StdEncoding.DecodeString(strings.TrimSpace(string(encoded)))
	require.NoError(t, err)
	assert.Equal(t, attachment, decoded)

	// Exactly one attachment.
	_, err = reader.NextPart()
	assert.ErrorIs(t, err, io.EOF)
}
