package mailer

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigValidate(t *testing.T) {
	assert.Error(t, Config{}.Validate())
	assert.Error(t, Config{Host: "smtp.local", Port: 25}.Validate())
	assert.NoError(t, Config{Host: "smtp.local", Port: 25, From: "noreply@example.com"}.Validate())
}

func TestConfigEnabled(t *testing.T) {
	assert.False(t, Config{}.Enabled())
	assert.True(t, Config{Host: "smtp.local"}.Enabled())
}

func TestSendRequiresRecipients(t *testing.T) {
	m, err := NewMailer(Config{Host: "smtp.local", Port: 25, From: "noreply@example.com"})
	require.NoError(t, err)

	assert.ErrorIs(t, m.Send(Email{Subject: "hi"}), ErrNoRecipients)
}

func TestNewMessageHeaders(t *testing.T) {
	m, err := NewMailer(Config{Host: "smtp.local", Port: 25, From: "noreply@example.com"})
	require.NoError(t, err)

	msg := m.newMessage(Email{
		To:       []string{"a@example.com"},
		Subject:  "Welcome",
		Body:     "plain",
		HTMLBody: "<p>html</p>",
	})

	assert.Equal(t, []string{"noreply@example.com"}, msg.GetHeader("From"))
	assert.Equal(t, []string{"a@example.com"}, msg.GetHeader("To"))
	assert.Equal(t, []string{"Welcome"}, msg.GetHeader("Subject"))

	var buf bytes.Buffer
	_, err = msg.WriteTo(&buf)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "text/html")
	assert.Contains(t, buf.String(), "text/plain")
}
