package email

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderConfirmation(t *testing.T) {
	body, err := renderConfirmation("https://example.com/api/auth/confirmed_email/tok123")
	require.NoError(t, err)
	assert.Contains(t, body, `href="https://example.com/api/auth/confirmed_email/tok123"`)
	assert.Contains(t, body, "Confirm email")
}

func TestRenderConfirmationEscapesURL(t *testing.T) {
	body, err := renderConfirmation(`https://example.com/?a="><script>`)
	require.NoError(t, err)
	assert.NotContains(t, body, "<script>")
}

func TestBuildMessage(t *testing.T) {
	msg := string(buildMessage("noreply@example.com", "john@example.com", "Confirm your email", "<p>hi</p>"))

	assert.True(t, strings.HasPrefix(msg, "From: noreply@example.com\r\n"))
	assert.Contains(t, msg, "To: john@example.com\r\n")
	assert.Contains(t, msg, "Subject: Confirm your email\r\n")
	assert.Contains(t, msg, "Content-Type: text/html; charset=UTF-8\r\n")

	headerEnd := strings.Index(msg, "\r\n\r\n")
	require.NotEqual(t, -1, headerEnd)
	assert.Equal(t, "<p>hi</p>", msg[headerEnd+4:])
}
