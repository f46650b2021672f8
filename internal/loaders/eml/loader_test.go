package eml

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/retriva-labs/retriva/internal/core/domain"
)

func TestExtensions(t *testing.T) {
	loader := New()
	assert.Equal(t, []string{".eml"}, loader.Extensions())
}

func TestLoad_SimpleEmail(t *testing.T) {
	loader := New()
	ctx := context.Background()

	emlContent := `From: sender@example.com
To: recipient@example.com
Subject: Quarterly Report
Date: Mon, 01 Jan 2024 10:00:00 +0000
Message-ID: <abc123@example.com>
Content-Type: text/plain

This is the body of the email.
It has multiple lines.
`

	result, err := loader.Load(ctx, "/mail/report.eml", []byte(emlContent))
	require.NoError(t, err)
	require.NotNil(t, result)

	assert.Contains(t, result.Text, "This is the body of the email")
	assert.Contains(t, result.Text, "sender@example.com")
	assert.Contains(t, result.Text, "recipient@example.com")
	assert.Contains(t, result.Text, "Quarterly Report")

	require.NotNil(t, result.Email)
	assert.Equal(t, "sender@example.com", result.Email.Sender)
	assert.Equal(t, "recipient@example.com", result.Email.Receiver)
	assert.Equal(t, "Quarterly Report", result.Email.Subject)
	assert.Equal(t, "abc123@example.com", result.Email.MessageID)
	assert.Equal(t, 2024, result.Email.Date.Year())
	assert.Equal(t, time.January, result.Email.Date.Month())
}

func TestLoad_EncodedSubject(t *testing.T) {
	loader := New()
	ctx := context.Background()

	emlContent := `From: sender@example.com
To: recipient@example.com
Subject: =?UTF-8?B?SGVsbG8gV29ybGQ=?=
Content-Type: text/plain

Body.
`

	result, err := loader.Load(ctx, "/mail/encoded.eml", []byte(emlContent))
	require.NoError(t, err)
	assert.Equal(t, "Hello World", result.Email.Subject)
}

func TestLoad_HTMLBody(t *testing.T) {
	loader := New()
	ctx := context.Background()

	emlContent := `From: sender@example.com
To: recipient@example.com
Subject: HTML Email
Content-Type: text/html

<html><body><p>Hello <b>world</b></p></body></html>
`

	result, err := loader.Load(ctx, "/mail/html.eml", []byte(emlContent))
	require.NoError(t, err)
	assert.Contains(t, result.Text, "Hello world")
	assert.NotContains(t, result.Text, "<p>")
}

func TestLoad_MultipartPrefersPlainText(t *testing.T) {
	loader := New()
	ctx := context.Background()

	emlContent := "From: sender@example.com\r\n" +
		"To: recipient@example.com\r\n" +
		"Subject: Multipart\r\n" +
		"Content-Type: multipart/alternative; boundary=\"frontier\"\r\n" +
		"\r\n" +
		"--frontier\r\n" +
		"Content-Type: text/plain\r\n" +
		"\r\n" +
		"Plain text version.\r\n" +
		"--frontier\r\n" +
		"Content-Type: text/html\r\n" +
		"\r\n" +
		"<p>HTML version.</p>\r\n" +
		"--frontier--\r\n"

	result, err := loader.Load(ctx, "/mail/multi.eml", []byte(emlContent))
	require.NoError(t, err)
	assert.Contains(t, result.Text, "Plain text version.")
	assert.NotContains(t, result.Text, "HTML version.")
}

func TestLoad_NotAnEmail(t *testing.T) {
	loader := New()
	ctx := context.Background()

	result, err := loader.Load(ctx, "/mail/bad.eml", nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Nil(t, result)
}

func TestLoad_MissingDate(t *testing.T) {
	loader := New()
	ctx := context.Background()

	emlContent := `From: sender@example.com
Subject: No Date

Body.
`

	result, err := loader.Load(ctx, "/mail/nodate.eml", []byte(emlContent))
	require.NoError(t, err)
	assert.True(t, result.Email.Date.IsZero())
}
