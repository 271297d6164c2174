package mailer

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tourhub-io/tourhub-backend/pkg/config"
	pkgerrors "github.com/tourhub-io/tourhub-backend/pkg/errors"
)

func TestNewRequiresHost(t *testing.T) {
	_, err := New(config.MailConfig{})
	require.Error(t, err)

	m, err := New(config.MailConfig{SMTPHost: "smtp.example.com", SMTPPort: 587, From: "noreply@tourhub.io"})
	require.NoError(t, err)
	assert.Equal(t, "noreply@tourhub.io", m.from)
}

func TestSendRequiresRecipients(t *testing.T) {
	m, err := New(config.MailConfig{SMTPHost: "smtp.example.com"})
	require.NoError(t, err)

	err = m.Send(context.Background(), Email{Subject: "no one home"})
	require.Error(t, err)
	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeDelivery, appErr.Code())
}

func TestPasswordResetEmail(t *testing.T) {
	email := PasswordResetEmail("jane@example.com", "https://tourhub.io/api/v1/users/reset-password/abc123", 10*time.Minute)

	require.Equal(t, []string{"jane@example.com"}, email.To)
	assert.Contains(t, email.Subject, "10 min")
	assert.True(t, strings.Contains(email.Body, "reset-password/abc123"))
	assert.Contains(t, email.Body, "ignore this email")
}
