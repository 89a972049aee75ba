package signup_test

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/a-h/templ"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/signup/pkg/email"
	"github.com/dmitrymomot/signup/svc/signup"
)

type captureSender struct {
	sent []email.SendEmailParams
}

func (s *captureSender) SendEmail(_ context.Context, params email.SendEmailParams) error {
	s.sent = append(s.sent, params)
	return nil
}

func TestEmailNotifier(t *testing.T) {
	t.Parallel()

	sender := &captureSender{}
	n := signup.NewEmailNotifier(sender, "support@example.com")

	err := n.ContentProvisioningFailed(context.Background(), signup.Incident{
		Email:          "ann@example.com",
		Name:           "Ann <Lee>",
		Plan:           "yearly",
		CustomerID:     "cus_1",
		SubscriptionID: "sub_1",
		Cause:          "content provider unavailable",
		OccurredAt:     time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	require.Len(t, sender.sent, 1)

	msg := sender.sent[0]
	assert.Equal(t, "support@example.com", msg.SendTo)
	assert.Equal(t, "signup-incident", msg.Tag)
	assert.Contains(t, msg.Subject, "a**@example.com")
	assert.Contains(t, msg.BodyHTML, "ann@example.com")
	assert.Contains(t, msg.BodyHTML, "cus_1")
	assert.Contains(t, msg.BodyHTML, "sub_1")
	assert.Contains(t, msg.BodyHTML, "2024-03-01 12:00:00 UTC")
	assert.Contains(t, msg.BodyHTML, "Ann &lt;Lee&gt;")
}

func TestEmailNotifier_CustomTemplate(t *testing.T) {
	t.Parallel()

	t.Run("custom body", func(t *testing.T) {
		sender := &captureSender{}
		n := signup.NewEmailNotifier(sender, "support@example.com",
			signup.WithIncidentTemplate(func(i signup.Incident) templ.Component {
				return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
					_, err := io.WriteString(w, "custom:"+templ.EscapeString(i.CustomerID))
					return err
				})
			}))

		require.NoError(t, n.ContentProvisioningFailed(context.Background(), signup.Incident{Email: "ann@example.com", CustomerID: "cus_1"}))
		require.Len(t, sender.sent, 1)
		assert.Equal(t, "custom:cus_1", sender.sent[0].BodyHTML)
	})

	t.Run("render failure is not sent", func(t *testing.T) {
		sender := &captureSender{}
		want := errors.New("render failed")
		n := signup.NewEmailNotifier(sender, "support@example.com",
			signup.WithIncidentTemplate(func(signup.Incident) templ.Component {
				return templ.ComponentFunc(func(context.Context, io.Writer) error { return want })
			}))

		err := n.ContentProvisioningFailed(context.Background(), signup.Incident{Email: "ann@example.com"})
		assert.ErrorIs(t, err, want)
		assert.Empty(t, sender.sent)
	})
}
