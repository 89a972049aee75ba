package signup

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/a-h/templ"

	"github.com/dmitrymomot/signup/pkg/email"
	"github.com/dmitrymomot/signup/pkg/email/templates"
	"github.com/dmitrymomot/signup/pkg/sanitizer"
)

// Incident describes a signup that was charged but not provisioned.
type Incident struct {
	Email          string
	Name           string
	Plan           string
	CustomerID     string
	SubscriptionID string
	Cause          string
	OccurredAt     time.Time
}

// Notifier alerts support about incidents that need manual reconciliation.
type Notifier interface {
	ContentProvisioningFailed(ctx context.Context, incident Incident) error
}

type nopNotifier struct{}

func (nopNotifier) ContentProvisioningFailed(context.Context, Incident) error { return nil }

// IncidentEmail renders the support alert body for incident.
func IncidentEmail(incident Incident) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		rows := [][2]string{
			{"Email", incident.Email},
			{"Name", incident.Name},
			{"Plan", incident.Plan},
			{"Billing customer", incident.CustomerID},
			{"Subscription", incident.SubscriptionID},
			{"When", incident.OccurredAt.Format("2006-01-02 15:04:05 MST")},
			{"Cause", incident.Cause},
		}
		if _, err := io.WriteString(w, "<p>A signup was billed but content access could not be provisioned.</p>\n<table>\n"); err != nil {
			return err
		}
		for _, row := range rows {
			if _, err := fmt.Fprintf(w, "<tr><td>%s</td><td>%s</td></tr>\n", row[0], templ.EscapeString(row[1])); err != nil {
				return err
			}
		}
		_, err := io.WriteString(w, "</table>")
		return err
	})
}

// EmailNotifier mails incidents to the support inbox.
type EmailNotifier struct {
	sender   email.EmailSender
	to       string
	template func(Incident) templ.Component
}

// EmailNotifierOption configures an EmailNotifier.
type EmailNotifierOption func(*EmailNotifier)

// WithIncidentTemplate replaces the default IncidentEmail body.
func WithIncidentTemplate(fn func(Incident) templ.Component) EmailNotifierOption {
	return func(n *EmailNotifier) {
		if fn != nil {
			n.template = fn
		}
	}
}

func NewEmailNotifier(sender email.EmailSender, supportAddress string, opts ...EmailNotifierOption) *EmailNotifier {
	n := &EmailNotifier{sender: sender, to: supportAddress, template: IncidentEmail}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

func (n *EmailNotifier) ContentProvisioningFailed(ctx context.Context, incident Incident) error {
	body, err := templates.Render(ctx, n.template(incident))
	if err != nil {
		return fmt.Errorf("render incident email: %w", err)
	}
	return n.sender.SendEmail(ctx, email.SendEmailParams{
		SendTo:   n.to,
		Subject:  fmt.Sprintf("Signup needs attention: %s", sanitizer.MaskEmail(incident.Email)),
		BodyHTML: body,
		Tag:      "signup-incident",
	})
}
