package notify

import (
	"context"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/silentequity/lead-intake/internal/leads"
	"github.com/silentequity/lead-intake/internal/tracks"
)

// LeadNotifier emails the team whenever a lead is saved.
type LeadNotifier struct {
	sender EmailSender
	to     string
}

// NewLeadNotifier returns nil when there is no sender or recipient, so callers
// can skip wiring it.
func NewLeadNotifier(sender EmailSender, to string) *LeadNotifier {
	to = strings.TrimSpace(to)
	if sender == nil || to == "" {
		return nil
	}
	return &LeadNotifier{sender: sender, to: to}
}

// LeadCreated implements leads.Notifier.
func (n *LeadNotifier) LeadCreated(ctx context.Context, lead *leads.Lead) error {
	if n == nil || lead == nil {
		return nil
	}
	if err := n.sender.Send(ctx, BuildLeadEmail(n.to, lead)); err != nil {
		return fmt.Errorf("notify: lead email: %w", err)
	}
	return nil
}

// BuildLeadEmail renders the plain-text staff notification for a lead.
func BuildLeadEmail(to string, lead *leads.Lead) EmailMessage {
	title, track := lead.Service, "other"
	if t, ok := tracks.Lookup(lead.Service); ok {
		title, track = t.Title, t.Tag
	}
	if title == "" {
		title = "Unspecified track"
	}

	name := lead.FullName
	if name == "" {
		name = "(no name)"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "New application received.\n\n")
	fmt.Fprintf(&b, "Track: %s\n", title)
	fmt.Fprintf(&b, "Price: %s\n", lead.Price)
	fmt.Fprintf(&b, "Name: %s\n", lead.FullName)
	fmt.Fprintf(&b, "Email: %s\n", lead.Email)
	fmt.Fprintf(&b, "Lead ID: %s\n", lead.ID)
	fmt.Fprintf(&b, "Submitted: %s\n", lead.CreatedAt.UTC().Format(time.RFC3339))

	msg := EmailMessage{
		To:      to,
		ReplyTo: replyAddress(lead.Email),
		Subject: fmt.Sprintf("New lead: %s (%s)", name, title),
		Body:    b.String(),
		Tags:    map[string]string{"kind": "lead", "track": track},
	}
	if lead.ID != "" {
		msg.Tags["lead_id"] = lead.ID
	}
	return msg
}

// replyAddress returns the applicant's address only when it is a bare,
// well-formed address. Stored emails are unvalidated client input.
func replyAddress(email string) string {
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return ""
	}
	return addr.Address
}

var _ leads.Notifier = (*LeadNotifier)(nil)
