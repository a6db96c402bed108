package notify

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/sendgrid/rest"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"

	"github.com/silentequity/lead-intake/pkg/logging"
)

const defaultFromName = "Silent Equity"

// ErrRejected is returned when the provider answered but refused the message.
var ErrRejected = errors.New("notify: email rejected by provider")

// EmailSender delivers one message.
type EmailSender interface {
	Send(ctx context.Context, msg EmailMessage) error
}

// EmailMessage is a single staff notification.
type EmailMessage struct {
	To      string
	ToName  string
	ReplyTo string // applicant address, so staff can answer directly
	Subject string
	Body    string // plain text
	HTML    string // optional

	// Tags travel as SendGrid custom args and SES message tags so bounces and
	// opens can be traced back to a lead.
	Tags map[string]string
}

// Identity is the From header used for every outgoing message.
type Identity struct {
	Email string
	Name  string
}

func (i Identity) withDefaults() Identity {
	if i.Name == "" {
		i.Name = defaultFromName
	}
	return i
}

func (i Identity) header() string {
	return fmt.Sprintf("%s <%s>", i.Name, i.Email)
}

func sortedTagKeys(tags map[string]string) []string {
	keys := make([]string, 0, len(tags))
	for k := range tags {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

type sendGridClient interface {
	SendWithContext(ctx context.Context, email *mail.SGMailV3) (*rest.Response, error)
}

// SendGridConfig holds configuration for SendGrid.
type SendGridConfig struct {
	APIKey    string
	FromEmail string
	FromName  string
}

// SendGridSender delivers through the SendGrid v3 API.
type SendGridSender struct {
	client sendGridClient
	from   Identity
	logger *logging.Logger
}

// NewSendGridSender returns nil without an API key.
func NewSendGridSender(cfg SendGridConfig, logger *logging.Logger) *SendGridSender {
	if cfg.APIKey == "" {
		return nil
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &SendGridSender{
		client: sendgrid.NewSendClient(cfg.APIKey),
		from:   Identity{Email: cfg.FromEmail, Name: cfg.FromName}.withDefaults(),
		logger: logger.Component("sendgrid"),
	}
}

func (s *SendGridSender) buildMessage(msg EmailMessage) *mail.SGMailV3 {
	m := mail.NewV3Mail()
	m.SetFrom(mail.NewEmail(s.from.Name, s.from.Email))
	m.Subject = msg.Subject

	p := mail.NewPersonalization()
	p.AddTos(mail.NewEmail(msg.ToName, msg.To))
	m.AddPersonalizations(p)

	html := msg.HTML
	if html == "" {
		html = msg.Body
	}
	m.AddContent(mail.NewContent("text/plain", msg.Body), mail.NewContent("text/html", html))

	if msg.ReplyTo != "" {
		m.SetReplyTo(mail.NewEmail("", msg.ReplyTo))
	}
	for _, k := range sortedTagKeys(msg.Tags) {
		m.SetCustomArg(k, msg.Tags[k])
	}
	return m
}

// Send delivers msg. A 4xx/5xx answer is reported as ErrRejected.
func (s *SendGridSender) Send(ctx context.Context, msg EmailMessage) error {
	resp, err := s.client.SendWithContext(ctx, s.buildMessage(msg))
	if err != nil {
		s.logger.Error("send failed", "error", err, "to", msg.To)
		return fmt.Errorf("notify: sendgrid send failed: %w", err)
	}
	if resp.StatusCode >= 400 {
		s.logger.Error("send rejected", "status", resp.StatusCode, "body", resp.Body, "to", msg.To)
		return fmt.Errorf("%w: sendgrid status %d", ErrRejected, resp.StatusCode)
	}

	s.logger.Info("email sent", "to", msg.To, "subject", msg.Subject, "status", resp.StatusCode)
	return nil
}

// StubEmailSender only logs. Used locally and when EMAIL_PROVIDER=stub.
type StubEmailSender struct {
	logger *logging.Logger
}

func NewStubEmailSender(logger *logging.Logger) *StubEmailSender {
	if logger == nil {
		logger = logging.Default()
	}
	return &StubEmailSender{logger: logger.Component("email-stub")}
}

func (s *StubEmailSender) Send(_ context.Context, msg EmailMessage) error {
	s.logger.Info("would send email", "to", msg.To, "reply_to", msg.ReplyTo, "subject", msg.Subject)
	return nil
}

var (
	_ EmailSender = (*SendGridSender)(nil)
	_ EmailSender = (*StubEmailSender)(nil)
)
