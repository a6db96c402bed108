package bootstrap

import (
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sqs"

	appconfig "github.com/silentequity/lead-intake/internal/config"
	"github.com/silentequity/lead-intake/internal/events"
	"github.com/silentequity/lead-intake/internal/leads"
	"github.com/silentequity/lead-intake/internal/notify"
	"github.com/silentequity/lead-intake/pkg/logging"
)

// BuildEmailSender selects the notification transport from EMAIL_PROVIDER.
// "auto" prefers SendGrid, then SES when AWS is configured. The returned reason
// explains a nil sender.
func BuildEmailSender(cfg *appconfig.Config, awsCfg *aws.Config, logger *logging.Logger) (notify.EmailSender, string, string) {
	if cfg == nil {
		return nil, "", "missing config"
	}
	if logger == nil {
		logger = logging.Default()
	}

	sendgridSender := func() notify.EmailSender {
		s := notify.NewSendGridSender(notify.SendGridConfig{
			APIKey:    cfg.SendGridAPIKey,
			FromEmail: cfg.NotifyFromEmail,
			FromName:  cfg.NotifyFromName,
		}, logger)
		if s == nil {
			return nil
		}
		return s
	}
	sesSender := func() notify.EmailSender {
		if awsCfg == nil || cfg.NotifyFromEmail == "" {
			return nil
		}
		s := notify.NewSESSender(sesv2.NewFromConfig(*awsCfg), notify.SESConfig{
			FromEmail: cfg.NotifyFromEmail,
			FromName:  cfg.NotifyFromName,
		}, logger)
		if s == nil {
			return nil
		}
		return s
	}

	switch cfg.EmailProvider {
	case "sendgrid":
		if s := sendgridSender(); s != nil {
			return s, "sendgrid", ""
		}
		return nil, "sendgrid", "SENDGRID_API_KEY not set"
	case "ses":
		if s := sesSender(); s != nil {
			return s, "ses", ""
		}
		return nil, "ses", "AWS or NOTIFY_FROM_EMAIL not configured"
	case "stub", "log":
		return notify.NewStubEmailSender(logger), "stub", ""
	case "none", "off":
		return nil, "none", "email disabled"
	default:
		if s := sendgridSender(); s != nil {
			return s, "sendgrid", ""
		}
		if s := sesSender(); s != nil {
			return s, "ses", ""
		}
		return nil, "auto", "no email provider configured"
	}
}

// BuildNotifiers collects everything that should hear about a saved lead.
func BuildNotifiers(cfg *appconfig.Config, awsCfg *aws.Config, logger *logging.Logger) leads.Notifiers {
	if logger == nil {
		logger = logging.Default()
	}
	var out leads.Notifiers

	sender, provider, reason := BuildEmailSender(cfg, awsCfg, logger)
	if sender == nil {
		logger.Info("lead email notifications disabled", "provider", provider, "reason", reason)
	} else if n := notify.NewLeadNotifier(sender, cfg.NotifyToEmail); n != nil {
		logger.Info("lead email notifications enabled", "provider", provider)
		out = append(out, n)
	} else {
		logger.Info("lead email notifications disabled", "provider", provider, "reason", "NOTIFY_TO_EMAIL not set")
	}

	if awsCfg != nil && cfg.LeadEventsQueueURL != "" {
		if p := events.NewLeadPublisher(sqs.NewFromConfig(*awsCfg), cfg.LeadEventsQueueURL); p != nil {
			logger.Info("lead events enabled", "queue", cfg.LeadEventsQueueURL)
			out = append(out, p)
		}
	}
	return out
}
