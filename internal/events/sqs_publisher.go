package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/aws/aws-sdk-go-v2/service/sqs/types"

	"github.com/silentequity/lead-intake/internal/leads"
)

// SQSAPI is the subset of the SQS client used for publishing.
type SQSAPI interface {
	SendMessage(ctx context.Context, params *sqs.SendMessageInput, optFns ...func(*sqs.Options)) (*sqs.SendMessageOutput, error)
}

// LeadPublisher pushes lead.created envelopes onto an SQS queue.
type LeadPublisher struct {
	client   SQSAPI
	queueURL string
}

// NewLeadPublisher returns nil when no client or queue is configured.
func NewLeadPublisher(client SQSAPI, queueURL string) *LeadPublisher {
	if client == nil || queueURL == "" {
		return nil
	}
	return &LeadPublisher{client: client, queueURL: queueURL}
}

// LeadCreated implements leads.Notifier.
func (p *LeadPublisher) LeadCreated(ctx context.Context, lead *leads.Lead) error {
	if p == nil || lead == nil {
		return nil
	}
	env, err := NewEnvelope("lead:"+lead.ID, "", LeadCreatedV1{
		LeadID:    lead.ID,
		Service:   lead.Service,
		Price:     lead.Price,
		FullName:  lead.FullName,
		Email:     lead.Email,
		CreatedAt: lead.CreatedAt,
	})
	if err != nil {
		return err
	}
	body, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("events: marshal envelope: %w", err)
	}
	_, err = p.client.SendMessage(ctx, &sqs.SendMessageInput{
		QueueUrl:    aws.String(p.queueURL),
		MessageBody: aws.String(string(body)),
		MessageAttributes: map[string]types.MessageAttributeValue{
			"event_type": {
				DataType:    aws.String("String"),
				StringValue: aws.String(env.EventType),
			},
		},
	})
	if err != nil {
		return fmt.Errorf("events: failed to send SQS message: %w", err)
	}
	return nil
}

var _ leads.Notifier = (*LeadPublisher)(nil)
