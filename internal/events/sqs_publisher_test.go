package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/google/uuid"

	"github.com/silentequity/lead-intake/internal/leads"
)

type fakeSQS struct {
	inputs []*sqs.SendMessageInput
	err    error
}

func (f *fakeSQS) SendMessage(ctx context.Context, params *sqs.SendMessageInput, optFns ...func(*sqs.Options)) (*sqs.SendMessageOutput, error) {
	f.inputs = append(f.inputs, params)
	if f.err != nil {
		return nil, f.err
	}
	return &sqs.SendMessageOutput{MessageId: aws.String("m-1")}, nil
}

type badEvent struct{}

func (badEvent) EventType() string { return "" }

func TestNewEnvelope(t *testing.T) {
	fixedNow := time.Unix(0, 123456000).UTC()
	prevNow := nowFunc
	nowFunc = func() time.Time { return fixedNow }
	defer func() { nowFunc = prevNow }()

	id := uuid.MustParse("9a20d7d1-bf6a-4d33-bd55-5d25a816f1a8")
	env, err := NewEnvelope("lead:abc", "corr-1", LeadCreatedV1{LeadID: "abc", Service: "edge"}, WithEventID(id))
	if err != nil {
		t.Fatalf("NewEnvelope failed: %v", err)
	}
	if env.EventID != id {
		t.Fatalf("expected event id override, got %s", env.EventID)
	}
	if env.TimestampMicros != fixedNow.UnixMicro() {
		t.Fatalf("unexpected timestamp: %d", env.TimestampMicros)
	}
	if env.EventType != "leads.lead.created.v1" {
		t.Fatalf("unexpected type: %s", env.EventType)
	}
	if env.CorrelationID != "corr-1" {
		t.Fatalf("unexpected correlation id: %s", env.CorrelationID)
	}
}

func TestNewEnvelopeErrors(t *testing.T) {
	if _, err := NewEnvelope(" ", "", LeadCreatedV1{}); !errors.Is(err, errMissingAggregate) {
		t.Fatalf("expected missing aggregate, got %v", err)
	}
	if _, err := NewEnvelope("lead:1", "", nil); !errors.Is(err, errNilEvent) {
		t.Fatalf("expected nil event error, got %v", err)
	}
	if _, err := NewEnvelope("lead:1", "", badEvent{}); err == nil {
		t.Fatal("expected error for empty event type")
	}
}

func TestLeadPublisher_LeadCreated(t *testing.T) {
	fake := &fakeSQS{}
	pub := NewLeadPublisher(fake, "https://sqs.us-east-1.amazonaws.com/123/leads")
	if pub == nil {
		t.Fatal("expected publisher")
	}

	lead := &leads.Lead{ID: "abc", Service: "coc", Price: "$249", FullName: "Ada", Email: "ada@example.com"}
	if err := pub.LeadCreated(context.Background(), lead); err != nil {
		t.Fatalf("LeadCreated failed: %v", err)
	}
	if len(fake.inputs) != 1 {
		t.Fatalf("expected 1 message, got %d", len(fake.inputs))
	}

	in := fake.inputs[0]
	if aws.ToString(in.QueueUrl) != "https://sqs.us-east-1.amazonaws.com/123/leads" {
		t.Fatalf("unexpected queue: %s", aws.ToString(in.QueueUrl))
	}
	if got := aws.ToString(in.MessageAttributes["event_type"].StringValue); got != "leads.lead.created.v1" {
		t.Fatalf("unexpected event_type attribute: %s", got)
	}

	var env Envelope
	if err := json.Unmarshal([]byte(aws.ToString(in.MessageBody)), &env); err != nil {
		t.Fatalf("decode envelope: %v", err)
	}
	if env.Aggregate != "lead:abc" {
		t.Fatalf("unexpected aggregate: %s", env.Aggregate)
	}
	var payload LeadCreatedV1
	if err := json.Unmarshal(env.Payload, &payload); err != nil {
		t.Fatalf("decode payload: %v", err)
	}
	if payload.Price != "$249" || payload.Email != "ada@example.com" {
		t.Fatalf("unexpected payload: %+v", payload)
	}
}

func TestLeadPublisher_SendError(t *testing.T) {
	boom := errors.New("queue gone")
	pub := NewLeadPublisher(&fakeSQS{err: boom}, "q")
	err := pub.LeadCreated(context.Background(), &leads.Lead{ID: "abc"})
	if !errors.Is(err, boom) {
		t.Fatalf("expected wrapped send error, got %v", err)
	}
}

func TestNewLeadPublisher_Unconfigured(t *testing.T) {
	if NewLeadPublisher(nil, "q") != nil {
		t.Fatal("expected nil without client")
	}
	if NewLeadPublisher(&fakeSQS{}, "") != nil {
		t.Fatal("expected nil without queue url")
	}
	var pub *LeadPublisher
	if err := pub.LeadCreated(context.Background(), &leads.Lead{}); err != nil {
		t.Fatalf("nil publisher should be a no-op, got %v", err)
	}
}
