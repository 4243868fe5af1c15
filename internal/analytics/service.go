package analytics

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	gcppubsub "cloud.google.com/go/pubsub/v2"
	"github.com/google/uuid"

	pkgerrors "github.com/obinnaeze/renthaven-backend/pkg/errors"
	"github.com/obinnaeze/renthaven-backend/pkg/logger"
)

// InteractionEvent is a client interaction forwarded to the analytics topic.
// The service is a pass-through: no aggregation happens here.
type InteractionEvent struct {
	UserID     uuid.UUID         `json:"userId"`
	EventType  string            `json:"eventType" validate:"required"`
	Page       string            `json:"page,omitempty"`
	Metadata   map[string]string `json:"metadata,omitempty"`
	OccurredAt time.Time         `json:"occurredAt"`
}

type publishResult interface {
	Get(ctx context.Context) (string, error)
}

type publisher interface {
	Publish(ctx context.Context, msg *gcppubsub.Message) publishResult
}

// gcpPublisher adapts the Pub/Sub publisher to the narrow seam tests fake.
type gcpPublisher struct {
	*gcppubsub.Publisher
}

func (p *gcpPublisher) Publish(ctx context.Context, msg *gcppubsub.Message) publishResult {
	return p.Publisher.Publish(ctx, msg)
}

// Service publishes interaction events.
type Service interface {
	// Track publishes one event and returns the broker message id.
	Track(ctx context.Context, event InteractionEvent) (string, error)
}

type service struct {
	pub  publisher
	logg *logger.Logger
}

// NewService wires the service to a live Pub/Sub publisher.
func NewService(pub *gcppubsub.Publisher, logg *logger.Logger) (Service, error) {
	if pub == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "analytics: publisher is required")
	}
	return newService(&gcpPublisher{Publisher: pub}, logg)
}

func newService(pub publisher, logg *logger.Logger) (Service, error) {
	if pub == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "analytics: publisher is required")
	}
	if logg == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "analytics: logger is required")
	}
	return &service{pub: pub, logg: logg}, nil
}

func (s *service) Track(ctx context.Context, event InteractionEvent) (string, error) {
	if strings.TrimSpace(event.EventType) == "" {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "eventType is required")
	}
	if event.UserID == uuid.Nil {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "userId is required")
	}
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now().UTC()
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "analytics: encode event")
	}

	result := s.pub.Publish(ctx, &gcppubsub.Message{
		Data: payload,
		Attributes: map[string]string{
			"eventType": event.EventType,
			"userId":    event.UserID.String(),
		},
	})
	messageID, err := result.Get(ctx)
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "analytics: publish event")
	}

	lctx := s.logg.WithFields(ctx, map[string]any{"eventType": event.EventType, "messageId": messageID})
	s.logg.Debug(lctx, "interaction event published")
	return messageID, nil
}
