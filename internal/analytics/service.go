package analytics

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	gcppubsub "cloud.google.com/go/pubsub/v2"
	"github.com/google/uuid"

	"github.com/fabrikline/wholesale-backend/pkg/db/models"
	"github.com/fabrikline/wholesale-backend/pkg/enums"
	pkgerrors "github.com/fabrikline/wholesale-backend/pkg/errors"
	"github.com/fabrikline/wholesale-backend/pkg/logger"
	"github.com/fabrikline/wholesale-backend/pkg/types"
)

// TrackInput is one interaction reported by the storefront.
type TrackInput struct {
	UserID    *uuid.UUID         `json:"-"`
	CompanyID *uuid.UUID         `json:"-"`
	Type      string             `json:"type" validate:"required"`
	Payload   types.EventPayload `json:"payload"`
}

// EventPublisher fans tracked events out to the message bus.
type EventPublisher interface {
	Publish(ctx context.Context, data []byte) error
}

// Service records storefront events.
type Service interface {
	Track(ctx context.Context, input TrackInput) (*models.AnalyticsEvent, error)
}

type service struct {
	repo      EventRepository
	publisher EventPublisher
	logg      *logger.Logger
}

// NewService builds the analytics service. Publisher is optional; events are
// durable in the database either way.
func NewService(repo EventRepository, publisher EventPublisher, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("event repository required")
	}
	return &service{repo: repo, publisher: publisher, logg: logg}, nil
}

// Track validates, persists, and then fans the event out. Publish failures
// are logged and swallowed; the row is already durable.
func (s *service) Track(ctx context.Context, input TrackInput) (*models.AnalyticsEvent, error) {
	eventType, err := enums.ParseAnalyticsEventType(input.Type)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, err.Error())
	}

	event := &models.AnalyticsEvent{
		ID:        uuid.New(),
		UserID:    input.UserID,
		CompanyID: input.CompanyID,
		Type:      eventType,
		Payload:   input.Payload,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.repo.Create(ctx, event); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "persisting event")
	}

	if s.publisher != nil {
		raw, marshalErr := json.Marshal(event)
		if marshalErr == nil {
			if pubErr := s.publisher.Publish(ctx, raw); pubErr != nil && s.logg != nil {
				s.logg.Warn(ctx, "analytics event publish failed")
			}
		}
	}

	return event, nil
}

// NewPubSubPublisher adapts a Pub/Sub publisher handle to the EventPublisher
// port. Publish blocks until the server acks the message.
func NewPubSubPublisher(pub *gcppubsub.Publisher) EventPublisher {
	if pub == nil {
		return nil
	}
	return pubsubPublisher{pub: pub}
}

type pubsubPublisher struct {
	pub *gcppubsub.Publisher
}

func (p pubsubPublisher) Publish(ctx context.Context, data []byte) error {
	result := p.pub.Publish(ctx, &gcppubsub.Message{Data: data})
	_, err := result.Get(ctx)
	return err
}
