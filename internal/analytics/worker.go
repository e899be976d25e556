package analytics

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	gcppubsub "cloud.google.com/go/pubsub/v2"

	"github.com/fabrikline/wholesale-backend/pkg/db/models"
	"github.com/fabrikline/wholesale-backend/pkg/logger"
)

const dedupeTTL = 24 * time.Hour

// dedupeStore marks message IDs as seen so redeliveries are acked without a
// second insert.
type dedupeStore interface {
	SetNX(ctx context.Context, key string, value any, ttl time.Duration) (bool, error)
}

// Worker drains the analytics subscription and persists events published by
// other producers on the bus.
type Worker struct {
	sub    *gcppubsub.Subscriber
	repo   EventRepository
	dedupe dedupeStore
	logg   *logger.Logger
}

func NewWorker(sub *gcppubsub.Subscriber, repo EventRepository, dedupe dedupeStore, logg *logger.Logger) (*Worker, error) {
	if sub == nil {
		return nil, fmt.Errorf("subscription required")
	}
	if repo == nil {
		return nil, fmt.Errorf("event repository required")
	}
	return &Worker{sub: sub, repo: repo, dedupe: dedupe, logg: logg}, nil
}

// Run blocks until ctx is cancelled.
func (w *Worker) Run(ctx context.Context) error {
	return w.sub.Receive(ctx, func(ctx context.Context, msg *gcppubsub.Message) {
		var event models.AnalyticsEvent
		if err := json.Unmarshal(msg.Data, &event); err != nil {
			// malformed payloads will never become valid; drop them
			if w.logg != nil {
				w.logg.Warn(ctx, "dropping undecodable analytics message")
			}
			msg.Ack()
			return
		}

		if w.dedupe != nil {
			fresh, err := w.dedupe.SetNX(ctx, dedupeKey(event), 1, dedupeTTL)
			if err == nil && !fresh {
				msg.Ack()
				return
			}
		}

		if err := w.repo.CreateIfAbsent(ctx, &event); err != nil {
			if w.logg != nil {
				w.logg.Error(ctx, "persisting bus analytics event failed", err)
			}
			msg.Nack()
			return
		}
		msg.Ack()
	})
}

func dedupeKey(event models.AnalyticsEvent) string {
	return "analytics:seen:" + event.ID.String()
}
