// Package queue carries featured speaker triggers from session creation to
// the announcement worker. Delivery is at least once; handlers must be
// idempotent.
package queue

import (
	"context"

	"confcentral/internal/announcement/models"
)

// Handler processes one trigger.
type Handler func(ctx context.Context, trigger models.FeaturedSpeakerTrigger) error

// Publisher enqueues triggers.
type Publisher interface {
	Publish(ctx context.Context, trigger models.FeaturedSpeakerTrigger) error
}

// Consumer delivers triggers to handle until ctx is cancelled.
type Consumer interface {
	Consume(ctx context.Context, handle Handler) error
}
