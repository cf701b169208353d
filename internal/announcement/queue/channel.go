package queue

import (
	"context"
	"log/slog"

	"confcentral/internal/announcement/models"
)

// Channel is the in-process queue used when no Kafka brokers are configured.
// Publish blocks while the buffer is full.
type Channel struct {
	inbox  chan models.FeaturedSpeakerTrigger
	logger *slog.Logger
}

func NewChannel(size int, logger *slog.Logger) *Channel {
	if size <= 0 {
		size = 256
	}
	return &Channel{inbox: make(chan models.FeaturedSpeakerTrigger, size), logger: logger}
}

func (c *Channel) Publish(ctx context.Context, trigger models.FeaturedSpeakerTrigger) error {
	select {
	case c.inbox <- trigger:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Consume returns ctx.Err() once ctx is done. Handler errors are logged and
// the trigger is dropped.
func (c *Channel) Consume(ctx context.Context, handle Handler) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case trigger := <-c.inbox:
			if err := handle(ctx, trigger); err != nil {
				c.logger.ErrorContext(ctx, "featured speaker trigger failed",
					"speaker", trigger.Speaker,
					"conference_key", trigger.ConferenceKey.String(),
					"error", err,
				)
			}
		}
	}
}
