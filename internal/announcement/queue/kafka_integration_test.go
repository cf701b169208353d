//go:build integration

package queue

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"confcentral/internal/announcement/models"
	"confcentral/internal/platform/config"
	"confcentral/internal/platform/logger"
	"confcentral/pkg/domain"
	"confcentral/pkg/testutil/containers"
)

func TestKafkaRoundTrip(t *testing.T) {
	broker := containers.NewRedpanda(t)
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	cfg := config.KafkaConfig{
		Brokers: []string{broker},
		Topic:   "confcentral.featured-speaker.test",
		GroupID: "confcentral-test",
	}
	k, err := NewKafka(ctx, cfg, logger.Discard())
	require.NoError(t, err)
	defer k.Close()
	require.NoError(t, k.Health(ctx))

	again, err := NewKafka(ctx, cfg, logger.Discard())
	require.NoError(t, err, "existing topic must be tolerated")
	again.Close()

	conf := domain.NewConferenceKey("org", "c1")
	for _, speaker := range []string{"Ada", "Grace"} {
		require.NoError(t, k.Publish(ctx, models.FeaturedSpeakerTrigger{Speaker: speaker, ConferenceKey: conf}))
	}

	got := make(chan models.FeaturedSpeakerTrigger, 2)
	consumeCtx, stop := context.WithCancel(ctx)
	done := make(chan error, 1)
	go func() {
		done <- k.Consume(consumeCtx, func(_ context.Context, trigger models.FeaturedSpeakerTrigger) error {
			got <- trigger
			return nil
		})
	}()

	for _, want := range []string{"Ada", "Grace"} {
		select {
		case trigger := <-got:
			assert.Equal(t, want, trigger.Speaker)
			assert.Equal(t, conf, trigger.ConferenceKey)
		case <-ctx.Done():
			t.Fatalf("timed out waiting for %s", want)
		}
	}
	stop()
	assert.ErrorIs(t, <-done, context.Canceled)
}
