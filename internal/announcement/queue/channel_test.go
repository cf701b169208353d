package queue

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"confcentral/internal/announcement/models"
	"confcentral/internal/platform/logger"
	"confcentral/pkg/domain"
)

func TestChannelDeliversInOrder(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	q := NewChannel(4, logger.Discard())
	conf := domain.NewConferenceKey("org", "c1")

	for _, speaker := range []string{"Ada", "Grace", "Linus"} {
		require.NoError(t, q.Publish(ctx, models.FeaturedSpeakerTrigger{Speaker: speaker, ConferenceKey: conf}))
	}

	got := make(chan string, 3)
	done := make(chan error, 1)
	go func() {
		done <- q.Consume(ctx, func(_ context.Context, tr models.FeaturedSpeakerTrigger) error {
			got <- tr.Speaker
			if tr.Speaker == "Grace" {
				return errors.New("handler failure is logged, not fatal")
			}
			return nil
		})
	}()

	for _, want := range []string{"Ada", "Grace", "Linus"} {
		select {
		case speaker := <-got:
			assert.Equal(t, want, speaker)
		case <-time.After(time.Second):
			t.Fatal("trigger not delivered")
		}
	}
	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)
}

func TestChannelPublishHonoursContext(t *testing.T) {
	q := NewChannel(1, logger.Discard())
	require.NoError(t, q.Publish(context.Background(), models.FeaturedSpeakerTrigger{Speaker: "Ada"}))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	err := q.Publish(ctx, models.FeaturedSpeakerTrigger{Speaker: "Grace"})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
