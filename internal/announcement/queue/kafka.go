package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/twmb/franz-go/pkg/kadm"
	"github.com/twmb/franz-go/pkg/kerr"
	"github.com/twmb/franz-go/pkg/kgo"

	"confcentral/internal/announcement/models"
	"confcentral/internal/platform/config"
)

// Kafka publishes triggers to a topic keyed by conference, so triggers for
// one conference stay ordered, and consumes them with a consumer group.
// Offsets are committed after the handler runs.
type Kafka struct {
	client *kgo.Client
	topic  string
	logger *slog.Logger
}

// NewKafka connects to the brokers and creates the topic if it is missing.
func NewKafka(ctx context.Context, cfg config.KafkaConfig, logger *slog.Logger) (*Kafka, error) {
	client, err := kgo.NewClient(
		kgo.SeedBrokers(cfg.Brokers...),
		kgo.DefaultProduceTopic(cfg.Topic),
		kgo.ConsumerGroup(cfg.GroupID),
		kgo.ConsumeTopics(cfg.Topic),
		kgo.DisableAutoCommit(),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka client: %w", err)
	}
	if err := ensureTopic(ctx, kadm.NewClient(client), cfg.Topic); err != nil {
		client.Close()
		return nil, err
	}
	return &Kafka{client: client, topic: cfg.Topic, logger: logger}, nil
}

func ensureTopic(ctx context.Context, adm *kadm.Client, topic string) error {
	resp, err := adm.CreateTopics(ctx, 1, -1, nil, topic)
	if err != nil {
		return fmt.Errorf("create topic %s: %w", topic, err)
	}
	for _, r := range resp {
		if r.Err != nil && !errors.Is(r.Err, kerr.TopicAlreadyExists) {
			return fmt.Errorf("create topic %s: %w", r.Topic, r.Err)
		}
	}
	return nil
}

func (k *Kafka) Publish(ctx context.Context, trigger models.FeaturedSpeakerTrigger) error {
	value, err := json.Marshal(trigger)
	if err != nil {
		return fmt.Errorf("encode trigger: %w", err)
	}
	record := &kgo.Record{
		Topic: k.topic,
		Key:   []byte(trigger.ConferenceKey.String()),
		Value: value,
	}
	if err := k.client.ProduceSync(ctx, record).FirstErr(); err != nil {
		return fmt.Errorf("produce trigger: %w", err)
	}
	return nil
}

// Consume polls until ctx is done or the client is closed. Undecodable
// records and handler failures are logged and skipped.
func (k *Kafka) Consume(ctx context.Context, handle Handler) error {
	for {
		fetches := k.client.PollFetches(ctx)
		if fetches.IsClientClosed() {
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		fetches.EachError(func(topic string, partition int32, err error) {
			k.logger.WarnContext(ctx, "kafka fetch error",
				"topic", topic,
				"partition", partition,
				"error", err,
			)
		})
		fetches.EachRecord(func(r *kgo.Record) {
			var trigger models.FeaturedSpeakerTrigger
			if err := json.Unmarshal(r.Value, &trigger); err != nil {
				k.logger.ErrorContext(ctx, "dropping undecodable trigger", "offset", r.Offset, "error", err)
				return
			}
			if err := handle(ctx, trigger); err != nil {
				k.logger.ErrorContext(ctx, "featured speaker trigger failed",
					"speaker", trigger.Speaker,
					"conference_key", trigger.ConferenceKey.String(),
					"error", err,
				)
			}
		})
		if err := k.client.CommitUncommittedOffsets(ctx); err != nil && ctx.Err() == nil {
			k.logger.WarnContext(ctx, "kafka offset commit failed", "error", err)
		}
	}
}

// Health pings the brokers.
func (k *Kafka) Health(ctx context.Context) error {
	return k.client.Ping(ctx)
}

func (k *Kafka) Close() {
	k.client.Close()
}
