package worker

import (
	"context"

	"confcentral/internal/announcement/queue"
)

// Triggers feeds queued featured speaker triggers to a handler.
type Triggers struct {
	consumer queue.Consumer
	handle   queue.Handler
}

func NewTriggers(consumer queue.Consumer, handle queue.Handler) *Triggers {
	return &Triggers{consumer: consumer, handle: handle}
}

func (w *Triggers) Run(ctx context.Context) error {
	return w.consumer.Consume(ctx, w.handle)
}
