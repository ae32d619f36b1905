package app

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/Freeeeeet/course_app/internal/delivery"
	"go.uber.org/zap"
)

const sendTimeout = 15 * time.Second

// Outbox delivers messages in the background. Enqueue never blocks: when the
// buffer is full the message is dropped and logged.
type Outbox struct {
	channels []delivery.Channel
	workers  int
	logger   *zap.Logger

	mu      sync.RWMutex
	jobs    chan *delivery.Message
	stopped bool
	wg      sync.WaitGroup
}

// NewOutbox creates an outbox with the given channels, worker count and buffer size
func NewOutbox(channels []delivery.Channel, workers, buffer int, logger *zap.Logger) *Outbox {
	if workers < 1 {
		workers = 1
	}
	if buffer < 1 {
		buffer = 1
	}
	return &Outbox{
		channels: channels,
		workers:  workers,
		logger:   logger,
		jobs:     make(chan *delivery.Message, buffer),
	}
}

// Start launches the workers
func (o *Outbox) Start(ctx context.Context) {
	o.logger.Info("Starting outbox", zap.Int("workers", o.workers), zap.Int("buffer", cap(o.jobs)))

	for i := 0; i < o.workers; i++ {
		o.wg.Add(1)
		go o.run(ctx)
	}
}

// Stop refuses new messages and waits for the queued ones to be delivered
func (o *Outbox) Stop() {
	o.mu.Lock()
	if o.stopped {
		o.mu.Unlock()
		return
	}
	o.stopped = true
	close(o.jobs)
	o.mu.Unlock()

	o.logger.Info("Stopping outbox, draining queued messages", zap.Int("queued", len(o.jobs)))
	o.wg.Wait()
}

// Enqueue hands messages to the workers without waiting for delivery
func (o *Outbox) Enqueue(messages ...*delivery.Message) {
	o.mu.RLock()
	defer o.mu.RUnlock()

	for _, msg := range messages {
		if o.stopped {
			o.drop(msg, "outbox stopped")
			continue
		}
		select {
		case o.jobs <- msg:
			outboxQueued.Inc()
		default:
			o.drop(msg, "outbox full")
		}
	}
}

func (o *Outbox) drop(msg *delivery.Message, reason string) {
	outboxDroppedTotal.Inc()
	o.logger.Warn("Dropping message",
		zap.String("reason", reason),
		zap.String("to", msg.To.Email),
		zap.String("subject", msg.Subject),
	)
}

func (o *Outbox) run(ctx context.Context) {
	defer o.wg.Done()

	for msg := range o.jobs {
		outboxQueued.Dec()
		o.deliver(ctx, msg)
	}
}

func (o *Outbox) deliver(ctx context.Context, msg *delivery.Message) {
	if err := msg.Render(); err != nil {
		o.logger.Error("Failed to render message",
			zap.String("template", string(msg.Template)),
			zap.String("to", msg.To.Email),
			zap.Error(err),
		)
		for _, ch := range o.channels {
			deliveriesTotal.WithLabelValues(ch.Name(), ResultFailed).Inc()
		}
		return
	}

	for _, ch := range o.channels {
		// Draining after shutdown still gets a bounded attempt.
		sendCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), sendTimeout)
		err := ch.Send(sendCtx, msg)
		cancel()

		switch {
		case err == nil:
			deliveriesTotal.WithLabelValues(ch.Name(), ResultSent).Inc()
			o.logger.Debug("Message delivered",
				zap.String("channel", ch.Name()),
				zap.String("to", msg.To.Email),
				zap.String("subject", msg.Subject),
			)
		case errors.Is(err, delivery.ErrSkipped):
			deliveriesTotal.WithLabelValues(ch.Name(), ResultSkipped).Inc()
		default:
			deliveriesTotal.WithLabelValues(ch.Name(), ResultFailed).Inc()
			o.logger.Error("Failed to deliver message",
				zap.String("channel", ch.Name()),
				zap.String("to", msg.To.Email),
				zap.String("subject", msg.Subject),
				zap.Error(err),
			)
		}
	}
}
