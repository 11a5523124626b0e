package worker

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/examind/proctor-backend/internal/notify"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const (
	popTimeout   = 5 * time.Second
	retryBackoff = time.Second
	drainLimit   = 100
)

// NotificationWorker drains the Redis mail queue and hands each message
// to the notifier. Failed sends go back on the queue.
type NotificationWorker struct {
	rdb      *redis.Client
	queue    string
	notifier notify.Notifier
	log      zerolog.Logger
}

func NewNotificationWorker(rdb *redis.Client, queue string, notifier notify.Notifier, log zerolog.Logger) *NotificationWorker {
	return &NotificationWorker{
		rdb:      rdb,
		queue:    queue,
		notifier: notifier,
		log:      log,
	}
}

// Run blocks until ctx is canceled, then flushes whatever is left on the
// queue before returning.
func (w *NotificationWorker) Run(ctx context.Context) {
	w.log.Info().Str("queue", w.queue).Msg("notification worker started")

	for {
		select {
		case <-ctx.Done():
			w.drain()
			w.log.Info().Msg("notification worker stopped")
			return
		default:
		}

		res, err := w.rdb.BLPop(ctx, popTimeout, w.queue).Result()
		if errors.Is(err, redis.Nil) {
			continue
		}
		if err != nil {
			if ctx.Err() != nil {
				continue
			}
			w.log.Error().Err(err).Msg("pop notification")
			time.Sleep(retryBackoff)
			continue
		}

		w.deliver(ctx, res[1])
	}
}

func (w *NotificationWorker) deliver(ctx context.Context, raw string) {
	var m notify.Message
	if err := json.Unmarshal([]byte(raw), &m); err != nil {
		w.log.Error().Err(err).Msg("decode notification, dropping")
		return
	}

	if err := w.notifier.Send(ctx, m); err != nil {
		w.log.Error().Err(err).Str("to", m.To).Msg("send notification, requeueing")
		if err := w.rdb.LPush(context.WithoutCancel(ctx), w.queue, raw).Err(); err != nil {
			w.log.Error().Err(err).Str("to", m.To).Msg("requeue notification")
		}
		time.Sleep(retryBackoff)
		return
	}

	w.log.Debug().Str("to", m.To).Str("subject", m.Subject).Msg("notification sent")
}

// drain makes one bounded pass over the remaining queue entries during
// shutdown. Anything that still fails stays queued for the next run.
func (w *NotificationWorker) drain() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	for i := 0; i < drainLimit; i++ {
		raw, err := w.rdb.LPop(ctx, w.queue).Result()
		if errors.Is(err, redis.Nil) {
			return
		}
		if err != nil {
			w.log.Error().Err(err).Msg("drain notification queue")
			return
		}

		var m notify.Message
		if err := json.Unmarshal([]byte(raw), &m); err != nil {
			continue
		}
		if err := w.notifier.Send(ctx, m); err != nil {
			_ = w.rdb.LPush(ctx, w.queue, raw).Err()
			return
		}
	}
}
