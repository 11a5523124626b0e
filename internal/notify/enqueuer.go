package notify

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// Enqueuer pushes messages onto the Redis delivery queue.
type Enqueuer struct {
	rdb   *redis.Client
	queue string
	log   zerolog.Logger
}

func NewEnqueuer(rdb *redis.Client, queue string, log zerolog.Logger) *Enqueuer {
	return &Enqueuer{rdb: rdb, queue: queue, log: log}
}

// Push queues one message, surfacing any marshal or Redis failure.
// Callers whose contract is "the mail was queued" use this directly.
func (e *Enqueuer) Push(ctx context.Context, m Message) error {
	raw, err := json.Marshal(m)
	if err != nil {
		return err
	}
	return e.rdb.LPush(ctx, e.queue, raw).Err()
}

// Enqueue queues a message best-effort. Failures are logged and
// swallowed; a confirmation or result mail must never fail the exam
// operation that triggered it.
func (e *Enqueuer) Enqueue(ctx context.Context, m Message) {
	if err := e.Push(ctx, m); err != nil {
		e.log.Error().Err(err).Str("to", m.To).Msg("enqueue notification")
	}
}
