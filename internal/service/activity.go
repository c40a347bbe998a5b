package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/guidely/guidely-backend/internal/config"
)

// ActivityEvent is the queue payload consumed by the activity worker.
type ActivityEvent struct {
	ActorID    uuid.UUID `json:"actor_id"`
	Verb       string    `json:"verb"`
	ObjectType string    `json:"object_type"`
	ObjectID   string    `json:"object_id"`
	OccurredAt time.Time `json:"occurred_at"`
}

// ActivityPublisher pushes activity events onto the Redis queue. Publishing
// is fire-and-forget: a queue failure is logged, never surfaced to the caller.
type ActivityPublisher struct {
	rdb *redis.Client
	log zerolog.Logger
}

// NewActivityPublisher creates a new ActivityPublisher.
func NewActivityPublisher(rdb *redis.Client, log zerolog.Logger) *ActivityPublisher {
	return &ActivityPublisher{
		rdb: rdb,
		log: log.With().Str("component", "activity_publisher").Logger(),
	}
}

// Publish enqueues one activity event.
func (p *ActivityPublisher) Publish(ctx context.Context, actorID uuid.UUID, verb, objectType, objectID string) {
	event := ActivityEvent{
		ActorID:    actorID,
		Verb:       verb,
		ObjectType: objectType,
		ObjectID:   objectID,
		OccurredAt: time.Now().UTC(),
	}

	raw, err := json.Marshal(event)
	if err != nil {
		p.log.Error().Err(err).Msg("Marshal activity event failed")
		return
	}

	if err := p.rdb.RPush(ctx, config.WorkerKey.ActivityEventsQueue, raw).Err(); err != nil {
		p.log.Warn().Err(err).Str("verb", verb).Msg("Enqueue activity event failed")
	}
}
