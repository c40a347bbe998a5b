package worker

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/guidely/guidely-backend/internal/config"
)

const (
	ActivityBatchSize    = 50
	ActivityBatchTimeout = 2 * time.Second
	ActivityPollTimeout  = 1 * time.Second
)

// ActivityWorker drains the activity event queue and persists entries to the
// activity_log table in batches.
type ActivityWorker struct {
	pool *pgxpool.Pool
	rdb  *redis.Client
	log  zerolog.Logger
}

// NewActivityWorker creates a new ActivityWorker.
func NewActivityWorker(pool *pgxpool.Pool, rdb *redis.Client, log zerolog.Logger) *ActivityWorker {
	return &ActivityWorker{
		pool: pool,
		rdb:  rdb,
		log:  log.With().Str("component", "activity_worker").Logger(),
	}
}

type activityPayload struct {
	ActorID    uuid.UUID `json:"actor_id"`
	Verb       string    `json:"verb"`
	ObjectType string    `json:"object_type"`
	ObjectID   string    `json:"object_id"`
	OccurredAt time.Time `json:"occurred_at"`
}

// Start runs the worker loop until the context is cancelled. A batch is
// flushed when it fills up or when the flush timeout elapses; on shutdown the
// remaining batch is flushed with a fresh context.
func (w *ActivityWorker) Start(ctx context.Context) {
	w.log.Info().Msg("ActivityWorker started")

	batch := make([]*activityPayload, 0, ActivityBatchSize)
	lastFlush := time.Now()

	for {
		if len(batch) > 0 &&
			(len(batch) >= ActivityBatchSize || time.Since(lastFlush) >= ActivityBatchTimeout) {

			w.flushSafe(ctx, batch)
			batch = batch[:0]
			lastFlush = time.Now()
		}

		select {
		case <-ctx.Done():
			w.log.Info().Msg("Shutdown requested. Flushing remaining batch...")
			w.flushSafe(context.Background(), batch)
			return

		default:
			item, err := w.rdb.BLPop(ctx, ActivityPollTimeout, config.WorkerKey.ActivityEventsQueue).Result()
			if err != nil {
				if err != redis.Nil && ctx.Err() == nil {
					w.log.Error().Err(err).Msg("BLPop error")
				}
				continue
			}

			if len(item) < 2 {
				continue
			}

			var p activityPayload
			if err := json.Unmarshal([]byte(item[1]), &p); err != nil {
				w.log.Error().Err(err).Msg("Invalid JSON payload")
				continue
			}

			batch = append(batch, &p)
		}
	}
}

// flushSafe writes the batch, falling back to per-event inserts with requeue
// when the bulk insert fails.
func (w *ActivityWorker) flushSafe(ctx context.Context, batch []*activityPayload) {
	if len(batch) == 0 {
		return
	}

	if err := w.bulkInsert(ctx, batch); err != nil {
		w.log.Warn().Err(err).Msg("bulk activity insert failed, using fallback")

		for _, p := range batch {
			if err := w.persistSingle(ctx, p); err != nil {
				w.log.Error().Err(err).Msg("persistSingle failed, requeueing")
				raw, _ := json.Marshal(p)
				w.rdb.RPush(ctx, config.WorkerKey.ActivityEventsQueue, raw)
			}
		}
	}
}

// bulkInsert writes the whole batch in one statement using UNNEST.
func (w *ActivityWorker) bulkInsert(ctx context.Context, batch []*activityPayload) error {
	n := len(batch)

	actors := make([]uuid.UUID, 0, n)
	verbs := make([]string, 0, n)
	objectTypes := make([]string, 0, n)
	objectIDs := make([]string, 0, n)
	occurredAts := make([]time.Time, 0, n)

	for _, p := range batch {
		actors = append(actors, p.ActorID)
		verbs = append(verbs, p.Verb)
		objectTypes = append(objectTypes, p.ObjectType)
		objectIDs = append(objectIDs, p.ObjectID)
		occurredAts = append(occurredAts, p.OccurredAt)
	}

	query := `
		INSERT INTO activity_log (actor_id, verb, object_type, object_id, occurred_at)
		SELECT u.actor_id, u.verb, u.object_type, u.object_id, u.occurred_at
		FROM UNNEST(
			$1::uuid[],
			$2::text[],
			$3::text[],
			$4::text[],
			$5::timestamptz[]
		) AS u (actor_id, verb, object_type, object_id, occurred_at)
	`

	_, err := w.pool.Exec(ctx, query, actors, verbs, objectTypes, objectIDs, occurredAts)
	return err
}

func (w *ActivityWorker) persistSingle(ctx context.Context, p *activityPayload) error {
	_, err := w.pool.Exec(ctx,
		`INSERT INTO activity_log (actor_id, verb, object_type, object_id, occurred_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		p.ActorID, p.Verb, p.ObjectType, p.ObjectID, p.OccurredAt,
	)
	return err
}
