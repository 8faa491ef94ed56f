package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/pruthviraj-chavan/happytools1/internal/domain"
	"github.com/pruthviraj-chavan/happytools1/internal/logger"
)

// DefaultStream is the stream sync events are appended to.
const DefaultStream = "happytools:sync-events"

// EventType tags an event payload.
type EventType string

// SyncCompleted is emitted once per finished run, successful or not.
const SyncCompleted EventType = "SYNC_COMPLETED"

// Event is the envelope written to the stream.
type Event struct {
	EventID   uuid.UUID       `json:"event_id"`
	EventType EventType       `json:"event_type"`
	Timestamp time.Time       `json:"timestamp"`
	Run       *domain.SyncRun `json:"run"`
}

// Publisher appends sync events to a Redis stream. A nil *Publisher is a no-op.
type Publisher struct {
	client *redis.Client
	stream string
	maxLen int64
	log    logger.Logger
}

// NewPublisher returns nil when client is nil.
func NewPublisher(client *redis.Client, cfg Config, log logger.Logger) *Publisher {
	if client == nil {
		return nil
	}
	stream := cfg.Stream
	if stream == "" {
		stream = DefaultStream
	}
	return &Publisher{client: client, stream: stream, maxLen: cfg.MaxLen, log: log}
}

// PublishRun writes a SYNC_COMPLETED event for run.
func (p *Publisher) PublishRun(ctx context.Context, run *domain.SyncRun) error {
	if p == nil || p.client == nil {
		return nil
	}

	event := Event{
		EventID:   uuid.New(),
		EventType: SyncCompleted,
		Timestamp: time.Now().UTC(),
		Run:       run,
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	args := &redis.XAddArgs{
		Stream: p.stream,
		Values: map[string]any{
			"event_type": string(event.EventType),
			"kind":       string(run.Kind),
			"event":      string(payload),
		},
	}
	if p.maxLen > 0 {
		args.MaxLen = p.maxLen
		args.Approx = true
	}

	result := p.client.XAdd(ctx, args)
	if err := result.Err(); err != nil {
		return fmt.Errorf("publish to stream %s: %w", p.stream, err)
	}

	if p.log != nil {
		p.log.Debug("Published sync event",
			logger.String("kind", string(run.Kind)),
			logger.String("stream_id", result.Val()),
		)
	}
	return nil
}
