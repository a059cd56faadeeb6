// Package events publishes shortlist lifecycle events to Redis channels.
package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// Channel names
const (
	ShortlistGenerated = "EVENT_SHORTLIST_GENERATED"
	ContractorSelected = "EVENT_CONTRACTOR_SELECTED"
)

// Event is a message published on Type's channel
type Event struct {
	Type    string
	Payload map[string]any
}

// NewShortlistGenerated builds the event emitted after a shortlist is saved
func NewShortlistGenerated(jobID string, count int, source string) Event {
	return Event{Type: ShortlistGenerated, Payload: map[string]any{
		"jobId":  jobID,
		"count":  count,
		"source": source,
	}}
}

// NewContractorSelected builds the event emitted when a landowner picks a contractor
func NewContractorSelected(jobID, contractorID string, wasAISelected bool) Event {
	return Event{Type: ContractorSelected, Payload: map[string]any{
		"jobId":         jobID,
		"contractorId":  contractorID,
		"wasAISelected": wasAISelected,
	}}
}

// Encode renders the message body: the payload plus a "type" field
func (e Event) Encode() ([]byte, error) {
	body := make(map[string]any, len(e.Payload)+1)
	for k, v := range e.Payload {
		body[k] = v
	}
	body["type"] = e.Type
	return json.Marshal(body)
}

// Publisher sends events. Callers treat publish failures as non-fatal.
type Publisher interface {
	Publish(ctx context.Context, e Event) error
	Close() error
}

// RedisPublisher publishes events with PUBLISH on a channel named after the event type
type RedisPublisher struct {
	rdb *redis.Client
}

// NewRedisClient parses redisURL and verifies the connection
func NewRedisClient(ctx context.Context, redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("redis.ParseURL: %w", err)
	}

	rdb := redis.NewClient(opts)
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return rdb, nil
}

// NewRedisPublisher wraps an existing client
func NewRedisPublisher(rdb *redis.Client) *RedisPublisher {
	return &RedisPublisher{rdb: rdb}
}

// Publish encodes e and publishes it on its channel
func (p *RedisPublisher) Publish(ctx context.Context, e Event) error {
	data, err := e.Encode()
	if err != nil {
		return fmt.Errorf("encode %s: %w", e.Type, err)
	}
	if err := p.rdb.Publish(ctx, e.Type, data).Err(); err != nil {
		return fmt.Errorf("publish %s: %w", e.Type, err)
	}
	return nil
}

// Close closes the underlying client
func (p *RedisPublisher) Close() error {
	return p.rdb.Close()
}

// Nop discards every event. Used when no Redis URL is configured.
type Nop struct{}

func (Nop) Publish(ctx context.Context, e Event) error { return nil }
func (Nop) Close() error                               { return nil }
