package events

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

func TestEncodeShortlistGenerated(t *testing.T) {
	data, err := NewShortlistGenerated("job-1", 3, "fallback").Encode()
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}

	var body map[string]any
	if err := json.Unmarshal(data, &body); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if body["type"] != ShortlistGenerated || body["jobId"] != "job-1" ||
		body["count"] != float64(3) || body["source"] != "fallback" {
		t.Errorf("unexpected body: %v", body)
	}
}

func TestEncodeContractorSelected(t *testing.T) {
	data, err := NewContractorSelected("job-1", "c-9", true).Encode()
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}

	var body map[string]any
	if err := json.Unmarshal(data, &body); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if body["type"] != ContractorSelected || body["contractorId"] != "c-9" || body["wasAISelected"] != true {
		t.Errorf("unexpected body: %v", body)
	}
}

func TestRedisPublisherUnreachable(t *testing.T) {
	rdb := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	p := NewRedisPublisher(rdb)
	defer p.Close()

	if err := p.Publish(context.Background(), NewShortlistGenerated("j", 1, "model")); err == nil {
		t.Error("expected an error publishing to an unreachable server")
	}
}

func TestNewRedisClientBadURL(t *testing.T) {
	if _, err := NewRedisClient(context.Background(), "not a url"); err == nil {
		t.Error("expected an error for a malformed redis URL")
	}
}

func TestNop(t *testing.T) {
	var p Publisher = Nop{}
	if err := p.Publish(context.Background(), Event{Type: "x"}); err != nil {
		t.Errorf("Nop.Publish() error = %v", err)
	}
}
