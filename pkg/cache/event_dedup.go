package cache

import (
	"context"
	"fmt"
	"time"
)

// DefaultEventDedupTTL bounds how long a handled event ID is remembered.
const DefaultEventDedupTTL = 24 * time.Hour

// EventDedup remembers handled event IDs per topic and consumer group so a
// redelivered watermill message is skipped.
//
// Key format: "event_seen:{group}:{topic}:{eventID}"
type EventDedup struct {
	client *RedisClient
	group  string
	ttl    time.Duration
}

// NewEventDedup returns an EventDedup for the given consumer group.
// Non-positive TTLs fall back to DefaultEventDedupTTL.
func NewEventDedup(r *RedisClient, group string, ttl time.Duration) *EventDedup {
	if ttl <= 0 {
		ttl = DefaultEventDedupTTL
	}
	return &EventDedup{client: r, group: group, ttl: ttl}
}

// Claim marks eventID as handled and reports whether this call was first.
func (d *EventDedup) Claim(ctx context.Context, topic, eventID string) (bool, error) {
	ok, err := d.client.Client().SetNX(ctx, d.key(topic, eventID), time.Now().Unix(), d.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("cache claim event: %w", err)
	}
	return ok, nil
}

// Release forgets eventID so its next delivery is handled.
func (d *EventDedup) Release(ctx context.Context, topic, eventID string) error {
	if err := d.client.Client().Del(ctx, d.key(topic, eventID)).Err(); err != nil {
		return fmt.Errorf("cache release event: %w", err)
	}
	return nil
}

func (d *EventDedup) key(topic, eventID string) string {
	return fmt.Sprintf("event_seen:%s:%s:%s", d.group, topic, eventID)
}
