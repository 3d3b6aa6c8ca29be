package service

import (
	"context"
	"fmt"
	"time"

	"github.com/Skotchmaster/shopfront/internal/logging"
)

const (
	ProductEventsTopic = "product_events"
	UserEventsTopic    = "user_events"

	publishTimeout = 5 * time.Second
)

type Publisher interface {
	PublishEvent(ctx context.Context, topic, key string, event any) error
}

// publish never fails the caller; delivery errors are only logged.
func publish(ctx context.Context, p Publisher, topic string, key uint, event map[string]any) {
	if p == nil {
		return
	}

	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	if err := p.PublishEvent(ctx, topic, fmt.Sprint(key), event); err != nil {
		logging.FromContext(ctx).Error("event_publish_error", "topic", topic, "type", event["type"], "error", err)
	}
}
