package events

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Event names emitted by the engine.
const (
	BookingCreated        = "booking.created"
	BookingRescheduled    = "booking.rescheduled"
	BookingCancelled      = "booking.cancelled"
	ReviewSubmitted       = "review.submitted"
	ConsistencyPartial    = "consistency.partial_write"
	ConsistencyReconciled = "consistency.drift_corrected"
)

type Producer interface {
	Publish(ctx context.Context, topic string, key string, payload []byte, headers map[string]string) error
}

// Publisher wraps a broker producer with the event envelope. It is nil-safe
// and best-effort: a missing or failing broker never fails the request path.
type Publisher struct {
	Producer    Producer
	TopicPrefix string
	Source      string
	Logger      *slog.Logger
}

// Emit publishes one event keyed by the aggregate identifier.
func (p *Publisher) Emit(ctx context.Context, name, aggregateID string, data map[string]any) {
	if p == nil || p.Producer == nil {
		return
	}
	payload, err := json.Marshal(map[string]any{
		"specversion":     "1.0",
		"id":              uuid.NewString(),
		"type":            name + ".v1",
		"source":          p.source(),
		"time":            time.Now().UTC(),
		"datacontenttype": "application/json",
		"data":            data,
	})
	if err != nil {
		if p.Logger != nil {
			p.Logger.Error("event encode failed", "event", name, "error", err)
		}
		return
	}
	headers := map[string]string{"content-type": "application/cloudevents+json"}
	if err := p.Producer.Publish(ctx, p.topicFor(name), aggregateID, payload, headers); err != nil {
		if p.Logger != nil {
			p.Logger.Warn("event publish failed", "event", name, "aggregate", aggregateID, "error", err)
		}
	}
}

func (p *Publisher) topicFor(name string) string {
	base := name
	if idx := strings.IndexRune(name, '.'); idx > 0 {
		base = name[:idx]
	}
	topic := base + ".events.v1"
	if p.TopicPrefix != "" {
		topic = p.TopicPrefix + topic
	}
	return topic
}

func (p *Publisher) source() string {
	if p.Source != "" {
		return p.Source
	}
	return "app://luxeory"
}
