package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

// EventPublisher defines the interface for publishing change events
type EventPublisher interface {
	PublishChange(ctx context.Context, event *ChangeEvent) error
	Close() error
}

// GoChannelBus implements EventPublisher over Watermill's in-process
// GoChannel pub/sub. All publishing and delivery stays inside this process;
// there is no broker and no network.
type GoChannelBus struct {
	pubSub *gochannel.GoChannel
	logger *slog.Logger
}

// NewGoChannelBus creates an in-process event bus
func NewGoChannelBus(logger *slog.Logger) *GoChannelBus {
	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NewSlogLogger(logger))
	return &GoChannelBus{
		pubSub: pubSub,
		logger: logger,
	}
}

// PublishChange publishes a change event to the changes topic
func (b *GoChannelBus) PublishChange(ctx context.Context, event *ChangeEvent) error {
	eventBytes, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal change event: %w", err)
	}

	msg := message.NewMessage(event.ID, eventBytes)
	msg.Metadata.Set("event_type", string(event.Type))
	msg.Metadata.Set("source", event.Source)
	msg.Metadata.Set("version", event.Version)
	msg.Metadata.Set("timestamp", event.Timestamp.Format("2006-01-02T15:04:05Z07:00"))

	if err := b.pubSub.Publish(ChangesTopic, msg); err != nil {
		b.logger.Error("Failed to publish change event",
			"event_id", event.ID,
			"event_type", event.Type,
			"error", err)
		return fmt.Errorf("failed to publish change event: %w", err)
	}

	b.logger.Debug("Published change event",
		"event_id", event.ID,
		"event_type", event.Type,
		"form_id", event.FormID)

	return nil
}

// Subscribe returns a stream of raw change messages from the changes topic.
// Use DecodeChange to recover the event payload.
func (b *GoChannelBus) Subscribe(ctx context.Context) (<-chan *message.Message, error) {
	return b.pubSub.Subscribe(ctx, ChangesTopic)
}

// Close closes the bus and releases resources
func (b *GoChannelBus) Close() error {
	return b.pubSub.Close()
}

// DecodeChange unmarshals a change event from a Watermill message
func DecodeChange(msg *message.Message) (*ChangeEvent, error) {
	var event ChangeEvent
	if err := json.Unmarshal(msg.Payload, &event); err != nil {
		return nil, fmt.Errorf("failed to decode change event: %w", err)
	}
	return &event, nil
}

// MockEventPublisher is a mock implementation for testing
type MockEventPublisher struct {
	Events []ChangeEvent
	Logger *slog.Logger
}

// NewMockEventPublisher creates a new mock event publisher
func NewMockEventPublisher(logger *slog.Logger) *MockEventPublisher {
	return &MockEventPublisher{
		Events: make([]ChangeEvent, 0),
		Logger: logger,
	}
}

// PublishChange stores the event in memory (for testing)
func (m *MockEventPublisher) PublishChange(ctx context.Context, event *ChangeEvent) error {
	m.Events = append(m.Events, *event)
	m.Logger.Debug("Mock: Published change event",
		"event_id", event.ID,
		"event_type", event.Type)
	return nil
}

// Close is a no-op for the mock publisher
func (m *MockEventPublisher) Close() error {
	return nil
}

// GetPublishedEvents returns all published events (for testing)
func (m *MockEventPublisher) GetPublishedEvents() []ChangeEvent {
	return m.Events
}

// ClearEvents clears all published events (for testing)
func (m *MockEventPublisher) ClearEvents() {
	m.Events = make([]ChangeEvent, 0)
}
