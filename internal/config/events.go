package config

import (
	"log/slog"

	"github.com/formlab/formbuilder/internal/events"
)

// EventConfig holds configuration for event publishing
type EventConfig struct {
	Enabled   bool   // EVENTS_ENABLED
	Publisher string // EVENTS_PUBLISHER: gochannel or mock
}

// CreateEventPublisher creates an event publisher based on configuration
func (c *EventConfig) CreateEventPublisher(logger *slog.Logger) (events.EventPublisher, error) {
	if !c.Enabled {
		logger.Info("Event publishing disabled, using mock publisher")
		return events.NewMockEventPublisher(logger), nil
	}

	switch c.Publisher {
	case "gochannel":
		logger.Info("Creating in-process event bus")
		return events.NewGoChannelBus(logger), nil
	case "mock":
		logger.Info("Using mock event publisher")
		return events.NewMockEventPublisher(logger), nil
	default:
		logger.Warn("Unknown event publisher type, falling back to mock", "publisher", c.Publisher)
		return events.NewMockEventPublisher(logger), nil
	}
}
