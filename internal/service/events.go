package service

import (
	"go.uber.org/zap"
)

// EventPublisher fans domain events out to the broker. Services treat it as
// optional: a nil publisher disables events entirely.
type EventPublisher interface {
	Publish(routingKey string, payload any) error
}

// publish sends one event without ever failing the operation that raised it.
func publish(logger *zap.Logger, events EventPublisher, routingKey string, payload any) {
	if events == nil {
		return
	}
	if err := events.Publish(routingKey, payload); err != nil {
		logger.Warn("failed to publish event",
			zap.String("routing_key", routingKey),
			zap.Error(err))
	}
}
