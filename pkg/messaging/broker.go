package messaging

import (
	"context"
)

// Broker is a Publisher that holds a connection to release on shutdown.
type Broker interface {
	Publisher
	Close() error
}

// Publisher sends message, encoded as JSON, to every subscriber of channel.
type Publisher interface {
	Publish(ctx context.Context, channel string, message interface{}) error
}

// NopBroker accepts and discards every message. It is used when no broker
// is configured.
type NopBroker struct{}

func (NopBroker) Publish(context.Context, string, interface{}) error { return nil }

func (NopBroker) Close() error { return nil }
