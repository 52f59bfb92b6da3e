package broker

import (
	"context"
)

// Producer hands a JSON-encoded message to a named topic. Implementations
// must be safe for concurrent use; every request shares one producer.
type Producer interface {
	Publish(ctx context.Context, topic, key string, payload interface{}) error
	Close() error
}
