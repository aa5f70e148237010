package nats

import (
	"context"
	"fmt"

	"github.com/abgdnv/catalog/pkg/messaging"
	"github.com/nats-io/nats.go/jetstream"
)

// JetStreamPublisher is the subset of jetstream.JetStream used for publishing.
type JetStreamPublisher interface {
	Publish(ctx context.Context, subject string, payload []byte, opts ...jetstream.PublishOpt) (*jetstream.PubAck, error)
}

type NatsPublisher struct {
	js JetStreamPublisher
}

func NewNatsPublisher(js JetStreamPublisher) *NatsPublisher {
	return &NatsPublisher{js: js}
}

func (p *NatsPublisher) Publish(ctx context.Context, event messaging.Event) error {
	data, err := event.Payload()
	if err != nil {
		return fmt.Errorf("failed to get event payload: %w", err)
	}
	_, err = p.js.Publish(ctx, event.Subject(), data)
	return err
}
