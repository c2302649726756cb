// Package nsqfeed publishes change feed messages to NSQ.
package nsqfeed

import (
	"context"
	"fmt"

	"github.com/nsqio/go-nsq"
)

// producer is the subset of *nsq.Producer the publisher needs.
type producer interface {
	Publish(topic string, body []byte) error
	Stop()
}

// Publisher implements ports.ChangePublisher on top of an NSQ producer.
type Publisher struct {
	producer producer
}

// NewPublisher connects to nsqd at address and pings it.
func NewPublisher(address string) (*Publisher, error) {
	p, err := nsq.NewProducer(address, nsq.NewConfig())
	if err != nil {
		return nil, fmt.Errorf("failed to create NSQ producer: %w", err)
	}

	if err = p.Ping(); err != nil {
		p.Stop()
		return nil, fmt.Errorf("failed to ping NSQ daemon: %w", err)
	}

	return &Publisher{producer: p}, nil
}

func newPublisher(p producer) *Publisher {
	return &Publisher{producer: p}
}

// Publish sends body to topic. The producer call is synchronous; ctx is only
// checked before sending.
func (p *Publisher) Publish(ctx context.Context, topic string, body []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := p.producer.Publish(topic, body); err != nil {
		return fmt.Errorf("failed to publish to %s: %w", topic, err)
	}
	return nil
}

func (p *Publisher) Stop() {
	p.producer.Stop()
}
