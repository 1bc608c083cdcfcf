package nats

import (
	"context"
	"encoding/json"

	"github.com/carhub/car-inventory/internal/car/domain"
	"github.com/nats-io/nats.go"
)

const (
	subjectCarCreated = "car.created"
	subjectCarUpdated = "car.updated"
	subjectCarDeleted = "car.deleted"
)

// Publisher emits car lifecycle events as JSON payloads.
type Publisher struct {
	conn *nats.Conn
}

func NewPublisher(url string) (*Publisher, error) {
	conn, err := nats.Connect(url)
	if err != nil {
		return nil, err
	}
	return &Publisher{conn: conn}, nil
}

func (p *Publisher) CarCreated(ctx context.Context, car *domain.Car) error {
	return p.publish(subjectCarCreated, car)
}

func (p *Publisher) CarUpdated(ctx context.Context, car *domain.Car) error {
	return p.publish(subjectCarUpdated, car)
}

func (p *Publisher) CarDeleted(ctx context.Context, id string) error {
	return p.publish(subjectCarDeleted, map[string]string{"id": id})
}

func (p *Publisher) publish(subject string, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	return p.conn.Publish(subject, data)
}

func (p *Publisher) Close() {
	p.conn.Close()
}
