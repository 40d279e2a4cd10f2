package events

import (
	"context"
	"encoding/json"
	"time"

	"tableorder_backend/pkg/utils"

	amqp "github.com/rabbitmq/amqp091-go"
)

const ordersExchange = "orders_topic"

// AMQPPublisher delivers events to a RabbitMQ topic exchange. Kitchen
// displays bind their own queues (e.g. "order.*") to receive live updates.
type AMQPPublisher struct {
	conn *amqp.Connection
	ch   *amqp.Channel
}

// NewAMQPPublisher dials the broker and declares the orders exchange.
func NewAMQPPublisher(url string) (*AMQPPublisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, err
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, err
	}
	if err := ch.ExchangeDeclare(ordersExchange, "topic", true, false, false, false, nil); err != nil {
		ch.Close()
		conn.Close()
		return nil, err
	}
	return &AMQPPublisher{conn: conn, ch: ch}, nil
}

func (p *AMQPPublisher) PublishOrderEvent(key string, event OrderEvent) {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}
	p.publish(key, event)
}

func (p *AMQPPublisher) PublishCheckoutEvent(event CheckoutEvent) {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}
	p.publish(KeyTableCheckedOut, event)
}

func (p *AMQPPublisher) publish(key string, payload interface{}) {
	body, err := json.Marshal(payload)
	if err != nil {
		utils.LogError(err, "events: failed to marshal payload for "+key)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err = p.ch.PublishWithContext(ctx, ordersExchange, key, false, false, amqp.Publishing{
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		ContentType:  "application/json",
		Body:         body,
	})
	if err != nil {
		// Best-effort delivery: log and move on.
		utils.LogError(err, "events: failed to publish "+key)
	}
}

func (p *AMQPPublisher) Close() {
	if p.ch != nil {
		_ = p.ch.Close()
	}
	if p.conn != nil {
		_ = p.conn.Close()
	}
}
