package notify

import (
	"context"
	"errors"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Channel — подмножество *amqp.Channel, нужное для публикации.
type Channel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

// AMQPSink публикует события в topic-exchange с ключом notification.<kind>.
type AMQPSink struct {
	conn     *amqp.Connection
	channel  Channel
	exchange string
}

func NewAMQPSink(channel Channel, exchange string) *AMQPSink {
	return &AMQPSink{channel: channel, exchange: exchange}
}

// DialAMQP подключается к брокеру и объявляет exchange.
func DialAMQP(url, exchange string) (*AMQPSink, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("amqp dial: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("amqp channel: %w", err)
	}

	if err := ch.ExchangeDeclare(exchange, amqp.ExchangeTopic, true, false, false, false, nil); err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("amqp declare exchange %s: %w", exchange, err)
	}

	return &AMQPSink{conn: conn, channel: ch, exchange: exchange}, nil
}

func RoutingKey(e Event) string {
	return "notification." + string(e.Kind)
}

func (s *AMQPSink) Emit(ctx context.Context, e Event) error {
	body, err := e.payload()
	if err != nil {
		return fmt.Errorf("amqp: encode event: %w", err)
	}
	msg := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    e.ID.String(),
		Timestamp:    e.CreatedAt,
		Type:         string(e.Kind),
		Body:         body,
	}
	if err := s.channel.PublishWithContext(ctx, s.exchange, RoutingKey(e), false, false, msg); err != nil {
		return fmt.Errorf("amqp: publish %s: %w", RoutingKey(e), err)
	}
	return nil
}

func (s *AMQPSink) Close() error {
	if s == nil {
		return nil
	}
	var errs []error
	if ch, ok := s.channel.(*amqp.Channel); ok && ch != nil {
		errs = append(errs, ch.Close())
	}
	if s.conn != nil {
		errs = append(errs, s.conn.Close())
	}
	return errors.Join(errs...)
}
