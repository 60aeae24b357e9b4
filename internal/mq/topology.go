package mq

import (
	"context"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Exchange — тип для имени обменника.
type Exchange string

// Queue — тип для имени очереди.
type Queue string

// RoutingKey — тип для ключа маршрутизации.
type RoutingKey string

// Топология событий Radiola.
const (
	// ExchangeEvents — topic exchange всех событий эфира.
	ExchangeEvents Exchange = "radiola.events"

	// QueueWebhooks — очередь webhook-диспетчера (потребитель вне репозитория).
	QueueWebhooks Queue = "events.webhooks"
)

// Routing keys.
const (
	RoutingKeyRequestSubmitted RoutingKey = "event.request.submitted"
	RoutingKeyNowPlaying       RoutingKey = "event.nowplaying"
)

// SetupTopology объявляет exchange и очереди. Идемпотентно.
func SetupTopology(ctx context.Context, conn *Connection) error {
	return conn.WithChannel(ctx, func(ch *amqp.Channel) error {
		if err := ch.ExchangeDeclare(
			string(ExchangeEvents),
			"topic",
			true,  // durable
			false, // auto-delete
			false, // internal
			false, // no-wait
			nil,
		); err != nil {
			return err
		}

		if _, err := ch.QueueDeclare(
			string(QueueWebhooks),
			true,  // durable
			false, // auto-delete
			false, // exclusive
			false, // no-wait
			nil,
		); err != nil {
			return err
		}

		// Webhook-диспетчер получает все события.
		return ch.QueueBind(
			string(QueueWebhooks),
			"event.#",
			string(ExchangeEvents),
			false,
			nil,
		)
	})
}
