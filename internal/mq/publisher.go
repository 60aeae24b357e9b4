package mq

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
)

// MessageType — тип сообщения в очереди.
type MessageType string

// Типы сообщений.
const (
	MessageTypeRequestSubmitted MessageType = "request.submitted"
	MessageTypeNowPlaying       MessageType = "nowplaying"
)

// Publisher публикует события Radiola в RabbitMQ.
type Publisher struct {
	conn   *Connection
	logger *slog.Logger
}

// NewPublisher создаёт новый Publisher.
func NewPublisher(conn *Connection, logger *slog.Logger) *Publisher {
	return &Publisher{
		conn:   conn,
		logger: logger,
	}
}

// Message — сообщение для публикации.
type Message struct {
	// ID — уникальный идентификатор сообщения.
	ID string `json:"id"`

	// Type — тип сообщения.
	Type MessageType `json:"type"`

	// Payload — полезная нагрузка.
	Payload any `json:"payload"`

	// Timestamp — время создания.
	Timestamp time.Time `json:"timestamp"`
}

// RequestSubmittedPayload — заявка слушателя передана AutoDJ.
type RequestSubmittedPayload struct {
	StationID uuid.UUID `json:"station_id"`
	RequestID uuid.UUID `json:"request_id"`
	TrackID   uuid.UUID `json:"track_id"`
	Song      string    `json:"song"`
	PlayedAt  time.Time `json:"played_at"`
}

// NowPlayingPayload — станция сменила трек в эфире.
type NowPlayingPayload struct {
	StationID uuid.UUID `json:"station_id"`
	HistoryID uuid.UUID `json:"history_id"`
	TrackID   uuid.UUID `json:"track_id"`
	Song      string    `json:"song"`
	StartedAt time.Time `json:"started_at"`
}

// Publish публикует сообщение в указанный exchange с routing key.
func (p *Publisher) Publish(ctx context.Context, exchange Exchange, routingKey RoutingKey, msg *Message) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}

	return p.conn.WithChannel(ctx, func(ch *amqp.Channel) error {
		err := ch.PublishWithContext(
			ctx,
			string(exchange),
			string(routingKey),
			false,
			false,
			amqp.Publishing{
				ContentType:  "application/json",
				DeliveryMode: amqp.Persistent, // сообщение переживёт рестарт RabbitMQ
				MessageId:    msg.ID,
				Timestamp:    msg.Timestamp,
				Body:         body,
			},
		)
		if err != nil {
			return fmt.Errorf("publish to %s/%s: %w", exchange, routingKey, err)
		}

		p.logger.Debug("published message",
			"exchange", exchange,
			"routing_key", routingKey,
			"message_id", msg.ID,
			"type", msg.Type,
		)

		return nil
	})
}

// PublishRequestSubmitted публикует событие об отправленной заявке.
func (p *Publisher) PublishRequestSubmitted(ctx context.Context, payload RequestSubmittedPayload) error {
	msg := &Message{
		ID:        uuid.New().String(),
		Type:      MessageTypeRequestSubmitted,
		Payload:   payload,
		Timestamp: time.Now(),
	}

	return p.Publish(ctx, ExchangeEvents, RoutingKeyRequestSubmitted, msg)
}

// PublishNowPlaying публикует событие о смене трека в эфире.
func (p *Publisher) PublishNowPlaying(ctx context.Context, payload NowPlayingPayload) error {
	msg := &Message{
		ID:        uuid.New().String(),
		Type:      MessageTypeNowPlaying,
		Payload:   payload,
		Timestamp: time.Now(),
	}

	return p.Publish(ctx, ExchangeEvents, RoutingKeyNowPlaying, msg)
}
