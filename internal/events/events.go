package events

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"motel/config"
	"motel/infras/kafka"
	"motel/infras/otel"
	"motel/shared/constant"
)

// RoomStatusChanged is the audit event emitted after every committed room
// status transition.
type RoomStatusChanged struct {
	RoomID         string    `json:"room_id"`
	RoomNumber     string    `json:"room_number"`
	PreviousStatus string    `json:"previous_status"`
	NewStatus      string    `json:"new_status"`
	ChangedBy      string    `json:"changed_by"`
	ChangedAt      time.Time `json:"changed_at"`
}

// StockMoved is emitted after every committed stock movement.
type StockMoved struct {
	ProductID     string    `json:"product_id"`
	MovementType  string    `json:"movement_type"`
	Quantity      int       `json:"quantity"`
	PreviousStock int       `json:"previous_stock"`
	NewStock      int       `json:"new_stock"`
	Reason        string    `json:"reason"`
	CreatedBy     string    `json:"created_by"`
	CreatedAt     time.Time `json:"created_at"`
}

// Publisher pushes domain audit events onto the event stream. Publication is
// best effort and never blocks or fails the originating request.
type Publisher interface {
	PublishRoomStatusChanged(ctx context.Context, event RoomStatusChanged)
	PublishStockMoved(ctx context.Context, event StockMoved)
}

type publisherImpl struct {
	cfg    *config.Config
	client kafka.Client
	otel   otel.Otel
}

func New(cfg *config.Config, client kafka.Client, otel otel.Otel) Publisher {
	return &publisherImpl{
		cfg:    cfg,
		client: client,
		otel:   otel,
	}
}

func (p *publisherImpl) PublishRoomStatusChanged(ctx context.Context, event RoomStatusChanged) {
	p.publish(ctx, constant.KafkaTopicRoomStatusChanged, event.RoomID, event)
}

func (p *publisherImpl) PublishStockMoved(ctx context.Context, event StockMoved) {
	p.publish(ctx, constant.KafkaTopicStockMovement, event.ProductID, event)
}

func (p *publisherImpl) publish(ctx context.Context, topic, key string, value any) {
	if !p.cfg.Kafka.Enable {
		return
	}

	go func() {
		c := context.WithoutCancel(ctx)

		c, scope := p.otel.NewScope(c, constant.OtelEventScopeName, constant.OtelEventScopeName+".publish")
		defer scope.End()

		scope.SetAttribute("topic", topic)

		err := p.client.SendMessages(c, topic, kafka.Message{Key: key, Value: value})
		if err != nil {
			scope.TraceError(err)
			log.Error().Err(err).Str("topic", topic).Msg("failed to publish event")
		}
	}()
}
