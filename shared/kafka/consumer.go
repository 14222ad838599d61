// shared/kafka/consumer.go
package kafka

import (
	"context"
	"log/slog"

	"github.com/IBM/sarama"
	"github.com/cockroachdb/errors"
)

// Handler processes one delivered message. A nil return acknowledges the
// message; any error leaves it unacknowledged so the broker redelivers it
// (at-least-once: handlers must be idempotent or externally serialized).
type Handler func(ctx context.Context, payload []byte) error

// Consumer drains a single topic through a consumer group, one in-flight
// message at a time per instance. Multiple service instances share the group
// and split partitions between them.
type Consumer struct {
	group   sarama.ConsumerGroup
	topic   string
	handler Handler
	log     *slog.Logger
}

func NewConsumer(brokers []string, groupID, topic string, handler Handler, log *slog.Logger) (*Consumer, error) {
	config := sarama.NewConfig()
	config.Consumer.Offsets.Initial = sarama.OffsetOldest

	group, err := sarama.NewConsumerGroup(brokers, groupID, config)
	if err != nil {
		return nil, errors.Wrap(err, "start kafka consumer group")
	}
	return &Consumer{group: group, topic: topic, handler: handler, log: log}, nil
}

// Run consumes until ctx is canceled. Session errors (rebalances, handler
// failures) restart the session and redeliver unacknowledged messages;
// anything else is a broken broker connection and is returned to the caller
// as fatal.
func (c *Consumer) Run(ctx context.Context) error {
	h := &groupHandler{handler: c.handler, log: c.log}
	for {
		err := c.group.Consume(ctx, []string{c.topic}, h)
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if errors.Is(err, sarama.ErrClosedConsumerGroup) {
			return nil
		}
		if err != nil {
			return errors.Wrap(err, "consume")
		}
		// nil error means the session ended (rebalance or handler abort);
		// loop to rejoin the group.
	}
}

func (c *Consumer) Close() error {
	return c.group.Close()
}

type groupHandler struct {
	handler Handler
	log     *slog.Logger
}

func (h *groupHandler) Setup(sarama.ConsumerGroupSession) error   { return nil }
func (h *groupHandler) Cleanup(sarama.ConsumerGroupSession) error { return nil }

// ConsumeClaim acknowledges each message only after the handler succeeds.
// On failure the session is aborted with the offset unmarked, so the message
// comes back on the next session.
func (h *groupHandler) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	for message := range claim.Messages() {
		if err := h.handler(session.Context(), message.Value); err != nil {
			h.log.Warn("message processing failed, leaving unacknowledged for redelivery",
				"topic", message.Topic,
				"partition", message.Partition,
				"offset", message.Offset,
				"error", err,
			)
			return err
		}
		session.MarkMessage(message, "")
	}
	return nil
}
