// shared/kafka/producer.go
package kafka

import (
	"encoding/json"

	"github.com/IBM/sarama"
	"github.com/cockroachdb/errors"
)

// Producer publishes JSON messages synchronously. Admission must know the
// broker has the message on stable storage before answering the client, so
// the producer waits for full ISR acknowledgment and surfaces per-message
// errors to the caller instead of batching in the background.
type Producer struct {
	producer sarama.SyncProducer
}

func NewProducer(brokers []string) (*Producer, error) {
	config := sarama.NewConfig()
	config.Producer.RequiredAcks = sarama.WaitForAll
	config.Producer.Compression = sarama.CompressionSnappy
	config.Producer.Retry.Max = 5
	config.Producer.Return.Successes = true // required by SyncProducer

	producer, err := sarama.NewSyncProducer(brokers, config)
	if err != nil {
		return nil, errors.Wrap(err, "start kafka producer")
	}
	return &Producer{producer: producer}, nil
}

func (p *Producer) Publish(topic string, message any) error {
	bytes, err := json.Marshal(message)
	if err != nil {
		return errors.Wrap(err, "marshal message")
	}
	_, _, err = p.producer.SendMessage(&sarama.ProducerMessage{
		Topic: topic,
		Value: sarama.ByteEncoder(bytes),
	})
	if err != nil {
		return errors.Wrap(err, "send message")
	}
	return nil
}

func (p *Producer) Close() error {
	return p.producer.Close()
}
