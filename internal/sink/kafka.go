package sink

import (
	"encoding/json"

	"github.com/IBM/sarama"

	"github.com/pdesai/matchcore/internal/types"
)

// KafkaSink publishes trade events as JSON messages, keyed by symbol so
// that executions for one instrument land on the same partition in order.
type KafkaSink struct {
	producer sarama.SyncProducer
	topic    string
}

// NewKafkaSink connects a synchronous producer to the given brokers
func NewKafkaSink(brokers []string, topic string) (*KafkaSink, error) {
	cfg := sarama.NewConfig()
	cfg.Producer.Return.Successes = true
	cfg.Producer.RequiredAcks = sarama.WaitForAll
	cfg.Producer.Retry.Max = 5

	producer, err := sarama.NewSyncProducer(brokers, cfg)
	if err != nil {
		return nil, err
	}

	return &KafkaSink{producer: producer, topic: topic}, nil
}

func (s *KafkaSink) Record(trade *types.Trade) error {
	msg, err := s.message(trade)
	if err != nil {
		return err
	}
	_, _, err = s.producer.SendMessage(msg)
	return err
}

func (s *KafkaSink) RecordBatch(trades []*types.Trade) error {
	if len(trades) == 0 {
		return nil
	}

	msgs := make([]*sarama.ProducerMessage, 0, len(trades))
	for _, trade := range trades {
		msg, err := s.message(trade)
		if err != nil {
			return err
		}
		msgs = append(msgs, msg)
	}
	return s.producer.SendMessages(msgs)
}

func (s *KafkaSink) message(trade *types.Trade) (*sarama.ProducerMessage, error) {
	data, err := json.Marshal(trade)
	if err != nil {
		return nil, err
	}
	return &sarama.ProducerMessage{
		Topic: s.topic,
		Key:   sarama.StringEncoder(trade.Symbol),
		Value: sarama.ByteEncoder(data),
	}, nil
}

func (s *KafkaSink) Close() error {
	return s.producer.Close()
}
