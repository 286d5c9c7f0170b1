package pkg

import (
	"context"
	"fmt"

	"github.com/segmentio/kafka-go"
)

// KafkaProducer 通知事件生产者，按接收者 ID 作 key 保证同一用户的事件有序
type KafkaProducer struct {
	writer *kafka.Writer
	topic  string
}

type KafkaConfig struct {
	Brokers []string
	Topic   string
}

func NewKafkaProducer(cfg KafkaConfig) *KafkaProducer {
	w := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        cfg.Topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
		Async:        true, // 通知推送是尽力而为，不阻塞主流程
	}
	return &KafkaProducer{writer: w, topic: cfg.Topic}
}

func (p *KafkaProducer) Close() error {
	if p == nil || p.writer == nil {
		return nil
	}
	return p.writer.Close()
}

func (p *KafkaProducer) Send(ctx context.Context, userID uint64, value []byte) error {
	if p == nil || p.writer == nil {
		return nil
	}
	msg := kafka.Message{
		Key:   []byte(fmt.Sprintf("%d", userID)),
		Value: value,
	}
	return p.writer.WriteMessages(ctx, msg)
}
