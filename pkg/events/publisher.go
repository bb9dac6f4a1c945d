// Package events 发布收款记录事件到 Kafka
package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"
)

// TopicPaymentRecorded 默认主题
const TopicPaymentRecorded = "payment_recorded"

// PaymentRecorded 收款记录写入账本后发布的事件
type PaymentRecorded struct {
	PaymentID  string          `json:"payment_id"`
	Tenant     string          `json:"tenant"`
	Unit       string          `json:"unit,omitempty"`
	Amount     decimal.Decimal `json:"amount"`
	Method     string          `json:"method"`
	PaidOn     string          `json:"paid_on"`
	HasProof   bool            `json:"has_proof"`
	OccurredAt time.Time       `json:"occurred_at"`
}

// messageWriter kafka.Writer 中用到的部分
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Publisher Kafka 事件发布者
type Publisher struct {
	writer messageWriter
}

// NewPublisher 创建发布者，主题由每次 Publish 指定
func NewPublisher(brokers []string, writeTimeout time.Duration) *Publisher {
	if writeTimeout <= 0 {
		writeTimeout = 5 * time.Second
	}
	return &Publisher{
		writer: &kafka.Writer{
			Addr:                   kafka.TCP(brokers...),
			Balancer:               &kafka.LeastBytes{},
			WriteTimeout:           writeTimeout,
			AllowAutoTopicCreation: true,
		},
	}
}

// Publish 发布事件，key 为空时由 Balancer 选择分区
func (p *Publisher) Publish(ctx context.Context, topic string, key string, event any) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}

	msg := kafka.Message{Topic: topic, Value: data}
	if key != "" {
		msg.Key = []byte(key)
	}
	return p.writer.WriteMessages(ctx, msg)
}

// Close 关闭底层连接
func (p *Publisher) Close() error {
	return p.writer.Close()
}
