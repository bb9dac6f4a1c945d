package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeWriter struct {
	messages []kafka.Message
	err      error
	closed   bool
}

func (f *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if f.err != nil {
		return f.err
	}
	f.messages = append(f.messages, msgs...)
	return nil
}

func (f *fakeWriter) Close() error {
	f.closed = true
	return nil
}

func TestPublish_PaymentRecorded(t *testing.T) {
	w := &fakeWriter{}
	pub := &Publisher{writer: w}

	event := PaymentRecorded{
		PaymentID:  "pay-1",
		Tenant:     "Jane Doe",
		Amount:     decimal.RequireFromString("5000.50"),
		Method:     "cash",
		PaidOn:     "2026-10-05",
		HasProof:   true,
		OccurredAt: time.Date(2026, 10, 5, 6, 30, 0, 0, time.UTC),
	}
	require.NoError(t, pub.Publish(context.Background(), TopicPaymentRecorded, "pay-1", event))

	require.Len(t, w.messages, 1)
	msg := w.messages[0]
	assert.Equal(t, TopicPaymentRecorded, msg.Topic)
	assert.Equal(t, []byte("pay-1"), msg.Key)
	assert.JSONEq(t, `{
		"payment_id": "pay-1",
		"tenant": "Jane Doe",
		"amount": "5000.5",
		"method": "cash",
		"paid_on": "2026-10-05",
		"has_proof": true,
		"occurred_at": "2026-10-05T06:30:00Z"
	}`, string(msg.Value))

	var decoded PaymentRecorded
	require.NoError(t, json.Unmarshal(msg.Value, &decoded))
	assert.True(t, event.Amount.Equal(decoded.Amount))
}

func TestPublish_EmptyKeyLeavesPartitionToBalancer(t *testing.T) {
	w := &fakeWriter{}
	pub := &Publisher{writer: w}

	require.NoError(t, pub.Publish(context.Background(), "audit", "", map[string]string{"a": "b"}))

	require.Len(t, w.messages, 1)
	assert.Equal(t, "audit", w.messages[0].Topic)
	assert.Nil(t, w.messages[0].Key)
}

func TestPublish_Errors(t *testing.T) {
	cause := errors.New("broker down")
	pub := &Publisher{writer: &fakeWriter{err: cause}}
	assert.ErrorIs(t, pub.Publish(context.Background(), "t", "k", PaymentRecorded{}), cause)

	pub = &Publisher{writer: &fakeWriter{}}
	assert.Error(t, pub.Publish(context.Background(), "t", "k", func() {}))
}

func TestClose(t *testing.T) {
	w := &fakeWriter{}
	require.NoError(t, (&Publisher{writer: w}).Close())
	assert.True(t, w.closed)
}

func TestNewPublisher_DefaultsWriteTimeout(t *testing.T) {
	pub := NewPublisher([]string{"localhost:9092"}, 0)
	kw, ok := pub.writer.(*kafka.Writer)
	require.True(t, ok)
	assert.Equal(t, 5*time.Second, kw.WriteTimeout)
}
