package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"testing"

	"github.com/Domenick1991/sejour/config"
	"github.com/Domenick1991/sejour/internal/domain"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeWriter struct {
	msgs []kafka.Message
	err  error
}

func (w *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *fakeWriter) Close() error { return nil }

type fakeReader struct {
	msgs []kafka.Message
}

func (r *fakeReader) ReadMessage(context.Context) (kafka.Message, error) {
	if len(r.msgs) == 0 {
		return kafka.Message{}, io.EOF
	}
	msg := r.msgs[0]
	r.msgs = r.msgs[1:]
	return msg, nil
}

func (r *fakeReader) Close() error { return nil }

func TestProducer_PublishEvent(t *testing.T) {
	w := &fakeWriter{}
	p := NewProducer(config.KafkaConfig{Brokers: []string{"localhost:9092"}, EventsTopic: "events", NotificationsTopic: "notifications"})
	p.writer = w

	ev := domain.Event{Type: domain.EventBookingCreated, BookingID: 1, PropertyID: 5}
	require.NoError(t, p.PublishEvent(context.Background(), ev))

	require.Len(t, w.msgs, 2)
	assert.Equal(t, "events", w.msgs[0].Topic)
	assert.Equal(t, "notifications", w.msgs[1].Topic)
	assert.Equal(t, []byte("property-5"), w.msgs[0].Key)

	var decoded domain.Event
	require.NoError(t, json.Unmarshal(w.msgs[0].Value, &decoded))
	assert.Equal(t, ev.BookingID, decoded.BookingID)
}

func TestProducer_PublishEventError(t *testing.T) {
	p := NewProducer(config.KafkaConfig{EventsTopic: "events"})
	p.writer = &fakeWriter{err: errors.New("broker down")}

	err := p.PublishEvent(context.Background(), domain.Event{Type: domain.EventMessageSent, MessageID: 3})
	assert.ErrorContains(t, err, "broker down")
}

func TestConsumer_Consume(t *testing.T) {
	good, err := json.Marshal(domain.Event{Type: domain.EventMessageSent, MessageID: 9})
	require.NoError(t, err)

	c := &Consumer{reader: &fakeReader{msgs: []kafka.Message{
		{Value: []byte("{not json")},
		{Value: good},
	}}}

	var got []domain.Event
	err = c.Consume(context.Background(), func(_ context.Context, ev domain.Event) error {
		got = append(got, ev)
		return nil
	})
	assert.ErrorIs(t, err, io.EOF)
	require.Len(t, got, 1)
	assert.Equal(t, int64(9), got[0].MessageID)
}

func TestConsumer_HandlerErrorStops(t *testing.T) {
	good, _ := json.Marshal(domain.Event{Type: domain.EventBookingDeleted})
	c := &Consumer{reader: &fakeReader{msgs: []kafka.Message{{Value: good}, {Value: good}}}}

	calls := 0
	boom := errors.New("boom")
	err := c.Consume(context.Background(), func(context.Context, domain.Event) error {
		calls++
		return boom
	})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, calls)
}
