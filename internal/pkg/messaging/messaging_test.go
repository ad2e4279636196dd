package messaging

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type settleCounter struct {
	acks, nacks int
}

func (s *settleCounter) delivery() *delivery {
	return &delivery{
		id:      "1",
		topic:   "account.password.remind",
		body:    []byte(`{"email":"a@b.co"}`),
		headers: []Header{{Key: "cID", Value: []byte("abc")}},
		ack: func(context.Context) error {
			s.acks++
			return nil
		},
		nack: func(context.Context) error {
			s.nacks++
			return nil
		},
	}
}

func TestDispatch(t *testing.T) {
	errHandler := errors.New("smtp down")

	tests := []struct {
		name      string
		handler   Handler
		autoAck   bool
		wantAcks  int
		wantNacks int
	}{
		{
			name:     "success acks",
			handler:  func(context.Context, Message) error { return nil },
			autoAck:  true,
			wantAcks: 1,
		},
		{
			name:      "failure nacks",
			handler:   func(context.Context, Message) error { return errHandler },
			autoAck:   true,
			wantNacks: 1,
		},
		{
			name:      "panic nacks",
			handler:   func(context.Context, Message) error { panic("boom") },
			autoAck:   true,
			wantNacks: 1,
		},
		{
			name:    "manual mode leaves message alone",
			handler: func(context.Context, Message) error { return nil },
		},
		{
			name: "handler settles first",
			handler: func(ctx context.Context, m Message) error {
				if err := m.Nack(ctx); err != nil {
					return err
				}
				return m.Ack(ctx)
			},
			autoAck:   true,
			wantNacks: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var sc settleCounter
			err := dispatch(context.Background(), "test", sc.delivery(), tt.handler, tt.autoAck)
			require.NoError(t, err)
			assert.Equal(t, tt.wantAcks, sc.acks)
			assert.Equal(t, tt.wantNacks, sc.nacks)
		})
	}
}

func TestDelivery_Accessors(t *testing.T) {
	var sc settleCounter
	d := sc.delivery()

	assert.Equal(t, "abc", d.Header("CID"))
	assert.Empty(t, d.Header("missing"))
	assert.Equal(t, "1", d.ID())
	assert.Equal(t, "account.password.remind", d.Topic())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, d.Ack(ctx), context.Canceled)
	assert.Zero(t, sc.acks)
}

func TestEnvelope(t *testing.T) {
	raw, err := wrapEnvelope(OutgoingMessage{
		Body:    []byte(`{"email":"a@b.co"}`),
		Headers: []Header{{Key: "cID", Value: []byte("abc")}, {Key: ""}},
	})
	require.NoError(t, err)

	body, headers := unwrapEnvelope(raw)
	assert.JSONEq(t, `{"email":"a@b.co"}`, string(body))
	assert.Equal(t, []Header{{Key: "cID", Value: []byte("abc")}}, headers)

	plain := []byte(`{"email":"a@b.co"}`)
	body, headers = unwrapEnvelope(plain)
	assert.Equal(t, plain, body)
	assert.Nil(t, headers)

	body, _ = unwrapEnvelope([]byte("not json"))
	assert.Equal(t, []byte("not json"), body)
}

func TestConsumeOptions(t *testing.T) {
	co := newConsumeOptions(
		WithConcurrency(4),
		WithAutoAck(true),
		WithMaxInFlight(8),
		WithGroup("g"),
		WithChannel("c"),
		WithQueueGroup("q"),
		WithSubscription("s"),
		nil,
	)

	assert.Equal(t, 4, co.workers())
	assert.True(t, co.autoAck)
	assert.Equal(t, 8, co.maxInFlight)
	assert.Equal(t, "g", co.group)
	assert.Equal(t, "c", co.channel)
	assert.Equal(t, "q", co.queueGroup)
	assert.Equal(t, "s", co.subscription)
	assert.Equal(t, 1, newConsumeOptions().workers())
}

func TestNewFromDriver_Validation(t *testing.T) {
	ctx := context.Background()

	_, err := NewFromDriver(ctx, "rabbitmq", FactoryOptions{})
	assert.ErrorIs(t, err, ErrUnknownDriver)

	_, err = NewFromDriver(ctx, "nats", FactoryOptions{})
	assert.ErrorIs(t, err, ErrNATSURLRequired)

	_, err = NewFromDriver(ctx, " Kafka ", FactoryOptions{})
	assert.ErrorIs(t, err, ErrKafkaBrokersRequired)

	_, err = NewFromDriver(ctx, "google-pubsub", FactoryOptions{})
	assert.ErrorIs(t, err, ErrPubSubProjectIDRequired)
}

func TestNSQ_Validation(t *testing.T) {
	n, err := NewNSQ(NSQConfig{})
	require.NoError(t, err)
	defer n.Close()

	ctx := context.Background()
	noop := func(context.Context, Message) error { return nil }

	_, err = n.Publish(ctx, "topic", OutgoingMessage{})
	assert.ErrorIs(t, err, ErrNSQProducerAddrRequired)

	_, err = n.Publish(ctx, "", OutgoingMessage{})
	assert.ErrorIs(t, err, ErrNSQTopicRequired)

	assert.ErrorIs(t, n.Consume(ctx, "topic", nil), ErrHandlerRequired)
	assert.ErrorIs(t, n.Consume(ctx, "topic", noop), ErrNSQConsumerAddrsRequired)

	withAddr, err := NewNSQ(NSQConfig{ConsumerNSQDAddrs: []string{"127.0.0.1:4150"}})
	require.NoError(t, err)
	assert.ErrorIs(t, withAddr.Consume(ctx, "topic", noop), ErrNSQChannelRequired)
}

func TestKafka_Validation(t *testing.T) {
	k, err := NewKafka(KafkaConfig{Brokers: []string{"127.0.0.1:9092"}})
	require.NoError(t, err)

	ctx := context.Background()
	noop := func(context.Context, Message) error { return nil }

	assert.ErrorIs(t, k.Consume(ctx, "", noop), ErrKafkaTopicRequired)
	assert.ErrorIs(t, k.Consume(ctx, "topic", noop), ErrKafkaGroupRequired)

	require.NoError(t, k.Close())
	_, err = k.Publish(ctx, "topic", OutgoingMessage{})
	assert.Error(t, err)
}
