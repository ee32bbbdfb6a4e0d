package kafka

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type flakyHandler struct {
	failures int
	calls    int
	err      error
}

func (h *flakyHandler) Topic() string { return "checks" }

func (h *flakyHandler) Handle(context.Context, []byte) error {
	h.calls++
	if h.calls <= h.failures {
		return h.err
	}
	return nil
}

type panickyHandler struct{ calls int }

func (h *panickyHandler) Topic() string { return "checks" }

func (h *panickyHandler) Handle(context.Context, []byte) error {
	h.calls++
	panic("boom")
}

func newTestConsumer(t *testing.T, retries int) (*Consumer, *prometheus.Registry) {
	t.Helper()
	reg := prometheus.NewRegistry()
	c, err := NewConsumer(
		WithConsumerBrokers([]string{"localhost:9092"}),
		WithConsumerRetry(retries, time.Millisecond, 2*time.Millisecond),
		WithConsumerRegisterer(reg),
	)
	require.NoError(t, err)
	return c, reg
}

func TestConsumerRequiresBrokers(t *testing.T) {
	_, err := NewConsumer(WithConsumerRegisterer(prometheus.NewRegistry()))
	assert.Error(t, err)
}

func TestConsumerRetriesTransientErrors(t *testing.T) {
	c, _ := newTestConsumer(t, 3)
	h := &flakyHandler{failures: 2, err: errors.New("temporary")}

	err := c.handle(context.Background(), h, kafka.Message{Topic: "checks"})
	require.NoError(t, err)
	assert.Equal(t, 3, h.calls)
}

func TestConsumerGivesUpAfterRetryMax(t *testing.T) {
	c, _ := newTestConsumer(t, 2)
	h := &flakyHandler{failures: 10, err: errors.New("down")}

	err := c.handle(context.Background(), h, kafka.Message{Topic: "checks"})
	require.Error(t, err)
	assert.Equal(t, 3, h.calls)
}

func TestConsumerStopsOnPermanentError(t *testing.T) {
	c, _ := newTestConsumer(t, 5)
	bad := errors.New("bad payload")
	h := &flakyHandler{failures: 10, err: Permanent(bad)}

	err := c.handle(context.Background(), h, kafka.Message{Topic: "checks"})
	assert.ErrorIs(t, err, bad)
	assert.Equal(t, 1, h.calls)
}

func TestConsumerRecoversHandlerPanic(t *testing.T) {
	c, _ := newTestConsumer(t, 3)
	h := &panickyHandler{}

	err := c.handle(context.Background(), h, kafka.Message{Topic: "checks"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "panic")
	assert.Equal(t, 1, h.calls)
}

func TestConsumerProcessCountsFailures(t *testing.T) {
	c, reg := newTestConsumer(t, 0)
	h := &flakyHandler{failures: 1, err: errors.New("down")}
	c.RegisterHandler(h)
	c.RegisterHandler(h)

	c.process(context.Background(), kafka.Message{Topic: "checks"})

	assert.Equal(t, 1.0, testutil.ToFloat64(c.metrics.handled.WithLabelValues("checks", "error")))
	n, err := testutil.GatherAndCount(reg, "truthsource_kafka_consumer_handle_seconds")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestConsumerStartWithoutHandlers(t *testing.T) {
	c, _ := newTestConsumer(t, 0)
	assert.Error(t, c.Start())
}

func TestEncode(t *testing.T) {
	b, err := encode(map[string]int{"a": 1})
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":1}`, string(b))

	b, err = encode("raw")
	require.NoError(t, err)
	assert.Equal(t, "raw", string(b))

	_, err = encode(make(chan int))
	assert.Error(t, err)
}

func TestNewProducerRequiresBrokers(t *testing.T) {
	_, err := NewProducer(WithProducerRegisterer(prometheus.NewRegistry()))
	assert.Error(t, err)

	p, err := NewProducer(WithBrokers([]string{"localhost:9092"}), WithProducerRegisterer(prometheus.NewRegistry()))
	require.NoError(t, err)
	assert.Equal(t, kafka.Gzip, p.writer.Compression)
	require.NoError(t, p.Close())
}
