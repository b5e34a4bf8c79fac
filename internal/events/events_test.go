package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordKeyedByAggregate(t *testing.T) {
	e := New(OrderConfirmed, "order-1", map[string]string{"orderNumber": "ORD-1"})
	rec, err := record("marketplace.orders", e)
	require.NoError(t, err)

	assert.Equal(t, "marketplace.orders", rec.Topic)
	assert.Equal(t, []byte("order-1"), rec.Key)
	require.Len(t, rec.Headers, 1)
	assert.Equal(t, "order.confirmed", string(rec.Headers[0].Value))

	var decoded Event
	require.NoError(t, json.Unmarshal(rec.Value, &decoded))
	assert.Equal(t, e.ID, decoded.ID)
	assert.JSONEq(t, `{"orderNumber":"ORD-1"}`, string(decoded.Payload))
}

type failingPublisher struct{}

func (failingPublisher) Publish(context.Context, Event) error { return errors.New("broker down") }

func TestEmitSwallowsErrors(t *testing.T) {
	assert.NotPanics(t, func() {
		Emit(context.Background(), failingPublisher{}, New(OrderPaid, "o", nil))
		Emit(context.Background(), nil, New(OrderPaid, "o", nil))
	})
}
