package events

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBus_PublishRates_DeliversInOrder(t *testing.T) {
	b := NewBus()
	var got []string
	b.SubscribeRates(func(e RatesUpdated) { got = append(got, "first:"+e.Base) })
	b.SubscribeRates(func(e RatesUpdated) { got = append(got, "second:"+e.Base) })

	b.PublishRates(RatesUpdated{Base: "USD"})

	require.Equal(t, []string{"first:USD", "second:USD"}, got)
}

func TestBus_PublishRates_NoSubscribers(t *testing.T) {
	require.NotPanics(t, func() { NewBus().PublishRates(RatesUpdated{Base: "EUR", Offline: true}) })
}

func TestBus_HandlerMaySubscribeDuringPublish(t *testing.T) {
	b := NewBus()
	calls := 0
	b.SubscribeRates(func(RatesUpdated) {
		calls++
		b.SubscribeRates(func(RatesUpdated) { calls++ })
	})

	b.PublishRates(RatesUpdated{})
	require.Equal(t, 1, calls)

	b.PublishRates(RatesUpdated{})
	require.Equal(t, 3, calls)
}
