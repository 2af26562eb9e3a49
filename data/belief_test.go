package data

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBeliefRoundTripsThroughEncoding(t *testing.T) {
	order := NewOrder(EmptyVector, 0, 0, 1)
	orders := EmptyHashMap.Assoc(testAccountKey(1), EmbedRef(order))
	b := NewBelief(orders, 42)

	decoded, err := Decode(Encode(b))
	require.NoError(t, err)

	got := decoded.(*Belief)
	require.Equal(t, int64(42), got.Timestamp())
	require.Equal(t, int64(1), got.Orders().Count())
}

func TestBeliefWithOrdersReplacesMapOnly(t *testing.T) {
	b := NewBelief(EmptyHashMap, 1)
	replaced := b.WithOrders(EmptyHashMap.Assoc(testAccountKey(2), EmbedRef(Long(1))))
	require.Equal(t, int64(1), replaced.Orders().Count())
	require.Equal(t, b.Timestamp(), replaced.Timestamp())
}

func TestBeliefWithTimestampReplacesTimestampOnly(t *testing.T) {
	b := NewBelief(EmptyHashMap, 1)
	replaced := b.WithTimestamp(2)
	require.Equal(t, int64(2), replaced.Timestamp())
	require.Equal(t, b.Orders(), replaced.Orders())
}

func TestDecodeBeliefRejectsNonMapOrders(t *testing.T) {
	w := NewWriter()
	w.WriteRef(EmbedRef(Long(7)))
	w.WriteSVLQ(0)
	frame := append([]byte{TagRecord, RecordBelief}, w.Bytes()...)

	_, err := Decode(frame)
	require.Error(t, err)
}
