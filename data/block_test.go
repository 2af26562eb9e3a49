package data

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func testAccountKey(b byte) AccountKey {
	var k AccountKey
	k[0] = b
	return k
}

func TestBlockRoundTripsThroughEncoding(t *testing.T) {
	txs := EmptyVector.Conj(EmbedRef(CString("tx1"))).Conj(EmbedRef(CString("tx2")))
	b := NewBlock(1234, testAccountKey(7), txs)

	decoded, err := Decode(Encode(b))
	require.NoError(t, err)

	got := decoded.(*Block)
	require.Equal(t, int64(1234), got.Timestamp())
	require.Equal(t, testAccountKey(7), got.PeerKey())
	require.Equal(t, int64(2), got.Transactions().Count())
}

func TestBlockUpdateRefsRewritesTransactions(t *testing.T) {
	b := NewBlock(1, testAccountKey(1), EmptyVector.Conj(EmbedRef(Long(1))))

	var seen []Ref
	updated := b.UpdateRefs(func(r Ref) Ref {
		seen = append(seen, r)
		return r
	}).(*Block)

	require.Len(t, seen, 1)
	require.Equal(t, b.Timestamp(), updated.Timestamp())
	require.Equal(t, b.PeerKey(), updated.PeerKey())
}

func TestDecodeBlockRejectsNonVectorTransactions(t *testing.T) {
	w := NewWriter()
	w.WriteSVLQ(1)
	var key AccountKey
	w.WriteRaw(key[:])
	w.WriteRef(EmbedRef(Long(5)))
	body := w.Bytes()

	frame := append([]byte{TagRecord, RecordBlock}, body...)
	_, err := Decode(frame)
	require.Error(t, err)
}
