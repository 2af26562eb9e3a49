package wireframe

import (
	"bufio"
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mosaicnetworks/cascade/data"
)

func TestFrameRoundTrip(t *testing.T) {
	body := []byte("arbitrary body bytes")
	encoded := Marshal(TagBelief, body)

	f, err := Decode(bufio.NewReader(bytes.NewReader(encoded)))
	require.NoError(t, err)
	require.Equal(t, TagBelief, f.Tag)
	require.Equal(t, body, f.Body)
}

func TestFrameRoundTripEmptyBody(t *testing.T) {
	encoded := Marshal(TagStatusReq, nil)
	f, err := Decode(bufio.NewReader(bytes.NewReader(encoded)))
	require.NoError(t, err)
	require.Equal(t, TagStatusReq, f.Tag)
	require.Empty(t, f.Body)
}

func TestDecodeRejectsZeroLength(t *testing.T) {
	var buf bytes.Buffer
	buf.WriteByte(0)
	_, err := Decode(bufio.NewReader(&buf))
	require.Error(t, err)
}

func TestDecodeRejectsTruncatedBody(t *testing.T) {
	full := Marshal(TagResult, []byte("0123456789"))
	truncated := full[:len(full)-3]
	_, err := Decode(bufio.NewReader(bytes.NewReader(truncated)))
	require.Error(t, err)
}

func TestEncodeDecodeCellFrame(t *testing.T) {
	cell := data.Long(42)
	encoded := EncodeCell(TagResult, cell)

	f, err := Decode(bufio.NewReader(bytes.NewReader(encoded)))
	require.NoError(t, err)
	require.Equal(t, TagResult, f.Tag)

	decoded, err := DecodeCell(f)
	require.NoError(t, err)
	require.Equal(t, cell, decoded)
}

func TestEncodeDecodeQuery(t *testing.T) {
	want := QueryMsg{ID: 7, Hash: []byte{1, 2, 3}, Expr: ""}
	f, err := Decode(bufio.NewReader(bytes.NewReader(EncodeQuery(want))))
	require.NoError(t, err)
	require.Equal(t, TagQuery, f.Tag)

	got, err := DecodeQuery(f)
	require.NoError(t, err)
	require.Equal(t, want, got)
}

func TestEncodeDecodeStatus(t *testing.T) {
	want := StatusMsg{BeliefHash: []byte{9, 9, 9}, ConsensusPoint: 5, Timestamp: 1000}
	f, err := Decode(bufio.NewReader(bytes.NewReader(EncodeStatus(want))))
	require.NoError(t, err)

	got, err := DecodeStatus(f)
	require.NoError(t, err)
	require.Equal(t, want, got)
}

func TestEncodeDecodeChallengeResponse(t *testing.T) {
	ch := ChallengeMsg{Nonce: []byte("random-nonce")}
	f, err := Decode(bufio.NewReader(bytes.NewReader(EncodeChallenge(ch))))
	require.NoError(t, err)
	gotCh, err := DecodeChallenge(f)
	require.NoError(t, err)
	require.Equal(t, ch, gotCh)

	resp := ResponseMsg{Nonce: ch.Nonce, Signature: []byte("sig")}
	f, err = Decode(bufio.NewReader(bytes.NewReader(EncodeResponse(resp))))
	require.NoError(t, err)
	gotResp, err := DecodeResponse(f)
	require.NoError(t, err)
	require.Equal(t, resp, gotResp)
}

// TestEncodingFlood is the literal scenario from spec §8: 10,000 long
// values sent through the wire framing over a single stream must all be
// received, in order, exactly once.
func TestEncodingFlood(t *testing.T) {
	const n = 10000

	r, w := io.Pipe()
	go func() {
		for i := 0; i < n; i++ {
			if err := WriteFrame(w, TagResult, data.Encode(data.Long(int64(i)))); err != nil {
				w.CloseWithError(err)
				return
			}
		}
		w.Close()
	}()

	reader := bufio.NewReader(r)
	for i := 0; i < n; i++ {
		f, err := Decode(reader)
		require.NoError(t, err)
		require.Equal(t, TagResult, f.Tag)

		cell, err := DecodeCell(f)
		require.NoError(t, err)
		require.Equal(t, data.Long(int64(i)), cell)
	}

	_, err := Decode(reader)
	require.ErrorIs(t, err, io.EOF)
}
