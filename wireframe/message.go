package wireframe

import (
	"github.com/ugorji/go/codec"

	"github.com/mosaicnetworks/cascade/data"
	"github.com/mosaicnetworks/cascade/internal/errs"
)

var cborHandle = &codec.CborHandle{}

func marshalStruct(v interface{}) []byte {
	var out []byte
	enc := codec.NewEncoderBytes(&out, cborHandle)
	enc.MustEncode(v)
	return out
}

func unmarshalStruct(body []byte, v interface{}) error {
	dec := codec.NewDecoderBytes(body, cborHandle)
	if err := dec.Decode(v); err != nil {
		return errs.Newf(errs.BadFormat, "wireframe: %v", err)
	}
	return nil
}

// QueryMsg asks the peer on the other end of the stream to resolve Hash
// (or, if Hash is empty, to evaluate Expr) and reply with a Result frame
// carrying ID so the caller can match the response to the request.
type QueryMsg struct {
	ID   uint64
	Hash []byte
	Expr string
}

// MissingDataMsg asks for the single cell identified by Hash, sent when a
// resolve through the local store comes back errs.MissingData mid-merge.
type MissingDataMsg struct {
	ID   uint64
	Hash []byte
}

// StatusReqMsg carries no fields; it is the request half of a status probe.
type StatusReqMsg struct{}

// StatusMsg is the reply to a StatusReqMsg: the sender's current Belief
// hash and consensus point, enough for the requester to decide whether it
// needs to pull anything.
type StatusMsg struct {
	BeliefHash     []byte
	ConsensusPoint int64
	Timestamp      int64
}

// ChallengeMsg carries a nonce the receiver must sign to prove ownership
// of its claimed AccountKey, used before admitting a new gossip peer.
type ChallengeMsg struct {
	Nonce []byte
}

// ResponseMsg answers a ChallengeMsg with a signature over Nonce.
type ResponseMsg struct {
	Nonce     []byte
	Signature []byte
}

// EncodeCell builds a frame for one of the cell-bearing tags (Belief,
// Transact, Result, DataReply): its body is c's canonical encoding.
func EncodeCell(tag Tag, c data.Cell) []byte {
	return Marshal(tag, data.Encode(c))
}

// DecodeCell parses a cell-bearing frame's body.
func DecodeCell(f Frame) (data.Cell, error) {
	return data.Decode(f.Body)
}

// EncodeQuery builds a Query frame.
func EncodeQuery(m QueryMsg) []byte { return Marshal(TagQuery, marshalStruct(m)) }

// DecodeQuery parses a Query frame's body.
func DecodeQuery(f Frame) (QueryMsg, error) {
	var m QueryMsg
	err := unmarshalStruct(f.Body, &m)
	return m, err
}

// EncodeMissingData builds a MissingData frame.
func EncodeMissingData(m MissingDataMsg) []byte { return Marshal(TagMissingData, marshalStruct(m)) }

// DecodeMissingData parses a MissingData frame's body.
func DecodeMissingData(f Frame) (MissingDataMsg, error) {
	var m MissingDataMsg
	err := unmarshalStruct(f.Body, &m)
	return m, err
}

// EncodeStatusReq builds a StatusReq frame.
func EncodeStatusReq() []byte { return Marshal(TagStatusReq, marshalStruct(StatusReqMsg{})) }

// EncodeStatus builds a Status frame.
func EncodeStatus(m StatusMsg) []byte { return Marshal(TagStatus, marshalStruct(m)) }

// DecodeStatus parses a Status frame's body.
func DecodeStatus(f Frame) (StatusMsg, error) {
	var m StatusMsg
	err := unmarshalStruct(f.Body, &m)
	return m, err
}

// EncodeChallenge builds a Challenge frame.
func EncodeChallenge(m ChallengeMsg) []byte { return Marshal(TagChallenge, marshalStruct(m)) }

// DecodeChallenge parses a Challenge frame's body.
func DecodeChallenge(f Frame) (ChallengeMsg, error) {
	var m ChallengeMsg
	err := unmarshalStruct(f.Body, &m)
	return m, err
}

// EncodeResponse builds a Response frame.
func EncodeResponse(m ResponseMsg) []byte { return Marshal(TagResponse, marshalStruct(m)) }

// DecodeResponse parses a Response frame's body.
func DecodeResponse(f Frame) (ResponseMsg, error) {
	var m ResponseMsg
	err := unmarshalStruct(f.Body, &m)
	return m, err
}
