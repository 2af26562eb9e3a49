// Package wireframe implements the wire message framing of spec §6: each
// message on an ordered, reliable byte stream is length:VLQ, tag:1,
// body:bytes. The length prefix uses the same base-128 continuation
// encoding as data's internal VLQ (and as encoding/binary's varint), so it
// is written with the standard library rather than duplicating data's
// private helpers across a package boundary that has nothing to do with
// cell encoding.
//
// Belief, Transact, Result and DataReply bodies are canonical cell
// encodings (data.Encode/data.Decode); Query, StatusReq, Status,
// MissingData, Challenge and Response carry small structured bodies
// encoded with ugorji/go/codec, the same library the teacher's fastlogger
// benchmark tooling pulls in for compact binary payloads.
package wireframe

import (
	"bufio"
	"encoding/binary"
	"io"

	"github.com/mosaicnetworks/cascade/internal/errs"
)

// Tag identifies which of the ten message kinds a frame carries.
type Tag byte

const (
	TagBelief      Tag = 1
	TagQuery       Tag = 2
	TagTransact    Tag = 3
	TagResult      Tag = 4
	TagStatusReq   Tag = 5
	TagStatus      Tag = 6
	TagMissingData Tag = 7
	TagDataReply   Tag = 8
	TagChallenge   Tag = 9
	TagResponse    Tag = 10
)

func (t Tag) String() string {
	switch t {
	case TagBelief:
		return "Belief"
	case TagQuery:
		return "Query"
	case TagTransact:
		return "Transact"
	case TagResult:
		return "Result"
	case TagStatusReq:
		return "StatusReq"
	case TagStatus:
		return "Status"
	case TagMissingData:
		return "MissingData"
	case TagDataReply:
		return "DataReply"
	case TagChallenge:
		return "Challenge"
	case TagResponse:
		return "Response"
	default:
		return "Unknown"
	}
}

// Frame is one decoded wire message: its tag and raw body bytes. Body
// interpretation depends on Tag; see message.go for the per-tag codecs.
type Frame struct {
	Tag  Tag
	Body []byte
}

// Marshal returns the complete frame encoding of tag+body: the length
// prefix, the tag byte, then body.
func Marshal(tag Tag, body []byte) []byte {
	var lenBuf [binary.MaxVarintLen64]byte
	n := binary.PutUvarint(lenBuf[:], uint64(len(body)+1))
	out := make([]byte, 0, n+1+len(body))
	out = append(out, lenBuf[:n]...)
	out = append(out, byte(tag))
	out = append(out, body...)
	return out
}

// WriteFrame writes tag+body to w in the wire format, for streaming
// transports that write frame by frame rather than building one byte
// slice up front.
func WriteFrame(w io.Writer, tag Tag, body []byte) error {
	_, err := w.Write(Marshal(tag, body))
	return err
}

// Decode reads a single frame from r. r must also support ReadByte, which
// every *bufio.Reader does; callers reading from a raw net.Conn should wrap
// it in bufio.NewReader first.
func Decode(r *bufio.Reader) (Frame, error) {
	length, err := binary.ReadUvarint(r)
	if err != nil {
		return Frame{}, err
	}
	if length == 0 {
		return Frame{}, errs.New(errs.BadFormat, "wireframe: zero-length frame")
	}
	tagByte, err := r.ReadByte()
	if err != nil {
		return Frame{}, errs.Newf(errs.BadFormat, "wireframe: truncated tag: %v", err)
	}
	body := make([]byte, length-1)
	if _, err := io.ReadFull(r, body); err != nil {
		return Frame{}, errs.Newf(errs.BadFormat, "wireframe: truncated body: %v", err)
	}
	return Frame{Tag: Tag(tagByte), Body: body}, nil
}
