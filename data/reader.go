package data

import (
	"bytes"
	"io"

	"github.com/mosaicnetworks/cascade/internal/errs"
)

// Reader walks a canonical encoding left to right. Decode failures are
// reported as errs.BadFormat, per the error-handling design.
type Reader struct {
	buf *bytes.Reader
}

func NewReader(data []byte) *Reader {
	return &Reader{buf: bytes.NewReader(data)}
}

func (r *Reader) Remaining() int { return r.buf.Len() }

func (r *Reader) ReadByte() (byte, error) {
	b, err := r.buf.ReadByte()
	if err != nil {
		return 0, badFormat("truncated: %v", err)
	}
	return b, nil
}

func (r *Reader) ReadRaw(n int) ([]byte, error) {
	out := make([]byte, n)
	if _, err := io.ReadFull(r.buf, out); err != nil {
		return nil, badFormat("expected %d bytes: %v", n, err)
	}
	return out, nil
}

func (r *Reader) ReadUVLQ() (uint64, error) {
	v, err := readUVLQ(r.buf)
	if err != nil {
		return 0, badFormat("bad VLQ: %v", err)
	}
	return v, nil
}

func (r *Reader) ReadSVLQ() (int64, error) {
	v, err := readSVLQ(r.buf)
	if err != nil {
		return 0, badFormat("bad signed VLQ: %v", err)
	}
	return v, nil
}

// ReadUint16 reads 2 raw big-endian bytes, the counterpart to WriteUint16.
func (r *Reader) ReadUint16() (uint16, error) {
	b, err := r.ReadRaw(2)
	if err != nil {
		return 0, err
	}
	return uint16(b[0])<<8 | uint16(b[1]), nil
}

// ReadRef reads a single child reference: either a ref-indirect tag+hash, or
// an embedded cell decoded in place.
func (r *Reader) ReadRef() (Ref, error) {
	peek, err := r.buf.ReadByte()
	if err != nil {
		return Ref{}, badFormat("truncated ref: %v", err)
	}
	if peek == TagRefIndirect {
		hb, err := r.ReadRaw(32)
		if err != nil {
			return Ref{}, err
		}
		h, ok := hashFromBytes(hb)
		if !ok {
			return Ref{}, badFormat("bad indirect hash length")
		}
		return IndirectRef(h), nil
	}
	_ = r.buf.UnreadByte()
	cell, err := decodeCell(r)
	if err != nil {
		return Ref{}, err
	}
	return EmbedRef(cell), nil
}

func badFormat(format string, args ...interface{}) error {
	return errs.Newf(errs.BadFormat, format, args...)
}
