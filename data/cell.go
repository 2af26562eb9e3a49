// Package data implements the content-addressed cell system: the closed set
// of immutable value kinds, their canonical binary encoding, Refs, and the
// persistent collections built on top of them.
//
// Every concrete cell kind implements Cell. Dispatch is by tag byte on
// decode and by Go type switch (inside each kind's own methods) on encode;
// this is the "tagged sum over the closed set of cell kinds" called for by
// the design notes, standing in for the source's class hierarchy.
package data

import "github.com/mosaicnetworks/cascade/hash"

// Cell is any immutable value participating in the data model. It is
// identified uniquely by the hash of its canonical encoding.
type Cell interface {
	// Tag is this cell's one-byte kind discriminator.
	Tag() byte
	// WriteBody writes everything that follows the tag byte (and, for
	// records, the subtag byte) to w.
	WriteBody(w *Writer)
	// RefCount is the number of child Refs this cell directly holds.
	RefCount() int
	// GetRef returns the i'th child Ref, 0 <= i < RefCount().
	GetRef(i int) Ref
	// UpdateRefs returns a structurally identical cell with every child Ref
	// replaced by f(ref), used by persist/traversal to rewrite embedded
	// children into indirect ones (or vice versa) without re-deriving the
	// cell's own shape.
	UpdateRefs(f func(Ref) Ref) Cell
	// Validate checks structural invariants that canonical decoding alone
	// cannot fully express (e.g. Order's cut-point ordering). It does not
	// recurse into children.
	Validate() error
}

// encodeCell writes a cell's full canonical encoding: tag (and subtag for
// records) followed by its body.
func encodeCell(c Cell) []byte {
	w := NewWriter()
	tag := c.Tag()
	_ = w.WriteByte(tag)
	if rec, ok := c.(recordCell); ok {
		_ = w.WriteByte(rec.RecordTag())
	}
	c.WriteBody(w)
	return w.Bytes()
}

// Encode returns the canonical byte encoding of c.
func Encode(c Cell) []byte { return encodeCell(c) }

// EncodedSize returns len(Encode(c)) without retaining the buffer.
func EncodedSize(c Cell) int { return len(encodeCell(c)) }

// IsEmbedded reports whether c's canonical encoding is small enough to be
// embedded inline in a parent rather than referenced indirectly.
func IsEmbedded(c Cell) bool { return EncodedSize(c) <= MaxEmbedded }

// Hash returns the content hash of c's canonical encoding.
func Hash(c Cell) hash.Hash { return hash.Compute(encodeCell(c)) }

// recordCell is implemented by the record kinds (Block, Order, Belief,
// State, PeerStatus, AccountStatus, Transfer) to supply the subtag written
// immediately after TagRecord.
type recordCell interface {
	RecordTag() byte
}

// Decode parses a single canonical cell encoding. It fails with
// errs.BadFormat if data is malformed, or trails unconsumed bytes.
func Decode(data []byte) (Cell, error) {
	r := NewReader(data)
	c, err := decodeCell(r)
	if err != nil {
		return nil, err
	}
	if r.Remaining() != 0 {
		return nil, badFormat("trailing bytes after cell: %d", r.Remaining())
	}
	return c, nil
}

func decodeCell(r *Reader) (Cell, error) {
	tag, err := r.ReadByte()
	if err != nil {
		return nil, err
	}
	switch tag {
	case TagNil:
		return Nil, nil
	case TagFalse:
		return Bool(false), nil
	case TagTrue:
		return Bool(true), nil
	case TagLong:
		return decodeLong(r)
	case TagDouble:
		return decodeDouble(r)
	case TagChar:
		return decodeChar(r)
	case TagString:
		return decodeString(r)
	case TagBlob:
		return decodeBlob(r)
	case TagSymbol:
		return decodeSymbol(r)
	case TagKeyword:
		return decodeKeyword(r)
	case TagAddress:
		return decodeAddress(r)
	case TagAccountKey:
		return decodeAccountKey(r)
	case TagVector:
		return decodeVector(r)
	case TagList:
		return decodeList(r)
	case TagMap:
		return decodeHashMap(r)
	case TagSet:
		return decodeHashSet(r)
	case TagBlobMap:
		return decodeBlobMap(r)
	case TagMapEntry:
		return decodeMapEntry(r)
	case TagSignedData:
		return decodeSignedData(r)
	case TagRecord:
		return decodeRecord(r)
	default:
		return nil, badFormat("unknown tag %d", tag)
	}
}

func decodeRecord(r *Reader) (Cell, error) {
	sub, err := r.ReadByte()
	if err != nil {
		return nil, err
	}
	switch sub {
	case RecordBlock:
		return decodeBlock(r)
	case RecordOrder:
		return decodeOrder(r)
	case RecordBelief:
		return decodeBelief(r)
	case RecordState:
		return decodeState(r)
	case RecordPeerStatus:
		return decodePeerStatus(r)
	case RecordAccountStatus:
		return decodeAccountStatus(r)
	case RecordTransfer:
		return decodeTransfer(r)
	default:
		return nil, badFormat("unknown record subtag %d", sub)
	}
}
