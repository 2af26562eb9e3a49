package data

import (
	"math"
	"unicode/utf8"

	"github.com/mosaicnetworks/cascade/hash"
)

// --- Nil ---------------------------------------------------------------

type nilCell struct{}

// Nil is the unique nil cell value.
var Nil Cell = nilCell{}

func (nilCell) RefCount() int                   { return 0 }
func (nilCell) GetRef(i int) Ref                { panic("data: GetRef on Nil") }
func (nilCell) Tag() byte                       { return TagNil }
func (nilCell) WriteBody(w *Writer)             {}
func (nilCell) UpdateRefs(f func(Ref) Ref) Cell { return Nil }
func (nilCell) Validate() error                 { return nil }

// --- Boolean -------------------------------------------------------------

// Bool is the boolean cell kind; true and false are distinct tags so no
// payload byte is needed.
type Bool bool

func (Bool) RefCount() int                   { return 0 }
func (Bool) GetRef(i int) Ref                { panic("data: GetRef on Bool") }
func (b Bool) UpdateRefs(f func(Ref) Ref) Cell { return b }
func (b Bool) Validate() error               { return nil }
func (b Bool) Tag() byte {
	if bool(b) {
		return TagTrue
	}
	return TagFalse
}
func (Bool) WriteBody(w *Writer) {}

// --- Long ------------------------------------------------------------------

// Long is a 64-bit signed integer cell.
type Long int64

func (Long) RefCount() int                     { return 0 }
func (Long) GetRef(i int) Ref                  { panic("data: GetRef on Long") }
func (l Long) UpdateRefs(f func(Ref) Ref) Cell { return l }
func (Long) Validate() error                   { return nil }
func (Long) Tag() byte                         { return TagLong }
func (l Long) WriteBody(w *Writer)             { w.WriteSVLQ(int64(l)) }

func decodeLong(r *Reader) (Cell, error) {
	v, err := r.ReadSVLQ()
	if err != nil {
		return nil, err
	}
	return Long(v), nil
}

// --- Double ------------------------------------------------------------

// Double is an IEEE-754 double precision cell, encoded as its 8 big-endian
// bytes so equal bit patterns hash equal (including -0.0 distinct from 0.0).
type Double float64

func (Double) RefCount() int                     { return 0 }
func (Double) GetRef(i int) Ref                  { panic("data: GetRef on Double") }
func (d Double) UpdateRefs(f func(Ref) Ref) Cell { return d }
func (Double) Validate() error                   { return nil }
func (Double) Tag() byte                         { return TagDouble }
func (d Double) WriteBody(w *Writer) {
	bits := math.Float64bits(float64(d))
	var buf [8]byte
	for i := 0; i < 8; i++ {
		buf[i] = byte(bits >> (56 - 8*i))
	}
	w.WriteRaw(buf[:])
}

func decodeDouble(r *Reader) (Cell, error) {
	b, err := r.ReadRaw(8)
	if err != nil {
		return nil, err
	}
	var bits uint64
	for i := 0; i < 8; i++ {
		bits = bits<<8 | uint64(b[i])
	}
	return Double(math.Float64frombits(bits)), nil
}

// --- Char ----------------------------------------------------------------

// Char is a single Unicode code point, encoded as an unsigned VLQ.
type Char rune

func (Char) RefCount() int                     { return 0 }
func (Char) GetRef(i int) Ref                  { panic("data: GetRef on Char") }
func (c Char) UpdateRefs(f func(Ref) Ref) Cell { return c }
func (Char) Validate() error                   { return nil }
func (Char) Tag() byte                         { return TagChar }
func (c Char) WriteBody(w *Writer)             { w.WriteUVLQ(uint64(c)) }

func decodeChar(r *Reader) (Cell, error) {
	v, err := r.ReadUVLQ()
	if err != nil {
		return nil, err
	}
	return Char(rune(v)), nil
}

// --- String ----------------------------------------------------------

// CString is a UTF-8 text cell. Named CString, not String, to avoid shadowing
// the builtin type within this package's many short identifiers.
type CString string

func (CString) RefCount() int                     { return 0 }
func (CString) GetRef(i int) Ref                  { panic("data: GetRef on CString") }
func (s CString) UpdateRefs(f func(Ref) Ref) Cell { return s }
func (s CString) Validate() error {
	if !utf8.ValidString(string(s)) {
		return badFormat("string is not valid UTF-8")
	}
	return nil
}
func (CString) Tag() byte { return TagString }
func (s CString) WriteBody(w *Writer) {
	b := []byte(s)
	w.WriteUVLQ(uint64(len(b)))
	w.WriteRaw(b)
}

func decodeString(r *Reader) (Cell, error) {
	n, err := r.ReadUVLQ()
	if err != nil {
		return nil, err
	}
	b, err := r.ReadRaw(int(n))
	if err != nil {
		return nil, err
	}
	if !utf8.Valid(b) {
		return nil, badFormat("string is not valid UTF-8")
	}
	return CString(b), nil
}

// --- Blob ------------------------------------------------------------------

// Blob is an arbitrary byte sequence cell.
type Blob []byte

func (Blob) RefCount() int                     { return 0 }
func (Blob) GetRef(i int) Ref                  { panic("data: GetRef on Blob") }
func (b Blob) UpdateRefs(f func(Ref) Ref) Cell { return b }
func (Blob) Validate() error                   { return nil }
func (Blob) Tag() byte                         { return TagBlob }
func (b Blob) WriteBody(w *Writer) {
	w.WriteUVLQ(uint64(len(b)))
	w.WriteRaw(b)
}

func decodeBlob(r *Reader) (Cell, error) {
	n, err := r.ReadUVLQ()
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return Blob(nil), nil
	}
	b, err := r.ReadRaw(int(n))
	if err != nil {
		return nil, err
	}
	return Blob(b), nil
}

// HexDigit returns the hex nibble of b at digit position pos, used when a
// Blob is used as a BlobMap key.
func (b Blob) HexDigit(pos int) byte {
	byt := b[pos/2]
	if pos%2 == 0 {
		return byt >> 4
	}
	return byt & 0x0f
}

// --- Symbol / Keyword --------------------------------------------------

// Symbol is a short (<=255 byte) identifier cell used for globals and field
// names.
type Symbol string

func (Symbol) RefCount() int                     { return 0 }
func (Symbol) GetRef(i int) Ref                  { panic("data: GetRef on Symbol") }
func (s Symbol) UpdateRefs(f func(Ref) Ref) Cell { return s }
func (s Symbol) Validate() error {
	if len(s) == 0 || len(s) > 255 {
		return badFormat("symbol length out of range: %d", len(s))
	}
	return nil
}
func (Symbol) Tag() byte { return TagSymbol }
func (s Symbol) WriteBody(w *Writer) {
	w.WriteUVLQ(uint64(len(s)))
	w.WriteRaw([]byte(s))
}

func decodeSymbol(r *Reader) (Cell, error) {
	n, err := r.ReadUVLQ()
	if err != nil {
		return nil, err
	}
	b, err := r.ReadRaw(int(n))
	if err != nil {
		return nil, err
	}
	return Symbol(b), nil
}

// Keyword mirrors Symbol but is a distinct cell kind (":foo" vs "foo").
type Keyword string

func (Keyword) RefCount() int                     { return 0 }
func (Keyword) GetRef(i int) Ref                  { panic("data: GetRef on Keyword") }
func (k Keyword) UpdateRefs(f func(Ref) Ref) Cell { return k }
func (k Keyword) Validate() error {
	if len(k) == 0 || len(k) > 255 {
		return badFormat("keyword length out of range: %d", len(k))
	}
	return nil
}
func (Keyword) Tag() byte { return TagKeyword }
func (k Keyword) WriteBody(w *Writer) {
	w.WriteUVLQ(uint64(len(k)))
	w.WriteRaw([]byte(k))
}

func decodeKeyword(r *Reader) (Cell, error) {
	n, err := r.ReadUVLQ()
	if err != nil {
		return nil, err
	}
	b, err := r.ReadRaw(int(n))
	if err != nil {
		return nil, err
	}
	return Keyword(b), nil
}

// --- Address ---------------------------------------------------------------

// Address identifies an account by its index into the State's accounts
// vector. Addresses are small non-negative longs under the hood.
type Address int64

func (Address) RefCount() int                     { return 0 }
func (Address) GetRef(i int) Ref                  { panic("data: GetRef on Address") }
func (a Address) UpdateRefs(f func(Ref) Ref) Cell { return a }
func (a Address) Validate() error {
	if a < 0 {
		return badFormat("negative address")
	}
	return nil
}
func (Address) Tag() byte             { return TagAddress }
func (a Address) WriteBody(w *Writer) { w.WriteUVLQ(uint64(a)) }

func decodeAddress(r *Reader) (Cell, error) {
	v, err := r.ReadUVLQ()
	if err != nil {
		return nil, err
	}
	return Address(v), nil
}

func (a Address) LongValue() int64    { return int64(a) }
func (a Address) ToHexString(n int) string {
	var buf [8]byte
	v := uint64(a)
	for i := 7; i >= 0; i-- {
		buf[i] = byte(v)
		v >>= 8
	}
	h := hash.Hash{}
	copy(h[:8], buf[:])
	return h.ToHexString(n)
}

// --- AccountKey --------------------------------------------------------

// AccountKey is a peer's or account's 32-byte Ed25519 public key, treated as
// a cell so it can be embedded directly in records (PeerStatus, Belief's
// orders map keys, etc).
type AccountKey [32]byte

func (AccountKey) RefCount() int                     { return 0 }
func (AccountKey) GetRef(i int) Ref                  { panic("data: GetRef on AccountKey") }
func (k AccountKey) UpdateRefs(f func(Ref) Ref) Cell { return k }
func (AccountKey) Validate() error                   { return nil }
func (AccountKey) Tag() byte                         { return TagAccountKey }
func (k AccountKey) WriteBody(w *Writer)             { w.WriteRaw(k[:]) }

func decodeAccountKey(r *Reader) (Cell, error) {
	b, err := r.ReadRaw(32)
	if err != nil {
		return nil, err
	}
	var k AccountKey
	copy(k[:], b)
	return k, nil
}

func (k AccountKey) ToHexString(n int) string {
	h := hash.Hash(k)
	return h.ToHexString(n)
}

func (k AccountKey) String() string { return k.ToHexString(32) }

// AccountKeyFromHex decodes a hex-encoded 32-byte public key, as produced by
// ToHexString(32). It reports false on anything else.
func AccountKeyFromHex(s string) (AccountKey, bool) {
	h, err := hash.FromHex(s)
	if err != nil {
		return AccountKey{}, false
	}
	return AccountKey(h), true
}

// Less orders AccountKeys lexicographically, used for tie-breaking in the
// winning-chain vote.
func (k AccountKey) Less(o AccountKey) bool {
	return hash.Hash(k).Less(hash.Hash(o))
}
