package data

// Tag bytes for the closed set of cell kinds (spec §3). A map/set/blob-map
// carries a single tag regardless of whether it is represented as a leaf or
// a tree internally: the decoder tells the two shapes apart by comparing the
// leading count against LeafMax, the same way a canonical encoding must
// reject a tree node that is small enough to have been a leaf.
const (
	TagNil = iota
	TagFalse
	TagTrue
	TagLong
	TagDouble
	TagChar
	TagString
	TagBlob
	TagSymbol
	TagKeyword
	TagAddress
	TagVector
	TagList
	TagMap
	TagSet
	TagBlobMap
	TagMapEntry
	TagSignedData
	TagAccountKey
	TagRefIndirect
	TagRecord
)

// Record subtags, written immediately after TagRecord.
const (
	RecordBlock = iota + 1
	RecordOrder
	RecordBelief
	RecordState
	RecordPeerStatus
	RecordAccountStatus
	RecordTransfer
)

// MaxEmbedded is the largest encoded size, in bytes, that a child cell may
// have and still be embedded inline in its parent rather than stored as an
// indirect hash reference.
const MaxEmbedded = 140

// ChunkSize is the branching factor of the persistent Vector and the leaf
// width threshold used throughout the persistent collections.
const ChunkSize = 16

// LeafMax is the largest entry count a HashMap/HashSet/BlobMap node may have
// and still be represented (and required to be represented) as a flat leaf.
const LeafMax = 8
