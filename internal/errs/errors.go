// Package errs defines the closed set of error kinds the core surfaces,
// mirroring the teacher's common.StoreErr: a typed kind plus a detail, and
// an Is predicate rather than string matching.
package errs

import "fmt"

// Kind is one of the error kinds from the error-handling design.
type Kind uint32

const (
	// BadFormat: received bytes are not a valid canonical encoding.
	BadFormat Kind = iota
	// BadSignature: a SignedData failed verification.
	BadSignature
	// MissingData: a needed cell is not in the local store; recoverable.
	MissingData
	// InvalidData: a cell decoded but violates a structural invariant.
	InvalidData
	// TransactionException: a transaction was rejected by the executor.
	TransactionException
	// IO: a transport or disk error.
	IO
)

func (k Kind) String() string {
	switch k {
	case BadFormat:
		return "BadFormat"
	case BadSignature:
		return "BadSignature"
	case MissingData:
		return "MissingData"
	case InvalidData:
		return "InvalidData"
	case TransactionException:
		return "TransactionException"
	case IO:
		return "IO"
	default:
		return "Unknown"
	}
}

// Error is a typed error carrying a Kind and a human-readable detail.
type Error struct {
	kind   Kind
	detail string
}

func New(kind Kind, detail string) Error {
	return Error{kind: kind, detail: detail}
}

func Newf(kind Kind, format string, args ...interface{}) Error {
	return Error{kind: kind, detail: fmt.Sprintf(format, args...)}
}

func (e Error) Error() string {
	return fmt.Sprintf("%s: %s", e.kind, e.detail)
}

func (e Error) Kind() Kind { return e.kind }

// Is reports whether err is an Error of the given kind.
func Is(err error, kind Kind) bool {
	e, ok := err.(Error)
	return ok && e.kind == kind
}

// NewMissing builds a MissingData error that remembers the hash it was
// looking for, so callers can enqueue a fetch without reparsing the message.
func NewMissing(hashHex string) Error {
	return Error{kind: MissingData, detail: hashHex}
}

// MissingHash returns the hex-encoded hash embedded in a MissingData error,
// and whether err was in fact such an error.
func MissingHash(err error) (string, bool) {
	e, ok := err.(Error)
	if !ok || e.kind != MissingData {
		return "", false
	}
	return e.detail, true
}
