// Package codec implements the binary AST codec: assigning every symbol a
// code in the partitioned space of internal/symspace, emitting a header
// plus preorder body streams (Encode), and reversing the process by
// buffering meta-rule bodies and replaying the start tree (Decode).
package codec

import (
	"fmt"

	"github.com/Sumatoshi-tech/jsastcodec/internal/rtree"
)

// ErrorKind is the closed set of codec failure modes. It is
// deliberately not tied to any single Go error value so callers can branch
// on Kind without depending on wrapped sentinel identity.
type ErrorKind int

const (
	// Truncated: stream ended mid-token.
	Truncated ErrorKind = iota
	// Overflow: a VarUInt exceeded the 64-bit range.
	Overflow
	// InconsistentShape: two instances of a kind exposed different property sets.
	InconsistentShape
	// UnsupportedPrimitive: a value was none of the supported primitive classes.
	UnsupportedPrimitive
	// UnknownKind: an AST node's kind is absent from the recovered grammar.
	UnknownKind
	// VersionMismatch: the decoded built-in count was not 6.
	VersionMismatch
	// UnknownTag: a decoded tag fell outside every code-space partition.
	UnknownTag
	// UnexpectedRoot: the root passed to Encode, or the decoded tree's
	// root, was not Script or Module.
	UnexpectedRoot
	// InternalInvariant: a structural invariant was violated, on the encoder
	// side or during decode replay, or an I/O failure other than
	// truncation or overflow occurred.
	InternalInvariant
)

func (k ErrorKind) String() string {
	switch k {
	case Truncated:
		return "Truncated"
	case Overflow:
		return "Overflow"
	case InconsistentShape:
		return "InconsistentShape"
	case UnsupportedPrimitive:
		return "UnsupportedPrimitive"
	case UnknownKind:
		return "UnknownKind"
	case VersionMismatch:
		return "VersionMismatch"
	case UnknownTag:
		return "UnknownTag"
	case UnexpectedRoot:
		return "UnexpectedRoot"
	case InternalInvariant:
		return "InternalInvariant"
	default:
		return "Unknown"
	}
}

// Error is the codec's public error type: which of the closed error kinds
// occurred, which operation (encode/decode phase) raised it, and the
// underlying cause, if any.
type Error struct {
	Kind ErrorKind
	Op string
	Err error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("jsastcodec: %s: %s: %v", e.Op, e.Kind, e.Err)
	}

	return fmt.Sprintf("jsastcodec: %s: %s", e.Op, e.Kind)
}

func (e *Error) Unwrap() error { return e.Err }

func newError(kind ErrorKind, op string, err error) *Error {
	return &Error{Kind: kind, Op: op, Err: err}
}

func errUnregisteredSymbol(sym *rtree.Symbol) error {
	return fmt.Errorf("unregistered symbol %s", sym)
}
