// Package varint implements the byte-stream primitives the codec's wire
// format is built on: a single byte, a VarUInt (LEB128-style, 7 bits per
// byte, MSB continuation), a VarInt (two's-complement arithmetic-shift
// groups), a fixed little-endian float64, and raw UTF-8 bytes.
//
// The exact bit layout is a testable property of the codec and is reproduced from scratch here rather
// than borrowed from an existing varint library, because no example
// dependency implements this specific dialect (see DESIGN.md).
package varint

import "errors"

// ErrTruncated is returned when a stream ends mid-token.
var ErrTruncated = errors.New("varint: truncated stream")

// ErrOverflow is returned when a VarUInt/VarInt exceeds the 64-bit range.
var ErrOverflow = errors.New("varint: value overflows 64 bits")

// maxVarintBytes bounds the number of continuation bytes accepted for a
// 64-bit value: ceil(64/7) = 10.
const maxVarintBytes = 10

const (
	continuationBit = 0x80
	payloadMask = 0x7f
	payloadBits = 7
)
