package varint

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
)

// Reader wraps an io.Reader with the codec's primitive decode operations.
// A Reader is single-use and single-threaded: callers must not read
// concurrently from the same Reader.
type Reader struct {
	src io.Reader

	// byteBuf avoids an allocation on every single-byte read.
	byteBuf [1]byte
}

// NewReader wraps src for sequential primitive reads.
func NewReader(src io.Reader) *Reader {
	return &Reader{src: src}
}

// ReadByte reads a single byte.
func (r *Reader) ReadByte() (byte, error) {
	_, err := io.ReadFull(r.src, r.byteBuf[:])
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrTruncated, err) //nolint:errorlint // wrapping a non-error-chain detail
	}

	return r.byteBuf[0], nil
}

// ReadUvarint reads a VarUInt: 7 bits at a time, least significant first,
// every byte but the last has its high bit set.
func (r *Reader) ReadUvarint() (uint64, error) {
	var (
		result uint64
		shift  uint
	)

	for i := 0; i < maxVarintBytes; i++ {
		b, err := r.ReadByte()
		if err != nil {
			return 0, err
		}

		if shift >= 64 || (shift == 63 && b > 1) {
			return 0, ErrOverflow
		}

		result |= uint64(b&payloadMask) << shift

		if b&continuationBit == 0 {
			return result, nil
		}

		shift += payloadBits
	}

	return 0, ErrOverflow
}

// ReadVarint reads a VarInt: two's-complement, arithmetic-shift-right by 7
// per byte, terminated once the remaining value fits in a signed 7-bit
// group (sign-extended from the final group's high payload bit).
func (r *Reader) ReadVarint() (int64, error) {
	var (
		result int64
		shift  uint
		b      byte
		err    error
	)

	for i := 0; i < maxVarintBytes; i++ {
		b, err = r.ReadByte()
		if err != nil {
			return 0, err
		}

		result |= int64(b&payloadMask) << shift
		shift += payloadBits

		if b&continuationBit == 0 {
			// Sign-extend from the final group's sign bit (bit 6 of b).
			if shift < 64 && b&0x40 != 0 {
				result |= -1 << shift
			}

			return result, nil
		}
	}

	return 0, ErrOverflow
}

// ReadFloat64 reads 8 little-endian bytes as an IEEE-754 double, preserving
// NaN payloads bit-for-bit.
func (r *Reader) ReadFloat64() (float64, error) {
	var buf [8]byte

	_, err := io.ReadFull(r.src, buf[:])
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrTruncated, err) //nolint:errorlint
	}

	bits := binary.LittleEndian.Uint64(buf[:])

	return math.Float64frombits(bits), nil
}

// ReadRaw reads exactly n raw bytes (no length prefix at this layer).
func (r *Reader) ReadRaw(n int) ([]byte, error) {
	buf := make([]byte, n)

	_, err := io.ReadFull(r.src, buf)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTruncated, err) //nolint:errorlint
	}

	return buf, nil
}
