package varint

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"math"
)

// DefaultChunkSize is the recommended bound for the writer's
// in-memory buffer before it flushes to the underlying sink.
const DefaultChunkSize = 64 * 1024

// Writer wraps an io.Writer with the codec's primitive encode operations,
// buffering up to a bounded chunk before flushing to sink. A Writer is
// single-use and single-threaded.
type Writer struct {
	buf *bufio.Writer
	written int64
}

// NewWriter wraps sink with a DefaultChunkSize buffer.
func NewWriter(sink io.Writer) *Writer {
	return NewWriterSize(sink, DefaultChunkSize)
}

// NewWriterSize wraps sink with a buffer of the given size.
func NewWriterSize(sink io.Writer, size int) *Writer {
	return &Writer{buf: bufio.NewWriterSize(sink, size)}
}

// Written returns the total number of bytes handed to WriteByte and its
// siblings so far, whether or not they have been flushed to the sink yet.
func (w *Writer) Written() int64 { return w.written }

// Flush pushes any buffered bytes to the underlying sink.
func (w *Writer) Flush() error {
	if err := w.buf.Flush(); err != nil {
		return fmt.Errorf("varint: flush: %w", err)
	}

	return nil
}

// WriteByte writes a single byte.
func (w *Writer) WriteByte(b byte) error {
	if err := w.buf.WriteByte(b); err != nil {
		return fmt.Errorf("varint: write byte: %w", err)
	}

	w.written++

	return nil
}

// WriteUvarint writes v as a VarUInt: 7 bits at a time, least significant
// first, every byte but the last has its high bit set.
func (w *Writer) WriteUvarint(v uint64) error {
	for {
		b := byte(v & payloadMask)
		v >>= payloadBits

		if v != 0 {
			if err := w.WriteByte(b | continuationBit); err != nil {
				return err
			}

			continue
		}

		return w.WriteByte(b)
	}
}

// WriteVarint writes v as a VarInt: two's-complement, arithmetic-shift by
// 7 per byte, stopping once the remaining value fits in a signed 7-bit
// group ([-64, 63]).
func (w *Writer) WriteVarint(v int64) error {
	for {
		b := byte(v & payloadMask)
		v >>= payloadBits

		if (v == 0 && b&0x40 == 0) || (v == -1 && b&0x40 != 0) {
			return w.WriteByte(b)
		}

		if err := w.WriteByte(b | continuationBit); err != nil {
			return err
		}
	}
}

// WriteFloat64 writes v as 8 little-endian IEEE-754 bytes, preserving NaN
// payloads bit-for-bit.
func (w *Writer) WriteFloat64(v float64) error {
	var buf [8]byte

	binary.LittleEndian.PutUint64(buf[:], math.Float64bits(v))

	n, err := w.buf.Write(buf[:])
	w.written += int64(n)

	if err != nil {
		return fmt.Errorf("varint: write float64: %w", err)
	}

	return nil
}

// WriteRaw writes raw bytes with no length prefix at this layer.
func (w *Writer) WriteRaw(p []byte) error {
	n, err := w.buf.Write(p)
	w.written += int64(n)

	if err != nil {
		return fmt.Errorf("varint: write raw: %w", err)
	}

	return nil
}
