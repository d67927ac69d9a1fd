package varint

import (
	"bytes"
	"math"
	"testing"
)

func TestUvarintRoundTrip(t *testing.T) {
	t.Parallel()

	cases := []uint64{0, 1, 63, 64, 127, 128, 300, 1 << 20, math.MaxUint32, math.MaxUint64}

	for _, v := range cases {
		var buf bytes.Buffer

		w := NewWriter(&buf)
		if err := w.WriteUvarint(v); err != nil {
			t.Fatalf("write %d: %v", v, err)
		}

		if err := w.Flush(); err != nil {
			t.Fatalf("flush: %v", err)
		}

		got, err := NewReader(&buf).ReadUvarint()
		if err != nil {
			t.Fatalf("read %d: %v", v, err)
		}

		if got != v {
			t.Fatalf("round trip %d, got %d", v, got)
		}
	}
}

func TestUvarintByteLength(t *testing.T) {
	t.Parallel()

	cases := map[uint64]int{
		0:            1,
		1:            1,
		127:          1,
		128:          2,
		16383:        2,
		16384:        3,
		math.MaxUint64: 10,
	}

	for v, wantLen := range cases {
		var buf bytes.Buffer

		w := NewWriter(&buf)
		if err := w.WriteUvarint(v); err != nil {
			t.Fatalf("write %d: %v", v, err)
		}

		if err := w.Flush(); err != nil {
			t.Fatalf("flush: %v", err)
		}

		if buf.Len() != wantLen {
			t.Fatalf("value %d: got %d bytes, want %d", v, buf.Len(), wantLen)
		}
	}
}

func TestVarintRoundTrip(t *testing.T) {
	t.Parallel()

	cases := []int64{0, 1, -1, 63, -64, 64, -65, 1 << 30, -(1 << 30), math.MaxInt64, math.MinInt64}

	for _, v := range cases {
		var buf bytes.Buffer

		w := NewWriter(&buf)
		if err := w.WriteVarint(v); err != nil {
			t.Fatalf("write %d: %v", v, err)
		}

		if err := w.Flush(); err != nil {
			t.Fatalf("flush: %v", err)
		}

		got, err := NewReader(&buf).ReadVarint()
		if err != nil {
			t.Fatalf("read %d: %v", v, err)
		}

		if got != v {
			t.Fatalf("round trip %d, got %d", v, got)
		}
	}
}

func TestFloat64RoundTripPreservesNaNPayload(t *testing.T) {
	t.Parallel()

	nan := math.Float64frombits(0x7ff8000000000001)

	var buf bytes.Buffer

	w := NewWriter(&buf)
	if err := w.WriteFloat64(nan); err != nil {
		t.Fatalf("write: %v", err)
	}

	if err := w.Flush(); err != nil {
		t.Fatalf("flush: %v", err)
	}

	got, err := NewReader(&buf).ReadFloat64()
	if err != nil {
		t.Fatalf("read: %v", err)
	}

	if math.Float64bits(got) != math.Float64bits(nan) {
		t.Fatalf("NaN payload not preserved: got %x, want %x", math.Float64bits(got), math.Float64bits(nan))
	}
}

func TestReadUvarintTruncated(t *testing.T) {
	t.Parallel()

	// Continuation bit set, then nothing.
	_, err := NewReader(bytes.NewReader([]byte{0x80})).ReadUvarint()
	if err == nil {
		t.Fatalf("expected truncation error")
	}
}

func TestReadUvarintOverflow(t *testing.T) {
	t.Parallel()

	overlong := bytes.Repeat([]byte{0x80}, 11)

	_, err := NewReader(bytes.NewReader(overlong)).ReadUvarint()
	if err == nil {
		t.Fatalf("expected overflow error")
	}
}

func TestRawBytesRoundTrip(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	w := NewWriter(&buf)
	if err := w.WriteRaw([]byte("hello, 世界")); err != nil {
		t.Fatalf("write: %v", err)
	}

	if err := w.Flush(); err != nil {
		t.Fatalf("flush: %v", err)
	}

	got, err := NewReader(&buf).ReadRaw(len("hello, 世界"))
	if err != nil {
		t.Fatalf("read: %v", err)
	}

	if string(got) != "hello, 世界" {
		t.Fatalf("got %q", got)
	}
}
