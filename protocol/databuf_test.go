package protocol

import (
	"bytes"
	"math"
	"testing"
)

func TestDataBufferCursorRoundTrip(t *testing.T) {
	d := NewDataBuffer(64)
	d.WriteUint8(0x7F)
	d.WriteInt32(-12345)
	d.WriteUint32(0xDEADBEEF)
	d.WriteInt64(-1 << 40)
	d.WriteFloat32(3.25)
	d.WriteFloat64(-47.25)
	if err := d.Err(); err != nil {
		t.Fatalf("write error: %v", err)
	}

	want := 1 + 4 + 4 + 8 + 4 + 8
	if d.Len() != want {
		t.Fatalf("Len() = %d, want %d", d.Len(), want)
	}

	d.Reset()
	if got := d.ReadUint8(); got != 0x7F {
		t.Errorf("ReadUint8 = 0x%x", got)
	}
	if got := d.ReadInt32(); got != -12345 {
		t.Errorf("ReadInt32 = %d", got)
	}
	if got := d.ReadUint32(); got != 0xDEADBEEF {
		t.Errorf("ReadUint32 = 0x%x", got)
	}
	if got := d.ReadInt64(); got != -1<<40 {
		t.Errorf("ReadInt64 = %d", got)
	}
	if got := d.ReadFloat32(); got != 3.25 {
		t.Errorf("ReadFloat32 = %v", got)
	}
	if got := d.ReadFloat64(); got != -47.25 {
		t.Errorf("ReadFloat64 = %v", got)
	}
	if err := d.Err(); err != nil {
		t.Fatalf("read error: %v", err)
	}
	if d.Remaining() != 0 {
		t.Errorf("Remaining() = %d after full read", d.Remaining())
	}
}

func TestDataBufferLittleEndian(t *testing.T) {
	d := NewDataBuffer(8)
	d.WriteUint32(0x01020304)
	want := []byte{0x04, 0x03, 0x02, 0x01}
	if !bytes.Equal(d.Bytes(), want) {
		t.Fatalf("layout = % x, want % x", d.Bytes(), want)
	}
}

func TestDataBufferFixedString(t *testing.T) {
	d := NewDataBuffer(32)
	d.WriteString("KSEA", 8)
	if d.Len() != 8 {
		t.Fatalf("Len() = %d, want 8", d.Len())
	}
	want := []byte{'K', 'S', 'E', 'A', 0, 0, 0, 0}
	if !bytes.Equal(d.Bytes(), want) {
		t.Fatalf("layout = % x, want % x", d.Bytes(), want)
	}

	d.Reset()
	if got := d.ReadString(8); got != "KSEA" {
		t.Errorf("ReadString = %q, want %q (padding must be trimmed)", got, "KSEA")
	}
}

func TestDataBufferFixedStringTruncates(t *testing.T) {
	d := NewDataBuffer(8)
	d.WriteString("ABCDEFGH", 4)
	d.Reset()
	if got := d.ReadString(4); got != "ABCD" {
		t.Fatalf("ReadString = %q, want %q", got, "ABCD")
	}
}

func TestDataBufferStringV(t *testing.T) {
	d := NewDataBuffer(32)
	d.WriteStringV("METAR KSEA")
	d.WriteUint32(7)

	d.Reset()
	if got := d.ReadStringV(); got != "METAR KSEA" {
		t.Fatalf("ReadStringV = %q", got)
	}
	if got := d.ReadUint32(); got != 7 {
		t.Fatalf("value after terminator = %d, want 7", got)
	}
}

func TestDataBufferStringVWithoutTerminator(t *testing.T) {
	d := Wrap([]byte("no terminator"))
	if got := d.ReadStringV(); got != "no terminator" {
		t.Fatalf("ReadStringV = %q", got)
	}
	if d.Remaining() != 0 {
		t.Fatalf("Remaining() = %d, want 0", d.Remaining())
	}
}

func TestDataBufferOffsetAccessLeavesCursor(t *testing.T) {
	d := NewDataBuffer(32)
	d.Extend(16)
	pos := d.Pos()
	d.WriteUint32At(4, 99)
	d.WriteFloat64At(8, 2.5)
	if d.Pos() != pos {
		t.Fatalf("cursor moved by offset write: %d -> %d", pos, d.Pos())
	}
	if got := d.ReadUint32At(4); got != 99 {
		t.Errorf("ReadUint32At(4) = %d", got)
	}
	if got := d.ReadFloat64At(8); got != 2.5 {
		t.Errorf("ReadFloat64At(8) = %v", got)
	}
	if d.Pos() != pos {
		t.Fatalf("cursor moved by offset read: %d -> %d", pos, d.Pos())
	}
}

func TestDataBufferExtendReservesZeroes(t *testing.T) {
	d := NewDataBuffer(32)
	d.Extend(16)
	if d.Len() != 16 || d.Pos() != 16 {
		t.Fatalf("after Extend(16): Len=%d Pos=%d", d.Len(), d.Pos())
	}
	for i, b := range d.Bytes() {
		if b != 0 {
			t.Fatalf("byte %d = 0x%x, want 0", i, b)
		}
	}
	d.WriteUint32(1)
	if d.Len() != 20 {
		t.Fatalf("Len = %d after payload write, want 20", d.Len())
	}
}

func TestDataBufferStickyError(t *testing.T) {
	d := Wrap([]byte{1, 2})
	if got := d.ReadUint32(); got != 0 {
		t.Fatalf("short read returned %d, want 0", got)
	}
	if d.Err() == nil {
		t.Fatal("short read did not latch an error")
	}
	first := d.Err()

	// Further accesses keep the first error.
	d.ReadFloat64()
	if d.Err() != first {
		t.Fatalf("sticky error replaced: %v", d.Err())
	}

	d.Reset()
	if d.Err() != nil {
		t.Fatalf("Reset did not clear error: %v", d.Err())
	}
}

func TestDataBufferCursorClampedAfterShortRead(t *testing.T) {
	d := Wrap([]byte{1, 2, 3})
	d.ReadUint32() // fails, only 3 bytes present
	if d.Err() == nil {
		t.Fatal("short read did not latch an error")
	}
	if d.Pos() > d.Len() {
		t.Fatalf("cursor %d past end %d after failed read", d.Pos(), d.Len())
	}

	// A variable string read after the failure must not panic.
	if got := d.ReadStringV(); got != "" {
		t.Fatalf("ReadStringV after failed read = %q, want \"\"", got)
	}
}

func TestDataBufferReadBytesRejectsOversizedCount(t *testing.T) {
	d := Wrap(make([]byte, 8))
	out := d.ReadBytes(1 << 30)
	if out != nil {
		t.Fatalf("oversized ReadBytes returned %d bytes, want nil", len(out))
	}
	if d.Err() == nil {
		t.Fatal("oversized ReadBytes did not latch an error")
	}

	neg := Wrap(make([]byte, 8))
	if out := neg.ReadBytes(-4); out != nil || neg.Err() == nil {
		t.Fatal("negative ReadBytes did not fail cleanly")
	}
}

func TestDataBufferSeekOutOfRange(t *testing.T) {
	d := Wrap(make([]byte, 8))
	d.Seek(9)
	if d.Err() == nil {
		t.Fatal("Seek past end did not latch an error")
	}
}

func TestDataBufferFieldIndex(t *testing.T) {
	d := NewDataBuffer(32)
	d.WriteFloat64(111.5)
	d.WriteInt32(-4)
	d.WriteString("N123AB", 12)

	d.MapField("altitude", 0)
	d.MapField("count", 8)
	d.MapField("tail", 12)

	if got := d.ReadFloat64Field("altitude"); got != 111.5 {
		t.Errorf("altitude = %v", got)
	}
	if got := d.ReadInt32Field("count"); got != -4 {
		t.Errorf("count = %d", got)
	}
	if got := d.ReadStringField("tail", 12); got != "N123AB" {
		t.Errorf("tail = %q", got)
	}

	d.WriteFloat64Field("altitude", 99.25)
	if got := d.ReadFloat64Field("altitude"); got != 99.25 {
		t.Errorf("altitude after field write = %v", got)
	}
	if err := d.Err(); err != nil {
		t.Fatalf("field access error: %v", err)
	}
}

func TestDataBufferUnmappedField(t *testing.T) {
	d := NewDataBuffer(8)
	d.WriteFloat64(1)
	if got := d.ReadFloat64Field("missing"); got != 0 {
		t.Fatalf("unmapped field returned %v, want 0", got)
	}
	if d.Err() == nil {
		t.Fatal("unmapped field did not latch an error")
	}
}

func TestDataBufferFloatBits(t *testing.T) {
	d := NewDataBuffer(8)
	d.WriteFloat64(math.Pi)
	d.Reset()
	if got := d.ReadFloat64(); got != math.Pi {
		t.Fatalf("float64 round trip: %v", got)
	}
}

func TestDataBufferClear(t *testing.T) {
	d := NewDataBuffer(16)
	d.WriteUint32(1)
	d.MapField("x", 0)
	d.Clear()
	if d.Len() != 0 || d.Pos() != 0 || d.Err() != nil {
		t.Fatalf("after Clear: Len=%d Pos=%d Err=%v", d.Len(), d.Pos(), d.Err())
	}
	if _, ok := d.FieldOffset("x"); ok {
		t.Fatal("Clear kept the field index")
	}
}
