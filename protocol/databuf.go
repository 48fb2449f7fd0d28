package protocol

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"
)

// DataBuffer wraps a byte slice with a forward-moving cursor for reading and
// writing little-endian primitives, fixed-width strings, and structured
// values. Every accessor exists in two forms: at the cursor (advancing it) or
// at an explicit byte offset (leaving the cursor untouched). A name-to-offset
// index lets callers address payload fields symbolically.
//
// Reads past the end do not panic: they return zero values and latch a sticky
// error retrievable through Err, so a decode path can run a full sequence of
// accessors and check once at the end.
type DataBuffer struct {
	buf    []byte
	pos    int
	err    error
	fields map[string]int
}

// NewDataBuffer returns an empty buffer with the given initial capacity.
func NewDataBuffer(capacity int) *DataBuffer {
	return &DataBuffer{buf: make([]byte, 0, capacity)}
}

// Wrap returns a buffer reading from b, cursor at byte 0. The slice is not
// copied; the caller must not reuse it while the buffer is live.
func Wrap(b []byte) *DataBuffer {
	return &DataBuffer{buf: b}
}

// Len returns the number of bytes currently in the buffer.
func (d *DataBuffer) Len() int { return len(d.buf) }

// Pos returns the current cursor position.
func (d *DataBuffer) Pos() int { return d.pos }

// Remaining returns the number of unread bytes after the cursor.
func (d *DataBuffer) Remaining() int { return len(d.buf) - d.pos }

// Bytes returns the underlying byte slice.
func (d *DataBuffer) Bytes() []byte { return d.buf }

// Err returns the sticky error latched by an out-of-range access, if any.
func (d *DataBuffer) Err() error { return d.err }

// Reset rewinds the cursor to byte 0 and clears the sticky error, keeping
// the contents. Used to re-read the same payload from the start.
func (d *DataBuffer) Reset() {
	d.pos = 0
	d.err = nil
}

// Clear empties the buffer for reuse as a write scratch.
func (d *DataBuffer) Clear() {
	d.buf = d.buf[:0]
	d.pos = 0
	d.err = nil
	d.fields = nil
}

// Extend appends n zero bytes and advances the cursor past them. Used to
// reserve space (such as a frame header) that is filled in later.
func (d *DataBuffer) Extend(n int) {
	d.region(d.pos, n)
	d.pos += n
}

// Seek moves the cursor to an absolute offset.
func (d *DataBuffer) Seek(off int) {
	if off < 0 || off > len(d.buf) {
		d.fail(off, 0)
		return
	}
	d.pos = off
}

// Skip advances the cursor by n bytes.
func (d *DataBuffer) Skip(n int) {
	d.Seek(d.pos + n)
}

func (d *DataBuffer) fail(off, n int) {
	if d.err == nil {
		d.err = fmt.Errorf("data buffer access out of range: offset %d size %d len %d", off, n, len(d.buf))
	}
}

// region grows the buffer so that [off, off+n) is addressable for writing.
func (d *DataBuffer) region(off, n int) []byte {
	if off < 0 || n < 0 {
		d.fail(off, n)
		return make([]byte, max(n, 0))
	}
	for len(d.buf) < off+n {
		d.buf = append(d.buf, 0)
	}
	return d.buf[off : off+n]
}

// take returns [off, off+n) for reading, or nil with the sticky error set.
func (d *DataBuffer) take(off, n int) []byte {
	if off < 0 || n < 0 || off+n > len(d.buf) {
		d.fail(off, n)
		return nil
	}
	return d.buf[off : off+n]
}

// advance moves the cursor forward by n, clamped to the buffer end so a
// failed read can never leave the cursor out of range.
func (d *DataBuffer) advance(n int) {
	if n > 0 {
		d.pos += n
	}
	if d.pos > len(d.buf) {
		d.pos = len(d.buf)
	}
}

// ---- writes at the cursor ----

func (d *DataBuffer) WriteUint8(v byte) {
	d.WriteUint8At(d.pos, v)
	d.pos++
}

func (d *DataBuffer) WriteInt32(v int32) { d.WriteUint32(uint32(v)) }

func (d *DataBuffer) WriteUint32(v uint32) {
	d.WriteUint32At(d.pos, v)
	d.pos += 4
}

func (d *DataBuffer) WriteInt64(v int64) {
	d.WriteInt64At(d.pos, v)
	d.pos += 8
}

func (d *DataBuffer) WriteFloat32(v float32) {
	d.WriteFloat32At(d.pos, v)
	d.pos += 4
}

func (d *DataBuffer) WriteFloat64(v float64) {
	d.WriteFloat64At(d.pos, v)
	d.pos += 8
}

// WriteString writes s left-justified into a fixed-width field, zero-padded
// and truncated to width bytes.
func (d *DataBuffer) WriteString(s string, width int) {
	d.WriteStringAt(d.pos, s, width)
	d.pos += width
}

// WriteStringV writes s as a null-terminated variable-width string.
func (d *DataBuffer) WriteStringV(s string) {
	d.WriteBytes([]byte(s))
	d.WriteUint8(0)
}

func (d *DataBuffer) WriteBytes(b []byte) {
	copy(d.region(d.pos, len(b)), b)
	d.pos += len(b)
}

// ---- writes at an explicit offset ----

func (d *DataBuffer) WriteUint8At(off int, v byte) {
	r := d.region(off, 1)
	r[0] = v
}

func (d *DataBuffer) WriteInt32At(off int, v int32) { d.WriteUint32At(off, uint32(v)) }

func (d *DataBuffer) WriteUint32At(off int, v uint32) {
	binary.LittleEndian.PutUint32(d.region(off, 4), v)
}

func (d *DataBuffer) WriteInt64At(off int, v int64) {
	binary.LittleEndian.PutUint64(d.region(off, 8), uint64(v))
}

func (d *DataBuffer) WriteFloat32At(off int, v float32) {
	binary.LittleEndian.PutUint32(d.region(off, 4), math.Float32bits(v))
}

func (d *DataBuffer) WriteFloat64At(off int, v float64) {
	binary.LittleEndian.PutUint64(d.region(off, 8), math.Float64bits(v))
}

func (d *DataBuffer) WriteStringAt(off int, s string, width int) {
	r := d.region(off, width)
	for i := range r {
		r[i] = 0
	}
	b := []byte(s)
	if len(b) > width {
		b = b[:width]
	}
	copy(r, b)
}

// ---- reads at the cursor ----

func (d *DataBuffer) ReadUint8() byte {
	v := d.ReadUint8At(d.pos)
	d.advance(1)
	return v
}

func (d *DataBuffer) ReadInt32() int32 { return int32(d.ReadUint32()) }

func (d *DataBuffer) ReadUint32() uint32 {
	v := d.ReadUint32At(d.pos)
	d.advance(4)
	return v
}

func (d *DataBuffer) ReadInt64() int64 {
	v := d.ReadInt64At(d.pos)
	d.advance(8)
	return v
}

func (d *DataBuffer) ReadFloat32() float32 {
	v := d.ReadFloat32At(d.pos)
	d.advance(4)
	return v
}

func (d *DataBuffer) ReadFloat64() float64 {
	v := d.ReadFloat64At(d.pos)
	d.advance(8)
	return v
}

// ReadString reads a fixed-width field and trims the zero padding.
func (d *DataBuffer) ReadString(width int) string {
	v := d.ReadStringAt(d.pos, width)
	d.advance(width)
	return v
}

// ReadStringV reads a null-terminated variable-width string, consuming the
// terminator. Without a terminator it consumes the rest of the buffer.
func (d *DataBuffer) ReadStringV() string {
	rest := d.buf[d.pos:]
	i := bytes.IndexByte(rest, 0)
	if i < 0 {
		d.pos = len(d.buf)
		return string(rest)
	}
	d.pos += i + 1
	return string(rest[:i])
}

// ReadBytes reads n raw bytes as a copy. A short or negative request latches
// the sticky error and returns nil: the declared n is never trusted for
// allocation, so a lying count field in a frame cannot force a huge buffer.
func (d *DataBuffer) ReadBytes(n int) []byte {
	src := d.take(d.pos, n)
	d.advance(n)
	if src == nil {
		return nil
	}
	out := make([]byte, n)
	copy(out, src)
	return out
}

// ---- reads at an explicit offset ----

func (d *DataBuffer) ReadUint8At(off int) byte {
	r := d.take(off, 1)
	if r == nil {
		return 0
	}
	return r[0]
}

func (d *DataBuffer) ReadInt32At(off int) int32 { return int32(d.ReadUint32At(off)) }

func (d *DataBuffer) ReadUint32At(off int) uint32 {
	r := d.take(off, 4)
	if r == nil {
		return 0
	}
	return binary.LittleEndian.Uint32(r)
}

func (d *DataBuffer) ReadInt64At(off int) int64 {
	r := d.take(off, 8)
	if r == nil {
		return 0
	}
	return int64(binary.LittleEndian.Uint64(r))
}

func (d *DataBuffer) ReadFloat32At(off int) float32 {
	r := d.take(off, 4)
	if r == nil {
		return 0
	}
	return math.Float32frombits(binary.LittleEndian.Uint32(r))
}

func (d *DataBuffer) ReadFloat64At(off int) float64 {
	r := d.take(off, 8)
	if r == nil {
		return 0
	}
	return math.Float64frombits(binary.LittleEndian.Uint64(r))
}

func (d *DataBuffer) ReadStringAt(off int, width int) string {
	r := d.take(off, width)
	if r == nil {
		return ""
	}
	return string(bytes.TrimRight(r, "\x00"))
}

// ---- symbolic field index ----

// MapField records a symbolic name for a byte offset.
func (d *DataBuffer) MapField(name string, off int) {
	if d.fields == nil {
		d.fields = make(map[string]int)
	}
	d.fields[name] = off
}

// FieldOffset resolves a previously mapped field name.
func (d *DataBuffer) FieldOffset(name string) (int, bool) {
	off, ok := d.fields[name]
	return off, ok
}

// fieldOff resolves name or latches an error and returns -1.
func (d *DataBuffer) fieldOff(name string) int {
	off, ok := d.fields[name]
	if !ok {
		if d.err == nil {
			d.err = fmt.Errorf("data buffer: unmapped field %q", name)
		}
		return -1
	}
	return off
}

// ReadInt32Field reads the int32 field mapped under name.
func (d *DataBuffer) ReadInt32Field(name string) int32 {
	off := d.fieldOff(name)
	if off < 0 {
		return 0
	}
	return d.ReadInt32At(off)
}

// ReadFloat64Field reads the float64 field mapped under name.
func (d *DataBuffer) ReadFloat64Field(name string) float64 {
	off := d.fieldOff(name)
	if off < 0 {
		return 0
	}
	return d.ReadFloat64At(off)
}

// ReadStringField reads a fixed-width string field mapped under name.
func (d *DataBuffer) ReadStringField(name string, width int) string {
	off := d.fieldOff(name)
	if off < 0 {
		return ""
	}
	return d.ReadStringAt(off, width)
}

// WriteFloat64Field writes the float64 field mapped under name.
func (d *DataBuffer) WriteFloat64Field(name string, v float64) {
	off := d.fieldOff(name)
	if off < 0 {
		return
	}
	d.WriteFloat64At(off, v)
}

// WriteInt32Field writes the int32 field mapped under name.
func (d *DataBuffer) WriteInt32Field(name string, v int32) {
	off := d.fieldOff(name)
	if off < 0 {
		return
	}
	d.WriteInt32At(off, v)
}
