package loader

import (
	"encoding/binary"
	"fmt"
	"math"
)

// mdlReader is a bounds-checked little-endian cursor over a studio model file.
// The first out-of-range read latches err and every later read returns zero values.
type mdlReader struct {
	data []byte
	off  int
	err  error
}

func newMDLReader(data []byte) *mdlReader {
	return &mdlReader{data: data}
}

// seek moves the cursor to an absolute offset.
func (r *mdlReader) seek(off int) *mdlReader {
	if r.err == nil && (off < 0 || off > len(r.data)) {
		r.err = fmt.Errorf("offset %d outside file of %d bytes", off, len(r.data))
	}
	r.off = off
	return r
}

func (r *mdlReader) take(n int) []byte {
	if r.err != nil {
		return nil
	}
	if r.off < 0 || r.off+n > len(r.data) {
		r.err = fmt.Errorf("read of %d bytes at offset %d overruns file of %d bytes", n, r.off, len(r.data))
		return nil
	}
	b := r.data[r.off : r.off+n]
	r.off += n
	return b
}

func (r *mdlReader) readI32() int {
	b := r.take(4)
	if b == nil {
		return 0
	}
	return int(int32(binary.LittleEndian.Uint32(b)))
}

func (r *mdlReader) readU16() uint16 {
	b := r.take(2)
	if b == nil {
		return 0
	}
	return binary.LittleEndian.Uint16(b)
}

func (r *mdlReader) readF32() float32 {
	b := r.take(4)
	if b == nil {
		return 0
	}
	return math.Float32frombits(binary.LittleEndian.Uint32(b))
}

func (r *mdlReader) readVec3() [3]float32 {
	return [3]float32{r.readF32(), r.readF32(), r.readF32()}
}

// readStr reads a fixed-size, NUL-padded string field.
func (r *mdlReader) readStr(n int) string {
	b := r.take(n)
	for i, c := range b {
		if c == 0 {
			return string(b[:i])
		}
	}
	return string(b)
}

// skip advances the cursor by n bytes.
func (r *mdlReader) skip(n int) {
	r.take(n)
}

// checkTable verifies that count records of size bytes starting at off fit in the file.
func (r *mdlReader) checkTable(what string, count, off, size int) error {
	if count < 0 {
		return fmt.Errorf("negative %s count %d", what, count)
	}
	if count == 0 {
		return nil
	}
	if off < 0 || off+count*size > len(r.data) {
		return fmt.Errorf("%s table [%d, %d) outside file of %d bytes", what, off, off+count*size, len(r.data))
	}
	return nil
}
