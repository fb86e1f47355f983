package loader

import (
	"encoding/binary"
	"fmt"
)

// decodeAnimValue reads the value of one animated channel at frame from a run-length encoded
// stream starting at off.
//
// The stream is a sequence of runs. Each run starts with a header word holding a byte count of
// stored values (valid) and a byte count of frames covered (total), followed by valid 16-bit
// values. Frames past the stored values of a run repeat its last stored value.
func decodeAnimValue(data []byte, off, frame int) (int16, error) {
	k := frame
	for {
		if off < 0 || off+2 > len(data) {
			return 0, fmt.Errorf("animation run at %d outside file of %d bytes", off, len(data))
		}
		valid, total := int(data[off]), int(data[off+1])
		if total == 0 {
			return 0, fmt.Errorf("animation run at %d covers no frames", off)
		}
		if valid == 0 {
			return 0, fmt.Errorf("animation run at %d stores no values", off)
		}
		if total > k {
			idx := valid
			if valid > k {
				idx = k + 1
			}
			p := off + idx*2
			if p+2 > len(data) {
				return 0, fmt.Errorf("animation value at %d outside file of %d bytes", p, len(data))
			}
			return int16(binary.LittleEndian.Uint16(data[p:])), nil
		}
		k -= total
		off += (valid + 1) * 2
	}
}
