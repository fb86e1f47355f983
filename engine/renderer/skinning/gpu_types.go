package skinning

import (
	_ "embed"
	"encoding/binary"
	"math"
	"unsafe"
)

// GPUSkinningSource declares the SkinningHeader and BoneMatrix structs and the palette bindings.
// Matches GPUSkinningHeader and GPUBoneMatrix layouts exactly.
//
//go:embed assets/skinning.wgsl
var GPUSkinningSource string

// GPUSkinningHeader is the GPU-aligned uniform describing the palette contents.
// Size: 16 bytes (std140 aligned).
type GPUSkinningHeader struct {
	BoneCount uint32  // offset 0: number of meaningful palette entries
	Sequence  uint32  // offset 4: sequence the palette was evaluated from
	Frame     float32 // offset 8: playhead the palette was evaluated at
	_pad      uint32  // offset 12: pad to 16 bytes
}

// Size returns the size of the GPUSkinningHeader struct in bytes.
//
// Returns:
//   - int: The size of the struct in bytes.
func (g *GPUSkinningHeader) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes the GPUSkinningHeader struct into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: 16-byte buffer ready for GPU upload.
func (g *GPUSkinningHeader) Marshal() []byte {
	buf := make([]byte, 16)
	binary.LittleEndian.PutUint32(buf[0:4], g.BoneCount)
	binary.LittleEndian.PutUint32(buf[4:8], g.Sequence)
	binary.LittleEndian.PutUint32(buf[8:12], math.Float32bits(g.Frame))
	binary.LittleEndian.PutUint32(buf[12:16], 0) // _pad
	return buf
}

// GPUBoneMatrix is one palette entry: a column-major skinning matrix.
// Size: 64 bytes (std430 aligned).
type GPUBoneMatrix struct {
	Matrix [16]float32 // offset 0, size 64 (mat4x4<f32>)
}

// Size returns the size of the GPUBoneMatrix struct in bytes.
//
// Returns:
//   - int: The size of the struct in bytes.
func (g *GPUBoneMatrix) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes the GPUBoneMatrix struct into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: 64-byte buffer ready for GPU upload.
func (g *GPUBoneMatrix) Marshal() []byte {
	buf := make([]byte, 64)
	g.marshalInto(buf)
	return buf
}

func (g *GPUBoneMatrix) marshalInto(buf []byte) {
	for i := range 16 {
		binary.LittleEndian.PutUint32(buf[i*4:(i+1)*4], math.Float32bits(g.Matrix[i]))
	}
}
