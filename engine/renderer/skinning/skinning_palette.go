package skinning

import (
	"fmt"
	"sync"

	"github.com/Carmen-Shannon/oxy-mdl/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-mdl/engine/renderer/shader"
	"github.com/Carmen-Shannon/oxy-mdl/engine/studio"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/go-gl/mathgl/mgl32"
)

// MaxSkinningBones is the fixed palette length consumed by skinning shaders.
const MaxSkinningBones = studio.MaxBones

const (
	headerSize  = 16
	matrixSize  = 64
	paletteSize = MaxSkinningBones * matrixSize
)

// reflectSkinning parses the buffer declarations of GPUSkinningSource once.
var reflectSkinning = sync.OnceValues(func() (*shader.Reflection, error) {
	r, err := shader.Reflect(GPUSkinningSource, wgpu.ShaderStageVertex)
	if err != nil {
		return nil, fmt.Errorf("skinning: reflect shader: %w", err)
	}
	return r, nil
})

// GPUWriter is the part of a Renderer the palette needs to create and fill its buffers.
type GPUWriter interface {
	InitBindGroup(provider bind_group_provider.BindGroupProvider, descriptor wgpu.BindGroupLayoutDescriptor, bufferSizeOverrides map[int]uint64) error
	WriteBuffers(writes []bind_group_provider.BufferWrite)
}

// skinningPalette is the implementation of the SkinningPalette interface.
type skinningPalette struct {
	mu sync.Mutex

	model    studio.StudioModel
	provider bind_group_provider.BindGroupProvider

	label          string
	headerBinding  int
	paletteBinding int
	visibility     wgpu.ShaderStage

	header   GPUSkinningHeader
	matrices [MaxSkinningBones]mgl32.Mat4
	packed   []byte
	dirty    bool

	stagedWriteData []bind_group_provider.BufferWrite
}

// SkinningPalette turns a posed skeleton into the matrices a skinning shader consumes.
//
// Entry i of the palette is absolute[i] * offset[i], where absolute comes from the animation
// session and offset is the bone's inverse bind matrix. Entries past the model's bone count are
// identity. Updated palettes are staged as BufferWrites against the palette's BindGroupProvider
// and drained by the Renderer, following the same Flush / StagedWriteData contract the rest of
// the GPU-facing components use.
type SkinningPalette interface {
	// Model returns the model whose offsets the palette applies.
	//
	// Returns:
	//   - studio.StudioModel: the model
	Model() studio.StudioModel

	// Provider returns the BindGroupProvider that holds the palette's GPU buffers.
	//
	// Returns:
	//   - bind_group_provider.BindGroupProvider: the provider
	Provider() bind_group_provider.BindGroupProvider

	// LayoutDescriptor returns the bind group layout of the header uniform and the palette storage buffer.
	//
	// Returns:
	//   - wgpu.BindGroupLayoutDescriptor: the layout descriptor
	LayoutDescriptor() wgpu.BindGroupLayoutDescriptor

	// BufferSizes returns the byte size of each buffer keyed by binding index.
	//
	// Returns:
	//   - map[int]uint64: buffer sizes
	BufferSizes() map[int]uint64

	// Update recomputes the palette from a full set of absolute bone transforms.
	//
	// Parameters:
	//   - transforms: one absolute transform per bone, as returned by Session.Tick
	//
	// Returns:
	//   - error: an error when the transform count does not match the model's bone count
	Update(transforms []mgl32.Mat4) error

	// SetPlayhead records which sequence and frame the current palette was evaluated at.
	//
	// Parameters:
	//   - sequence: the sequence index
	//   - frame: the playhead
	SetPlayhead(sequence int, frame float32)

	// Matrices returns a copy of all MaxSkinningBones palette entries.
	//
	// Returns:
	//   - []mgl32.Mat4: the palette
	Matrices() []mgl32.Mat4

	// Bytes returns the packed palette as uploaded to the GPU.
	//
	// Returns:
	//   - []byte: MaxSkinningBones * 64 bytes
	Bytes() []byte

	// Flush stages the header and palette as GPU buffer writes when they changed since the last flush.
	//
	// Returns:
	//   - bool: true if writes were staged
	Flush() bool

	// StagedWriteData returns and clears the pending GPU buffer writes.
	// The Renderer should call this to drain staged writes and submit them via WriteBuffers.
	//
	// Returns:
	//   - []bind_group_provider.BufferWrite: the slice of pending buffer writes
	StagedWriteData() []bind_group_provider.BufferWrite

	// InitGPU creates the palette's buffers and bind group through w.
	//
	// Parameters:
	//   - w: the GPU writer, normally a renderer.Renderer
	//
	// Returns:
	//   - error: an error if GPU resource creation fails
	InitGPU(w GPUWriter) error

	// Upload flushes the palette and submits any staged writes through w.
	//
	// Parameters:
	//   - w: the GPU writer, normally a renderer.Renderer
	Upload(w GPUWriter)

	// Release frees the palette's GPU resources.
	Release()
}

var _ SkinningPalette = &skinningPalette{}

// NewSkinningPalette creates a palette for model with every entry set to identity.
// Panics if model is nil.
//
// Parameters:
//   - model: the model whose bone offsets the palette applies
//   - options: a variadic list of SkinningPaletteBuilderOption functions
//
// Returns:
//   - SkinningPalette: the new palette
func NewSkinningPalette(model studio.StudioModel, options ...SkinningPaletteBuilderOption) SkinningPalette {
	if model == nil {
		panic("skinning: NewSkinningPalette requires a model")
	}

	p := &skinningPalette{
		model:          model,
		label:          model.Name() + "_skinning",
		headerBinding:  0,
		paletteBinding: 1,
		visibility:     wgpu.ShaderStageVertex | wgpu.ShaderStageCompute,
		packed:         make([]byte, paletteSize),
		dirty:          true,
	}
	for _, option := range options {
		option(p)
	}

	p.provider = bind_group_provider.NewBindGroupProvider(p.label, bind_group_provider.WithBufferSizes(p.BufferSizes()))
	p.header.BoneCount = uint32(len(model.Bones()))
	for i := range p.matrices {
		p.matrices[i] = mgl32.Ident4()
		p.pack(i)
	}
	p.stagedWriteData = make([]bind_group_provider.BufferWrite, 0, 2)
	return p
}

func (p *skinningPalette) Model() studio.StudioModel {
	return p.model
}

func (p *skinningPalette) Provider() bind_group_provider.BindGroupProvider {
	return p.provider
}

func (p *skinningPalette) LayoutDescriptor() wgpu.BindGroupLayoutDescriptor {
	r, err := reflectSkinning()
	if err != nil {
		panic(err)
	}
	header, _ := r.Binding("skinning_header")
	palette, _ := r.Binding("bone_palette")

	header.Entry.Binding = uint32(p.headerBinding)
	header.Entry.Visibility = p.visibility
	palette.Entry.Binding = uint32(p.paletteBinding)
	palette.Entry.Visibility = p.visibility

	return wgpu.BindGroupLayoutDescriptor{
		Label:   p.label + " Layout",
		Entries: []wgpu.BindGroupLayoutEntry{header.Entry, palette.Entry},
	}
}

func (p *skinningPalette) BufferSizes() map[int]uint64 {
	return map[int]uint64{
		p.headerBinding:  headerSize,
		p.paletteBinding: paletteSize,
	}
}

func (p *skinningPalette) Update(transforms []mgl32.Mat4) error {
	bones := p.model.Bones()
	if len(transforms) != len(bones) {
		return fmt.Errorf("skinning: got %d transforms for %d bones", len(transforms), len(bones))
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	for i := range bones {
		p.matrices[i] = transforms[i].Mul4(bones[i].OffsetMatrix)
		p.pack(i)
	}
	p.dirty = true
	return nil
}

func (p *skinningPalette) SetPlayhead(sequence int, frame float32) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.header.Sequence == uint32(sequence) && p.header.Frame == frame {
		return
	}
	p.header.Sequence = uint32(sequence)
	p.header.Frame = frame
	p.dirty = true
}

func (p *skinningPalette) Matrices() []mgl32.Mat4 {
	p.mu.Lock()
	defer p.mu.Unlock()

	out := make([]mgl32.Mat4, MaxSkinningBones)
	copy(out, p.matrices[:])
	return out
}

func (p *skinningPalette) Bytes() []byte {
	p.mu.Lock()
	defer p.mu.Unlock()

	out := make([]byte, len(p.packed))
	copy(out, p.packed)
	return out
}

func (p *skinningPalette) Flush() bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.dirty {
		return false
	}

	data := make([]byte, len(p.packed))
	copy(data, p.packed)
	p.stagedWriteData = append(p.stagedWriteData,
		bind_group_provider.BufferWrite{
			Provider: p.provider,
			Binding:  p.headerBinding,
			Offset:   0,
			Data:     p.header.Marshal(),
		},
		bind_group_provider.BufferWrite{
			Provider: p.provider,
			Binding:  p.paletteBinding,
			Offset:   0,
			Data:     data,
		},
	)
	p.dirty = false
	return true
}

func (p *skinningPalette) StagedWriteData() []bind_group_provider.BufferWrite {
	p.mu.Lock()
	defer p.mu.Unlock()

	w := p.stagedWriteData
	p.stagedWriteData = make([]bind_group_provider.BufferWrite, 0, 2)
	return w
}

func (p *skinningPalette) InitGPU(w GPUWriter) error {
	if err := w.InitBindGroup(p.provider, p.LayoutDescriptor(), p.BufferSizes()); err != nil {
		return fmt.Errorf("skinning: init %s: %w", p.label, err)
	}
	return nil
}

func (p *skinningPalette) Upload(w GPUWriter) {
	p.Flush()
	if writes := p.StagedWriteData(); len(writes) > 0 {
		w.WriteBuffers(writes)
	}
}

func (p *skinningPalette) Release() {
	p.provider.Release()
}

// pack writes palette entry i into the packed upload buffer.
func (p *skinningPalette) pack(i int) {
	m := GPUBoneMatrix{Matrix: p.matrices[i]}
	m.marshalInto(p.packed[i*matrixSize : (i+1)*matrixSize])
}
