package bind_group_provider

import (
	"fmt"
	"sync"

	"github.com/cogentcore/webgpu/wgpu"
)

// bindGroupProvider is the unexported implementation of BindGroupProvider.
type bindGroupProvider struct {
	mu    sync.RWMutex
	label string

	// sizes is the byte size of each binding's buffer, known before the GPU objects exist.
	sizes map[int]uint64

	// GPU objects, set by the Renderer in InitBindGroup and freed by Release.
	bindGroup       *wgpu.BindGroup
	bindGroupLayout *wgpu.BindGroupLayout
	buffers         map[int]*wgpu.Buffer
}

// BindGroupProvider holds the GPU buffers and bind group of one component, such as a skinning
// palette. The component stages BufferWrites against its provider; the Renderer creates the
// provider's GPU objects in InitBindGroup and copies staged bytes into them in WriteBuffers.
//
// Sizes are recorded per binding so a write can be checked against its buffer before any GPU
// object exists, which is how headless runs and tests validate uploads.
type BindGroupProvider interface {
	// Label returns the debug label for this provider.
	//
	// Returns:
	//   - string: the debug label
	Label() string

	// BufferSize returns the byte size recorded for a binding.
	//
	// Parameters:
	//   - binding: the binding index
	//
	// Returns:
	//   - uint64: the size in bytes
	//   - bool: false if no size is recorded for the binding
	BufferSize(binding int) (uint64, bool)

	// SetBufferSize records the byte size of a binding's buffer.
	//
	// Parameters:
	//   - binding: the binding index
	//   - size: the size in bytes
	SetBufferSize(binding int, size uint64)

	// Fits reports whether a write lands inside its binding's buffer.
	//
	// Parameters:
	//   - w: the write to check
	//
	// Returns:
	//   - error: nil if the write fits, otherwise an error naming the binding and the overrun
	Fits(w BufferWrite) error

	// BindGroup returns the bind group, or nil before InitBindGroup.
	//
	// Returns:
	//   - *wgpu.BindGroup: the bind group or nil
	BindGroup() *wgpu.BindGroup

	// BindGroupLayout returns the bind group layout, or nil before InitBindGroup.
	//
	// Returns:
	//   - *wgpu.BindGroupLayout: the bind group layout or nil
	BindGroupLayout() *wgpu.BindGroupLayout

	// Buffer returns the buffer of a binding, or nil before InitBindGroup.
	//
	// Parameters:
	//   - binding: the binding index
	//
	// Returns:
	//   - *wgpu.Buffer: the buffer or nil
	Buffer(binding int) *wgpu.Buffer

	// SetBindGroup stores the bind group created by the Renderer.
	//
	// Parameters:
	//   - bg: the created bind group
	SetBindGroup(bg *wgpu.BindGroup)

	// SetBindGroupLayout stores the bind group layout created by the Renderer.
	//
	// Parameters:
	//   - bgl: the created bind group layout
	SetBindGroupLayout(bgl *wgpu.BindGroupLayout)

	// SetBuffer stores the buffer created by the Renderer for a binding.
	//
	// Parameters:
	//   - binding: the binding index
	//   - buf: the created buffer
	SetBuffer(binding int, buf *wgpu.Buffer)

	// Release frees every GPU object held by the provider. Recorded sizes are kept so the
	// provider can be initialized again.
	Release()
}

var _ BindGroupProvider = &bindGroupProvider{}

// NewBindGroupProvider creates a BindGroupProvider with no GPU objects.
//
// Parameters:
//   - label: the debug label used for GPU object names
//   - options: a variadic list of BindGroupProviderOption functions
//
// Returns:
//   - BindGroupProvider: the new provider
func NewBindGroupProvider(label string, options ...BindGroupProviderOption) BindGroupProvider {
	p := &bindGroupProvider{
		label:   label,
		sizes:   make(map[int]uint64),
		buffers: make(map[int]*wgpu.Buffer),
	}
	for _, opt := range options {
		opt(p)
	}
	return p
}

func (p *bindGroupProvider) Label() string {
	return p.label
}

func (p *bindGroupProvider) BufferSize(binding int) (uint64, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	size, ok := p.sizes[binding]
	return size, ok
}

func (p *bindGroupProvider) SetBufferSize(binding int, size uint64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.sizes[binding] = size
}

func (p *bindGroupProvider) Fits(w BufferWrite) error {
	size, ok := p.BufferSize(w.Binding)
	if !ok {
		return fmt.Errorf("%s: no buffer at binding %d", p.label, w.Binding)
	}
	if w.End() > size {
		return fmt.Errorf("%s: write %s overruns %d byte buffer", p.label, w, size)
	}
	return nil
}

func (p *bindGroupProvider) BindGroup() *wgpu.BindGroup {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.bindGroup
}

func (p *bindGroupProvider) BindGroupLayout() *wgpu.BindGroupLayout {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.bindGroupLayout
}

func (p *bindGroupProvider) Buffer(binding int) *wgpu.Buffer {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.buffers[binding]
}

func (p *bindGroupProvider) SetBindGroup(bg *wgpu.BindGroup) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.bindGroup = bg
}

func (p *bindGroupProvider) SetBindGroupLayout(bgl *wgpu.BindGroupLayout) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.bindGroupLayout = bgl
}

func (p *bindGroupProvider) SetBuffer(binding int, buf *wgpu.Buffer) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.buffers[binding] = buf
}

func (p *bindGroupProvider) Release() {
	p.mu.Lock()
	defer p.mu.Unlock()

	for binding, buf := range p.buffers {
		buf.Release()
		delete(p.buffers, binding)
	}
	if p.bindGroup != nil {
		p.bindGroup.Release()
		p.bindGroup = nil
	}
	if p.bindGroupLayout != nil {
		p.bindGroupLayout.Release()
		p.bindGroupLayout = nil
	}
}
