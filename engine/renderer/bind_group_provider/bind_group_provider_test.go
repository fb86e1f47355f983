package bind_group_provider

import (
	"strings"
	"testing"
)

func TestNewBindGroupProvider(t *testing.T) {
	p := NewBindGroupProvider("palette", WithBufferSizes(map[int]uint64{0: 16, 1: 8192}))
	if p.Label() != "palette" {
		t.Fatalf("Label = %q, want palette", p.Label())
	}
	if p.BindGroup() != nil || p.BindGroupLayout() != nil || p.Buffer(0) != nil {
		t.Error("a fresh provider should hold no GPU objects")
	}
	if size, ok := p.BufferSize(1); !ok || size != 8192 {
		t.Errorf("BufferSize(1) = %d, %v", size, ok)
	}
	if _, ok := p.BufferSize(2); ok {
		t.Error("binding 2 has no recorded size")
	}
}

func TestFits(t *testing.T) {
	p := NewBindGroupProvider("palette", WithBufferSizes(map[int]uint64{0: 16}))

	if err := p.Fits(BufferWrite{Provider: p, Binding: 0, Data: make([]byte, 16)}); err != nil {
		t.Errorf("exact fit: %v", err)
	}
	err := p.Fits(BufferWrite{Provider: p, Binding: 0, Offset: 8, Data: make([]byte, 16)})
	if err == nil || !strings.Contains(err.Error(), "overruns 16 byte buffer") {
		t.Errorf("overrun: err = %v", err)
	}
	if err := p.Fits(BufferWrite{Provider: p, Binding: 3}); err == nil {
		t.Error("unknown binding should not fit")
	}

	p.SetBufferSize(3, 4)
	if err := p.Fits(BufferWrite{Provider: p, Binding: 3, Data: make([]byte, 4)}); err != nil {
		t.Errorf("after SetBufferSize: %v", err)
	}
}

func TestReleaseKeepsSizes(t *testing.T) {
	p := NewBindGroupProvider("palette", WithBufferSizes(map[int]uint64{0: 16}))
	p.Release()
	if _, ok := p.BufferSize(0); !ok {
		t.Error("Release should keep recorded sizes")
	}
}

func TestBufferWriteEnd(t *testing.T) {
	w := BufferWrite{Provider: NewBindGroupProvider("p"), Binding: 1, Offset: 64, Data: make([]byte, 16)}
	if w.End() != 80 {
		t.Errorf("End = %d, want 80", w.End())
	}
	if got, want := w.String(), "BufferWrite(p binding 1 [64, 80))"; got != want {
		t.Errorf("String = %q, want %q", got, want)
	}
	if got := (BufferWrite{}).String(); got != "BufferWrite(<nil> binding 0 [0, 0))" {
		t.Errorf("zero String = %q", got)
	}
}
