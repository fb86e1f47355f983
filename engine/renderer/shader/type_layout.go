package shader

import (
	"strconv"
	"strings"
)

// TypeLayout is the byte size and alignment of a WGSL type in host-shareable memory.
type TypeLayout struct {
	Size  uint64
	Align uint64
}

// primitiveLayouts holds the sizes and alignments of the WGSL scalar, vector and matrix types
// used in buffers.
//
// Reference: https://www.w3.org/TR/WGSL/#alignment-and-size
var primitiveLayouts = map[string]TypeLayout{
	"f32": {4, 4}, "i32": {4, 4}, "u32": {4, 4}, "f16": {2, 2},
	"atomic<u32>": {4, 4}, "atomic<i32>": {4, 4},

	"vec2<f32>": {8, 8}, "vec2f": {8, 8}, "vec2<i32>": {8, 8}, "vec2i": {8, 8}, "vec2<u32>": {8, 8}, "vec2u": {8, 8},
	"vec3<f32>": {12, 16}, "vec3f": {12, 16}, "vec3<i32>": {12, 16}, "vec3i": {12, 16}, "vec3<u32>": {12, 16}, "vec3u": {12, 16},
	"vec4<f32>": {16, 16}, "vec4f": {16, 16}, "vec4<i32>": {16, 16}, "vec4i": {16, 16}, "vec4<u32>": {16, 16}, "vec4u": {16, 16},

	"mat3x3<f32>": {48, 16}, "mat3x3f": {48, 16},
	"mat3x4<f32>": {48, 16}, "mat3x4f": {48, 16},
	"mat4x3<f32>": {64, 16}, "mat4x3f": {64, 16},
	"mat4x4<f32>": {64, 16}, "mat4x4f": {64, 16},
}

// roundUp rounds value up to a multiple of align, which must be a power of two.
func roundUp(align, value uint64) uint64 {
	if align == 0 {
		return value
	}
	return (value + align - 1) &^ (align - 1)
}

// resolveTypeLayout sizes typeName from the primitives, the known structs and fixed-size
// arrays of either. A runtime-sized array resolves to one element stride.
func resolveTypeLayout(typeName string, structs map[string]TypeLayout) (TypeLayout, bool) {
	if l, ok := primitiveLayouts[typeName]; ok {
		return l, true
	}
	if l, ok := structs[typeName]; ok {
		return l, true
	}

	inner, ok := strings.CutPrefix(typeName, "array<")
	if !ok || !strings.HasSuffix(inner, ">") {
		return TypeLayout{}, false
	}
	elemType, countStr, fixed := strings.Cut(inner[:len(inner)-1], ",")

	elem, ok := resolveTypeLayout(strings.TrimSpace(elemType), structs)
	if !ok {
		return TypeLayout{}, false
	}
	stride := roundUp(elem.Align, elem.Size)
	if !fixed {
		return TypeLayout{stride, elem.Align}, true
	}
	count, err := strconv.ParseUint(strings.TrimSpace(countStr), 10, 64)
	if err != nil {
		return TypeLayout{}, false
	}
	return TypeLayout{count * stride, elem.Align}, true
}

// computeStructLayouts sizes every struct, resolving structs nested in other structs in as
// many passes as needed. Structs that cannot be sized are left out.
func computeStructLayouts(structs []parsedStruct) map[string]TypeLayout {
	resolved := make(map[string]TypeLayout, len(structs))
	remaining := structs

	for len(remaining) > 0 {
		var next []parsedStruct
		for _, ps := range remaining {
			if l, ok := structLayout(ps, resolved); ok {
				resolved[ps.name] = l
			} else {
				next = append(next, ps)
			}
		}
		if len(next) == len(remaining) {
			break
		}
		remaining = next
	}
	return resolved
}

// structLayout places each field at its aligned offset and rounds the total up to the
// largest field alignment.
func structLayout(ps parsedStruct, known map[string]TypeLayout) (TypeLayout, bool) {
	var offset uint64
	maxAlign := uint64(1)
	for _, f := range ps.fields {
		l, ok := resolveTypeLayout(f.typeName, known)
		if !ok {
			return TypeLayout{}, false
		}
		offset = roundUp(l.Align, offset) + l.Size
		maxAlign = max(maxAlign, l.Align)
	}
	return TypeLayout{roundUp(maxAlign, offset), maxAlign}, true
}
