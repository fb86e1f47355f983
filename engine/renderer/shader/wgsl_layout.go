// Package shader reflects buffer bind group layouts out of WGSL source, so GPU components can
// size and describe their buffers from the same declarations their shaders compile.
package shader

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/cogentcore/webgpu/wgpu"
)

var (
	// structBlockRegex matches struct declarations and captures the name and body
	structBlockRegex = regexp.MustCompile(`struct\s+(\w+)\s*\{([^}]*)\}`)

	// fieldRegex matches a struct field: optional attributes, name, colon, type.
	// The type capture is greedy to keep parameterized types like array<T, N> whole.
	fieldRegex = regexp.MustCompile(`^(?:@\w+(?:\([^)]*\))?\s*)*(\w+)\s*:\s*(.+)$`)

	// bindGroupDeclRegex captures group, binding, address space, variable name and type from
	// declarations like: @group(0) @binding(1) var<storage, read> palette: array<BoneMatrix, 128>;
	bindGroupDeclRegex = regexp.MustCompile(`@group\((\d+)\)\s*@binding\((\d+)\)\s*var(?:<([^>]*)>)?\s+(\w+)\s*:\s*([^;]+?)\s*;`)
)

// Binding is one reflected buffer declaration.
type Binding struct {
	Group   int
	Binding int
	Name    string
	Type    string
	Entry   wgpu.BindGroupLayoutEntry
}

// Reflection is the buffer layout information parsed from one WGSL module.
type Reflection struct {
	bindings []Binding
	structs  map[string]TypeLayout
}

// Reflect parses the struct and buffer binding declarations of source.
// Only uniform and storage buffers are supported; a handle binding such as a texture or sampler
// is an error, as is a buffer whose type cannot be sized.
//
// Parameters:
//   - source: the WGSL source
//   - visibility: the shader stages set on every entry
//
// Returns:
//   - *Reflection: the parsed layout
//   - error: an error naming the first unsupported declaration
func Reflect(source string, visibility wgpu.ShaderStage) (*Reflection, error) {
	cleaned := stripComments(source)
	r := &Reflection{structs: computeStructLayouts(parseStructBlocks(cleaned))}

	for _, match := range bindGroupDeclRegex.FindAllStringSubmatch(cleaned, -1) {
		group, _ := strconv.Atoi(match[1])
		binding, _ := strconv.Atoi(match[2])
		addressSpace := strings.TrimSpace(match[3])
		name := match[4]
		typeName := strings.TrimSpace(match[5])

		bufferType, err := bufferBindingType(addressSpace)
		if err != nil {
			return nil, fmt.Errorf("shader: binding %s: %w", name, err)
		}
		layout, ok := resolveTypeLayout(typeName, r.structs)
		if !ok {
			return nil, fmt.Errorf("shader: binding %s: cannot size type %s", name, typeName)
		}

		r.bindings = append(r.bindings, Binding{
			Group:   group,
			Binding: binding,
			Name:    name,
			Type:    typeName,
			Entry: wgpu.BindGroupLayoutEntry{
				Binding:    uint32(binding),
				Visibility: visibility,
				Buffer: wgpu.BufferBindingLayout{
					Type:           bufferType,
					MinBindingSize: layout.Size,
				},
			},
		})
	}

	sort.Slice(r.bindings, func(i, j int) bool {
		if r.bindings[i].Group != r.bindings[j].Group {
			return r.bindings[i].Group < r.bindings[j].Group
		}
		return r.bindings[i].Binding < r.bindings[j].Binding
	})
	return r, nil
}

// Bindings returns every reflected binding ordered by group and binding index.
func (r *Reflection) Bindings() []Binding {
	return append([]Binding(nil), r.bindings...)
}

// Binding returns the binding declared under name.
//
// Parameters:
//   - name: the WGSL variable name
//
// Returns:
//   - Binding: the binding
//   - bool: false if no buffer binding has that name
func (r *Reflection) Binding(name string) (Binding, bool) {
	for _, b := range r.bindings {
		if b.Name == name {
			return b, true
		}
	}
	return Binding{}, false
}

// LayoutDescriptor returns the layout of one bind group, with entries sorted by binding.
//
// Parameters:
//   - group: the @group index
//   - label: the descriptor label
//
// Returns:
//   - wgpu.BindGroupLayoutDescriptor: the layout descriptor, empty if the group is not declared
func (r *Reflection) LayoutDescriptor(group int, label string) wgpu.BindGroupLayoutDescriptor {
	desc := wgpu.BindGroupLayoutDescriptor{Label: label}
	for _, b := range r.bindings {
		if b.Group == group {
			desc.Entries = append(desc.Entries, b.Entry)
		}
	}
	return desc
}

// StructLayout returns the size and alignment of a struct declared in the module.
//
// Parameters:
//   - name: the struct name
//
// Returns:
//   - TypeLayout: the struct layout
//   - bool: false if the struct is unknown or could not be sized
func (r *Reflection) StructLayout(name string) (TypeLayout, bool) {
	l, ok := r.structs[name]
	return l, ok
}

// bufferBindingType maps a var address space to its buffer binding type.
func bufferBindingType(addressSpace string) (wgpu.BufferBindingType, error) {
	switch {
	case addressSpace == "uniform":
		return wgpu.BufferBindingTypeUniform, nil
	case strings.HasPrefix(addressSpace, "storage"):
		if strings.Contains(addressSpace, "read_write") {
			return wgpu.BufferBindingTypeStorage, nil
		}
		return wgpu.BufferBindingTypeReadOnlyStorage, nil
	case addressSpace == "":
		return wgpu.BufferBindingTypeUndefined, fmt.Errorf("handle bindings are not supported")
	default:
		return wgpu.BufferBindingTypeUndefined, fmt.Errorf("unknown address space %q", addressSpace)
	}
}

// parsedField is a single field of a WGSL struct.
type parsedField struct {
	name     string
	typeName string
}

// parsedStruct is a WGSL struct block.
type parsedStruct struct {
	name   string
	fields []parsedField
}

// parseStructBlocks finds all struct blocks in comment-free WGSL source.
func parseStructBlocks(source string) []parsedStruct {
	matches := structBlockRegex.FindAllStringSubmatch(source, -1)
	structs := make([]parsedStruct, 0, len(matches))

	for _, match := range matches {
		ps := parsedStruct{name: match[1]}
		for _, part := range splitAtTopLevelCommas(match[2]) {
			fm := fieldRegex.FindStringSubmatch(strings.TrimSpace(part))
			if fm == nil {
				continue
			}
			ps.fields = append(ps.fields, parsedField{name: fm[1], typeName: strings.TrimSpace(fm[2])})
		}
		structs = append(structs, ps)
	}
	return structs
}

// splitAtTopLevelCommas splits s at commas outside angle brackets, so array<T, N> stays whole.
func splitAtTopLevelCommas(s string) []string {
	var parts []string
	depth := 0
	start := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '<':
			depth++
		case '>':
			if depth > 0 {
				depth--
			}
		case ',':
			if depth == 0 {
				parts = append(parts, s[start:i])
				start = i + 1
			}
		}
	}
	return append(parts, s[start:])
}

// stripComments removes line comments and nested block comments from WGSL source.
func stripComments(source string) string {
	var sb strings.Builder
	sb.Grow(len(source))
	depth := 0
	for i := 0; i < len(source); i++ {
		if i+1 < len(source) {
			switch {
			case source[i] == '/' && source[i+1] == '*':
				depth++
				i++
				continue
			case source[i] == '*' && source[i+1] == '/' && depth > 0:
				depth--
				i++
				continue
			case depth == 0 && source[i] == '/' && source[i+1] == '/':
				for i < len(source) && source[i] != '\n' {
					i++
				}
				if i < len(source) {
					sb.WriteByte('\n')
				}
				continue
			}
		}
		if depth == 0 {
			sb.WriteByte(source[i])
		}
	}
	return sb.String()
}
