package animation

import (
	"github.com/Carmen-Shannon/oxy-mdl/engine/studio"
	"github.com/go-gl/mathgl/mgl32"
)

// ComposeHierarchy turns local transforms into absolute ones in a single forward pass.
// Bones must be ordered parent-before-child, which StudioModel guarantees.
//
// Parameters:
//   - bones: the skeleton
//   - locals: one local transform per bone
//   - out: receives one absolute transform per bone; may alias locals
func ComposeHierarchy(bones []studio.Bone, locals, out []mgl32.Mat4) {
	for i := range bones {
		if p := bones[i].ParentIndex; p >= 0 {
			out[i] = out[p].Mul4(locals[i])
			continue
		}
		out[i] = locals[i]
	}
}
