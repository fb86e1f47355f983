package common

import "github.com/go-gl/mathgl/mgl32"

// BoxEdges lists the corner pairs of the twelve edges of a box from BoxCorners.
var BoxEdges = [12][2]int{
	{0, 1}, {1, 3}, {3, 2}, {2, 0},
	{4, 5}, {5, 7}, {7, 6}, {6, 4},
	{0, 4}, {1, 5}, {2, 6}, {3, 7},
}

// BoxCorners returns the eight corners of the axis-aligned box [min, max].
// Bit 0 of the index selects max on X, bit 1 on Y and bit 2 on Z.
//
// Parameters:
//   - min: the box minimum corner
//   - max: the box maximum corner
//
// Returns:
//   - [8]mgl32.Vec3: the corners
func BoxCorners(min, max mgl32.Vec3) [8]mgl32.Vec3 {
	var c [8]mgl32.Vec3
	for i := range c {
		for axis := range 3 {
			if i&(1<<axis) != 0 {
				c[i][axis] = max[axis]
			} else {
				c[i][axis] = min[axis]
			}
		}
	}
	return c
}
