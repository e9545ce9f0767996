package geometry

import (
	"github.com/Carmen-Shannon/oxy-yuletide/engine/model"
)

// Plane generates a single-quad rectangle in the XY plane facing +Z, centered on the origin.
//
// Parameters:
//   - width: size along X
//   - height: size along Y
//
// Returns:
//   - model.Model: the plane mesh
func Plane(width, height float32) model.Model {
	b := &meshBuilder{}
	normal := [3]float32{0, 0, 1}

	for iy := 0; iy <= 1; iy++ {
		y := float32(iy)*height - height/2
		for ix := 0; ix <= 1; ix++ {
			x := float32(ix)*width - width/2
			b.vertex([3]float32{x, -y, 0}, normal, float32(ix), 1-float32(iy))
		}
	}
	b.triangle(0, 2, 1)
	b.triangle(2, 3, 1)
	b.group(0, 0)

	return b.build("plane", model.Parameters{Kind: model.KindPlane, Width: width, Height: height, WidthSegments: 1, HeightSegments: 1})
}
