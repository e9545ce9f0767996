package geometry

import (
	"github.com/Carmen-Shannon/oxy-yuletide/engine/model"

	"github.com/chewxy/math32"
)

// Sphere generates a UV sphere centered on the origin with poles on the Y axis.
//
// Parameters:
//   - radius: sphere radius
//   - widthSegments: number of horizontal segments, at least 3
//   - heightSegments: number of vertical segments, at least 2
//
// Returns:
//   - model.Model: the sphere mesh
func Sphere(radius float32, widthSegments, heightSegments int) model.Model {
	widthSegments = max(widthSegments, 3)
	heightSegments = max(heightSegments, 2)

	b := &meshBuilder{}
	grid := make([][]uint32, heightSegments+1)

	for iy := 0; iy <= heightSegments; iy++ {
		v := float32(iy) / float32(heightSegments)

		// pole rows shift their u by half a segment so each pole triangle samples the middle of its wedge
		var uOffset float32
		switch iy {
		case 0:
			uOffset = 0.5 / float32(widthSegments)
		case heightSegments:
			uOffset = -0.5 / float32(widthSegments)
		}

		sinTheta, cosTheta := math32.Sincos(v * math32.Pi)
		for ix := 0; ix <= widthSegments; ix++ {
			u := float32(ix) / float32(widthSegments)
			sinPhi, cosPhi := math32.Sincos(u * 2 * math32.Pi)

			pos := [3]float32{-radius * cosPhi * sinTheta, radius * cosTheta, radius * sinPhi * sinTheta}
			grid[iy] = append(grid[iy], b.vertex(pos, normalize(pos), u+uOffset, 1-v))
		}
	}

	for iy := 0; iy < heightSegments; iy++ {
		for ix := 0; ix < widthSegments; ix++ {
			a := grid[iy][ix+1]
			bb := grid[iy][ix]
			c := grid[iy+1][ix]
			d := grid[iy+1][ix+1]
			if iy != 0 {
				b.triangle(a, bb, d)
			}
			if iy != heightSegments-1 {
				b.triangle(bb, c, d)
			}
		}
	}
	b.group(0, 0)

	return b.build("sphere", model.Parameters{
		Kind:           model.KindSphere,
		Radius:         radius,
		WidthSegments:  widthSegments,
		HeightSegments: heightSegments,
	})
}
