package geometry

import (
	"github.com/Carmen-Shannon/oxy-yuletide/engine/model"
)

// Face indices of a box, which are also the material slots of its draw groups.
const (
	FacePosX = iota
	FaceNegX
	FacePosY
	FaceNegY
	FacePosZ
	FaceNegZ
)

// Box generates an axis-aligned box centered on the origin with one quad per face.
// Faces are emitted as separate draw groups in the order +X, -X, +Y, -Y, +Z, -Z so a six-material mesh
// maps one material onto each face.
//
// Parameters:
//   - width: size along X
//   - height: size along Y
//   - depth: size along Z
//
// Returns:
//   - model.Model: the box mesh
func Box(width, height, depth float32) model.Model {
	b := &meshBuilder{}

	// u axis, v axis, w axis, u direction, v direction, face width, face height, signed face depth
	type face struct {
		u, v, w    int
		udir, vdir float32
		fw, fh, fd float32
	}
	faces := [6]face{
		FacePosX: {2, 1, 0, -1, -1, depth, height, width},
		FaceNegX: {2, 1, 0, 1, -1, depth, height, -width},
		FacePosY: {0, 2, 1, 1, 1, width, depth, height},
		FaceNegY: {0, 2, 1, 1, -1, width, depth, -height},
		FacePosZ: {0, 1, 2, 1, -1, width, height, depth},
		FaceNegZ: {0, 1, 2, -1, -1, width, height, -depth},
	}

	for i, f := range faces {
		start := len(b.indices)
		var first uint32
		for iy := 0; iy <= 1; iy++ {
			y := float32(iy)*f.fh - f.fh/2
			for ix := 0; ix <= 1; ix++ {
				x := float32(ix)*f.fw - f.fw/2

				var pos, normal [3]float32
				pos[f.u] = x * f.udir
				pos[f.v] = y * f.vdir
				pos[f.w] = f.fd / 2
				normal[f.w] = 1
				if f.fd < 0 {
					normal[f.w] = -1
				}

				idx := b.vertex(pos, normal, float32(ix), 1-float32(iy))
				if iy == 0 && ix == 0 {
					first = idx
				}
			}
		}
		a, bb, c, d := first, first+2, first+3, first+1
		b.triangle(a, bb, d)
		b.triangle(bb, c, d)
		b.group(start, i)
	}

	return b.build("box", model.Parameters{Kind: model.KindBox, Width: width, Height: height, Depth: depth})
}
