package geometry

import (
	"github.com/Carmen-Shannon/oxy-yuletide/engine/model"

	"github.com/chewxy/math32"
)

// Cylinder generates a capped cylinder along Y centered on the origin, spanning y in [-height/2, height/2].
// The side is draw group 0, the top cap group 1 and the bottom cap group 2. A cap with zero radius is omitted.
//
// Parameters:
//   - radiusTop: radius at y = +height/2
//   - radiusBottom: radius at y = -height/2
//   - height: total height
//   - radialSegments: number of segments around the circumference, at least 3
//
// Returns:
//   - model.Model: the cylinder mesh
func Cylinder(radiusTop, radiusBottom, height float32, radialSegments int) model.Model {
	return buildCylinder("cylinder", model.Parameters{
		Kind:           model.KindCylinder,
		RadiusTop:      radiusTop,
		RadiusBottom:   radiusBottom,
		Height:         height,
		RadialSegments: radialSegments,
		HeightSegments: 1,
	})
}

// Cone generates a cone along Y with its apex at y = +height/2 and its base at y = -height/2.
//
// Parameters:
//   - radius: base radius
//   - height: total height
//   - radialSegments: number of segments around the circumference, at least 3
//
// Returns:
//   - model.Model: the cone mesh
func Cone(radius, height float32, radialSegments int) model.Model {
	return buildCylinder("cone", model.Parameters{
		Kind:           model.KindCone,
		Radius:         radius,
		RadiusBottom:   radius,
		Height:         height,
		RadialSegments: radialSegments,
		HeightSegments: 1,
	})
}

func buildCylinder(name string, p model.Parameters) model.Model {
	segments := max(p.RadialSegments, 3)
	p.RadialSegments = segments
	half := p.Height / 2
	slope := (p.RadiusBottom - p.RadiusTop) / p.Height

	b := &meshBuilder{}

	// side
	rows := make([][]uint32, 2)
	for y := 0; y <= 1; y++ {
		v := float32(y)
		radius := v*(p.RadiusBottom-p.RadiusTop) + p.RadiusTop
		for x := 0; x <= segments; x++ {
			u := float32(x) / float32(segments)
			sin, cos := math32.Sincos(u * 2 * math32.Pi)
			n := normalize([3]float32{sin, slope, cos})
			rows[y] = append(rows[y], b.vertex([3]float32{radius * sin, -v*p.Height + half, radius * cos}, n, u, 1-v))
		}
	}
	for x := 0; x < segments; x++ {
		a, c, bb, d := rows[0][x], rows[1][x+1], rows[1][x], rows[0][x+1]
		b.triangle(a, bb, d)
		b.triangle(bb, c, d)
	}
	b.group(0, 0)

	if p.RadiusTop > 0 {
		b.cap(true, p.RadiusTop, half, segments)
	}
	if p.RadiusBottom > 0 {
		b.cap(false, p.RadiusBottom, half, segments)
	}

	return b.build(name, p)
}

// cap appends a triangle fan closing one end of a cylinder. Each rim segment gets its own center vertex
// so the cap UVs stay seam-free.
func (b *meshBuilder) cap(top bool, radius, half float32, segments int) {
	start := len(b.indices)
	sign := float32(-1)
	materialIndex := 2
	if top {
		sign = 1
		materialIndex = 1
	}
	normal := [3]float32{0, sign, 0}

	centers := make([]uint32, segments)
	for x := range segments {
		centers[x] = b.vertex([3]float32{0, half * sign, 0}, normal, 0.5, 0.5)
	}
	rim := make([]uint32, segments+1)
	for x := 0; x <= segments; x++ {
		u := float32(x) / float32(segments)
		sin, cos := math32.Sincos(u * 2 * math32.Pi)
		rim[x] = b.vertex([3]float32{radius * sin, half * sign, radius * cos}, normal, cos*0.5+0.5, sin*0.5*sign+0.5)
	}

	for x := range segments {
		if top {
			b.triangle(rim[x], rim[x+1], centers[x])
		} else {
			b.triangle(rim[x+1], rim[x], centers[x])
		}
	}
	b.group(start, materialIndex)
}

func normalize(v [3]float32) [3]float32 {
	l := math32.Sqrt(v[0]*v[0] + v[1]*v[1] + v[2]*v[2])
	if l == 0 {
		return v
	}
	return [3]float32{v[0] / l, v[1] / l, v[2] / l}
}
