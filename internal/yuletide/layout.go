package yuletide

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

const (
	treeScale       = 1.2
	treeSegments    = 32
	treeBaseY       = 1.0
	lightsPerLayer  = 10
	layerOverlap    = 0.8
	layerLift       = 1.8
	lightRadiusPad  = 0.5
	lightHeightDrop = 1.5

	giftRadius = 2.0
	giftCount  = 3
	giftY      = -0.7
	giftMinScl = 2.3
	giftMaxScl = 3.0
)

// Layer is one cone of the tree.
type Layer struct {
	Height float32
	Radius float32
	Y      float32 // centre of the cone in tree space
}

var (
	layerHeights = [3]float32{2.3, 2.2, 1.8}
	layerRadii   = [3]float32{2.2, 1.8, 1.2}

	ornamentCounts  = [3]int{10, 8, 4}
	ornamentHeights = [3]float32{1.1, 3, 4.8}
)

// TreeLayers returns the three cone layers from the bottom up. Each cone is centred at
// posY + height/1.8, and posY advances by height - 0.8 so the layers overlap.
func TreeLayers() []Layer {
	layers := make([]Layer, len(layerHeights))
	posY := float32(treeBaseY)
	for i, h := range layerHeights {
		layers[i] = Layer{Height: h, Radius: layerRadii[i], Y: posY + h/layerLift}
		posY += h - layerOverlap
	}
	return layers
}

// TreeLightPosition places light i of a layer relative to its cone. The radius and height are
// jittered independently; positions that end up outside the cone surface are kept.
//
// Parameters:
//   - i: the light index in [0, 10)
//   - layer: the cone the light belongs to
//   - rnd: the random source, consumed twice per call (radius first)
//
// Returns:
//   - mgl32.Vec3: the position in cone space
func TreeLightPosition(i int, layer Layer, rnd RandomSource) mgl32.Vec3 {
	angle := float32(i) / lightsPerLayer * 2 * math32.Pi
	r := layer.Radius*float32(rnd.Float64()) + lightRadiusPad
	h := layer.Height*float32(rnd.Float64()) - lightHeightDrop
	return mgl32.Vec3{r * math32.Cos(angle), h, r * math32.Sin(angle)}
}

// RingPositions spreads n points evenly on a horizontal circle, starting on +X.
func RingPositions(n int, radius, y float32) []mgl32.Vec3 {
	out := make([]mgl32.Vec3, n)
	for j := range n {
		angle := float32(j) / float32(n) * 2 * math32.Pi
		out[j] = mgl32.Vec3{radius * math32.Cos(angle), y, radius * math32.Sin(angle)}
	}
	return out
}

// GiftPositions returns where the gifts sit around the trunk.
func GiftPositions() []mgl32.Vec3 {
	return RingPositions(giftCount, giftRadius, giftY)
}

// GiftScale draws a uniform scale in [2.3, 3.0).
func GiftScale(rnd RandomSource) float32 {
	s := float32(rnd.Float64()*(giftMaxScl-giftMinScl) + giftMinScl)
	// float32 rounding can land exactly on the upper bound
	if s >= giftMaxScl {
		s = math32.Nextafter(giftMaxScl, 0)
	}
	return s
}
