package yuletide

import (
	"testing"

	"github.com/chewxy/math32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const tolerance = 1e-4

// sequence replays fixed values, cycling when exhausted.
type sequence struct {
	values []float64
	next   int
}

func (s *sequence) Float64() float64 {
	v := s.values[s.next%len(s.values)]
	s.next++
	return v
}

func TestTreeLayers(t *testing.T) {
	layers := TreeLayers()
	require.Len(t, layers, 3)

	want := []Layer{
		{Height: 2.3, Radius: 2.2, Y: 1 + 2.3/1.8},
		{Height: 2.2, Radius: 1.8, Y: 2.5 + 2.2/1.8},
		{Height: 1.8, Radius: 1.2, Y: 3.9 + 1.8/1.8},
	}
	for i, w := range want {
		assert.Equal(t, w.Height, layers[i].Height)
		assert.Equal(t, w.Radius, layers[i].Radius)
		assert.InDelta(t, w.Y, layers[i].Y, tolerance, "layer %d", i)
	}
}

func TestTreeLightPositionUsesJitterFormula(t *testing.T) {
	layer := Layer{Height: 2, Radius: 1.5}

	p := TreeLightPosition(0, layer, &sequence{values: []float64{0, 0}})
	assert.InDelta(t, 0.5, p.X(), tolerance)
	assert.InDelta(t, -1.5, p.Y(), tolerance)
	assert.InDelta(t, 0, p.Z(), tolerance)

	// i = 5 is half a turn; radius 1.5*0.5+0.5, height 2*0.25-1.5
	p = TreeLightPosition(5, layer, &sequence{values: []float64{0.5, 0.25}})
	assert.InDelta(t, -1.25, p.X(), tolerance)
	assert.InDelta(t, -1.0, p.Y(), tolerance)
	assert.InDelta(t, 0, p.Z(), tolerance)
}

func TestTreeLightJitterRanges(t *testing.T) {
	seed := int64(2024)
	rnd := NewRandom(&seed)
	for _, layer := range TreeLayers() {
		for i := range 1000 {
			p := TreeLightPosition(i%lightsPerLayer, layer, rnd)
			r := math32.Hypot(p.X(), p.Z())
			assert.GreaterOrEqual(t, r, float32(0.5)-tolerance)
			assert.Less(t, r, layer.Radius+0.5+tolerance)
			assert.GreaterOrEqual(t, p.Y(), float32(-1.5))
			assert.Less(t, p.Y(), layer.Height-1.5)
		}
	}
}

func TestSeededSourceIsReproducible(t *testing.T) {
	seed := int64(99)
	a, b := NewRandom(&seed), NewRandom(&seed)
	for range 10 {
		assert.Equal(t, a.Float64(), b.Float64())
	}
}

func TestRingPositions(t *testing.T) {
	for _, n := range []int{10, 8, 4} {
		ring := RingPositions(n, 1.8, 3)
		require.Len(t, ring, n)
		step := 2 * math32.Pi / float32(n)
		for j, p := range ring {
			assert.InDelta(t, 1.8, math32.Hypot(p.X(), p.Z()), tolerance)
			assert.Equal(t, float32(3), p.Y())
			assert.InDelta(t, 1.8*math32.Cos(step*float32(j)), p.X(), tolerance)
			assert.InDelta(t, 1.8*math32.Sin(step*float32(j)), p.Z(), tolerance)
		}
	}
}

func TestGiftPositions(t *testing.T) {
	gifts := GiftPositions()
	require.Len(t, gifts, 3)
	for i, p := range gifts {
		assert.InDelta(t, 4, p.X()*p.X()+p.Z()*p.Z(), tolerance)
		assert.Equal(t, float32(-0.7), p.Y())
		angle := math32.Atan2(p.Z(), p.X())
		if angle < 0 {
			angle += 2 * math32.Pi
		}
		assert.InDelta(t, float32(i)*2*math32.Pi/3, angle, tolerance)
	}
}

func TestGiftScaleRange(t *testing.T) {
	assert.Equal(t, float32(2.3), GiftScale(&sequence{values: []float64{0}}))
	assert.Less(t, GiftScale(&sequence{values: []float64{0.99999999999}}), float32(3))

	seed := int64(7)
	rnd := NewRandom(&seed)
	var sum float64
	const n = 20000
	buckets := make([]int, 7)
	for range n {
		s := GiftScale(rnd)
		require.GreaterOrEqual(t, s, float32(2.3))
		require.Less(t, s, float32(3))
		sum += float64(s)
		b := min(int((s-2.3)/0.1), len(buckets)-1)
		buckets[b]++
	}
	assert.InDelta(t, 2.65, sum/n, 0.01)
	for i, c := range buckets {
		assert.InDelta(t, n/len(buckets), c, 400, "bucket %d", i)
	}
}
