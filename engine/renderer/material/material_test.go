package material

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/Carmen-Shannon/oxy-yuletide/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMaterialDefaults(t *testing.T) {
	m := NewMaterial()
	assert.Equal(t, KindStandard, m.Kind())
	assert.Equal(t, common.White, m.Color())
	assert.Equal(t, float32(1), m.Opacity())
	assert.Equal(t, float32(1), m.Roughness())
	assert.Equal(t, SideFront, m.Side())
	assert.False(t, m.Transparent())
	assert.Zero(t, m.MapMask())
	assert.Nil(t, m.BindGroupProvider())
}

func TestMaterialMaps(t *testing.T) {
	diff := &common.ImportedTexture{Path: "snow_diff.jpg"}
	alpha := &common.ImportedTexture{Path: "snow_translucent.png"}
	m := NewMaterial(
		WithMap(MapDiffuse, diff),
		WithMap(MapAlpha, alpha),
		WithMap(MapCount, diff),
	)

	assert.Same(t, diff, m.Map(MapDiffuse))
	assert.Same(t, alpha, m.Map(MapAlpha))
	assert.Nil(t, m.Map(MapNormal))
	assert.Nil(t, m.Map(MapCount))
	assert.Equal(t, uint32(1<<MapDiffuse|1<<MapAlpha), m.MapMask())
}

func TestUniformsMarshal(t *testing.T) {
	m := NewMaterial(
		WithKind(KindLambert),
		WithHexColor(0xffffff),
		WithOpacity(0.5),
		WithTransparent(true),
		WithDisplacementScale(0.1),
		WithMap(MapNormal, &common.ImportedTexture{}),
	)
	u := Uniforms(m)
	assert.Equal(t, 64, u.Size())

	buf := u.Marshal()
	require.Len(t, buf, 64)
	f := func(off int) float32 { return math.Float32frombits(binary.LittleEndian.Uint32(buf[off:])) }
	assert.InDelta(t, 1, f(0), 1e-5)
	assert.Equal(t, float32(0.5), f(12))
	assert.Equal(t, float32(0.1), f(40))
	assert.Equal(t, uint32(KindLambert), binary.LittleEndian.Uint32(buf[48:]))
	assert.Equal(t, uint32(1<<MapNormal), binary.LittleEndian.Uint32(buf[52:]))
	assert.Equal(t, uint32(1), binary.LittleEndian.Uint32(buf[56:]))
}

func TestFactorsAreClamped(t *testing.T) {
	m := NewMaterial(WithOpacity(1.5), WithRoughness(-0.2), WithMetalness(0.3))
	assert.Equal(t, float32(1), m.Opacity())
	assert.Zero(t, m.Roughness())
	assert.Equal(t, float32(0.3), m.Metalness())
}
