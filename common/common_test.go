package common

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// assertVec3InDelta compares component-wise with an absolute tolerance, so a rounding residue
// against an exact zero still passes.
func assertVec3InDelta(t *testing.T, want, got mgl32.Vec3, delta float64) {
	t.Helper()
	for i := range want {
		assert.InDelta(t, want[i], got[i], delta, "component %d of %v", i, got)
	}
}

func TestCoalesce(t *testing.T) {
	assert.Equal(t, "b", Coalesce("", "b", "c"))
	assert.Equal(t, 0, Coalesce(0, 0))
}

func TestHexColorLinearizes(t *testing.T) {
	white := HexColor(0xffffff)
	assert.InDelta(t, 1.0, white[0], 1e-5)
	assert.InDelta(t, 1.0, white[2], 1e-5)

	black := HexColor(0x000000)
	assert.Equal(t, Color{0, 0, 0}, black)

	// sRGB 0x80 is roughly 0.2158 in linear space
	mid := HexColor(0x808080)
	assert.InDelta(t, 0.2158, mid[1], 1e-3)
}

func TestParseHexColorRejectsGarbage(t *testing.T) {
	_, err := ParseHexColor("not-a-color")
	assert.Error(t, err)
}

func TestComposeDecomposeRoundTrip(t *testing.T) {
	pos := mgl32.Vec3{1, -2, 3}
	rot := EulerXYZ(-math.Pi/2, 0.3, 0)
	scale := mgl32.Vec3{1.2, 1.2, 1.2}

	m := ComposeTRS(pos, rot, scale)
	gotPos, gotRot, gotScale := DecomposeTRS(m)

	assertVec3InDelta(t, pos, gotPos, 1e-5)
	assertVec3InDelta(t, scale, gotScale, 1e-5)
	assert.True(t, gotRot.OrientationEqualThreshold(rot, 1e-4))
}

func TestEulerXYZMatchesAxisRotation(t *testing.T) {
	q := EulerXYZ(-math.Pi/2, 0, 0)
	// rotating +Y by -90 degrees about X lands on -Z
	v := q.Rotate(mgl32.Vec3{0, 1, 0})
	assertVec3InDelta(t, mgl32.Vec3{0, 0, -1}, v, 1e-5)
}

func encodePNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.NRGBA{R: 255, G: 0, B: 0, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestImportedTextureDecodeEmbedded(t *testing.T) {
	tex := &ImportedTexture{Name: "diffuse", Data: encodePNG(t, 4, 2)}
	staged, err := tex.Decode()
	require.NoError(t, err)

	assert.Equal(t, uint32(4), staged.Width)
	assert.Equal(t, uint32(2), staged.Height)
	assert.Len(t, staged.Pixels, 4*2*4)
	assert.Equal(t, []byte{255, 0, 0, 255}, staged.Pixels[:4])
	assert.Equal(t, 4, tex.Width)
}

func TestImportedTextureDecodeErrors(t *testing.T) {
	var nilTex *ImportedTexture
	_, err := nilTex.Decode()
	assert.Error(t, err)

	_, err = (&ImportedTexture{}).Decode()
	assert.Error(t, err)

	_, err = (&ImportedTexture{Path: "does/not/exist.png"}).Decode()
	assert.Error(t, err)

	_, err = (&ImportedTexture{Data: []byte("garbage")}).Decode()
	assert.Error(t, err)
}

func TestImportedTextureDecodeIsCached(t *testing.T) {
	tex := &ImportedTexture{Data: encodePNG(t, 2, 2)}
	tex.MarkPending()
	assert.True(t, tex.Pending())

	first, err := tex.Decode()
	require.NoError(t, err)
	assert.False(t, tex.Pending())

	tex.Data = []byte("garbage")
	second, err := tex.Decode()
	require.NoError(t, err)
	assert.Same(t, first, second)

	tex.Release()
	_, err = tex.Decode()
	assert.Error(t, err)
}

func TestToRGBADownscalesLargeImages(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 64, 16))
	dst := toRGBA(src, 32)
	assert.Equal(t, 32, dst.Bounds().Dx())
	assert.Equal(t, 8, dst.Bounds().Dy())

	small := toRGBA(image.NewRGBA(image.Rect(0, 0, 3, 5)), 32)
	assert.Equal(t, image.Rect(0, 0, 3, 5), small.Bounds())
}
