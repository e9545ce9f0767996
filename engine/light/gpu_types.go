package light

import (
	"encoding/binary"
	"math"
	"unsafe"

	"github.com/go-gl/mathgl/mgl32"
)

// MaxGPULights is the maximum number of positional and directional lights marshaled into the
// GPU storage buffer per frame. Ambient lights are folded into the header and do not count.
const MaxGPULights = 256

// Instance is a light resolved into world space for one frame.
type Instance struct {
	Light Light

	// Position is the world-space position of the light's node.
	Position mgl32.Vec3
}

// Direction returns the normalized direction light travels for a directional instance,
// from its position toward its target. A light sitting on its target points straight down.
//
// Returns:
//   - mgl32.Vec3: the travel direction
func (i Instance) Direction() mgl32.Vec3 {
	d := i.Light.Target().Sub(i.Position)
	if d.Len() < 1e-6 {
		return mgl32.Vec3{0, -1, 0}
	}
	return d.Normalize()
}

// GPULight is the GPU-aligned representation of a single light source.
// Matches the WGSL Light struct of the scene shader.
// Size: 64 bytes (std430 / WGSL aligned).
type GPULight struct {
	Position  [3]float32 // offset  0: world-space position (point) or unused (directional)
	LightType uint32     // offset 12: 1 = directional, 2 = point
	Color     [3]float32 // offset 16: linear RGB color
	Intensity float32    // offset 28: scalar multiplier
	Direction [3]float32 // offset 32: normalized travel direction (directional) or unused (point)
	Range     float32    // offset 44: cutoff distance, 0 = unlimited
	Decay     float32    // offset 48: falloff exponent
	_pad      [3]uint32  // offset 52: padding to 64-byte alignment
}

// Size returns the size of the GPULight struct in bytes.
//
// Returns:
//   - int: the struct size in bytes (64)
func (g *GPULight) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes the GPULight struct into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: 64-byte buffer ready for GPU upload
func (g *GPULight) Marshal() []byte {
	buf := make([]byte, 64)
	g.put(buf)
	return buf
}

func (g *GPULight) put(buf []byte) {
	f := func(off int, v float32) { binary.LittleEndian.PutUint32(buf[off:], math.Float32bits(v)) }
	f(0, g.Position[0])
	f(4, g.Position[1])
	f(8, g.Position[2])
	binary.LittleEndian.PutUint32(buf[12:], g.LightType)
	f(16, g.Color[0])
	f(20, g.Color[1])
	f(24, g.Color[2])
	f(28, g.Intensity)
	f(32, g.Direction[0])
	f(36, g.Direction[1])
	f(40, g.Direction[2])
	f(44, g.Range)
	f(48, g.Decay)
	clear(buf[52:64])
}

// GPULightHeader is the header prepended to the light storage buffer.
// Size: 16 bytes (vec3 + u32, std430 aligned).
type GPULightHeader struct {
	AmbientColor [3]float32 // offset 0: summed ambient RGB (color * intensity)
	LightCount   uint32     // offset 12: number of lights following the header
}

// Size returns the size of the GPULightHeader struct in bytes.
//
// Returns:
//   - int: the struct size in bytes (16)
func (h *GPULightHeader) Size() int {
	return int(unsafe.Sizeof(*h))
}

// ToGPULight converts a world-space light instance into its GPU representation.
//
// Parameters:
//   - inst: the light instance to convert
//
// Returns:
//   - GPULight: the GPU-aligned representation
func ToGPULight(inst Instance) GPULight {
	l := inst.Light
	g := GPULight{
		Position:  inst.Position,
		LightType: uint32(l.Type()),
		Color:     l.Color(),
		Intensity: l.Intensity(),
		Range:     l.Range(),
		Decay:     l.Decay(),
	}
	if l.Type() == LightTypeDirectional {
		g.Direction = inst.Direction()
	}
	return g
}

// LightBufferSize is the fixed byte size of a light storage buffer holding MaxGPULights lights.
const LightBufferSize = 16 + MaxGPULights*64

// MarshalLightBuffer marshals enabled light instances into a byte buffer suitable for GPU upload.
// The buffer layout is:
//
//	[GPULightHeader (16 bytes)] [GPULight × count (64 bytes each)]
//
// Ambient lights are summed into the header color. Other enabled lights are written in order
// up to MaxGPULights; the rest are dropped.
//
// Parameters:
//   - lights: the light instances collected for the frame
//
// Returns:
//   - []byte: the marshaled buffer ready for GPU upload
func MarshalLightBuffer(lights []Instance) []byte {
	var ambient mgl32.Vec3
	var gpu []GPULight
	for _, inst := range lights {
		l := inst.Light
		if l == nil || !l.Enabled() {
			continue
		}
		if l.Type() == LightTypeAmbient {
			ambient = ambient.Add(mgl32.Vec3(l.Color()).Mul(l.Intensity()))
			continue
		}
		if len(gpu) < MaxGPULights {
			gpu = append(gpu, ToGPULight(inst))
		}
	}

	buf := make([]byte, 16+len(gpu)*64)
	binary.LittleEndian.PutUint32(buf[0:], math.Float32bits(ambient[0]))
	binary.LittleEndian.PutUint32(buf[4:], math.Float32bits(ambient[1]))
	binary.LittleEndian.PutUint32(buf[8:], math.Float32bits(ambient[2]))
	binary.LittleEndian.PutUint32(buf[12:], uint32(len(gpu)))
	for i := range gpu {
		gpu[i].put(buf[16+i*64:])
	}
	return buf
}
