package common

import (
	"unsafe"

	"github.com/go-gl/mathgl/mgl32"
)

// SliceToBytes converts any slice to a byte slice for GPU buffer uploads.
// Uses unsafe pointer operations to create a view into the original data.
// WARNING: The returned slice shares memory with the input - do not modify.
//
// Parameters:
//   - data: source slice of any type
//
// Returns:
//   - []byte: byte slice view of the input data, or nil if input is empty
func SliceToBytes[T any](data []T) []byte {
	if len(data) == 0 {
		return nil
	}
	var zero T
	size := unsafe.Sizeof(zero)
	totalBytes := int(size) * len(data)
	return unsafe.Slice((*byte)(unsafe.Pointer(&data[0])), totalBytes)
}

// StructToBytes reinterprets a pointer to a struct as a raw byte slice using unsafe.
// The returned slice has length equal to the struct's size in memory.
//
// Parameters:
//   - v: pointer to the struct to reinterpret
//
// Returns:
//   - []byte: byte slice view of the struct's memory
func StructToBytes[T any](v *T) []byte {
	size := unsafe.Sizeof(*v)
	return unsafe.Slice((*byte)(unsafe.Pointer(v)), int(size))
}

// EulerXYZ converts Euler angles in radians, applied in X then Y then Z intrinsic order,
// into a unit quaternion. The composed rotation is Rx * Ry * Rz.
//
// Parameters:
//   - x: rotation about the X axis in radians
//   - y: rotation about the Y axis in radians
//   - z: rotation about the Z axis in radians
//
// Returns:
//   - mgl32.Quat: the equivalent rotation
func EulerXYZ(x, y, z float32) mgl32.Quat {
	m := mgl32.HomogRotate3DX(x).Mul4(mgl32.HomogRotate3DY(y)).Mul4(mgl32.HomogRotate3DZ(z))
	return mgl32.Mat4ToQuat(m).Normalize()
}

// ComposeTRS builds a local transform matrix from translation, rotation and scale.
// The result is T * R * S so scale is applied first and translation last.
//
// Parameters:
//   - position: translation component
//   - rotation: rotation component (unit quaternion)
//   - scale: per-axis scale component
//
// Returns:
//   - mgl32.Mat4: the composed column-major matrix
func ComposeTRS(position mgl32.Vec3, rotation mgl32.Quat, scale mgl32.Vec3) mgl32.Mat4 {
	t := mgl32.Translate3D(position[0], position[1], position[2])
	s := mgl32.Scale3D(scale[0], scale[1], scale[2])
	return t.Mul4(rotation.Normalize().Mat4()).Mul4(s)
}

// DecomposeTRS splits an affine matrix without shear back into translation, rotation and scale.
// A zero scale axis yields an identity rotation for that matrix.
//
// Parameters:
//   - m: the matrix to decompose
//
// Returns:
//   - mgl32.Vec3: translation
//   - mgl32.Quat: rotation
//   - mgl32.Vec3: scale
func DecomposeTRS(m mgl32.Mat4) (mgl32.Vec3, mgl32.Quat, mgl32.Vec3) {
	position := m.Col(3).Vec3()
	sx, sy, sz := mgl32.Extract3DScale(m)
	scale := mgl32.Vec3{sx, sy, sz}
	if scale[0] == 0 || scale[1] == 0 || scale[2] == 0 {
		return position, mgl32.QuatIdent(), scale
	}

	var r mgl32.Mat4
	for c := 0; c < 3; c++ {
		col := m.Col(c).Vec3().Mul(1 / scale[c])
		r.SetCol(c, col.Vec4(0))
	}
	r.SetCol(3, mgl32.Vec4{0, 0, 0, 1})
	return position, mgl32.Mat4ToQuat(r).Normalize(), scale
}
