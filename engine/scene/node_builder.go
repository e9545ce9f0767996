package scene

import (
	"github.com/Carmen-Shannon/oxy-yuletide/common"
	"github.com/go-gl/mathgl/mgl32"
)

// NodeBuilderOption is a functional option for configuring a Node at construction.
type NodeBuilderOption func(*node)

// WithName sets the node's name.
//
// Parameters:
//   - name: the name
//
// Returns:
//   - NodeBuilderOption: option function to apply
func WithName(name string) NodeBuilderOption {
	return func(n *node) {
		n.name = name
	}
}

// WithPosition sets the node's local translation.
//
// Parameters:
//   - x, y, z: the translation
//
// Returns:
//   - NodeBuilderOption: option function to apply
func WithPosition(x, y, z float32) NodeBuilderOption {
	return func(n *node) {
		n.position = mgl32.Vec3{x, y, z}
	}
}

// WithRotation sets the node's local rotation from XYZ Euler angles in radians.
//
// Parameters:
//   - x, y, z: the Euler angles
//
// Returns:
//   - NodeBuilderOption: option function to apply
func WithRotation(x, y, z float32) NodeBuilderOption {
	return func(n *node) {
		n.rotation = common.EulerXYZ(x, y, z)
	}
}

// WithScale sets the node's local scale.
//
// Parameters:
//   - x, y, z: the scale factors
//
// Returns:
//   - NodeBuilderOption: option function to apply
func WithScale(x, y, z float32) NodeBuilderOption {
	return func(n *node) {
		n.scale = mgl32.Vec3{x, y, z}
	}
}

// WithVisible sets whether the node starts visible.
//
// Parameters:
//   - visible: true to show
//
// Returns:
//   - NodeBuilderOption: option function to apply
func WithVisible(visible bool) NodeBuilderOption {
	return func(n *node) {
		n.visible = visible
	}
}

// WithChildren attaches children at construction.
//
// Parameters:
//   - children: the nodes to attach
//
// Returns:
//   - NodeBuilderOption: option function to apply
func WithChildren(children ...Node) NodeBuilderOption {
	return func(n *node) {
		n.Add(children...)
	}
}
