package scene

import (
	"slices"
	"sync/atomic"

	"github.com/Carmen-Shannon/oxy-yuletide/common"
	"github.com/Carmen-Shannon/oxy-yuletide/engine/light"
	"github.com/Carmen-Shannon/oxy-yuletide/engine/model"
	"github.com/Carmen-Shannon/oxy-yuletide/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-yuletide/engine/renderer/material"
	"github.com/go-gl/mathgl/mgl32"
)

// nodeCount hands out node IDs. IDs start at 1 so the zero value means "no node".
var nodeCount atomic.Uint64

// Kind identifies what a Node carries.
type Kind int

const (
	// KindGroup carries nothing and only positions its children.
	KindGroup Kind = iota
	// KindMesh draws a model with one or more materials.
	KindMesh
	// KindLight positions a light source.
	KindLight
)

// Mesh is the drawable payload of a KindMesh node.
// The model and materials are shared by clones; only the node transform is per-instance.
type Mesh struct {
	Model model.Model

	// Materials holds one material for the whole model, or one per model draw group.
	Materials []material.Material
}

// MaterialFor returns the material used to draw the given draw group.
// A single-material mesh draws every group with that material.
//
// Parameters:
//   - group: the model draw group
//
// Returns:
//   - material.Material: the material, or nil if the mesh has none for that slot
func (m *Mesh) MaterialFor(group model.Group) material.Material {
	switch {
	case len(m.Materials) == 1:
		return m.Materials[0]
	case group.MaterialIndex >= 0 && group.MaterialIndex < len(m.Materials):
		return m.Materials[group.MaterialIndex]
	default:
		return nil
	}
}

// node is the implementation of the Node interface.
type node struct {
	id       uint64
	name     string
	kind     Kind
	visible  bool
	parent   *node
	children []*node

	position mgl32.Vec3
	rotation mgl32.Quat
	scale    mgl32.Vec3

	mesh     *Mesh
	light    light.Light
	provider bind_group_provider.BindGroupProvider
}

// Node defines the interface for an element of the scene graph.
//
// A Node has a local transform (position, rotation, scale), at most one parent and an ordered
// list of children. Adding a node that already has a parent moves it, so a node is never
// reachable through two parents. Nodes are not safe for concurrent mutation: a subtree may be
// built on any goroutine but must be handed to the render goroutine before it is attached.
type Node interface {
	// ID returns the node's unique identifier.
	//
	// Returns:
	//   - uint64: the node ID
	ID() uint64

	// Name returns the node's name.
	//
	// Returns:
	//   - string: the name
	Name() string

	// SetName sets the node's name.
	//
	// Parameters:
	//   - name: the name
	SetName(name string)

	// Kind returns what the node carries.
	//
	// Returns:
	//   - Kind: the node kind
	Kind() Kind

	// Visible reports whether the node and its subtree are drawn and lit.
	//
	// Returns:
	//   - bool: true when visible
	Visible() bool

	// SetVisible toggles the node and its subtree.
	//
	// Parameters:
	//   - visible: true to show
	SetVisible(visible bool)

	// Parent returns the node's parent, or nil when detached or at the root.
	//
	// Returns:
	//   - Node: the parent or nil
	Parent() Node

	// Children returns a copy of the node's child list in insertion order.
	//
	// Returns:
	//   - []Node: the children
	Children() []Node

	// ChildCount returns the number of direct children.
	//
	// Returns:
	//   - int: the child count
	ChildCount() int

	// Child returns the i-th child, or nil when out of range.
	//
	// Parameters:
	//   - i: the child index
	//
	// Returns:
	//   - Node: the child or nil
	Child(i int) Node

	// Add appends children, detaching each from its previous parent first.
	// Adding a node to itself or to one of its descendants is ignored.
	//
	// Parameters:
	//   - children: the nodes to append
	Add(children ...Node)

	// Insert places children at index, detaching each from its previous parent first. The index is
	// clamped to the current child range and advances past each inserted node.
	//
	// Parameters:
	//   - index: the position of the first inserted child
	//   - children: the nodes to insert
	Insert(index int, children ...Node)

	// Remove detaches a direct child.
	//
	// Parameters:
	//   - child: the child to detach
	//
	// Returns:
	//   - bool: true if child was a direct child
	Remove(child Node) bool

	// RemoveFromParent detaches the node from its parent, if any.
	RemoveFromParent()

	// Position returns the local translation.
	//
	// Returns:
	//   - mgl32.Vec3: the translation
	Position() mgl32.Vec3

	// SetPosition sets the local translation.
	//
	// Parameters:
	//   - x, y, z: the translation
	SetPosition(x, y, z float32)

	// Rotation returns the local rotation.
	//
	// Returns:
	//   - mgl32.Quat: the rotation
	Rotation() mgl32.Quat

	// SetRotation sets the local rotation from Euler angles in radians applied in XYZ order.
	//
	// Parameters:
	//   - x, y, z: the Euler angles
	SetRotation(x, y, z float32)

	// SetQuaternion sets the local rotation.
	//
	// Parameters:
	//   - q: the rotation
	SetQuaternion(q mgl32.Quat)

	// Scale returns the local scale.
	//
	// Returns:
	//   - mgl32.Vec3: the scale
	Scale() mgl32.Vec3

	// SetScale sets the local scale.
	//
	// Parameters:
	//   - x, y, z: the scale factors
	SetScale(x, y, z float32)

	// SetMatrix replaces position, rotation and scale with the decomposition of m.
	//
	// Parameters:
	//   - m: an affine transform without shear
	SetMatrix(m mgl32.Mat4)

	// LocalMatrix returns translation * rotation * scale.
	//
	// Returns:
	//   - mgl32.Mat4: the local transform
	LocalMatrix() mgl32.Mat4

	// WorldMatrix returns the product of every ancestor's local matrix and this node's.
	//
	// Returns:
	//   - mgl32.Mat4: the world transform
	WorldMatrix() mgl32.Mat4

	// WorldPosition returns the translation of WorldMatrix.
	//
	// Returns:
	//   - mgl32.Vec3: the world position
	WorldPosition() mgl32.Vec3

	// Mesh returns the drawable payload, or nil for non-mesh nodes.
	//
	// Returns:
	//   - *Mesh: the mesh or nil
	Mesh() *Mesh

	// Light returns the light payload, or nil for non-light nodes.
	//
	// Returns:
	//   - light.Light: the light or nil
	Light() light.Light

	// BindGroupProvider returns the renderer-owned per-node uniform resources, or nil before first draw.
	//
	// Returns:
	//   - bind_group_provider.BindGroupProvider: the provider
	BindGroupProvider() bind_group_provider.BindGroupProvider

	// SetBindGroupProvider stores the renderer-owned per-node uniform resources.
	//
	// Parameters:
	//   - provider: the provider
	SetBindGroupProvider(provider bind_group_provider.BindGroupProvider)

	// Clone returns a detached deep copy of the subtree. Models and materials are shared,
	// lights are copied, GPU providers are not carried over.
	//
	// Returns:
	//   - Node: the copy
	Clone() Node

	// Traverse visits the node and its descendants depth first in child order.
	// Returning false from fn skips the visited node's children.
	//
	// Parameters:
	//   - fn: the visitor
	Traverse(fn func(Node) bool)

	// FindByName returns the first node in the subtree with the given name, or nil.
	//
	// Parameters:
	//   - name: the name to look for
	//
	// Returns:
	//   - Node: the match or nil
	FindByName(name string) Node
}

var _ Node = &node{}

func newNode(kind Kind, options []NodeBuilderOption) *node {
	n := &node{
		id:       nodeCount.Add(1),
		kind:     kind,
		visible:  true,
		rotation: mgl32.QuatIdent(),
		scale:    mgl32.Vec3{1, 1, 1},
	}
	for _, opt := range options {
		opt(n)
	}
	return n
}

// NewGroup creates an empty transform node.
//
// Parameters:
//   - options: variadic list of NodeBuilderOption functions
//
// Returns:
//   - Node: the group node
func NewGroup(options ...NodeBuilderOption) Node {
	return newNode(KindGroup, options)
}

// NewMesh creates a drawable node.
//
// Parameters:
//   - m: the shared geometry
//   - materials: one material, or one per model draw group
//   - options: variadic list of NodeBuilderOption functions
//
// Returns:
//   - Node: the mesh node
func NewMesh(m model.Model, materials []material.Material, options ...NodeBuilderOption) Node {
	n := newNode(KindMesh, options)
	n.mesh = &Mesh{Model: m, Materials: materials}
	return n
}

// NewLight creates a node positioning a light.
//
// Parameters:
//   - l: the light payload
//   - options: variadic list of NodeBuilderOption functions
//
// Returns:
//   - Node: the light node
func NewLight(l light.Light, options ...NodeBuilderOption) Node {
	n := newNode(KindLight, options)
	n.light = l
	return n
}

func (n *node) ID() uint64 {
	return n.id
}

func (n *node) Name() string {
	return n.name
}

func (n *node) SetName(name string) {
	n.name = name
}

func (n *node) Kind() Kind {
	return n.kind
}

func (n *node) Visible() bool {
	return n.visible
}

func (n *node) SetVisible(visible bool) {
	n.visible = visible
}

func (n *node) Parent() Node {
	if n.parent == nil {
		return nil
	}
	return n.parent
}

func (n *node) Children() []Node {
	out := make([]Node, len(n.children))
	for i, c := range n.children {
		out[i] = c
	}
	return out
}

func (n *node) ChildCount() int {
	return len(n.children)
}

func (n *node) Child(i int) Node {
	if i < 0 || i >= len(n.children) {
		return nil
	}
	return n.children[i]
}

func (n *node) Add(children ...Node) {
	for _, c := range children {
		child := asNode(c)
		if child == nil || child.isAncestorOf(n) {
			continue
		}
		child.detach()
		child.parent = n
		n.children = append(n.children, child)
	}
}

func (n *node) Insert(index int, children ...Node) {
	for _, c := range children {
		child := asNode(c)
		if child == nil || child.isAncestorOf(n) {
			continue
		}
		child.detach()
		index = min(max(index, 0), len(n.children))
		child.parent = n
		n.children = slices.Insert(n.children, index, child)
		index++
	}
}

func (n *node) Remove(child Node) bool {
	c := asNode(child)
	if c == nil || c.parent != n {
		return false
	}
	c.detach()
	return true
}

func (n *node) RemoveFromParent() {
	n.detach()
}

func (n *node) detach() {
	if n.parent == nil {
		return
	}
	p := n.parent
	if i := slices.Index(p.children, n); i >= 0 {
		p.children = slices.Delete(p.children, i, i+1)
	}
	n.parent = nil
}

// isAncestorOf reports whether n is other or one of other's ancestors.
func (n *node) isAncestorOf(other *node) bool {
	for cur := other; cur != nil; cur = cur.parent {
		if cur == n {
			return true
		}
	}
	return false
}

func (n *node) Position() mgl32.Vec3 {
	return n.position
}

func (n *node) SetPosition(x, y, z float32) {
	n.position = mgl32.Vec3{x, y, z}
}

func (n *node) Rotation() mgl32.Quat {
	return n.rotation
}

func (n *node) SetRotation(x, y, z float32) {
	n.rotation = common.EulerXYZ(x, y, z)
}

func (n *node) SetQuaternion(q mgl32.Quat) {
	n.rotation = q.Normalize()
}

func (n *node) Scale() mgl32.Vec3 {
	return n.scale
}

func (n *node) SetScale(x, y, z float32) {
	n.scale = mgl32.Vec3{x, y, z}
}

func (n *node) SetMatrix(m mgl32.Mat4) {
	n.position, n.rotation, n.scale = common.DecomposeTRS(m)
}

func (n *node) LocalMatrix() mgl32.Mat4 {
	return common.ComposeTRS(n.position, n.rotation, n.scale)
}

func (n *node) WorldMatrix() mgl32.Mat4 {
	m := n.LocalMatrix()
	for p := n.parent; p != nil; p = p.parent {
		m = p.LocalMatrix().Mul4(m)
	}
	return m
}

func (n *node) WorldPosition() mgl32.Vec3 {
	return n.WorldMatrix().Col(3).Vec3()
}

func (n *node) Mesh() *Mesh {
	return n.mesh
}

func (n *node) Light() light.Light {
	return n.light
}

func (n *node) BindGroupProvider() bind_group_provider.BindGroupProvider {
	return n.provider
}

func (n *node) SetBindGroupProvider(provider bind_group_provider.BindGroupProvider) {
	n.provider = provider
}

func (n *node) Clone() Node {
	return n.clone()
}

func (n *node) clone() *node {
	c := &node{
		id:       nodeCount.Add(1),
		name:     n.name,
		kind:     n.kind,
		visible:  n.visible,
		position: n.position,
		rotation: n.rotation,
		scale:    n.scale,
	}
	if n.mesh != nil {
		c.mesh = &Mesh{Model: n.mesh.Model, Materials: slices.Clone(n.mesh.Materials)}
	}
	if n.light != nil {
		c.light = n.light.Clone()
	}
	for _, child := range n.children {
		cc := child.clone()
		cc.parent = c
		c.children = append(c.children, cc)
	}
	return c
}

func (n *node) Traverse(fn func(Node) bool) {
	if !fn(n) {
		return
	}
	for _, c := range n.children {
		c.Traverse(fn)
	}
}

func (n *node) FindByName(name string) Node {
	var found Node
	n.Traverse(func(cur Node) bool {
		if found != nil {
			return false
		}
		if cur.Name() == name {
			found = cur
			return false
		}
		return true
	})
	return found
}

// asNode unwraps a Node created by this package. Other implementations cannot join the graph.
func asNode(n Node) *node {
	if n == nil {
		return nil
	}
	impl, ok := n.(*node)
	if !ok {
		panic("scene: Node implementations from outside this package cannot be attached")
	}
	return impl
}
