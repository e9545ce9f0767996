package scene

import (
	"sync"

	"github.com/Carmen-Shannon/oxy-yuletide/common"
	"github.com/Carmen-Shannon/oxy-yuletide/engine/light"
	"github.com/go-gl/mathgl/mgl32"
)

// scene is the implementation of the Scene interface.
type scene struct {
	mu         sync.RWMutex
	name       string
	root       *node
	background common.Color
}

// MeshInstance is a visible mesh node resolved into world space for one frame.
type MeshInstance struct {
	Node  Node
	Mesh  *Mesh
	World mgl32.Mat4
}

// Frame is the flattened, world-space snapshot of a scene that the renderer consumes.
type Frame struct {
	Meshes     []MeshInstance
	Lights     []light.Instance
	Background common.Color
}

// Scene manages the root of a node graph. Top-level nodes are the root's children.
//
// Graph mutation must happen on the goroutine that renders the scene. The scene lock
// only guards the top-level child list against concurrent readers such as diagnostics.
type Scene interface {
	// Name returns the scene's identifier.
	Name() string

	// SetName sets the scene's identifier.
	SetName(name string)

	// Root returns the implicit root node. Its transform is the identity and it is never drawn.
	Root() Node

	// Background returns the clear color.
	Background() common.Color

	// SetBackground sets the clear color.
	//
	// Parameters:
	//   - c: the linear clear color
	SetBackground(c common.Color)

	// Add appends top-level nodes.
	//
	// Parameters:
	//   - nodes: the nodes to append
	Add(nodes ...Node)

	// Insert places top-level nodes at index, clamped to the current range.
	//
	// Parameters:
	//   - index: the position of the first inserted node
	//   - nodes: the nodes to insert
	Insert(index int, nodes ...Node)

	// Remove detaches a top-level node.
	//
	// Parameters:
	//   - n: the node
	//
	// Returns:
	//   - bool: true if n was a top-level node
	Remove(n Node) bool

	// Clear removes every top-level node.
	Clear()

	// Children returns the top-level nodes in insertion order.
	//
	// Returns:
	//   - []Node: the top-level nodes
	Children() []Node

	// ChildCount returns the number of top-level nodes.
	//
	// Returns:
	//   - int: the count
	ChildCount() int

	// FindByName searches the whole graph for the first node with the given name.
	//
	// Parameters:
	//   - name: the name to look for
	//
	// Returns:
	//   - Node: the match or nil
	FindByName(name string) Node

	// Traverse visits every node below the root depth first.
	//
	// Parameters:
	//   - fn: the visitor, returning false skips the visited node's children
	Traverse(fn func(Node) bool)

	// Collect flattens visible meshes and enabled lights into world space.
	// Hidden nodes hide their whole subtree.
	//
	// Returns:
	//   - Frame: the snapshot
	Collect() Frame
}

var _ Scene = &scene{}

// NewScene creates a new empty Scene with the provided options applied.
//
// Parameters:
//   - options: variadic list of SceneBuilderOption functions
//
// Returns:
//   - Scene: the scene
func NewScene(options ...SceneBuilderOption) Scene {
	s := &scene{
		root: newNode(KindGroup, []NodeBuilderOption{WithName("root")}),
	}
	for _, opt := range options {
		opt(s)
	}
	return s
}

func (s *scene) Name() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.name
}

func (s *scene) SetName(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.name = name
}

func (s *scene) Root() Node {
	return s.root
}

func (s *scene) Background() common.Color {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.background
}

func (s *scene) SetBackground(c common.Color) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.background = c
}

func (s *scene) Add(nodes ...Node) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.root.Add(nodes...)
}

func (s *scene) Insert(index int, nodes ...Node) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.root.Insert(index, nodes...)
}

func (s *scene) Remove(n Node) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.root.Remove(n)
}

func (s *scene) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for len(s.root.children) > 0 {
		s.root.children[0].detach()
	}
}

func (s *scene) Children() []Node {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.root.Children()
}

func (s *scene) ChildCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.root.ChildCount()
}

func (s *scene) FindByName(name string) Node {
	for _, c := range s.Children() {
		if found := c.FindByName(name); found != nil {
			return found
		}
	}
	return nil
}

func (s *scene) Traverse(fn func(Node) bool) {
	for _, c := range s.Children() {
		c.Traverse(fn)
	}
}

func (s *scene) Collect() Frame {
	s.mu.RLock()
	defer s.mu.RUnlock()

	f := Frame{Background: s.background}
	var walk func(n *node, parent mgl32.Mat4)
	walk = func(n *node, parent mgl32.Mat4) {
		if !n.visible {
			return
		}
		world := parent.Mul4(n.LocalMatrix())
		switch n.kind {
		case KindMesh:
			if n.mesh != nil && n.mesh.Model != nil {
				f.Meshes = append(f.Meshes, MeshInstance{Node: n, Mesh: n.mesh, World: world})
			}
		case KindLight:
			if n.light != nil && n.light.Enabled() {
				f.Lights = append(f.Lights, light.Instance{Light: n.light, Position: world.Col(3).Vec3()})
			}
		}
		for _, c := range n.children {
			walk(c, world)
		}
	}
	for _, c := range s.root.children {
		walk(c, mgl32.Ident4())
	}
	return f
}
