package grove

import (
	"sync/atomic"

	"github.com/go-gl/mathgl/mgl64"
)

// --- ID counter ---

// nodeIDCounter is atomic: asset loaders build nodes off the host goroutine.
var nodeIDCounter atomic.Uint32

func nextNodeID() uint32 {
	return nodeIDCounter.Add(1)
}

// --- Node ---

// Node is the fundamental scene graph element. A single flat struct is used for
// all node types to avoid interface dispatch on the hot path.
//
// Nodes are not safe for concurrent use. A subtree may be built on any
// goroutine, but once attached to a live generation it belongs to the host
// goroutine.
type Node struct {
	// Identity
	ID   uint32
	Name string
	Type NodeType

	// Hierarchy
	Parent   *Node
	children []*Node

	// Transform (local). Rotation is Euler XYZ in radians.
	Position Vec3
	Rotation Vec3
	Scale    Vec3

	// Computed during UpdateTransforms
	worldMatrix    mgl64.Mat4
	transformDirty bool

	// Visibility & interaction
	Visible  bool
	Pickable bool

	// Ordering
	RenderLayer uint8

	// Metadata. EntityID keys the owning scene graph's entity table; zero
	// means untagged.
	EntityID uint32
	UserData any

	// Mesh fields (NodeTypeMesh)
	Geometry *Geometry
	Material *Material

	// Light fields (NodeTypeLight)
	Light *Light

	// Internal
	disposed bool
}

// nodeDefaults sets the common default field values shared by all constructors.
func nodeDefaults(n *Node) {
	n.ID = nextNodeID()
	n.Scale = Vec3{1, 1, 1}
	n.Visible = true
	n.Pickable = true
	n.RenderLayer = LayerProps
	n.worldMatrix = mgl64.Ident4()
	n.transformDirty = true
}

// NewContainer creates a group node with no visual representation.
func NewContainer(name string) *Node {
	n := &Node{Name: name, Type: NodeTypeContainer}
	nodeDefaults(n)
	return n
}

// NewMesh creates a mesh node drawing geo with mat.
func NewMesh(name string, geo *Geometry, mat *Material) *Node {
	if mat == nil {
		mat = NewMaterial(ColorWhite)
	}
	n := &Node{Name: name, Type: NodeTypeMesh, Geometry: geo, Material: mat}
	nodeDefaults(n)
	return n
}

// NewLightNode creates a node carrying a light source. Light nodes are
// never pickable.
func NewLightNode(name string, l *Light) *Node {
	n := &Node{Name: name, Type: NodeTypeLight, Light: l}
	nodeDefaults(n)
	n.Pickable = false
	if l != nil {
		n.Position = l.Position
	}
	return n
}

// --- Tree manipulation ---

// AddChild appends child to this node's children.
// If child already has a parent, it is removed from that parent first.
// Panics if child is nil or child is an ancestor of this node (cycle).
func (n *Node) AddChild(child *Node) {
	if child == nil {
		panic("grove: cannot add nil child")
	}
	if globalDebug {
		debugCheckDisposed(n, "AddChild (parent)")
		debugCheckDisposed(child, "AddChild (child)")
	}
	if isAncestor(child, n) {
		panic("grove: adding child would create a cycle")
	}
	if child.Parent != nil {
		child.Parent.removeChildByPtr(child)
	}
	child.Parent = n
	n.children = append(n.children, child)
	markSubtreeDirty(child)
	if globalDebug {
		debugCheckTreeDepth(child)
		debugCheckChildCount(n)
	}
}

// RemoveChild detaches child from this node.
// Panics if child.Parent != n.
func (n *Node) RemoveChild(child *Node) {
	if child.Parent != n {
		panic("grove: child's parent is not this node")
	}
	n.removeChildByPtr(child)
	child.Parent = nil
	markSubtreeDirty(child)
}

// RemoveFromParent detaches this node from its parent.
// No-op if this node has no parent.
func (n *Node) RemoveFromParent() {
	if n.Parent == nil {
		return
	}
	n.Parent.RemoveChild(n)
}

// RemoveChildren detaches all children from this node.
// Children are NOT disposed.
func (n *Node) RemoveChildren() {
	for _, child := range n.children {
		child.Parent = nil
		markSubtreeDirty(child)
	}
	n.children = n.children[:0]
}

// Children returns the child list. The returned slice MUST NOT be mutated by the caller.
func (n *Node) Children() []*Node {
	return n.children
}

// NumChildren returns the number of children.
func (n *Node) NumChildren() int {
	return len(n.children)
}

// FindChild returns the first direct child with the given name, or nil.
func (n *Node) FindChild(name string) *Node {
	for _, c := range n.children {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// Traverse visits n and its descendants depth-first in child order.
// Returning false from fn skips that node's subtree.
func (n *Node) Traverse(fn func(*Node) bool) {
	if !fn(n) {
		return
	}
	for _, c := range n.children {
		c.Traverse(fn)
	}
}

// Clone deep-copies n and its subtree. Geometry is shared (it is never
// mutated after construction); materials are copied so per-instance tints
// and opacity do not leak between clones. The copy has no parent, fresh
// IDs and no entity tag.
func (n *Node) Clone() *Node {
	c := &Node{
		Name:        n.Name,
		Type:        n.Type,
		Position:    n.Position,
		Rotation:    n.Rotation,
		Scale:       n.Scale,
		Visible:     n.Visible,
		Pickable:    n.Pickable,
		RenderLayer: n.RenderLayer,
		UserData:    n.UserData,
		Geometry:    n.Geometry,
	}
	c.ID = nextNodeID()
	c.worldMatrix = mgl64.Ident4()
	c.transformDirty = true
	if n.Material != nil {
		c.Material = n.Material.Clone()
	}
	if n.Light != nil {
		l := *n.Light
		c.Light = &l
	}
	c.children = make([]*Node, 0, len(n.children))
	for _, child := range n.children {
		cc := child.Clone()
		cc.Parent = c
		c.children = append(c.children, cc)
	}
	return c
}

// --- Disposal ---

// Dispose removes this node from its parent, marks it as disposed,
// and recursively disposes all descendants. Shared geometry and textures
// are left alone; their owner releases them.
func (n *Node) Dispose() {
	if n.disposed {
		return
	}
	n.RemoveFromParent()
	n.dispose()
}

func (n *Node) dispose() {
	n.disposed = true
	n.ID = 0
	for _, child := range n.children {
		child.Parent = nil
		child.dispose()
	}
	n.children = nil
	n.Parent = nil
	n.Geometry = nil
	n.Material = nil
	n.Light = nil
	n.UserData = nil
}

// IsDisposed returns true if this node has been disposed.
func (n *Node) IsDisposed() bool {
	return n.disposed
}

// --- Helpers ---

// isAncestor reports whether candidate is an ancestor of node.
func isAncestor(candidate, node *Node) bool {
	for p := node; p != nil; p = p.Parent {
		if p == candidate {
			return true
		}
	}
	return false
}

// removeChildByPtr removes child from n.children without clearing child.Parent.
// Uses copy+nil to avoid retaining a dangling pointer in the backing array.
func (n *Node) removeChildByPtr(child *Node) {
	for i, c := range n.children {
		if c == child {
			copy(n.children[i:], n.children[i+1:])
			n.children[len(n.children)-1] = nil
			n.children = n.children[:len(n.children)-1]
			return
		}
	}
}

// markSubtreeDirty sets transformDirty on node and all its descendants.
func markSubtreeDirty(node *Node) {
	node.transformDirty = true
	for _, child := range node.children {
		markSubtreeDirty(child)
	}
}
