package grove

import (
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// --- Constructor defaults ---

func TestNewContainerDefaults(t *testing.T) {
	assertNodeDefaults(t, NewContainer("group"), "group", NodeTypeContainer)
}

func TestNewMeshDefaults(t *testing.T) {
	geo := NewBox(1, 1, 1)
	n := NewMesh("box", geo, nil)
	assertNodeDefaults(t, n, "box", NodeTypeMesh)
	if n.Geometry != geo {
		t.Error("Geometry not set")
	}
	if n.Material == nil || n.Material.Color != ColorWhite || n.Material.Opacity != 1 {
		t.Errorf("default material = %+v", n.Material)
	}
}

func TestNewLightNode(t *testing.T) {
	l := NewPointLight(ColorWhite, 1, 10, Vec3{1, 2, 3})
	n := NewLightNode("lamp", l)
	if n.Type != NodeTypeLight || n.Light != l {
		t.Errorf("light node = %+v", n)
	}
	if n.Pickable {
		t.Error("light nodes should not be pickable")
	}
	if n.Position != (Vec3{1, 2, 3}) {
		t.Errorf("Position = %v, want light position", n.Position)
	}
}

func assertNodeDefaults(t *testing.T, n *Node, name string, typ NodeType) {
	t.Helper()
	if n.ID == 0 {
		t.Error("ID should be non-zero")
	}
	if n.Name != name {
		t.Errorf("Name = %q, want %q", n.Name, name)
	}
	if n.Type != typ {
		t.Errorf("Type = %d, want %d", n.Type, typ)
	}
	if n.Scale != (Vec3{1, 1, 1}) {
		t.Errorf("Scale = %v, want (1, 1, 1)", n.Scale)
	}
	if !n.Visible || !n.Pickable {
		t.Error("nodes should start visible and pickable")
	}
	if n.RenderLayer != LayerProps {
		t.Errorf("RenderLayer = %d, want LayerProps", n.RenderLayer)
	}
}

func TestNodeIDsUnique(t *testing.T) {
	seen := make(map[uint32]bool)
	for i := 0; i < 100; i++ {
		id := NewContainer("n").ID
		if seen[id] {
			t.Fatalf("duplicate ID %d", id)
		}
		seen[id] = true
	}
}

// --- Tree manipulation ---

func TestAddChildReparents(t *testing.T) {
	a, b, child := NewContainer("a"), NewContainer("b"), NewContainer("child")
	a.AddChild(child)
	b.AddChild(child)
	if child.Parent != b {
		t.Error("Parent should be b")
	}
	if a.NumChildren() != 0 || b.NumChildren() != 1 {
		t.Errorf("children: a=%d b=%d, want 0 and 1", a.NumChildren(), b.NumChildren())
	}
}

func TestAddChildPanics(t *testing.T) {
	tests := []struct {
		name string
		fn   func()
	}{
		{"nil child", func() { NewContainer("p").AddChild(nil) }},
		{"self", func() {
			n := NewContainer("n")
			n.AddChild(n)
		}},
		{"cycle", func() {
			a, b := NewContainer("a"), NewContainer("b")
			a.AddChild(b)
			b.AddChild(a)
		}},
		{"remove foreign child", func() {
			NewContainer("a").RemoveChild(NewContainer("b"))
		}},
	}
	for _, tt := range tests {
		func() {
			defer func() {
				if recover() == nil {
					t.Errorf("%s: expected panic", tt.name)
				}
			}()
			tt.fn()
		}()
	}
}

func TestRemoveChildren(t *testing.T) {
	p := NewContainer("p")
	kids := []*Node{NewContainer("a"), NewContainer("b"), NewContainer("c")}
	for _, k := range kids {
		p.AddChild(k)
	}
	kids[1].RemoveFromParent()
	if p.NumChildren() != 2 || p.Children()[1] != kids[2] {
		t.Errorf("after RemoveFromParent: %d children", p.NumChildren())
	}
	p.RemoveChildren()
	if p.NumChildren() != 0 {
		t.Errorf("NumChildren = %d, want 0", p.NumChildren())
	}
	for _, k := range kids {
		if k.Parent != nil || k.IsDisposed() {
			t.Errorf("%s: parent %v disposed %v", k.Name, k.Parent, k.IsDisposed())
		}
	}
}

func TestFindChildAndTraverse(t *testing.T) {
	root := NewContainer("root")
	branch := NewContainer("branch")
	root.AddChild(branch)
	branch.AddChild(NewContainer("leaf"))
	root.AddChild(NewContainer("other"))

	if root.FindChild("branch") != branch {
		t.Error("FindChild(branch) failed")
	}
	if root.FindChild("leaf") != nil {
		t.Error("FindChild should only search direct children")
	}

	var names []string
	root.Traverse(func(n *Node) bool {
		names = append(names, n.Name)
		return n.Name != "branch"
	})
	want := []string{"root", "branch", "other"}
	if len(names) != len(want) {
		t.Fatalf("visited %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("visited %v, want %v", names, want)
			break
		}
	}
}

func TestCloneDeep(t *testing.T) {
	geo := NewBox(1, 1, 1)
	root := NewContainer("root")
	root.SetPosition(1, 2, 3)
	root.EntityID = 7
	mesh := NewMesh("mesh", geo, NewMaterial(MustColor("#336699")))
	mesh.RenderLayer = LayerGround
	root.AddChild(mesh)

	c := root.Clone()
	if c == root || c.ID == root.ID {
		t.Error("clone should be a new node with a fresh ID")
	}
	if c.Parent != nil || c.EntityID != 0 {
		t.Error("clone should have no parent and no entity tag")
	}
	if c.Position != root.Position {
		t.Errorf("Position = %v, want %v", c.Position, root.Position)
	}
	cm := c.Children()[0]
	if cm.Parent != c {
		t.Error("cloned child parent not set")
	}
	if cm.Geometry != geo {
		t.Error("geometry should be shared")
	}
	if cm.Material == mesh.Material {
		t.Error("material should be copied")
	}
	if cm.RenderLayer != LayerGround {
		t.Errorf("RenderLayer = %d, want LayerGround", cm.RenderLayer)
	}
}

func TestDispose(t *testing.T) {
	root := NewContainer("root")
	child := NewContainer("child")
	grandchild := NewMesh("gc", NewBox(1, 1, 1), nil)
	root.AddChild(child)
	child.AddChild(grandchild)

	child.Dispose()
	if !child.IsDisposed() || !grandchild.IsDisposed() {
		t.Error("subtree should be disposed")
	}
	if root.NumChildren() != 0 {
		t.Error("disposed node should be detached from its parent")
	}
	if grandchild.Geometry != nil || grandchild.Material != nil {
		t.Error("disposed mesh should drop its geometry and material")
	}
	child.Dispose() // no-op
}

// --- Debug checks ---

func withDebug(t *testing.T) *observer.ObservedLogs {
	t.Helper()
	core, logs := observer.New(zapcore.WarnLevel)
	SetDebug(true, zap.New(core))
	t.Cleanup(func() { SetDebug(false, zap.NewNop()) })
	return logs
}

func TestDebugDisposedPanics(t *testing.T) {
	withDebug(t)
	n := NewContainer("gone")
	n.Dispose()
	defer func() {
		if recover() == nil {
			t.Error("expected panic adding a disposed node")
		}
	}()
	NewContainer("parent").AddChild(n)
}

func TestDebugTreeDepthWarning(t *testing.T) {
	logs := withDebug(t)
	parent := NewContainer("n0")
	for i := 0; i < debugMaxTreeDepth+1; i++ {
		child := NewContainer("deep")
		parent.AddChild(child)
		parent = child
	}
	if logs.FilterMessage("tree depth exceeds threshold").Len() == 0 {
		t.Error("expected a tree depth warning")
	}
	if e := logs.All()[0]; e.LoggerName != "debug" {
		t.Errorf("logger name = %q, want debug", e.LoggerName)
	}
}

func TestDebugChildCountWarning(t *testing.T) {
	logs := withDebug(t)
	parent := NewContainer("wide")
	for i := 0; i < debugMaxChildCount+1; i++ {
		parent.AddChild(NewContainer("c"))
	}
	if n := logs.FilterMessage("node child count exceeds threshold").Len(); n != 1 {
		t.Errorf("warnings = %d, want 1", n)
	}
}
