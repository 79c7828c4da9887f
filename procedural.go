package grove

import (
	"context"
	"fmt"
	"math"
)

// ProceduralLoader builds stand-in models from primitive geometry, keyed by
// the catalog key. Shapes are authored in world units; the returned root
// carries the inverse of the catalog scale so the per-model factors in the
// catalog cancel out at placement.
type ProceduralLoader struct{}

// Load builds the model for spec.Key.
func (ProceduralLoader) Load(ctx context.Context, spec ModelSpec) (*Node, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	build, ok := speciesBuilders[spec.Key]
	if !ok {
		return nil, fmt.Errorf("no procedural model for %q", spec.Key)
	}
	root := NewContainer(spec.Key)
	if spec.Scale > 0 {
		root.SetScale(1 / spec.Scale)
	}
	build(root)
	return root, nil
}

var speciesBuilders = map[string]func(*Node){
	"pine2":       func(n *Node) { conifer(n, 3, 0.9, 2.6, "#1f5f3a") },
	"cypress":     func(n *Node) { conifer(n, 4, 0.55, 3.4, "#2e4d2c") },
	"tree":        func(n *Node) { conifer(n, 3, 1.1, 2.4, "#2f7d32") },
	"oak_tree":    func(n *Node) { broadleaf(n, "#6b4a2b", "#3f8f2f", 1.0, 1.2) },
	"maple_tree":  func(n *Node) { broadleaf(n, "#5a3a22", "#c0392b", 1.0, 1.3) },
	"birch_tree":  func(n *Node) { broadleaf(n, "#e8e2d0", "#9acd32", 0.8, 1.6) },
	"cherry":      func(n *Node) { broadleaf(n, "#5b3a29", "#ffb7c5", 1.1, 1.0) },
	"orange_tree": orangeTree,
	"poplar":      poplar,
	"cactus":      cactus,
	"dead":        deadTree,
	"pebble1":     func(n *Node) { pebble(n, 0.35, "#8a8a85") },
	"pebble2":     func(n *Node) { pebble(n, 0.25, "#a39e93") },
	"grass1":      func(n *Node) { grassTuft(n, 3, 0.35, "#5fa52a") },
	"grass2":      func(n *Node) { grassTuft(n, 5, 0.3, "#79c13b") },
}

func part(parent *Node, name string, geo *Geometry, hex string, x, y, z float64) *Node {
	n := NewMesh(name, geo, NewMaterial(MustColor(hex)))
	n.SetPosition(x, y, z)
	parent.AddChild(n)
	return n
}

// conifer stacks tiers of cones over a short trunk.
func conifer(root *Node, tiers int, radius, height float64, leaf string) {
	part(root, "trunk", NewCylinder(0.12, 0.16, 0.6, 8), "#6b4226", 0, 0.3, 0)
	tierH := height / float64(tiers) * 1.4
	for i := 0; i < tiers; i++ {
		f := 1 - float64(i)/float64(tiers+1)
		y := 0.6 + float64(i)*height/float64(tiers) + tierH/2
		part(root, fmt.Sprintf("tier%d", i), NewCone(radius*f, tierH, 10), leaf, 0, y, 0)
	}
}

// broadleaf is a trunk under a round canopy.
func broadleaf(root *Node, bark, leaf string, trunkH, canopyR float64) {
	part(root, "trunk", NewCylinder(0.12, 0.18, trunkH, 8), bark, 0, trunkH/2, 0)
	part(root, "canopy", NewSphere(canopyR, 10, 8), leaf, 0, trunkH+canopyR*0.8, 0)
	part(root, "canopy2", NewSphere(canopyR*0.6, 8, 6), leaf, canopyR*0.5, trunkH+canopyR*1.2, 0.2)
}

func orangeTree(root *Node) {
	broadleaf(root, "#5b3a29", "#2e8b57", 1.0, 1.1)
	fruit := NewSphere(0.12, 6, 4)
	for i := 0; i < 6; i++ {
		a := float64(i) / 6 * 2 * math.Pi
		part(root, fmt.Sprintf("fruit%d", i), fruit, "#ffa500", math.Cos(a)*1.0, 1.7+0.3*math.Sin(3*a), math.Sin(a)*1.0)
	}
}

// poplar rests its base at y=2 so the catalog's negative ground offset
// sinks it to the tile.
func poplar(root *Node) {
	part(root, "trunk", NewCylinder(0.2, 0.3, 3, 8), "#7a5c3e", 0, 3.5, 0)
	crown := part(root, "canopy", NewSphere(1.2, 10, 10), "#6aa84f", 0, 8, 0)
	crown.SetScaleXYZ(1, 3, 1)
}

// cactus is centered on its origin; the catalog's ground offset lifts it.
func cactus(root *Node) {
	green := "#3b7a3b"
	part(root, "column", NewCylinder(0.18, 0.2, 1.5, 10), green, 0, 0, 0)
	arm := part(root, "armL", NewCylinder(0.1, 0.1, 0.5, 8), green, -0.3, 0.15, 0)
	arm.SetRotation(0, 0, math.Pi/2)
	part(root, "armLUp", NewCylinder(0.1, 0.1, 0.4, 8), green, -0.5, 0.35, 0)
	arm = part(root, "armR", NewCylinder(0.09, 0.09, 0.4, 8), green, 0.27, -0.1, 0)
	arm.SetRotation(0, 0, math.Pi/2)
	part(root, "armRUp", NewCylinder(0.09, 0.09, 0.35, 8), green, 0.45, 0.07, 0)
}

func deadTree(root *Node) {
	bark := "#7d6b5d"
	part(root, "trunk", NewCylinder(0.15, 0.25, 3, 7), bark, 0, 1.5, 0)
	branch := NewCylinder(0.04, 0.08, 1.2, 5)
	for i := 0; i < 4; i++ {
		a := float64(i) / 4 * 2 * math.Pi
		b := part(root, fmt.Sprintf("branch%d", i), branch, bark,
			math.Cos(a)*0.4, 2.2+0.25*float64(i), math.Sin(a)*0.4)
		b.SetRotation(math.Sin(a)*0.8, 0, -math.Cos(a)*0.8)
	}
}

func pebble(root *Node, radius float64, hex string) {
	p := part(root, "stone", NewSphere(radius, 8, 5), hex, 0, radius*0.3, 0)
	p.SetScaleXYZ(1.3, 0.5, 1)
}

func grassTuft(root *Node, blades int, height float64, hex string) {
	blade := NewCone(0.05, height, 4)
	for i := 0; i < blades; i++ {
		a := float64(i) / float64(blades) * 2 * math.Pi
		b := part(root, fmt.Sprintf("blade%d", i), blade, hex, math.Cos(a)*0.08, height/2, math.Sin(a)*0.08)
		b.SetRotation(math.Sin(a)*0.25, 0, -math.Cos(a)*0.25)
	}
}

// FallbackTree returns the primitive trunk and canopy drawn in place of a
// model that failed to load.
func FallbackTree() *Node {
	root := NewContainer("fallback_tree")
	part(root, "trunk", NewCylinder(0.1, 0.15, 1, 8), "#8b4513", 0, 0.5, 0)
	part(root, "foliage", NewCone(0.5, 1, 8), "#228b22", 0, 1.5, 0)
	return root
}
