package grove

import "github.com/go-gl/mathgl/mgl64"

// computeLocalMatrix composes the node's local transform.
//
// Composition order:
//
//	Scale -> RotateZ -> RotateY -> RotateX -> Translate(Position)
func computeLocalMatrix(n *Node) mgl64.Mat4 {
	m := mgl64.Translate3D(n.Position[0], n.Position[1], n.Position[2])
	if n.Rotation[0] != 0 {
		m = m.Mul4(mgl64.HomogRotate3DX(n.Rotation[0]))
	}
	if n.Rotation[1] != 0 {
		m = m.Mul4(mgl64.HomogRotate3DY(n.Rotation[1]))
	}
	if n.Rotation[2] != 0 {
		m = m.Mul4(mgl64.HomogRotate3DZ(n.Rotation[2]))
	}
	return m.Mul4(mgl64.Scale3D(n.Scale[0], n.Scale[1], n.Scale[2]))
}

// updateWorldTransform recomputes a node's worldMatrix.
// parentRecomputed indicates whether the parent was recomputed this pass,
// which forces recomputation of this node even if it's not dirty.
func updateWorldTransform(n *Node, parent mgl64.Mat4, parentRecomputed bool) {
	recompute := n.transformDirty || parentRecomputed
	if recompute {
		n.worldMatrix = parent.Mul4(computeLocalMatrix(n))
		n.transformDirty = false
	}
	for _, child := range n.children {
		updateWorldTransform(child, n.worldMatrix, recompute)
	}
}

// UpdateTransforms refreshes world matrices for root and its subtree.
// Rendering and ray casting call it before reading world positions.
func UpdateTransforms(root *Node) {
	updateWorldTransform(root, mgl64.Ident4(), false)
}

// --- Transform property setters ---

// SetPosition sets the node's local position and marks it dirty.
func (n *Node) SetPosition(x, y, z float64) {
	n.Position = Vec3{x, y, z}
	n.transformDirty = true
}

// SetScale sets a uniform scale factor and marks the node dirty.
func (n *Node) SetScale(s float64) {
	n.Scale = Vec3{s, s, s}
	n.transformDirty = true
}

// SetScaleXYZ sets per-axis scale factors and marks the node dirty.
func (n *Node) SetScaleXYZ(sx, sy, sz float64) {
	n.Scale = Vec3{sx, sy, sz}
	n.transformDirty = true
}

// SetRotation sets the Euler rotation (radians) and marks the node dirty.
func (n *Node) SetRotation(rx, ry, rz float64) {
	n.Rotation = Vec3{rx, ry, rz}
	n.transformDirty = true
}

// MarkDirty marks the node's transform as dirty, forcing recomputation
// on the next pass. Useful after bulk-setting fields directly.
func (n *Node) MarkDirty() {
	n.transformDirty = true
}

// --- Coordinate conversion ---

// WorldMatrix returns the world matrix computed by the last UpdateTransforms.
func (n *Node) WorldMatrix() mgl64.Mat4 {
	return n.worldMatrix
}

// chainMatrix composes local matrices up the parent chain without relying
// on the cached world matrices.
func (n *Node) chainMatrix() mgl64.Mat4 {
	m := computeLocalMatrix(n)
	for p := n.Parent; p != nil; p = p.Parent {
		m = computeLocalMatrix(p).Mul4(m)
	}
	return m
}

// LocalToWorld converts a local-space point to world space. It walks the
// parent chain, so the result is current even between transform passes.
func (n *Node) LocalToWorld(p Vec3) Vec3 {
	return mgl64.TransformCoordinate(p, n.chainMatrix())
}

// WorldPosition returns the world-space origin of the node.
func (n *Node) WorldPosition() Vec3 {
	return n.LocalToWorld(Vec3{})
}

// WorldToLocal converts a world-space point to this node's local space.
func (n *Node) WorldToLocal(p Vec3) Vec3 {
	return mgl64.TransformCoordinate(p, n.chainMatrix().Inv())
}
