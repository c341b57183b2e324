package math

import (
	"slices"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/spaghettifunk/resin/engine/core"
)

/**
 * @brief Represents the transform of an object in the world.
 * Transforms can have a parent whose own transform is then
 * taken into account. NOTE: The local state should not be edited
 * directly, but via the setters so that the cached world matrices
 * of the transform and of its whole subtree are invalidated.
 */
type Transform struct {
	hierarchy *Hierarchy
	handle    Handle
	id        uuid.UUID

	/** @brief The parent transform, zero for roots. */
	parent Handle
	/** @brief Every transform whose parent is this one. */
	children []Handle

	/** @brief The position relative to the parent. */
	position mgl32.Vec3
	/** @brief The rotation relative to the parent. */
	rotation mgl32.Quat
	/** @brief The per-axis scale relative to the parent. */
	scale mgl32.Vec3

	// dirty guards model, invDirty guards invModel. They are cleared independently.
	dirty    bool
	model    mgl32.Mat4
	invDirty bool
	invModel mgl32.Mat4
}

func (t *Transform) Handle() Handle {
	return t.handle
}

// UUID returns the persistent identity of the transform, stable for its whole life.
func (t *Transform) UUID() uuid.UUID {
	return t.id
}

func (t *Transform) Hierarchy() *Hierarchy {
	return t.hierarchy
}

func (t *Transform) alive() bool {
	return t.hierarchy.ids.Valid(t.handle)
}

func (t *Transform) HasParent() bool {
	return !t.parent.IsZero()
}

// Parent returns nil for roots.
func (t *Transform) Parent() *Transform {
	if t.parent.IsZero() {
		return nil
	}
	return t.hierarchy.resolve(t.parent)
}

func (t *Transform) Children() []*Transform {
	children := make([]*Transform, 0, len(t.children))
	for _, c := range t.children {
		if child := t.hierarchy.resolve(c); child != nil {
			children = append(children, child)
		}
	}
	return children
}

func (t *Transform) ChildCount() int {
	return len(t.children)
}

// SetParent moves the transform under parent, or makes it a root when parent is nil.
// The cached world matrices are always invalidated, even when parent is unchanged.
func (t *Transform) SetParent(parent *Transform) error {
	if !t.alive() {
		return errors.Wrapf(core.ErrStaleHandle, "transform %d", t.handle.Index)
	}
	if parent != nil {
		if parent.hierarchy != t.hierarchy {
			return core.ErrForeignTransform
		}
		if !parent.alive() {
			return errors.Wrapf(core.ErrStaleHandle, "parent %d", parent.handle.Index)
		}
		if parent.handle == t.parent {
			t.markDirty()
			return nil
		}
		if t.hierarchy.config.CheckCycles && parent.isDescendantOf(t) {
			core.LogWarn("refusing to parent transform %d to %d: cycle", t.handle.Index, parent.handle.Index)
			return errors.Wrapf(core.ErrCyclicParent, "transform %d to %d", t.handle.Index, parent.handle.Index)
		}
	}

	// clear reference from old parent
	t.removeFromParent()

	t.markDirty()
	if parent == nil {
		return nil
	}

	// setup reference in new parent
	t.parent = parent.handle
	parent.children = append(parent.children, t.handle)
	core.LogDebug("transform %d parented to %d", t.handle.Index, parent.handle.Index)
	return nil
}

// Detach makes the transform a root. Its children stay attached to it.
func (t *Transform) Detach() {
	if t.parent.IsZero() {
		return
	}
	t.removeFromParent()
	t.markDirty()
}

// Destroy removes the transform from its hierarchy, see Hierarchy.Destroy.
func (t *Transform) Destroy() error {
	return t.hierarchy.Destroy(t.handle)
}

// isDescendantOf reports whether ancestor is t itself or appears in t's parent chain.
func (t *Transform) isDescendantOf(ancestor *Transform) bool {
	for n := t; n != nil; n = n.Parent() {
		if n == ancestor {
			return true
		}
	}
	return false
}

func (t *Transform) removeFromParent() {
	if t.parent.IsZero() {
		return
	}
	if parent := t.hierarchy.resolve(t.parent); parent != nil {
		if i := slices.Index(parent.children, t.handle); i >= 0 {
			parent.children = slices.Delete(parent.children, i, i+1)
		}
	}
	t.parent = Handle{}
}

// markDirty invalidates both caches of t and its subtree. Nodes that are
// already fully dirty are skipped together with their subtrees: their
// descendants were marked when they became dirty.
func (t *Transform) markDirty() {
	h := t.hierarchy
	if t.dirty && t.invDirty {
		h.stats.DirtySkips++
		return
	}

	// the queue is always drained before returning
	queue := h.dirtyQueue
	queue.Enqueue(t)
	for !queue.IsEmpty() {
		n, _ := queue.Dequeue()
		if n.dirty && n.invDirty {
			h.stats.DirtySkips++
			continue
		}
		n.dirty = true
		n.invDirty = true
		h.stats.DirtyMarks++
		for _, c := range n.children {
			if child := h.resolve(c); child != nil {
				queue.Enqueue(child)
			}
		}
	}
}

func (t *Transform) LocalPosition() mgl32.Vec3 {
	return t.position
}

func (t *Transform) SetLocalPosition(position mgl32.Vec3) {
	t.position = position
	t.markDirty()
}

func (t *Transform) Translate(translation mgl32.Vec3) {
	t.position = t.position.Add(translation)
	t.markDirty()
}

// Position returns the position in world space.
func (t *Transform) Position() mgl32.Vec3 {
	parent := t.Parent()
	if parent == nil {
		return t.position
	}
	return parent.LocalToWorldMatrix().Mul4x1(t.position.Vec4(1)).Vec3()
}

func (t *Transform) LocalRotation() mgl32.Quat {
	return t.rotation
}

// SetLocalRotation stores rotation as given, without normalizing it.
func (t *Transform) SetLocalRotation(rotation mgl32.Quat) {
	t.rotation = rotation
	t.markDirty()
}

// Rotation returns the rotation in world space.
func (t *Transform) Rotation() mgl32.Quat {
	parent := t.Parent()
	if parent == nil {
		return t.rotation
	}
	return parent.Rotation().Mul(t.rotation)
}

// Rotate appends a rotation of angle radians around axis: current * angleAxis(angle, axis).
// The axis does not need to be unit length.
func (t *Transform) Rotate(axis mgl32.Vec3, angle float32) {
	t.rotation = t.rotation.Mul(mgl32.QuatRotate(angle, axis.Normalize())).Normalize()
	t.markDirty()
}

// RotateBy applies rotation in parent space: rotation * current.
func (t *Transform) RotateBy(rotation mgl32.Quat) {
	t.rotation = rotation.Mul(t.rotation).Normalize()
	t.markDirty()
}

// RotateLocal applies rotation in object space: current * rotation.
func (t *Transform) RotateLocal(rotation mgl32.Quat) {
	t.rotation = t.rotation.Mul(rotation).Normalize()
	t.markDirty()
}

func (t *Transform) LocalScale() mgl32.Vec3 {
	return t.scale
}

// SetLocalScale sets the per-axis scale. Components must be non-zero for the
// inverse matrices to be defined; negative components mirror.
func (t *Transform) SetLocalScale(scale mgl32.Vec3) {
	t.scale = scale
	t.markDirty()
}

func (t *Transform) SetLocalScaleUniform(scale float32) {
	t.scale = mgl32.Vec3{scale, scale, scale}
	t.markDirty()
}

func (t *Transform) SetLocalPositionRotationScale(position mgl32.Vec3, rotation mgl32.Quat, scale mgl32.Vec3) {
	t.position = position
	t.rotation = rotation
	t.scale = scale
	t.markDirty()
}

// LocalToParentMatrix returns translate * rotate * scale. It is not cached.
func (t *Transform) LocalToParentMatrix() mgl32.Mat4 {
	translate := mgl32.Translate3D(t.position.X(), t.position.Y(), t.position.Z())
	rotate := t.rotation.Mat4()
	scale := mgl32.Scale3D(t.scale.X(), t.scale.Y(), t.scale.Z())
	return translate.Mul4(rotate).Mul4(scale)
}

// ParentToLocalMatrix returns the inverse of LocalToParentMatrix, built from the
// inverted components: scale(1/s) * rotate(q^-1) * translate(-p).
func (t *Transform) ParentToLocalMatrix() mgl32.Mat4 {
	invScale := mgl32.Scale3D(1/t.scale.X(), 1/t.scale.Y(), 1/t.scale.Z())
	invRotate := t.rotation.Inverse().Mat4()
	invTranslate := mgl32.Translate3D(-t.position.X(), -t.position.Y(), -t.position.Z())
	return invScale.Mul4(invRotate).Mul4(invTranslate)
}

// LocalToWorldMatrix returns the model matrix, recomputing it and any stale
// ancestor only when the cache was invalidated.
func (t *Transform) LocalToWorldMatrix() mgl32.Mat4 {
	if !t.dirty {
		return t.model
	}

	t.model = t.LocalToParentMatrix()
	if parent := t.Parent(); parent != nil {
		t.model = parent.LocalToWorldMatrix().Mul4(t.model)
	}

	t.dirty = false
	t.hierarchy.stats.WorldRecomputes++
	return t.model
}

// WorldToLocalMatrix returns the inverse model matrix.
func (t *Transform) WorldToLocalMatrix() mgl32.Mat4 {
	if !t.invDirty {
		return t.invModel
	}

	t.invModel = t.ParentToLocalMatrix()
	if parent := t.Parent(); parent != nil {
		t.invModel = t.invModel.Mul4(parent.WorldToLocalMatrix())
	}

	t.invDirty = false
	t.hierarchy.stats.InverseRecomputes++
	return t.invModel
}
