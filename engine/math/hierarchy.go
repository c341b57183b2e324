package math

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/spaghettifunk/resin/engine/containers"
	"github.com/spaghettifunk/resin/engine/core"
)

const maxInitialCapacity = 1 << 16

// Handle addresses a transform inside its Hierarchy. The zero Handle means "no transform".
type Handle = core.Identifier

// Stats counts the work done by the lazy caches of a hierarchy.
type Stats struct {
	// Number of local-to-world matrices rebuilt.
	WorldRecomputes uint64
	// Number of world-to-local matrices rebuilt.
	InverseRecomputes uint64
	// Number of transforms switched to fully dirty.
	DirtyMarks uint64
	// Number of transforms skipped because they were already fully dirty.
	DirtySkips uint64
}

// Hierarchy is the arena owning every transform record of a scene. Parent and
// child links are stored as handles and resolved through it.
//
// A Hierarchy is not safe for concurrent use.
type Hierarchy struct {
	config     core.HierarchyConfig
	ids        *core.IdentifierPool
	transforms []*Transform
	byUUID     map[uuid.UUID]Handle

	// scratch queue for dirty propagation
	dirtyQueue *containers.RingQueue[*Transform]

	stats Stats
}

func NewHierarchy(config core.HierarchyConfig) *Hierarchy {
	capacity := Clamp(config.InitialCapacity, 1, maxInitialCapacity)
	return &Hierarchy{
		config:     config,
		ids:        core.NewIdentifierPool(capacity),
		transforms: make([]*Transform, 0, capacity),
		byUUID:     make(map[uuid.UUID]Handle, capacity),
		dirtyQueue: containers.NewRingQueue[*Transform](capacity),
	}
}

// TransformOption customizes the initial local state of a transform.
type TransformOption func(*Transform)

func WithPosition(position mgl32.Vec3) TransformOption {
	return func(t *Transform) {
		t.position = position
	}
}

// WithRotation sets the initial local rotation. The quaternion is stored as given.
func WithRotation(rotation mgl32.Quat) TransformOption {
	return func(t *Transform) {
		t.rotation = rotation
	}
}

func WithScale(scale mgl32.Vec3) TransformOption {
	return func(t *Transform) {
		t.scale = scale
	}
}

// New creates a root transform at the origin with identity rotation and unit
// scale, unless overridden by opts. Use SetParent to attach it.
func (h *Hierarchy) New(opts ...TransformOption) *Transform {
	t := &Transform{
		hierarchy: h,
		handle:    h.ids.Acquire(),
		id:        uuid.New(),
		position:  mgl32.Vec3{0, 0, 0},
		rotation:  mgl32.QuatIdent(),
		scale:     mgl32.Vec3{1, 1, 1},
		dirty:     true,
		invDirty:  true,
		model:     mgl32.Ident4(),
		invModel:  mgl32.Ident4(),
	}
	for _, opt := range opts {
		opt(t)
	}

	if int(t.handle.Index) == len(h.transforms) {
		h.transforms = append(h.transforms, t)
	} else {
		h.transforms[t.handle.Index] = t
	}
	h.byUUID[t.id] = t.handle
	return t
}

// Get resolves a handle. Destroyed transforms yield ErrStaleHandle.
func (h *Hierarchy) Get(handle Handle) (*Transform, error) {
	if handle.IsZero() || int(handle.Index) >= len(h.transforms) {
		return nil, errors.Wrapf(core.ErrUnknownHandle, "handle %d", handle.Index)
	}
	if !h.ids.Valid(handle) {
		return nil, errors.Wrapf(core.ErrStaleHandle, "handle %d generation %d", handle.Index, handle.Generation)
	}
	return h.transforms[handle.Index], nil
}

// resolve is Get without the error, for links that are known to be live.
func (h *Hierarchy) resolve(handle Handle) *Transform {
	if !h.ids.Valid(handle) {
		return nil
	}
	return h.transforms[handle.Index]
}

func (h *Hierarchy) Contains(handle Handle) bool {
	return h.ids.Valid(handle)
}

// Lookup finds a live transform by its persistent identifier.
func (h *Hierarchy) Lookup(id uuid.UUID) (*Transform, bool) {
	handle, ok := h.byUUID[id]
	if !ok {
		return nil, false
	}
	t := h.resolve(handle)
	return t, t != nil
}

// Len returns the number of live transforms.
func (h *Hierarchy) Len() int {
	return h.ids.Len()
}

// Roots returns every live transform without a parent, in handle order.
func (h *Hierarchy) Roots() []*Transform {
	roots := make([]*Transform, 0)
	for _, t := range h.transforms {
		if t != nil && t.parent.IsZero() {
			roots = append(roots, t)
		}
	}
	return roots
}

// Walk visits root and its descendants breadth first. Returning false from fn
// skips the children of the visited transform.
func (h *Hierarchy) Walk(root *Transform, fn func(*Transform) bool) {
	if root == nil || root.hierarchy != h || !root.alive() {
		return
	}
	queue := containers.NewRingQueue[*Transform](len(root.children) + 1)
	queue.Enqueue(root)
	for !queue.IsEmpty() {
		t, _ := queue.Dequeue()
		if !fn(t) {
			continue
		}
		for _, c := range t.children {
			if child := h.resolve(c); child != nil {
				queue.Enqueue(child)
			}
		}
	}
}

// Destroy removes a transform. Its children become roots and keep their local
// state; the transform leaves its parent's child set and its handle goes stale.
func (h *Hierarchy) Destroy(handle Handle) error {
	t, err := h.Get(handle)
	if err != nil {
		return err
	}

	for _, c := range t.children {
		if child := h.resolve(c); child != nil {
			child.parent = Handle{}
			child.markDirty()
		}
	}
	t.children = nil

	t.removeFromParent()

	delete(h.byUUID, t.id)
	h.transforms[handle.Index] = nil
	if err := h.ids.Release(handle); err != nil {
		return err
	}
	core.LogDebug("transform %d destroyed", handle.Index)
	return nil
}

func (h *Hierarchy) Stats() Stats {
	return h.stats
}

func (h *Hierarchy) ResetStats() {
	h.stats = Stats{}
}

func (h *Hierarchy) Config() core.HierarchyConfig {
	return h.config
}
