package math

import (
	m "math"
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/spaghettifunk/resin/engine/core"
)

const (
	kPi     = float32(m.Pi)
	epsilon = 1e-5
)

var (
	axisX = mgl32.Vec3{1, 0, 0}
	axisY = mgl32.Vec3{0, 1, 0}
)

func newTestHierarchy() *Hierarchy {
	return NewHierarchy(core.DefaultConfig().Hierarchy)
}

// newParentChild builds a parent at (1,2,3), rotated 90deg around Y and scaled
// (1,2,3), with a default child attached to it.
func newParentChild(t *testing.T) (*Hierarchy, *Transform, *Transform) {
	t.Helper()
	h := newTestHierarchy()
	parent := h.New(
		WithPosition(mgl32.Vec3{1, 2, 3}),
		WithRotation(mgl32.QuatRotate(kPi/2, axisY)),
		WithScale(mgl32.Vec3{1, 2, 3}),
	)
	child := h.New()
	if err := child.SetParent(parent); err != nil {
		t.Fatalf("SetParent: %v", err)
	}
	return h, parent, child
}

// near compares componentwise with an absolute tolerance. mgl32's
// ApproxEqualThreshold squares the tolerance around zero, which float32
// products of rotations rarely meet.
func near(expected, actual []float32) bool {
	for i := range expected {
		if mgl32.Abs(expected[i]-actual[i]) > epsilon {
			return false
		}
	}
	return true
}

func expectMat4Near(t *testing.T, name string, expected, actual mgl32.Mat4) {
	t.Helper()
	if !near(expected[:], actual[:]) {
		t.Errorf("%s: matrices differ\nexpected: %s\nactual:   %s", name, spew.Sdump(expected), spew.Sdump(actual))
	}
}

func expectMat3Near(t *testing.T, name string, expected, actual mgl32.Mat3) {
	t.Helper()
	if !near(expected[:], actual[:]) {
		t.Errorf("%s: matrices differ\nexpected: %s\nactual:   %s", name, spew.Sdump(expected), spew.Sdump(actual))
	}
}

func expectVec3Near(t *testing.T, name string, expected, actual mgl32.Vec3) {
	t.Helper()
	if !near(expected[:], actual[:]) {
		t.Errorf("%s=%v; expected %v", name, actual, expected)
	}
}

// sameRotation reports whether q1 and q2 describe the same rotation: |q1.q2| = 1.
func sameRotation(q1, q2 mgl32.Quat) bool {
	return mgl32.Abs(mgl32.Abs(q1.Normalize().Dot(q2.Normalize()))-1) <= epsilon
}

func expectRotNear(t *testing.T, name string, expected, actual mgl32.Quat) {
	t.Helper()
	if !sameRotation(expected, actual) {
		t.Errorf("%s: rotations differ\nexpected: %s\nactual:   %s", name, spew.Sdump(expected), spew.Sdump(actual))
	}
}
