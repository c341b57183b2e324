package math

import "github.com/go-gl/mathgl/mgl32"

var (
	axisFront = mgl32.Vec3{0, 0, -1}
	axisRight = mgl32.Vec3{1, 0, 0}
	axisUp    = mgl32.Vec3{0, 1, 0}
)

func (t *Transform) LocalFront() mgl32.Vec3 {
	return t.rotation.Rotate(axisFront)
}

func (t *Transform) LocalRight() mgl32.Vec3 {
	return t.rotation.Rotate(axisRight)
}

func (t *Transform) LocalUp() mgl32.Vec3 {
	return t.rotation.Rotate(axisUp)
}

func (t *Transform) Front() mgl32.Vec3 {
	return t.toWorldDirection(t.LocalFront())
}

func (t *Transform) Right() mgl32.Vec3 {
	return t.toWorldDirection(t.LocalRight())
}

func (t *Transform) Up() mgl32.Vec3 {
	return t.toWorldDirection(t.LocalUp())
}

// toWorldDirection maps a direction from parent space to world space.
func (t *Transform) toWorldDirection(local mgl32.Vec3) mgl32.Vec3 {
	parent := t.Parent()
	if parent == nil {
		return local
	}
	return parent.LocalToWorldMatrix().Mul4x1(local.Vec4(0)).Vec3().Normalize()
}

// LocalOrientation returns the basis (right, up, front) of the local rotation.
// The third column points along the local front, i.e. the rotated -Z axis.
func (t *Transform) LocalOrientation() mgl32.Mat3 {
	local := t.rotation.Mat4().Mat3()
	return mgl32.Mat3FromCols(local.Col(0), local.Col(1), local.Col(2).Mul(-1))
}

// Orientation returns the world space basis (right, up, front). Each column is
// normalized on its own, which strips ancestor scale only approximately: under
// non-uniform scale the columns are not guaranteed to stay orthogonal.
func (t *Transform) Orientation() mgl32.Mat3 {
	local := t.LocalOrientation()
	parent := t.Parent()
	if parent == nil {
		return local
	}
	o := parent.LocalToWorldMatrix().Mat3().Mul3(local)
	return mgl32.Mat3FromCols(o.Col(0).Normalize(), o.Col(1).Normalize(), o.Col(2).Normalize())
}
