package geom

import "cogentcore.org/core/math32"

// EulerQuat converts Euler angles in degrees to a rotation. The rotation
// about Z is applied first, then X, then Y.
func EulerQuat(deg math32.Vector3) math32.Quat {
	qy := math32.NewQuatAxisAngle(math32.Vec3(0, 1, 0), math32.DegToRad(deg.Y))
	qx := math32.NewQuatAxisAngle(math32.Vec3(1, 0, 0), math32.DegToRad(deg.X))
	qz := math32.NewQuatAxisAngle(math32.Vec3(0, 0, 1), math32.DegToRad(deg.Z))
	q := qy.Mul(qx)
	return q.Mul(qz)
}

// SnapDegrees rounds each angle to the nearest multiple of 90 degrees.
func SnapDegrees(deg math32.Vector3) math32.Vector3 {
	snap := func(a float32) float32 {
		return math32.Round(a/90) * 90
	}
	return math32.Vec3(snap(deg.X), snap(deg.Y), snap(deg.Z))
}

// Rotate applies Euler angles in degrees to v.
func Rotate(v, deg math32.Vector3) math32.Vector3 {
	return v.MulQuat(EulerQuat(deg))
}

// Hadamard returns the component-wise product of a and b.
func Hadamard(a, b math32.Vector3) math32.Vector3 {
	return math32.Vec3(a.X*b.X, a.Y*b.Y, a.Z*b.Z)
}
