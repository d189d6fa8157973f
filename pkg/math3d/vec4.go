package math3d

// Vec4 is a homogeneous point or vector, typically a clip-space position.
type Vec4 struct {
	X, Y, Z, W float64
}

// V4 creates a new Vec4.
func V4(x, y, z, w float64) Vec4 {
	return Vec4{x, y, z, w}
}

// Point returns p as a homogeneous point (w = 1).
func Point(p Vec3) Vec4 {
	return Vec4{p.X, p.Y, p.Z, 1}
}

// Direction returns d as a homogeneous direction (w = 0).
func Direction(d Vec3) Vec4 {
	return Vec4{d.X, d.Y, d.Z, 0}
}

// Vec3 drops W without dividing.
func (v Vec4) Vec3() Vec3 {
	return Vec3{v.X, v.Y, v.Z}
}

// PerspectiveDivide returns (x/w, y/w, z/w). ok is false when w is zero,
// in which case the point has no defined image.
func (v Vec4) PerspectiveDivide() (ndc Vec3, ok bool) {
	if v.W == 0 {
		return Vec3{}, false
	}
	inv := 1 / v.W
	return Vec3{v.X * inv, v.Y * inv, v.Z * inv}, true
}
