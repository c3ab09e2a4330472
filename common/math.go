package common

import (
	"github.com/chewxy/math32"
)

// Identity resets a 4x4 matrix (flat slice) to the identity matrix.
// The matrix is stored in column-major order.
//
// Parameters:
//   - m: destination slice (must be at least 16 elements)
func Identity(m []float32) {
	for i := range m {
		m[i] = 0
	}
	m[0], m[5], m[10], m[15] = 1, 1, 1, 1
}

// Mul4 multiplies two 4x4 matrices and stores the result in out.
// All matrices are stored in column-major order (WebGPU convention).
// Result: out = a * b
//
// Parameters:
//   - out: destination slice (must be at least 16 elements)
//   - a: left-hand matrix (16 elements)
//   - b: right-hand matrix (16 elements)
func Mul4(out, a, b []float32) {
	var buf [16]float32
	for col := 0; col < 4; col++ {
		for row := 0; row < 4; row++ {
			var sum float32
			for k := 0; k < 4; k++ {
				sum += a[k*4+row] * b[col*4+k]
			}
			buf[col*4+row] = sum
		}
	}
	copy(out, buf[:])
}

// Perspective writes a right-handed perspective projection into out.
// Clip-space depth is mapped to [0, 1] as WebGPU expects.
//
// Parameters:
//   - out: destination slice (must be at least 16 elements)
//   - fovY: vertical field of view in radians
//   - aspect: viewport aspect ratio (width/height)
//   - near: near clipping plane distance (must be > 0)
//   - far: far clipping plane distance (must be > near)
func Perspective(out []float32, fovY, aspect, near, far float32) {
	f := 1 / math32.Tan(fovY/2)
	rangeInv := 1 / (near - far)

	Identity(out)
	out[0] = f / aspect
	out[5] = f
	out[10] = far * rangeInv
	out[11] = -1
	out[14] = near * far * rangeInv
	out[15] = 0
}

// LookAt writes a right-handed view matrix into out that places the viewer at eye looking toward center.
//
// Parameters:
//   - out: destination slice (must be at least 16 elements)
//   - eye: viewer position in world space
//   - center: point the viewer looks at
//   - up: world up direction (typically +Y)
func LookAt(out []float32, eye, center, up Vec3) {
	f := center.Sub(eye).Normalize()
	s := f.Cross(up).Normalize()
	u := s.Cross(f)

	out[0], out[4], out[8], out[12] = s.X, s.Y, s.Z, -s.Dot(eye)
	out[1], out[5], out[9], out[13] = u.X, u.Y, u.Z, -u.Dot(eye)
	out[2], out[6], out[10], out[14] = -f.X, -f.Y, -f.Z, f.Dot(eye)
	out[3], out[7], out[11], out[15] = 0, 0, 0, 1
}

// ComposeTransform writes translate(t) * rotate(r) * scale(s) into out in column-major order.
//
// Parameters:
//   - out: destination slice (must be at least 16 elements)
//   - t: translation
//   - r: rotation, expected to be unit length
//   - s: per-axis scale
func ComposeTransform(out []float32, t Vec3, r Quat, s Vec3) {
	x2, y2, z2 := r.X+r.X, r.Y+r.Y, r.Z+r.Z
	xx, xy, xz := r.X*x2, r.X*y2, r.X*z2
	yy, yz, zz := r.Y*y2, r.Y*z2, r.Z*z2
	wx, wy, wz := r.W*x2, r.W*y2, r.W*z2

	out[0] = (1 - (yy + zz)) * s.X
	out[1] = (xy + wz) * s.X
	out[2] = (xz - wy) * s.X
	out[3] = 0

	out[4] = (xy - wz) * s.Y
	out[5] = (1 - (xx + zz)) * s.Y
	out[6] = (yz + wx) * s.Y
	out[7] = 0

	out[8] = (xz + wy) * s.Z
	out[9] = (yz - wx) * s.Z
	out[10] = (1 - (xx + yy)) * s.Z
	out[11] = 0

	out[12] = t.X
	out[13] = t.Y
	out[14] = t.Z
	out[15] = 1
}

// DecomposeTransform splits an affine column-major matrix built by ComposeTransform back into
// its translation, rotation and scale. Negative determinants flip the X scale.
//
// Parameters:
//   - m: source matrix (16 elements, column-major)
//
// Returns:
//   - Vec3: translation
//   - Quat: unit rotation
//   - Vec3: per-axis scale
func DecomposeTransform(m []float32) (Vec3, Quat, Vec3) {
	t := Vec3{m[12], m[13], m[14]}

	c0 := Vec3{m[0], m[1], m[2]}
	c1 := Vec3{m[4], m[5], m[6]}
	c2 := Vec3{m[8], m[9], m[10]}
	s := Vec3{c0.Length(), c1.Length(), c2.Length()}
	if c0.Cross(c1).Dot(c2) < 0 {
		s.X = -s.X
	}

	if s.X != 0 {
		c0 = c0.Scale(1 / s.X)
	}
	if s.Y != 0 {
		c1 = c1.Scale(1 / s.Y)
	}
	if s.Z != 0 {
		c2 = c2.Scale(1 / s.Z)
	}

	return t, quatFromBasis(c0, c1, c2), s
}

// TransformPoint multiplies the column-major matrix m by the point (p, 1) and returns the homogeneous result.
//
// Parameters:
//   - m: source matrix (16 elements, column-major)
//   - p: the point to transform
//
// Returns:
//   - [4]float32: the transformed homogeneous coordinate (x, y, z, w)
func TransformPoint(m []float32, p Vec3) [4]float32 {
	return [4]float32{
		m[0]*p.X + m[4]*p.Y + m[8]*p.Z + m[12],
		m[1]*p.X + m[5]*p.Y + m[9]*p.Z + m[13],
		m[2]*p.X + m[6]*p.Y + m[10]*p.Z + m[14],
		m[3]*p.X + m[7]*p.Y + m[11]*p.Z + m[15],
	}
}

// quatFromBasis converts an orthonormal rotation basis (matrix columns) into a unit quaternion.
func quatFromBasis(c0, c1, c2 Vec3) Quat {
	trace := c0.X + c1.Y + c2.Z
	var q Quat
	switch {
	case trace > 0:
		s := math32.Sqrt(trace+1) * 2
		q = Quat{W: s / 4, X: (c1.Z - c2.Y) / s, Y: (c2.X - c0.Z) / s, Z: (c0.Y - c1.X) / s}
	case c0.X > c1.Y && c0.X > c2.Z:
		s := math32.Sqrt(1+c0.X-c1.Y-c2.Z) * 2
		q = Quat{W: (c1.Z - c2.Y) / s, X: s / 4, Y: (c1.X + c0.Y) / s, Z: (c2.X + c0.Z) / s}
	case c1.Y > c2.Z:
		s := math32.Sqrt(1+c1.Y-c0.X-c2.Z) * 2
		q = Quat{W: (c2.X - c0.Z) / s, X: (c1.X + c0.Y) / s, Y: s / 4, Z: (c2.Y + c1.Z) / s}
	default:
		s := math32.Sqrt(1+c2.Z-c0.X-c1.Y) * 2
		q = Quat{W: (c0.Y - c1.X) / s, X: (c2.X + c0.Z) / s, Y: (c2.Y + c1.Z) / s, Z: s / 4}
	}
	return q.Normalize()
}
