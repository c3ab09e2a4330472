package common

import (
	"github.com/chewxy/math32"
	"github.com/cogentcore/webgpu/wgpu"
)

// Vec3 is a three component float32 vector used for positions, directions and scales.
type Vec3 struct {
	X, Y, Z float32
}

// Quat is a rotation quaternion stored as (X, Y, Z, W).
type Quat struct {
	X, Y, Z, W float32
}

// Vertex is the per-vertex input of the scene pipeline: position followed by an RGBA color.
// Layout must match the VertexInput struct in the scene shader.
type Vertex struct {
	Position [3]float32
	Color    [4]float32
}

// BlitVertex is the per-vertex input of the blit pipeline: clip-space position and texture coordinate.
// Layout must match the BlitVertex struct in the blit shader.
type BlitVertex struct {
	Position [3]float32
	UV       [2]float32
}

// SamplerStagingData holds the configuration for a sampler binding pending GPU creation.
type SamplerStagingData struct {
	// AddressModeU, AddressModeV, AddressModeW specify the addressing mode outside the [0, 1] range.
	AddressModeU, AddressModeV, AddressModeW wgpu.AddressMode
	// MagFilter and MinFilter specify the filtering mode for magnification and minification.
	MagFilter, MinFilter wgpu.FilterMode
	// MipmapFilter specifies the filtering mode for mipmap level selection.
	MipmapFilter wgpu.MipmapFilterMode
	// LodMinClamp and LodMaxClamp bound the sampled level of detail. A zero LodMaxClamp means 32.
	LodMinClamp, LodMaxClamp float32
	// MaxAnisotropy is the anisotropic filtering level. Zero means 1.
	MaxAnisotropy uint16
}

// UnitY is the world up axis.
var UnitY = Vec3{0, 1, 0}

// QuatIdentity is the rotation that leaves every vector unchanged.
var QuatIdentity = Quat{0, 0, 0, 1}

// TriangleVertices is the static scene triangle, one corner per primary color.
var TriangleVertices = []Vertex{
	{Position: [3]float32{-1, -1, 0}, Color: [4]float32{1, 0, 0, 1}},
	{Position: [3]float32{0, 1, 0}, Color: [4]float32{0, 1, 0, 1}},
	{Position: [3]float32{1, -1, 0}, Color: [4]float32{0, 0, 1, 1}},
}

// BlitQuadVertices covers clip space [-1, 1]² with two triangles. UV (0, 0) sits at the bottom-left corner.
var BlitQuadVertices = []BlitVertex{
	{Position: [3]float32{1, 1, 0}, UV: [2]float32{1, 1}},
	{Position: [3]float32{-1, 1, 0}, UV: [2]float32{0, 1}},
	{Position: [3]float32{-1, -1, 0}, UV: [2]float32{0, 0}},

	{Position: [3]float32{1, -1, 0}, UV: [2]float32{1, 0}},
	{Position: [3]float32{1, 1, 0}, UV: [2]float32{1, 1}},
	{Position: [3]float32{-1, -1, 0}, UV: [2]float32{0, 0}},
}

func (v Vec3) Add(o Vec3) Vec3 {
	return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z}
}

func (v Vec3) Sub(o Vec3) Vec3 {
	return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z}
}

func (v Vec3) Scale(s float32) Vec3 {
	return Vec3{v.X * s, v.Y * s, v.Z * s}
}

func (v Vec3) Dot(o Vec3) float32 {
	return v.X*o.X + v.Y*o.Y + v.Z*o.Z
}

func (v Vec3) Cross(o Vec3) Vec3 {
	return Vec3{
		v.Y*o.Z - v.Z*o.Y,
		v.Z*o.X - v.X*o.Z,
		v.X*o.Y - v.Y*o.X,
	}
}

func (v Vec3) Length() float32 {
	return math32.Sqrt(v.Dot(v))
}

// Normalize returns v scaled to unit length. A zero vector is returned unchanged.
func (v Vec3) Normalize() Vec3 {
	l := v.Length()
	if l == 0 {
		return v
	}
	return v.Scale(1 / l)
}

// QuatFromAxisAngle builds a rotation of angle radians about axis. The axis is normalized first.
//
// Parameters:
//   - axis: rotation axis
//   - angle: rotation angle in radians, counter-clockwise when looking down the axis
//
// Returns:
//   - Quat: the unit rotation
func QuatFromAxisAngle(axis Vec3, angle float32) Quat {
	a := axis.Normalize()
	half := angle / 2
	s := math32.Sin(half)
	return Quat{a.X * s, a.Y * s, a.Z * s, math32.Cos(half)}
}

// QuatRotationY builds a rotation of angle radians about the +Y axis.
func QuatRotationY(angle float32) Quat {
	return QuatFromAxisAngle(UnitY, angle)
}

func (q Quat) Dot(o Quat) float32 {
	return q.X*o.X + q.Y*o.Y + q.Z*o.Z + q.W*o.W
}

// Normalize returns q scaled to unit length. A zero quaternion becomes the identity.
func (q Quat) Normalize() Quat {
	l := math32.Sqrt(q.Dot(q))
	if l == 0 {
		return QuatIdentity
	}
	return Quat{q.X / l, q.Y / l, q.Z / l, q.W / l}
}

// SameRotation reports whether q and o describe the same rotation within eps.
// q and -q are the same rotation, so the sign is ignored.
//
// Parameters:
//   - o: the quaternion to compare against
//   - eps: tolerance on 1 - |q·o|
//
// Returns:
//   - bool: true when both quaternions rotate vectors identically
func (q Quat) SameRotation(o Quat, eps float32) bool {
	return 1-math32.Abs(q.Normalize().Dot(o.Normalize())) <= eps
}
