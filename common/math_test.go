package common

import (
	"testing"

	"github.com/chewxy/math32"
	"github.com/stretchr/testify/assert"
)

const eps = 1e-5

func TestMul4Identity(t *testing.T) {
	var id, m, out [16]float32
	Identity(id[:])
	for i := range m {
		m[i] = float32(i + 1)
	}

	Mul4(out[:], id[:], m[:])
	assert.Equal(t, m, out)

	Mul4(out[:], m[:], id[:])
	assert.Equal(t, m, out)
}

func TestMul4Aliased(t *testing.T) {
	var a, b [16]float32
	ComposeTransform(a[:], Vec3{1, 2, 3}, QuatIdentity, Vec3{1, 1, 1})
	ComposeTransform(b[:], Vec3{4, 5, 6}, QuatIdentity, Vec3{1, 1, 1})

	Mul4(a[:], a[:], b[:])
	assert.InDelta(t, 5, a[12], eps)
	assert.InDelta(t, 7, a[13], eps)
	assert.InDelta(t, 9, a[14], eps)
}

func TestPerspectiveDepthRange(t *testing.T) {
	var proj [16]float32
	near, far := float32(0.05), float32(1000)
	Perspective(proj[:], math32.Pi/2, 1, near, far)

	nearClip := TransformPoint(proj[:], Vec3{0, 0, -near})
	assert.InDelta(t, 0, nearClip[2]/nearClip[3], eps)

	farClip := TransformPoint(proj[:], Vec3{0, 0, -far})
	assert.InDelta(t, 1, farClip[2]/farClip[3], 1e-4)
}

func TestLookAtRightHanded(t *testing.T) {
	var view [16]float32
	eye := Vec3{0, 0, -1}
	LookAt(view[:], eye, Vec3{0, 0, 1}, UnitY)

	// The viewer sits at the origin of view space and looks down -Z.
	origin := TransformPoint(view[:], eye)
	assert.InDelta(t, 0, origin[0], eps)
	assert.InDelta(t, 0, origin[1], eps)
	assert.InDelta(t, 0, origin[2], eps)

	ahead := TransformPoint(view[:], Vec3{0, 0, 1})
	assert.InDelta(t, -2, ahead[2], eps)

	above := TransformPoint(view[:], Vec3{0, 1, -1})
	assert.InDelta(t, 1, above[1], eps)
}

func TestComposeDecomposeRoundTrip(t *testing.T) {
	cases := []struct {
		name string
		t    Vec3
		r    Quat
	}{
		{"identity", Vec3{}, QuatIdentity},
		{"translated", Vec3{1, 0, 2}, QuatIdentity},
		{"spun about y", Vec3{-1, 0, 2}, QuatRotationY(1)},
		{"half turn", Vec3{0, 0, 1}, QuatRotationY(math32.Pi)},
		{"oblique axis", Vec3{3, -2, 5}, QuatFromAxisAngle(Vec3{1, 2, 3}, 2.5)},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var m [16]float32
			ComposeTransform(m[:], tc.t, tc.r, Vec3{1, 1, 1})

			tr, rot, sc := DecomposeTransform(m[:])
			assert.InDelta(t, tc.t.X, tr.X, eps)
			assert.InDelta(t, tc.t.Y, tr.Y, eps)
			assert.InDelta(t, tc.t.Z, tr.Z, eps)
			assert.True(t, rot.SameRotation(tc.r, eps), "rotation %v != %v", rot, tc.r)
			assert.InDelta(t, 1, sc.X, eps)
			assert.InDelta(t, 1, sc.Y, eps)
			assert.InDelta(t, 1, sc.Z, eps)
		})
	}
}

func TestQuatRotationYTurnsXIntoMinusZ(t *testing.T) {
	var m [16]float32
	ComposeTransform(m[:], Vec3{}, QuatRotationY(math32.Pi/2), Vec3{1, 1, 1})

	p := TransformPoint(m[:], Vec3{1, 0, 0})
	assert.InDelta(t, 0, p[0], eps)
	assert.InDelta(t, 0, p[1], eps)
	assert.InDelta(t, -1, p[2], eps)
}

func TestSameRotationIgnoresSign(t *testing.T) {
	q := QuatRotationY(0.7)
	neg := Quat{-q.X, -q.Y, -q.Z, -q.W}
	assert.True(t, q.SameRotation(neg, eps))
	assert.False(t, q.SameRotation(QuatIdentity, eps))
}
