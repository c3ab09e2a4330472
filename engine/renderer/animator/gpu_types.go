package animator

import (
	"unsafe"

	"github.com/Carmen-Shannon/oxy-xr/common"
)

// GPUInstanceData is the GPU-aligned representation of one instance transform.
// The scene shader reads it as four vec4<f32> columns on vertex buffer slot 1.
// Size: 64 bytes.
type GPUInstanceData struct {
	Model [16]float32 // offset 0, size 64 (column-major mat4x4<f32>)
}

// Size returns the size of the GPUInstanceData struct in bytes.
//
// Returns:
//   - int: The size of the struct in bytes.
func (g *GPUInstanceData) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes the GPUInstanceData struct into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: 64-byte buffer ready for GPU upload.
func (g *GPUInstanceData) Marshal() []byte {
	buf := make([]byte, g.Size())
	common.PutFloat32s(buf, 0, g.Model[:])
	return buf
}

// InstancePose is the translation and rotation of one rendered instance. Scale is always identity.
type InstancePose struct {
	Translation common.Vec3
	Rotation    common.Quat
}

// Transform returns the instance's T · R · S matrix with S fixed at identity.
//
// Returns:
//   - GPUInstanceData: the column-major model matrix
func (p InstancePose) Transform() GPUInstanceData {
	var g GPUInstanceData
	common.ComposeTransform(g.Model[:], p.Translation, p.Rotation, common.Vec3{X: 1, Y: 1, Z: 1})
	return g
}

// DefaultPoses returns the three starting instances: one ahead of the origin and two flanking it further back.
//
// Returns:
//   - []InstancePose: a fresh slice of default poses
func DefaultPoses() []InstancePose {
	return []InstancePose{
		{Translation: common.Vec3{X: 0, Y: 0, Z: 1}, Rotation: common.QuatIdentity},
		{Translation: common.Vec3{X: 1, Y: 0, Z: 2}, Rotation: common.QuatIdentity},
		{Translation: common.Vec3{X: -1, Y: 0, Z: 2}, Rotation: common.QuatIdentity},
	}
}
