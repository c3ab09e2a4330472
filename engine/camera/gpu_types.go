package camera

import (
	"unsafe"

	"github.com/Carmen-Shannon/oxy-xr/common"
)

// GPUCameraUniform is the GPU-aligned representation of the camera uniform buffer.
// Matches the WGSL CameraUniform struct in the scene shader.
// Size: 64 bytes.
type GPUCameraUniform struct {
	ViewProj [16]float32 // offset 0: combined view-projection matrix (mat4x4<f32>)
}

// Size returns the size of the GPUCameraUniform struct in bytes.
//
// Returns:
//   - int: the struct size in bytes (64)
func (g *GPUCameraUniform) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes the GPUCameraUniform struct into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: the serialized byte buffer
func (g *GPUCameraUniform) Marshal() []byte {
	buf := make([]byte, g.Size())
	common.PutFloat32s(buf, 0, g.ViewProj[:])
	return buf
}
