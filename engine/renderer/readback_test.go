package renderer

import (
	"fmt"
	"testing"

	"github.com/Carmen-Shannon/oxy-xr/engine/camera"
	"github.com/Carmen-Shannon/oxy-xr/engine/renderer/animator"
	"github.com/Carmen-Shannon/oxy-xr/engine/renderer/bind_group_provider"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const readbackFormat = wgpu.TextureFormatRGBA8Unorm

// readTexture copies an RGBA8 texture into a mappable buffer and returns its tightly packed rows.
func readTexture(ctx GraphicsContext, texture *wgpu.Texture, width, height uint32) ([]byte, error) {
	const rowAlign = 256
	rowBytes := width * 4
	paddedRow := (rowBytes + rowAlign - 1) / rowAlign * rowAlign
	size := uint64(paddedRow) * uint64(height)

	buf, err := ctx.Device().CreateBuffer(&wgpu.BufferDescriptor{
		Label: "Readback Buffer",
		Size:  size,
		Usage: wgpu.BufferUsageMapRead | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, err
	}
	defer buf.Release()

	encoder, err := ctx.Device().CreateCommandEncoder(nil)
	if err != nil {
		return nil, err
	}
	defer encoder.Release()
	encoder.CopyTextureToBuffer(
		&wgpu.ImageCopyTexture{
			Texture:  texture,
			MipLevel: 0,
			Origin:   wgpu.Origin3D{X: 0, Y: 0, Z: 0},
			Aspect:   wgpu.TextureAspectAll,
		},
		&wgpu.ImageCopyBuffer{
			Buffer: buf,
			Layout: wgpu.TextureDataLayout{
				Offset:       0,
				BytesPerRow:  paddedRow,
				RowsPerImage: height,
			},
		},
		&wgpu.Extent3D{Width: width, Height: height, DepthOrArrayLayers: 1},
	)
	commands, err := encoder.Finish(nil)
	if err != nil {
		return nil, err
	}
	defer commands.Release()
	ctx.Queue().Submit(commands)

	var status wgpu.BufferMapAsyncStatus
	err = buf.MapAsync(wgpu.MapModeRead, 0, size, func(s wgpu.BufferMapAsyncStatus) {
		status = s
	})
	if err != nil {
		return nil, err
	}
	ctx.Device().Poll(true, nil)
	if status != wgpu.BufferMapAsyncStatusSuccess {
		return nil, fmt.Errorf("map readback buffer: status %v", status)
	}
	defer buf.Unmap()

	mapped := buf.GetMappedRange(0, uint(size))
	pixels := make([]byte, 0, rowBytes*height)
	for y := uint32(0); y < height; y++ {
		start := y * paddedRow
		pixels = append(pixels, mapped[start:start+rowBytes]...)
	}
	return pixels, nil
}

// pixelAt returns the RGBA bytes at (x, y) of a tightly packed image.
func pixelAt(pixels []byte, width, x, y uint32) []byte {
	i := (y*width + x) * 4
	return pixels[i : i+4]
}

func TestGPUReadback(t *testing.T) {
	t.Skip("Need software GPU on CI")
	const size = 100

	ctx, err := NewGraphicsContext(nil, WithForceFallbackAdapter(true))
	require.NoError(t, err)
	defer ctx.Release()

	backend := NewWGPURendererBackend(ctx).(*wgpuRendererBackendImpl)
	defer backend.Release()

	cam := camera.NewCamera(camera.WithController(camera.NewOscillatingController()), camera.WithAspect(1))
	instances := animator.NewAnimator()
	defer cam.BindGroupProvider().Release()
	defer instances.Release()
	require.NoError(t, backend.InitStaticResources(cam.BindGroupProvider(), instances.BindGroupProvider(), instances.Count(), readbackFormat))

	targets, err := backend.BuildDerivedTargets(size, size, readbackFormat)
	require.NoError(t, err)
	defer backend.ReleaseDerivedTargets(targets)

	// an offscreen texture stands in for the acquired surface image
	out, err := backend.createTarget("Readback Frame", size, size, readbackFormat,
		wgpu.TextureUsageRenderAttachment|wgpu.TextureUsageCopySrc)
	require.NoError(t, err)
	frame := &SurfaceFrame{Texture: out.Texture, View: out.View, Width: size, Height: size}
	defer frame.Release()

	cam.Update(0)
	instances.Update(0)
	require.NoError(t, backend.WriteBuffers([]bind_group_provider.BufferWrite{cam.StagedWrite(), instances.StagedWrite()}))
	require.NoError(t, backend.BeginCommands())
	require.NoError(t, backend.RecordScenePass(targets, instances.Count()))
	require.NoError(t, backend.RecordBlitPass(targets, frame))
	require.NoError(t, backend.Submit())

	scene, err := readTexture(ctx, targets.Color.Texture, size, size)
	require.NoError(t, err)
	blit, err := readTexture(ctx, frame.Texture, size, size)
	require.NoError(t, err)

	// instance 0 sits one unit in front of the eye and covers the center
	center := pixelAt(scene, size, size/2, size/2)
	assert.NotEqual(t, []byte{0, 0, 0, 255}, center, "scene pass drew nothing at the center")
	assert.Equal(t, []byte{0, 0, 0, 255}, pixelAt(scene, size, 0, 0), "corner keeps the clear color")

	// the blit resamples 1:1, so the surface image matches the color target texel for texel
	mismatched := 0
	for i := range scene {
		d := int(scene[i]) - int(blit[i])
		if d < -1 || d > 1 {
			mismatched++
		}
	}
	assert.Zero(t, mismatched, "blit output differs from the scene color target")
}
