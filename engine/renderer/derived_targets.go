package renderer

import (
	"github.com/Carmen-Shannon/oxy-xr/engine/renderer/bind_group_provider"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/google/uuid"
)

// DepthFormat is the format of every depth target.
const DepthFormat = wgpu.TextureFormatDepth32Float

// RenderTarget is an offscreen texture and its default view.
type RenderTarget struct {
	Texture       *wgpu.Texture
	View          *wgpu.TextureView
	Format        wgpu.TextureFormat
	Width, Height uint32
}

// Release releases the view and the texture.
func (t *RenderTarget) Release() {
	if t.View != nil {
		t.View.Release()
		t.View = nil
	}
	if t.Texture != nil {
		t.Texture.Release()
		t.Texture = nil
	}
}

// DerivedTargets is one generation of size-dependent resources.
// The blit bind group always samples this generation's color view; the set is built and swapped as a whole.
type DerivedTargets struct {
	Generation uuid.UUID
	Depth      RenderTarget
	Color      RenderTarget
	Blit       bind_group_provider.BindGroupProvider
}

// Size returns the size shared by both targets.
func (d *DerivedTargets) Size() (uint32, uint32) {
	return d.Color.Width, d.Color.Height
}

// Release releases the blit bind group first, then both targets. It is safe on nil.
func (d *DerivedTargets) Release() {
	if d == nil {
		return
	}
	if d.Blit != nil {
		d.Blit.Release()
	}
	d.Color.Release()
	d.Depth.Release()
}
