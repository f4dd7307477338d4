package device

import (
	"github.com/mrjoshuak/go-openexr/half"

	"github.com/ericlu327/photonforge-raytracing/types"
)

type Format uint8

const (
	// 16 bits per channel HDR format; matches what a GPU storage
	// texture would use for progressive accumulation.
	RGBA16Float Format = iota

	// Full precision variant, mainly used by tests that assert exact
	// accumulation arithmetic.
	RGBA32Float
)

// A 2D HDR image with four float channels. RGBA16Float textures hold
// half floats in memory and convert on load/store.
type Texture struct {
	width  uint32
	height uint32
	format Format

	pix16 []half.Half
	pix32 []float32
}

// Allocate a texture. Contents start zeroed.
func NewTexture(width, height uint32, format Format) *Texture {
	t := &Texture{width: width, height: height, format: format}
	switch format {
	case RGBA16Float:
		t.pix16 = make([]half.Half, width*height*4)
	case RGBA32Float:
		t.pix32 = make([]float32, width*height*4)
	}
	return t
}

func (t *Texture) Width() uint32  { return t.width }
func (t *Texture) Height() uint32 { return t.height }
func (t *Texture) Format() Format { return t.format }

// Read one texel.
func (t *Texture) Load(x, y uint32) types.Vec4 {
	base := (y*t.width + x) * 4
	if t.format == RGBA16Float {
		return types.Vec4{
			t.pix16[base].Float32(),
			t.pix16[base+1].Float32(),
			t.pix16[base+2].Float32(),
			t.pix16[base+3].Float32(),
		}
	}
	return types.Vec4{t.pix32[base], t.pix32[base+1], t.pix32[base+2], t.pix32[base+3]}
}

// Write one texel.
func (t *Texture) Store(x, y uint32, c types.Vec4) {
	base := (y*t.width + x) * 4
	if t.format == RGBA16Float {
		t.pix16[base] = half.FromFloat32(c[0])
		t.pix16[base+1] = half.FromFloat32(c[1])
		t.pix16[base+2] = half.FromFloat32(c[2])
		t.pix16[base+3] = half.FromFloat32(c[3])
		return
	}
	t.pix32[base] = c[0]
	t.pix32[base+1] = c[1]
	t.pix32[base+2] = c[2]
	t.pix32[base+3] = c[3]
}

// Zero all texels.
func (t *Texture) Clear() {
	t.ClearRows(0, t.height)
}

// Zero the texels of the given row range.
func (t *Texture) ClearRows(y, h uint32) {
	if y >= t.height {
		return
	}
	if y+h > t.height {
		h = t.height - y
	}
	from, to := y*t.width*4, (y+h)*t.width*4
	if t.format == RGBA16Float {
		for i := from; i < to; i++ {
			t.pix16[i] = 0
		}
		return
	}
	for i := from; i < to; i++ {
		t.pix32[i] = 0
	}
}

type FilterMode uint8

const (
	FilterNearest FilterMode = iota
	FilterLinear
)

// A texture sampler with clamp-to-edge addressing over normalized
// coordinates.
type Sampler struct {
	Filter FilterMode
}

// Sample the texture at normalized (u, v). Linear filtering blends the
// four nearest texels; sampling exactly at texel centers reproduces the
// stored value.
func (s Sampler) Sample(t *Texture, u, v float32) types.Vec4 {
	fx := u*float32(t.width) - 0.5
	fy := v*float32(t.height) - 0.5

	if s.Filter == FilterNearest {
		return t.Load(clampCoord(fx+0.5, t.width), clampCoord(fy+0.5, t.height))
	}

	x0f := floor32(fx)
	y0f := floor32(fy)
	tx := fx - x0f
	ty := fy - y0f

	x0 := clampCoord(x0f, t.width)
	y0 := clampCoord(y0f, t.height)
	x1 := clampCoord(x0f+1, t.width)
	y1 := clampCoord(y0f+1, t.height)

	c00 := t.Load(x0, y0)
	c10 := t.Load(x1, y0)
	c01 := t.Load(x0, y1)
	c11 := t.Load(x1, y1)

	var out types.Vec4
	for i := 0; i < 4; i++ {
		top := c00[i] + (c10[i]-c00[i])*tx
		bot := c01[i] + (c11[i]-c01[i])*tx
		out[i] = top + (bot-top)*ty
	}
	return out
}

func clampCoord(f float32, limit uint32) uint32 {
	if f <= 0 {
		return 0
	}
	c := uint32(f)
	if c >= limit {
		return limit - 1
	}
	return c
}

func floor32(f float32) float32 {
	i := float32(int32(f))
	if f < i {
		return i - 1
	}
	return i
}
