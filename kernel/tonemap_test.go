package kernel

import (
	"image"
	"testing"

	"github.com/ericlu327/photonforge-raytracing/device"
	"github.com/ericlu327/photonforge-raytracing/types"
)

func TestTonemapOutput(t *testing.T) {
	type spec struct {
		in     types.Vec3
		expMin uint8
		expMax uint8
	}
	specs := []spec{
		// Black stays black.
		{types.Vec3{0, 0, 0}, 0, 0},
		// Values far above 1 clamp to full white instead of wrapping.
		{types.Vec3{100, 100, 100}, 255, 255},
		// Mid-gray lands strictly inside the displayable range.
		{types.Vec3{0.18, 0.18, 0.18}, 1, 254},
	}

	for index, s := range specs {
		src := device.NewTexture(1, 1, device.RGBA32Float)
		src.Store(0, 0, s.in.Vec4(1))
		dst := image.NewRGBA(image.Rect(0, 0, 1, 1))

		u := &Uniform{Width: 1, Height: 1}
		Tonemap(u, src, device.Sampler{Filter: device.FilterNearest}, dst)(0, 0)

		c := dst.RGBAAt(0, 0)
		for _, v := range []uint8{c.R, c.G, c.B} {
			if v < s.expMin || v > s.expMax {
				t.Fatalf("[spec %d] expected display value in [%d, %d]; got %d", index, s.expMin, s.expMax, v)
			}
		}
		if c.A != 255 {
			t.Fatalf("[spec %d] expected opaque alpha; got %d", index, c.A)
		}
	}
}

func TestTonemapIsMonotonic(t *testing.T) {
	// Brighter radiance never maps to a darker display value.
	u := &Uniform{Width: 1, Height: 1}
	var prev uint8
	for i := 0; i <= 50; i++ {
		src := device.NewTexture(1, 1, device.RGBA32Float)
		src.Store(0, 0, types.Vec3{float32(i) * 0.1, 0, 0}.Vec4(1))
		dst := image.NewRGBA(image.Rect(0, 0, 1, 1))
		Tonemap(u, src, device.Sampler{Filter: device.FilterNearest}, dst)(0, 0)

		if r := dst.RGBAAt(0, 0).R; r < prev {
			t.Fatalf("expected monotone response; input %f mapped to %d after %d", float32(i)*0.1, r, prev)
		} else {
			prev = r
		}
	}
}

func TestTonemapIgnoresOutOfBoundsInvocations(t *testing.T) {
	src := device.NewTexture(2, 2, device.RGBA32Float)
	dst := image.NewRGBA(image.Rect(0, 0, 2, 2))

	u := &Uniform{Width: 2, Height: 2}
	fn := Tonemap(u, src, device.Sampler{Filter: device.FilterNearest}, dst)
	fn(2, 0)
	fn(0, 2)
	fn(9, 9)

	for y := 0; y < 2; y++ {
		for x := 0; x < 2; x++ {
			if c := dst.RGBAAt(x, y); c.A != 0 {
				t.Fatalf("expected out-of-bounds invocations to leave (%d, %d) untouched; got %v", x, y, c)
			}
		}
	}
}

func TestBlitVertexCoversViewport(t *testing.T) {
	type spec struct {
		expPos types.Vec2
		expUV  types.Vec2
	}
	specs := []spec{
		{types.Vec2{-1, -1}, types.Vec2{0, 0}},
		{types.Vec2{3, -1}, types.Vec2{2, 0}},
		{types.Vec2{-1, 3}, types.Vec2{0, 2}},
	}

	for index, s := range specs {
		pos, uv := BlitVertex(index)
		if pos != s.expPos || uv != s.expUV {
			t.Fatalf("[vertex %d] expected pos %v uv %v; got pos %v uv %v", index, s.expPos, s.expUV, pos, uv)
		}
	}

	// The triangle must contain all four corners of the clip-space square
	// so the fragment pass covers every pixel.
	a, _ := BlitVertex(0)
	b, _ := BlitVertex(1)
	c, _ := BlitVertex(2)
	for _, corner := range []types.Vec2{{-1, -1}, {1, -1}, {-1, 1}, {1, 1}} {
		if !pointInTriangle(corner, a, b, c) {
			t.Fatalf("expected clip-space corner %v inside the blit triangle", corner)
		}
	}
}

func pointInTriangle(p, a, b, c types.Vec2) bool {
	sign := func(p, a, b types.Vec2) float32 {
		return (p[0]-b[0])*(a[1]-b[1]) - (a[0]-b[0])*(p[1]-b[1])
	}
	d1 := sign(p, a, b)
	d2 := sign(p, b, c)
	d3 := sign(p, c, a)
	hasNeg := d1 < 0 || d2 < 0 || d3 < 0
	hasPos := d1 > 0 || d2 > 0 || d3 > 0
	return !(hasNeg && hasPos)
}
