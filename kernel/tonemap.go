package kernel

import (
	"image"
	"image/color"
	"math"

	"github.com/ericlu327/photonforge-raytracing/device"
	"github.com/ericlu327/photonforge-raytracing/types"
)

const invGamma = 1.0 / 2.2

// BlitVertex returns the clip-space position and texture coordinate of
// vertex index 0..2 of the fullscreen triangle. The single triangle
// over-covers the viewport, so the display pass needs no vertex data and
// has no diagonal seam.
func BlitVertex(index int) (pos, uv types.Vec2) {
	uv = types.Vec2{float32((index << 1) & 2), float32(index & 2)}
	pos = types.Vec2{uv[0]*2 - 1, uv[1]*2 - 1}
	return pos, uv
}

// Tonemap builds the display kernel: sample the accumulated radiance at
// the pixel's normalized position, apply the ACES filmic curve and gamma
// encoding, and write an opaque display color.
func Tonemap(u *Uniform, src *device.Texture, sampler device.Sampler, dst *image.RGBA) device.Func2D {
	return func(gidX, gidY uint32) {
		if gidX >= u.Width || gidY >= u.Height {
			return
		}

		sampleU := (float32(gidX) + 0.5) / float32(u.Width)
		sampleV := (float32(gidY) + 0.5) / float32(u.Height)
		c := sampler.Sample(src, sampleU, sampleV).Vec3()

		c = acesFilm(c).Clamp01()
		dst.SetRGBA(int(gidX), int(gidY), color.RGBA{
			R: encodeGamma(c[0]),
			G: encodeGamma(c[1]),
			B: encodeGamma(c[2]),
			A: 255,
		})
	}
}

// ACES filmic approximation, applied per component. Asymptotically
// approaches but never reaches 1 for large inputs.
func acesFilm(c types.Vec3) types.Vec3 {
	var out types.Vec3
	for i := 0; i < 3; i++ {
		x := c[i]
		out[i] = x * (x*2.51 + 0.03) / (x*(x*2.43+0.59) + 0.14)
	}
	return out
}

func encodeGamma(v float32) uint8 {
	return uint8(float32(math.Pow(float64(v), invGamma))*255 + 0.5)
}
