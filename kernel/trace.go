package kernel

import (
	"math"

	"github.com/ericlu327/photonforge-raytracing/device"
	"github.com/ericlu327/photonforge-raytracing/scene"
	"github.com/ericlu327/photonforge-raytracing/types"
)

const (
	// Vertical field of view is fixed at 60 degrees; tan(30 deg).
	tanHalfFov = 0.57735026919

	// Energy retained by an imperfect mirror per bounce.
	mirrorAttenuation = 0.95
)

// Trace builds the path tracing kernel for one frame. src holds the
// per-pixel running average over frames 0..FrameIndex-1; dst receives
// the average over frames 0..FrameIndex. Invocations outside the image
// bounds (padded workgroup tiles) write nothing.
func Trace(u *Uniform, sc *scene.Scene, src, dst *device.Texture) device.Func2D {
	return func(gidX, gidY uint32) {
		if gidX >= u.Width || gidY >= u.Height {
			return
		}

		sample := tracePixel(u, sc, gidX, gidY)
		prev := src.Load(gidX, gidY).Vec3()
		dst.Store(gidX, gidY, accumulate(prev, sample, u.FrameIndex).Vec4(1))
	}
}

// Blend a new radiance sample into the running per-pixel mean. Exact for
// any non-negative frame index; at frame 0 the previous value is ignored
// entirely, which is what makes host-side resets cheap.
func accumulate(prev, sample types.Vec3, frame uint32) types.Vec3 {
	n := float32(frame)
	return prev.Mul(n).Add(sample).Mul(1.0 / (n + 1))
}

// Compute one radiance sample for a pixel: a jittered primary ray traced
// through up to MaxBounce bounces with direct lighting at each hit.
func tracePixel(u *Uniform, sc *scene.Scene, x, y uint32) types.Vec3 {
	seedX := x + u.FrameIndex*9781
	seedY := y + u.FrameIndex*6271

	// Sub-pixel jitter; over many frames the accumulator averages the
	// jittered samples into antialiased edges.
	jitterX := randFloat(seedX, seedY)
	jitterY := randFloat(seedX*0x9e3779b1, seedY*0x85ebca77)

	ndcX := (float32(x)+jitterX)/float32(u.Width)*2 - 1
	ndcY := 1 - (float32(y)+jitterY)/float32(u.Height)*2
	aspect := float32(u.Width) / float32(u.Height)

	r := ray{
		origin: u.Origin,
		dir: u.Dir.
			Add(u.Right.Mul(ndcX * aspect * tanHalfFov)).
			Add(u.Up.Mul(ndcY * tanHalfFov)).
			Normalize(),
	}

	var radiance types.Vec3
	throughput := types.Vec3{1, 1, 1}

	for bounce := uint32(0); bounce <= u.MaxBounce; bounce++ {
		hit, ok := closestHit(r, sc.Primitives)
		if !ok {
			radiance = radiance.Add(throughput.MulVec3(sky(sc, r.dir)))
			break
		}

		point := r.origin.Add(r.dir.Mul(hit.distance))
		radiance = radiance.Add(throughput.MulVec3(hit.material.Emissive))
		radiance = radiance.Add(directLight(sc, point, hit.normal, hit.material.Albedo).MulVec3(throughput))

		// Decorrelate bounce sampling across pixels that hit the same
		// surface point by folding the hit position into the seed.
		bitsX := math.Float32bits(point[0])
		bitsY := math.Float32bits(point[1])
		bitsZ := math.Float32bits(point[2])
		u1 := randFloat(seedX^bitsX^bitsZ, seedY^bitsY)
		u2 := randFloat(seedX^bitsY, seedY^bitsX^bitsZ)

		var newDir types.Vec3
		switch {
		case hit.material.Type == scene.DielectricMaterial:
			newDir = sampleDielectric(r.dir, hit.normal, hit.material.IOR, u1)
			throughput = throughput.MulVec3(hit.material.Albedo)
		case hit.material.Mirror > 0.5:
			newDir = r.dir.Reflect(hit.normal)
			throughput = throughput.Mul(mirrorAttenuation)
		default:
			newDir = cosineSampleHemisphere(hit.normal, u1, u2)
			throughput = throughput.MulVec3(hit.material.Albedo)
		}

		// Offset the next origin off the surface on whichever side the
		// new direction leaves from.
		offsetNormal := hit.normal
		if newDir.Dot(hit.normal) < 0 {
			offsetNormal = hit.normal.Neg()
		}
		r = ray{origin: point.Add(offsetNormal.Mul(hitEpsilon)), dir: newDir}
	}

	return radiance
}

// Direct contribution of the point light at a surface point, with a hard
// shadow test and an inverse-quadratic style falloff chosen for visual
// range control rather than physical accuracy.
func directLight(sc *scene.Scene, point, normal, albedo types.Vec3) types.Vec3 {
	toLight := sc.Light.Position.Sub(point)
	dist := toLight.Len()
	if dist < minLightDistance {
		dist = minLightDistance
	}
	lightDir := toLight.Mul(1.0 / dist)

	cos := normal.Dot(lightDir)
	if cos <= 0 {
		return types.Vec3{}
	}

	shadowRay := ray{origin: point.Add(normal.Mul(hitEpsilon)), dir: lightDir}
	if occluded(shadowRay, sc.Primitives, dist) {
		return types.Vec3{}
	}

	falloff := 1.0 / (1.0 + 0.1*dist + 0.01*dist*dist)
	return albedo.MulVec3(sc.Light.Color).Mul(cos * falloff)
}

// Sky radiance for a miss: a vertical gradient between the scene's
// horizon and zenith colors.
func sky(sc *scene.Scene, dir types.Vec3) types.Vec3 {
	t := 0.5 * (dir[1] + 1)
	return types.Mix(sc.SkyBottom, sc.SkyTop, t)
}
