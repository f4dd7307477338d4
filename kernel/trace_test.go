package kernel

import (
	"testing"

	"github.com/ericlu327/photonforge-raytracing/device"
	"github.com/ericlu327/photonforge-raytracing/scene"
	"github.com/ericlu327/photonforge-raytracing/types"
)

// Camera looking straight down at the ground plane.
func downwardUniform(width, height, frame, maxBounce uint32) *Uniform {
	return &Uniform{
		Origin:     types.Vec3{0, 3, 0},
		Dir:        types.Vec3{0, -1, 0},
		Right:      types.Vec3{1, 0, 0},
		Up:         types.Vec3{0, 0, -1},
		Width:      width,
		Height:     height,
		FrameIndex: frame,
		MaxBounce:  maxBounce,
	}
}

func approxVec3(t *testing.T, got, exp types.Vec3, eps float32, msg string) {
	t.Helper()
	if !types.ApproxEqual(got, exp, eps) {
		t.Fatalf("%s: expected %v; got %v", msg, exp, got)
	}
}

func TestTracePixelEmptySceneReturnsSky(t *testing.T) {
	sc := &scene.Scene{
		SkyTop:    types.Vec3{0.25, 0.5, 0.75},
		SkyBottom: types.Vec3{0.25, 0.5, 0.75},
	}
	u := downwardUniform(8, 8, 0, 4)

	// With a constant sky every primary ray must return exactly the sky
	// color no matter where it points.
	for y := uint32(0); y < 8; y++ {
		for x := uint32(0); x < 8; x++ {
			got := tracePixel(u, sc, x, y)
			approxVec3(t, got, types.Vec3{0.25, 0.5, 0.75}, 1e-6, "constant sky sample")
		}
	}
}

func TestSkyGradientStaysBetweenHorizonAndZenith(t *testing.T) {
	sc := &scene.Scene{
		SkyTop:    types.Vec3{0.5, 0.7, 1.0},
		SkyBottom: types.Vec3{1, 1, 1},
	}

	dirs := []types.Vec3{
		{0, 1, 0},
		{0, -1, 0},
		{1, 0, 0},
		types.Vec3{1, 0.3, -0.5}.Normalize(),
	}
	for index, dir := range dirs {
		c := sky(sc, dir)
		for i := 0; i < 3; i++ {
			lo, hi := sc.SkyTop[i], sc.SkyBottom[i]
			if lo > hi {
				lo, hi = hi, lo
			}
			if c[i] < lo-1e-6 || c[i] > hi+1e-6 {
				t.Fatalf("[dir %d] expected component %d in [%f, %f]; got %f", index, i, lo, hi, c[i])
			}
		}
	}

	// Straight up and straight down hit the gradient endpoints exactly.
	approxVec3(t, sky(sc, types.Vec3{0, 1, 0}), sc.SkyTop, 1e-6, "zenith")
	approxVec3(t, sky(sc, types.Vec3{0, -1, 0}), sc.SkyBottom, 1e-6, "horizon")
}

func TestMirrorBounceAttenuation(t *testing.T) {
	// A mirror ground plane under a constant white sky with no light
	// source: the only contribution is the sky seen through one mirror
	// bounce, so every pixel must be exactly the mirror attenuation.
	sc := &scene.Scene{
		Primitives: []scene.Primitive{
			scene.NewPlane(0, scene.Material{Type: scene.MirrorMaterial, Mirror: 1}),
		},
		SkyTop:    types.Vec3{1, 1, 1},
		SkyBottom: types.Vec3{1, 1, 1},
	}

	u := downwardUniform(4, 4, 0, 4)
	for y := uint32(0); y < 4; y++ {
		for x := uint32(0); x < 4; x++ {
			got := tracePixel(u, sc, x, y)
			exp := types.Vec3{mirrorAttenuation, mirrorAttenuation, mirrorAttenuation}
			approxVec3(t, got, exp, 1e-6, "single mirror bounce")
		}
	}
}

func TestBounceCapIsInclusive(t *testing.T) {
	// Same mirror scene, but MaxBounce 0: only the primary hit is shaded
	// and the reflected ray is never traced, so the sky contributes
	// nothing and the pixel stays black.
	sc := &scene.Scene{
		Primitives: []scene.Primitive{
			scene.NewPlane(0, scene.Material{Type: scene.MirrorMaterial, Mirror: 1}),
		},
		SkyTop:    types.Vec3{1, 1, 1},
		SkyBottom: types.Vec3{1, 1, 1},
	}

	u := downwardUniform(4, 4, 0, 0)
	if got := tracePixel(u, sc, 1, 1); got != (types.Vec3{}) {
		t.Fatalf("expected a zero-bounce mirror hit to stay black; got %v", got)
	}

	// Raising the cap to 1 admits the reflected ray.
	u.MaxBounce = 1
	got := tracePixel(u, sc, 1, 1)
	approxVec3(t, got, types.Vec3{mirrorAttenuation, mirrorAttenuation, mirrorAttenuation}, 1e-6, "one-bounce mirror hit")
}

func TestMirrorThenEmissiveHit(t *testing.T) {
	// Camera looks down at a mirror plane; the reflected ray travels back
	// up into a large emissive sphere. Black sky, no light and a black
	// sphere albedo kill every other path, so the pixel is exactly the
	// emissive color after one mirror attenuation.
	sc := &scene.Scene{
		Primitives: []scene.Primitive{
			scene.NewPlane(0, scene.Material{Type: scene.MirrorMaterial, Mirror: 1}),
			scene.NewSphere(types.Vec3{0, 8, 0}, 2, scene.Material{Emissive: types.Vec3{2, 2, 2}}),
		},
	}

	u := downwardUniform(512, 512, 0, 5)
	got := tracePixel(u, sc, 255, 255)
	exp := types.Vec3{2, 2, 2}.Mul(mirrorAttenuation)
	approxVec3(t, got, exp, 1e-5, "mirror bounce into emissive sphere")
}

func TestDirectLight(t *testing.T) {
	light := scene.PointLight{Position: types.Vec3{0, 4, 0}, Color: types.Vec3{2, 2, 2}}

	// Unoccluded surface directly below the light: cos is 1 and the
	// falloff at distance 4 is 1/(1 + 0.4 + 0.16).
	sc := &scene.Scene{Light: light}
	got := directLight(sc, types.Vec3{}, types.Vec3{0, 1, 0}, types.Vec3{1, 1, 1})
	expScalar := float32(2.0 / 1.56)
	approxVec3(t, got, types.Vec3{expScalar, expScalar, expScalar}, 1e-5, "unoccluded direct light")

	// A sphere between the point and the light hard-shadows it.
	sc.Primitives = []scene.Primitive{
		scene.NewSphere(types.Vec3{0, 2, 0}, 0.5, scene.Material{}),
	}
	if got := directLight(sc, types.Vec3{}, types.Vec3{0, 1, 0}, types.Vec3{1, 1, 1}); got != (types.Vec3{}) {
		t.Fatalf("expected shadowed point to receive no direct light; got %v", got)
	}

	// Back-facing surfaces receive nothing.
	sc.Primitives = nil
	if got := directLight(sc, types.Vec3{}, types.Vec3{0, -1, 0}, types.Vec3{1, 1, 1}); got != (types.Vec3{}) {
		t.Fatalf("expected back-facing surface to receive no direct light; got %v", got)
	}
}

func TestAccumulate(t *testing.T) {
	type spec struct {
		prev   types.Vec3
		sample types.Vec3
		frame  uint32
		exp    types.Vec3
	}
	specs := []spec{
		// Frame 0 discards the previous value entirely.
		{types.Vec3{5, 5, 5}, types.Vec3{1, 2, 3}, 0, types.Vec3{1, 2, 3}},
		// Frame 1 averages the two samples.
		{types.Vec3{1, 2, 3}, types.Vec3{3, 2, 1}, 1, types.Vec3{2, 2, 2}},
		// A sample equal to the mean leaves the mean unchanged.
		{types.Vec3{4, 4, 4}, types.Vec3{4, 4, 4}, 9, types.Vec3{4, 4, 4}},
	}

	for index, s := range specs {
		got := accumulate(s.prev, s.sample, s.frame)
		if !types.ApproxEqual(got, s.exp, 1e-5) {
			t.Fatalf("[spec %d] expected running mean %v; got %v", index, s.exp, got)
		}
	}
}

func TestTraceAccumulatesRunningMean(t *testing.T) {
	sc := scene.Default()
	dir, right, up := sc.Camera.Basis()

	const w, h = 2, 2
	texA := device.NewTexture(w, h, device.RGBA32Float)
	texB := device.NewTexture(w, h, device.RGBA32Float)

	u0 := &Uniform{
		Origin: sc.Camera.Position, Dir: dir, Right: right, Up: up,
		Width: w, Height: h, FrameIndex: 0, MaxBounce: 3,
	}
	fn := Trace(u0, sc, texA, texB)
	for y := uint32(0); y < h; y++ {
		for x := uint32(0); x < w; x++ {
			fn(x, y)
		}
	}

	// Frame 0 output is the raw sample.
	for y := uint32(0); y < h; y++ {
		for x := uint32(0); x < w; x++ {
			approxVec3(t, texB.Load(x, y).Vec3(), tracePixel(u0, sc, x, y), 1e-6, "frame 0 sample")
		}
	}

	// Frame 1 reads the ping-pong partner and emits the two-frame mean.
	u1 := *u0
	u1.FrameIndex = 1
	fn = Trace(&u1, sc, texB, texA)
	for y := uint32(0); y < h; y++ {
		for x := uint32(0); x < w; x++ {
			fn(x, y)
		}
	}
	for y := uint32(0); y < h; y++ {
		for x := uint32(0); x < w; x++ {
			exp := accumulate(tracePixel(u0, sc, x, y), tracePixel(&u1, sc, x, y), 1)
			approxVec3(t, texA.Load(x, y).Vec3(), exp, 1e-6, "frame 1 running mean")
		}
	}
}

func TestTraceIgnoresOutOfBoundsInvocations(t *testing.T) {
	sc := scene.Default()
	dir, right, up := sc.Camera.Basis()

	const w, h = 2, 2
	src := device.NewTexture(w, h, device.RGBA32Float)
	dst := device.NewTexture(w, h, device.RGBA32Float)
	sentinel := types.Vec4{7, 7, 7, 7}
	for y := uint32(0); y < h; y++ {
		for x := uint32(0); x < w; x++ {
			dst.Store(x, y, sentinel)
		}
	}

	u := &Uniform{
		Origin: sc.Camera.Position, Dir: dir, Right: right, Up: up,
		Width: w, Height: h, FrameIndex: 0, MaxBounce: 1,
	}
	fn := Trace(u, sc, src, dst)

	// Padded tile invocations past the image edge must not write.
	fn(w, 0)
	fn(0, h)
	fn(7, 7)

	for y := uint32(0); y < h; y++ {
		for x := uint32(0); x < w; x++ {
			if dst.Load(x, y) != sentinel {
				t.Fatalf("expected out-of-bounds invocations to leave (%d, %d) untouched; got %v", x, y, dst.Load(x, y))
			}
		}
	}
}
