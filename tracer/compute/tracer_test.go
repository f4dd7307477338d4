package compute

import (
	"image"
	"testing"
	"time"

	"github.com/ericlu327/photonforge-raytracing/device"
	"github.com/ericlu327/photonforge-raytracing/scene"
	"github.com/ericlu327/photonforge-raytracing/tracer"
	"github.com/ericlu327/photonforge-raytracing/types"
)

func TestTracerRendersEnqueuedBlock(t *testing.T) {
	tr := createTestTracer(t)
	defer tr.Close()

	const frameW, frameH = 16, 16
	sc := &scene.Scene{
		SkyTop:    types.Vec3{1, 1, 1},
		SkyBottom: types.Vec3{1, 1, 1},
		Camera:    scene.NewCamera(types.Vec3{0, 1, 5}),
	}
	bindings := tracer.Bindings{
		FrameW:   frameW,
		FrameH:   frameH,
		AccumSrc: device.NewTexture(frameW, frameH, device.RGBA32Float),
		AccumDst: device.NewTexture(frameW, frameH, device.RGBA32Float),
		Frame:    image.NewRGBA(image.Rect(0, 0, frameW, frameH)),
	}
	tr.Update(tracer.UpdateScene, sc)
	tr.Update(tracer.UpdateBindings, bindings)

	// Render the top half of the frame only.
	renderBlock(t, tr, tracer.BlockRequest{
		BlockY:     0,
		BlockH:     frameH / 2,
		FrameIndex: 0,
		MaxBounce:  1,
	})

	// Every ray escapes into the constant white sky, so the block's
	// accumulator texels hold exactly (1, 1, 1).
	for y := uint32(0); y < frameH/2; y++ {
		for x := uint32(0); x < frameW; x++ {
			if got := bindings.AccumDst.Load(x, y).Vec3(); !types.ApproxEqual(got, types.Vec3{1, 1, 1}, 1e-6) {
				t.Fatalf("expected accumulated sky radiance at (%d, %d); got %v", x, y, got)
			}
			if c := bindings.Frame.RGBAAt(int(x), int(y)); c.A != 255 || c.R == 0 || c.R != c.G || c.G != c.B {
				t.Fatalf("expected an opaque gray display pixel at (%d, %d); got %v", x, y, c)
			}
		}
	}

	// Rows outside the block belong to other tracers and stay untouched.
	for y := uint32(frameH / 2); y < frameH; y++ {
		for x := uint32(0); x < frameW; x++ {
			if got := bindings.AccumDst.Load(x, y); got != (types.Vec4{}) {
				t.Fatalf("expected accumulator row %d outside the block to stay zero; got %v", y, got)
			}
			if c := bindings.Frame.RGBAAt(int(x), int(y)); c.A != 0 {
				t.Fatalf("expected frame row %d outside the block to stay untouched; got %v", y, c)
			}
		}
	}
}

func TestTracerAccumulatesAcrossFrames(t *testing.T) {
	tr := createTestTracer(t)
	defer tr.Close()

	const frameW, frameH = 8, 8
	sc := scene.Default()
	accumA := device.NewTexture(frameW, frameH, device.RGBA32Float)
	accumB := device.NewTexture(frameW, frameH, device.RGBA32Float)
	frame := image.NewRGBA(image.Rect(0, 0, frameW, frameH))

	tr.Update(tracer.UpdateScene, sc)
	tr.Update(tracer.UpdateBindings, tracer.Bindings{
		FrameW: frameW, FrameH: frameH,
		AccumSrc: accumA, AccumDst: accumB, Frame: frame,
	})
	renderBlock(t, tr, tracer.BlockRequest{BlockH: frameH, FrameIndex: 0, MaxBounce: 3})
	frame0 := accumB.Load(4, 4).Vec3()

	// Swap the accumulator roles for the next frame.
	tr.Update(tracer.UpdateBindings, tracer.Bindings{
		FrameW: frameW, FrameH: frameH,
		AccumSrc: accumB, AccumDst: accumA, Frame: frame,
	})
	renderBlock(t, tr, tracer.BlockRequest{BlockH: frameH, FrameIndex: 1, MaxBounce: 3})
	frame1 := accumA.Load(4, 4).Vec3()

	// The second frame's output is a running mean, so it cannot stray
	// outside plausible bounds around the first frame's sample; with the
	// default scene both frames are strictly positive.
	for i := 0; i < 3; i++ {
		if frame0[i] <= 0 || frame1[i] <= 0 {
			t.Fatalf("expected positive radiance; got frame0 %v frame1 %v", frame0, frame1)
		}
	}

	if stats := tr.Stats(); stats.BlockH != frameH {
		t.Fatalf("expected stats for a %d-row block; got %d", frameH, stats.BlockH)
	}
}

func TestTracerReportsMissingSceneData(t *testing.T) {
	tr := createTestTracer(t)
	defer tr.Close()

	doneChan := make(chan uint32, 1)
	errChan := make(chan error, 1)
	tr.Enqueue(tracer.BlockRequest{BlockH: 4, DoneChan: doneChan, ErrChan: errChan})

	select {
	case err := <-errChan:
		if err != ErrNoSceneData {
			t.Fatalf("expected ErrNoSceneData; got %v", err)
		}
	case <-doneChan:
		t.Fatal("expected the block request to fail without scene data")
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for the tracer worker")
	}
}

func renderBlock(t *testing.T, tr *Tracer, blockReq tracer.BlockRequest) {
	t.Helper()

	doneChan := make(chan uint32, 1)
	errChan := make(chan error, 1)
	blockReq.DoneChan = doneChan
	blockReq.ErrChan = errChan

	tr.Enqueue(blockReq)
	select {
	case err := <-errChan:
		t.Fatal(err)
	case rows := <-doneChan:
		if rows != blockReq.BlockH {
			t.Fatalf("expected completion of %d rows; got %d", blockReq.BlockH, rows)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for the tracer worker")
	}
}

func createTestTracer(t *testing.T) *Tracer {
	t.Helper()

	tr, err := NewTracer("test", device.New("test device", 2), nil)
	if err != nil {
		t.Fatal(err)
	}
	if err = tr.Init(); err != nil {
		t.Fatal(err)
	}
	return tr
}
