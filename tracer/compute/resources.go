package compute

import (
	"time"

	"github.com/ericlu327/photonforge-raytracing/device"
	"github.com/ericlu327/photonforge-raytracing/kernel"
	"github.com/ericlu327/photonforge-raytracing/scene"
	"github.com/ericlu327/photonforge-raytracing/tracer"
	"github.com/ericlu327/photonforge-raytracing/types"
)

// A container that binds the render kernels to a compute device.
type deviceResources struct {
	dev *device.Device
}

func newDeviceResources(dev *device.Device) (*deviceResources, error) {
	if dev == nil {
		return nil, ErrInvalidDevice
	}
	return &deviceResources{dev: dev}, nil
}

// Build the kernel input descriptor for one block dispatch. Width and
// height always describe the full frame; the block offset is applied by
// the dispatch wrapper so pixel coordinates, and with them the per-pixel
// sample seeds, stay block-independent.
func frameUniform(sc *scene.Scene, b *tracer.Bindings, blockReq *tracer.BlockRequest) *kernel.Uniform {
	dir, right, up := sc.Camera.Basis()
	return &kernel.Uniform{
		Origin:     sc.Camera.Position,
		Dir:        dir,
		Right:      right,
		Up:         up,
		Width:      b.FrameW,
		Height:     b.FrameH,
		FrameIndex: blockReq.FrameIndex,
		MaxBounce:  blockReq.MaxBounce,
	}
}

// Offset a kernel function into this tracer's block. The dispatch grid
// is padded to whole tiles, so rows past the block height are discarded
// here; they belong to another tracer's block.
func blockOffset(fn device.Func2D, blockReq *tracer.BlockRequest) device.Func2D {
	return func(gidX, gidY uint32) {
		if gidY >= blockReq.BlockH {
			return
		}
		fn(gidX, gidY+blockReq.BlockY)
	}
}

// Zero this block's rows in both accumulator textures.
func (dr *deviceResources) ClearAccumulator(b *tracer.Bindings, blockReq *tracer.BlockRequest) (time.Duration, error) {
	fn := func(gidX, gidY uint32) {
		if gidX >= b.FrameW || gidY >= b.FrameH {
			return
		}
		b.AccumSrc.Store(gidX, gidY, types.Vec4{})
		b.AccumDst.Store(gidX, gidY, types.Vec4{})
	}

	k := dr.dev.Kernel(clearAccumulator.String(), blockOffset(fn, blockReq))
	return k.Exec2D(b.FrameW, blockReq.BlockH)
}

// Trace this block's rows, blending the new radiance samples into the
// destination accumulator.
func (dr *deviceResources) TracePaths(sc *scene.Scene, b *tracer.Bindings, blockReq *tracer.BlockRequest) (time.Duration, error) {
	u := frameUniform(sc, b, blockReq)
	fn := kernel.Trace(u, sc, b.AccumSrc, b.AccumDst)

	k := dr.dev.Kernel(tracePaths.String(), blockOffset(fn, blockReq))
	return k.Exec2D(b.FrameW, blockReq.BlockH)
}

// Tonemap this block's rows of the destination accumulator into the
// display frame buffer.
func (dr *deviceResources) TonemapACES(sc *scene.Scene, b *tracer.Bindings, blockReq *tracer.BlockRequest) (time.Duration, error) {
	u := frameUniform(sc, b, blockReq)
	fn := kernel.Tonemap(u, b.AccumDst, device.Sampler{Filter: device.FilterLinear}, b.Frame)

	k := dr.dev.Kernel(tonemapACES.String(), blockOffset(fn, blockReq))
	return k.Exec2D(b.FrameW, blockReq.BlockH)
}
