// Package tracer defines the interface between the renderer frontend and
// the backends that execute the render kernels, together with the block
// schedulers that split each frame across the available backends.
package tracer

import (
	"image"
	"time"

	"github.com/ericlu327/photonforge-raytracing/device"
)

type UpdateType uint8

const (
	// UpdateScene replaces the tracer's scene data.
	UpdateScene UpdateType = iota

	// UpdateCamera replaces the camera the primary rays originate from.
	UpdateCamera

	// UpdateBindings rebinds the tracer to the frame resources owned by
	// the renderer. Sent on startup, on resize and on every accumulator
	// role swap.
	UpdateBindings
)

type Flag uint8

const (
	// Tracer runs on the local machine.
	Local Flag = 1 << iota
)

// Bindings couple a tracer to the renderer-owned frame resources. The
// accumulator textures are listed in their roles for the upcoming frame;
// the renderer swaps the roles between frames so the kernels never read
// and write the same texture.
type Bindings struct {
	FrameW uint32
	FrameH uint32

	// Running radiance average up to the previous frame.
	AccumSrc *device.Texture

	// Destination for the updated running average.
	AccumDst *device.Texture

	// Display output. Tracers write disjoint row ranges.
	Frame *image.RGBA
}

// A unit of work processed by a tracer: a horizontal band of the frame.
type BlockRequest struct {
	// Block start row and height.
	BlockY uint32
	BlockH uint32

	// Number of frames accumulated since the last camera change. Drives
	// both the sample jitter and the running-average blend weight.
	FrameIndex uint32

	// Highest bounce index traced per sample.
	MaxBounce uint32

	// A channel to signal on block completion with the number of completed rows.
	DoneChan chan<- uint32

	// A channel to signal if an error occurs.
	ErrChan chan<- error
}

// Tracer statistics.
type Stats struct {
	// The rendered block height.
	BlockH uint32

	// The time for rendering this block.
	RenderTime time.Duration
}

type Tracer interface {
	// Get tracer id.
	Id() string

	// Get tracer flags.
	Flags() Flag

	// Get the tracer's relative speed estimate. Used by the block
	// schedulers until real per-frame timings are available.
	Speed() uint32

	// Initialize tracer.
	Init() error

	// Shutdown and cleanup tracer.
	Close()

	// Enqueue block request.
	Enqueue(BlockRequest)

	// Append a change to the tracer's update buffer. Changes are applied
	// before the next enqueued block is rendered.
	Update(UpdateType, interface{})

	// Retrieve last frame statistics.
	Stats() *Stats
}
