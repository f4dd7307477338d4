package renderer

import "time"

// Per-tracer breakdown of the last rendered frame.
type TracerStat struct {
	Id string

	// Set for the tracer at the head of the device list.
	IsPrimary bool

	// Rows assigned to this tracer and their share of the frame.
	BlockH       uint32
	FramePercent float32

	// Time spent rendering the assigned block.
	RenderTime time.Duration
}

// Timing information for the last rendered frame.
type FrameStats struct {
	Tracers []TracerStat

	// Wall clock time for the whole frame.
	RenderTime time.Duration

	// Frames accumulated since the last camera change or resize.
	AccumulatedFrames uint32
}
