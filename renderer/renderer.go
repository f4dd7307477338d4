// Package renderer drives the render loop: it owns the frame resources,
// splits each frame into blocks across the attached tracers and manages
// the progressive accumulation state.
package renderer

type Renderer interface {
	// Render frame(s).
	Render() error

	// Shutdown renderer and any attached tracer.
	Close()

	// Get render statistics.
	Stats() FrameStats
}
