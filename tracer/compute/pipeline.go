package compute

import (
	"time"

	"github.com/ericlu327/photonforge-raytracing/tracer"
)

// An alias for functions that can be used as part of the rendering pipeline.
type PipelineStage func(tr *Tracer, blockReq *tracer.BlockRequest) (time.Duration, error)

// The list of pluggable stages that are used to render the scene.
type Pipeline struct {
	// Reset the accumulated radiance. This stage is executed for the
	// first frame after a camera change or a resize.
	Reset PipelineStage

	// This stage traces one radiance sample per pixel and folds it into
	// the running per-pixel average.
	Trace PipelineStage

	// A set of post-processing stages that map the accumulated radiance
	// to the displayable frame buffer.
	PostProcess []PipelineStage
}

func DefaultPipeline() *Pipeline {
	return &Pipeline{
		Reset: ClearAccumulator(),
		Trace: TracePaths(),
		PostProcess: []PipelineStage{
			TonemapACES(),
		},
	}
}

// Clear the accumulator textures.
func ClearAccumulator() PipelineStage {
	return func(tr *Tracer, blockReq *tracer.BlockRequest) (time.Duration, error) {
		return tr.resources.ClearAccumulator(&tr.bindings, blockReq)
	}
}

// Use the progressive path tracing integrator.
func TracePaths() PipelineStage {
	return func(tr *Tracer, blockReq *tracer.BlockRequest) (time.Duration, error) {
		return tr.resources.TracePaths(tr.sceneData, &tr.bindings, blockReq)
	}
}

// Apply ACES filmic tone-mapping and gamma encoding.
func TonemapACES() PipelineStage {
	return func(tr *Tracer, blockReq *tracer.BlockRequest) (time.Duration, error) {
		return tr.resources.TonemapACES(tr.sceneData, &tr.bindings, blockReq)
	}
}
