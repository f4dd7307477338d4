package tracer

import "math"

// The BlockScheduler interface is implemented by all block scheduling algorithms.
type BlockScheduler interface {
	// Split the frame into horizontal blocks and assign one to each
	// tracer in the input list. The returned slice holds the block
	// height for each tracer; heights always sum to frameH and every
	// tracer receives at least one row.
	Schedule(tracers []Tracer, frameH uint32) []uint32
}

// The naive scheduler statically splits the frame using the tracers'
// relative speed estimates and ignores per-frame timing feedback.
type naiveScheduler struct {
	blockAssignment []uint32
}

// Create a new naive scheduler instance.
func NaiveScheduler() BlockScheduler {
	return &naiveScheduler{}
}

func (sch *naiveScheduler) Schedule(tracers []Tracer, frameH uint32) []uint32 {
	if len(sch.blockAssignment) != len(tracers) {
		sch.blockAssignment = make([]uint32, len(tracers))
	}
	return assignBySpeed(sch.blockAssignment, tracers, frameH)
}

// The perfect scheduler assumes that the volume of tracing work between
// two subsequent frames is approximately the same and sizes each block
// proportionally to the row throughput the tracer achieved on its
// previous block.
type perfectScheduler struct {
	blockAssignment []uint32
}

// Create a new perfect scheduler instance.
func PerfectScheduler() BlockScheduler {
	return &perfectScheduler{}
}

func (sch *perfectScheduler) Schedule(tracers []Tracer, frameH uint32) []uint32 {
	// Without timing feedback (first frame, or the tracer pool changed)
	// fall back to the static speed estimates.
	if len(sch.blockAssignment) != len(tracers) {
		sch.blockAssignment = make([]uint32, len(tracers))
		return assignBySpeed(sch.blockAssignment, tracers, frameH)
	}

	var total float64
	for _, tr := range tracers {
		stats := tr.Stats()
		total += float64(stats.BlockH) / float64(stats.RenderTime)
	}

	scaler := float64(frameH) / total
	var scheduledRows uint32
	for idx, tr := range tracers {
		stats := tr.Stats()
		sch.blockAssignment[idx] = uint32(math.Max(1.0, math.Floor(float64(stats.BlockH)/float64(stats.RenderTime)*scaler)))
		scheduledRows += sch.blockAssignment[idx]
	}

	// In case rows don't add up to the frame height append the missing ones to the first tracer.
	sch.blockAssignment[0] += frameH - scheduledRows

	return sch.blockAssignment
}

// Distribute frameH rows proportionally to the tracers' speed estimates,
// rounding down but never below one row, with the remainder going to the
// first tracer.
func assignBySpeed(blockAssignment []uint32, tracers []Tracer, frameH uint32) []uint32 {
	var total float64
	for _, tr := range tracers {
		total += float64(tr.Speed())
	}

	scaler := float64(frameH) / total
	var scheduledRows uint32
	for idx, tr := range tracers {
		blockAssignment[idx] = uint32(math.Max(1.0, math.Floor(float64(tr.Speed())*scaler)))
		scheduledRows += blockAssignment[idx]
	}
	blockAssignment[0] += frameH - scheduledRows

	return blockAssignment
}
