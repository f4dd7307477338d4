package renderer

import (
	"image"
	"strings"
	"time"

	"github.com/ericlu327/photonforge-raytracing/device"
	"github.com/ericlu327/photonforge-raytracing/log"
	"github.com/ericlu327/photonforge-raytracing/scene"
	"github.com/ericlu327/photonforge-raytracing/tracer"
	"github.com/ericlu327/photonforge-raytracing/tracer/compute"
)

type defaultRenderer struct {
	logger log.Logger

	options   Options
	sceneData *scene.Scene

	scheduler tracer.BlockScheduler
	pipeline  *compute.Pipeline

	tracers          []tracer.Tracer
	blockAssignments []uint32

	// The accumulator texture pair. Roles alternate every frame: the
	// texture holding the running average so far is read while the other
	// one receives the updated average.
	accumA *device.Texture
	accumB *device.Texture

	// The tonemapped displayable output.
	frame *image.RGBA

	// Frames accumulated since the last camera change or resize.
	frameIndex uint32

	doneChan chan uint32
	errChan  chan error

	stats FrameStats
}

// Create a new default renderer using the specified block scheduler and
// tracing pipeline. The renderer enumerates the local compute devices,
// applies the device selection options and attaches one tracer per
// remaining device.
func NewDefault(sc *scene.Scene, scheduler tracer.BlockScheduler, pipeline *compute.Pipeline, opts Options) (Renderer, error) {
	if sc == nil {
		return nil, ErrSceneNotDefined
	}
	if sc.Camera == nil {
		return nil, ErrCameraNotDefined
	}
	if opts.FrameW == 0 || opts.FrameH == 0 {
		return nil, ErrInvalidFrameDims
	}
	if pipeline == nil {
		pipeline = compute.DefaultPipeline()
	}

	r := &defaultRenderer{
		logger:    log.New("renderer"),
		options:   opts,
		sceneData: sc,
		scheduler: scheduler,
		pipeline:  pipeline,
		doneChan:  make(chan uint32),
		errChan:   make(chan error),
	}

	for _, dev := range selectDevices(opts) {
		tr, err := compute.NewTracer(dev.Name, dev, pipeline)
		if err != nil {
			r.logger.Warningf("skipping device %q: %v", dev.Name, err)
			continue
		}
		if err = tr.Init(); err != nil {
			r.logger.Warningf("skipping device %q due to init error: %v", dev.Name, err)
			continue
		}
		r.logger.Infof("attached tracer for device %q", dev.Name)
		r.tracers = append(r.tracers, tr)
	}
	if len(r.tracers) == 0 {
		return nil, ErrNoTracers
	}

	r.allocFrameResources(opts.FrameW, opts.FrameH)
	for _, tr := range r.tracers {
		tr.Update(tracer.UpdateScene, sc)
	}

	return r, nil
}

// Apply the blacklist and primary device options to the local device list.
func selectDevices(opts Options) []*device.Device {
	var list []*device.Device
	for _, dev := range compute.Devices() {
		blacklisted := false
		for _, text := range opts.BlackListedDevices {
			if strings.Contains(dev.Name, text) {
				blacklisted = true
				break
			}
		}
		if !blacklisted {
			list = append(list, dev)
		}
	}

	// Move the forced primary device to the front of the list.
	if opts.ForcePrimaryDevice != "" {
		for idx, dev := range list {
			if strings.Contains(dev.Name, opts.ForcePrimaryDevice) {
				list[0], list[idx] = list[idx], list[0]
				break
			}
		}
	}

	return list
}

// Render the number of frames selected by the options and leave the
// accumulated result in the frame buffer.
func (r *defaultRenderer) Render() error {
	samples := r.options.Samples
	if samples == 0 {
		samples = 1
	}

	for i := uint32(0); i < samples; i++ {
		if err := r.renderFrame(); err != nil {
			return err
		}
	}
	return nil
}

// Shutdown renderer and any attached tracer.
func (r *defaultRenderer) Close() {
	for _, tr := range r.tracers {
		tr.Close()
	}
	r.tracers = nil
}

// Get render statistics.
func (r *defaultRenderer) Stats() FrameStats {
	return r.stats
}

// Get the displayable output of the last rendered frame.
func (r *defaultRenderer) Frame() *image.RGBA {
	return r.frame
}

// Restart progressive accumulation. The next frame ignores all
// previously accumulated radiance.
func (r *defaultRenderer) ResetAccumulation() {
	r.frameIndex = 0
}

// Push a camera update to all attached tracers and restart accumulation.
func (r *defaultRenderer) UpdateCamera(camera *scene.Camera) {
	for _, tr := range r.tracers {
		tr.Update(tracer.UpdateCamera, camera)
	}
	r.frameIndex = 0
}

// Reallocate the frame resources for new dimensions and restart
// accumulation.
func (r *defaultRenderer) Resize(frameW, frameH uint32) {
	r.options.FrameW = frameW
	r.options.FrameH = frameH
	r.allocFrameResources(frameW, frameH)
	r.frameIndex = 0
}

func (r *defaultRenderer) allocFrameResources(frameW, frameH uint32) {
	r.accumA = device.NewTexture(frameW, frameH, device.RGBA16Float)
	r.accumB = device.NewTexture(frameW, frameH, device.RGBA16Float)
	r.frame = image.NewRGBA(image.Rect(0, 0, int(frameW), int(frameH)))
}

// Render a single frame: bind the accumulator pair in this frame's
// roles, split the frame rows across the tracers and wait for every
// block to complete.
func (r *defaultRenderer) renderFrame() error {
	src, dst := r.accumA, r.accumB
	if r.frameIndex%2 == 1 {
		src, dst = dst, src
	}
	bindings := tracer.Bindings{
		FrameW:   r.options.FrameW,
		FrameH:   r.options.FrameH,
		AccumSrc: src,
		AccumDst: dst,
		Frame:    r.frame,
	}
	for _, tr := range r.tracers {
		tr.Update(tracer.UpdateBindings, bindings)
	}

	r.blockAssignments = r.scheduler.Schedule(r.tracers, r.options.FrameH)

	start := time.Now()
	var blockY uint32
	var pending int
	for idx, tr := range r.tracers {
		blockH := r.blockAssignments[idx]
		if blockH == 0 {
			continue
		}
		tr.Enqueue(tracer.BlockRequest{
			BlockY:     blockY,
			BlockH:     blockH,
			FrameIndex: r.frameIndex,
			MaxBounce:  r.options.MaxBounce,
			DoneChan:   r.doneChan,
			ErrChan:    r.errChan,
		})
		blockY += blockH
		pending++
	}
	if blockY != r.options.FrameH {
		return ErrSchedulerRowCount
	}

	var doneRows uint32
	for pending > 0 {
		select {
		case rows := <-r.doneChan:
			doneRows += rows
			pending--
		case err := <-r.errChan:
			return err
		}
	}
	if doneRows != r.options.FrameH {
		return ErrInterrupted
	}

	r.frameIndex++
	r.collectStats(time.Since(start))
	return nil
}

func (r *defaultRenderer) collectStats(frameTime time.Duration) {
	r.stats = FrameStats{
		Tracers:           make([]TracerStat, len(r.tracers)),
		RenderTime:        frameTime,
		AccumulatedFrames: r.frameIndex,
	}
	for idx, tr := range r.tracers {
		stats := tr.Stats()
		r.stats.Tracers[idx] = TracerStat{
			Id:           tr.Id(),
			IsPrimary:    idx == 0,
			BlockH:       stats.BlockH,
			FramePercent: float32(stats.BlockH) / float32(r.options.FrameH) * 100.0,
			RenderTime:   stats.RenderTime,
		}
	}
}
