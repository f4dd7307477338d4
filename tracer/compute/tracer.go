// Package compute implements the tracer interface on top of the
// software compute device: each backend instance owns one device and
// renders its assigned frame blocks by dispatching the render kernels.
package compute

import (
	"fmt"
	"sync"
	"time"

	"github.com/ericlu327/photonforge-raytracing/device"
	"github.com/ericlu327/photonforge-raytracing/log"
	"github.com/ericlu327/photonforge-raytracing/scene"
	"github.com/ericlu327/photonforge-raytracing/tracer"
)

type Tracer struct {
	logger log.Logger

	sync.Mutex
	wg sync.WaitGroup

	// The device associated with this tracer instance.
	dev *device.Device

	// The kernel dispatch helpers for the device.
	resources *deviceResources

	// The tracer id.
	id string

	// A buffer for queuing updates. Updates are grouped by type and
	// latest updates always overwrite the previous ones.
	updateBuffer map[tracer.UpdateType]interface{}

	// A channel for receiving block requests from the renderer.
	blockReqChan chan tracer.BlockRequest

	// A channel for signaling the worker to exit.
	closeChan chan struct{}

	// Statistics for last rendered frame.
	stats *tracer.Stats

	// The tracer rendering pipeline.
	pipeline *Pipeline

	// Relative speed estimate.
	speed uint32

	// The attached scene data.
	sceneData *scene.Scene

	// The renderer-owned frame resources for the upcoming block.
	bindings tracer.Bindings
}

// Create a new compute tracer.
func NewTracer(id string, dev *device.Device, pipeline *Pipeline) (*Tracer, error) {
	if dev == nil {
		return nil, ErrInvalidDevice
	}
	if pipeline == nil {
		pipeline = DefaultPipeline()
	}

	return &Tracer{
		logger:       log.New(fmt.Sprintf("compute tracer (%s)", dev.Name)),
		dev:          dev,
		id:           id,
		blockReqChan: make(chan tracer.BlockRequest, 1),
		updateBuffer: make(map[tracer.UpdateType]interface{}),
		stats:        &tracer.Stats{},
		pipeline:     pipeline,
		speed:        dev.Speed(),
	}, nil
}

// Get tracer id.
func (tr *Tracer) Id() string {
	return tr.id
}

// Get tracer flags.
func (tr *Tracer) Flags() tracer.Flag {
	return tracer.Local
}

// Get the tracer's relative speed estimate.
func (tr *Tracer) Speed() uint32 {
	return tr.speed
}

// Initialize tracer.
func (tr *Tracer) Init() error {
	var err error
	tr.Lock()
	defer tr.Unlock()

	if err = tr.dev.Init(); err != nil {
		tr.cleanup()
		return err
	}

	tr.resources, err = newDeviceResources(tr.dev)
	if err != nil {
		tr.cleanup()
		return err
	}

	if tr.closeChan == nil {
		tr.startWorker()
	}

	return nil
}

// Shutdown and cleanup tracer.
func (tr *Tracer) Close() {
	tr.Lock()
	defer tr.Unlock()

	tr.cleanup()
}

// Cleanup tracer. This method is meant to be called while holding tr.Lock()
func (tr *Tracer) cleanup() {
	// If the worker is running shut it down
	if tr.closeChan != nil {
		tr.closeChan <- struct{}{}

		// wait for worker to ack close and shutdown channel
		<-tr.closeChan
		close(tr.closeChan)
		tr.closeChan = nil
	}

	tr.resources = nil

	if tr.dev != nil {
		tr.dev.Close()
		tr.dev = nil
	}

	tr.sceneData = nil
}

// Enqueue block request.
func (tr *Tracer) Enqueue(blockReq tracer.BlockRequest) {
	select {
	case tr.blockReqChan <- blockReq:
	default:
		// drop the request if worker is not listening
		tr.logger.Error("request processor did not receive block request")
	}
}

// Append a change to the tracer's update buffer.
func (tr *Tracer) Update(updateType tracer.UpdateType, data interface{}) {
	tr.updateBuffer[updateType] = data
}

// Retrieve last frame statistics.
func (tr *Tracer) Stats() *tracer.Stats {
	return tr.stats
}

// Commit queued changes.
func (tr *Tracer) commitUpdates() error {
	for updateType, data := range tr.updateBuffer {
		switch updateType {
		case tracer.UpdateScene:
			tr.sceneData = data.(*scene.Scene)
		case tracer.UpdateCamera:
			if tr.sceneData == nil {
				return ErrNoSceneData
			}
			tr.sceneData.Camera = data.(*scene.Camera)
		case tracer.UpdateBindings:
			tr.bindings = data.(tracer.Bindings)
		default:
			return fmt.Errorf("compute tracer: unsupported update type %d", updateType)
		}
	}

	tr.updateBuffer = make(map[tracer.UpdateType]interface{})
	return nil
}

// Spawn a go-routine to process block render requests.
func (tr *Tracer) startWorker() {
	// Worker already running
	if tr.closeChan != nil {
		return
	}
	tr.closeChan = make(chan struct{})

	readyChan := make(chan struct{})
	tr.wg.Add(1)
	go func() {
		defer tr.wg.Done()
		close(readyChan)
		for {
			select {
			case blockReq := <-tr.blockReqChan:
				startTime := time.Now()

				// Apply any pending changes
				if len(tr.updateBuffer) != 0 {
					if err := tr.commitUpdates(); err != nil {
						blockReq.ErrChan <- err
						continue
					}
				}

				// Render block and reply with our completion status
				if err := tr.renderBlock(&blockReq); err != nil {
					blockReq.ErrChan <- err
					continue
				}

				// Update stats
				tr.stats.BlockH = blockReq.BlockH
				tr.stats.RenderTime = time.Since(startTime)

				blockReq.DoneChan <- blockReq.BlockH
			case <-tr.closeChan:
				// Ack close
				tr.closeChan <- struct{}{}
				return
			}
		}
	}()

	// Wait for go-routine to start
	<-readyChan
}

// Render block.
func (tr *Tracer) renderBlock(blockReq *tracer.BlockRequest) error {
	if tr.sceneData == nil {
		return ErrNoSceneData
	}
	if tr.bindings.AccumSrc == nil || tr.bindings.AccumDst == nil || tr.bindings.Frame == nil {
		return ErrNoBindings
	}

	// The first frame after a camera change starts a fresh accumulation.
	if blockReq.FrameIndex == 0 && tr.pipeline.Reset != nil {
		if _, err := tr.pipeline.Reset(tr, blockReq); err != nil {
			return err
		}
	}

	if _, err := tr.pipeline.Trace(tr, blockReq); err != nil {
		return err
	}

	for _, stage := range tr.pipeline.PostProcess {
		if _, err := stage(tr, blockReq); err != nil {
			return err
		}
	}

	return nil
}
