// Package device implements a software compute device: kernels are plain
// Go functions executed over a tiled 2D invocation grid by a fixed pool
// of workers. Invocations only see their own invocation id plus whatever
// the kernel closure captures, so a dispatch behaves like a stateless
// data-parallel pass.
package device

import (
	"errors"
	"fmt"
	"runtime"
	"sync"
)

// Workgroup tile edge. Tiling is a scheduling detail; kernels must
// bounds-check against the real image dimensions.
const TileSize = 8

var ErrNotInitialized = errors.New("device: not initialized")

// Func2D is the per-invocation kernel function. It receives the global
// invocation id and must write only to its own output slot.
type Func2D func(gidX, gidY uint32)

type tileJob struct {
	fn           Func2D
	tileX, tileY uint32
	wg           *sync.WaitGroup
}

// A software compute device backed by a worker pool.
type Device struct {
	Name string

	workers   int
	jobChan   chan tileJob
	closeOnce sync.Once
}

// Create a new device with the given number of workers. A non-positive
// worker count selects one worker per logical CPU.
func New(name string, workers int) *Device {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return &Device{
		Name:    name,
		workers: workers,
	}
}

// Start the worker pool. Must be called before executing kernels.
func (d *Device) Init() error {
	if d.jobChan != nil {
		return nil
	}

	d.jobChan = make(chan tileJob, d.workers)
	for i := 0; i < d.workers; i++ {
		go func() {
			for job := range d.jobChan {
				execTile(job)
				job.wg.Done()
			}
		}()
	}
	return nil
}

// Shutdown the worker pool. Pending dispatches complete first.
func (d *Device) Close() {
	d.closeOnce.Do(func() {
		if d.jobChan != nil {
			close(d.jobChan)
		}
	})
}

// Get the number of pool workers.
func (d *Device) Workers() int {
	return d.workers
}

// Get the device computation speed estimate. With a homogeneous software
// pool this is simply the worker count.
func (d *Device) Speed() uint32 {
	return uint32(d.workers)
}

// Wrap a kernel function for execution on this device.
func (d *Device) Kernel(name string, fn Func2D) *Kernel {
	return &Kernel{device: d, name: name, fn: fn}
}

func (d *Device) String() string {
	return fmt.Sprintf("%s (%d workers)", d.Name, d.workers)
}

// Run every invocation of one workgroup tile.
func execTile(job tileJob) {
	baseX := job.tileX * TileSize
	baseY := job.tileY * TileSize
	for ly := uint32(0); ly < TileSize; ly++ {
		for lx := uint32(0); lx < TileSize; lx++ {
			job.fn(baseX+lx, baseY+ly)
		}
	}
}
