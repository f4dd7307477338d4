package device

import (
	"fmt"
	"sync"
	"time"
)

// A kernel bound to a device. The invocation function is fixed at
// creation time; per-dispatch arguments are captured by its closure.
type Kernel struct {
	device *Device
	name   string
	fn     Func2D
}

// Get the kernel name.
func (k *Kernel) Name() string {
	return k.name
}

// Execute the kernel over a 2D invocation range. The dispatch grid is
// ceil(globalW/TileSize) x ceil(globalH/TileSize) workgroups; the extra
// invocations of partially covered tiles still run, so kernels must
// bounds-check. Blocks until every invocation has completed.
func (k *Kernel) Exec2D(globalW, globalH uint32) (time.Duration, error) {
	if k.device.jobChan == nil {
		return 0, fmt.Errorf("device (%s): cannot execute kernel %s: %v", k.device.Name, k.name, ErrNotInitialized)
	}
	if globalW == 0 || globalH == 0 {
		return 0, nil
	}

	groupsX := (globalW + TileSize - 1) / TileSize
	groupsY := (globalH + TileSize - 1) / TileSize

	var wg sync.WaitGroup
	wg.Add(int(groupsX * groupsY))

	tick := time.Now()
	for ty := uint32(0); ty < groupsY; ty++ {
		for tx := uint32(0); tx < groupsX; tx++ {
			k.device.jobChan <- tileJob{fn: k.fn, tileX: tx, tileY: ty, wg: &wg}
		}
	}
	wg.Wait()

	return time.Since(tick), nil
}
