package compute

import (
	"fmt"
	"runtime"

	"github.com/ericlu327/photonforge-raytracing/device"
)

// Enumerate the compute devices available on this machine: one software
// device using every logical CPU plus, for machines with more than one
// CPU, a single-worker variant useful for deterministic profiling.
func Devices() []*device.Device {
	list := []*device.Device{
		device.New(fmt.Sprintf("cpu (%d threads)", runtime.NumCPU()), 0),
	}
	if runtime.NumCPU() > 1 {
		list = append(list, device.New("cpu (single thread)", 1))
	}
	return list
}
