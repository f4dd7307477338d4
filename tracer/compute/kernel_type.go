package compute

import "fmt"

type kernelType uint8

// The list of kernels that implement the tracer.
const (
	clearAccumulator kernelType = iota
	tracePaths
	tonemapACES
	//
	numKernels
)

// Implements Stringer; map kernel type to a human readable name used for
// logging and error reporting.
func (kt kernelType) String() string {
	switch kt {
	case clearAccumulator:
		return "clearAccumulator"
	case tracePaths:
		return "tracePaths"
	case tonemapACES:
		return "tonemapACES"
	default:
		panic(fmt.Sprintf("Unsupported kernel type: %d", kt))
	}
}
