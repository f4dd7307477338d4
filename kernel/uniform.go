// Package kernel implements the two render kernels: the path tracing
// kernel that accumulates radiance samples into a running per-pixel
// average, and the tonemap kernel that maps the accumulated HDR image to
// display colors. Both are pure per-invocation functions suitable for
// execution on a compute device.
package kernel

import "github.com/ericlu327/photonforge-raytracing/types"

// Uniform is the fixed-layout input descriptor consumed by both kernels.
// The pad fields exist to keep the layout compatible with 16-byte vector
// alignment rules and carry no meaning.
type Uniform struct {
	Origin types.Vec3
	_      float32
	Dir    types.Vec3
	_      float32
	Right  types.Vec3
	_      float32
	Up     types.Vec3
	_      float32

	Width      uint32
	Height     uint32
	FrameIndex uint32
	MaxBounce  uint32
}
