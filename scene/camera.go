package scene

import (
	"math"

	"github.com/ericlu327/photonforge-raytracing/types"
)

type CameraDirection uint8

const (
	Forward CameraDirection = iota
	Backward
	Left
	Right
	Up
	Down
)

// Pitch is clamped so the view direction never becomes collinear with
// the world up axis, which would degenerate the camera basis.
const maxPitch = 1.5

// A free-look camera described by a position and yaw/pitch angles. The
// orthonormal basis handed to the tracing kernels is derived from the
// angles on demand.
type Camera struct {
	Position types.Vec3
	Yaw      float32
	Pitch    float32
}

func NewCamera(position types.Vec3) *Camera {
	return &Camera{Position: position}
}

// Derive the camera basis (view direction, right and up vectors) from
// the current yaw/pitch angles. All three are unit length and mutually
// orthogonal.
func (c *Camera) Basis() (dir, right, up types.Vec3) {
	cosPitch := float32(math.Cos(float64(c.Pitch)))
	dir = types.Vec3{
		float32(math.Cos(float64(c.Yaw))) * cosPitch,
		float32(math.Sin(float64(c.Pitch))),
		float32(math.Sin(float64(c.Yaw))) * cosPitch,
	}.Normalize()
	right = dir.Cross(types.Vec3{0, 1, 0}).Normalize()
	up = right.Cross(dir)
	return dir, right, up
}

// Aim the camera at a world-space target point.
func (c *Camera) LookAt(target types.Vec3) {
	dir := target.Sub(c.Position).Normalize()
	c.Pitch = clampPitch(float32(math.Asin(float64(dir[1]))))
	c.Yaw = float32(math.Atan2(float64(dir[2]), float64(dir[0])))
}

// Move the camera along its view basis.
func (c *Camera) Move(moveDir CameraDirection, amount float32) {
	dir, right, up := c.Basis()

	switch moveDir {
	case Forward:
		c.Position = c.Position.Add(dir.Mul(amount))
	case Backward:
		c.Position = c.Position.Sub(dir.Mul(amount))
	case Left:
		c.Position = c.Position.Sub(right.Mul(amount))
	case Right:
		c.Position = c.Position.Add(right.Mul(amount))
	case Up:
		c.Position = c.Position.Add(up.Mul(amount))
	case Down:
		c.Position = c.Position.Sub(up.Mul(amount))
	}
}

// Apply a yaw/pitch delta, e.g. from mouse movement.
func (c *Camera) Rotate(dYaw, dPitch float32) {
	c.Yaw += dYaw
	c.Pitch = clampPitch(c.Pitch + dPitch)
}

func clampPitch(pitch float32) float32 {
	if pitch > maxPitch {
		return maxPitch
	}
	if pitch < -maxPitch {
		return -maxPitch
	}
	return pitch
}
