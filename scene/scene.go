package scene

import "github.com/ericlu327/photonforge-raytracing/types"

type MaterialType uint8

const (
	DiffuseMaterial MaterialType = iota
	MirrorMaterial
	DielectricMaterial
)

// Defines a surface material. Mirror is the mirror weight: 0 is pure
// diffuse, 1 is pure mirror. IOR is only used by dielectric materials.
type Material struct {
	Type     MaterialType
	Albedo   types.Vec3
	Emissive types.Vec3
	Mirror   float32
	IOR      float32
}

type PrimitiveType uint32

const (
	SpherePrimitive PrimitiveType = iota
	PlanePrimitive
)

// Defines a scene primitive. The primitive list is ordered; when two
// primitives report the exact same hit distance the first one in the
// list wins.
type Primitive struct {
	Type PrimitiveType

	// Sphere params.
	Center types.Vec3
	Radius float32

	// Plane height. Planes always face up.
	Height float32

	Material Material
}

// Create new sphere primitive.
func NewSphere(center types.Vec3, radius float32, material Material) Primitive {
	return Primitive{
		Type:     SpherePrimitive,
		Center:   center,
		Radius:   radius,
		Material: material,
	}
}

// Create new plane primitive.
func NewPlane(height float32, material Material) Primitive {
	return Primitive{
		Type:     PlanePrimitive,
		Height:   height,
		Material: material,
	}
}

// A single point light.
type PointLight struct {
	Position types.Vec3
	Color    types.Vec3
}

// A renderable scene: an ordered primitive list, one point light and the
// sky gradient colors.
type Scene struct {
	Primitives []Primitive
	Light      PointLight

	// Sky gradient endpoints as a function of ray elevation.
	SkyTop    types.Vec3
	SkyBottom types.Vec3

	Camera *Camera
}

// Build the default scene: a red diffuse sphere and a mirror sphere
// resting on a gray ground plane, lit by a single point light.
func Default() *Scene {
	camera := NewCamera(types.Vec3{0, 1.5, 6})
	camera.LookAt(types.Vec3{0, 1, 0})

	return &Scene{
		Primitives: []Primitive{
			NewSphere(types.Vec3{0, 1, 0}, 1.0, Material{
				Type:   DiffuseMaterial,
				Albedo: types.Vec3{0.8, 0.2, 0.2},
			}),
			NewSphere(types.Vec3{2.2, 1, -0.8}, 1.0, Material{
				Type:   MirrorMaterial,
				Albedo: types.Vec3{0.9, 0.9, 0.9},
				Mirror: 1.0,
			}),
			NewPlane(0, Material{
				Type:   DiffuseMaterial,
				Albedo: types.Vec3{0.65, 0.65, 0.65},
			}),
		},
		Light: PointLight{
			Position: types.Vec3{5, 8, 4},
			Color:    types.Vec3{10, 10, 10},
		},
		SkyTop:    types.Vec3{0.5, 0.7, 1.0},
		SkyBottom: types.Vec3{1.0, 1.0, 1.0},
		Camera:    camera,
	}
}
