package kernel

import (
	"math"

	"github.com/ericlu327/photonforge-raytracing/scene"
	"github.com/ericlu327/photonforge-raytracing/types"
)

const (
	// Sentinel distance reported for rays that hit nothing.
	missDistance = 1e30

	// Minimum accepted hit distance; rejects self-intersections at the
	// origin of surface-offset rays.
	hitEpsilon = 1e-3

	// Rays nearly parallel to the ground plane are treated as misses to
	// avoid the division blow-up.
	planeGrazeEpsilon = 1e-4

	// Floor applied to light distances before they are used as divisors.
	minLightDistance = 1e-6
)

type ray struct {
	origin types.Vec3
	dir    types.Vec3
}

// The surface description of the closest intersection along a ray.
type hitRecord struct {
	distance float32
	normal   types.Vec3
	material scene.Material
}

// Intersect a ray with one primitive; returns the hit distance or the
// miss sentinel.
func intersectPrimitive(r ray, prim *scene.Primitive) float32 {
	switch prim.Type {
	case scene.SpherePrimitive:
		return intersectSphere(r, prim)
	case scene.PlanePrimitive:
		return intersectPlane(r, prim)
	}
	return missDistance
}

func intersectSphere(r ray, prim *scene.Primitive) float32 {
	oc := r.origin.Sub(prim.Center)
	b := oc.Dot(r.dir)
	c := oc.Dot(oc) - prim.Radius*prim.Radius
	disc := b*b - c
	if disc < 0 {
		return missDistance
	}

	sqrtDisc := float32(math.Sqrt(float64(disc)))
	t := -b - sqrtDisc
	if t < hitEpsilon {
		t = -b + sqrtDisc
	}
	if t < hitEpsilon {
		return missDistance
	}
	return t
}

func intersectPlane(r ray, prim *scene.Primitive) float32 {
	if r.dir[1] > -planeGrazeEpsilon && r.dir[1] < planeGrazeEpsilon {
		return missDistance
	}
	t := (prim.Height - r.origin[1]) / r.dir[1]
	if t < hitEpsilon {
		return missDistance
	}
	return t
}

// Find the closest hit along a ray by brute force over the primitive
// list. Strict comparison keeps the first primitive in list order when
// distances are exactly equal, which makes renders deterministic.
func closestHit(r ray, prims []scene.Primitive) (hitRecord, bool) {
	best := hitRecord{distance: missDistance}
	bestIndex := -1

	for i := range prims {
		if t := intersectPrimitive(r, &prims[i]); t < best.distance {
			best.distance = t
			bestIndex = i
		}
	}
	if bestIndex < 0 {
		return best, false
	}

	prim := &prims[bestIndex]
	best.material = prim.Material
	switch prim.Type {
	case scene.SpherePrimitive:
		p := r.origin.Add(r.dir.Mul(best.distance))
		best.normal = p.Sub(prim.Center).Mul(1.0 / prim.Radius)
	case scene.PlanePrimitive:
		best.normal = types.Vec3{0, 1, 0}
	}
	return best, true
}

// Report whether anything blocks the ray before maxDist. Only spheres
// are tested: in this scene the light always sits above the ground
// plane, so the plane can never occlude a shadow ray. This is a property
// of the fixed scene, not a general shadowing rule.
func occluded(r ray, prims []scene.Primitive, maxDist float32) bool {
	for i := range prims {
		if prims[i].Type != scene.SpherePrimitive {
			continue
		}
		if t := intersectSphere(r, &prims[i]); t < maxDist {
			return true
		}
	}
	return false
}
