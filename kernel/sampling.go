package kernel

import (
	"math"

	"github.com/ericlu327/photonforge-raytracing/types"
)

// Build an orthonormal tangent/bitangent pair for the given unit normal.
func orthonormalBasis(n types.Vec3) (tangent, bitangent types.Vec3) {
	axis := types.Vec3{1, 0, 0}
	if n[0] > 0.9 || n[0] < -0.9 {
		axis = types.Vec3{0, 1, 0}
	}
	tangent = axis.Cross(n).Normalize()
	bitangent = n.Cross(tangent)
	return tangent, bitangent
}

// Draw a cosine-weighted direction in the hemisphere around the normal.
// The sqrt(u) radius / sqrt(1-u) height mapping makes the sample density
// proportional to the cosine term, which cancels both the cosine and the
// 1/pi diffuse BRDF normalization from the estimator.
func cosineSampleHemisphere(n types.Vec3, u, v float32) types.Vec3 {
	radius := float32(math.Sqrt(float64(u)))
	phi := 2 * math.Pi * float64(v)
	x := radius * float32(math.Cos(phi))
	y := radius * float32(math.Sin(phi))
	z := float32(math.Sqrt(float64(1 - u)))

	tangent, bitangent := orthonormalBasis(n)
	return tangent.Mul(x).Add(bitangent.Mul(y)).Add(n.Mul(z))
}

// Schlick approximation of the Fresnel reflectance at the given incident
// cosine for a boundary with the given relative index of refraction.
func schlick(cosine, ior float32) float32 {
	r0 := (1 - ior) / (1 + ior)
	r0 *= r0
	f := 1 - cosine
	return r0 + (1-r0)*f*f*f*f*f
}

// Refract a unit direction about a unit normal with the given ratio of
// refraction indices. Reports false when the discriminant is negative,
// i.e. total internal reflection.
func refract(dir, n types.Vec3, eta float32) (types.Vec3, bool) {
	cosI := -dir.Dot(n)
	sin2T := eta * eta * (1 - cosI*cosI)
	if sin2T > 1 {
		return types.Vec3{}, false
	}
	cosT := float32(math.Sqrt(float64(1 - sin2T)))
	return dir.Mul(eta).Add(n.Mul(eta*cosI - cosT)), true
}

// Sample an outgoing direction for a dielectric boundary: Schlick
// reflectance decides stochastically between reflection and Snell
// refraction, and total internal reflection falls back to pure
// reflection so the result is always a defined direction.
func sampleDielectric(dir, normal types.Vec3, ior float32, u float32) types.Vec3 {
	n := normal
	eta := 1.0 / ior
	cosI := -dir.Dot(normal)
	if cosI < 0 {
		// Leaving the medium.
		n = normal.Neg()
		eta = ior
		cosI = -cosI
	}

	refracted, ok := refract(dir, n, eta)
	if !ok || u < schlick(cosI, ior) {
		return dir.Reflect(n)
	}
	return refracted
}
