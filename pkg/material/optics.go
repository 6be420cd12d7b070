package material

import (
	"math"

	"github.com/df07/go-recursive-raytracer/pkg/core"
)

// Reflect calculates the reflection of a vector v off a surface with normal n.
// Both are expected to be unit length.
func Reflect(v, n core.Vec3) core.Vec3 {
	// r = v - 2*dot(v,n)*n
	return v.Subtract(n.Multiply(2 * v.Dot(n)))
}

// Refract bends the unit direction uv through a surface with unit normal n using
// Snell's law. n must face against uv and ratio is eta_incident / eta_transmitted.
// The caller is responsible for ruling out total internal reflection first.
func Refract(uv, n core.Vec3, ratio float64) core.Vec3 {
	cosTheta := uv.Dot(n)
	perpendicular := uv.Subtract(n.Multiply(cosTheta)).Multiply(ratio)
	parallel := n.Multiply(math.Sqrt(math.Abs(1.0 - ratio*ratio*(1.0-cosTheta*cosTheta))))
	return perpendicular.Subtract(parallel)
}

// Reflectance calculates the Fresnel reflectance using Schlick's approximation
func Reflectance(cosine, refractionRatio float64) float64 {
	r0 := (1 - refractionRatio) / (1 + refractionRatio)
	r0 = r0 * r0
	return r0 + (1-r0)*math.Pow(1-cosine, 5)
}

// fuzz perturbs a direction by a random unit vector scaled by amount
func fuzz(direction core.Vec3, amount float64, sampler core.Sampler) core.Vec3 {
	if amount <= 0 {
		return direction
	}
	return direction.Add(core.RandomUnitVector(sampler).Multiply(amount))
}

// clampFuzz keeps a fuzziness parameter inside [0, 1]
func clampFuzz(f float64) float64 {
	return max(0.0, min(1.0, f))
}
