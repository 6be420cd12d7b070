package material

import (
	"math"

	"github.com/df07/go-recursive-raytracer/pkg/core"
)

// Dielectric represents a transparent material like glass that can both reflect and refract
type Dielectric struct {
	RefractiveIndex float64   // Index of refraction (e.g., 1.5 for glass)
	Tint            core.Vec3 // Attenuation applied to every scattered ray
	Fuzzness        float64   // Roughness applied to reflected rays
}

// NewDielectric creates a new dielectric material. Fuzzness is clamped to [0, 1].
func NewDielectric(refractiveIndex float64, tint core.Vec3, fuzzness float64) *Dielectric {
	return &Dielectric{
		RefractiveIndex: refractiveIndex,
		Tint:            tint,
		Fuzzness:        clampFuzz(fuzzness),
	}
}

// NewClearDielectric creates an untinted, perfectly smooth dielectric
func NewClearDielectric(refractiveIndex float64) *Dielectric {
	return NewDielectric(refractiveIndex, core.NewVec3(1, 1, 1), 0)
}

// Scatter implements the Material interface for dielectric scattering
func (d *Dielectric) Scatter(rayIn core.Ray, hit core.HitRecord, sampler core.Sampler) (core.ScatterResult, bool) {
	unitDirection := rayIn.Direction.Normalize()

	// Entering when travelling against the outward normal, exiting otherwise
	normal := hit.Normal
	refractionRatio := 1.0 / d.RefractiveIndex
	if unitDirection.Dot(hit.Normal) > 0 {
		normal = hit.Normal.Negate()
		refractionRatio = d.RefractiveIndex
	}

	cosTheta := math.Min(-unitDirection.Dot(normal), 1.0)
	sinTheta := math.Sqrt(math.Max(0, 1.0-cosTheta*cosTheta))

	// Check for total internal reflection
	cannotRefract := refractionRatio*sinTheta > 1.0

	var direction core.Vec3
	if cannotRefract || Reflectance(cosTheta, refractionRatio) > sampler.Get1D() {
		direction = fuzz(Reflect(unitDirection, normal), d.Fuzzness, sampler)
	} else {
		direction = Refract(unitDirection, normal, refractionRatio)
	}

	return core.ScatterResult{
		Scattered:   core.NewRay(hit.Point, direction),
		Attenuation: d.Tint,
	}, true
}
