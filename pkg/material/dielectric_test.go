package material

import (
	"math"
	"testing"

	"github.com/df07/go-recursive-raytracer/pkg/core"
)

func TestDielectricBasicBehavior(t *testing.T) {
	tint := core.NewVec3(0.1, 0.7, 0.99)
	glass := NewDielectric(1.5, tint, 0.0)

	// 45-degree angle onto a surface facing up
	rayDirection := core.NewVec3(1, -1, 0).Normalize()
	ray := core.NewRay(core.NewVec3(0, 1, 0), rayDirection)
	hit := core.HitRecord{
		Point:    core.NewVec3(0, 0, 0),
		Normal:   core.NewVec3(0, 1, 0),
		T:        1.0,
		Material: glass,
	}

	hasReflection := false
	hasRefraction := false

	for seed := int64(0); seed < 1000 && (!hasReflection || !hasRefraction); seed++ {
		result, scattered := glass.Scatter(ray, hit, core.NewSeededSampler(seed))
		if !scattered {
			t.Fatal("Dielectric should always scatter")
		}
		if result.Attenuation != tint {
			t.Fatalf("Expected attenuation %v, got %v", tint, result.Attenuation)
		}

		if result.Scattered.Direction.Y > 0 {
			hasReflection = true
		} else {
			hasRefraction = true
		}
	}

	if !hasRefraction {
		t.Error("Expected to see refraction in at least some cases")
	}
	// Reflection probability at 45° air->glass is ~5%, so 1000 seeds will find one
	if !hasReflection {
		t.Error("Expected Schlick reflectance to trigger at least once")
	}
}

func TestDielectricTotalInternalReflection(t *testing.T) {
	glass := NewClearDielectric(1.5)

	// Very shallow ray leaving the glass: direction and outward normal agree in sign
	rayDirection := core.NewVec3(1, 0.1, 0).Normalize()
	ray := core.NewRay(core.NewVec3(0, 0, 0), rayDirection)
	hit := core.HitRecord{
		Point:  core.NewVec3(0, 0, 0),
		Normal: core.NewVec3(0, 1, 0),
	}

	cosTheta := rayDirection.Dot(hit.Normal)
	sinTheta := math.Sqrt(1.0 - cosTheta*cosTheta)
	if 1.5*sinTheta <= 1.0 {
		t.Fatalf("Test setup error: this angle should cause total internal reflection")
	}

	// A sample near 1 never triggers Schlick, so only TIR can reflect
	result, scattered := glass.Scatter(ray, hit, fixedSampler{oneD: 0.999999})
	if !scattered {
		t.Fatal("Dielectric should always scatter")
	}

	// Reflected back inside: y flips from positive to negative
	expected := core.NewVec3(1, -0.1, 0).Normalize()
	if result.Scattered.Direction.Subtract(expected).Length() > 1e-9 {
		t.Errorf("Expected total internal reflection %v, got %v", expected, result.Scattered.Direction)
	}
}

func TestDielectricNormalIncidencePassesStraightThrough(t *testing.T) {
	glass := NewClearDielectric(1.5)
	hit := core.HitRecord{Normal: core.NewVec3(0, 1, 0)}

	tests := []struct {
		name      string
		direction core.Vec3
	}{
		{"entering", core.NewVec3(0, -1, 0)},
		{"exiting", core.NewVec3(0, 1, 0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ray := core.NewRay(core.NewVec3(0, 0, 0), tt.direction)
			result, _ := glass.Scatter(ray, hit, fixedSampler{oneD: 0.99})
			if result.Scattered.Direction.Subtract(tt.direction).Length() > 1e-9 {
				t.Errorf("Expected undeviated direction %v, got %v", tt.direction, result.Scattered.Direction)
			}
		})
	}
}

func TestDielectricFuzzAppliesToReflection(t *testing.T) {
	glass := NewDielectric(1.5, core.NewVec3(1, 1, 1), 0.3)
	rayDirection := core.NewVec3(1, 0.1, 0).Normalize()
	ray := core.NewRay(core.NewVec3(0, 0, 0), rayDirection)
	hit := core.HitRecord{Normal: core.NewVec3(0, 1, 0)}

	result, _ := glass.Scatter(ray, hit, fixedSampler{oneD: 0.999999, twoD: sampleDown})

	perfect := core.NewVec3(1, -0.1, 0).Normalize()
	expected := perfect.Add(core.NewVec3(0, -0.3, 0))
	if result.Scattered.Direction.Subtract(expected).Length() > 1e-9 {
		t.Errorf("Expected fuzzed reflection %v, got %v", expected, result.Scattered.Direction)
	}
}

func TestReflect(t *testing.T) {
	v := core.NewVec3(1, -1, 0).Normalize()
	n := core.NewVec3(0, 1, 0)
	expected := core.NewVec3(1, 1, 0).Normalize()

	if got := Reflect(v, n); got.Subtract(expected).Length() > 1e-12 {
		t.Errorf("Expected %v, got %v", expected, got)
	}
}

func TestRefract_SnellsLaw(t *testing.T) {
	n := core.NewVec3(0, 1, 0)
	for _, angle := range []float64{0, 10, 30, 45, 60, 80} {
		rad := angle * math.Pi / 180
		uv := core.NewVec3(math.Sin(rad), -math.Cos(rad), 0)
		ratio := 1.0 / 1.5

		refracted := Refract(uv, n, ratio)

		if math.Abs(refracted.Length()-1.0) > 1e-9 {
			t.Errorf("angle %v: expected unit refracted direction, got length %f", angle, refracted.Length())
		}
		sinOut := refracted.X
		if math.Abs(sinOut-ratio*math.Sin(rad)) > 1e-9 {
			t.Errorf("angle %v: expected sin θt = %f, got %f", angle, ratio*math.Sin(rad), sinOut)
		}
		if refracted.Y >= 0 && angle < 90 {
			t.Errorf("angle %v: refracted ray should continue through the surface, got %v", angle, refracted)
		}
	}
}

func TestRefract_RoundTrip(t *testing.T) {
	tests := []struct {
		name      string
		direction core.Vec3
		index     float64
	}{
		{"45 degrees into glass", core.NewVec3(1, -1, 0), 1.5},
		{"shallow into water", core.NewVec3(3, -1, 0.5), 1.33},
		{"steep into diamond", core.NewVec3(0.1, -1, -0.2), 2.42},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uv := tt.direction.Normalize()
			n := core.NewVec3(0, 1, 0)

			// Into the medium, then out through a parallel interface with the ratio inverted
			inside := Refract(uv, n, 1.0/tt.index)
			out := Refract(inside, n, tt.index)

			if out.Subtract(uv).Length() > 1e-9 {
				t.Errorf("Expected round trip to restore %v, got %v", uv, out)
			}
		})
	}
}

func TestReflectance(t *testing.T) {
	ratio := 1.0 / 1.5

	// Normal incidence gives r0 = ((1-η)/(1+η))² = 0.04 for glass
	if r := Reflectance(1.0, ratio); math.Abs(r-0.04) > 1e-9 {
		t.Errorf("Expected reflectance 0.04 at normal incidence, got %f", r)
	}
	// Grazing incidence reflects everything
	if r := Reflectance(0.0, ratio); math.Abs(r-1.0) > 1e-12 {
		t.Errorf("Expected reflectance 1 at grazing incidence, got %f", r)
	}
	// Monotonic in between
	prev := Reflectance(1.0, ratio)
	for c := 0.9; c >= 0; c -= 0.1 {
		r := Reflectance(c, ratio)
		if r < prev {
			t.Errorf("Expected reflectance to grow as cosine shrinks, got %f after %f", r, prev)
		}
		prev = r
	}
}
