package material

import (
	"github.com/df07/go-recursive-raytracer/pkg/core"
)

// fixedSampler returns the same values every time, for exercising specific branches
type fixedSampler struct {
	oneD float64
	twoD core.Vec2
}

func (f fixedSampler) Get1D() float64 { return f.oneD }
func (f fixedSampler) Get2D() core.Vec2 { return f.twoD }

// Samples that SampleOnUnitSphere maps onto axis directions
var (
	sampleDown   = core.NewVec2(0.5, 0.75) // (0, -1, 0)
	sampleMinusZ = core.NewVec2(1.0, 0.0)  // (0, 0, -1)
)

// compile-time checks that every variant satisfies the interface
var (
	_ core.Material = (*Lambertian)(nil)
	_ core.Material = (*Metal)(nil)
	_ core.Material = (*Dielectric)(nil)
)
