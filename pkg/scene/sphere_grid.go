package scene

import (
	"math"

	"github.com/df07/go-recursive-raytracer/pkg/core"
	"github.com/df07/go-recursive-raytracer/pkg/material"
	"github.com/df07/go-recursive-raytracer/pkg/renderer"
)

// sphereGridSize is the number of spheres along each side of the grid
const sphereGridSize = 20

// oklchToRGB converts OKLCH color values to linear RGB clamped to [0, 1]
// L: lightness (0-1), C: chroma (0-0.4+), H: hue (0-360 degrees)
func oklchToRGB(l, c, h float64) core.Vec3 {
	hRad := h * math.Pi / 180.0

	// OKLCH to OKLAB
	a := c * math.Cos(hRad)
	b := c * math.Sin(hRad)

	// OKLAB to LMS
	lCone := l + 0.3963377774*a + 0.2158037573*b
	mCone := l - 0.1055613458*a - 0.0638541728*b
	sCone := l - 0.0894841775*a - 1.2914855480*b

	lCone = lCone * lCone * lCone
	mCone = mCone * mCone * mCone
	sCone = sCone * sCone * sCone

	// LMS to linear RGB
	rgb := core.NewVec3(
		+4.0767416621*lCone-3.3077115913*mCone+0.2309699292*sCone,
		-1.2684380046*lCone+2.6097574011*mCone-0.3413193965*sCone,
		-0.0041960863*lCone-0.7034186147*mCone+1.7076147010*sCone,
	)
	return rgb.Clamp(0, 1)
}

// NewSphereGridScene creates a grid of metal spheres whose hue varies along X
// and chroma along Z, resting on a huge diffuse ground sphere
func NewSphereGridScene() (*Scene, error) {
	cameraConfig := renderer.CameraConfig{
		Eye:         core.NewVec3(4.5, 6, 18),
		LookAt:      core.NewVec3(4.5, 0.8, 4.5),
		Up:          core.NewVec3(0, 1, 0),
		VFov:        40,
		AspectRatio: 16.0 / 9.0,
	}

	samplingConfig := renderer.SamplingConfig{
		Width:           800,
		Height:          450,
		SamplesPerPixel: 50,
		MaxDepth:        40,
	}

	s, err := NewScene(cameraConfig, samplingConfig, sphereGridSize*sphereGridSize+1)
	if err != nil {
		return nil, err
	}

	s.AddSphere(core.NewVec3(4.5, -1000, 4.5), 1000, material.NewLambertian(core.NewVec3(0.5, 0.5, 0.5)))

	// The grid covers roughly 9x9 units centered on the look-at point
	targetArea := 9.0
	spacing := targetArea / float64(sphereGridSize-1)
	radius := math.Max(0.02, math.Min(0.35, spacing*0.35))

	const (
		baseLightness = 0.65
		minChroma     = 0.05
		maxChroma     = 0.25
	)

	for i := 0; i < sphereGridSize; i++ {
		for j := 0; j < sphereGridSize; j++ {
			x := float64(i)*spacing - targetArea/2.0 + 4.5
			z := float64(j)*spacing - targetArea/2.0 + 4.5

			hue := float64(i) / float64(sphereGridSize-1) * 360.0
			chroma := minChroma + float64(j)/float64(sphereGridSize-1)*(maxChroma-minChroma)
			lightness := baseLightness + 0.1*math.Sin(float64(i+j)*0.5)

			fuzz := 0.05 + 0.1*float64((i+j)%3)/2.0
			s.AddSphere(core.NewVec3(x, radius, z), radius, material.NewMetal(oklchToRGB(lightness, chroma, hue), fuzz))
		}
	}

	return s, nil
}
