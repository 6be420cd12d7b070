package renderer

import (
	"errors"
	"fmt"
	"image"
	"math"

	"github.com/df07/go-recursive-raytracer/pkg/core"
)

// shadowAcneEpsilon is the minimum hit distance; it keeps scattered rays from
// re-hitting the surface they leave due to floating point error.
const shadowAcneEpsilon = 0.001

// ErrInvalidConfig is returned for sampling or render configurations that cannot render
var ErrInvalidConfig = errors.New("invalid render configuration")

// SamplingConfig contains rendering configuration
type SamplingConfig struct {
	Width           int     // Image width
	Height          int     // Image height
	SamplesPerPixel int     // Number of rays per pixel
	MaxDepth        int     // Maximum ray bounce depth
	Gamma           float64 // Output gamma; 0 or 1 keeps linear output
}

// DefaultSamplingConfig returns sensible default values
func DefaultSamplingConfig() SamplingConfig {
	return SamplingConfig{
		Width:           400,
		Height:          225,
		SamplesPerPixel: 20,
		MaxDepth:        20,
		Gamma:           0,
	}
}

// Validate checks that the configuration describes a renderable image
func (c SamplingConfig) Validate() error {
	switch {
	case c.Width <= 0 || c.Height <= 0:
		return fmt.Errorf("%w: image size %dx%d", ErrInvalidConfig, c.Width, c.Height)
	case c.SamplesPerPixel <= 0:
		return fmt.Errorf("%w: samples per pixel %d", ErrInvalidConfig, c.SamplesPerPixel)
	case c.MaxDepth < 0:
		return fmt.Errorf("%w: max depth %d", ErrInvalidConfig, c.MaxDepth)
	case c.Gamma < 0:
		return fmt.Errorf("%w: gamma %v", ErrInvalidConfig, c.Gamma)
	}
	return nil
}

// Scene interface to avoid circular imports
type Scene interface {
	GetCamera() *Camera
	GetBackgroundColors() (topColor, bottomColor core.Vec3)
	GetWorld() core.Hittable
}

// Raytracer computes colors for rays and pixels. It holds no mutable state and
// can be shared between workers; randomness comes from the sampler passed in.
type Raytracer struct {
	scene  Scene
	config SamplingConfig
}

// NewRaytracer creates a new raytracer
func NewRaytracer(scene Scene, config SamplingConfig) *Raytracer {
	return &Raytracer{
		scene:  scene,
		config: config,
	}
}

// GetSamplingConfig returns the sampling configuration
func (rt *Raytracer) GetSamplingConfig() SamplingConfig {
	return rt.config
}

// backgroundGradient returns a gradient color based on ray direction
func (rt *Raytracer) backgroundGradient(r core.Ray) core.Vec3 {
	topColor, bottomColor := rt.scene.GetBackgroundColors()

	unitDirection := r.Direction.Normalize()

	// Use the y-component to create a gradient (map from -1,1 to 0,1)
	t := 0.5 * (unitDirection.Y + 1.0)

	return bottomColor.Lerp(topColor, t)
}

// RayColor returns the light carried back along r. depth counts the bounces
// already taken; once it reaches MaxDepth any further hit contributes black.
func (rt *Raytracer) RayColor(r core.Ray, depth int, sampler core.Sampler) core.Vec3 {
	hit, isHit := rt.scene.GetWorld().Hit(r, shadowAcneEpsilon, math.Inf(1))
	if !isHit {
		return rt.backgroundGradient(r)
	}

	if depth >= rt.config.MaxDepth || hit.Material == nil {
		return core.Vec3{X: 0, Y: 0, Z: 0}
	}

	scatter, didScatter := hit.Material.Scatter(r, *hit, sampler)
	if !didScatter {
		return core.Vec3{X: 0, Y: 0, Z: 0} // Material absorbed the ray
	}

	return scatter.Attenuation.MultiplyVec(rt.RayColor(scatter.Scattered, depth+1, sampler))
}

// SamplePixel averages SamplesPerPixel jittered samples for the pixel in column x
// and row y, where row 0 is the top of the image.
func (rt *Raytracer) SamplePixel(x, y int, sampler core.Sampler) core.Vec3 {
	var ps PixelStats
	for sample := 0; sample < rt.config.SamplesPerPixel; sample++ {
		ray := rt.PixelRay(x, y, sampler.Get2D())
		ps.AddSample(rt.RayColor(ray, 0, sampler))
	}

	return ps.GetColor()
}

// PixelRay returns the camera ray through pixel (x, y) displaced by offset,
// each component in [0, 1). Row 0 is the top of the image.
func (rt *Raytracer) PixelRay(x, y int, offset core.Vec2) core.Ray {
	// Viewport t runs bottom to top
	j := rt.config.Height - 1 - y

	u := (float64(x) + offset.X) / viewportDenominator(rt.config.Width)
	v := (float64(j) + offset.Y) / viewportDenominator(rt.config.Height)

	return rt.scene.GetCamera().GetRay(u, v)
}

// viewportDenominator maps pixel indices onto [0, 1] across dimension-1 steps
func viewportDenominator(dimension int) float64 {
	return float64(max(dimension-1, 1))
}

// RenderBounds renders every pixel inside bounds into fb. Pixels are visited row
// by row so results depend only on the sampler, not on which worker runs them.
func (rt *Raytracer) RenderBounds(bounds image.Rectangle, fb *Framebuffer, sampler core.Sampler) RenderStats {
	stats := RenderStats{}

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			colorVec := rt.SamplePixel(x, y, sampler)
			fb.Set(x, y, ToPixelColor(colorVec, rt.config.Gamma))

			stats.TotalPixels++
			stats.TotalSamples += rt.config.SamplesPerPixel
		}
	}

	return stats
}
