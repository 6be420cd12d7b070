package renderer

import (
	"time"

	"github.com/df07/go-recursive-raytracer/pkg/core"
)

// RenderStats contains statistics about the rendering process
type RenderStats struct {
	TotalPixels  int           // Total number of pixels rendered
	TotalSamples int           // Total number of samples taken
	Duration     time.Duration // Wall time, set once the whole image is done
}

// Merge folds the statistics of another region into these
func (s *RenderStats) Merge(other RenderStats) {
	s.TotalPixels += other.TotalPixels
	s.TotalSamples += other.TotalSamples
}

// AverageSamples returns the mean samples per pixel
func (s RenderStats) AverageSamples() float64 {
	if s.TotalPixels == 0 {
		return 0
	}
	return float64(s.TotalSamples) / float64(s.TotalPixels)
}

// PixelStats accumulates samples for a single pixel. The sum is compensated,
// and a pixel whose samples are all identical averages to exactly that color.
type PixelStats struct {
	ColorAccum   core.Vec3 // RGB accumulator
	SampleCount  int       // Number of samples taken
	compensation core.Vec3 // Low-order bits lost from ColorAccum
	first        core.Vec3 // First sample taken
	uniform      bool      // All samples so far equal first
}

// AddSample adds a new color sample to the pixel statistics
func (ps *PixelStats) AddSample(color core.Vec3) {
	if ps.SampleCount == 0 {
		ps.first = color
		ps.uniform = true
	} else if color != ps.first {
		ps.uniform = false
	}

	// Kahan summation
	y := color.Subtract(ps.compensation)
	t := ps.ColorAccum.Add(y)
	ps.compensation = t.Subtract(ps.ColorAccum).Subtract(y)
	ps.ColorAccum = t
	ps.SampleCount++
}

// GetColor returns the current average color for this pixel
func (ps *PixelStats) GetColor() core.Vec3 {
	if ps.SampleCount == 0 {
		return core.Vec3{X: 0, Y: 0, Z: 0}
	}
	if ps.uniform {
		return ps.first
	}
	return ps.ColorAccum.Divide(float64(ps.SampleCount))
}
