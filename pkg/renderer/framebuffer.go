package renderer

import (
	"image"
	"image/color"
	"math"

	"github.com/df07/go-recursive-raytracer/pkg/core"
)

// PixelColor is a display-ready color with three 8-bit channels
type PixelColor struct {
	R, G, B uint8
}

// Framebuffer holds rendered pixels row-major with the origin at the top left
type Framebuffer struct {
	Width  int
	Height int
	Pixels []PixelColor
}

// NewFramebuffer allocates a black framebuffer
func NewFramebuffer(width, height int) *Framebuffer {
	return &Framebuffer{
		Width:  width,
		Height: height,
		Pixels: make([]PixelColor, width*height),
	}
}

// At returns the pixel in column x, row y
func (fb *Framebuffer) At(x, y int) PixelColor {
	return fb.Pixels[y*fb.Width+x]
}

// Set stores the pixel in column x, row y
func (fb *Framebuffer) Set(x, y int, c PixelColor) {
	fb.Pixels[y*fb.Width+x] = c
}

// ToRGBA converts the framebuffer to an opaque image for encoders
func (fb *Framebuffer) ToRGBA() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, fb.Width, fb.Height))
	for y := 0; y < fb.Height; y++ {
		for x := 0; x < fb.Width; x++ {
			p := fb.At(x, y)
			img.SetRGBA(x, y, color.RGBA{R: p.R, G: p.G, B: p.B, A: 255})
		}
	}
	return img
}

// ToPixelColor maps a linear color to display range: clamp to [0,1], optionally
// gamma correct, scale by 255 and round. A gamma of 0 or 1 leaves values linear.
func ToPixelColor(colorVec core.Vec3, gamma float64) PixelColor {
	colorVec = colorVec.Clamp(0.0, 1.0)

	if gamma > 0 && gamma != 1 {
		colorVec = colorVec.GammaCorrect(gamma)
	}

	return PixelColor{
		R: uint8(math.Round(255 * colorVec.X)),
		G: uint8(math.Round(255 * colorVec.Y)),
		B: uint8(math.Round(255 * colorVec.Z)),
	}
}
