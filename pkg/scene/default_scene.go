package scene

import (
	"github.com/df07/go-recursive-raytracer/pkg/core"
	"github.com/df07/go-recursive-raytracer/pkg/material"
	"github.com/df07/go-recursive-raytracer/pkg/renderer"
)

const (
	defaultAspectRatio = 2.35
	defaultImageHeight = 400
)

// NewDefaultScene creates the showcase scene: large metal, diffuse and glass spheres
// behind a cluster of small ones, all standing on a huge polished ground sphere
func NewDefaultScene() (*Scene, error) {
	cameraConfig := renderer.CameraConfig{
		Eye:         core.NewVec3(2, 1, 1),
		LookAt:      core.NewVec3(0, 1, 0),
		Up:          core.NewVec3(0, 1, 0),
		VFov:        90,
		AspectRatio: defaultAspectRatio,
	}

	samplingConfig := renderer.SamplingConfig{
		Width:           int(defaultImageHeight * defaultAspectRatio),
		Height:          defaultImageHeight,
		SamplesPerPixel: 20,
		MaxDepth:        20,
	}

	s, err := NewScene(cameraConfig, samplingConfig, 8)
	if err != nil {
		return nil, err
	}

	// Backdrop
	s.AddSphere(core.NewVec3(4.2, 1.83, -3), 2.8, material.NewMetal(core.NewVec3(0.1, 0.2, 0.1), 0.01))
	s.AddSphere(core.NewVec3(-4, 1.53, -3), 1.8, material.NewLambertian(core.NewVec3(0.99, 0.99, 0.99)))
	s.AddSphere(core.NewVec3(0, 1, -3), 1.2, material.NewDielectric(1.45, core.NewVec3(1, 1, 1), 0.01))

	// Foreground cluster
	s.AddSphere(core.NewVec3(-2, 0.05, -1.2), 0.4, material.NewDielectric(1.4, core.NewVec3(0.1, 0.7, 0.99), 0.3))
	s.AddSphere(core.NewVec3(0, 0, -1), 0.245, material.NewMetal(core.NewVec3(0.9, 0.3, 0.5), 0.23))
	s.AddSphere(core.NewVec3(0.4, 0, -1.4), 0.34, material.NewMetal(core.NewVec3(0.1, 0.3, 0.5), 0.9))

	// Ground
	s.AddSphere(core.NewVec3(0, -100.5, -1), 100, material.NewMetal(core.NewVec3(0.95, 1.0, 0.93), 0.04))

	s.AddSphere(core.NewVec3(-0.8, 0.2, -1), 0.4, material.NewLambertian(core.NewVec3(0.5, 0.93, 0.3)))

	return s, nil
}

// NewSingleSphereScene creates a gray diffuse sphere on a diffuse ground, useful for quick checks
func NewSingleSphereScene() (*Scene, error) {
	cameraConfig := renderer.CameraConfig{
		Eye:         core.NewVec3(0, 0, 0),
		LookAt:      core.NewVec3(0, 0, -1),
		Up:          core.NewVec3(0, 1, 0),
		VFov:        90,
		AspectRatio: 2.0,
	}

	samplingConfig := renderer.SamplingConfig{
		Width:           400,
		Height:          200,
		SamplesPerPixel: 20,
		MaxDepth:        20,
	}

	s, err := NewScene(cameraConfig, samplingConfig, 2)
	if err != nil {
		return nil, err
	}

	gray := material.NewLambertian(core.NewVec3(0.5, 0.5, 0.5))
	s.AddSphere(core.NewVec3(0, 0, -1), 0.5, gray)
	s.AddSphere(core.NewVec3(0, -100.5, -1), 100, gray)

	return s, nil
}
