package scene

import (
	"fmt"

	"github.com/df07/go-recursive-raytracer/pkg/core"
	"github.com/df07/go-recursive-raytracer/pkg/geometry"
	"github.com/df07/go-recursive-raytracer/pkg/renderer"
)

// Scene contains all the elements needed for rendering
type Scene struct {
	Camera         *renderer.Camera
	CameraConfig   renderer.CameraConfig
	World          *geometry.HittableList // Objects in the scene
	SamplingConfig renderer.SamplingConfig
	TopColor       core.Vec3 // Sky color straight up
	BottomColor    core.Vec3 // Sky color straight down

	bvh *geometry.BVH // Built by Preprocess; nil renders straight from World
}

// Default sky gradient
var (
	DefaultTopColor    = core.NewVec3(0.5, 0.7, 1.0)
	DefaultBottomColor = core.NewVec3(1.0, 1.0, 1.0)
)

// NewScene builds the camera for cameraConfig and wraps an empty world
func NewScene(cameraConfig renderer.CameraConfig, samplingConfig renderer.SamplingConfig, capacity int) (*Scene, error) {
	camera, err := renderer.NewCamera(cameraConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create camera: %w", err)
	}

	return &Scene{
		Camera:         camera,
		CameraConfig:   cameraConfig,
		World:          geometry.NewHittableList(capacity),
		SamplingConfig: samplingConfig,
		TopColor:       DefaultTopColor,
		BottomColor:    DefaultBottomColor,
	}, nil
}

// AddSphere adds a sphere to the world
func (s *Scene) AddSphere(center core.Vec3, radius float64, mat core.Material) {
	s.World.Add(geometry.NewSphere(center, radius, mat))
}

// GetCamera returns the scene camera
func (s *Scene) GetCamera() *renderer.Camera {
	return s.Camera
}

// GetBackgroundColors returns the sky gradient
func (s *Scene) GetBackgroundColors() (topColor, bottomColor core.Vec3) {
	return s.TopColor, s.BottomColor
}

// GetWorld returns the BVH when one has been built, otherwise the object list
func (s *Scene) GetWorld() core.Hittable {
	if s.bvh != nil {
		return s.bvh
	}
	return s.World
}

// Preprocess builds a BVH over the world so large scenes render faster. Worlds
// holding objects without a bounding box keep using the list.
func (s *Scene) Preprocess() {
	objects := make([]geometry.Bounded, 0, s.World.Len())
	for _, object := range s.World.Objects() {
		bounded, ok := object.(geometry.Bounded)
		if !ok {
			s.bvh = nil
			return
		}
		objects = append(objects, bounded)
	}
	s.bvh = geometry.NewBVH(objects)
}

// Resize changes the output size and rebuilds the camera so the viewport
// keeps the image's aspect ratio
func (s *Scene) Resize(width, height int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("%w: image size %dx%d", renderer.ErrInvalidConfig, width, height)
	}

	cameraConfig := s.CameraConfig
	cameraConfig.AspectRatio = float64(width) / float64(height)
	camera, err := renderer.NewCamera(cameraConfig)
	if err != nil {
		return fmt.Errorf("failed to create camera: %w", err)
	}

	s.Camera = camera
	s.CameraConfig = cameraConfig
	s.SamplingConfig.Width = width
	s.SamplingConfig.Height = height
	return nil
}
