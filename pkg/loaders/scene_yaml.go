package loaders

import (
	"errors"
	"fmt"
	"math"
	"os"
	"strings"

	"golang.org/x/image/colornames"
	"gopkg.in/yaml.v2"

	"github.com/df07/go-recursive-raytracer/pkg/core"
	"github.com/df07/go-recursive-raytracer/pkg/geometry"
	"github.com/df07/go-recursive-raytracer/pkg/material"
	"github.com/df07/go-recursive-raytracer/pkg/renderer"
)

// ErrInvalidScene is returned for scene files that parse but describe nothing renderable
var ErrInvalidScene = errors.New("invalid scene file")

// SceneFile is the YAML description of a scene
type SceneFile struct {
	Name       string           `yaml:"name"`
	Camera     CameraSection    `yaml:"camera"`
	Image      ImageSection     `yaml:"image"`
	Background BackgroundColors `yaml:"background"`
	Spheres    []SphereSection  `yaml:"spheres"`
}

// CameraSection describes the camera placement
type CameraSection struct {
	Eye         Vector  `yaml:"eye"`
	LookAt      Vector  `yaml:"look_at"`
	Up          Vector  `yaml:"up"`
	VFov        float64 `yaml:"vfov"`         // Vertical field of view in degrees
	AspectRatio float64 `yaml:"aspect_ratio"` // 0 derives the ratio from the image size
}

// ImageSection holds output size and sampling settings
type ImageSection struct {
	Width    int     `yaml:"width"`
	Height   int     `yaml:"height"`
	Samples  int     `yaml:"samples"`
	MaxDepth int     `yaml:"max_depth"`
	Gamma    float64 `yaml:"gamma"`
}

// BackgroundColors is the sky gradient
type BackgroundColors struct {
	Top    Color `yaml:"top"`
	Bottom Color `yaml:"bottom"`
}

// SphereSection is one sphere and its material
type SphereSection struct {
	Center   Vector          `yaml:"center"`
	Radius   float64         `yaml:"radius"`
	Material MaterialSection `yaml:"material"`
}

// MaterialSection selects a material by type; unused fields are ignored
type MaterialSection struct {
	Type            string  `yaml:"type"` // lambertian, metal or dielectric
	Albedo          Color   `yaml:"albedo"`
	Fuzz            float64 `yaml:"fuzz"`
	RefractiveIndex float64 `yaml:"refractive_index"`
	Tint            *Color  `yaml:"tint"` // Dielectric only; defaults to white
}

// Vector is a point or direction written as [x, y, z]
type Vector struct {
	core.Vec3
}

// UnmarshalYAML decodes a three element sequence
func (v *Vector) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var components []float64
	if err := unmarshal(&components); err != nil {
		return fmt.Errorf("vector must be a list of three numbers: %w", err)
	}
	if len(components) != 3 {
		return fmt.Errorf("vector must have 3 components, got %d", len(components))
	}
	v.Vec3 = core.NewVec3(components[0], components[1], components[2])
	return nil
}

// Color is an RGB color in [0,1] written either as [r, g, b] or as an SVG
// color name such as "skyblue". Names map to their sRGB bytes divided by 255,
// used as is, so they render like the named color with the default gamma of 1.
type Color struct {
	core.Vec3
}

// UnmarshalYAML decodes a color sequence or color name
func (c *Color) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var name string
	if err := unmarshal(&name); err == nil {
		rgba, ok := colornames.Map[strings.ToLower(strings.TrimSpace(name))]
		if !ok {
			return fmt.Errorf("unknown color name %q", name)
		}
		c.Vec3 = core.NewVec3(float64(rgba.R)/255, float64(rgba.G)/255, float64(rgba.B)/255)
		return nil
	}

	var v Vector
	if err := v.UnmarshalYAML(unmarshal); err != nil {
		return fmt.Errorf("color must be a name or [r, g, b]: %w", err)
	}
	c.Vec3 = v.Vec3
	return nil
}

// DefaultSceneFile returns the values used for anything a file leaves out
func DefaultSceneFile() *SceneFile {
	return &SceneFile{
		Camera: CameraSection{
			Eye:    Vector{core.NewVec3(0, 0, 0)},
			LookAt: Vector{core.NewVec3(0, 0, -1)},
			Up:     Vector{core.NewVec3(0, 1, 0)},
			VFov:   90,
		},
		Image: ImageSection{
			Width:    400,
			Height:   225,
			Samples:  20,
			MaxDepth: 20,
		},
		Background: BackgroundColors{
			Top:    Color{core.NewVec3(0.5, 0.7, 1.0)},
			Bottom: Color{core.NewVec3(1.0, 1.0, 1.0)},
		},
	}
}

// LoadSceneFile reads and validates a YAML scene file
func LoadSceneFile(filename string) (*SceneFile, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read scene file: %w", err)
	}

	sceneFile, err := ParseSceneFile(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	return sceneFile, nil
}

// ParseSceneFile decodes YAML over the defaults and validates the result
func ParseSceneFile(data []byte) (*SceneFile, error) {
	sceneFile := DefaultSceneFile()
	if err := yaml.UnmarshalStrict(data, sceneFile); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidScene, err)
	}

	if err := sceneFile.Validate(); err != nil {
		return nil, err
	}
	return sceneFile, nil
}

// Validate checks everything that can be checked without building the scene
func (f *SceneFile) Validate() error {
	if len(f.Spheres) == 0 {
		return fmt.Errorf("%w: no spheres", ErrInvalidScene)
	}
	for i, sphere := range f.Spheres {
		if sphere.Radius == 0 || math.IsNaN(sphere.Radius) {
			return fmt.Errorf("%w: sphere %d has radius %v", ErrInvalidScene, i, sphere.Radius)
		}
		if _, err := sphere.Material.Build(); err != nil {
			return fmt.Errorf("%w: sphere %d: %v", ErrInvalidScene, i, err)
		}
	}
	if err := f.SamplingConfig().Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidScene, err)
	}
	return nil
}

// CameraConfig converts the camera section, deriving the aspect ratio from the
// image size when the file does not set one
func (f *SceneFile) CameraConfig() renderer.CameraConfig {
	aspectRatio := f.Camera.AspectRatio
	if aspectRatio == 0 && f.Image.Height > 0 {
		aspectRatio = float64(f.Image.Width) / float64(f.Image.Height)
	}

	return renderer.CameraConfig{
		Eye:         f.Camera.Eye.Vec3,
		LookAt:      f.Camera.LookAt.Vec3,
		Up:          f.Camera.Up.Vec3,
		VFov:        f.Camera.VFov,
		AspectRatio: aspectRatio,
	}
}

// SamplingConfig converts the image section
func (f *SceneFile) SamplingConfig() renderer.SamplingConfig {
	return renderer.SamplingConfig{
		Width:           f.Image.Width,
		Height:          f.Image.Height,
		SamplesPerPixel: f.Image.Samples,
		MaxDepth:        f.Image.MaxDepth,
		Gamma:           f.Image.Gamma,
	}
}

// BuildSpheres creates the sphere primitives in file order
func (f *SceneFile) BuildSpheres() ([]*geometry.Sphere, error) {
	spheres := make([]*geometry.Sphere, 0, len(f.Spheres))
	for i, section := range f.Spheres {
		mat, err := section.Material.Build()
		if err != nil {
			return nil, fmt.Errorf("%w: sphere %d: %v", ErrInvalidScene, i, err)
		}
		spheres = append(spheres, geometry.NewSphere(section.Center.Vec3, section.Radius, mat))
	}
	return spheres, nil
}

// Build creates the material the section describes
func (m MaterialSection) Build() (core.Material, error) {
	switch strings.ToLower(m.Type) {
	case "lambertian", "diffuse":
		return material.NewLambertian(m.Albedo.Vec3), nil
	case "metal":
		return material.NewMetal(m.Albedo.Vec3, m.Fuzz), nil
	case "dielectric", "glass":
		if m.RefractiveIndex <= 0 {
			return nil, fmt.Errorf("dielectric needs a positive refractive_index, got %v", m.RefractiveIndex)
		}
		tint := core.NewVec3(1, 1, 1)
		if m.Tint != nil {
			tint = m.Tint.Vec3
		}
		return material.NewDielectric(m.RefractiveIndex, tint, m.Fuzz), nil
	case "":
		return nil, errors.New("material type is required")
	default:
		return nil, fmt.Errorf("unknown material type %q", m.Type)
	}
}
