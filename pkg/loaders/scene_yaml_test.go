package loaders

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/df07/go-recursive-raytracer/pkg/core"
	"github.com/df07/go-recursive-raytracer/pkg/material"
	"github.com/df07/go-recursive-raytracer/pkg/renderer"
	"golang.org/x/image/colornames"
	"gopkg.in/yaml.v2"
)

const exampleScene = `
name: three spheres
camera:
  eye: [2, 1, 1]
  look_at: [0, 1, 0]
  vfov: 60
image:
  width: 200
  height: 100
  samples: 8
  max_depth: 10
  gamma: 2
background:
  top: skyblue
  bottom: [1, 1, 1]
spheres:
  - center: [0, 0, -1]
    radius: 0.5
    material: {type: lambertian, albedo: [0.5, 0.5, 0.5]}
  - center: [1, 0, -1]
    radius: 0.5
    material: {type: metal, albedo: gold, fuzz: 3}
  - center: [-1, 0, -1]
    radius: 0.5
    material: {type: dielectric, refractive_index: 1.5, tint: [0.9, 1, 0.9], fuzz: 0.1}
`

func TestParseSceneFile(t *testing.T) {
	sceneFile, err := ParseSceneFile([]byte(exampleScene))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if sceneFile.Name != "three spheres" {
		t.Errorf("Expected name to be read, got %q", sceneFile.Name)
	}

	camera := sceneFile.CameraConfig()
	if camera.Eye != core.NewVec3(2, 1, 1) || camera.LookAt != core.NewVec3(0, 1, 0) {
		t.Errorf("Unexpected camera placement: %+v", camera)
	}
	if camera.Up != core.NewVec3(0, 1, 0) {
		t.Errorf("Expected default up vector, got %v", camera.Up)
	}
	if camera.AspectRatio != 2 {
		t.Errorf("Expected aspect ratio derived from image size, got %v", camera.AspectRatio)
	}

	sampling := sceneFile.SamplingConfig()
	if sampling.Width != 200 || sampling.Height != 100 || sampling.SamplesPerPixel != 8 ||
		sampling.MaxDepth != 10 || sampling.Gamma != 2 {
		t.Errorf("Unexpected sampling config: %+v", sampling)
	}

	// skyblue is (135, 206, 235)
	expectedTop := core.NewVec3(135.0/255, 206.0/255, 235.0/255)
	if sceneFile.Background.Top.Vec3 != expectedTop {
		t.Errorf("Expected named top color %v, got %v", expectedTop, sceneFile.Background.Top.Vec3)
	}

	spheres, err := sceneFile.BuildSpheres()
	if err != nil {
		t.Fatalf("Unexpected build error: %v", err)
	}
	if len(spheres) != 3 {
		t.Fatalf("Expected 3 spheres, got %d", len(spheres))
	}

	if _, ok := spheres[0].Material.(*material.Lambertian); !ok {
		t.Errorf("Expected lambertian, got %T", spheres[0].Material)
	}
	metal, ok := spheres[1].Material.(*material.Metal)
	if !ok {
		t.Fatalf("Expected metal, got %T", spheres[1].Material)
	}
	if metal.Fuzzness != 1 {
		t.Errorf("Expected fuzz clamped to 1, got %v", metal.Fuzzness)
	}
	glass, ok := spheres[2].Material.(*material.Dielectric)
	if !ok {
		t.Fatalf("Expected dielectric, got %T", spheres[2].Material)
	}
	if glass.RefractiveIndex != 1.5 || glass.Tint != core.NewVec3(0.9, 1, 0.9) {
		t.Errorf("Unexpected dielectric: %+v", glass)
	}
}

func TestParseSceneFile_Defaults(t *testing.T) {
	sceneFile, err := ParseSceneFile([]byte(`
spheres:
  - center: [0, 0, -1]
    radius: 0.5
    material: {type: glass, refractive_index: 1.3}
`))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	defaults := DefaultSceneFile()
	if sceneFile.SamplingConfig() != defaults.SamplingConfig() {
		t.Errorf("Expected default sampling, got %+v", sceneFile.SamplingConfig())
	}
	if sceneFile.Background != defaults.Background {
		t.Errorf("Expected default background, got %+v", sceneFile.Background)
	}

	spheres, err := sceneFile.BuildSpheres()
	if err != nil {
		t.Fatalf("Unexpected build error: %v", err)
	}
	glass := spheres[0].Material.(*material.Dielectric)
	if glass.Tint != core.NewVec3(1, 1, 1) {
		t.Errorf("Expected clear glass by default, got tint %v", glass.Tint)
	}
}

func TestParseSceneFile_Invalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"no spheres", `name: empty`},
		{"malformed yaml", `spheres: [`},
		{"unknown field", "spheres:\n  - center: [0,0,0]\n    radius: 1\n    colour: red\n    material: {type: metal}"},
		{"short vector", "spheres:\n  - center: [0,0]\n    radius: 1\n    material: {type: metal}"},
		{"unknown color", "spheres:\n  - center: [0,0,0]\n    radius: 1\n    material: {type: metal, albedo: notacolor}"},
		{"unknown material", "spheres:\n  - center: [0,0,0]\n    radius: 1\n    material: {type: plastic}"},
		{"missing material", "spheres:\n  - center: [0,0,0]\n    radius: 1"},
		{"zero radius", "spheres:\n  - center: [0,0,0]\n    radius: 0\n    material: {type: metal}"},
		{"glass without index", "spheres:\n  - center: [0,0,0]\n    radius: 1\n    material: {type: dielectric}"},
		{"zero samples", "image: {samples: 0}\nspheres:\n  - center: [0,0,0]\n    radius: 1\n    material: {type: metal}"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseSceneFile([]byte(tt.yaml))
			if !errors.Is(err, ErrInvalidScene) {
				t.Errorf("Expected ErrInvalidScene, got %v", err)
			}
		})
	}
}

func TestLoadSceneFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scene.yaml")
	if err := os.WriteFile(path, []byte(exampleScene), 0644); err != nil {
		t.Fatalf("Failed to write scene file: %v", err)
	}

	sceneFile, err := LoadSceneFile(path)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(sceneFile.Spheres) != 3 {
		t.Errorf("Expected 3 spheres, got %d", len(sceneFile.Spheres))
	}

	if _, err := LoadSceneFile(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("Expected error for missing file")
	}
}

func TestColorNamesKeepTheirBytes(t *testing.T) {
	for _, name := range []string{"skyblue", "tomato", "gold", "mediumseagreen", "white"} {
		t.Run(name, func(t *testing.T) {
			var c Color
			if err := yaml.Unmarshal([]byte(name), &c); err != nil {
				t.Fatalf("Failed to decode %q: %v", name, err)
			}

			named := colornames.Map[name]
			expected := renderer.PixelColor{R: named.R, G: named.G, B: named.B}
			if got := renderer.ToPixelColor(c.Vec3, 0); got != expected {
				t.Errorf("Expected %v to display as %v, got %v", c.Vec3, expected, got)
			}
		})
	}
}
