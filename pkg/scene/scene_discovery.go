package scene

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/df07/go-recursive-raytracer/pkg/loaders"
)

// ErrUnknownScene is returned when a name matches no built-in scene or scene file
var ErrUnknownScene = errors.New("unknown scene")

// DefaultScenesDir is where scene files are looked up relative to the working directory
const DefaultScenesDir = "scenes"

// SceneInfo represents a discovered scene with its metadata
type SceneInfo struct {
	ID          string `json:"id"`          // Name accepted by Create
	DisplayName string `json:"displayName"` // UI display name
	Description string `json:"description"` // Optional description
	Type        string `json:"type"`        // "builtin" or "yaml"
	FilePath    string `json:"filePath,omitempty"`
}

type builtinScene struct {
	info   SceneInfo
	create func() (*Scene, error)
}

var builtinScenes = []builtinScene{
	{
		info: SceneInfo{
			ID:          "default",
			DisplayName: "Default Scene",
			Description: "Metal, diffuse and glass spheres on a polished ground sphere",
			Type:        "builtin",
		},
		create: NewDefaultScene,
	},
	{
		info: SceneInfo{
			ID:          "single-sphere",
			DisplayName: "Single Sphere",
			Description: "One gray diffuse sphere on diffuse ground",
			Type:        "builtin",
		},
		create: NewSingleSphereScene,
	},
	{
		info: SceneInfo{
			ID:          "sphere-grid",
			DisplayName: "Sphere Grid",
			Description: "A 20x20 grid of colored metal spheres",
			Type:        "builtin",
		},
		create: NewSphereGridScene,
	},
}

// Create returns a built-in scene by ID, or loads name as a .yaml/.yml scene file
func Create(name string) (*Scene, error) {
	for _, builtin := range builtinScenes {
		if builtin.info.ID == name {
			s, err := builtin.create()
			if err != nil {
				return nil, err
			}
			s.Preprocess()
			return s, nil
		}
	}

	if isSceneFile(name) {
		return NewSceneFromFile(name)
	}

	return nil, fmt.Errorf("%w: %q", ErrUnknownScene, name)
}

// NewSceneFromFile loads a YAML scene file
func NewSceneFromFile(filename string) (*Scene, error) {
	sceneFile, err := loaders.LoadSceneFile(filename)
	if err != nil {
		return nil, err
	}

	spheres, err := sceneFile.BuildSpheres()
	if err != nil {
		return nil, err
	}

	s, err := NewScene(sceneFile.CameraConfig(), sceneFile.SamplingConfig(), len(spheres))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	for _, sphere := range spheres {
		s.World.Add(sphere)
	}
	s.TopColor = sceneFile.Background.Top.Vec3
	s.BottomColor = sceneFile.Background.Bottom.Vec3
	s.Preprocess()

	return s, nil
}

// ListBuiltinScenes returns the built-in scenes in registration order
func ListBuiltinScenes() []SceneInfo {
	scenes := make([]SceneInfo, 0, len(builtinScenes))
	for _, builtin := range builtinScenes {
		scenes = append(scenes, builtin.info)
	}
	return scenes
}

// ListSceneFiles scans dir for YAML scene files. A missing directory yields an empty list.
func ListSceneFiles(dir string) ([]SceneInfo, error) {
	if _, err := os.Stat(dir); err != nil {
		return []SceneInfo{}, nil
	}

	var files []string
	for _, pattern := range []string{"*.yaml", "*.yml"} {
		matches, err := filepath.Glob(filepath.Join(dir, pattern))
		if err != nil {
			return nil, fmt.Errorf("failed to scan scenes directory: %w", err)
		}
		files = append(files, matches...)
	}

	scenes := []SceneInfo{}
	for _, filePath := range files {
		sceneInfo, err := ParseSceneMetadata(filePath)
		if err != nil {
			return nil, err
		}
		scenes = append(scenes, sceneInfo)
	}

	// Sort scenes by display name
	sort.Slice(scenes, func(i, j int) bool {
		return scenes[i].DisplayName < scenes[j].DisplayName
	})

	return scenes, nil
}

// ListAllScenes returns the built-in scenes followed by the scene files in dir
func ListAllScenes(dir string) ([]SceneInfo, error) {
	files, err := ListSceneFiles(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list scene files: %w", err)
	}
	return append(ListBuiltinScenes(), files...), nil
}

// ParseSceneMetadata reads "# Scene:" and "# Description:" header comments.
// Files without them are named after the file.
func ParseSceneMetadata(filePath string) (SceneInfo, error) {
	filename := filepath.Base(filePath)
	nameWithoutExt := strings.TrimSuffix(filename, filepath.Ext(filename))

	sceneInfo := SceneInfo{
		ID:          filePath,
		DisplayName: titleCase(nameWithoutExt),
		Type:        "yaml",
		FilePath:    filePath,
	}

	file, err := os.Open(filePath)
	if err != nil {
		return sceneInfo, fmt.Errorf("failed to open scene file: %w", err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		// Stop parsing at first non-comment line
		if !strings.HasPrefix(line, "#") {
			break
		}

		content := strings.TrimSpace(strings.TrimPrefix(line, "#"))
		if value, ok := strings.CutPrefix(content, "Scene:"); ok && strings.TrimSpace(value) != "" {
			sceneInfo.DisplayName = strings.TrimSpace(value)
		} else if value, ok := strings.CutPrefix(content, "Description:"); ok {
			sceneInfo.Description = strings.TrimSpace(value)
		}
	}

	return sceneInfo, scanner.Err()
}

func isSceneFile(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	return ext == ".yaml" || ext == ".yml"
}

// titleCase converts a filename-style string to title case
// e.g., "three-spheres" -> "Three Spheres"
func titleCase(s string) string {
	// Replace hyphens and underscores with spaces
	s = strings.ReplaceAll(s, "-", " ")
	s = strings.ReplaceAll(s, "_", " ")

	words := strings.Fields(s)
	for i, word := range words {
		words[i] = strings.ToUpper(word[:1]) + strings.ToLower(word[1:])
	}

	return strings.Join(words, " ")
}
