package main

import (
	"context"
	"flag"
	"fmt"
	"math"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/df07/go-recursive-raytracer/pkg/loaders"
	"github.com/df07/go-recursive-raytracer/pkg/renderer"
	"github.com/df07/go-recursive-raytracer/pkg/scene"
)

// options holds command line overrides; zero values keep the scene's settings
type options struct {
	width   int
	height  int
	samples int
	depth   int
	gamma   float64
}

func main() {
	// Parse command line flags
	sceneType := flag.String("scene", "default", sceneUsage())
	width := flag.Int("width", 0, "Image width (0 = scene default)")
	height := flag.Int("height", 0, "Image height (0 = scene default)")
	samples := flag.Int("samples", 0, "Samples per pixel (0 = scene default)")
	depth := flag.Int("depth", -1, "Maximum bounce depth (-1 = scene default)")
	gamma := flag.Float64("gamma", 0, "Output gamma (0 = scene default, 1 = linear)")
	workers := flag.Int("workers", 0, "Number of parallel workers (0 = auto-detect)")
	tileSize := flag.Int("tile", renderer.DefaultRenderConfig().TileSize, "Tile size in pixels")
	seed := flag.Int64("seed", renderer.DefaultRenderConfig().Seed, "Random seed")
	output := flag.String("output", "", "Output file (.png or .jpg); default output/<scene>/render_<timestamp>.png")
	list := flag.Bool("list", false, "List available scenes and exit")
	help := flag.Bool("help", false, "Show help information")
	flag.Parse()

	// Show help if requested
	if *help {
		fmt.Println("Recursive Raytracer")
		fmt.Println("Usage: raytracer [options]")
		fmt.Println()
		fmt.Println("Options:")
		flag.PrintDefaults()
		fmt.Println()
		printScenes()
		fmt.Println()
		fmt.Println("Output will be saved to output/<scene>/render_<timestamp>.png unless -output is set")
		return
	}

	if *list {
		printScenes()
		return
	}

	fmt.Println("Starting Recursive Raytracer...")

	selectedScene, err := createScene(*sceneType)
	if err != nil {
		fmt.Printf("Error creating scene: %v\n", err)
		os.Exit(1)
	}

	opts := options{width: *width, height: *height, samples: *samples, depth: *depth, gamma: *gamma}
	if err := applyOverrides(selectedScene, opts); err != nil {
		fmt.Printf("Error applying options: %v\n", err)
		os.Exit(1)
	}

	config := renderer.RenderConfig{
		TileSize:   *tileSize,
		NumWorkers: *workers,
		Seed:       *seed,
	}

	r, err := renderer.NewRenderer(selectedScene, selectedScene.SamplingConfig, config, renderer.NewDefaultLogger())
	if err != nil {
		fmt.Printf("Error creating renderer: %v\n", err)
		os.Exit(1)
	}

	// Ctrl-C abandons the render
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	fb, stats, err := r.Render(ctx, nil)
	if err != nil {
		fmt.Printf("Render failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Samples per pixel: %.1f, %d samples in total\n", stats.AverageSamples(), stats.TotalSamples)

	filename := outputPath(*sceneType, *output, time.Now())
	if err := os.MkdirAll(filepath.Dir(filename), 0755); err != nil {
		fmt.Printf("Error creating output directory: %v\n", err)
		os.Exit(1)
	}

	if err := loaders.SaveImage(filename, fb); err != nil {
		fmt.Printf("Error saving image: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Render saved as %s\n", filename)
}

// sceneUsage describes the -scene flag using the registered built-in scenes
func sceneUsage() string {
	var names []string
	for _, info := range scene.ListBuiltinScenes() {
		names = append(names, "'"+info.ID+"'")
	}
	return fmt.Sprintf("Scene name (%s) or path to a .yaml scene file", strings.Join(names, ", "))
}

// createScene resolves a built-in scene name or a scene file path
func createScene(sceneType string) (*scene.Scene, error) {
	if sceneType == "" {
		return nil, fmt.Errorf("%w: empty scene name", scene.ErrUnknownScene)
	}
	return scene.Create(sceneType)
}

// applyOverrides applies command line settings to the scene. When only one image
// dimension is given the other follows the scene's aspect ratio.
func applyOverrides(s *scene.Scene, opts options) error {
	if opts.width > 0 || opts.height > 0 {
		width, height := opts.width, opts.height
		aspectRatio := s.CameraConfig.AspectRatio
		if width <= 0 {
			width = max(int(math.Round(float64(height)*aspectRatio)), 1)
		}
		if height <= 0 {
			height = max(int(math.Round(float64(width)/aspectRatio)), 1)
		}
		if err := s.Resize(width, height); err != nil {
			return err
		}
	}

	if opts.samples > 0 {
		s.SamplingConfig.SamplesPerPixel = opts.samples
	}
	if opts.depth >= 0 {
		s.SamplingConfig.MaxDepth = opts.depth
	}
	if opts.gamma > 0 {
		s.SamplingConfig.Gamma = opts.gamma
	}

	return s.SamplingConfig.Validate()
}

// outputPath returns the explicit output file, or a timestamped file under output/<scene>
func outputPath(sceneType, output string, now time.Time) string {
	if output != "" {
		return output
	}

	// Scene files are grouped by file name
	sceneName := strings.TrimSuffix(filepath.Base(sceneType), filepath.Ext(sceneType))

	timestamp := now.Format("20060102_150405")
	return filepath.Join("output", sceneName, fmt.Sprintf("render_%s.png", timestamp))
}

func printScenes() {
	scenes, err := scene.ListAllScenes(scene.DefaultScenesDir)
	if err != nil {
		fmt.Printf("Error listing scenes: %v\n", err)
		return
	}

	fmt.Println("Available scenes:")
	for _, info := range scenes {
		if info.Description != "" {
			fmt.Printf("  %-20s %s - %s\n", info.ID, info.DisplayName, info.Description)
		} else {
			fmt.Printf("  %-20s %s\n", info.ID, info.DisplayName)
		}
	}
}
