package renderer

import (
	"context"
	"fmt"
	"image"
	"time"

	"github.com/df07/go-recursive-raytracer/pkg/core"
)

// RenderConfig contains configuration for distributing work across workers
type RenderConfig struct {
	TileSize   int   // Size of each square tile in pixels
	NumWorkers int   // Number of parallel workers (0 = use CPU count)
	Seed       int64 // Base seed; tile i samples from Seed+i
}

// DefaultRenderConfig returns sensible default values
func DefaultRenderConfig() RenderConfig {
	return RenderConfig{
		TileSize:   32,
		NumWorkers: 0, // Auto-detect CPU count
		Seed:       42,
	}
}

// TileCompletionResult describes a finished tile, for progress reporting
type TileCompletionResult struct {
	Bounds     image.Rectangle
	TileNumber int // 1-based count of tiles finished so far
	TotalTiles int
	Stats      RenderStats
}

// Renderer renders a whole image by spreading tiles over a worker pool.
// Output is identical for any worker count because every tile owns its sampler.
type Renderer struct {
	raytracer *Raytracer
	config    RenderConfig
	logger    core.Logger
}

// NewRenderer validates the configuration and creates a renderer
func NewRenderer(scene Scene, sampling SamplingConfig, config RenderConfig, logger core.Logger) (*Renderer, error) {
	if err := sampling.Validate(); err != nil {
		return nil, err
	}
	if config.TileSize <= 0 {
		return nil, fmt.Errorf("%w: tile size %d", ErrInvalidConfig, config.TileSize)
	}
	if scene.GetCamera() == nil {
		return nil, fmt.Errorf("%w: scene has no camera", ErrInvalidConfig)
	}
	if logger == nil {
		logger = discardLogger{}
	}

	return &Renderer{
		raytracer: NewRaytracer(scene, sampling),
		config:    config,
		logger:    logger,
	}, nil
}

// Render renders the full image. tileCallback, if given, is called from the calling
// goroutine once per finished tile. Cancelling ctx abandons the remaining tiles
// and returns ctx.Err().
func (r *Renderer) Render(ctx context.Context, tileCallback func(TileCompletionResult)) (*Framebuffer, RenderStats, error) {
	sampling := r.raytracer.GetSamplingConfig()
	startTime := time.Now()

	fb := NewFramebuffer(sampling.Width, sampling.Height)
	tiles := NewTileGrid(sampling.Width, sampling.Height, r.config.TileSize, r.config.Seed)

	workerPool := NewWorkerPool(r.raytracer, r.config.NumWorkers, len(tiles))
	workerPool.Start(ctx)
	defer workerPool.Stop()

	r.logger.Printf("Rendering %dx%d, %d samples per pixel, depth %d (%d tiles, %d workers)...\n",
		sampling.Width, sampling.Height, sampling.SamplesPerPixel, sampling.MaxDepth,
		len(tiles), workerPool.GetNumWorkers())

	for i, tile := range tiles {
		workerPool.SubmitTask(TileTask{
			Tile:        tile,
			TaskID:      i,
			Framebuffer: fb,
		})
	}

	stats := RenderStats{}
	var renderErr error
	lastReported := 0

	for i := 0; i < len(tiles); i++ {
		result, ok := workerPool.GetResult()
		if !ok {
			return nil, RenderStats{}, fmt.Errorf("worker pool closed unexpectedly")
		}
		if result.Error != nil {
			if renderErr == nil {
				renderErr = result.Error
			}
			continue
		}

		stats.Merge(result.Stats)

		if tileCallback != nil {
			tileCallback(TileCompletionResult{
				Bounds:     tiles[result.TaskID].Bounds,
				TileNumber: i + 1,
				TotalTiles: len(tiles),
				Stats:      result.Stats,
			})
		}

		// Report progress in 10% steps
		percent := (i + 1) * 100 / len(tiles)
		if percent/10 > lastReported/10 {
			r.logger.Printf("Progress: %d%% (%d/%d tiles)\n", percent, i+1, len(tiles))
			lastReported = percent
		}
	}

	if renderErr != nil {
		return nil, RenderStats{}, renderErr
	}

	stats.Duration = time.Since(startTime)
	r.logger.Printf("Render completed in %v (%d samples)\n", stats.Duration, stats.TotalSamples)

	return fb, stats, nil
}
