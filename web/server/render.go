package server

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/df07/go-recursive-raytracer/pkg/renderer"
)

// TileUpdate is sent via SSE every time a tile finishes
type TileUpdate struct {
	X          int `json:"x"`
	Y          int `json:"y"`
	Width      int `json:"width"`
	Height     int `json:"height"`
	TileNumber int `json:"tileNumber"` // Tiles finished so far (1-based)
	TotalTiles int `json:"totalTiles"`
}

// CompleteUpdate carries the finished image
type CompleteUpdate struct {
	ImageData      string  `json:"imageData"` // Base64 encoded PNG
	ElapsedMs      int64   `json:"elapsedMs"`
	TotalPixels    int     `json:"totalPixels"`
	TotalSamples   int     `json:"totalSamples"`
	AverageSamples float64 `json:"averageSamples"`
}

// handleRenderStream renders with tile progress, console lines and the final image streamed via SSE.
// Everything is written from the handler goroutine: Render calls the tile callback and logger there.
func (s *Server) handleRenderStream(w http.ResponseWriter, r *http.Request) {
	s.setSSEHeaders(w)
	ctx := r.Context()

	req, err := s.parseRenderRequest(r)
	if err != nil {
		s.sendSSEError(w, fmt.Sprintf("Invalid request: %v", err))
		return
	}

	consoleChan, webLogger := s.setupConsoleLogging()

	imageRenderer, err := s.setupRenderer(req, webLogger)
	if err != nil {
		s.sendSSEError(w, err.Error())
		return
	}

	startTime := time.Now()
	fb, stats, err := imageRenderer.Render(ctx, func(result renderer.TileCompletionResult) {
		s.flushConsole(w, consoleChan)
		s.handleTileUpdate(w, result)
	})
	s.flushConsole(w, consoleChan)

	if err != nil {
		if ctx.Err() == nil {
			s.sendSSEError(w, fmt.Sprintf("Rendering failed: %v", err))
		}
		return
	}

	imageData, err := s.imageToBase64PNG(fb.ToRGBA())
	if err != nil {
		s.sendSSEError(w, fmt.Sprintf("Failed to encode image: %v", err))
		return
	}

	data, err := json.Marshal(CompleteUpdate{
		ImageData:      imageData,
		ElapsedMs:      time.Since(startTime).Milliseconds(),
		TotalPixels:    stats.TotalPixels,
		TotalSamples:   stats.TotalSamples,
		AverageSamples: stats.AverageSamples(),
	})
	if err != nil {
		log.Printf("Error marshaling completion: %v", err)
		return
	}
	s.sendSSEEvent(w, "complete", string(data))
}

// setSSEHeaders sets the required headers for Server-Sent Events
func (s *Server) setSSEHeaders(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Access-Control-Allow-Origin", "*")
}

// setupConsoleLogging creates console channel and web logger for a render
func (s *Server) setupConsoleLogging() (chan ConsoleMessage, *WebLogger) {
	consoleChan := make(chan ConsoleMessage, 50)
	renderID := fmt.Sprintf("render-%d", time.Now().UnixNano())
	return consoleChan, NewWebLogger(renderID, consoleChan)
}

// flushConsole sends every buffered console message without blocking
func (s *Server) flushConsole(w http.ResponseWriter, consoleChan chan ConsoleMessage) {
	for {
		select {
		case consoleMsg := <-consoleChan:
			data, err := json.Marshal(consoleMsg)
			if err != nil {
				log.Printf("Error marshaling console message: %v", err)
				continue
			}
			s.sendSSEEvent(w, "console", string(data))
		default:
			return
		}
	}
}

// handleTileUpdate sends a tile completion event
func (s *Server) handleTileUpdate(w http.ResponseWriter, result renderer.TileCompletionResult) {
	update := TileUpdate{
		X:          result.Bounds.Min.X,
		Y:          result.Bounds.Min.Y,
		Width:      result.Bounds.Dx(),
		Height:     result.Bounds.Dy(),
		TileNumber: result.TileNumber,
		TotalTiles: result.TotalTiles,
	}

	data, err := json.Marshal(update)
	if err != nil {
		log.Printf("Error marshaling tile update: %v", err)
		return
	}
	s.sendSSEEvent(w, "tile", string(data))
}

// sendSSEError sends an error via SSE
func (s *Server) sendSSEError(w http.ResponseWriter, message string) error {
	return s.sendSSEEvent(w, "error", message)
}

// sendSSEEvent sends a generic SSE event
func (s *Server) sendSSEEvent(w http.ResponseWriter, event, data string) error {
	if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, data); err != nil {
		return err
	}
	if flusher, ok := w.(http.Flusher); ok {
		flusher.Flush()
	}
	return nil
}
