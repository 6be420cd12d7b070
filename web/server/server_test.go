package server

import (
	"bytes"
	"encoding/json"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func newTestServer(t *testing.T) (*Server, string) {
	t.Helper()
	dir := t.TempDir()
	content := "# Scene: Lone Metal\nimage: {width: 8, height: 4, samples: 1, max_depth: 2}\n" +
		"spheres:\n  - center: [0, 0, -1]\n    radius: 0.5\n    material: {type: metal, albedo: silver}\n"
	if err := os.WriteFile(filepath.Join(dir, "lone-metal.yaml"), []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write scene file: %v", err)
	}
	return NewServer(0, dir), dir
}

func get(t *testing.T, handler http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestHandleHealth(t *testing.T) {
	s, _ := newTestServer(t)
	rec := get(t, s.Handler(), "/api/health")

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil || body["status"] != "ok" {
		t.Errorf("Unexpected health body %q (%v)", rec.Body.String(), err)
	}
}

func TestHandleScenes(t *testing.T) {
	s, dir := newTestServer(t)
	rec := get(t, s.Handler(), "/api/scenes")

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}

	var body struct {
		Scenes []struct {
			ID          string `json:"id"`
			DisplayName string `json:"displayName"`
			Type        string `json:"type"`
		} `json:"scenes"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("Failed to decode scenes: %v", err)
	}

	ids := map[string]string{}
	for _, info := range body.Scenes {
		ids[info.ID] = info.DisplayName
	}
	for _, id := range []string{"default", "single-sphere"} {
		if _, ok := ids[id]; !ok {
			t.Errorf("Missing built-in scene %q", id)
		}
	}
	if name := ids[filepath.Join(dir, "lone-metal.yaml")]; name != "Lone Metal" {
		t.Errorf("Expected scene file to be listed, got %v", ids)
	}
}

func TestHandleRender(t *testing.T) {
	s, dir := newTestServer(t)
	handler := s.Handler()

	tests := []struct {
		name   string
		target string
		width  int
		height int
	}{
		{"built-in", "/api/render?scene=single-sphere&width=8&height=4&samples=1&depth=2", 8, 4},
		{"scene file", "/api/render?scene=" + filepath.Join(dir, "lone-metal.yaml") + "&width=6&height=6&samples=1&depth=1", 6, 6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := get(t, handler, tt.target)
			if rec.Code != http.StatusOK {
				t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
			}
			if ct := rec.Header().Get("Content-Type"); ct != "image/png" {
				t.Errorf("Expected image/png, got %q", ct)
			}

			img, err := png.Decode(bytes.NewReader(rec.Body.Bytes()))
			if err != nil {
				t.Fatalf("Failed to decode PNG: %v", err)
			}
			if img.Bounds().Dx() != tt.width || img.Bounds().Dy() != tt.height {
				t.Errorf("Expected %dx%d, got %v", tt.width, tt.height, img.Bounds())
			}
		})
	}
}

func TestHandleRender_Reproducible(t *testing.T) {
	s, _ := newTestServer(t)
	handler := s.Handler()
	target := "/api/render?scene=single-sphere&width=16&height=8&samples=2&depth=3&seed=9"

	first := get(t, handler, target)
	second := get(t, handler, target)
	if first.Code != http.StatusOK || second.Code != http.StatusOK {
		t.Fatalf("Expected 200s, got %d and %d", first.Code, second.Code)
	}
	if !bytes.Equal(first.Body.Bytes(), second.Body.Bytes()) {
		t.Error("Expected identical images for the same seed")
	}
}

func TestHandleRender_BadRequests(t *testing.T) {
	s, _ := newTestServer(t)
	handler := s.Handler()

	targets := []string{
		"/api/render?width=abc",
		"/api/render?width=0",
		"/api/render?height=5000",
		"/api/render?samples=0",
		"/api/render?depth=-1",
		"/api/render?scene=cornell-box",
		"/api/render?scene=/etc/passwd.yaml",
	}

	for _, target := range targets {
		t.Run(target, func(t *testing.T) {
			rec := get(t, handler, target)
			if rec.Code != http.StatusBadRequest {
				t.Errorf("Expected 400, got %d", rec.Code)
			}
			if !strings.Contains(rec.Body.String(), "error") {
				t.Errorf("Expected JSON error body, got %q", rec.Body.String())
			}
		})
	}
}

func TestHandleRenderStream(t *testing.T) {
	s, _ := newTestServer(t)
	rec := get(t, s.Handler(), "/api/render/stream?scene=single-sphere&width=40&height=20&samples=1&depth=2")

	if ct := rec.Header().Get("Content-Type"); ct != "text/event-stream" {
		t.Errorf("Expected text/event-stream, got %q", ct)
	}

	body := rec.Body.String()
	// 40x20 in 32 pixel tiles is 2x1 tiles
	if n := strings.Count(body, "event: tile\n"); n != 2 {
		t.Errorf("Expected 2 tile events, got %d", n)
	}
	if !strings.Contains(body, "event: console\n") {
		t.Error("Expected console events from the render logger")
	}
	if !strings.HasSuffix(body, "\n\n") || !strings.Contains(body, "event: complete\n") {
		t.Fatalf("Expected a final complete event, got %q", body)
	}
	if strings.Contains(body, "event: error") {
		t.Errorf("Unexpected error event in %q", body)
	}
}

func TestHandleRenderStream_InvalidRequest(t *testing.T) {
	s, _ := newTestServer(t)
	rec := get(t, s.Handler(), "/api/render/stream?scene=nope")

	if !strings.Contains(rec.Body.String(), "event: error\n") {
		t.Errorf("Expected error event, got %q", rec.Body.String())
	}
}

func TestHandleInspect(t *testing.T) {
	s, _ := newTestServer(t)
	handler := s.Handler()

	t.Run("sphere", func(t *testing.T) {
		rec := get(t, handler, "/api/inspect?scene=single-sphere&width=40&height=20&x=20&y=10")
		if rec.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
		}

		var resp InspectResponse
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("Failed to decode response: %v", err)
		}
		if !resp.Hit || resp.MaterialType != "lambertian" || resp.GeometryType != "sphere" {
			t.Errorf("Expected lambertian sphere hit, got %+v", resp)
		}
		if resp.Distance < 0.4 || resp.Distance > 0.6 {
			t.Errorf("Expected hit about 0.5 away, got %v", resp.Distance)
		}
		if resp.Normal[2] <= 0 {
			t.Errorf("Expected normal facing the camera, got %v", resp.Normal)
		}
	})

	t.Run("sky", func(t *testing.T) {
		rec := get(t, handler, "/api/inspect?scene=single-sphere&width=40&height=20&x=20&y=0")
		var resp InspectResponse
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("Failed to decode response: %v", err)
		}
		if resp.Hit {
			t.Errorf("Expected top of the image to miss, got %+v", resp)
		}
	})

	for _, target := range []string{
		"/api/inspect?scene=single-sphere&width=40&height=20&x=40&y=0",
		"/api/inspect?scene=single-sphere&x=a&y=0",
		"/api/inspect?scene=unknown&x=1&y=1",
	} {
		t.Run(target, func(t *testing.T) {
			if rec := get(t, handler, target); rec.Code != http.StatusBadRequest {
				t.Errorf("Expected 400, got %d", rec.Code)
			}
		})
	}
}
