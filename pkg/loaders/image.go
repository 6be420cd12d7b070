package loaders

import (
	"fmt"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/df07/go-recursive-raytracer/pkg/renderer"
)

// jpegQuality is used for .jpg/.jpeg output
const jpegQuality = 95

// SaveImage writes the framebuffer as PNG or JPEG, chosen by file extension
func SaveImage(filename string, fb *renderer.Framebuffer) error {
	ext := strings.ToLower(filepath.Ext(filename))
	if ext != ".png" && ext != ".jpg" && ext != ".jpeg" {
		return fmt.Errorf("unsupported image format %q (use .png, .jpg or .jpeg)", ext)
	}

	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create image file: %w", err)
	}

	img := fb.ToRGBA()
	if ext == ".png" {
		err = png.Encode(file, img)
	} else {
		err = jpeg.Encode(file, img, &jpeg.Options{Quality: jpegQuality})
	}
	if err != nil {
		file.Close()
		return fmt.Errorf("failed to encode image: %w", err)
	}

	return file.Close()
}
