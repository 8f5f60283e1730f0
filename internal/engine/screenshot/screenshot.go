// Package screenshot saves rendered frames as PNG files.
package screenshot

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Capture writes screenshots into a directory.
type Capture struct {
	Dir    string
	Prefix string

	// Now stamps file names. Nil means time.Now.
	Now func() time.Time
}

// New creates a capture writing to dir with the given file name prefix.
func New(dir, prefix string) *Capture {
	return &Capture{Dir: dir, Prefix: prefix}
}

// Filename returns the path a capture taken now would be written to.
// label is appended when set, so shots can carry the simulated time.
func (c *Capture) Filename(label string) string {
	now := time.Now
	if c.Now != nil {
		now = c.Now
	}
	name := c.Prefix + "_" + now().Format("2006-01-02_15-04-05")
	if label != "" {
		name += "_" + sanitize(label)
	}
	name += ".png"
	if c.Dir != "" {
		name = filepath.Join(c.Dir, name)
	}
	return name
}

// SavePixels writes bottom-up RGBA pixels as read back from OpenGL.
// Rows are flipped so the image is upright.
func (c *Capture) SavePixels(pixels []byte, width, height int, label string) (string, error) {
	if width <= 0 || height <= 0 || len(pixels) != width*height*4 {
		return "", fmt.Errorf("pixel data size mismatch: expected %d, got %d", width*height*4, len(pixels))
	}

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	rowSize := width * 4
	for y := 0; y < height; y++ {
		src := (height - 1 - y) * rowSize
		dst := y * img.Stride
		copy(img.Pix[dst:dst+rowSize], pixels[src:src+rowSize])
	}
	return c.Save(img, label)
}

// Save writes img and returns its path.
func (c *Capture) Save(img image.Image, label string) (string, error) {
	if c.Dir != "" {
		if err := os.MkdirAll(c.Dir, 0755); err != nil {
			return "", fmt.Errorf("creating output dir: %w", err)
		}
	}

	filename := c.Filename(label)
	file, err := os.Create(filename)
	if err != nil {
		return "", fmt.Errorf("creating file: %w", err)
	}
	defer file.Close()

	if err := png.Encode(file, img); err != nil {
		return "", fmt.Errorf("encoding PNG: %w", err)
	}
	return filename, nil
}

// sanitize keeps labels like "09:30" safe in file names.
func sanitize(s string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case ':', '/', '\\', ' ':
			return '-'
		}
		return r
	}, s)
}
