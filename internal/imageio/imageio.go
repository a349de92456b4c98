// Package imageio implements the image decode collaborator: decoding
// source bytes, deriving quarter-turn rotated bitmaps, and generating
// placeholder graphics.
package imageio

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	_ "image/jpeg"
	_ "image/png"
	"os"

	_ "golang.org/x/image/tiff"

	"github.com/NielsIH/snapspot/internal/viewport"
)

// Decode decodes image bytes (PNG, JPEG or TIFF).
func Decode(data []byte) (image.Image, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	return img, nil
}

// DecodeFile decodes an image from a file path.
func DecodeFile(path string) (image.Image, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read image: %w", err)
	}
	return Decode(data)
}

// Rotate returns the bitmap rotated clockwise by the given quarter-turn
// rotation. For 0 the source is returned unchanged; for 90 and 270 the
// result has swapped dimensions. Pixel mapping follows the viewport's
// forward rotation: source (x, y) lands at (H-1-y, x) for 90,
// (W-1-x, H-1-y) for 180 and (y, W-1-x) for 270.
func Rotate(img image.Image, rotation viewport.Rotation) image.Image {
	if img == nil || rotation == viewport.Rotate0 {
		return img
	}

	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()

	var out *image.RGBA
	if rotation.Swapped() {
		out = image.NewRGBA(image.Rect(0, 0, h, w))
	} else {
		out = image.NewRGBA(image.Rect(0, 0, w, h))
	}

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c := img.At(bounds.Min.X+x, bounds.Min.Y+y)
			switch rotation {
			case viewport.Rotate90:
				out.Set(h-1-y, x, c)
			case viewport.Rotate180:
				out.Set(w-1-x, h-1-y, c)
			case viewport.Rotate270:
				out.Set(y, w-1-x, c)
			}
		}
	}
	return out
}

// Placeholder generates a neutral checkerboard bitmap used when no real
// image is available.
func Placeholder(w, h int) image.Image {
	if w <= 0 {
		w = 800
	}
	if h <= 0 {
		h = 600
	}
	const cell = 32
	light := color.RGBA{R: 210, G: 210, B: 214, A: 255}
	dark := color.RGBA{R: 182, G: 182, B: 188, A: 255}

	out := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(out, out.Bounds(), image.NewUniform(light), image.Point{}, draw.Src)
	for y := 0; y < h; y += cell {
		for x := 0; x < w; x += cell {
			if (x/cell+y/cell)%2 == 0 {
				continue
			}
			r := image.Rect(x, y, x+cell, y+cell).Intersect(out.Bounds())
			draw.Draw(out, r, image.NewUniform(dark), image.Point{}, draw.Src)
		}
	}
	return out
}
