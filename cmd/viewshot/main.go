// Command viewshot renders an image with its markers to a PNG without a
// window, for quick inspection of marker placement and styling.
package main

import (
	"flag"
	"fmt"
	"image/png"
	"os"
	"strings"

	"github.com/NielsIH/snapspot/internal/engine"
	"github.com/NielsIH/snapspot/internal/imageio"
	"github.com/NielsIH/snapspot/internal/marker"
	"github.com/NielsIH/snapspot/internal/render/ggsurface"
	"github.com/NielsIH/snapspot/internal/settings"
)

func main() {
	imagePath := flag.String("image", "", "Path to the image (PNG, JPEG, or TIFF)")
	markersPath := flag.String("markers", "", "Path to the markers JSON (default: <image>.markers.json)")
	settingsPath := flag.String("settings", "", "Path to a settings YAML with styling rules")
	outPath := flag.String("out", "viewshot.png", "Output PNG path")
	width := flag.Int("width", 1280, "Output width in pixels")
	height := flag.Int("height", 960, "Output height in pixels")
	zoom := flag.Float64("zoom", 0, "Scale: <1 multiplies the fitted scale, >=1 is absolute, 0 keeps the fit")
	rotate := flag.Int("rotate", 0, "Rotation in degrees: 0, 90, 180 or 270")
	center := flag.String("center", "", "Map coordinate to center on, as x,y")
	highlightID := flag.String("highlight", "", "Marker id to draw highlighted")
	flag.Parse()

	if *imagePath == "" {
		fmt.Println("Usage: viewshot -image <path> [-markers <path>] [-out viewshot.png]")
		os.Exit(1)
	}

	img, err := imageio.DecodeFile(*imagePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to decode image: %v\n", err)
		os.Exit(1)
	}
	bounds := img.Bounds()
	fmt.Printf("Loaded image: %dx%d pixels\n", bounds.Dx(), bounds.Dy())

	cfg := settings.Default()
	if *settingsPath != "" {
		cfg, err = settings.Load(*settingsPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to load settings: %v\n", err)
			os.Exit(1)
		}
	}

	eng := engine.New(engine.Options{
		MinScale: cfg.MinScale,
		MaxScale: cfg.MaxScale,
	})
	if rules, err := cfg.ColorRules(); err == nil {
		eng.SetColorRules(rules)
	} else {
		fmt.Fprintf(os.Stderr, "Ignoring styling rules: %v\n", err)
	}

	surface := ggsurface.New(*width, *height)
	eng.Render(surface) // establish the surface size
	if err := eng.LoadImage(*imagePath, img); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to install image: %v\n", err)
		os.Exit(1)
	}

	mpath := *markersPath
	if mpath == "" {
		ext := strings.LastIndex(*imagePath, ".")
		if ext > 0 {
			mpath = (*imagePath)[:ext] + ".markers.json"
		}
	}
	if mpath != "" {
		if markers, err := marker.LoadFile(mpath); err == nil {
			eng.SetMarkers(markers)
			fmt.Printf("Loaded %d markers from %s\n", len(markers), mpath)
		}
	}

	if *rotate != 0 {
		if err := eng.SetRotation(*rotate); err != nil {
			fmt.Fprintf(os.Stderr, "Bad rotation %d: %v\n", *rotate, err)
			os.Exit(1)
		}
	}

	if *center != "" {
		var cx, cy float64
		if _, err := fmt.Sscanf(*center, "%f,%f", &cx, &cy); err != nil {
			fmt.Fprintf(os.Stderr, "Bad -center value %q, want x,y\n", *center)
			os.Exit(1)
		}
		if err := eng.PanAndZoomToCoordinates(cx, cy, *zoom); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to center view: %v\n", err)
			os.Exit(1)
		}
	} else if *zoom > 0 {
		mid := bounds.Max
		if err := eng.PanAndZoomToCoordinates(float64(mid.X)/2, float64(mid.Y)/2, *zoom); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to apply zoom: %v\n", err)
			os.Exit(1)
		}
	}

	if *highlightID != "" {
		eng.HighlightMarker(*highlightID)
	}

	eng.Render(surface)

	out, err := os.Create(*outPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create output: %v\n", err)
		os.Exit(1)
	}
	defer out.Close()

	if err := png.Encode(out, surface.Image()); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to encode PNG: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Wrote %s\n", *outPath)
}
