// Command strokedemo strokes and fills the paths of a TOML scene and
// writes the frame as a PNG. Frames are drawn with the CPU preview
// backend, or on a Vulkan device with -gpu when one is available.
package main

import (
	"flag"
	"image"
	"image/png"
	"log"
	"log/slog"
	"os"

	"github.com/gogpu/strokemesh"
	"github.com/gogpu/strokemesh/internal/preview"
)

func main() {
	var (
		scenePath = flag.String("scene", "", "scene file (TOML); built in scene if empty")
		output    = flag.String("output", "strokes.png", "output file")
		width     = flag.Int("width", 0, "override scene width")
		height    = flag.Int("height", 0, "override scene height")
		useGPU    = flag.Bool("gpu", false, "render on the GPU, falling back to the preview backend")
		verbose   = flag.Bool("v", false, "log painter activity")
	)
	flag.Parse()

	if *verbose {
		strokemesh.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
	}

	scene, err := loadScene(*scenePath)
	if err != nil {
		log.Fatalf("Failed to load scene: %v", err)
	}
	if *width > 0 {
		scene.Width = *width
	}
	if *height > 0 {
		scene.Height = *height
	}

	if *useGPU {
		img, err := renderGPU(scene)
		if err == nil {
			if err := savePNG(*output, img); err != nil {
				log.Fatalf("Failed to save: %v", err)
			}
			log.Printf("Saved %s (%dx%d) from the GPU\n", *output, scene.Width, scene.Height)
			return
		}
		log.Printf("GPU rendering unavailable, using the preview backend: %v", err)
	}

	canvas, err := render(scene)
	if err != nil {
		log.Fatalf("Failed to render: %v", err)
	}
	if err := canvas.Pixmap().SavePNG(*output); err != nil {
		log.Fatalf("Failed to save: %v", err)
	}

	st := canvas.Stats()
	log.Printf("Saved %s (%dx%d): %d draws, %d triangles\n",
		*output, scene.Width, scene.Height, st.Draws, st.Triangles)
}

// render draws scene into a new preview canvas.
func render(scene *Scene) (*preview.Canvas, error) {
	canvas := preview.New(strokemesh.Hex(scene.Background))
	if err := drawFrame(canvas, scene, false); err != nil {
		return nil, err
	}
	return canvas, nil
}

// drawFrame draws scene as one frame of backend. With paintBackground the
// background is filled first, for backends that clear to transparent.
func drawFrame(backend strokemesh.Backend, scene *Scene, paintBackground bool) error {
	p := strokemesh.NewPainter(
		strokemesh.WithBackend(backend),
		strokemesh.WithTargetResolution(scene.Width, scene.Height),
	)
	if err := p.Begin(); err != nil {
		return err
	}
	var drawErr error
	if paintBackground {
		bg := strokemesh.NewPath()
		bg.Rectangle(0, 0, float64(scene.Width), float64(scene.Height))
		p.SetBrush(strokemesh.Solid(strokemesh.Hex(scene.Background)))
		drawErr = p.FillPath(bg, strokemesh.NonZero)
	}
	if drawErr == nil {
		drawErr = scene.Draw(p)
	}
	if err := p.End(); err != nil && drawErr == nil {
		drawErr = err
	}
	return drawErr
}

func savePNG(path string, img image.Image) error {
	f, err := os.Create(path) //nolint:gosec // path is user-provided intentionally
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
