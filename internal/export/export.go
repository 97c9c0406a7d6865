package export

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/pitchboard/pitchboard/internal/render"
	"github.com/pitchboard/pitchboard/internal/scene"
)

var ErrUnknownFormat = errors.New("unknown export format")

type Format string

const (
	FormatJSON Format = "json"
	FormatPNG  Format = "png"
	FormatSVG  Format = "svg"
)

const (
	DefaultWidth  = 1050
	DefaultHeight = 680
	MaxSize       = 4096
)

// ParseFormat reads a format name, case-insensitively. Empty means JSON.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return FormatJSON, nil
	case FormatJSON, FormatPNG, FormatSVG:
		return f, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
}

func (f Format) ContentType() string {
	switch f {
	case FormatPNG:
		return "image/png"
	case FormatSVG:
		return "image/svg+xml"
	default:
		return "application/json"
	}
}

func (f Format) Extension() string {
	return "." + string(f)
}

// Exporter writes one-shot snapshots of a scene.
type Exporter struct {
	raster *render.Raster
	svg    *render.SVG
}

func NewExporter(raster *render.Raster, svg *render.SVG) *Exporter {
	return &Exporter{raster: raster, svg: svg}
}

// JSON writes the scene's data model, indented.
func JSON(w io.Writer, sc scene.Scene) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(scene.Normalize(sc)); err != nil {
		return fmt.Errorf("encode scene: %w", err)
	}
	return nil
}

func (e *Exporter) PNG(w io.Writer, sc scene.Scene, width, height int) error {
	width, height = Size(width, height)
	return e.raster.PNG(w, render.Compile(render.SceneFrame(sc, width, height)), width, height)
}

func (e *Exporter) SVG(w io.Writer, sc scene.Scene, width, height int) error {
	width, height = Size(width, height)
	return e.svg.Write(w, render.Compile(render.SceneFrame(sc, width, height)), width, height)
}

// Write dispatches on format. Sizes are ignored for JSON.
func (e *Exporter) Write(w io.Writer, format Format, sc scene.Scene, width, height int) error {
	switch format {
	case FormatJSON:
		return JSON(w, sc)
	case FormatPNG:
		return e.PNG(w, sc, width, height)
	case FormatSVG:
		return e.SVG(w, sc, width, height)
	}
	return fmt.Errorf("%w: %q", ErrUnknownFormat, format)
}

// Size applies the default export size to non-positive dimensions and caps
// both at MaxSize.
func Size(width, height int) (int, int) {
	if width <= 0 || height <= 0 {
		return DefaultWidth, DefaultHeight
	}
	return min(width, MaxSize), min(height, MaxSize)
}

// Filename turns a title into a safe download name with the format's
// extension.
func Filename(title string, f Format) string {
	name := strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '-' || r == '_' {
			return r
		}
		return '-'
	}, strings.TrimSpace(title))
	if strings.Trim(name, "-") == "" {
		name = "diagram"
	}
	return name + f.Extension()
}
