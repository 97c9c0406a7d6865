package render

import (
	"fmt"
	"image"
	"image/color"
	"io"
	"strconv"
	"strings"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
)

// Raster paints display lists into images with gg.
type Raster struct {
	icons *IconCache
	font  *truetype.Font
}

// NewRaster prepares a raster backend. icons may be nil.
func NewRaster(icons *IconCache) (*Raster, error) {
	f, err := truetype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("parse font: %w", err)
	}
	return &Raster{icons: icons, font: f}, nil
}

// Draw paints commands onto a new width x height image.
func (r *Raster) Draw(commands []DrawCommand, width, height int) image.Image {
	return r.paint(commands, width, height).Image()
}

// PNG paints commands and encodes the result as PNG.
func (r *Raster) PNG(w io.Writer, commands []DrawCommand, width, height int) error {
	if err := r.paint(commands, width, height).EncodePNG(w); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	return nil
}

func (r *Raster) paint(commands []DrawCommand, width, height int) *gg.Context {
	dc := gg.NewContext(max(width, 1), max(height, 1))
	dc.SetColor(color.Transparent)
	dc.Clear()

	// Faces are not safe for concurrent use, so each paint keeps its own.
	faces := make(map[float64]font.Face)
	face := func(size float64) font.Face {
		if f, ok := faces[size]; ok {
			return f
		}
		f := truetype.NewFace(r.font, &truetype.Options{Size: size, DPI: 72, Hinting: font.HintingFull})
		faces[size] = f
		return f
	}

	for _, cmd := range commands {
		switch cmd.Op {
		case OpPath:
			drawPath(dc, cmd)
		case OpText:
			drawText(dc, cmd, face(cmd.FontSize))
		case OpImage:
			r.drawImage(dc, cmd)
		}
	}
	return dc
}

func tracePath(dc *gg.Context, path []PathCommand) {
	dc.ClearPath()
	for _, cmd := range path {
		if len(cmd) == 0 {
			continue
		}
		op, _ := cmd[0].(string)
		switch {
		case op == "M" && len(cmd) >= 3:
			dc.MoveTo(toFloat64(cmd[1]), toFloat64(cmd[2]))
		case op == "L" && len(cmd) >= 3:
			dc.LineTo(toFloat64(cmd[1]), toFloat64(cmd[2]))
		case op == "C" && len(cmd) >= 7:
			dc.CubicTo(
				toFloat64(cmd[1]), toFloat64(cmd[2]),
				toFloat64(cmd[3]), toFloat64(cmd[4]),
				toFloat64(cmd[5]), toFloat64(cmd[6]),
			)
		case op == "Z":
			dc.ClosePath()
		}
	}
}

func drawPath(dc *gg.Context, cmd DrawCommand) {
	if len(cmd.Path) == 0 {
		return
	}
	tracePath(dc, cmd.Path)
	alpha := cmd.alpha()

	fill, hasFill := parseColor(cmd.Fill, alpha)
	stroke, hasStroke := parseColor(cmd.Stroke, alpha)
	hasStroke = hasStroke && cmd.StrokeWidth > 0

	if hasFill {
		dc.SetColor(fill)
		if hasStroke {
			dc.FillPreserve()
		} else {
			dc.Fill()
		}
	}
	if hasStroke {
		dc.SetColor(stroke)
		dc.SetLineWidth(cmd.StrokeWidth)
		dc.SetDash(cmd.Dash...)
		dc.Stroke()
		dc.SetDash()
	}
	dc.ClearPath()
}

func drawText(dc *gg.Context, cmd DrawCommand, face font.Face) {
	if cmd.Text == "" {
		return
	}
	dc.SetFontFace(face)
	ax, ay := 0.0, 0.0
	if cmd.Align == AlignCenter {
		ax, ay = 0.5, 0.5
	}

	alpha := cmd.alpha()
	if outline, ok := parseColor(cmd.Stroke, alpha); ok {
		dc.SetColor(outline)
		d := max(cmd.StrokeWidth/4, 1)
		for _, off := range [][2]float64{{-d, 0}, {d, 0}, {0, -d}, {0, d}} {
			dc.DrawStringAnchored(cmd.Text, cmd.X+off[0], cmd.Y+off[1], ax, ay)
		}
	}
	if fill, ok := parseColor(cmd.Fill, alpha); ok {
		dc.SetColor(fill)
		dc.DrawStringAnchored(cmd.Text, cmd.X, cmd.Y, ax, ay)
	}
}

// drawImage draws the command's icon, or its vector fallback when the icon
// cannot be loaded.
func (r *Raster) drawImage(dc *gg.Context, cmd DrawCommand) {
	img, err := r.icons.Get(cmd.Icon)
	if err != nil || cmd.Width <= 0 || cmd.Height <= 0 {
		drawPath(dc, cmd)
		return
	}
	b := img.Bounds()
	if b.Dx() == 0 || b.Dy() == 0 {
		drawPath(dc, cmd)
		return
	}
	dc.Push()
	dc.Translate(cmd.X, cmd.Y)
	dc.Rotate(gg.Radians(cmd.Rotation))
	dc.Scale(cmd.Width/float64(b.Dx()), cmd.Height/float64(b.Dy()))
	dc.DrawImageAnchored(img, 0, 0, 0.5, 0.5)
	dc.Pop()
}

// parseColor reads the CSS colors the compiler emits: "#rrggbb" and
// "rgba(r,g,b,a)". alpha multiplies the color's own alpha.
func parseColor(s string, alpha float64) (color.NRGBA, bool) {
	s = strings.TrimSpace(s)
	switch {
	case s == "":
		return color.NRGBA{}, false

	case strings.HasPrefix(s, "#"):
		c, err := colorful.Hex(s)
		if err != nil {
			return color.NRGBA{}, false
		}
		cr, cg, cb := c.RGB255()
		return color.NRGBA{R: cr, G: cg, B: cb, A: alpha8(alpha)}, true

	case strings.HasPrefix(s, "rgba(") || strings.HasPrefix(s, "rgb("):
		inner := s[strings.IndexByte(s, '(')+1:]
		inner = strings.TrimSuffix(inner, ")")
		parts := strings.Split(inner, ",")
		if len(parts) != 3 && len(parts) != 4 {
			return color.NRGBA{}, false
		}
		var v [4]float64
		v[3] = 1
		for i, p := range parts {
			f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
			if err != nil {
				return color.NRGBA{}, false
			}
			v[i] = f
		}
		return color.NRGBA{
			R: uint8(min(max(v[0], 0), 255)),
			G: uint8(min(max(v[1], 0), 255)),
			B: uint8(min(max(v[2], 0), 255)),
			A: alpha8(v[3] * alpha),
		}, true
	}
	return color.NRGBA{}, false
}

func alpha8(a float64) uint8 {
	return uint8(min(max(a, 0), 1)*255 + 0.5)
}
