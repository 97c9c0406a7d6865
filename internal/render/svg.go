package render

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/png"
	"io"
	"math"
	"strconv"
	"strings"
	"sync"

	svg "github.com/ajstarks/svgo"
)

// SVG writes display lists as SVG documents with svgo.
type SVG struct {
	icons *IconCache

	// Keyed by image so a replaced icon is encoded again.
	mu      sync.Mutex
	dataURI map[image.Image]string
}

// NewSVG prepares a vector backend. icons may be nil.
func NewSVG(icons *IconCache) *SVG {
	return &SVG{icons: icons, dataURI: make(map[image.Image]string)}
}

// Write renders commands as a width x height SVG document.
func (s *SVG) Write(w io.Writer, commands []DrawCommand, width, height int) error {
	var buf bytes.Buffer
	canvas := svg.New(&buf)
	canvas.Start(max(width, 1), max(height, 1))

	for _, cmd := range commands {
		switch cmd.Op {
		case OpPath:
			writePath(canvas, cmd)
		case OpText:
			writeText(canvas, cmd)
		case OpImage:
			s.writeImage(canvas, cmd)
		}
	}
	canvas.End()

	if _, err := w.Write(buf.Bytes()); err != nil {
		return fmt.Errorf("write svg: %w", err)
	}
	return nil
}

func writePath(canvas *svg.SVG, cmd DrawCommand) {
	d := pathData(cmd.Path)
	if d == "" {
		return
	}
	canvas.Path(d, pathStyle(cmd))
}

func pathStyle(cmd DrawCommand) string {
	style := []string{"fill:none"}
	if cmd.Fill != "" {
		style[0] = "fill:" + cmd.Fill
	}
	if cmd.Stroke != "" && cmd.StrokeWidth > 0 {
		style = append(style, "stroke:"+cmd.Stroke, "stroke-width:"+num(cmd.StrokeWidth), "stroke-linejoin:round")
		if len(cmd.Dash) > 0 {
			dash := make([]string, len(cmd.Dash))
			for i, v := range cmd.Dash {
				dash[i] = num(v)
			}
			style = append(style, "stroke-dasharray:"+strings.Join(dash, ","))
		}
	}
	if a := cmd.alpha(); a < 1 {
		style = append(style, "opacity:"+num(a))
	}
	return strings.Join(style, ";")
}

func writeText(canvas *svg.SVG, cmd DrawCommand) {
	if cmd.Text == "" {
		return
	}
	style := []string{
		"font-family:sans-serif",
		"font-size:" + num(cmd.FontSize) + "px",
		"fill:" + cmd.Fill,
	}
	if cmd.Align == AlignCenter {
		style = append(style, "text-anchor:middle", "dominant-baseline:central")
	}
	if cmd.Stroke != "" && cmd.StrokeWidth > 0 {
		style = append(style, "stroke:"+cmd.Stroke, "stroke-width:"+num(cmd.StrokeWidth/2), "paint-order:stroke")
	}
	if a := cmd.alpha(); a < 1 {
		style = append(style, "opacity:"+num(a))
	}
	canvas.Text(round(cmd.X), round(cmd.Y), cmd.Text, strings.Join(style, ";"))
}

// writeImage embeds the icon as a PNG data URI, or writes the vector
// fallback when the icon cannot be loaded.
func (s *SVG) writeImage(canvas *svg.SVG, cmd DrawCommand) {
	uri, ok := s.iconURI(cmd.Icon)
	if !ok || cmd.Width <= 0 || cmd.Height <= 0 {
		writePath(canvas, cmd)
		return
	}
	canvas.Gtransform(fmt.Sprintf("translate(%s,%s) rotate(%s)", num(cmd.X), num(cmd.Y), num(cmd.Rotation)))
	w, h := round(cmd.Width), round(cmd.Height)
	style := ""
	if a := cmd.alpha(); a < 1 {
		style = "opacity:" + num(a)
	}
	canvas.Image(-w/2, -h/2, w, h, uri, style)
	canvas.Gend()
}

func (s *SVG) iconURI(name string) (string, bool) {
	img, err := s.icons.Get(name)
	if err != nil {
		return "", false
	}

	s.mu.Lock()
	uri, ok := s.dataURI[img]
	s.mu.Unlock()
	if ok {
		return uri, true
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", false
	}
	uri = "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes())

	s.mu.Lock()
	s.dataURI[img] = uri
	s.mu.Unlock()
	return uri, true
}

// pathArity is the length of each path command including its op.
var pathArity = map[string]int{"M": 3, "L": 3, "C": 7, "Z": 1}

// pathData converts path commands to an SVG "d" attribute.
func pathData(path []PathCommand) string {
	var b strings.Builder
	for _, cmd := range path {
		if len(cmd) == 0 {
			continue
		}
		op, ok := cmd[0].(string)
		if !ok {
			continue
		}
		want := pathArity[op]
		if want == 0 || len(cmd) < want {
			continue
		}
		if b.Len() > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(op)
		for _, v := range cmd[1:want] {
			b.WriteByte(' ')
			b.WriteString(num(toFloat64(v)))
		}
	}
	return b.String()
}

func num(v float64) string {
	return strconv.FormatFloat(math.Round(v*100)/100, 'f', -1, 64)
}

func round(v float64) int {
	return int(math.Round(v))
}
