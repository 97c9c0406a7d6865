package render

import (
	"math"
	"strconv"

	"github.com/pitchboard/pitchboard/internal/engine"
	"github.com/pitchboard/pitchboard/internal/geom"
	"github.com/pitchboard/pitchboard/internal/scene"
	"github.com/pitchboard/pitchboard/internal/viewport"
)

// Element styling. Widths and offsets are canvas pixels.
const (
	colorTokenStroke   = "rgba(0,0,0,0.35)"
	colorNumber        = "rgba(0,0,0,0.8)"
	colorLine          = "rgba(255,255,255,0.92)"
	colorZoneStroke    = "rgba(255,255,255,0.7)"
	colorGoalFill      = "rgba(255,255,255,0.15)"
	colorText          = "rgba(255,255,255,0.95)"
	colorTextOutline   = "rgba(0,0,0,0.35)"
	colorHover         = "rgba(255,255,255,0.85)"
	colorSelection     = "rgba(255,255,255,0.95)"
	colorSelectionFill = "rgba(255,255,255,0.08)"
	colorHandleFill    = "rgba(255,255,255,1)"
	colorHandleStroke  = "rgba(59,130,246,0.9)"
	colorHandleDot     = "rgba(59,130,246,0.8)"

	lockedOpacity     = 0.65
	lineWidth         = 3.0
	selectedLineWidth = 4.0
	arrowHeadLength   = 14.0
	labelOffset       = 8.0
	selectionPad      = 6.0
	handleMaxRadius   = 7.0
	handleDotRatio    = 0.4

	// Font sizes in field units.
	textFontSize   = 2.2
	numberFontSize = 1.6
)

var (
	zoneDash      = []float64{8, 6}
	lineDash      = []float64{10, 8}
	selectionDash = []float64{6, 6}
)

var tokenFills = map[scene.TokenType]string{
	scene.TokenPlayer:   "rgba(120,200,255,0.95)",
	scene.TokenOpponent: "rgba(255,80,80,0.95)",
	scene.TokenCone:     "rgba(255,198,0,0.95)",
	scene.TokenBall:     "rgba(255,255,255,0.95)",
	scene.TokenFlag:     "rgba(255,140,0,0.95)",
	scene.TokenDisc:     "rgba(255,230,90,0.95)",
}

var zoneFills = map[scene.ZoneFill]string{
	scene.FillPress:  "rgba(255,80,80,0.25)",
	scene.FillBuild:  "rgba(120,200,255,0.22)",
	scene.FillDanger: "rgba(255,198,0,0.24)",
	scene.FillCustom: "rgba(255,255,255,0.18)",
}

// Icon names. Tokens without an icon are always drawn as vectors.
const IconGoal = "goal"

var tokenIcons = map[scene.TokenType]string{
	scene.TokenCone: "cone",
	scene.TokenBall: "ball",
	scene.TokenFlag: "flag",
	scene.TokenDisc: "disc",
}

type compiler struct {
	vp  viewport.Viewport
	out []DrawCommand
}

// Compile generates the display list for a frame in painter's order: pitch,
// then layers back to front, then hover and selection feedback. A frame with
// no drawable area compiles to nothing.
func Compile(f engine.Frame) []DrawCommand {
	if f.Viewport.GreenWidth <= 0 || f.Viewport.GreenHeight <= 0 {
		return nil
	}
	c := &compiler{vp: f.Viewport}
	s := f.Scene
	c.pitch(s.Pitch)

	for _, layerID := range scene.DrawOrder {
		if !s.Layer(layerID).Visible {
			continue
		}
		for _, el := range s.Elements {
			meta := el.Meta()
			if meta.Layer != layerID || meta.Hidden {
				continue
			}
			c.element(el, meta.ID == f.SelectedID)
		}
	}

	if f.HoverID != "" && f.HoverID != f.SelectedID {
		if el, ok := drawable(s, f.HoverID); ok {
			c.hover(el)
		}
	}
	if el, ok := drawable(s, f.SelectedID); ok {
		c.selection(el)
	}
	return c.out
}

// drawable finds an element that is actually on screen.
func drawable(s scene.Scene, id string) (scene.Element, bool) {
	if id == "" {
		return nil, false
	}
	el, ok := s.Find(id)
	if !ok || el.Meta().Hidden || !s.Layer(el.Meta().Layer).Visible {
		return nil, false
	}
	return el, true
}

func (c *compiler) emit(cmd DrawCommand) {
	c.out = append(c.out, cmd)
}

func (c *compiler) pt(p geom.Point) geom.Point {
	return c.vp.FieldToCanvas(p)
}

func (c *compiler) canvasRect(r geom.Rect) geom.Rect {
	tl := c.pt(geom.Pt(r.X, r.Y))
	return geom.Rect{X: tl.X, Y: tl.Y, W: c.vp.Length(r.W), H: c.vp.Length(r.H)}
}

func (c *compiler) rect(r geom.Rect) []PathCommand {
	return rectPath(c.canvasRect(r))
}

func (c *compiler) segment(a, b geom.Point) []PathCommand {
	return segmentPath(c.pt(a), c.pt(b))
}

func (c *compiler) element(el scene.Element, selected bool) {
	meta := el.Meta()
	opacity := 1.0
	if meta.Locked {
		opacity = lockedOpacity
	}
	width := lineWidth
	if selected {
		width = selectedLineWidth
	}

	switch v := el.(type) {
	case scene.Token:
		c.token(v, opacity, width)

	case scene.Arrow:
		from, to := c.pt(v.From), c.pt(v.To)
		c.line(meta.ID, from, to, v.Dashed, opacity, width)
		c.emit(DrawCommand{
			Op:       OpPath,
			ObjectID: meta.ID,
			Path:     polygonPath(arrowHead(from, to)...),
			Fill:     colorLine,
			Opacity:  opacity,
		})
		c.label(v.Label, from.Add(to).Mul(0.5), opacity)

	case scene.Line:
		from, to := c.pt(v.From), c.pt(v.To)
		c.line(meta.ID, from, to, v.Dashed, opacity, width)
		c.label(v.Label, from.Add(to).Mul(0.5), opacity)

	case scene.Path:
		c.path(v, opacity, width)

	case scene.Zone:
		if v.Rect().IsEmpty() {
			return
		}
		r := c.canvasRect(v.Rect())
		if fill := v.Opacity * opacity; fill > 0 {
			c.emit(DrawCommand{
				Op:       OpPath,
				ObjectID: meta.ID,
				Path:     rectPath(r),
				Fill:     zoneFill(v.Fill),
				Opacity:  fill,
			})
		}
		c.emit(DrawCommand{
			Op:          OpPath,
			ObjectID:    meta.ID,
			Path:        rectPath(r),
			Stroke:      colorZoneStroke,
			StrokeWidth: markingWidth,
			Dash:        zoneDash,
			Opacity:     opacity,
		})
		if v.Label != "" {
			c.text(v.Label, geom.Pt(r.X+labelOffset, r.Y+labelOffset+c.fontSize(textFontSize)), opacity)
		}

	case scene.Goal:
		if v.Rect().IsEmpty() {
			return
		}
		r := c.canvasRect(v.Rect())
		center := r.Center()
		c.emit(DrawCommand{
			Op:          OpImage,
			ObjectID:    meta.ID,
			Icon:        IconGoal,
			X:           center.X,
			Y:           center.Y,
			Width:       r.W,
			Height:      r.H,
			Rotation:    v.Rotation,
			Path:        polygonPath(rotatedCorners(r, v.Rotation)...),
			Fill:        colorGoalFill,
			Stroke:      colorLine,
			StrokeWidth: width,
			Opacity:     opacity,
		})

	case scene.Text:
		c.text(v.Text, c.pt(geom.Pt(v.X, v.Y)), opacity)
	}
}

func (c *compiler) token(t scene.Token, opacity, width float64) {
	center := c.pt(geom.Pt(t.X, t.Y))
	r := c.vp.Length(t.R)
	cmd := DrawCommand{
		Op:          OpPath,
		ObjectID:    t.ID,
		Path:        circlePath(center, r),
		Fill:        tokenFill(t.TokenType),
		Stroke:      colorTokenStroke,
		StrokeWidth: width,
		Opacity:     opacity,
	}
	if icon, ok := tokenIcons[t.TokenType]; ok {
		cmd.Op = OpImage
		cmd.Icon = icon
		cmd.X, cmd.Y = center.X, center.Y
		cmd.Width, cmd.Height = 2*r, 2*r
	}
	c.emit(cmd)

	if t.Number != nil {
		c.emit(DrawCommand{
			Op:       OpText,
			ObjectID: t.ID,
			X:        center.X,
			Y:        center.Y,
			Text:     strconv.Itoa(*t.Number),
			FontSize: c.fontSize(numberFontSize),
			Align:    AlignCenter,
			Fill:     colorNumber,
			Opacity:  opacity,
		})
	}
	if t.Label != "" {
		c.text(t.Label, geom.Pt(center.X+r+labelOffset, center.Y-r-labelOffset), opacity)
	}
}

func (c *compiler) line(id string, from, to geom.Point, dashed bool, opacity, width float64) {
	cmd := DrawCommand{
		Op:          OpPath,
		ObjectID:    id,
		Path:        segmentPath(from, to),
		Stroke:      colorLine,
		StrokeWidth: width,
		Opacity:     opacity,
	}
	if dashed {
		cmd.Dash = lineDash
	}
	c.emit(cmd)
}

func (c *compiler) path(p scene.Path, opacity, width float64) {
	if len(p.Points) == 0 {
		return
	}
	points := make([]geom.Point, len(p.Points))
	for i, pt := range p.Points {
		points[i] = c.pt(pt)
	}
	if len(points) == 1 {
		c.emit(DrawCommand{
			Op:       OpPath,
			ObjectID: p.ID,
			Path:     circlePath(points[0], width),
			Fill:     colorLine,
			Opacity:  opacity,
		})
		return
	}
	cmd := DrawCommand{
		Op:          OpPath,
		ObjectID:    p.ID,
		Path:        polylinePath(points),
		Stroke:      colorLine,
		StrokeWidth: width,
		Opacity:     opacity,
	}
	if p.Dashed {
		cmd.Dash = lineDash
	}
	c.emit(cmd)
	c.label(p.Label, points[len(points)/2], opacity)
}

// label places an annotation up and to the right of anchor.
func (c *compiler) label(text string, anchor geom.Point, opacity float64) {
	if text == "" {
		return
	}
	c.text(text, geom.Pt(anchor.X+labelOffset, anchor.Y-labelOffset), opacity)
}

func (c *compiler) text(s string, at geom.Point, opacity float64) {
	c.emit(DrawCommand{
		Op:          OpText,
		X:           at.X,
		Y:           at.Y,
		Text:        s,
		FontSize:    c.fontSize(textFontSize),
		Fill:        colorText,
		Stroke:      colorTextOutline,
		StrokeWidth: 4,
		Opacity:     opacity,
	})
}

func (c *compiler) fontSize(units float64) float64 {
	return math.Max(8, c.vp.Length(units))
}

// hover outlines el with the same geometry hit testing uses.
func (c *compiler) hover(el scene.Element) {
	cmd := DrawCommand{Op: OpPath, Stroke: colorHover, StrokeWidth: 2}
	switch v := el.(type) {
	case scene.Token:
		cmd.Path = circlePath(c.pt(geom.Pt(v.X, v.Y)), c.vp.Length(v.R+engine.TokenHitMargin))
	case scene.Zone:
		cmd.Path = rectPath(pad(c.canvasRect(v.Rect()), 2))
	case scene.Goal:
		cmd.Path = rectPath(pad(c.canvasRect(v.Rect()), 2))
	case scene.Text:
		cmd.Path = c.rect(textBox(v))
	case scene.Arrow:
		cmd.Path = c.segment(v.From, v.To)
		cmd.StrokeWidth = c.vp.Length(2 * engine.LineHitTolerance)
		cmd.Opacity = 0.25
	case scene.Line:
		cmd.Path = c.segment(v.From, v.To)
		cmd.StrokeWidth = c.vp.Length(2 * engine.LineHitTolerance)
		cmd.Opacity = 0.25
	case scene.Path:
		cmd.Path = polylinePath(c.points(v.Points))
		cmd.StrokeWidth = c.vp.Length(2 * engine.LineHitTolerance)
		cmd.Opacity = 0.25
	}
	if len(cmd.Path) > 0 {
		c.emit(cmd)
	}
}

// selection draws the outline of el and its handles at the positions
// HitTestHandle checks.
func (c *compiler) selection(el scene.Element) {
	outline := DrawCommand{Op: OpPath, Stroke: colorSelection, StrokeWidth: 2, Dash: selectionDash}
	switch v := el.(type) {
	case scene.Token:
		center := c.pt(geom.Pt(v.X, v.Y))
		outline.Path = circlePath(center, c.vp.Length(v.R+engine.TokenHitMargin)+selectionPad)
	case scene.Zone:
		outline.Path = rectPath(pad(c.canvasRect(v.Rect()), selectionPad))
		outline.Fill = colorSelectionFill
	case scene.Goal:
		outline.Path = rectPath(pad(c.canvasRect(v.Rect()), selectionPad))
		outline.Fill = colorSelectionFill
	case scene.Text:
		outline.Path = c.rect(textBox(v))
	}
	if len(outline.Path) > 0 {
		c.emit(outline)
	}

	if el.Meta().Locked {
		return
	}
	for _, h := range engine.Handles(el) {
		at := c.pt(h.At)
		r := math.Min(c.vp.Length(h.Radius), handleMaxRadius)
		c.emit(DrawCommand{
			Op:          OpPath,
			Path:        circlePath(at, r),
			Fill:        colorHandleFill,
			Stroke:      colorHandleStroke,
			StrokeWidth: 2.5,
		})
		c.emit(DrawCommand{Op: OpPath, Path: circlePath(at, r*handleDotRatio), Fill: colorHandleDot})
	}
}

func (c *compiler) points(pts []geom.Point) []geom.Point {
	out := make([]geom.Point, len(pts))
	for i, p := range pts {
		out[i] = c.pt(p)
	}
	return out
}

func textBox(t scene.Text) geom.Rect {
	b := engine.TextBox
	return geom.Rect{X: t.X + b.X, Y: t.Y + b.Y, W: b.W, H: b.H}
}

func pad(r geom.Rect, d float64) geom.Rect {
	return geom.Rect{X: r.X - d, Y: r.Y - d, W: r.W + 2*d, H: r.H + 2*d}
}

// arrowHead returns the triangle at the tip of an arrow from from to to.
func arrowHead(from, to geom.Point) []geom.Point {
	angle := math.Atan2(to.Y-from.Y, to.X-from.X)
	return []geom.Point{
		to,
		geom.Pt(to.X-arrowHeadLength*math.Cos(angle-math.Pi/6), to.Y-arrowHeadLength*math.Sin(angle-math.Pi/6)),
		geom.Pt(to.X-arrowHeadLength*math.Cos(angle+math.Pi/6), to.Y-arrowHeadLength*math.Sin(angle+math.Pi/6)),
	}
}

// rotatedCorners returns the corners of r rotated about its centre.
func rotatedCorners(r geom.Rect, degrees float64) []geom.Point {
	c := r.Center()
	m := geom.Translate(c.X, c.Y).Multiply(geom.RotateDegrees(degrees)).Multiply(geom.Translate(-c.X, -c.Y))
	corners := []geom.Point{
		geom.Pt(r.X, r.Y),
		geom.Pt(r.Right(), r.Y),
		geom.Pt(r.Right(), r.Bottom()),
		geom.Pt(r.X, r.Bottom()),
	}
	for i, p := range corners {
		corners[i] = m.Apply(p)
	}
	return corners
}

func tokenFill(t scene.TokenType) string {
	if f, ok := tokenFills[t]; ok {
		return f
	}
	return tokenFills[scene.TokenPlayer]
}

func zoneFill(f scene.ZoneFill) string {
	if c, ok := zoneFills[f]; ok {
		return c
	}
	return zoneFills[scene.FillCustom]
}

// SceneFrame frames a bare scene at the given canvas size, with no
// selection, hover or gesture, for exports and previews.
func SceneFrame(s scene.Scene, width, height int) engine.Frame {
	return engine.Frame{
		Scene:    s,
		Viewport: viewport.Calculate(float64(width), float64(height), s.Pitch.Type, s.Pitch.Orientation),
		Tool:     engine.ToolSelect,
	}
}
