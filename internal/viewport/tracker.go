package viewport

import "github.com/pitchboard/pitchboard/internal/scene"

// Tracker caches the viewport for a canvas. Resizes and pitch changes only
// mark it dirty; the viewport is recomputed the next time it is read, so a
// burst of resize events costs one calculation.
type Tracker struct {
	width, height float64
	pitch         scene.Pitch
	current       Viewport
	dirty         bool
}

func NewTracker(width, height float64, pitch scene.Pitch) *Tracker {
	return &Tracker{width: width, height: height, pitch: pitch, dirty: true}
}

func (t *Tracker) Resize(width, height float64) {
	if t.width == width && t.height == height {
		return
	}
	t.width, t.height = width, height
	t.dirty = true
}

func (t *Tracker) SetPitch(p scene.Pitch) {
	if t.pitch == p {
		return
	}
	t.pitch = p
	t.dirty = true
}

func (t *Tracker) Viewport() Viewport {
	if t.dirty {
		t.current = Calculate(t.width, t.height, t.pitch.Type, t.pitch.Orientation)
		t.dirty = false
	}
	return t.current
}
