// Package history keeps the bounded undo/redo stacks of an editing session.
//
// History is a value. Every operation returns a new History and leaves the
// receiver untouched, so a caller can hold on to an old state safely.
package history

import (
	"slices"

	"github.com/pitchboard/pitchboard/internal/scene"
)

// Limit is the maximum number of undo steps kept.
const Limit = 80

type History struct {
	Past    []scene.Scene
	Present scene.Scene
	Future  []scene.Scene
}

func New(present scene.Scene) History {
	return History{Present: present}
}

// Push records present as an undo step and makes next the present. Used for
// single-step edits such as placing a token.
func (h History) Push(next scene.Scene) History {
	return History{
		Past:    bounded(append(slices.Clone(h.Past), h.Present)),
		Present: next,
	}
}

// Replace swaps the present without recording anything. Gestures call it on
// every pointer move and commit once at the end with CommitFrom.
func (h History) Replace(next scene.Scene) History {
	h.Present = next
	return h
}

// CommitFrom records base, the scene from before a gesture, as one undo step.
// Nothing is recorded if the gesture left the scene unchanged, and base is
// not pushed twice when it is already the newest undo step. Any committed
// change clears the redo stack.
func (h History) CommitFrom(base scene.Scene) History {
	if scene.Equal(base, h.Present) {
		return h
	}
	if n := len(h.Past); n > 0 && scene.Equal(h.Past[n-1], base) {
		return History{Past: h.Past, Present: h.Present}
	}
	return History{
		Past:    bounded(append(slices.Clone(h.Past), base)),
		Present: h.Present,
	}
}

func (h History) Undo() History {
	n := len(h.Past)
	if n == 0 {
		return h
	}
	return History{
		Past:    slices.Clone(h.Past[:n-1]),
		Present: h.Past[n-1],
		Future:  append([]scene.Scene{h.Present}, h.Future...),
	}
}

func (h History) Redo() History {
	if len(h.Future) == 0 {
		return h
	}
	return History{
		Past:    bounded(append(slices.Clone(h.Past), h.Present)),
		Present: h.Future[0],
		Future:  slices.Clone(h.Future[1:]),
	}
}

func (h History) CanUndo() bool { return len(h.Past) > 0 }
func (h History) CanRedo() bool { return len(h.Future) > 0 }

func bounded(past []scene.Scene) []scene.Scene {
	if len(past) > Limit {
		return past[len(past)-Limit:]
	}
	return past
}
