// Package history keeps a bounded undo/redo stack of values.
package history

// DefaultLimit bounds a History created with a non-positive limit.
const DefaultLimit = 50

// History is a linear undo/redo stack. Pushing after an undo discards the
// redo branch. A History is not safe for concurrent use.
type History[T any] struct {
	states []T
	cursor int
	limit  int
}

// New returns a History seeded with initial that retains at most limit
// states.
func New[T any](initial T, limit int) *History[T] {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &History[T]{states: []T{initial}, limit: limit}
}

// Push records state as the new current value.
func (h *History[T]) Push(state T) {
	h.states = append(h.states[:h.cursor+1], state)
	if over := len(h.states) - h.limit; over > 0 {
		h.states = append(h.states[:0], h.states[over:]...)
	}
	h.cursor = len(h.states) - 1
}

// Current returns the value at the cursor.
func (h *History[T]) Current() T {
	return h.states[h.cursor]
}

// Undo moves back one state. It reports false when there is nothing to undo.
func (h *History[T]) Undo() (T, bool) {
	if !h.CanUndo() {
		return h.Current(), false
	}
	h.cursor--
	return h.Current(), true
}

// Redo moves forward one state. It reports false when there is nothing to
// redo.
func (h *History[T]) Redo() (T, bool) {
	if !h.CanRedo() {
		return h.Current(), false
	}
	h.cursor++
	return h.Current(), true
}

func (h *History[T]) CanUndo() bool { return h.cursor > 0 }

func (h *History[T]) CanRedo() bool { return h.cursor < len(h.states)-1 }

// Len returns the number of retained states, including redo states.
func (h *History[T]) Len() int { return len(h.states) }
