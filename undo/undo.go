// Package undo provides a bounded undo/redo history of snapshots.
//
// The history is an ordinary value owned by its caller: there is no global
// state, and the snapshots it holds are never inspected.
package undo

import "encoding/json"

// DefaultDepth is the number of snapshots kept when none is specified.
const DefaultDepth = 10

// History is a bounded LIFO of snapshots with a redo stack.
//
// T should be an immutable value (or treated as one), for instance a copy of
// the trades of a book.
type History[T any] struct {
	max  int
	undo []T
	redo []T
}

// New returns an empty history keeping at most depth snapshots. A non
// positive depth means DefaultDepth.
func New[T any](depth int) *History[T] {
	if depth <= 0 {
		depth = DefaultDepth
	}
	return &History[T]{max: depth}
}

// Max returns the maximum number of snapshots kept.
func (h *History[T]) Max() int { return h.max }

// Push records before, the state preceding a change. The oldest snapshot is
// dropped above the maximum and the redo stack is cleared.
func (h *History[T]) Push(before T) {
	h.undo = push(h.undo, before, h.max)
	h.redo = nil
}

// Undo returns the last recorded snapshot, and keeps current for Redo.
// It returns false if there is nothing to undo.
func (h *History[T]) Undo(current T) (T, bool) {
	var prev T
	if len(h.undo) == 0 {
		return prev, false
	}
	prev, h.undo = pop(h.undo)
	h.redo = push(h.redo, current, h.max)
	return prev, true
}

// Redo returns the last undone snapshot, and keeps current for Undo.
// It returns false if there is nothing to redo.
func (h *History[T]) Redo(current T) (T, bool) {
	var next T
	if len(h.redo) == 0 {
		return next, false
	}
	next, h.redo = pop(h.redo)
	h.undo = push(h.undo, current, h.max)
	return next, true
}

func (h *History[T]) CanUndo() bool { return len(h.undo) > 0 }
func (h *History[T]) CanRedo() bool { return len(h.redo) > 0 }

// Len returns the number of snapshots that can be undone and redone.
func (h *History[T]) Len() (undo, redo int) { return len(h.undo), len(h.redo) }

// Clear forgets every snapshot.
func (h *History[T]) Clear() {
	h.undo, h.redo = nil, nil
}

func push[T any](stack []T, v T, depth int) []T {
	stack = append(stack, v)
	if len(stack) > depth {
		stack = append(stack[:0:0], stack[len(stack)-depth:]...)
	}
	return stack
}

func pop[T any](stack []T) (T, []T) {
	last := len(stack) - 1
	v := stack[last]
	var zero T
	stack[last] = zero
	return v, stack[:last]
}

type jsonHistory[T any] struct {
	Max  int `json:"depth"`
	Undo []T `json:"undo"`
	Redo []T `json:"redo"`
}

// MarshalJSON saves the history, so that it can survive between runs.
func (h *History[T]) MarshalJSON() ([]byte, error) {
	return json.Marshal(jsonHistory[T]{Max: h.max, Undo: h.undo, Redo: h.redo})
}

// UnmarshalJSON restores a history. The maximum already set on h, if any,
// takes precedence over the stored one.
func (h *History[T]) UnmarshalJSON(data []byte) error {
	var j jsonHistory[T]
	if err := json.Unmarshal(data, &j); err != nil {
		return err
	}
	depth := h.max
	if depth <= 0 {
		depth = j.Max
	}
	if depth <= 0 {
		depth = DefaultDepth
	}
	h.max = depth
	h.undo, h.redo = nil, nil
	for _, v := range j.Undo {
		h.undo = push(h.undo, v, depth)
	}
	for _, v := range j.Redo {
		h.redo = push(h.redo, v, depth)
	}
	return nil
}
