package undo

import (
	"encoding/json"
	"testing"
)

func TestHistory_UndoRedo(t *testing.T) {
	h := New[string](0)
	if h.Max() != DefaultDepth {
		t.Errorf("Max() = %d, want %d", h.Max(), DefaultDepth)
	}
	if _, ok := h.Undo("a"); ok {
		t.Fatal("Undo() on an empty history should fail")
	}

	// a -> b -> c
	h.Push("a")
	h.Push("b")
	current := "c"

	var ok bool
	if current, ok = h.Undo(current); !ok || current != "b" {
		t.Fatalf("Undo() = %q, %v, want b", current, ok)
	}
	if current, ok = h.Undo(current); !ok || current != "a" {
		t.Fatalf("Undo() = %q, %v, want a", current, ok)
	}
	if h.CanUndo() {
		t.Error("CanUndo() = true after undoing everything")
	}
	if current, ok = h.Redo(current); !ok || current != "b" {
		t.Fatalf("Redo() = %q, %v, want b", current, ok)
	}
	if current, ok = h.Redo(current); !ok || current != "c" {
		t.Fatalf("Redo() = %q, %v, want c", current, ok)
	}
	if _, ok = h.Redo(current); ok {
		t.Error("Redo() past the latest state should fail")
	}
}

func TestHistory_PushClearsRedo(t *testing.T) {
	h := New[int](5)
	h.Push(1)
	if _, ok := h.Undo(2); !ok {
		t.Fatal("Undo() failed")
	}
	if !h.CanRedo() {
		t.Fatal("CanRedo() = false after an undo")
	}
	h.Push(1)
	if h.CanRedo() {
		t.Error("Push() should invalidate the redo stack")
	}
}

func TestHistory_Cap(t *testing.T) {
	h := New[int](3)
	for i := 1; i <= 5; i++ {
		h.Push(i)
	}
	if undo, _ := h.Len(); undo != 3 {
		t.Fatalf("Len() = %d, want 3", undo)
	}
	current := 6
	var got []int
	for h.CanUndo() {
		current, _ = h.Undo(current)
		got = append(got, current)
	}
	want := []int{5, 4, 3}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("undo sequence = %v, want %v", got, want)
			break
		}
	}
	if _, redo := h.Len(); redo != 3 {
		t.Errorf("redo Len() = %d, want 3", redo)
	}
}

func TestHistory_JSON(t *testing.T) {
	h := New[[]string](4)
	h.Push([]string{"a"})
	h.Push([]string{"a", "b"})
	h.Undo([]string{"a", "b", "c"})

	data, err := json.Marshal(h)
	if err != nil {
		t.Fatal(err)
	}
	back := new(History[[]string])
	if err := json.Unmarshal(data, back); err != nil {
		t.Fatal(err)
	}
	if back.Max() != 4 {
		t.Errorf("Max() = %d, want 4", back.Max())
	}
	prev, ok := back.Undo([]string{"a", "b"})
	if !ok || len(prev) != 1 || prev[0] != "a" {
		t.Errorf("Undo() after a round trip = %v, %v, want [a]", prev, ok)
	}
	next, ok := back.Redo(prev)
	if !ok || len(next) != 2 {
		t.Errorf("Redo() after a round trip = %v, %v, want [a b]", next, ok)
	}

	capped := New[[]string](1)
	if err := json.Unmarshal(data, capped); err != nil {
		t.Fatal(err)
	}
	if undo, redo := capped.Len(); undo != 1 || redo != 1 {
		t.Errorf("Len() = %d, %d after loading into a smaller history, want 1, 1", undo, redo)
	}
}
