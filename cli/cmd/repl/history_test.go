package repl

import (
	"errors"
	"os"
	"path/filepath"
	"slices"
	"testing"
)

func TestHistory_AddAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), baseHistory)

	h := NewHistory(path)

	for _, e := range []HistoryEntry{
		{"counter + 1", modeEval},
		{"trace on", modeCtrl},
		{"  name == 'fred'  ", modeEval},
		{"", modeEval},
	} {
		if err := h.Add(e.Line, e.Mode); err != nil {
			t.Fatalf("Add(%q) error = %v", e.Line, err)
		}
	}

	want := []HistoryEntry{
		{"counter + 1", modeEval},
		{"trace on", modeCtrl},
		{"name == 'fred'", modeEval},
	}

	if got := h.Entries(); !slices.Equal(got, want) {
		t.Errorf("Entries() = %v, want %v", got, want)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}

	if got := string(data); got != "E:counter + 1\nC:trace on\nE:name == 'fred'\n" {
		t.Errorf("history file = %q", got)
	}

	reloaded := NewHistory(path)
	if err := reloaded.Load(); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if got := reloaded.Entries(); !slices.Equal(got, want) {
		t.Errorf("reloaded Entries() = %v, want %v", got, want)
	}
}

func TestHistory_Add_MovesDuplicateToEnd(t *testing.T) {
	path := filepath.Join(t.TempDir(), baseHistory)
	h := NewHistory(path)

	for _, line := range []string{"a", "b", "c", "a", "a"} {
		if err := h.Add(line, modeEval); err != nil {
			t.Fatalf("Add(%q) error = %v", line, err)
		}
	}

	want := []HistoryEntry{{"b", modeEval}, {"c", modeEval}, {"a", modeEval}}
	if got := h.Entries(); !slices.Equal(got, want) {
		t.Errorf("Entries() = %v, want %v", got, want)
	}

	// The same line in another mode is a different entry.
	if err := h.Add("a", modeCtrl); err != nil {
		t.Fatalf("Add() error = %v", err)
	}

	if h.Len() != 4 {
		t.Errorf("Len() = %d, want 4", h.Len())
	}

	reloaded := NewHistory(path)
	if err := reloaded.Load(); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if got, want := reloaded.Entries(), h.Entries(); !slices.Equal(got, want) {
		t.Errorf("reloaded Entries() = %v, want %v", got, want)
	}
}

func TestHistory_Entry(t *testing.T) {
	h := NewHistory("")
	_ = h.Add("first", modeEval)
	_ = h.Add("list", modeCtrl)

	e, err := h.Entry(1)
	if err != nil || e != (HistoryEntry{"list", modeCtrl}) {
		t.Errorf("Entry(1) = %v, %v", e, err)
	}

	for _, i := range []int{-1, 2} {
		if _, err := h.Entry(i); !errors.Is(err, ErrOutOfBounds) {
			t.Errorf("Entry(%d) error = %v, want ErrOutOfBounds", i, err)
		}
	}
}

func TestHistory_Load_Missing(t *testing.T) {
	h := NewHistory(filepath.Join(t.TempDir(), "missing"))
	if err := h.Load(); err != nil {
		t.Errorf("Load() error = %v, want nil", err)
	}

	if err := NewHistory("").Load(); err != nil {
		t.Errorf("Load() without path error = %v, want nil", err)
	}
}

func TestDecodeHistoryEntry_Legacy(t *testing.T) {
	if got := decodeHistoryEntry("1 + 2"); got != (HistoryEntry{"1 + 2", modeEval}) {
		t.Errorf("decodeHistoryEntry() = %v", got)
	}
}
