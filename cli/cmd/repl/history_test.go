package repl

import (
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"testing"
)

func TestHistory_AddDedupes(t *testing.T) {
	path := filepath.Join(t.TempDir(), baseHistory)
	h := NewHistory(path)

	for _, line := range []string{"a", "b", "a", "  c  ", "c", "", "x\ny"} {
		if err := h.Add(line); err != nil {
			t.Fatalf("Add(%q) error = %v", line, err)
		}
	}

	want := []string{"b", "a", "c"}
	if got := h.Entries(); !slices.Equal(got, want) {
		t.Errorf("Entries() = %q, want %q", got, want)
	}

	reloaded := NewHistory(path)
	if err := reloaded.Load(); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if got := reloaded.Entries(); !slices.Equal(got, want) {
		t.Errorf("reloaded Entries() = %q, want %q", got, want)
	}
}

func TestHistory_Get(t *testing.T) {
	h := NewHistory("")
	_ = h.Add("first")
	_ = h.Add("second")

	tests := []struct {
		name    string
		index   int
		want    string
		wantErr error
	}{
		{"oldest", 0, "first", nil},
		{"newest", 1, "second", nil},
		{"negative", -1, "", ErrOutOfBounds},
		{"past_end", 2, "", ErrOutOfBounds},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := h.Get(tt.index)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Get(%d) error = %v, want %v", tt.index, err, tt.wantErr)
			}

			if got != tt.want {
				t.Errorf("Get(%d) = %q, want %q", tt.index, got, tt.want)
			}
		})
	}
}

func TestHistory_LoadMissing(t *testing.T) {
	h := NewHistory(filepath.Join(t.TempDir(), "missing"))
	if err := h.Load(); err != nil {
		t.Errorf("Load() error = %v, want nil", err)
	}

	if h.Len() != 0 {
		t.Errorf("Len() = %d, want 0", h.Len())
	}
}

func TestHistory_Limit(t *testing.T) {
	path := filepath.Join(t.TempDir(), baseHistory)
	h := NewHistory(path)

	for i := range maxHistory + 5 {
		if err := h.Add(strconv.Itoa(i)); err != nil {
			t.Fatalf("Add() error = %v", err)
		}
	}

	if h.Len() != maxHistory {
		t.Fatalf("Len() = %d, want %d", h.Len(), maxHistory)
	}

	if got, _ := h.Get(0); got != "5" {
		t.Errorf("oldest entry = %q, want %q", got, "5")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}

	reloaded := NewHistory(path)
	if err := reloaded.Load(); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if reloaded.Len() != maxHistory {
		t.Errorf("reloaded Len() = %d, want %d (file %d bytes)",
			reloaded.Len(), maxHistory, len(data))
	}
}
