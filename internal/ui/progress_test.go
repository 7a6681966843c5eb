package ui

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"treelower/internal/driver"
)

func TestProgressModelTracksFiles(t *testing.T) {
	events := make(chan driver.FileEvent)
	m := NewProgressModel("lowering", []string{"a.kt", "b.kt"}, events).(*progressModel)

	m.apply(driver.FileEvent{Index: 0, Status: driver.StatusWorking, Worker: 2})
	if got := m.fraction(); got != 0.25 {
		t.Fatalf("fraction = %v, want 0.25", got)
	}
	if view := m.View(); !strings.Contains(view, "w2") {
		t.Errorf("working row should name its worker:\n%s", view)
	}
	m.apply(driver.FileEvent{Index: 0, Status: driver.StatusDone, Elapsed: 3 * time.Millisecond, Unresolved: 2})
	m.apply(driver.FileEvent{Index: 1, Status: driver.StatusError, Err: errors.New("boom")})
	m.apply(driver.FileEvent{Index: 1, Status: driver.StatusError})
	m.apply(driver.FileEvent{Index: 7, Status: driver.StatusDone})

	if m.finished() != 2 || m.failed != 1 || m.unresolved != 2 {
		t.Fatalf("finished=%d failed=%d unresolved=%d", m.finished(), m.failed, m.unresolved)
	}
	m.Update(doneMsg{})
	view := m.View()
	for _, want := range []string{"lowering 2/2", "2 unresolved", "1 failed", "a.kt", "b.kt", "3ms"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q:\n%s", want, view)
		}
	}
}

func TestVisibleRowsWindow(t *testing.T) {
	files := make([]string, 20)
	for i := range files {
		files[i] = fmt.Sprintf("f%02d.kt", i)
	}
	m := NewProgressModel("lowering", files, nil).(*progressModel)
	for i := 0; i < 3; i++ {
		m.apply(driver.FileEvent{Index: i, Status: driver.StatusDone})
	}
	m.apply(driver.FileEvent{Index: 3, Status: driver.StatusWorking, Worker: 1})

	shown, hidden := m.visibleRows()
	if len(shown) != maxRows || hidden != 20-maxRows {
		t.Fatalf("shown=%d hidden=%d", len(shown), hidden)
	}
	if shown[3].name != "f03.kt" || shown[4].status != driver.StatusQueued {
		t.Fatalf("started rows must come first: %+v", shown[:5])
	}
	if !strings.Contains(m.View(), "8 more queued") {
		t.Errorf("missing queued summary:\n%s", m.View())
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in    string
		width int
		want  string
	}{
		{"main.kt", 20, "main.kt"},
		{"very/long/path/to/main.kt", 10, "…o/main.kt"},
		{"abcdef", 1, "a"},
		{"abc", 0, "abc"},
	}
	for _, tt := range tests {
		if got := truncate(tt.in, tt.width); got != tt.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.in, tt.width, got, tt.want)
		}
	}
}
