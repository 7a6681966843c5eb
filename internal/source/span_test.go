package source

import "testing"

func TestSpanCover(t *testing.T) {
	tests := []struct {
		name     string
		a, b     Span
		expected Span
	}{
		{
			name:     "disjoint spans",
			a:        Span{File: 1, Start: 10, End: 20},
			b:        Span{File: 1, Start: 30, End: 40},
			expected: Span{File: 1, Start: 10, End: 40},
		},
		{
			name:     "contained span",
			a:        Span{File: 1, Start: 10, End: 40},
			b:        Span{File: 1, Start: 15, End: 20},
			expected: Span{File: 1, Start: 10, End: 40},
		},
		{
			name:     "different files keep receiver",
			a:        Span{File: 1, Start: 10, End: 20},
			b:        Span{File: 2, Start: 0, End: 50},
			expected: Span{File: 1, Start: 10, End: 20},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Cover(tt.b); got != tt.expected {
				t.Errorf("Cover() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestSpanContains(t *testing.T) {
	outer := Span{File: 1, Start: 0, End: 100}
	if !outer.Contains(Span{File: 1, Start: 10, End: 100}) {
		t.Error("expected inner span to be contained")
	}
	if outer.Contains(Span{File: 1, Start: 10, End: 101}) {
		t.Error("span past end must not be contained")
	}
	if outer.Contains(Span{File: 2, Start: 10, End: 20}) {
		t.Error("span from another file must not be contained")
	}
}

func TestSpanWithStart(t *testing.T) {
	sp := Span{File: 1, Start: 2, End: 8}
	if got := sp.WithStart(5); got.Start != 5 || got.End != 8 {
		t.Errorf("WithStart(5) = %v", got)
	}
	if got := sp.WithStart(20); got.Start != 8 || !got.Empty() {
		t.Errorf("WithStart past end should clamp, got %v", got)
	}
}
