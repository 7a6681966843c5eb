package source

import "testing"

func TestSkipLeadingComments(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want uint32
	}{
		{name: "no trivia", src: "val x = 1", want: 0},
		{name: "spaces and newlines", src: "  \n\tval x", want: 4},
		{name: "line comment", src: "// note\nval x", want: 8},
		{name: "block comment", src: "/* a */ val x", want: 8},
		{name: "nested block comment", src: "/* a /* b */ c */val", want: 17},
		{name: "doc comment then line comment", src: "/** doc */\n// x\nfun f()", want: 16},
		{name: "unterminated block comment", src: "/* open", want: 7},
		{name: "only whitespace", src: "   ", want: 3},
		{name: "slash is not a comment", src: "/x", want: 0},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			content := []byte(tt.src)
			got := SkipLeadingComments(content, 0, uint32(len(content)))
			if got != tt.want {
				t.Errorf("SkipLeadingComments(%q) = %d, want %d", tt.src, got, tt.want)
			}
		})
	}
}

func TestSkipLeadingCommentsStaysInRange(t *testing.T) {
	content := []byte("// comment that runs past the node end\nval x")
	if got := SkipLeadingComments(content, 0, 5); got != 5 {
		t.Errorf("expected skip to stop at range end 5, got %d", got)
	}
}

func TestPositionsRange(t *testing.T) {
	fs := NewFileSet()
	id := fs.Add("a.kt", []byte("// header\nval x = 1\n"))
	p := NewPositions(fs)

	got := p.Range(Span{File: id, Start: 0, End: 19})
	want := Span{File: id, Start: 10, End: 19}
	if got != want {
		t.Errorf("Range = %v, want %v", got, want)
	}
}

func TestPositionsWithoutText(t *testing.T) {
	sp := Span{File: 3, Start: 4, End: 9}
	if got := NewPositions(nil).Range(sp); got != sp {
		t.Errorf("expected raw span without file set, got %v", got)
	}
	if got := NewPositions(NewFileSet()).Range(sp); got != sp {
		t.Errorf("expected raw span for unknown file, got %v", got)
	}
}
