// Package testkit holds checks shared by tests of several packages.
package testkit

import (
	"fmt"

	"fortio.org/safecast"

	"treelower/internal/ast"
	"treelower/internal/source"
)

// CheckSpanInvariants verifies the spans of a source tree against the text
// it was built from:
//  1. the file span is non-empty, points at sf and lies within its content
//  2. every declaration span is non-empty and inside the file span
//  3. every nested node with a non-empty span points at sf and stays inside
//     its declaration
func CheckSpanInvariants(f *ast.File, sf *source.File) error {
	if f == nil || sf == nil {
		return fmt.Errorf("nil tree or source file")
	}
	if f.Span.End <= f.Span.Start {
		return fmt.Errorf("file span is empty: %v", f.Span)
	}
	if f.Span.File != sf.ID {
		return fmt.Errorf("file span points to different file id: got=%d want=%d", f.Span.File, sf.ID)
	}
	lenContent, err := safecast.Conv[uint32](len(sf.Content))
	if err != nil {
		return fmt.Errorf("len content overflow: %w", err)
	}
	if f.Span.End > lenContent {
		return fmt.Errorf("file span end beyond content: %d > %d", f.Span.End, lenContent)
	}

	for _, d := range f.Declarations {
		sp := d.Pos()
		if sp.End <= sp.Start {
			return fmt.Errorf("empty declaration span: %v", sp)
		}
		if !f.Span.Contains(sp) {
			return fmt.Errorf("declaration span %v is outside file span %v", sp, f.Span)
		}
		var bad error
		ast.Walk(d, func(e ast.Element) bool {
			inner := e.Pos()
			if bad != nil {
				return false
			}
			if inner.Empty() {
				return true
			}
			if inner.File != sf.ID {
				bad = fmt.Errorf("span %v of %T points to file %d, want %d", inner, e, inner.File, sf.ID)
				return false
			}
			if !sp.Contains(inner) {
				bad = fmt.Errorf("span %v of %T is outside its declaration %v", inner, e, sp)
				return false
			}
			return true
		})
		if bad != nil {
			return bad
		}
	}
	return nil
}
