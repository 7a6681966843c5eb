// Package astio reads and writes Source Tree snapshots (.astpack).
//
// A snapshot is a msgpack document holding one or more ast.File trees and,
// optionally, the source text their spans point into. Span file ids inside a
// snapshot index its Sources list; Decode re-registers the sources in a
// source.FileSet and remaps every span to the new ids.
//
// Constant values are normalized on decode: integral kinds become int64,
// Char becomes rune, Float and Double become float64.
package astio
