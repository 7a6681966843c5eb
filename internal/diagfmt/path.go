package diagfmt

import (
	"path/filepath"
	"strings"

	"treelower/internal/source"
)

const autoPathLimit = 40

func formatPath(path string, mode PathMode, base string) string {
	switch mode {
	case PathModeAbsolute:
		if abs, err := filepath.Abs(path); err == nil {
			return filepath.ToSlash(abs)
		}
		return path
	case PathModeRelative:
		if rel, ok := relativeTo(path, base); ok {
			return rel
		}
		return path
	case PathModeBasename:
		return filepath.Base(path)
	default:
		if rel, ok := relativeTo(path, base); ok {
			return rel
		}
		if filepath.IsAbs(path) && len(path) > autoPathLimit {
			return filepath.Base(path)
		}
		return path
	}
}

func relativeTo(path, base string) (string, bool) {
	if base == "" || !filepath.IsAbs(path) {
		return "", false
	}
	rel, err := filepath.Rel(base, path)
	if err != nil || rel == ".." || strings.HasPrefix(rel, "../") {
		return "", false
	}
	return filepath.ToSlash(rel), true
}

// hasLocation reports whether sp points into a file of fs. The zero span is
// used by diagnostics that concern no source text at all.
func hasLocation(sp source.Span, fs *source.FileSet) bool {
	if sp == (source.Span{}) {
		return false
	}
	return fs.Get(sp.File) != nil
}
