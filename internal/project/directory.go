package project

import (
	"sort"
	"sync"

	"treelower/internal/ir"
)

// Directory hands out one ir.PackageFragment per package name. Lowering of
// several files may ask for fragments concurrently.
type Directory struct {
	mu        sync.Mutex
	fragments map[string]*ir.PackageFragment
	declared  map[string]bool
}

// NewDirectory creates a directory seeded with the packages of m, which may
// be nil.
func NewDirectory(m *Manifest) *Directory {
	d := &Directory{
		fragments: make(map[string]*ir.PackageFragment),
		declared:  make(map[string]bool),
	}
	if m != nil {
		for _, name := range m.PackageNames() {
			d.declared[name] = true
			d.fragments[name] = &ir.PackageFragment{FqName: name}
		}
	}
	return d
}

// Fragment returns the fragment for fqName, creating it on first use.
func (d *Directory) Fragment(fqName string) *ir.PackageFragment {
	d.mu.Lock()
	defer d.mu.Unlock()
	if f, ok := d.fragments[fqName]; ok {
		return f
	}
	f := &ir.PackageFragment{FqName: fqName}
	d.fragments[fqName] = f
	return f
}

// Declared reports whether the manifest lists fqName. A directory built
// without a manifest declares nothing and checks nothing.
func (d *Directory) Declared(fqName string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.declared) == 0 || d.declared[fqName]
}

// Names lists every fragment handed out so far, sorted.
func (d *Directory) Names() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	names := make([]string, 0, len(d.fragments))
	for n := range d.fragments {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
