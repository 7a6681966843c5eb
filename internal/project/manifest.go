package project

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"

	"treelower/internal/ast"
	"treelower/internal/resolve"
)

// Manifest is a parsed treelower.toml.
//
//	[module]
//	name = "demo"
//
//	[lower]
//	inputs = ["build/trees/*.astpack"]
//	jobs = 4
//
//	[[package]]
//	name = "demo.app"
//
//	[[external]]
//	package = "kotlin.io"
//	name = "println"
//	kind = "function"
//	arity = 1
type Manifest struct {
	Path   string
	Root   string
	Config Config
}

type Config struct {
	Module    ModuleConfig     `toml:"module"`
	Lower     LowerConfig      `toml:"lower"`
	Packages  []PackageConfig  `toml:"package"`
	Externals []ExternalConfig `toml:"external"`
}

type ModuleConfig struct {
	Name string `toml:"name"`
}

type LowerConfig struct {
	Inputs []string `toml:"inputs"`
	Jobs   int      `toml:"jobs"`
	Verify bool     `toml:"verify"`
}

type PackageConfig struct {
	Name string `toml:"name"`
}

// External kinds.
const (
	ExternalFunction = "function"
	ExternalProperty = "property"
)

// ExternalConfig declares a callable that no lowered file provides but that
// references may resolve to.
type ExternalConfig struct {
	Package string `toml:"package"`
	Name    string `toml:"name"`
	Kind    string `toml:"kind"`
	Arity   int    `toml:"arity"`
}

// LoadManifest parses and validates the manifest at path.
func LoadManifest(path string) (*Manifest, error) {
	var cfg Config
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if !meta.IsDefined("module") {
		return nil, fmt.Errorf("%s: missing [module]", path)
	}
	if !meta.IsDefined("module", "name") || strings.TrimSpace(cfg.Module.Name) == "" {
		return nil, fmt.Errorf("%s: missing [module].name", path)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("%s: unknown key %s", path, undecoded[0])
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &Manifest{
		Path:   path,
		Root:   filepath.Dir(path),
		Config: cfg,
	}, nil
}

func (cfg *Config) validate() error {
	if cfg.Lower.Jobs < 0 {
		return fmt.Errorf("[lower].jobs must not be negative, got %d", cfg.Lower.Jobs)
	}
	seen := make(map[string]bool, len(cfg.Packages))
	for i, p := range cfg.Packages {
		if !IsValidPackageName(p.Name) {
			return fmt.Errorf("[[package]] #%d: invalid name %q", i+1, p.Name)
		}
		if seen[p.Name] {
			return fmt.Errorf("[[package]] #%d: duplicate package %q", i+1, p.Name)
		}
		seen[p.Name] = true
	}
	for i, e := range cfg.Externals {
		if !IsValidPackageName(e.Package) {
			return fmt.Errorf("[[external]] #%d: invalid package %q", i+1, e.Package)
		}
		if !IsValidIdent(e.Name) {
			return fmt.Errorf("[[external]] #%d: invalid name %q", i+1, e.Name)
		}
		switch e.Kind {
		case ExternalFunction:
			if e.Arity < 0 {
				return fmt.Errorf("[[external]] %s.%s: arity must not be negative", e.Package, e.Name)
			}
		case ExternalProperty:
			if e.Arity != 0 {
				return fmt.Errorf("[[external]] %s.%s: a property has no arity", e.Package, e.Name)
			}
		default:
			return fmt.Errorf("[[external]] %s.%s: kind must be %q or %q, got %q",
				e.Package, e.Name, ExternalFunction, ExternalProperty, e.Kind)
		}
	}
	return nil
}

// PackageNames lists the declared packages in sorted order.
func (m *Manifest) PackageNames() []string {
	names := make([]string, 0, len(m.Config.Packages))
	for _, p := range m.Config.Packages {
		names = append(names, p.Name)
	}
	sort.Strings(names)
	return names
}

// RegisterExternals adds every [[external]] entry to ix.
func (m *Manifest) RegisterExternals(ix *resolve.Index) {
	for _, e := range m.Config.Externals {
		id := ast.CallableID{Package: e.Package, Name: e.Name}
		if e.Kind == ExternalProperty {
			ix.AddProperty(id)
			continue
		}
		ix.AddFunction(id, e.Arity)
	}
}

// Inputs expands [lower].inputs relative to the manifest directory.
func (m *Manifest) Inputs() ([]string, error) {
	var out []string
	for _, pattern := range m.Config.Lower.Inputs {
		if !filepath.IsAbs(pattern) {
			pattern = filepath.Join(m.Root, filepath.FromSlash(pattern))
		}
		matches, err := filepath.Glob(pattern)
		if err != nil {
			return nil, fmt.Errorf("%s: bad input pattern %q: %w", m.Path, pattern, err)
		}
		sort.Strings(matches)
		out = append(out, matches...)
	}
	return out, nil
}
