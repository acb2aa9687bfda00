package project

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"
)

// Manifest is a loaded typepython.toml.
type Manifest struct {
	Path   string
	Root   string
	Config Config
}

// Config mirrors the manifest layout:
//
//	[package]
//	name = "demo"
//
//	[build]
//	entry = "main"
//	inputs = ["build/ast/*.tpyast"]
//	output = "build/demo.tir"
//
//	[trace]
//	level = "phase"
//	output = "trace.ndjson"
//
//	[diagnostics]
//	max = 50
//	color = "auto"
type Config struct {
	Package     PackageConfig     `toml:"package"`
	Build       BuildConfig       `toml:"build"`
	Trace       TraceConfig       `toml:"trace"`
	Diagnostics DiagnosticsConfig `toml:"diagnostics"`
}

type PackageConfig struct {
	Name string `toml:"name"`
}

type BuildConfig struct {
	Entry  string   `toml:"entry"`
	Inputs []string `toml:"inputs"`
	Output string   `toml:"output"`
	// Jobs bounds parallel decoding; zero means GOMAXPROCS.
	Jobs int `toml:"jobs"`
}

type TraceConfig struct {
	Level  string `toml:"level"`
	Output string `toml:"output"`
	Format string `toml:"format"`
}

type DiagnosticsConfig struct {
	Max   int    `toml:"max"`
	Color string `toml:"color"`
}

// DefaultInputs is used when [build].inputs is absent.
var DefaultInputs = []string{"*.tpyast"}

// LoadManifest finds and loads the manifest above startDir. ok is false
// when there is none.
func LoadManifest(startDir string) (*Manifest, bool, error) {
	manifestPath, ok, err := FindManifest(startDir)
	if err != nil || !ok {
		return nil, ok, err
	}
	cfg, err := LoadConfig(manifestPath)
	if err != nil {
		return nil, true, err
	}
	return &Manifest{
		Path:   manifestPath,
		Root:   filepath.Dir(manifestPath),
		Config: cfg,
	}, true, nil
}

// LoadConfig parses and validates one manifest file.
func LoadConfig(path string) (Config, error) {
	var cfg Config
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return Config{}, fmt.Errorf("%s: unknown key %s", path, undecoded[0])
	}
	if !meta.IsDefined("package") {
		return Config{}, fmt.Errorf("%s: missing [package]", path)
	}
	if !meta.IsDefined("package", "name") || strings.TrimSpace(cfg.Package.Name) == "" {
		return Config{}, fmt.Errorf("%s: missing [package].name", path)
	}
	if !meta.IsDefined("build", "entry") || strings.TrimSpace(cfg.Build.Entry) == "" {
		return Config{}, fmt.Errorf("%s: missing [build].entry", path)
	}
	if !IsValidModuleName(cfg.Build.Entry) {
		return Config{}, fmt.Errorf("%s: [build].entry %q is not a module name", path, cfg.Build.Entry)
	}
	if cfg.Build.Jobs < 0 {
		return Config{}, fmt.Errorf("%s: [build].jobs must not be negative", path)
	}
	if cfg.Diagnostics.Max < 0 {
		return Config{}, fmt.Errorf("%s: [diagnostics].max must not be negative", path)
	}
	switch cfg.Diagnostics.Color {
	case "", "auto", "on", "off":
	default:
		return Config{}, fmt.Errorf("%s: [diagnostics].color must be auto, on or off", path)
	}
	if len(cfg.Build.Inputs) == 0 {
		cfg.Build.Inputs = DefaultInputs
	}
	return cfg, nil
}

// Resolve joins a manifest-relative path onto the project root.
func (m *Manifest) Resolve(rel string) string {
	if rel == "" || filepath.IsAbs(rel) {
		return rel
	}
	return filepath.Join(m.Root, filepath.FromSlash(rel))
}

// InputFiles expands [build].inputs into a sorted, duplicate-free file list.
func (m *Manifest) InputFiles() ([]string, error) {
	return ExpandInputs(m.Root, m.Config.Build.Inputs)
}

// ExpandInputs expands glob patterns relative to root. A pattern without
// glob characters must name an existing file.
func ExpandInputs(root string, patterns []string) ([]string, error) {
	var out []string
	for _, p := range patterns {
		full := p
		if !filepath.IsAbs(full) {
			full = filepath.Join(root, filepath.FromSlash(p))
		}
		matches, err := filepath.Glob(full)
		if err != nil {
			return nil, fmt.Errorf("bad input pattern %q: %w", p, err)
		}
		if len(matches) == 0 && !strings.ContainsAny(p, "*?[") {
			if _, err := os.Stat(full); err != nil {
				return nil, fmt.Errorf("input %q: %w", p, err)
			}
			matches = []string{full}
		}
		for _, match := range matches {
			if info, err := os.Stat(match); err == nil && !info.IsDir() {
				out = append(out, match)
			}
		}
	}
	slices.Sort(out)
	return slices.Compact(out), nil
}
