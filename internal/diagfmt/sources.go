package diagfmt

import (
	"os"
	"path/filepath"
	"strings"
)

// Sources maps module ids to the files they were parsed from. Diagnostics
// only carry a module id and a line/column span, so rendering context
// lines needs the text back. Files are read lazily, once.
type Sources struct {
	baseDir string
	files   map[string]*sourceFile
}

type sourceFile struct {
	path   string
	lines  []string
	loaded bool
}

// NewSources creates an empty set; baseDir anchors relative paths.
func NewSources(baseDir string) *Sources {
	return &Sources{baseDir: baseDir, files: make(map[string]*sourceFile)}
}

// AddFile registers module as parsed from path. The file is read on first use.
func (s *Sources) AddFile(module, path string) {
	s.files[module] = &sourceFile{path: path}
}

// AddVirtual registers in-memory content for module.
func (s *Sources) AddVirtual(module, path string, content []byte) {
	s.files[module] = &sourceFile{path: path, lines: splitLines(content), loaded: true}
}

// Path formats the path of module according to mode. Unknown modules
// render as their id.
func (s *Sources) Path(module string, mode PathMode) string {
	if s == nil {
		return module
	}
	f, ok := s.files[module]
	if !ok || f.path == "" {
		return module
	}
	switch mode {
	case PathModeAbsolute:
		if abs, err := filepath.Abs(f.path); err == nil {
			return abs
		}
	case PathModeRelative:
		if rel, err := filepath.Rel(s.baseDir, f.path); err == nil && s.baseDir != "" {
			return rel
		}
	case PathModeBasename:
		return filepath.Base(f.path)
	case PathModeAuto:
		if s.baseDir != "" {
			if rel, err := filepath.Rel(s.baseDir, f.path); err == nil && !strings.HasPrefix(rel, "..") {
				return rel
			}
		}
		if filepath.IsAbs(f.path) && strings.Count(f.path, string(filepath.Separator)) > 4 {
			return filepath.Base(f.path)
		}
	}
	return f.path
}

// Line returns line n (1-based) of module.
func (s *Sources) Line(module string, n uint32) (string, bool) {
	if s == nil || n == 0 {
		return "", false
	}
	f, ok := s.files[module]
	if !ok {
		return "", false
	}
	if !f.loaded {
		f.loaded = true
		if content, err := os.ReadFile(f.path); err == nil {
			f.lines = splitLines(content)
		}
	}
	if int(n) > len(f.lines) {
		return "", false
	}
	return f.lines[n-1], true
}

func splitLines(content []byte) []string {
	if len(content) == 0 {
		return nil
	}
	text := strings.ReplaceAll(string(content), "\r\n", "\n")
	return strings.Split(strings.TrimRight(text, "\n"), "\n")
}
