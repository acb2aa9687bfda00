package diagfmt

import (
	"bytes"
	"strings"
	"testing"

	"github.com/cla7aye15I4nd/TypePython/internal/diag"
	"github.com/cla7aye15I4nd/TypePython/internal/source"
)

func spanOf(line, startCol, endCol uint32) source.Span {
	return source.Span{
		Start: source.LineCol{Line: line, Col: startCol},
		End:   source.LineCol{Line: line, Col: endCol},
	}
}

// TestPathModes проверяет различные режимы форматирования путей
func TestPathModes(t *testing.T) {
	src := NewSources("/home/user/project")
	src.AddVirtual("pkg.test", "/home/user/project/src/test.py", []byte("x = 1\nprint(y)\n"))

	bag := diag.NewBag(10)
	bag.Add(diag.New(diag.SevError, diag.SemaUndefinedVariable, "pkg.test", spanOf(2, 7, 8), "undefined variable y"))

	tests := []struct {
		name     string
		mode     PathMode
		contains string
	}{
		{name: "Absolute path", mode: PathModeAbsolute, contains: "/home/user/project/src/test.py:2:7"},
		{name: "Relative path", mode: PathModeRelative, contains: "src/test.py:2:7"},
		{name: "Basename only", mode: PathModeBasename, contains: "test.py:2:7"},
		{name: "Auto", mode: PathModeAuto, contains: "src/test.py:2:7"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			Pretty(&buf, bag, src, PrettyOpts{PathMode: tt.mode})
			output := buf.String()

			if !strings.Contains(output, tt.contains) {
				t.Errorf("Expected output to contain %q, got:\n%s", tt.contains, output)
			}
			if !strings.Contains(output, "ERROR SEM3001") {
				t.Errorf("Expected severity and code in output, got:\n%s", output)
			}
		})
	}
}

func TestCaretUnderSpan(t *testing.T) {
	src := NewSources("")
	src.AddVirtual("main", "main.py", []byte("total = count + 1\n"))
	bag := diag.NewBag(10)
	bag.Add(diag.New(diag.SevError, diag.SemaUndefinedVariable, "main", spanOf(1, 9, 14), "undefined variable count"))

	var buf bytes.Buffer
	Pretty(&buf, bag, src, PrettyOpts{})
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header, source and caret lines, got:\n%s", buf.String())
	}
	if !strings.HasSuffix(lines[1], "total = count + 1") {
		t.Fatalf("source line = %q", lines[1])
	}
	// "1 | " prefixes both lines; the caret starts under "count".
	if got, want := lines[2], "  |         ^~~~~"; got != want {
		t.Fatalf("caret line = %q, want %q", got, want)
	}
}

func TestCaretWideRunes(t *testing.T) {
	src := NewSources("")
	src.AddVirtual("main", "main.py", []byte("名前 = 值\n"))
	bag := diag.NewBag(10)
	bag.Add(diag.New(diag.SevError, diag.SemaUndefinedVariable, "main", spanOf(1, 6, 7), "undefined variable 值"))

	var buf bytes.Buffer
	Pretty(&buf, bag, src, PrettyOpts{})
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	// Two wide runes, a space, "=" and a space take seven columns.
	if got, want := lines[2], "  |        ^~"; got != want {
		t.Fatalf("caret line = %q, want %q", got, want)
	}
}

func TestNoPositionAndSummary(t *testing.T) {
	bag := diag.NewBag(10)
	bag.Add(diag.New(diag.SevError, diag.InferUnresolvedVar, "", source.Span{}, "cannot infer the element type of list[?1]"))
	bag.Add(diag.New(diag.SevError, diag.SemaUndefinedModule, "", source.Span{}, "entry module nope is not part of the program"))

	var buf bytes.Buffer
	Pretty(&buf, bag, nil, PrettyOpts{Summary: true})
	out := buf.String()
	if !strings.Contains(out, "<program>: ERROR SEM3032") {
		t.Fatalf("missing program-wide header:\n%s", out)
	}
	if !strings.HasSuffix(out, "2 errors\n") {
		t.Fatalf("missing summary:\n%s", out)
	}
}

func TestNotesAndColor(t *testing.T) {
	src := NewSources("")
	src.AddVirtual("main", "main.py", []byte("def f() -> int:\n    pass\n"))
	d := diag.New(diag.SevError, diag.SemaMissingReturn, "main", spanOf(1, 1, 4), "f must return int on every path")
	d.Notes = append(d.Notes, diag.Note{Span: spanOf(2, 5, 9), Msg: "the body ends here"})
	bag := diag.NewBag(10)
	bag.Add(d)

	var plain, colored bytes.Buffer
	Pretty(&plain, bag, src, PrettyOpts{ShowNotes: true})
	Pretty(&colored, bag, src, PrettyOpts{ShowNotes: true, Color: true})
	if !strings.Contains(plain.String(), "note: main.py:2:5: the body ends here") {
		t.Fatalf("missing note:\n%s", plain.String())
	}
	if strings.Contains(plain.String(), "\x1b[") {
		t.Fatal("plain output contains escape codes")
	}
	if !strings.Contains(colored.String(), "\x1b[") {
		t.Fatal("colored output has no escape codes")
	}
}

func TestWidthTruncates(t *testing.T) {
	src := NewSources("")
	src.AddVirtual("main", "main.py", []byte(strings.Repeat("x", 80)+"\n"))
	bag := diag.NewBag(10)
	bag.Add(diag.New(diag.SevError, diag.SemaUndefinedVariable, "main", spanOf(1, 1, 2), "undefined variable x"))

	var buf bytes.Buffer
	Pretty(&buf, bag, src, PrettyOpts{Width: 20})
	lines := strings.Split(buf.String(), "\n")
	if !strings.HasSuffix(lines[1], "…") || strings.Count(lines[1], "x") >= 20 {
		t.Fatalf("source line not truncated: %q", lines[1])
	}
}
