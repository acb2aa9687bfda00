package trace

import (
	"fmt"
	"io"
	"os"
	"strings"
)

// Tracer receives span events. Implementations must be safe for use from
// the loader's worker goroutines.
type Tracer interface {
	Emit(ev *Event)
	Level() Level
	// Close flushes buffered events and releases the output.
	Close() error
}

// Config describes a tracer.
type Config struct {
	Level  Level
	Format Format // FormatAuto picks by OutputPath
	// Output wins over OutputPath. An empty path or "-" means stderr.
	Output     io.Writer
	OutputPath string
}

// New returns a tracer for cfg, or Nop when the level is off.
func New(cfg Config) (Tracer, error) {
	if cfg.Level == LevelOff {
		return Nop, nil
	}
	format := cfg.Format
	if format == FormatAuto {
		format = formatFor(cfg.OutputPath)
	}
	w := cfg.Output
	if w == nil {
		if cfg.OutputPath == "" || cfg.OutputPath == "-" {
			w = os.Stderr
		} else {
			f, err := os.Create(cfg.OutputPath)
			if err != nil {
				return nil, fmt.Errorf("open trace output: %w", err)
			}
			w = f
		}
	}
	return NewStreamTracer(w, cfg.Level, format), nil
}

func formatFor(path string) Format {
	if strings.HasSuffix(path, ".ndjson") || strings.HasSuffix(path, ".jsonl") {
		return FormatNDJSON
	}
	return FormatText
}
