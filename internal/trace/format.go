package trace

import (
	"encoding/json"
	"fmt"
	"slices"
	"strings"
	"time"
)

// Format is the encoding of a trace stream.
type Format uint8

const (
	FormatAuto   Format = iota // pick by output path
	FormatText                 // one indented line per event
	FormatNDJSON               // newline-delimited JSON
)

// ParseFormat reads a format name; "" and "auto" both mean FormatAuto.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "auto":
		return FormatAuto, nil
	case "text":
		return FormatText, nil
	case "ndjson", "json":
		return FormatNDJSON, nil
	default:
		return FormatAuto, fmt.Errorf("invalid trace format %q (expected auto|text|ndjson)", s)
	}
}

// FormatEvent encodes ev as one line, newline included.
func FormatEvent(ev *Event, format Format) []byte {
	if format == FormatNDJSON {
		return formatNDJSON(ev)
	}
	return formatText(ev)
}

type jsonEvent struct {
	Time      string         `json:"time"`
	Seq       uint64         `json:"seq"`
	Kind      string         `json:"kind"`
	Scope     string         `json:"scope"`
	SpanID    uint64         `json:"span_id"`
	ParentID  uint64         `json:"parent_id,omitempty"`
	Name      string         `json:"name"`
	Module    string         `json:"module,omitempty"`
	Function  string         `json:"function,omitempty"`
	ElapsedUS int64          `json:"elapsed_us,omitempty"`
	Outcome   string         `json:"outcome,omitempty"`
	Counts    map[string]int `json:"counts,omitempty"`
}

func formatNDJSON(ev *Event) []byte {
	data, _ := json.Marshal(jsonEvent{
		Time:      ev.Time.Format("2006-01-02T15:04:05.000000Z07:00"),
		Seq:       ev.Seq,
		Kind:      ev.Kind.String(),
		Scope:     ev.Scope.String(),
		SpanID:    ev.SpanID,
		ParentID:  ev.ParentID,
		Name:      ev.Name,
		Module:    ev.Module,
		Function:  ev.Function,
		ElapsedUS: ev.Elapsed.Microseconds(),
		Outcome:   ev.Outcome,
		Counts:    ev.Counts,
	})
	return append(data, '\n')
}

// formatText writes "[seq] scope  indent arrow name [module] elapsed outcome {counts}".
func formatText(ev *Event) []byte {
	var sb strings.Builder
	fmt.Fprintf(&sb, "[%06d] %-8s %s", ev.Seq, ev.Scope, strings.Repeat("  ", int(ev.Scope)-1))
	if ev.Kind == KindBegin {
		sb.WriteString("→ ")
	} else {
		sb.WriteString("← ")
	}
	sb.WriteString(ev.Name)
	if ev.Scope == ScopeModule && ev.Module != "" {
		fmt.Fprintf(&sb, " [%s]", ev.Module)
	}
	if ev.Kind == KindEnd {
		fmt.Fprintf(&sb, " %s %s", ev.Elapsed.Round(time.Microsecond), ev.Outcome)
	}
	if len(ev.Counts) > 0 {
		keys := make([]string, 0, len(ev.Counts))
		for k := range ev.Counts {
			keys = append(keys, k)
		}
		slices.Sort(keys)
		sb.WriteString(" {")
		for i, k := range keys {
			if i > 0 {
				sb.WriteString(", ")
			}
			fmt.Fprintf(&sb, "%s=%d", k, ev.Counts[k])
		}
		sb.WriteString("}")
	}
	sb.WriteString("\n")
	return []byte(sb.String())
}
