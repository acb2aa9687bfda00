package main

import (
	"encoding/json"
	"fmt"
	"io"
	"runtime"
	"runtime/debug"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cla7aye15I4nd/TypePython/internal/driver"
	"github.com/cla7aye15I4nd/TypePython/internal/symbols"
	"github.com/cla7aye15I4nd/TypePython/internal/version"
)

type versionOptions struct {
	format      string
	showHash    bool
	showMessage bool
	showDate    bool
	showDeps    bool
}

// versionPayload is what `tpyc version --format=json` prints.
type versionPayload struct {
	Tool        string       `json:"tool"`
	Version     string       `json:"version"`
	GoVersion   string       `json:"go_version"`
	Module      string       `json:"module,omitempty"`
	StampSchema uint16       `json:"stamp_schema"`
	Builtins    builtinStats `json:"builtins"`
	GitCommit   string       `json:"git_commit,omitempty"`
	GitMessage  string       `json:"git_message,omitempty"`
	BuildDate   string       `json:"build_date,omitempty"`
	Modified    bool         `json:"modified,omitempty"`
	Deps        []depInfo    `json:"deps,omitempty"`
}

// builtinStats counts the non-generic built-in classes and the runtime
// functions behind their methods.
type builtinStats struct {
	Classes   int `json:"classes"`
	Functions int `json:"functions"`
}

func countBuiltins() builtinStats {
	table := symbols.NewTable()
	for _, name := range symbols.PlainBuiltins {
		table.BuiltinClass(name)
	}
	return builtinStats{Classes: table.NumClasses(), Functions: table.NumFuncs()}
}

type depInfo struct {
	Path    string `json:"path"`
	Version string `json:"version"`
}

var (
	versionFormat      string
	versionShowHash    bool
	versionShowMessage bool
	versionShowDate    bool
	versionShowDeps    bool
	versionShowFull    bool
)

func init() {
	versionCmd.Flags().BoolVar(&versionShowHash, "hash", false, "include git commit hash")
	versionCmd.Flags().BoolVar(&versionShowMessage, "message", false, "include git commit message")
	versionCmd.Flags().BoolVar(&versionShowDate, "date", false, "include build timestamp")
	versionCmd.Flags().BoolVar(&versionShowDeps, "deps", false, "list the modules tpyc was built with")
	versionCmd.Flags().BoolVar(&versionShowFull, "full", false, "show every recorded bit of build metadata")
	versionCmd.Flags().StringVar(&versionFormat, "format", "pretty", "output format (pretty|json)")
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show tpyc build information and output formats",
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := versionOptions{
			format:      strings.ToLower(versionFormat),
			showHash:    versionShowHash || versionShowFull,
			showMessage: versionShowMessage || versionShowFull,
			showDate:    versionShowDate || versionShowFull,
			showDeps:    versionShowDeps || versionShowFull,
		}

		switch opts.format {
		case "pretty", "json":
		default:
			return fmt.Errorf("unsupported format %q (must be pretty or json)", versionFormat)
		}

		payload := collectVersion(opts)
		if opts.format == "json" {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(payload)
		}
		renderVersionPretty(cmd.OutOrStdout(), payload, opts)
		return nil
	},
}

// collectVersion merges the -ldflags metadata with what the Go toolchain
// stamped into the binary. Flags win; VCS settings fill the gaps.
func collectVersion(opts versionOptions) versionPayload {
	v := strings.TrimSpace(version.Version)
	if v == "" {
		v = "dev"
	}
	p := versionPayload{
		Tool:        "tpyc",
		Version:     v,
		GoVersion:   runtime.Version(),
		StampSchema: driver.StampSchema,
		Builtins:    countBuiltins(),
	}
	commit := strings.TrimSpace(version.GitCommit)
	date := strings.TrimSpace(version.BuildDate)
	var deps []depInfo
	if bi, ok := debug.ReadBuildInfo(); ok {
		p.Module = bi.Main.Path
		for _, s := range bi.Settings {
			switch s.Key {
			case "vcs.revision":
				if commit == "" {
					commit = s.Value
				}
			case "vcs.time":
				if date == "" {
					date = s.Value
				}
			case "vcs.modified":
				p.Modified = s.Value == "true"
			}
		}
		for _, d := range bi.Deps {
			if d.Replace != nil {
				d = d.Replace
			}
			deps = append(deps, depInfo{Path: d.Path, Version: d.Version})
		}
	}
	if opts.showHash {
		p.GitCommit = valueOrUnknown(commit)
	}
	if opts.showMessage {
		p.GitMessage = valueOrUnknown(strings.TrimSpace(version.GitMessage))
	}
	if opts.showDate {
		p.BuildDate = valueOrUnknown(date)
	}
	if opts.showDeps {
		p.Deps = deps
	}
	return p
}

func renderVersionPretty(out io.Writer, p versionPayload, opts versionOptions) {
	fmt.Fprintf(out, "tpyc %s (%s)\n", version.Pretty(), p.GoVersion)
	if p.Module != "" {
		fmt.Fprintf(out, "module:   %s\n", p.Module)
	}
	fmt.Fprintf(out, "output:   msgpack program, stamp schema %d\n", p.StampSchema)
	fmt.Fprintf(out, "builtins: %d classes, %d functions\n", p.Builtins.Classes, p.Builtins.Functions)
	if opts.showHash {
		commit := p.GitCommit
		if p.Modified {
			commit += " (modified)"
		}
		fmt.Fprintf(out, "commit:   %s\n", commit)
	}
	if opts.showMessage {
		fmt.Fprintf(out, "message:  %s\n", p.GitMessage)
	}
	if opts.showDate {
		fmt.Fprintf(out, "built:    %s\n", p.BuildDate)
	}
	if opts.showDeps {
		for _, d := range p.Deps {
			fmt.Fprintf(out, "dep:      %s %s\n", d.Path, d.Version)
		}
	}
}

func valueOrUnknown(s string) string {
	if s == "" {
		return "unknown"
	}
	return s
}
