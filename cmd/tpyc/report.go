package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/cla7aye15I4nd/TypePython/internal/diag"
	"github.com/cla7aye15I4nd/TypePython/internal/diagfmt"
)

// errReported marks a failure whose diagnostics were already printed.
var errReported = errors.New("diagnostics reported")

type diagOutput struct {
	format  string
	color   bool
	max     int
	sources *diagfmt.Sources
}

func newSources(baseDir string, files map[string]string) *diagfmt.Sources {
	src := diagfmt.NewSources(baseDir)
	for module, path := range files {
		src.AddFile(module, path)
	}
	return src
}

// renderFailure prints the diagnostics carried by err. Other errors are
// returned unchanged.
func renderFailure(cmd *cobra.Command, err error, out diagOutput) error {
	var de *diag.Error
	if !errors.As(err, &de) {
		return err
	}
	bag := diag.NewBag(len(de.Diagnostics()))
	for _, d := range de.Diagnostics() {
		bag.Add(d)
	}
	bag.Sort()

	if out.format == "json" {
		opts := diagfmt.JSONOpts{IncludePositions: true, PathMode: diagfmt.PathModeRelative, Max: out.max, IncludeNotes: true}
		if jerr := diagfmt.JSON(cmd.OutOrStdout(), bag, out.sources, opts); jerr != nil {
			return jerr
		}
		return errReported
	}
	diagfmt.Pretty(cmd.ErrOrStderr(), bag, out.sources, diagfmt.PrettyOpts{
		Color:     out.color,
		Context:   1,
		PathMode:  diagfmt.PathModeAuto,
		ShowNotes: true,
		Summary:   true,
	})
	return errReported
}

// reportError prints a command failure that was not rendered yet.
func reportError(w io.Writer, err error) {
	if errors.Is(err, errReported) {
		return
	}
	prefix := color.New(color.FgRed, color.Bold)
	if !isTerminal(os.Stderr) {
		prefix.DisableColor()
	}
	fmt.Fprintf(w, "%s %v\n", prefix.Sprint("error:"), err)
}
