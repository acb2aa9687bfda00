package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cla7aye15I4nd/TypePython/internal/driver"
	"github.com/cla7aye15I4nd/TypePython/internal/observ"
	"github.com/cla7aye15I4nd/TypePython/internal/project"
)

var lowerCmd = &cobra.Command{
	Use:   "lower [flags] [files...]",
	Short: "Lower serialized module trees into a typed program",
	Long: `Lower loads serialized module trees (` + driver.TreeExt + `), checks and
infers them, and writes the typed program. Without file arguments the
inputs, entry and output come from ` + project.ManifestName + `.`,
	RunE: lowerExecution,
}

func init() {
	lowerCmd.Flags().String("entry", "", "entry module id")
	lowerCmd.Flags().StringP("output", "o", "", "write the program to this file")
	lowerCmd.Flags().Int("jobs", 0, "parallel decoders (0 = GOMAXPROCS)")
	lowerCmd.Flags().Bool("keep-all", false, "lower every loaded module, not only those the entry imports")
	lowerCmd.Flags().Bool("force", false, "lower even when the output is up to date")
	lowerCmd.Flags().Bool("dump", false, "print the lowered program")
	lowerCmd.Flags().String("format", "pretty", "diagnostics format (pretty|json)")
	lowerCmd.Flags().String("ui", "auto", "progress view (auto|on|off)")
}

// lowerSettings is the merged manifest and flag configuration.
type lowerSettings struct {
	files    []string
	entry    string
	output   string
	jobs     int
	maxDiags int
	color    string
	baseDir  string
	trace    project.TraceConfig
	format   string
	ui       uiMode
	keepAll  bool
	force    bool
	dump     bool
	quiet    bool
	timings  bool
}

func lowerExecution(cmd *cobra.Command, args []string) error {
	settings, err := readLowerSettings(cmd, args)
	if err != nil {
		return err
	}
	colorOut, err := useColor(settings.color, os.Stderr)
	if err != nil {
		return err
	}

	stopProfiles, err := setupProfiling(cmd)
	if err != nil {
		return err
	}
	defer stopProfiles()

	cleanup, err := setupTracing(cmd, settings.trace)
	if err != nil {
		return err
	}
	defer cleanup()

	var timer *observ.Timer
	if settings.timings {
		timer = observ.NewTimer()
	}
	cfg := driver.Config{
		Files:          settings.files,
		Entry:          settings.entry,
		Output:         settings.output,
		Jobs:           settings.jobs,
		KeepAll:        settings.keepAll,
		Force:          settings.force,
		MaxDiagnostics: settings.maxDiags,
		Timer:          timer,
	}

	var res *driver.Result
	if !settings.quiet && shouldUseTUI(settings.ui) {
		res, err = runBuildWithUI(cmd.Context(), "lower "+settings.entry, cfg)
	} else {
		res, err = driver.Build(cmd.Context(), cfg)
	}
	if err != nil {
		var sources map[string]string
		if res != nil {
			sources = res.Sources
		}
		return renderFailure(cmd, err, diagOutput{
			format:  settings.format,
			color:   colorOut,
			max:     settings.maxDiags,
			sources: newSources(settings.baseDir, sources),
		})
	}

	out := cmd.OutOrStdout()
	if !settings.quiet {
		switch {
		case res.UpToDate:
			fmt.Fprintf(out, "%s is up to date (%d modules)\n", settings.output, len(res.Modules))
		case settings.output != "":
			fmt.Fprintf(out, "lowered %d modules into %s\n", len(res.Modules), settings.output)
		default:
			fmt.Fprintf(out, "lowered %d modules\n", len(res.Modules))
		}
		if len(res.Cycles) > 0 {
			fmt.Fprintf(out, "import cycle: %s\n", strings.Join(res.Cycles, ", "))
		}
	}
	if settings.dump {
		prog := res.Program
		if prog == nil {
			if prog, err = driver.ReadProgram(settings.output); err != nil {
				return err
			}
		}
		if err := dumpProgram(out, prog, false); err != nil {
			return err
		}
	}
	if timer != nil {
		fmt.Fprint(cmd.ErrOrStderr(), timer.Summary())
	}
	return nil
}

func readLowerSettings(cmd *cobra.Command, args []string) (*lowerSettings, error) {
	root := cmd.Root().PersistentFlags()
	s := &lowerSettings{color: "auto"}

	// The manifest is optional once files are named on the command line.
	manifest, found, err := project.LoadManifest(".")
	if err != nil && len(args) == 0 {
		return nil, err
	}
	if found && err == nil {
		s.baseDir = manifest.Root
		s.entry = manifest.Config.Build.Entry
		s.jobs = manifest.Config.Build.Jobs
		s.maxDiags = manifest.Config.Diagnostics.Max
		s.trace = manifest.Config.Trace
		if manifest.Config.Diagnostics.Color != "" {
			s.color = manifest.Config.Diagnostics.Color
		}
		if manifest.Config.Build.Output != "" {
			s.output = manifest.Resolve(manifest.Config.Build.Output)
		}
		if len(args) == 0 {
			if s.files, err = manifest.InputFiles(); err != nil {
				return nil, err
			}
		}
	}
	if len(args) > 0 {
		s.files = args
		if s.baseDir == "" {
			s.baseDir, _ = os.Getwd()
		}
	}
	if !found && len(args) == 0 {
		return nil, fmt.Errorf("no input files and no %s found", project.ManifestName)
	}
	if len(s.files) == 0 {
		return nil, errors.New("no module trees to lower")
	}

	flags := cmd.Flags()
	if flags.Changed("entry") {
		s.entry, _ = flags.GetString("entry")
	}
	if s.entry == "" {
		if len(s.files) != 1 {
			return nil, errors.New("--entry is required with several input files")
		}
		s.entry = strings.TrimSuffix(filepath.Base(s.files[0]), filepath.Ext(s.files[0]))
	}
	if flags.Changed("output") {
		s.output, _ = flags.GetString("output")
	}
	if flags.Changed("jobs") {
		s.jobs, _ = flags.GetInt("jobs")
	}
	if root.Changed("max-diagnostics") || s.maxDiags == 0 {
		s.maxDiags, _ = root.GetInt("max-diagnostics")
	}
	if root.Changed("color") {
		s.color, _ = root.GetString("color")
	}
	s.keepAll, _ = flags.GetBool("keep-all")
	s.force, _ = flags.GetBool("force")
	s.dump, _ = flags.GetBool("dump")
	s.quiet, _ = root.GetBool("quiet")
	s.timings, _ = root.GetBool("timings")

	s.format, _ = flags.GetString("format")
	s.format = strings.ToLower(s.format)
	if s.format != "pretty" && s.format != "json" {
		return nil, fmt.Errorf("unsupported format %q (must be pretty or json)", s.format)
	}
	uiValue, _ := flags.GetString("ui")
	if s.ui, err = readUIMode(uiValue); err != nil {
		return nil, err
	}
	// JSON diagnostics go to stdout; keep the terminal view out of it.
	if s.format == "json" {
		s.ui = uiModeOff
	}
	return s, nil
}
