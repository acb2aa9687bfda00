package main

import (
	"bufio"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/cla7aye15I4nd/TypePython/internal/driver"
	"github.com/cla7aye15I4nd/TypePython/internal/tir"
)

var dumpCmd = &cobra.Command{
	Use:   "dump [flags] <program>",
	Short: "Print a lowered program",
	Args:  cobra.ExactArgs(1),
	RunE:  dumpExecution,
}

func init() {
	dumpCmd.Flags().Bool("runtime", false, "include runtime functions and built-in classes")
	dumpCmd.Flags().Bool("deps", false, "print the lowered modules in import order instead")
}

func dumpExecution(cmd *cobra.Command, args []string) error {
	path := args[0]
	deps, err := cmd.Flags().GetBool("deps")
	if err != nil {
		return err
	}
	if deps {
		stamp, ok, err := driver.ReadStamp(path)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("%s has no build stamp", path)
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "entry %s (%s)\n", stamp.Entry, stamp.Digest.String()[:12])
		for _, m := range stamp.Modules {
			fmt.Fprintf(out, "  %s\n", m)
		}
		return nil
	}

	runtime, err := cmd.Flags().GetBool("runtime")
	if err != nil {
		return err
	}
	prog, err := driver.ReadProgram(path)
	if err != nil {
		return err
	}
	return dumpProgram(cmd.OutOrStdout(), prog, runtime)
}

func dumpProgram(w io.Writer, prog *tir.Program, runtime bool) error {
	bw := bufio.NewWriter(w)
	if err := tir.Dump(bw, prog, tir.DumpOptions{Runtime: runtime}); err != nil {
		return err
	}
	return bw.Flush()
}
