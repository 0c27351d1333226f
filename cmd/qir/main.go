package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"qir/internal/ice"
	"qir/internal/version"
)

const exitInternalError = 2

var iceColor = color.New(color.FgRed, color.Bold)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "qir",
		Short:         "Emit LLVM IR for quantum value-layer scenarios",
		Long:          `qir lowers built-in sample programs through the value layer and prints the resulting LLVM IR`,
		Version:       version.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return applyColorMode(cmd)
		},
	}

	root.AddCommand(newEmitCmd())
	root.AddCommand(newScenariosCmd())
	root.AddCommand(newVersionCmd())

	root.PersistentFlags().String("color", "auto", "colorize output (auto|on|off)")
	root.PersistentFlags().String("trace", "", "trace output file (- for stderr)")
	root.PersistentFlags().String("trace-level", "", "trace level (off|error|phase|detail|debug)")
	root.PersistentFlags().String("trace-mode", "", "trace storage (stream|ring|both)")
	root.PersistentFlags().String("trace-format", "", "trace format (text|ndjson)")
	root.PersistentFlags().Int("trace-ring-size", 0, "events kept by the ring tracer")
	return root
}

func main() {
	os.Exit(execute(newRootCmd(), os.Args[1:], os.Stderr))
}

// execute runs the command tree and maps failures to exit codes: 2 for
// internal compiler errors, 1 for everything else.
func execute(root *cobra.Command, args []string, stderr io.Writer) int {
	root.SetArgs(args)
	err := root.Execute()
	if err == nil {
		return 0
	}
	if e, ok := ice.As(err); ok {
		iceColor.Fprintln(stderr, e.Error())
		return exitInternalError
	}
	fmt.Fprintf(stderr, "error: %v\n", err)
	return 1
}

func applyColorMode(cmd *cobra.Command) error {
	mode, err := cmd.Root().PersistentFlags().GetString("color")
	if err != nil {
		return err
	}
	switch mode {
	case "auto":
		color.NoColor = !isTerminal(os.Stdout)
	case "on":
		color.NoColor = false
	case "off":
		color.NoColor = true
	default:
		return errors.New("--color must be auto, on or off")
	}
	return nil
}

// isTerminal reports whether f is attached to a terminal.
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
