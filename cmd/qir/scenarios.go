package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"qir/internal/scenario"
)

func newScenariosCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "scenarios",
		Short: "List the scenarios emit can build",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			programs := scenario.All()
			width := 0
			for _, p := range programs {
				width = max(width, len(p.Name))
			}
			name := color.New(color.FgCyan)
			for _, p := range programs {
				padded := fmt.Sprintf("%-*s", width, p.Name)
				if _, err := fmt.Fprintf(cmd.OutOrStdout(), "%s  %s\n", name.Sprint(padded), p.Summary); err != nil {
					return err
				}
			}
			return nil
		},
	}
}
