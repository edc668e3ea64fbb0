package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"casement/internal/control"
)

func newListCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List open editor windows",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *control.Client) error {
				windows, err := client.ListWindows()
				if err != nil {
					return err
				}
				if jsonOutput {
					return writeJSON(cmd, windows)
				}

				stdout := cmd.OutOrStdout()
				if len(windows) == 0 {
					fmt.Fprintln(stdout, "No windows open")
					return nil
				}
				colorize := shouldColorize(stdout)
				rows := make([][]string, 0, len(windows))
				for _, w := range windows {
					active := yesNo(w.IsActive)
					if w.IsActive {
						active = colorizeActive(active, colorize)
					}
					rows = append(rows, []string{w.WindowID, active})
				}
				fmt.Fprintln(stdout, renderTable(
					[]string{"Window", "Active"},
					rows,
					[]columnAlignment{alignRight, alignLeft},
				))
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}

func newActivateCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "activate <window-id>",
		Short: "Bring a window to the foreground",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *control.Client) error {
				if err := client.ActivateWindow(args[0]); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Window %s activated\n", args[0])
				return nil
			})
		},
	}
}

func newNewCommand(ctx *commandContext) *cobra.Command {
	var nvimArgs []string
	cmd := &cobra.Command{
		Use:   "new",
		Short: "Open a new editor window",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *control.Client) error {
				extra := append(append([]string{}, nvimArgs...), args...)
				windowID, err := client.CreateWindow(extra)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Window %s created\n", windowID)
				return nil
			})
		},
	}
	cmd.Flags().StringArrayVar(&nvimArgs, "arg", nil, "Extra nvim argument (repeatable)")
	return cmd
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
