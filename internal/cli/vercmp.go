package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alpmgo/alpm-go/pkg/alpm"
)

func (c *CLI) vercmpCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "vercmp <version1> <version2>",
		Short: "Compare two package versions",
		Long: `Compare two version strings of the form [epoch:]version[-release] and print
-1 if the first is older, 0 if they are equal and 1 if the first is newer.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := alpm.Vercmp(args[0], args[1])
			if err != nil {
				return err
			}
			c.Logger.Debug("compared versions", "a", args[0], "b", args[1], "result", res)
			fmt.Fprintln(cmd.OutOrStdout(), int(res))
			return nil
		},
	}
}

func (c *CLI) versionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the binding and libalpm versions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s %s\n", appName, alpm.WrapperVersion())
			fmt.Fprintf(out, "libalpm %s\n", alpm.LibraryVersion())
			return nil
		},
	}
}
