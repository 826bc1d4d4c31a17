package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newCheckCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "check <child> <parent>",
		Short: "Report whether a tag is a descendant of another",
		Long: `Print true when child equals parent or lies below it in the loaded
hierarchy, false otherwise.

Examples:
  tagctl check Status.Debuff.Slow Status`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, _, release, err := a.openRegistry(cmd.Context())
			if err != nil {
				return err
			}
			defer release()

			child := reg.ResolveID(args[0])
			parent := reg.ResolveID(args[1])
			fmt.Fprintln(cmd.OutOrStdout(), reg.IsDescendantOf(child, parent))
			return nil
		},
	}
}
