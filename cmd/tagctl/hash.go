package main

import (
	"errors"
	"fmt"

	gameplaytags "github.com/mkislenko/com.radiodecadance.gameplaytags"
	"github.com/spf13/cobra"
)

func newHashCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "hash <path>...",
		Short: "Print the ID of each tag path",
		Long: `Print the ID each tag path hashes to. No tag source is needed: IDs
depend only on the canonical path.

Examples:
  tagctl hash Combat.Damage.Fire
  tagctl hash "Status . Debuff" Status.Buff`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var errs []error
			for _, raw := range args {
				path, err := gameplaytags.Canonicalize(raw)
				if err != nil {
					errs = append(errs, err)
					continue
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%d\t%s\n", gameplaytags.FromPath(path).Raw(), path)
			}
			return errors.Join(errs...)
		},
	}
}
